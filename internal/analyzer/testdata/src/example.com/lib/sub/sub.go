package sub // want "module example.com/lib/sub: MISSING"

import (
	"bytes"

	"example.com/lib"
)

// Wrapper embeds types of the parent package.
type Wrapper struct{ lib.Base; *lib.Foo } // want "method example.com/lib/sub.Wrapper.Bar: INHERITED_ONLY" "method example.com/lib/sub.Wrapper.Baz: MISSING" "method example.com/lib/sub.Wrapper.Method: INHERITED_ONLY"

// Buffer embeds a standard library type, whose methods are not checked.
type Buffer struct{ bytes.Buffer }
