// Package alias publishes an internal type.
package alias

import "example.com/lib/internal/impl"

// Thing is the public name of impl.Thing.
type Thing = impl.Thing // want "property example.com/lib/alias.Thing.Size: MISSING" "method example.com/lib/alias.Thing.Undone: MISSING"
