// Package verify checks discovered symbols against the documentation-presence rule.
package verify

import (
	"github.com/codellm-devkit/docanalyzer-go/internal/surface"
	"github.com/codellm-devkit/docanalyzer-go/pkg/schema"
)

// Options controls the verification policy.
type Options struct {
	// FailOnInheritedOnly reports promoted methods whose only documentation is the
	// defining method's doc.
	FailOnInheritedOnly bool
}

// DefaultOptions returns the default policy.
func DefaultOptions() Options {
	return Options{FailOnInheritedOnly: true}
}

// Verify returns one violation per undocumented symbol, in the order of symbols. It
// has no side effects, so repeated calls over the same symbols return equal results.
func Verify(symbols []surface.Symbol, opts Options) []schema.Violation {
	var out []schema.Violation
	for _, sym := range symbols {
		if v, bad := Check(sym, opts); bad {
			out = append(out, v)
		}
	}
	return out
}

// Check classifies a single symbol. The boolean is false when the symbol passes.
func Check(sym surface.Symbol, opts Options) (schema.Violation, bool) {
	v := schema.Violation{Symbol: sym.Symbol}
	switch {
	case sym.Err != nil:
		v.Reason = schema.ReasonMissing
		v.Detail = sym.Err.Error()
	case !sym.Doc.Present:
		v.Reason = schema.ReasonMissing
	case sym.Doc.Blank():
		v.Reason = schema.ReasonEmpty
	case sym.Inherited() && opts.FailOnInheritedOnly:
		v.Reason = schema.ReasonInheritedOnly
	default:
		return schema.Violation{}, false
	}
	return v, true
}
