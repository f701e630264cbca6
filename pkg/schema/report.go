package schema

import "fmt"

// ============================================================================
// Violations
// ============================================================================

// Reason explains why a symbol failed the documentation-presence rule.
type Reason string

const (
	ReasonMissing       Reason = "MISSING"
	ReasonEmpty         Reason = "EMPTY"
	ReasonInheritedOnly Reason = "INHERITED_ONLY"
)

// Violation is a public symbol that is not documented.
type Violation struct {
	Symbol Symbol `json:"symbol" yaml:"symbol"`
	Reason Reason `json:"reason" yaml:"reason"`

	// Detail holds the introspection error, if the violation was caused by one.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// String renders the violation as "<kind> <qualified_name>: <reason>".
func (v Violation) String() string {
	return fmt.Sprintf("%s %s: %s", v.Symbol.Kind, v.Symbol.QualifiedName, v.Reason)
}

// ============================================================================
// Report
// ============================================================================

// Report is the root of the checker output for one library root.
type Report struct {
	Metadata   Metadata    `json:"metadata" yaml:"metadata"`
	Checked    int         `json:"checked" yaml:"checked"`                           // number of public symbols verified
	Suppressed int         `json:"suppressed,omitempty" yaml:"suppressed,omitempty"` // violations accepted by the baseline
	Violations []Violation `json:"violations" yaml:"violations"`
}

// Metadata describes the run that produced a Report.
type Metadata struct {
	Analyzer           string `json:"analyzer" yaml:"analyzer"`
	Version            string `json:"version" yaml:"version"`
	Root               string `json:"root" yaml:"root"`
	Module             string `json:"module,omitempty" yaml:"module,omitempty"`
	Timestamp          string `json:"timestamp" yaml:"timestamp"`
	GoVersion          string `json:"go_version" yaml:"go_version"`
	AnalysisDurationMs int64  `json:"analysis_duration_ms" yaml:"analysis_duration_ms"`
}

// OK reports whether the report carries no violations.
func (r *Report) OK() bool { return len(r.Violations) == 0 }
