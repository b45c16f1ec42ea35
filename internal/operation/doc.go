// Package operation defines the canonical, validated model of one
// user-requested media transformation and builds it from a grammar
// ParseTree. Every operation family is a distinct struct with a
// statically known field set; out-of-range values, unknown presets,
// mutually exclusive targets and arity mismatches are rejected here, at
// construction, so the compiler and planner only ever see valid
// operations.
package operation
