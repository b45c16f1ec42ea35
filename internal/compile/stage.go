package compile

import "fmt"

// OutputKind classifies where a stage's output goes.
type OutputKind int

const (
	// OutputFinal is the user-visible result; the planner names it.
	OutputFinal OutputKind = iota
	// OutputIntermediate is a scratch file consumed by a later stage
	// and removed when the session ends.
	OutputIntermediate
	// OutputDiscard sends the encode to the null device. Analysis
	// passes and first encoding passes use it.
	OutputDiscard
)

// Output is a symbolic output slot. The planner turns it into a path.
type Output struct {
	Kind OutputKind
	// Ext is the output extension without the dot. Empty keeps the
	// source extension.
	Ext string
	// Suffix is appended to the source stem for derived final names,
	// or is the scratch file base name for intermediates.
	Suffix string
	// Pattern marks numbered multi-file outputs; Suffix then carries
	// a printf sequence such as "frame-%04d".
	Pattern bool
}

// Stage is one ffmpeg invocation. Inputs may reference earlier stage
// outputs via Ref or scratch files via Scratch.
type Stage struct {
	Name      string
	InputArgs []string
	Inputs    []string
	Args      []string
	Output    Output
	// ListEntries, when set, are written to a concat list file in the
	// scratch directory before the stage runs; the stage's single
	// input is that list file.
	ListEntries []string
	// DependsOn is the index of the stage that must finish first, or
	// -1 when the stage has no prerequisite.
	DependsOn int
}

// Ref returns the placeholder the planner replaces with stage i's
// resolved output path.
func Ref(i int) string { return fmt.Sprintf("{stage%d}", i) }

// Scratch returns a placeholder path inside the session scratch
// directory.
func Scratch(name string) string { return "{scratch}/" + name }
