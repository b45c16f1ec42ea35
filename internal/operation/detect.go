package operation

import "fmt"

// DetectKind names the analysis passes that read the input and report
// findings instead of producing media output.
type DetectKind string

const (
	DetectScenes   DetectKind = "scenes"
	DetectBlack    DetectKind = "black"
	DetectSilence  DetectKind = "silence"
	DetectLoudness DetectKind = "loudness"
)

// Detect runs one analysis pass over the input.
type Detect struct {
	Source string
	Kind   DetectKind
}

func (Detect) Family() Family         { return FamilyDetect }
func (d Detect) PrimaryInput() string { return d.Source }
func (d Detect) Summary() string      { return fmt.Sprintf("detect %s in %s", d.Kind, d.Source) }

// Probe reports the input's container, streams and duration.
type Probe struct {
	Source string
}

func (Probe) Family() Family         { return FamilyDetect }
func (p Probe) PrimaryInput() string { return p.Source }
func (p Probe) Summary() string      { return "inspect " + p.Source }
