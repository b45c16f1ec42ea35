package operation

import (
	"fmt"

	"reel/internal/units"
)

// Trim cuts the source to [Start, End).
type Trim struct {
	Source string
	Start  units.Timecode
	End    units.Timecode
}

func (Trim) Family() Family         { return FamilyEdit }
func (t Trim) PrimaryInput() string { return t.Source }
func (t Trim) Summary() string {
	return fmt.Sprintf("trim %s from %s to %s", t.Source, t.Start, t.End)
}

// Resize scales the source to a percentage or explicit dimensions.
type Resize struct {
	Source string
	Target units.Scale
}

func (Resize) Family() Family         { return FamilyEdit }
func (r Resize) PrimaryInput() string { return r.Source }
func (r Resize) Summary() string      { return fmt.Sprintf("resize %s to %s", r.Source, r.Target) }

// Crop cuts the source to centered WxH dimensions.
type Crop struct {
	Source string
	Size   units.Dimensions
}

func (Crop) Family() Family         { return FamilyEdit }
func (c Crop) PrimaryInput() string { return c.Source }
func (c Crop) Summary() string      { return fmt.Sprintf("crop %s to %s", c.Source, c.Size) }

// Rotate turns the source clockwise by a multiple of 90 degrees.
type Rotate struct {
	Source  string
	Degrees units.Rotation
}

func (Rotate) Family() Family         { return FamilyEdit }
func (r Rotate) PrimaryInput() string { return r.Source }
func (r Rotate) Summary() string      { return fmt.Sprintf("rotate %s by %s degrees", r.Source, r.Degrees) }

// Flip mirrors the source across an axis.
type Flip struct {
	Source    string
	Direction units.Flip
}

func (Flip) Family() Family         { return FamilyEdit }
func (f Flip) PrimaryInput() string { return f.Source }
func (f Flip) Summary() string      { return fmt.Sprintf("flip %s %s", f.Source, f.Direction) }

// Fps changes the output frame rate.
type Fps struct {
	Source string
	Rate   int
}

func (Fps) Family() Family         { return FamilyEdit }
func (f Fps) PrimaryInput() string { return f.Source }
func (f Fps) Summary() string      { return fmt.Sprintf("set %s to %d fps", f.Source, f.Rate) }

// Loop repeats the source a whole number of times.
type Loop struct {
	Source string
	Times  int
}

func (Loop) Family() Family         { return FamilyEdit }
func (l Loop) PrimaryInput() string { return l.Source }
func (l Loop) Summary() string      { return fmt.Sprintf("loop %s %d times", l.Source, l.Times) }

// Speed changes playback rate; KeepPitch time-stretches audio without a
// pitch shift.
type Speed struct {
	Source    string
	Factor    units.SpeedFactor
	KeepPitch bool
}

func (Speed) Family() Family         { return FamilySpeed }
func (s Speed) PrimaryInput() string { return s.Source }
func (s Speed) Summary() string      { return fmt.Sprintf("change speed of %s by %s", s.Source, s.Factor) }

// Reverse plays the source backwards.
type Reverse struct {
	Source string
}

func (Reverse) Family() Family         { return FamilySpeed }
func (r Reverse) PrimaryInput() string { return r.Source }
func (r Reverse) Summary() string      { return "reverse " + r.Source }
