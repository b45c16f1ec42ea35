package operation

import (
	"fmt"

	"reel/internal/units"
)

// Watermark overlays a logo image on the video.
type Watermark struct {
	Source   string
	Logo     string
	Position units.Anchor
	Opacity  units.Opacity
	Scale    *units.Scale
}

func (Watermark) Family() Family         { return FamilyComposite }
func (w Watermark) PrimaryInput() string { return w.Source }
func (w Watermark) Summary() string {
	return fmt.Sprintf("watermark %s with %s at %s", w.Source, w.Logo, w.Position)
}

// TextOverlay draws text on the video.
type TextOverlay struct {
	Source    string
	Text      string
	Position  units.Anchor
	FontSize  int
	Color     units.Color
	Timestamp bool
}

func (TextOverlay) Family() Family         { return FamilyComposite }
func (t TextOverlay) PrimaryInput() string { return t.Source }
func (t TextOverlay) Summary() string {
	return fmt.Sprintf("add text %q to %s at %s", t.Text, t.Source, t.Position)
}

// Overlay places one video over another with optional transparency.
type Overlay struct {
	Source   string
	Over     string
	Position units.Anchor
	Opacity  units.Opacity
}

func (Overlay) Family() Family         { return FamilyComposite }
func (o Overlay) PrimaryInput() string { return o.Source }
func (o Overlay) Summary() string {
	return fmt.Sprintf("overlay %s on %s at %s", o.Over, o.Source, o.Position)
}

// Pip composes a small picture-in-picture video over a base video. The
// overlay is scaled to a quarter of the base width.
type Pip struct {
	Source   string
	Over     string
	Position units.Anchor
}

func (Pip) Family() Family         { return FamilyComposite }
func (p Pip) PrimaryInput() string { return p.Source }
func (p Pip) Summary() string {
	return fmt.Sprintf("pip %s on %s at %s", p.Over, p.Source, p.Position)
}

// SplitScreen shows two videos side by side or stacked.
type SplitScreen struct {
	A        string
	B        string
	Vertical bool
}

func (SplitScreen) Family() Family         { return FamilyComposite }
func (s SplitScreen) PrimaryInput() string { return s.A }
func (s SplitScreen) Summary() string {
	return fmt.Sprintf("split-screen %s and %s", s.A, s.B)
}

// Montage arranges inputs in a grid; len(Inputs) equals Layout.Cells().
type Montage struct {
	Inputs []string
	Layout units.Layout
}

func (Montage) Family() Family         { return FamilyComposite }
func (m Montage) PrimaryInput() string { return m.Inputs[0] }
func (m Montage) Summary() string {
	return fmt.Sprintf("montage %d videos in a %s grid", len(m.Inputs), m.Layout)
}

// Tile repeats one input across a grid.
type Tile struct {
	Source string
	Layout units.Layout
}

func (Tile) Family() Family         { return FamilyComposite }
func (t Tile) PrimaryInput() string { return t.Source }
func (t Tile) Summary() string      { return fmt.Sprintf("tile %s %s", t.Source, t.Layout) }

// Merge re-encodes two videos into one sequential video.
type Merge struct {
	A string
	B string
}

func (Merge) Family() Family         { return FamilyComposite }
func (m Merge) PrimaryInput() string { return m.A }
func (m Merge) Summary() string      { return fmt.Sprintf("merge %s and %s", m.A, m.B) }

// Concat joins two or more videos without re-encoding.
type Concat struct {
	Inputs []string
}

func (Concat) Family() Family         { return FamilyComposite }
func (c Concat) PrimaryInput() string { return c.Inputs[0] }
func (c Concat) Summary() string      { return fmt.Sprintf("concat %d videos", len(c.Inputs)) }

// Crossfade blends the end of one video into the start of another.
type Crossfade struct {
	A        string
	B        string
	Duration units.Timecode
}

func (Crossfade) Family() Family         { return FamilyComposite }
func (c Crossfade) PrimaryInput() string { return c.A }
func (c Crossfade) Summary() string {
	return fmt.Sprintf("crossfade %s and %s over %s", c.A, c.B, c.Duration)
}

// TransitionKind names the supported inter-clip transitions.
type TransitionKind string

const (
	TransitionFade  TransitionKind = "fade"
	TransitionWipe  TransitionKind = "wipe"
	TransitionSlide TransitionKind = "slide"
)

// Transition joins two videos with an animated transition.
type Transition struct {
	A    string
	B    string
	Kind TransitionKind
}

func (Transition) Family() Family         { return FamilyComposite }
func (t Transition) PrimaryInput() string { return t.A }
func (t Transition) Summary() string {
	return fmt.Sprintf("transition %s to %s (%s)", t.A, t.B, t.Kind)
}

// Compare renders two videos side by side for visual comparison.
type Compare struct {
	A string
	B string
}

func (Compare) Family() Family         { return FamilyComposite }
func (c Compare) PrimaryInput() string { return c.A }
func (c Compare) Summary() string      { return fmt.Sprintf("compare %s and %s", c.A, c.B) }
