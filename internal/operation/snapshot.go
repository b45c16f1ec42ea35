package operation

import (
	"fmt"

	"reel/internal/units"
)

// Thumbnail extracts one frame as an image.
type Thumbnail struct {
	Source string
	At     units.Timecode
}

func (Thumbnail) Family() Family         { return FamilySnapshot }
func (t Thumbnail) PrimaryInput() string { return t.Source }
func (t Thumbnail) Summary() string      { return fmt.Sprintf("thumbnail %s at %s", t.Source, t.At) }

// ThumbnailGrid renders evenly spaced frames into one contact sheet.
type ThumbnailGrid struct {
	Source string
	Layout units.Layout
}

func (ThumbnailGrid) Family() Family         { return FamilySnapshot }
func (t ThumbnailGrid) PrimaryInput() string { return t.Source }
func (t ThumbnailGrid) Summary() string {
	return fmt.Sprintf("thumbnail grid %s of %s", t.Layout, t.Source)
}

// ExtractFrames writes a frame image every interval.
type ExtractFrames struct {
	Source   string
	Interval units.Timecode
}

func (ExtractFrames) Family() Family         { return FamilySnapshot }
func (e ExtractFrames) PrimaryInput() string { return e.Source }
func (e ExtractFrames) Summary() string {
	return fmt.Sprintf("extract frames from %s every %s", e.Source, e.Interval)
}

// SplitSegments cuts the input into pieces, either every fixed interval
// or into a fixed number of equal parts.
type SplitSegments struct {
	Source   string
	Interval units.Timecode
	Parts    int
}

func (SplitSegments) Family() Family         { return FamilySnapshot }
func (s SplitSegments) PrimaryInput() string { return s.Source }
func (s SplitSegments) Summary() string {
	if s.Parts > 0 {
		return fmt.Sprintf("split %s into %d parts", s.Source, s.Parts)
	}
	return fmt.Sprintf("split %s every %s", s.Source, s.Interval)
}
