package operation

import (
	"fmt"

	"reel/internal/units"
)

// SimpleEffectKind names the effects that take no parameters.
type SimpleEffectKind string

const (
	EffectGrayscale SimpleEffectKind = "grayscale"
	EffectSepia     SimpleEffectKind = "sepia"
	EffectDenoise   SimpleEffectKind = "denoise"
	EffectStabilize SimpleEffectKind = "stabilize"
)

// SimpleEffect applies one parameterless video filter.
type SimpleEffect struct {
	Source string
	Kind   SimpleEffectKind
}

func (SimpleEffect) Family() Family         { return FamilyEffect }
func (e SimpleEffect) PrimaryInput() string { return e.Source }
func (e SimpleEffect) Summary() string      { return fmt.Sprintf("apply %s to %s", e.Kind, e.Source) }

// ColorAdjust changes brightness, contrast and saturation, or applies a
// named color preset. Adjustments are -100..100; zero means unchanged.
type ColorAdjust struct {
	Source     string
	Brightness float64
	Contrast   float64
	Saturation float64
	Preset     ColorPreset
}

func (ColorAdjust) Family() Family         { return FamilyEffect }
func (c ColorAdjust) PrimaryInput() string { return c.Source }
func (c ColorAdjust) Summary() string {
	if c.Preset != "" {
		return fmt.Sprintf("apply %s preset to %s", c.Preset, c.Source)
	}
	return fmt.Sprintf("adjust colors of %s", c.Source)
}

// VintageFilm applies era-specific film grain and grading.
type VintageFilm struct {
	Source string
	Era    FilmEra
}

func (VintageFilm) Family() Family         { return FamilyEffect }
func (v VintageFilm) PrimaryInput() string { return v.Source }
func (v VintageFilm) Summary() string      { return fmt.Sprintf("apply %s film look to %s", v.Era, v.Source) }

// Vignette darkens the frame edges.
type Vignette struct {
	Source    string
	Intensity float64
	Size      float64
}

func (Vignette) Family() Family         { return FamilyEffect }
func (v Vignette) PrimaryInput() string { return v.Source }
func (v Vignette) Summary() string      { return "apply vignette to " + v.Source }

// BlurRegion blurs one rectangle of the frame.
type BlurRegion struct {
	Source string
	Region units.Region
}

func (BlurRegion) Family() Family         { return FamilyEffect }
func (b BlurRegion) PrimaryInput() string { return b.Source }
func (b BlurRegion) Summary() string      { return fmt.Sprintf("blur region %s of %s", b.Region, b.Source) }

// Fade fades video and audio in and/or out.
type Fade struct {
	Source string
	In     units.Timecode
	Out    units.Timecode
}

func (Fade) Family() Family         { return FamilyEffect }
func (f Fade) PrimaryInput() string { return f.Source }
func (f Fade) Summary() string      { return "fade " + f.Source }

// RemoveBackground chroma-keys a color out of the frame.
type RemoveBackground struct {
	Source string
	Key    units.Color
}

func (RemoveBackground) Family() Family         { return FamilyEffect }
func (r RemoveBackground) PrimaryInput() string { return r.Source }
func (r RemoveBackground) Summary() string {
	return fmt.Sprintf("remove %s background from %s", r.Key, r.Source)
}
