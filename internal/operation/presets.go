package operation

import (
	"fmt"
	"strings"

	"reel/internal/units"
)

// QualityPreset maps a named quality level to a constant rate factor.
type QualityPreset struct {
	Name string
	CRF  int
}

var qualityPresets = map[string]QualityPreset{
	"low":    {"low", 28},
	"medium": {"medium", 23},
	"high":   {"high", 18},
	"ultra":  {"ultra", 15},
}

// ParseQualityPreset accepts "high", "high-quality" and the like. Unknown
// names are an error, never a silent default.
func ParseQualityPreset(s string) (QualityPreset, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, "-quality")
	if p, ok := qualityPresets[name]; ok {
		return p, nil
	}
	return QualityPreset{}, fmt.Errorf("quality %q: expected low, medium, high or ultra", s)
}

// PlatformPreset bundles the dimension, duration cap and bitrate a social
// platform expects. Expansion happens before graph construction so the
// compiler only sees concrete numbers.
type PlatformPreset struct {
	Name        string
	Dimensions  units.Dimensions
	MaxDuration units.Timecode
	Bitrate     units.Bitrate
}

var platformPresets = map[string]PlatformPreset{
	"tiktok":         {"tiktok", units.Dimensions{Width: 1080, Height: 1920}, units.Timecode(180_000), units.Bitrate(6_000_000)},
	"instagram":      {"instagram", units.Dimensions{Width: 1080, Height: 1350}, units.Timecode(90_000), units.Bitrate(5_000_000)},
	"story":          {"story", units.Dimensions{Width: 1080, Height: 1920}, units.Timecode(15_000), units.Bitrate(4_000_000)},
	"youtube-shorts": {"youtube-shorts", units.Dimensions{Width: 1080, Height: 1920}, units.Timecode(60_000), units.Bitrate(8_000_000)},
	"twitter":        {"twitter", units.Dimensions{Width: 1280, Height: 720}, units.Timecode(140_000), units.Bitrate(5_000_000)},
}

var platformAliases = map[string]string{
	"ig":     "instagram",
	"tt":     "tiktok",
	"shorts": "youtube-shorts",
	"x":      "twitter",
}

// LookupPlatform resolves a platform name or alias. The bool reports
// whether the name is a platform at all.
func LookupPlatform(s string) (PlatformPreset, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	if canonical, ok := platformAliases[name]; ok {
		name = canonical
	}
	p, ok := platformPresets[name]
	return p, ok
}

// ColorPreset is a named color-grading curve applied by the filter and
// color-grade operations.
type ColorPreset string

const (
	ColorVintage    ColorPreset = "vintage"
	ColorSepia      ColorPreset = "sepia"
	ColorBlackWhite ColorPreset = "black-and-white"
	ColorCinematic  ColorPreset = "cinematic"
	ColorWarm       ColorPreset = "warm"
	ColorCool       ColorPreset = "cool"
	ColorDramatic   ColorPreset = "dramatic"
)

var colorPresets = map[string]ColorPreset{
	"vintage":         ColorVintage,
	"sepia":           ColorSepia,
	"black-and-white": ColorBlackWhite,
	"bw":              ColorBlackWhite,
	"cinematic":       ColorCinematic,
	"warm":            ColorWarm,
	"cool":            ColorCool,
	"dramatic":        ColorDramatic,
}

// ParseColorPreset rejects unknown preset names.
func ParseColorPreset(s string) (ColorPreset, error) {
	if p, ok := colorPresets[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p, nil
	}
	return "", fmt.Errorf("preset %q: expected vintage, sepia, black-and-white, cinematic, warm, cool or dramatic", s)
}

// FilmEra selects the grain and grade of the vintage-film effect.
type FilmEra string

const (
	EraClassic   FilmEra = "classic"
	EraSeventies FilmEra = "70s"
	EraEighties  FilmEra = "80s"
	EraNineties  FilmEra = "90s"
)

// ParseFilmEra defaults empty input to the classic look.
func ParseFilmEra(s string) (FilmEra, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "classic":
		return EraClassic, nil
	case "70s":
		return EraSeventies, nil
	case "80s":
		return EraEighties, nil
	case "90s":
		return EraNineties, nil
	default:
		return "", fmt.Errorf("era %q: expected 70s, 80s, 90s or classic", s)
	}
}

// convertFormats are the non-platform targets of the convert verb.
var convertFormats = map[string]struct{}{
	"gif":          {},
	"animated-gif": {},
	"mp4":          {},
	"webm":         {},
	"mkv":          {},
	"mov":          {},
	"mp3":          {},
	"wav":          {},
	"iphone":       {},
	"android":      {},
}
