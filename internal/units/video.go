package units

import (
	"fmt"
	"strconv"
	"strings"
)

// Dimensions is an explicit width by height pixel size.
type Dimensions struct {
	Width  int
	Height int
}

// ParseDimensions accepts "WxH" with positive integer components.
func ParseDimensions(s string) (Dimensions, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	left, right, ok := strings.Cut(trimmed, "x")
	if !ok {
		return Dimensions{}, fmt.Errorf("dimensions %q: expected WxH (try 1280x720)", s)
	}
	width, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return Dimensions{}, fmt.Errorf("dimensions %q: invalid width", s)
	}
	height, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return Dimensions{}, fmt.Errorf("dimensions %q: invalid height", s)
	}
	if width <= 0 || height <= 0 {
		return Dimensions{}, fmt.Errorf("dimensions %q: width and height must be positive", s)
	}
	return Dimensions{Width: width, Height: height}, nil
}

func (d Dimensions) String() string {
	return strconv.Itoa(d.Width) + "x" + strconv.Itoa(d.Height)
}

// resolutionAliases maps the recognized resolution shorthand names to
// concrete dimensions. The table is closed: unknown aliases are rejected.
var resolutionAliases = map[string]Dimensions{
	"480p":  {854, 480},
	"720p":  {1280, 720},
	"1080p": {1920, 1080},
	"1440p": {2560, 1440},
	"2160p": {3840, 2160},
	"4k":    {3840, 2160},
}

// ParseResolution accepts either a resolution alias (720p, 1080p, 4k) or
// explicit "WxH" dimensions.
func ParseResolution(s string) (Dimensions, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if dims, ok := resolutionAliases[trimmed]; ok {
		return dims, nil
	}
	dims, err := ParseDimensions(trimmed)
	if err != nil {
		return Dimensions{}, fmt.Errorf("resolution %q: expected WxH or one of 480p, 720p, 1080p, 1440p, 4k", s)
	}
	return dims, nil
}

// Layout is a grid arrangement for montage and tile operations.
type Layout struct {
	Cols int
	Rows int
}

// ParseLayout accepts "CxR" such as "2x2" or "3x1".
func ParseLayout(s string) (Layout, error) {
	dims, err := ParseDimensions(s)
	if err != nil {
		return Layout{}, fmt.Errorf("layout %q: expected CxR (try 2x2, 3x1)", s)
	}
	return Layout{Cols: dims.Width, Rows: dims.Height}, nil
}

// Cells returns the number of grid cells the layout holds.
func (l Layout) Cells() int { return l.Cols * l.Rows }

func (l Layout) String() string {
	return strconv.Itoa(l.Cols) + "x" + strconv.Itoa(l.Rows)
}

// Rotation is a clockwise rotation normalized to one of 0, 90, 180, 270.
type Rotation int

// ParseRotation accepts any integer number of degrees and normalizes it,
// rejecting values that are not multiples of 90.
func ParseRotation(s string) (Rotation, error) {
	degrees, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("rotation %q: invalid number of degrees", s)
	}
	normalized := ((degrees % 360) + 360) % 360
	switch normalized {
	case 0, 90, 180, 270:
		return Rotation(normalized), nil
	default:
		return 0, fmt.Errorf("rotation %q: only 90, 180 and 270 are supported", s)
	}
}

func (r Rotation) String() string { return strconv.Itoa(int(r)) }

// Flip is a mirror axis.
type Flip int

const (
	FlipHorizontal Flip = iota
	FlipVertical
)

// ParseFlip accepts "horizontal"/"h" or "vertical"/"v".
func ParseFlip(s string) (Flip, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h":
		return FlipHorizontal, nil
	case "vertical", "v":
		return FlipVertical, nil
	default:
		return 0, fmt.Errorf("direction %q: expected horizontal or vertical", s)
	}
}

func (f Flip) String() string {
	if f == FlipVertical {
		return "vertical"
	}
	return "horizontal"
}
