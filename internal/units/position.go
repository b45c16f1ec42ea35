package units

import (
	"fmt"
	"strconv"
	"strings"
)

// AnchorKind names the placement anchors for overlays and drawn text.
type AnchorKind int

const (
	AnchorTopLeft AnchorKind = iota
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
	AnchorCenter
	AnchorTop
	AnchorBottom
	AnchorCustom
)

// Anchor is a placement on the output frame, either a named corner/edge
// or explicit pixel coordinates.
type Anchor struct {
	Kind AnchorKind
	X    int
	Y    int
}

// overlayMargin keeps anchored overlays off the frame edge.
const overlayMargin = 10

// ParseAnchor accepts anchor names ("top-left", "bottom right", "center")
// or explicit "X,Y" pixel coordinates.
func ParseAnchor(s string) (Anchor, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	normalized := strings.NewReplacer(" ", "-", "_", "-").Replace(trimmed)
	switch normalized {
	case "top-left", "topleft":
		return Anchor{Kind: AnchorTopLeft}, nil
	case "top-right", "topright":
		return Anchor{Kind: AnchorTopRight}, nil
	case "bottom-left", "bottomleft":
		return Anchor{Kind: AnchorBottomLeft}, nil
	case "bottom-right", "bottomright":
		return Anchor{Kind: AnchorBottomRight}, nil
	case "center", "centre", "middle":
		return Anchor{Kind: AnchorCenter}, nil
	case "top":
		return Anchor{Kind: AnchorTop}, nil
	case "bottom":
		return Anchor{Kind: AnchorBottom}, nil
	}
	left, right, ok := strings.Cut(trimmed, ",")
	if !ok {
		return Anchor{}, fmt.Errorf("position %q: expected an anchor name or X,Y coordinates", s)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(left))
	y, errY := strconv.Atoi(strings.TrimSpace(right))
	if errX != nil || errY != nil || x < 0 || y < 0 {
		return Anchor{}, fmt.Errorf("position %q: coordinates must be non-negative integers", s)
	}
	return Anchor{Kind: AnchorCustom, X: x, Y: y}, nil
}

// XYExpr returns the filter expressions for the anchor in terms of the main
// and overlay dimensions (W/H are the base, w/h the overlaid element).
func (a Anchor) XYExpr() (string, string) {
	m := strconv.Itoa(overlayMargin)
	switch a.Kind {
	case AnchorTopLeft:
		return m, m
	case AnchorTopRight:
		return "W-w-" + m, m
	case AnchorBottomLeft:
		return m, "H-h-" + m
	case AnchorBottomRight:
		return "W-w-" + m, "H-h-" + m
	case AnchorCenter:
		return "(W-w)/2", "(H-h)/2"
	case AnchorTop:
		return "(W-w)/2", m
	case AnchorBottom:
		return "(W-w)/2", "H-h-" + m
	default:
		return strconv.Itoa(a.X), strconv.Itoa(a.Y)
	}
}

func (a Anchor) String() string {
	switch a.Kind {
	case AnchorTopLeft:
		return "top-left"
	case AnchorTopRight:
		return "top-right"
	case AnchorBottomLeft:
		return "bottom-left"
	case AnchorBottomRight:
		return "bottom-right"
	case AnchorCenter:
		return "center"
	case AnchorTop:
		return "top"
	case AnchorBottom:
		return "bottom"
	default:
		return strconv.Itoa(a.X) + "," + strconv.Itoa(a.Y)
	}
}

// namedColors is the palette of color names accepted in sentences. Values
// are RGB hex without the leading marker.
var namedColors = map[string]string{
	"black":   "000000",
	"white":   "ffffff",
	"red":     "ff0000",
	"green":   "008000",
	"blue":    "0000ff",
	"yellow":  "ffff00",
	"cyan":    "00ffff",
	"magenta": "ff00ff",
	"gray":    "808080",
	"grey":    "808080",
	"orange":  "ffa500",
	"purple":  "800080",
	"pink":    "ffc0cb",
}

// Color is an RGB color carried as six lowercase hex digits.
type Color struct {
	hex string
}

// ParseColor accepts a color name or a "#rrggbb"/"rrggbb" hex triplet.
func ParseColor(s string) (Color, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[trimmed]; ok {
		return Color{hex: hex}, nil
	}
	hex := strings.TrimPrefix(trimmed, "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("color %q: expected a name or 6-digit hex", s)
	}
	for _, c := range hex {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return Color{}, fmt.Errorf("color %q: invalid hex digit %q", s, c)
		}
	}
	return Color{hex: hex}, nil
}

// FFmpeg renders the color in the 0xRRGGBB form filters accept.
func (c Color) FFmpeg() string { return "0x" + c.hex }

func (c Color) String() string { return "#" + c.hex }

// Opacity is an alpha value in [0, 1].
type Opacity float64

// ParseOpacity accepts "0.5", "50%" or "50" (values above 1 are percent).
func ParseOpacity(s string) (Opacity, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	percent := strings.HasSuffix(trimmed, "%")
	trimmed = strings.TrimSuffix(trimmed, "%")
	value, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
	if err != nil {
		return 0, fmt.Errorf("opacity %q: invalid number", s)
	}
	if percent || value > 1 {
		value /= 100
	}
	if value < 0 || value > 1 {
		return 0, fmt.Errorf("opacity %q: must be between 0 and 1 (or 0%% and 100%%)", s)
	}
	return Opacity(value), nil
}

func (o Opacity) String() string {
	return strconv.FormatFloat(float64(o), 'f', -1, 64)
}

// Region is a pixel rectangle used for crops.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// ParseRegion accepts "x,y,width,height" such as "100,100,200,200".
func ParseRegion(s string) (Region, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("region %q: expected x,y,width,height (try 100,100,200,200)", s)
	}
	values := make([]int, 4)
	for i, part := range parts {
		value, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || value < 0 {
			return Region{}, fmt.Errorf("region %q: invalid component %q", s, part)
		}
		values[i] = value
	}
	if values[2] == 0 || values[3] == 0 {
		return Region{}, fmt.Errorf("region %q: width and height must be positive", s)
	}
	return Region{X: values[0], Y: values[1], Width: values[2], Height: values[3]}, nil
}

func (r Region) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

// ScaleKind distinguishes percent scales from explicit pixel targets.
type ScaleKind int

const (
	ScalePercent ScaleKind = iota
	ScalePixels
)

// Scale is a resize target: a percentage of the source or explicit pixels.
type Scale struct {
	Kind    ScaleKind
	Percent float64
	Pixels  Dimensions
}

// ParseScale accepts "50%" or explicit dimensions / resolution aliases.
func ParseScale(s string) (Scale, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(trimmed, "%") {
		value, err := strconv.ParseFloat(strings.TrimSuffix(trimmed, "%"), 64)
		if err != nil || value <= 0 {
			return Scale{}, fmt.Errorf("scale %q: expected a positive percentage", s)
		}
		return Scale{Kind: ScalePercent, Percent: value}, nil
	}
	dims, err := ParseResolution(trimmed)
	if err != nil {
		return Scale{}, err
	}
	return Scale{Kind: ScalePixels, Pixels: dims}, nil
}

func (sc Scale) String() string {
	if sc.Kind == ScalePercent {
		return strconv.FormatFloat(sc.Percent, 'f', -1, 64) + "%"
	}
	return sc.Pixels.String()
}
