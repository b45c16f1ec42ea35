package compile

import (
	"fmt"
	"strings"

	"reel/internal/media/ffprobe"
	"reel/internal/operation"
	"reel/internal/units"
)

// complexStage wraps a filter_complex graph that ends in [v], keeping
// the base input's audio when present.
func complexStage(name string, inputs []string, graph, suffix string) Stage {
	vcodec, _ := codecsFor(inputs[0])
	return Stage{
		Name:   name,
		Inputs: inputs,
		Args: []string{
			"-filter_complex", graph, "-map", "[v]", "-map", "0:a?",
			"-c:v", vcodec, "-c:a", "copy",
		},
		Output:    Output{Suffix: suffix},
		DependsOn: -1,
	}
}

func compileWatermark(op operation.Watermark, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	x, y := op.Position.XYExpr()
	alpha := fmt.Sprintf("format=rgba,colorchannelmixer=aa=%s", num(float64(op.Opacity)))

	var graph string
	switch {
	case op.Scale != nil && op.Scale.Kind == units.ScalePercent:
		// scale2ref sizes the logo relative to the base frame width.
		graph = fmt.Sprintf("[1:v][0:v]scale2ref=w=iw*%s:h=ow/mdar[wmraw][base];[wmraw]%s[wm];[base][wm]overlay=%s:%s[v]",
			num(op.Scale.Percent/100), alpha, x, y)
	case op.Scale != nil:
		graph = fmt.Sprintf("[1:v]scale=%d:-1,%s[wm];[0:v][wm]overlay=%s:%s[v]",
			op.Scale.Pixels.Width, alpha, x, y)
	default:
		graph = fmt.Sprintf("[1:v]%s[wm];[0:v][wm]overlay=%s:%s[v]", alpha, x, y)
	}
	return []Stage{complexStage("watermark", []string{op.Source, op.Logo}, graph, "watermarked")}, nil
}

// escapeDrawtext quotes the characters drawtext treats specially.
func escapeDrawtext(s string) string {
	return strings.NewReplacer("\\", "\\\\", ":", "\\:", "'", "\\'").Replace(s)
}

// drawtextXY maps an anchor to drawtext coordinate expressions, which
// measure the rendered text as tw/th rather than an overlay stream.
func drawtextXY(a units.Anchor) (string, string) {
	switch a.Kind {
	case units.AnchorTopLeft:
		return "10", "10"
	case units.AnchorTopRight:
		return "w-tw-10", "10"
	case units.AnchorBottomLeft:
		return "10", "h-th-10"
	case units.AnchorBottomRight:
		return "w-tw-10", "h-th-10"
	case units.AnchorCenter:
		return "(w-tw)/2", "(h-th)/2"
	case units.AnchorTop:
		return "(w-tw)/2", "10"
	case units.AnchorBottom:
		return "(w-tw)/2", "h-th-10"
	default:
		x, y := a.XYExpr()
		return x, y
	}
}

func compileTextOverlay(op operation.TextOverlay, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	text := escapeDrawtext(op.Text)
	if op.Timestamp {
		text = "%{pts\\:hms}"
	}
	x, y := drawtextXY(op.Position)
	vf := fmt.Sprintf("drawtext=text='%s':fontsize=%d:fontcolor=%s:x=%s:y=%s",
		text, op.FontSize, op.Color.FFmpeg(), x, y)
	return []Stage{vfStage("draw text", op.Source, vf, "text")}, nil
}

func compileOverlay(op operation.Overlay, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	x, y := op.Position.XYExpr()
	graph := fmt.Sprintf("[1:v]format=rgba,colorchannelmixer=aa=%s[ov];[0:v][ov]overlay=%s:%s[v]",
		num(float64(op.Opacity)), x, y)
	return []Stage{complexStage("overlay", []string{op.Source, op.Over}, graph, "overlaid")}, nil
}

func compilePip(op operation.Pip, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	x, y := op.Position.XYExpr()
	graph := fmt.Sprintf("[1:v]scale=iw*0.25:-1[pip];[0:v][pip]overlay=%s:%s[v]", x, y)
	return []Stage{complexStage("pip", []string{op.Source, op.Over}, graph, "pip")}, nil
}

// hstackGraph scales two inputs to a shared height and joins them.
const hstackGraph = "[0:v]scale=-2:720[l];[1:v]scale=-2:720[r];[l][r]hstack=inputs=2[v]"

func compileSplitScreen(op operation.SplitScreen) ([]Stage, error) {
	graph := hstackGraph
	if op.Vertical {
		graph = "[0:v]scale=1280:-2[t];[1:v]scale=1280:-2[b];[t][b]vstack=inputs=2[v]"
	}
	return []Stage{complexStage("split-screen", []string{op.A, op.B}, graph, "splitscreen")}, nil
}

func compileCompare(op operation.Compare) ([]Stage, error) {
	return []Stage{complexStage("compare", []string{op.A, op.B}, hstackGraph, "comparison")}, nil
}

// gridGraph stacks pre-scaled cell labels into a Cols x Rows grid
// ending in [v].
func gridGraph(cells []string, layout units.Layout) string {
	var b strings.Builder
	if layout.Rows == 1 {
		for _, c := range cells {
			b.WriteString(c)
		}
		fmt.Fprintf(&b, "hstack=inputs=%d[v]", layout.Cols)
		return b.String()
	}
	rows := make([]string, 0, layout.Rows)
	for r := 0; r < layout.Rows; r++ {
		for c := 0; c < layout.Cols; c++ {
			b.WriteString(cells[r*layout.Cols+c])
		}
		label := fmt.Sprintf("[row%d]", r)
		fmt.Fprintf(&b, "hstack=inputs=%d%s;", layout.Cols, label)
		rows = append(rows, label)
	}
	for _, label := range rows {
		b.WriteString(label)
	}
	fmt.Fprintf(&b, "vstack=inputs=%d[v]", layout.Rows)
	return b.String()
}

func compileMontage(op operation.Montage) ([]Stage, error) {
	var b strings.Builder
	cells := make([]string, len(op.Inputs))
	for i := range op.Inputs {
		fmt.Fprintf(&b, "[%d:v]scale=320:240[c%d];", i, i)
		cells[i] = fmt.Sprintf("[c%d]", i)
	}
	b.WriteString(gridGraph(cells, op.Layout))
	return []Stage{{
		Name:      "montage",
		Inputs:    op.Inputs,
		Args:      []string{"-filter_complex", b.String(), "-map", "[v]", "-an", "-c:v", "libx264"},
		Output:    Output{Ext: "mp4", Suffix: "montage"},
		DependsOn: -1,
	}}, nil
}

func compileTile(op operation.Tile, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	n := op.Layout.Cells()
	var b strings.Builder
	fmt.Fprintf(&b, "[0:v]scale=320:240,split=%d", n)
	cells := make([]string, n)
	for i := 0; i < n; i++ {
		cells[i] = fmt.Sprintf("[c%d]", i)
		b.WriteString(cells[i])
	}
	b.WriteString(";")
	b.WriteString(gridGraph(cells, op.Layout))
	return []Stage{{
		Name:      "tile",
		Inputs:    []string{op.Source},
		Args:      []string{"-filter_complex", b.String(), "-map", "[v]", "-an", "-c:v", "libx264"},
		Output:    Output{Ext: "mp4", Suffix: "tiled"},
		DependsOn: -1,
	}}, nil
}

func compileMerge(op operation.Merge) ([]Stage, error) {
	graph := "[0:v][0:a][1:v][1:a]concat=n=2:v=1:a=1[v][a]"
	return []Stage{{
		Name:   "merge",
		Inputs: []string{op.A, op.B},
		Args: []string{
			"-filter_complex", graph, "-map", "[v]", "-map", "[a]",
			"-c:v", "libx264", "-c:a", "aac",
		},
		Output:    Output{Ext: "mp4", Suffix: "merged"},
		DependsOn: -1,
	}}, nil
}

func compileConcat(op operation.Concat) ([]Stage, error) {
	return []Stage{{
		Name:        "concat",
		InputArgs:   []string{"-f", "concat", "-safe", "0"},
		Inputs:      []string{Scratch("concat.txt")},
		Args:        []string{"-c", "copy"},
		ListEntries: op.Inputs,
		Output:      Output{Suffix: "joined"},
		DependsOn:   -1,
	}}, nil
}

func compileCrossfade(op operation.Crossfade, facts ffprobe.Facts) ([]Stage, error) {
	return xfadeStages("crossfade", op.A, op.B, "fade", op.Duration.Seconds(), facts, "crossfade")
}

func compileTransition(op operation.Transition, facts ffprobe.Facts) ([]Stage, error) {
	kind := "fade"
	switch op.Kind {
	case operation.TransitionWipe:
		kind = "wipeleft"
	case operation.TransitionSlide:
		kind = "slideleft"
	}
	return xfadeStages("transition", op.A, op.B, kind, 1.0, facts, "transition")
}

// xfadeStages blends the tail of the first clip into the second. The
// offset is measured against the first clip's duration.
func xfadeStages(name, a, b, transition string, duration float64, facts ffprobe.Facts, suffix string) ([]Stage, error) {
	if facts.Duration.Seconds() <= 0 {
		return nil, compileErr("cannot place a transition without a known duration")
	}
	offset := facts.Duration.Seconds() - duration
	if offset < 0 {
		offset = 0
	}
	graph := fmt.Sprintf("[0:v][1:v]xfade=transition=%s:duration=%s:offset=%s[v]",
		transition, num(duration), num(offset))
	return []Stage{{
		Name:   name,
		Inputs: []string{a, b},
		Args: []string{
			"-filter_complex", graph, "-map", "[v]", "-map", "0:a?",
			"-c:v", "libx264", "-c:a", "aac",
		},
		Output:    Output{Ext: "mp4", Suffix: suffix},
		DependsOn: -1,
	}}, nil
}
