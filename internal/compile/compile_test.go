package compile

import (
	"errors"
	"strings"
	"testing"

	"reel/internal/engine"
	"reel/internal/media/ffprobe"
	"reel/internal/operation"
	"reel/internal/units"
)

func videoFacts(durationMs int64) ffprobe.Facts {
	return ffprobe.Facts{
		Duration: units.Timecode(durationMs),
		Width:    1920,
		Height:   1080,
		FPS:      30,
		HasVideo: true,
		HasAudio: true,
	}
}

func hasArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func argAfter(t *testing.T, args []string, flag string) string {
	t.Helper()
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	t.Fatalf("flag %s not found in %v", flag, args)
	return ""
}

func TestCompileCompressTwoPassStages(t *testing.T) {
	size, _ := units.ParseSize("10mb")
	stages, err := Compile(operation.Compress{Source: "in.mp4", Size: size, TwoPass: true}, videoFacts(100_000))
	if err != nil {
		t.Fatal(err)
	}
	if len(stages) != 2 {
		t.Fatalf("expected exactly 2 stages, got %d", len(stages))
	}
	first, second := stages[0], stages[1]
	if first.Output.Kind != OutputDiscard {
		t.Fatalf("pass 1 output = %+v", first.Output)
	}
	if !hasArg(first.Args, "-an") || argAfter(t, first.Args, "-pass") != "1" {
		t.Fatalf("pass 1 args = %v", first.Args)
	}
	if second.DependsOn != 0 {
		t.Fatalf("pass 2 depends on %d", second.DependsOn)
	}
	if argAfter(t, second.Args, "-pass") != "2" || !hasArg(second.Args, "+faststart") {
		t.Fatalf("pass 2 args = %v", second.Args)
	}
	if argAfter(t, first.Args, "-b:v") != argAfter(t, second.Args, "-b:v") {
		t.Fatal("passes disagree on video bitrate")
	}
}

func TestCompileCompressSinglePass(t *testing.T) {
	size, _ := units.ParseSize("10mb")
	stages, err := Compile(operation.Compress{Source: "in.mp4", Size: size}, videoFacts(100_000))
	if err != nil {
		t.Fatal(err)
	}
	if len(stages) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(stages))
	}
	if stages[0].DependsOn != -1 {
		t.Fatalf("unexpected dependency %d", stages[0].DependsOn)
	}
}

func TestCompileCompressSizeBudget(t *testing.T) {
	// 10 MiB over 100 seconds is 838860 bps total; audio clamps up to
	// 96 kbps and video takes the remainder.
	videoK, audioK := sizeBudget(units.Size(10*1024*1024), 100)
	if audioK != 96 {
		t.Fatalf("audio = %dk", audioK)
	}
	if videoK != 742 {
		t.Fatalf("video = %dk", videoK)
	}
}

func TestCompileCompressSizeNeedsDuration(t *testing.T) {
	size, _ := units.ParseSize("10mb")
	facts := videoFacts(0)
	_, err := Compile(operation.Compress{Source: "in.mp4", Size: size}, facts)
	if !errors.Is(err, engine.ErrCompilation) {
		t.Fatalf("want compilation error, got %v", err)
	}
}

func TestCompileGifPalette(t *testing.T) {
	stages, err := Compile(operation.Convert{Source: "in.mp4", Format: "gif"}, videoFacts(10_000))
	if err != nil {
		t.Fatal(err)
	}
	if len(stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(stages))
	}
	palette, render := stages[0], stages[1]
	if palette.Output.Kind != OutputIntermediate || palette.Output.Ext != "png" {
		t.Fatalf("palette output = %+v", palette.Output)
	}
	if !strings.Contains(palette.Args[1], "palettegen") {
		t.Fatalf("palette args = %v", palette.Args)
	}
	if render.DependsOn != 0 {
		t.Fatalf("render depends on %d", render.DependsOn)
	}
	if len(render.Inputs) != 2 || render.Inputs[1] != Ref(0) {
		t.Fatalf("render inputs = %v", render.Inputs)
	}
	if !strings.Contains(render.Args[1], "paletteuse") {
		t.Fatalf("render args = %v", render.Args)
	}
	if render.Output.Ext != "gif" {
		t.Fatalf("render output = %+v", render.Output)
	}
}

func TestCompileAudioOnlyRejectsVideoFilter(t *testing.T) {
	facts := ffprobe.Facts{HasAudio: true, Duration: units.Timecode(10_000)}
	scale, _ := units.ParseScale("50%")
	_, err := Compile(operation.Resize{Source: "song.mp3", Target: scale}, facts)
	if !errors.Is(err, engine.ErrCompilation) {
		t.Fatalf("want compilation error, got %v", err)
	}
}

func TestCompileTrimArgs(t *testing.T) {
	start, _ := units.ParseTimecode("0:30")
	end, _ := units.ParseTimecode("1:05:30")
	stages, err := Compile(operation.Trim{Source: "in.mp4", Start: start, End: end}, videoFacts(0))
	if err != nil {
		t.Fatal(err)
	}
	if got := argAfter(t, stages[0].Args, "-ss"); got != "00:00:30" {
		t.Fatalf("-ss = %q", got)
	}
	if got := argAfter(t, stages[0].Args, "-to"); got != "01:05:30" {
		t.Fatalf("-to = %q", got)
	}
}

func TestCompileMontageGraph(t *testing.T) {
	stages, err := Compile(operation.Montage{
		Inputs: []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4"},
		Layout: units.Layout{Cols: 2, Rows: 2},
	}, videoFacts(10_000))
	if err != nil {
		t.Fatal(err)
	}
	graph := argAfter(t, stages[0].Args, "-filter_complex")
	if strings.Count(graph, "hstack=inputs=2") != 2 {
		t.Fatalf("graph = %q", graph)
	}
	if !strings.Contains(graph, "vstack=inputs=2[v]") {
		t.Fatalf("graph = %q", graph)
	}
	if len(stages[0].Inputs) != 4 {
		t.Fatalf("inputs = %v", stages[0].Inputs)
	}
}

func TestCompileWatermarkGraph(t *testing.T) {
	stages, err := Compile(operation.Watermark{
		Source:   "in.mp4",
		Logo:     "logo.png",
		Position: units.Anchor{Kind: units.AnchorTopRight},
		Opacity:  0.5,
	}, videoFacts(10_000))
	if err != nil {
		t.Fatal(err)
	}
	graph := argAfter(t, stages[0].Args, "-filter_complex")
	if !strings.Contains(graph, "colorchannelmixer=aa=0.5") {
		t.Fatalf("graph = %q", graph)
	}
	if !strings.Contains(graph, "overlay=W-w-10:10") {
		t.Fatalf("graph = %q", graph)
	}
}

func TestCompileSpeedKeepsPitchOnRequest(t *testing.T) {
	stages, err := Compile(operation.Speed{Source: "in.mp4", Factor: 4, KeepPitch: true}, videoFacts(10_000))
	if err != nil {
		t.Fatal(err)
	}
	graph := argAfter(t, stages[0].Args, "-filter_complex")
	if !strings.Contains(graph, "setpts=PTS/4") {
		t.Fatalf("graph = %q", graph)
	}
	if !strings.Contains(graph, "atempo=2.0,atempo=2") {
		t.Fatalf("graph = %q", graph)
	}
}

func TestCompileDetectDiscardsOutput(t *testing.T) {
	stages, err := Compile(operation.Detect{Source: "in.mp4", Kind: operation.DetectScenes}, videoFacts(10_000))
	if err != nil {
		t.Fatal(err)
	}
	if stages[0].Output.Kind != OutputDiscard {
		t.Fatalf("output = %+v", stages[0].Output)
	}
	if !hasArg(stages[0].Args, "null") {
		t.Fatalf("args = %v", stages[0].Args)
	}
}

func TestCompileConcatListEntries(t *testing.T) {
	stages, err := Compile(operation.Concat{Inputs: []string{"a.mp4", "b.mp4", "c.mp4"}}, videoFacts(10_000))
	if err != nil {
		t.Fatal(err)
	}
	st := stages[0]
	if len(st.ListEntries) != 3 {
		t.Fatalf("list entries = %v", st.ListEntries)
	}
	if !hasArg(st.InputArgs, "concat") {
		t.Fatalf("input args = %v", st.InputArgs)
	}
	if !hasArg(st.Args, "copy") {
		t.Fatalf("args = %v", st.Args)
	}
}

func TestCompilePlatformCapsDuration(t *testing.T) {
	preset, ok := operation.LookupPlatform("story")
	if !ok {
		t.Fatal("story preset missing")
	}
	stages, err := Compile(operation.Convert{Source: "in.mp4", Platform: &preset}, videoFacts(60_000))
	if err != nil {
		t.Fatal(err)
	}
	if got := argAfter(t, stages[0].Args, "-t"); got != "15" {
		t.Fatalf("-t = %q", got)
	}
	vf := argAfter(t, stages[0].Args, "-vf")
	if !strings.Contains(vf, "1080:1920") {
		t.Fatalf("vf = %q", vf)
	}
}

func TestCompileRejectsDriverFamilies(t *testing.T) {
	_, err := Compile(operation.Batch{Pattern: "*.mp4", Verb: "convert"}, ffprobe.Facts{})
	if !errors.Is(err, engine.ErrCompilation) {
		t.Fatalf("want compilation error, got %v", err)
	}
}
