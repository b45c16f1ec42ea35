package operation

import (
	"errors"
	"strings"
	"testing"

	"reel/internal/engine"
	"reel/internal/grammar"
	"reel/internal/units"
)

func resolve(t *testing.T, args ...string) *grammar.ParseTree {
	t.Helper()
	tree, err := grammar.Resolve(args)
	if err != nil {
		t.Fatalf("resolve %v: %v", args, err)
	}
	return tree
}

func TestBuildCompressSizeTarget(t *testing.T) {
	op, err := Build(resolve(t, "compress", "video.mp4", "to", "10mb", "--two-pass"))
	if err != nil {
		t.Fatal(err)
	}
	c, ok := op.(Compress)
	if !ok {
		t.Fatalf("got %T", op)
	}
	if c.Size.Bytes() != 10*1024*1024 {
		t.Fatalf("size = %d", c.Size.Bytes())
	}
	if !c.TwoPass {
		t.Fatal("two-pass not set")
	}
}

func TestBuildCompressQualityTarget(t *testing.T) {
	op, err := Build(resolve(t, "compress", "video.mp4", "to", "high-quality"))
	if err != nil {
		t.Fatal(err)
	}
	c := op.(Compress)
	if c.Quality == nil || c.Quality.CRF != 18 {
		t.Fatalf("quality = %+v", c.Quality)
	}
}

func TestBuildCompressTwoPassNeedsRateTarget(t *testing.T) {
	_, err := Build(resolve(t, "compress", "video.mp4", "to", "high-quality", "--two-pass"))
	if !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestBuildCompressRejectsBadSize(t *testing.T) {
	_, err := Build(resolve(t, "compress", "video.mp4", "to", "10xb"))
	if !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestBuildMontageArity(t *testing.T) {
	_, err := Build(resolve(t, "montage", "layout", "2x2", "a.mp4", "b.mp4", "c.mp4"))
	if !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "4 expected, 3 given") {
		t.Fatalf("arity message = %q", err.Error())
	}

	op, err := Build(resolve(t, "montage", "layout", "2x2", "a.mp4", "b.mp4", "c.mp4", "d.mp4"))
	if err != nil {
		t.Fatal(err)
	}
	if m := op.(Montage); len(m.Inputs) != 4 {
		t.Fatalf("inputs = %v", m.Inputs)
	}
}

func TestBuildTrimOrdering(t *testing.T) {
	op, err := Build(resolve(t, "trim", "video.mp4", "from", "0:30", "to", "1:00"))
	if err != nil {
		t.Fatal(err)
	}
	tr := op.(Trim)
	if tr.Start.Milliseconds() != 30_000 || tr.End.Milliseconds() != 60_000 {
		t.Fatalf("range = %s..%s", tr.Start, tr.End)
	}

	_, err = Build(resolve(t, "trim", "video.mp4", "from", "1:00", "to", "0:30"))
	if !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestBuildConvertPlatformPreset(t *testing.T) {
	op, err := Build(resolve(t, "convert", "video.mp4", "to", "tiktok"))
	if err != nil {
		t.Fatal(err)
	}
	c := op.(Convert)
	if c.Platform == nil || c.Platform.Dimensions != (units.Dimensions{Width: 1080, Height: 1920}) {
		t.Fatalf("platform = %+v", c.Platform)
	}
}

func TestBuildConvertUnknownFormat(t *testing.T) {
	_, err := Build(resolve(t, "convert", "video.mp4", "to", "xyz"))
	if !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestBuildSlowDownInvertsFactor(t *testing.T) {
	op, err := Build(resolve(t, "slow", "down", "video.mp4", "by", "2x"))
	if err != nil {
		t.Fatal(err)
	}
	s := op.(Speed)
	if s.Factor != 0.5 {
		t.Fatalf("factor = %v", s.Factor)
	}
}

func TestBuildWatermarkDefaults(t *testing.T) {
	op, err := Build(resolve(t, "watermark", "video.mp4", "logo.png", "at", "top-right", "--opacity", "0.5"))
	if err != nil {
		t.Fatal(err)
	}
	w := op.(Watermark)
	if w.Opacity != 0.5 {
		t.Fatalf("opacity = %v", w.Opacity)
	}
	if w.Position.Kind != units.AnchorTopRight {
		t.Fatalf("position = %v", w.Position)
	}
}

func TestBuildBatchWithCondition(t *testing.T) {
	op, err := Build(resolve(t, "batch", "convert", "*.mp4", "to", "gif", "--if", "duration < 30s"))
	if err != nil {
		t.Fatal(err)
	}
	b := op.(Batch)
	if b.Condition == nil || b.Condition.Op != OpLess || b.Condition.Duration.Milliseconds() != 30_000 {
		t.Fatalf("condition = %+v", b.Condition)
	}
	if got := b.Sentence("clip.mp4"); len(got) != 4 || got[0] != "convert" || got[1] != "clip.mp4" {
		t.Fatalf("sentence = %v", got)
	}
}

func TestBuildBatchRejectsUnknownVerb(t *testing.T) {
	_, err := Build(resolve(t, "batch", "frobnicate", "*.mp4"))
	if !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestConditionMatches(t *testing.T) {
	c, err := ParseCondition("duration < 30s")
	if err != nil {
		t.Fatal(err)
	}
	if !c.Matches(units.Timecode(10_000)) {
		t.Fatal("10s should match < 30s")
	}
	if c.Matches(units.Timecode(45_000)) {
		t.Fatal("45s should not match < 30s")
	}
}

func TestBuildFilterNeedsAdjustment(t *testing.T) {
	_, err := Build(resolve(t, "filter", "video.mp4"))
	if !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}

	op, err := Build(resolve(t, "filter", "video.mp4", "--brightness", "10", "--contrast", "5"))
	if err != nil {
		t.Fatal(err)
	}
	c := op.(ColorAdjust)
	if c.Brightness != 10 || c.Contrast != 5 {
		t.Fatalf("adjust = %+v", c)
	}
}
