package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"reel/internal/engine"
	"reel/internal/media/ffprobe"
	"reel/internal/operation"
	"reel/internal/units"
)

type fakeEngine struct {
	mu    sync.Mutex
	runs  [][]string
	fail  map[string]error
	outFn func(args []string) []string
}

func (f *fakeEngine) run(_ context.Context, args []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, args)
	if err, ok := f.fail[args[1]]; ok {
		return nil, err
	}
	if f.outFn != nil {
		return f.outFn(args), nil
	}
	return []string{args[1] + ".out"}, nil
}

func (f *fakeEngine) inputs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var inputs []string
	for _, args := range f.runs {
		inputs = append(inputs, args[1])
	}
	sort.Strings(inputs)
	return inputs
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBatchProcessesAllMatches(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.mp4", "b.mp4", "c.mov")

	eng := &fakeEngine{}
	runner := &Runner{Workers: 2, Run: eng.run}
	summary, err := runner.Batch(context.Background(), operation.Batch{
		Pattern: filepath.Join(dir, "*.mp4"),
		Verb:    "compress",
		Target:  "5mb",
	})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Matched != 2 || summary.Processed != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	want := []string{filepath.Join(dir, "a.mp4"), filepath.Join(dir, "b.mp4")}
	got := eng.inputs()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("inputs = %v", got)
	}
	if len(eng.runs[0]) != 4 || eng.runs[0][0] != "compress" || eng.runs[0][2] != "to" {
		t.Fatalf("sentence = %v", eng.runs[0])
	}
}

func TestBatchContinuesPastFileFailure(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.mp4", "b.mp4")

	failed := filepath.Join(dir, "a.mp4")
	eng := &fakeEngine{fail: map[string]error{
		failed: engine.Wrap(engine.ErrExecution, "execute", "stage failed", nil),
	}}
	runner := &Runner{Workers: 1, Run: eng.run}
	summary, err := runner.Batch(context.Background(), operation.Batch{
		Pattern: filepath.Join(dir, "*.mp4"),
		Verb:    "mute",
	})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 1 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(eng.runs) != 2 {
		t.Fatalf("ran %d files, want 2", len(eng.runs))
	}
}

func TestBatchAbortsOnFatalError(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.mp4", "b.mp4", "c.mp4", "d.mp4")

	first := filepath.Join(dir, "a.mp4")
	eng := &fakeEngine{fail: map[string]error{
		first: engine.Wrap(engine.ErrEnvironment, "preflight", "ffmpeg not found", nil),
	}}
	runner := &Runner{Workers: 1, Run: eng.run}
	summary, err := runner.Batch(context.Background(), operation.Batch{
		Pattern: filepath.Join(dir, "*.mp4"),
		Verb:    "mute",
	})
	if !errors.Is(err, engine.ErrEnvironment) {
		t.Fatalf("err = %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(eng.runs) == 4 {
		t.Fatal("batch kept going after a fatal error")
	}
}

func TestBatchConditionSkipsWithoutFailing(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "short.mp4", "long.mp4")

	durations := map[string]units.Timecode{
		filepath.Join(dir, "short.mp4"): units.Timecode(10_000),
		filepath.Join(dir, "long.mp4"):  units.Timecode(90_000),
	}
	eng := &fakeEngine{}
	runner := &Runner{
		Workers: 1,
		Run:     eng.run,
		Probe: func(_ context.Context, path string) (ffprobe.Facts, error) {
			return ffprobe.Facts{Duration: durations[path]}, nil
		},
	}
	cond, err := operation.ParseCondition("duration < 30s")
	if err != nil {
		t.Fatal(err)
	}
	summary, err := runner.Batch(context.Background(), operation.Batch{
		Pattern:   filepath.Join(dir, "*.mp4"),
		Verb:      "compress",
		Target:    "5mb",
		Condition: &cond,
	})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 1 || summary.Skipped != 1 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if got := eng.inputs(); len(got) != 1 || got[0] != filepath.Join(dir, "short.mp4") {
		t.Fatalf("inputs = %v", got)
	}
}

func TestBatchEmptyPattern(t *testing.T) {
	eng := &fakeEngine{}
	runner := &Runner{Workers: 2, Run: eng.run}
	summary, err := runner.Batch(context.Background(), operation.Batch{
		Pattern: filepath.Join(t.TempDir(), "*.mp4"),
		Verb:    "mute",
	})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Matched != 0 || len(eng.runs) != 0 {
		t.Fatalf("summary = %+v, runs = %d", summary, len(eng.runs))
	}
}

func TestPipelineChainsOutputs(t *testing.T) {
	dir := t.TempDir()
	steps := filepath.Join(dir, "steps.yaml")
	if err := os.WriteFile(steps, []byte("steps:\n  - trim from 0:00 to 0:30\n  - compress to 5mb\n  - convert to gif\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	eng := &fakeEngine{outFn: func(args []string) []string {
		return []string{args[1] + "+" + args[0]}
	}}
	runner := &Runner{Run: eng.run}
	err := runner.Pipeline(context.Background(), operation.Pipeline{
		Source:    "clip.mp4",
		StepsFile: steps,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(eng.runs) != 3 {
		t.Fatalf("ran %d steps", len(eng.runs))
	}
	if eng.runs[0][1] != "clip.mp4" {
		t.Fatalf("step 1 input = %q", eng.runs[0][1])
	}
	if eng.runs[1][1] != "clip.mp4+trim" {
		t.Fatalf("step 2 input = %q", eng.runs[1][1])
	}
	if eng.runs[2][1] != "clip.mp4+trim+compress" {
		t.Fatalf("step 3 input = %q", eng.runs[2][1])
	}
}

func TestPipelineStopsOnStepFailure(t *testing.T) {
	dir := t.TempDir()
	steps := filepath.Join(dir, "steps.yaml")
	if err := os.WriteFile(steps, []byte("steps:\n  - trim from 0:00 to 0:30\n  - convert to gif\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	eng := &fakeEngine{fail: map[string]error{
		"clip.mp4": engine.Wrap(engine.ErrExecution, "execute", "stage failed", nil),
	}}
	runner := &Runner{Run: eng.run}
	err := runner.Pipeline(context.Background(), operation.Pipeline{
		Source:    "clip.mp4",
		StepsFile: steps,
	})
	if !errors.Is(err, engine.ErrExecution) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "step 1") {
		t.Fatalf("err = %v", err)
	}
	if len(eng.runs) != 1 {
		t.Fatalf("ran %d steps after failure", len(eng.runs))
	}
}

func TestStepSentenceKeepsMultiWordVerbs(t *testing.T) {
	cases := []struct {
		step string
		want []string
	}{
		{"compress to 5mb", []string{"compress", "clip.mp4", "to", "5mb"}},
		{"speed up by 2x", []string{"speed", "up", "clip.mp4", "by", "2x"}},
		{"slow down by 2x", []string{"slow", "down", "clip.mp4", "by", "2x"}},
		{"extract audio", []string{"extract", "audio", "clip.mp4"}},
	}
	for _, tc := range cases {
		got := stepSentence(tc.step, "clip.mp4")
		if strings.Join(got, " ") != strings.Join(tc.want, " ") {
			t.Errorf("stepSentence(%q) = %v, want %v", tc.step, got, tc.want)
		}
	}
}

func TestPipelineResolvesMultiWordVerbStep(t *testing.T) {
	dir := t.TempDir()
	steps := filepath.Join(dir, "steps.yaml")
	if err := os.WriteFile(steps, []byte("steps:\n  - speed up by 2x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	eng := &fakeEngine{outFn: func(args []string) []string {
		return []string{"out.mp4"}
	}}
	runner := &Runner{Run: eng.run}
	err := runner.Pipeline(context.Background(), operation.Pipeline{
		Source:    "clip.mp4",
		StepsFile: steps,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(eng.runs[0], " "); got != "speed up clip.mp4 by 2x" {
		t.Fatalf("step argv = %q", got)
	}
}

func TestLoadPipelineRejectsEmptySteps(t *testing.T) {
	dir := t.TempDir()
	steps := filepath.Join(dir, "steps.yaml")
	if err := os.WriteFile(steps, []byte("steps: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPipeline(steps); !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("err = %v", err)
	}
	if _, err := LoadPipeline(filepath.Join(dir, "missing.yaml")); !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("err = %v", err)
	}
}
