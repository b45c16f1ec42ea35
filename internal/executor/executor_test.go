package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reel/internal/engine"
	"reel/internal/plan"
	"reel/internal/units"
)

type fakeRunner struct {
	calls    [][]string
	failAt   int
	stderr   []string
	listSeen string
	// writeOutput mimics ffmpeg creating the output file before the
	// encode completes; the last argument is treated as the output.
	writeOutput bool
}

func (f *fakeRunner) Run(_ context.Context, _ string, args []string, onLine func(string)) error {
	f.calls = append(f.calls, args)
	if f.writeOutput && len(args) > 0 {
		_ = os.WriteFile(args[len(args)-1], []byte("partial"), 0o644)
	}
	for i, arg := range args {
		if arg == "-i" && strings.HasSuffix(args[i+1], "concat.txt") {
			data, err := os.ReadFile(args[i+1])
			if err == nil {
				f.listSeen = string(data)
			}
		}
	}
	for _, line := range f.stderr {
		onLine(line)
	}
	if f.failAt == len(f.calls) {
		return errors.New("exit status 1")
	}
	return nil
}

func testPlan(t *testing.T, stages ...plan.Stage) *plan.Plan {
	t.Helper()
	return &plan.Plan{
		Session: "test",
		Scratch: filepath.Join(t.TempDir(), "scratch"),
		Stages:  stages,
	}
}

func TestRunExecutesStagesInOrder(t *testing.T) {
	runner := &fakeRunner{}
	p := testPlan(t,
		plan.Stage{Name: "first", Args: []string{"-i", "a.mp4", "one"}, DependsOn: -1},
		plan.Stage{Name: "second", Args: []string{"-i", "a.mp4", "two"}, DependsOn: 0},
	)
	e := New(Options{Runner: runner})
	if err := e.Run(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	if len(runner.calls) != 2 {
		t.Fatalf("calls = %d", len(runner.calls))
	}
	if runner.calls[0][2] != "one" || runner.calls[1][2] != "two" {
		t.Fatalf("order = %v", runner.calls)
	}
	if _, err := os.Stat(p.Scratch); !os.IsNotExist(err) {
		t.Fatal("scratch directory not cleaned up")
	}
}

func TestRunAbortsOnFirstFailure(t *testing.T) {
	runner := &fakeRunner{failAt: 1, stderr: []string{"frame=1", "Conversion failed!"}}
	p := testPlan(t,
		plan.Stage{Name: "first", Args: []string{"one"}, DependsOn: -1},
		plan.Stage{Name: "second", Args: []string{"two"}, DependsOn: 0},
	)
	err := New(Options{Runner: runner}).Run(context.Background(), p)
	if !errors.Is(err, engine.ErrExecution) {
		t.Fatalf("want execution error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Conversion failed!") {
		t.Fatalf("stderr tail missing from %q", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("second stage ran after failure: %v", runner.calls)
	}
	if _, statErr := os.Stat(p.Scratch); !os.IsNotExist(statErr) {
		t.Fatal("scratch directory not cleaned up after failure")
	}
}

func TestRunRemovesPartialOutputOnFailure(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "clip-trimmed.mp4")
	runner := &fakeRunner{failAt: 1, writeOutput: true}
	p := testPlan(t, plan.Stage{
		Name:      "trim",
		Args:      []string{"-i", "clip.mp4", output},
		Output:    output,
		DependsOn: -1,
	})
	err := New(Options{Runner: runner}).Run(context.Background(), p)
	if !errors.Is(err, engine.ErrExecution) {
		t.Fatalf("want execution error, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatal("partial output left behind after failure")
	}
}

func TestRunKeepsPreexistingOutputOnFailedOverwrite(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "clip-trimmed.mp4")
	if err := os.WriteFile(output, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	runner := &fakeRunner{failAt: 1, writeOutput: true}
	p := testPlan(t, plan.Stage{
		Name:      "trim",
		Args:      []string{"-i", "clip.mp4", output},
		Output:    output,
		DependsOn: -1,
	})
	err := New(Options{Runner: runner}).Run(context.Background(), p)
	if !errors.Is(err, engine.ErrExecution) {
		t.Fatalf("want execution error, got %v", err)
	}
	if _, statErr := os.Stat(output); statErr != nil {
		t.Fatal("file that existed before the run was removed")
	}
}

func TestRunWritesConcatList(t *testing.T) {
	runner := &fakeRunner{}
	p := testPlan(t, plan.Stage{
		Name:        "concat",
		Args:        []string{"-f", "concat", "-i", ""},
		ListEntries: []string{"a.mp4", "b.mp4"},
		DependsOn:   -1,
	})
	p.Stages[0].ListFile = filepath.Join(p.Scratch, "concat.txt")
	p.Stages[0].Args[3] = p.Stages[0].ListFile

	if err := New(Options{Runner: runner}).Run(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(runner.listSeen, "a.mp4'") || !strings.Contains(runner.listSeen, "b.mp4'") {
		t.Fatalf("list = %q", runner.listSeen)
	}
	if !strings.HasPrefix(runner.listSeen, "file '") {
		t.Fatalf("list = %q", runner.listSeen)
	}
}

func TestRunHonorsCancelledContext(t *testing.T) {
	runner := &fakeRunner{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := testPlan(t, plan.Stage{Name: "first", Args: []string{"one"}, DependsOn: -1})
	err := New(Options{Runner: runner}).Run(ctx, p)
	if !errors.Is(err, engine.ErrExecution) {
		t.Fatalf("want execution error, got %v", err)
	}
	if len(runner.calls) != 0 {
		t.Fatal("stage ran despite cancelled context")
	}
}

func TestParseProgress(t *testing.T) {
	line := fmt.Sprintf("frame= 120 fps= 30 q=28.0 size=1024KiB time=%s bitrate=800kbits/s speed=1.2x", "00:01:30.50")
	got, ok := parseProgress(line)
	if !ok {
		t.Fatal("progress not parsed")
	}
	if got != units.Timecode(90_500) {
		t.Fatalf("progress = %d ms", got.Milliseconds())
	}
	if _, ok := parseProgress("configuration: --enable-gpl"); ok {
		t.Fatal("false positive progress")
	}
}
