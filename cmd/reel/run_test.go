package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reel/internal/engine"
)

const probeJSON = `{"streams":[{"index":0,"codec_name":"h264","codec_type":"video","width":1280,"height":720,"avg_frame_rate":"30/1"},{"index":1,"codec_name":"aac","codec_type":"audio"}],"format":{"duration":"120.0","size":"1048576","format_name":"mov,mp4,m4a"}}`

// testConfig writes a config pointing the probe tool at a stub that
// always reports the same 2 minute 720p file.
func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat <<'EOF'\n" + probeJSON + "\nEOF\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	cfgPath := filepath.Join(dir, "config.toml")
	cfg := fmt.Sprintf(`[paths]
log_dir = %q
history_path = %q
scratch_dir = %q

[tools]
ffprobe = %q
`, filepath.Join(dir, "logs"), filepath.Join(dir, "history.db"), filepath.Join(dir, "scratch"), stub)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

func runCLI(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	cc := newCommandContext()
	cc.configFlag = cfgPath
	var buf bytes.Buffer
	err := runSentence(context.Background(), cc, &buf, args)
	return buf.String(), err
}

func TestRunSentenceGrammarError(t *testing.T) {
	_, err := runCLI(t, testConfig(t), "transmogrify", "clip.mp4")
	if !errors.Is(err, engine.ErrGrammar) {
		t.Fatalf("err = %v", err)
	}
	if exitCode(err) != 2 {
		t.Fatalf("exit code = %d", exitCode(err))
	}
}

func TestRunSentenceValidationError(t *testing.T) {
	_, err := runCLI(t, testConfig(t), "trim", "clip.mp4", "from", "1:00", "to", "0:30")
	if !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunSentenceDryRunDeterministic(t *testing.T) {
	cfgPath := testConfig(t)
	args := []string{"trim", "clip.mp4", "from", "0:10", "to", "0:20", "--dry-run"}

	first, err := runCLI(t, cfgPath, args...)
	if err != nil {
		t.Fatal(err)
	}
	second, err := runCLI(t, cfgPath, args...)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("dry runs differ:\n%s\n---\n%s", first, second)
	}
	if !strings.HasPrefix(first, "ffmpeg ") {
		t.Fatalf("output = %q", first)
	}
	if !strings.Contains(first, "clip-trimmed.mp4") {
		t.Fatalf("derived output missing: %q", first)
	}
	if !strings.Contains(first, "00:00:10") || !strings.Contains(first, "00:00:20") {
		t.Fatalf("trim window missing: %q", first)
	}
}

func TestRunSentenceDryRunTwoPass(t *testing.T) {
	out, err := runCLI(t, testConfig(t),
		"compress", "clip.mp4", "to", "10mb", "--two-pass", "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 command lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "-pass 1") || !strings.Contains(lines[1], "-pass 2") {
		t.Fatalf("pass markers missing:\n%s", out)
	}
}

func TestRunSentenceExplain(t *testing.T) {
	out, err := runCLI(t, testConfig(t),
		"convert", "clip.mp4", "to", "gif", "--explain", "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Operation: convert clip.mp4 to gif") {
		t.Fatalf("summary missing:\n%s", out)
	}
	if !strings.Contains(out, "Stage 1") || !strings.Contains(out, "Stage 2") {
		t.Fatalf("stages missing:\n%s", out)
	}
	if !strings.Contains(out, "depends on stage 1") {
		t.Fatalf("dependency missing:\n%s", out)
	}
}

func TestExplainNamesPresetExpansion(t *testing.T) {
	out, err := runCLI(t, testConfig(t),
		"convert", "clip.mp4", "to", "tiktok", "--explain", "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1080x1920") {
		t.Fatalf("preset expansion missing:\n%s", out)
	}

	out, err = runCLI(t, testConfig(t),
		"compress", "clip.mp4", "to", "10mb", "--explain", "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "overshoot") {
		t.Fatalf("single-pass tolerance note missing:\n%s", out)
	}
}

func TestRunSentenceExplicitOutput(t *testing.T) {
	out, err := runCLI(t, testConfig(t),
		"trim", "clip.mp4", "from", "0:10", "to", "0:20", "--dry-run", "--out", "cut.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "cut.mp4") || strings.Contains(out, "clip-trimmed.mp4") {
		t.Fatalf("explicit output not honored:\n%s", out)
	}
}

func TestRunSentenceRefusesExistingOutput(t *testing.T) {
	cfgPath := testConfig(t)
	dir := t.TempDir()
	existing := filepath.Join(dir, "cut.mp4")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, cfgPath,
		"trim", "clip.mp4", "from", "0:10", "to", "0:20", "--dry-run", "--out", existing)
	if !errors.Is(err, engine.ErrPlan) {
		t.Fatalf("err = %v", err)
	}

	if _, err := runCLI(t, cfgPath,
		"trim", "clip.mp4", "from", "0:10", "to", "0:20", "--dry-run", "--out", existing, "--overwrite"); err != nil {
		t.Fatal(err)
	}
}

func TestEncoderCheckedBeforePlanning(t *testing.T) {
	cfgPath := testConfig(t)
	extra := "ffmpeg = \"/nonexistent/ffmpeg\"\n"
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgPath, append(data, extra...), 0o644); err != nil {
		t.Fatal(err)
	}

	// The existing output would make planning fail; a missing encoder
	// must be reported before the plan is ever built.
	dir := t.TempDir()
	existing := filepath.Join(dir, "cut.mp4")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err = runCLI(t, cfgPath,
		"trim", "clip.mp4", "from", "0:10", "to", "0:20", "--out", existing)
	if !errors.Is(err, engine.ErrEnvironment) {
		t.Fatalf("err = %v", err)
	}
	if errors.Is(err, engine.ErrPlan) {
		t.Fatalf("plan ran before the encoder check: %v", err)
	}
	if exitCode(err) != 4 {
		t.Fatalf("exit code = %d", exitCode(err))
	}
}

func TestRunSentenceInfo(t *testing.T) {
	out, err := runCLI(t, testConfig(t), "info", "clip.mp4")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"1280x720", "h264", "aac", "00:02:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRunSentenceInfoJSON(t *testing.T) {
	out, err := runCLI(t, testConfig(t), "info", "clip.mp4", "--json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"codec_name"`) {
		t.Fatalf("raw payload missing:\n%s", out)
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{engine.Wrap(engine.ErrGrammar, "parse", "bad", nil), 2},
		{engine.Wrap(engine.ErrValidation, "field", "bad", nil), 2},
		{engine.Wrap(engine.ErrCompilation, "compile", "bad", nil), 3},
		{engine.Wrap(engine.ErrPlan, "plan", "bad", nil), 3},
		{engine.Wrap(engine.ErrEnvironment, "preflight", "bad", nil), 4},
		{engine.Wrap(engine.ErrExecution, "execute", "bad", nil), 1},
		{errors.New("other"), 1},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestRootRoutesSubcommands(t *testing.T) {
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "reel ") {
		t.Fatalf("version output = %q", buf.String())
	}
}

func TestRootHelpWithoutArgs(t *testing.T) {
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "compress video.mp4 to 10mb") {
		t.Fatalf("help output = %q", buf.String())
	}
}
