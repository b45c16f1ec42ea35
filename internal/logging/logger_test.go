package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger = WithComponent(logger, "planner")
	logger.Info("plan built", Args(Int("stages", 2), String("output", "out dir/x.mp4"))...)

	line := buf.String()
	if !strings.Contains(line, "INFO planner: plan built") {
		t.Fatalf("unexpected line %q", line)
	}
	if !strings.Contains(line, "stages=2") {
		t.Fatalf("missing attr in %q", line)
	}
	if !strings.Contains(line, `output="out dir/x.mp4"`) {
		t.Fatalf("value with spaces must be quoted, got %q", line)
	}
}

func TestConsoleHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info leaked through warn filter: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn suppressed: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("encode done", Args(String(FieldVerb, "compress"))...)
	out := buf.String()
	for _, want := range []string{`"msg":"encode done"`, `"level":"info"`, `"verb":"compress"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %q", want, out)
		}
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
