package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckResolvesStubBinary(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\necho 'present version 1.0'\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	results := Check(context.Background(), []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected stub to be available, got %#v", results[0])
	}
	if results[0].Version != "present version 1.0" {
		t.Fatalf("version = %q", results[0].Version)
	}
	if results[1].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatal("expected detail message for missing binary")
	}
}

func TestCheckUnconfiguredCommand(t *testing.T) {
	results := Check(context.Background(), []Requirement{{Name: "Empty"}})
	if results[0].Available {
		t.Fatal("empty command reported as available")
	}
	if results[0].Detail != "command not configured" {
		t.Fatalf("detail = %q", results[0].Detail)
	}
}
