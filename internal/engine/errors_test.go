package engine

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsSentinel(t *testing.T) {
	base := errors.New("layout 2x2 needs 4 inputs, got 3")
	err := Wrap(ErrValidation, "montage", "arity", base)

	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation sentinel, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatal("wrapped cause lost")
	}
	if !strings.Contains(err.Error(), "montage: arity") {
		t.Fatalf("detail missing from %q", err.Error())
	}
}

func TestWrapNilMarkerDefaultsToExecution(t *testing.T) {
	err := Wrap(nil, "encode", "", errors.New("exit status 1"))
	if !errors.Is(err, ErrExecution) {
		t.Fatalf("expected execution sentinel, got %v", err)
	}
}

func TestFatal(t *testing.T) {
	if Fatal(Wrap(ErrValidation, "", "bad size", nil)) {
		t.Fatal("validation errors must not abort a batch")
	}
	if !Fatal(Wrap(ErrEnvironment, "preflight", "ffmpeg missing", nil)) {
		t.Fatal("environment errors abort the batch")
	}
}

func TestRecoverable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{Wrap(ErrGrammar, "resolve", "unknown verb", nil), true},
		{Wrap(ErrPlan, "output", "exists", nil), true},
		{Wrap(ErrExecution, "encode", "", errors.New("boom")), false},
		{Wrap(ErrEnvironment, "", "no disk", nil), false},
	}
	for _, tc := range cases {
		if got := Recoverable(tc.err); got != tc.want {
			t.Fatalf("Recoverable(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
