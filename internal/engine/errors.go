package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrGrammar marks failures to resolve an argument sentence against the
	// recognized command shapes.
	ErrGrammar = errors.New("grammar error")
	// ErrValidation marks malformed, out-of-range, or mutually exclusive
	// operation parameters.
	ErrValidation = errors.New("validation error")
	// ErrCompilation marks operations that cannot be expressed for the
	// detected input (for example a video filter over an audio-only file).
	ErrCompilation = errors.New("compilation error")
	// ErrPlan marks output resolution failures detected before any process
	// is spawned, such as an existing output without --overwrite.
	ErrPlan = errors.New("plan error")
	// ErrExecution marks a non-zero exit from the external encoder. The
	// encoder's diagnostic stream is carried verbatim.
	ErrExecution = errors.New("execution error")
	// ErrEnvironment marks fatal pre-flight problems: missing encoder,
	// unreadable input, insufficient disk space.
	ErrEnvironment = errors.New("environment error")
)

// Wrap tags err with the given sentinel and a phase/detail prefix so the CLI
// can classify the failure later with errors.Is. A nil err produces an error
// carrying only the detail.
func Wrap(marker error, phase, detail string, err error) error {
	if marker == nil {
		marker = ErrExecution
	}
	msg := buildDetail(phase, detail)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, msg, err)
	}
	return fmt.Errorf("%w: %s", marker, msg)
}

// Fatal reports whether err should abort an entire batch rather than a
// single input. Only environment failures are batch-fatal.
func Fatal(err error) bool {
	return errors.Is(err, ErrEnvironment)
}

// Recoverable reports whether err was raised before any external process
// started, meaning the invocation left no partial side effects behind.
func Recoverable(err error) bool {
	switch {
	case errors.Is(err, ErrGrammar),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrCompilation),
		errors.Is(err, ErrPlan):
		return true
	default:
		return false
	}
}

func buildDetail(phase, detail string) string {
	parts := make([]string, 0, 2)
	if phase = strings.TrimSpace(phase); phase != "" {
		parts = append(parts, phase)
	}
	if detail = strings.TrimSpace(detail); detail != "" {
		parts = append(parts, detail)
	}
	if len(parts) == 0 {
		return "engine failure"
	}
	return strings.Join(parts, ": ")
}
