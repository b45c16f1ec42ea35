package operation

import (
	"fmt"
	"strings"

	"reel/internal/units"
)

// ConditionOp compares a probed fact against a threshold.
type ConditionOp string

const (
	OpLess    ConditionOp = "<"
	OpGreater ConditionOp = ">"
	OpEqual   ConditionOp = "="
)

// Condition gates batch processing on probed metadata, e.g.
// "duration < 30s". Non-matching inputs are skipped, not failed.
type Condition struct {
	Field    string
	Op       ConditionOp
	Duration units.Timecode
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %s", c.Field, c.Op, c.Duration)
}

// ParseCondition parses the --if expression. Only duration conditions are
// supported.
func ParseCondition(s string) (Condition, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(fields) != 3 {
		return Condition{}, fmt.Errorf("condition %q: expected e.g. \"duration < 30s\"", s)
	}
	if fields[0] != "duration" {
		return Condition{}, fmt.Errorf("condition %q: only duration conditions are supported", s)
	}
	var op ConditionOp
	switch fields[1] {
	case "<":
		op = OpLess
	case ">":
		op = OpGreater
	case "=", "==":
		op = OpEqual
	default:
		return Condition{}, fmt.Errorf("condition %q: operator must be <, > or =", s)
	}
	threshold, err := units.ParseTimecode(fields[2])
	if err != nil {
		return Condition{}, fmt.Errorf("condition %q: %w", s, err)
	}
	return Condition{Field: "duration", Op: op, Duration: threshold}, nil
}

// Matches evaluates the condition against a probed duration.
func (c Condition) Matches(duration units.Timecode) bool {
	switch c.Op {
	case OpLess:
		return duration < c.Duration
	case OpGreater:
		return duration > c.Duration
	default:
		return duration == c.Duration
	}
}

// Batch expands a glob and applies a templated operation to every match.
// The template is re-resolved per file with the file substituted as input.
type Batch struct {
	Pattern   string
	Verb      string
	Target    string
	Condition *Condition
}

func (Batch) Family() Family         { return FamilyBatch }
func (b Batch) PrimaryInput() string { return b.Pattern }
func (b Batch) Summary() string {
	s := fmt.Sprintf("batch %s %s", b.Verb, b.Pattern)
	if b.Target != "" {
		s += " to " + b.Target
	}
	if b.Condition != nil {
		s += fmt.Sprintf(" if %s", b.Condition)
	}
	return s
}

// Sentence reconstructs the per-file command for one matched input.
func (b Batch) Sentence(input string) []string {
	args := []string{b.Verb, input}
	if b.Target != "" {
		args = append(args, "to", b.Target)
	}
	return args
}

// Watch observes a folder and applies a templated operation to each file
// created after the observer starts.
type Watch struct {
	Folder string
	Verb   string
	Target string
}

func (Watch) Family() Family         { return FamilyWatch }
func (w Watch) PrimaryInput() string { return w.Folder }
func (w Watch) Summary() string {
	s := fmt.Sprintf("watch %s and %s new files", w.Folder, w.Verb)
	if w.Target != "" {
		s += " to " + w.Target
	}
	return s
}

// Sentence reconstructs the per-file command for one new file.
func (w Watch) Sentence(input string) []string {
	args := []string{w.Verb, input}
	if w.Target != "" {
		args = append(args, "to", w.Target)
	}
	return args
}

// Pipeline runs the steps in a YAML file in order, feeding each step's
// output to the next step.
type Pipeline struct {
	Source    string
	StepsFile string
}

func (Pipeline) Family() Family         { return FamilyPipeline }
func (p Pipeline) PrimaryInput() string { return p.Source }
func (p Pipeline) Summary() string {
	return fmt.Sprintf("run pipeline %s on %s", p.StepsFile, p.Source)
}
