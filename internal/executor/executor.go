package executor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"reel/internal/engine"
	"reel/internal/logging"
	"reel/internal/plan"
	"reel/internal/units"
)

// Runner abstracts process execution so tests can substitute a fake.
type Runner interface {
	// Run executes the binary with args, invoking onStderrLine for
	// every stderr line as it arrives.
	Run(ctx context.Context, binary string, args []string, onStderrLine func(string)) error
}

// stderrTailLines bounds how much encoder output failure reports carry.
const stderrTailLines = 30

// Executor drives one plan to completion.
type Executor struct {
	binary   string
	runner   Runner
	logger   *slog.Logger
	progress bool
	// total is the expected output duration used to scale progress.
	total units.Timecode
}

// Options configures an Executor.
type Options struct {
	Binary string
	Runner Runner
	Logger *slog.Logger
	// ShowProgress draws a terminal progress bar from ffmpeg's
	// time= reports.
	ShowProgress bool
	// TotalDuration scales the progress bar; zero disables it.
	TotalDuration units.Timecode
}

// New builds an Executor, defaulting to the real ffmpeg runner.
func New(opts Options) *Executor {
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	runner := opts.Runner
	if runner == nil {
		runner = &processRunner{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Executor{
		binary:   binary,
		runner:   runner,
		logger:   logging.WithComponent(logger, "executor"),
		progress: opts.ShowProgress && opts.TotalDuration > 0,
		total:    opts.TotalDuration,
	}
}

// Run executes every stage in order, stopping at the first failure.
// The scratch directory is created before the first stage and removed
// afterwards regardless of outcome.
func (e *Executor) Run(ctx context.Context, p *plan.Plan) error {
	if err := os.MkdirAll(p.Scratch, 0o755); err != nil {
		return engine.Wrap(engine.ErrEnvironment, "execute", "create scratch directory", err)
	}
	defer os.RemoveAll(p.Scratch)

	for i, stage := range p.Stages {
		if err := ctx.Err(); err != nil {
			return engine.Wrap(engine.ErrExecution, "execute", stage.Name, err)
		}
		if stage.ListFile != "" {
			if err := writeConcatList(stage.ListFile, stage.ListEntries); err != nil {
				return engine.Wrap(engine.ErrExecution, "execute", "write concat list", err)
			}
		}
		e.logger.Info("running stage",
			logging.String(logging.FieldStage, stage.Name),
			logging.Int("index", i),
			logging.String(logging.FieldOutput, stage.Output))

		_, statErr := os.Stat(stage.Output)
		preexisting := statErr == nil

		if err := e.runStage(ctx, stage); err != nil {
			if !preexisting {
				e.removePartial(p, stage)
			}
			return err
		}
	}
	return nil
}

// removePartial deletes whatever a failed stage left at its output
// path. Scratch files go with the scratch directory, pattern outputs
// name many files, and preexisting files being overwritten are kept as
// the caller found them; only a fresh partial file is removed.
func (e *Executor) removePartial(p *plan.Plan, stage plan.Stage) {
	if stage.Discard || strings.Contains(stage.Output, "%") {
		return
	}
	if strings.HasPrefix(stage.Output, p.Scratch) {
		return
	}
	if err := os.Remove(stage.Output); err == nil {
		e.logger.Info("removed partial output",
			logging.String(logging.FieldStage, stage.Name),
			logging.String(logging.FieldOutput, stage.Output))
	}
}

func (e *Executor) runStage(ctx context.Context, stage plan.Stage) error {
	var bar *progressbar.ProgressBar
	if e.progress {
		bar = progressbar.NewOptions64(e.total.Milliseconds(),
			progressbar.OptionSetDescription(stage.Name),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionShowElapsedTimeOnFinish(),
		)
	}

	var tail []string
	onLine := func(line string) {
		tail = append(tail, line)
		if len(tail) > stderrTailLines {
			tail = tail[1:]
		}
		if bar != nil {
			if done, ok := parseProgress(line); ok {
				_ = bar.Set64(done.Milliseconds())
			}
		}
	}

	err := e.runner.Run(ctx, e.binary, stage.Args, onLine)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		detail := fmt.Sprintf("stage %q failed", stage.Name)
		if len(tail) > 0 {
			detail += ":\n" + strings.Join(tail, "\n")
		}
		return engine.Wrap(engine.ErrExecution, "execute", detail, err)
	}
	return nil
}

// parseProgress extracts the time= position from an ffmpeg status line.
func parseProgress(line string) (units.Timecode, bool) {
	idx := strings.Index(line, "time=")
	if idx < 0 {
		return 0, false
	}
	field := line[idx+len("time="):]
	if end := strings.IndexByte(field, ' '); end >= 0 {
		field = field[:end]
	}
	if field == "" || field == "N/A" {
		return 0, false
	}
	tc, err := units.ParseTimecode(field)
	if err != nil {
		return 0, false
	}
	return tc, true
}

// writeConcatList renders the concat demuxer's list format. Paths are
// absolutized so the list location does not affect resolution.
func writeConcatList(path string, entries []string) error {
	var b strings.Builder
	for _, entry := range entries {
		abs, err := filepath.Abs(entry)
		if err != nil {
			abs = entry
		}
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
