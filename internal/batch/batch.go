package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"reel/internal/engine"
	"reel/internal/logging"
	"reel/internal/media/ffprobe"
	"reel/internal/operation"
)

// RunFunc executes one complete command sentence and reports the
// outputs it produced.
type RunFunc func(ctx context.Context, args []string) ([]string, error)

// ProbeFunc inspects a media file; conditions evaluate against it.
type ProbeFunc func(ctx context.Context, path string) (ffprobe.Facts, error)

// Runner fans a templated operation out over matched files.
type Runner struct {
	Workers int
	Logger  *slog.Logger
	Probe   ProbeFunc
	Run     RunFunc
}

// Summary counts per-file outcomes of one batch.
type Summary struct {
	Matched   int
	Processed int
	Skipped   int
	Failed    int
}

// Batch expands the pattern and processes matches concurrently. A
// per-file failure is recorded and the batch continues; a fatal
// environment error cancels the remaining files.
func (r *Runner) Batch(ctx context.Context, op operation.Batch) (Summary, error) {
	matches, err := filepath.Glob(op.Pattern)
	if err != nil {
		return Summary{}, engine.Wrap(engine.ErrValidation, "batch",
			fmt.Sprintf("bad pattern %q", op.Pattern), err)
	}
	sort.Strings(matches)

	logger := r.logger()
	summary := Summary{Matched: len(matches)}
	if len(matches) == 0 {
		logger.Warn("no files match pattern", logging.String("pattern", op.Pattern))
		return summary, nil
	}

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(matches) {
		workers = len(matches)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		fatal error
	)
	files := make(chan string)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range files {
				outcome := r.processOne(ctx, op, file)
				mu.Lock()
				switch {
				case outcome == nil:
					summary.Processed++
				case outcome == errSkipped:
					summary.Skipped++
				default:
					summary.Failed++
					logger.Error("file failed",
						logging.String(logging.FieldInput, file),
						logging.Error(outcome))
					if engine.Fatal(outcome) && fatal == nil {
						fatal = outcome
						cancel()
					}
				}
				mu.Unlock()
			}
		}()
	}

	for _, file := range matches {
		select {
		case files <- file:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(files)
	wg.Wait()

	if fatal != nil {
		return summary, fatal
	}
	return summary, nil
}

// errSkipped marks files the condition filtered out.
var errSkipped = fmt.Errorf("skipped")

func (r *Runner) processOne(ctx context.Context, op operation.Batch, file string) error {
	// Files still queued when the batch is cancelled are skipped, not
	// failed.
	if ctx.Err() != nil {
		return errSkipped
	}
	if op.Condition != nil {
		if r.Probe == nil {
			return engine.Wrap(engine.ErrValidation, "batch", "condition requires probing support", nil)
		}
		facts, err := r.Probe(ctx, file)
		if err != nil {
			return engine.Wrap(engine.ErrExecution, "batch", "probe "+file, err)
		}
		if !op.Condition.Matches(facts.Duration) {
			r.logger().Info("condition not met, skipping",
				logging.String(logging.FieldInput, file),
				logging.String("condition", op.Condition.String()))
			return errSkipped
		}
	}
	_, err := r.Run(ctx, op.Sentence(file))
	return err
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return logging.NewNop()
	}
	return logging.WithComponent(r.Logger, "batch")
}
