package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"reel/internal/batch"
	"reel/internal/compile"
	"reel/internal/config"
	"reel/internal/engine"
	"reel/internal/executor"
	"reel/internal/grammar"
	"reel/internal/history"
	"reel/internal/logging"
	"reel/internal/media/ffprobe"
	"reel/internal/operation"
	"reel/internal/plan"
	"reel/internal/preflight"
)

// runOptions are the cross-cutting flags every sentence accepts.
type runOptions struct {
	dryRun    bool
	explain   bool
	overwrite bool
	output    string
	outputDir string
}

func globalOptions(tree *grammar.ParseTree) runOptions {
	opts := runOptions{
		dryRun:    tree.HasFlag("dry-run"),
		explain:   tree.HasFlag("explain"),
		overwrite: tree.HasFlag("overwrite") || tree.HasFlag("y"),
	}
	opts.output, _ = tree.Flag("out")
	opts.outputDir, _ = tree.Flag("output-dir")
	return opts
}

// runSentence resolves one argument sentence and dispatches it: single
// operations run directly, the driver families fan out through the
// batch package, and info renders a probe report.
func runSentence(ctx context.Context, cc *commandContext, out io.Writer, args []string) error {
	tree, err := grammar.Resolve(args)
	if err != nil {
		return engine.Wrap(engine.ErrGrammar, "parse", "", err)
	}
	if path, ok := tree.Flag("config"); ok {
		cc.configFlag = path
	}

	op, err := operation.Build(tree)
	if err != nil {
		return err
	}

	cfg, err := cc.ensureConfig()
	if err != nil {
		return engine.Wrap(engine.ErrEnvironment, "config", "", err)
	}
	opts := globalOptions(tree)
	if opts.outputDir == "" {
		opts.outputDir = cfg.Paths.OutputDir
	}

	switch v := op.(type) {
	case operation.Probe:
		return runInspect(ctx, cfg, out, tree, v)
	case operation.Batch:
		return runBatch(ctx, cc, out, v, opts)
	case operation.Watch:
		return runWatch(ctx, cc, out, v, opts)
	case operation.Pipeline:
		return runPipeline(ctx, cc, out, v, opts)
	default:
		_, err := runSingle(ctx, cc, out, tree.Verb, op, opts)
		return err
	}
}

// runSingle drives one operation through probing, compilation, planning
// and execution, and returns the produced output paths.
func runSingle(ctx context.Context, cc *commandContext, out io.Writer, verb string, op operation.Operation, opts runOptions) ([]string, error) {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return nil, engine.Wrap(engine.ErrEnvironment, "config", "", err)
	}

	// Tool availability is checked before any compilation or planning
	// happens. Dry runs never invoke the encoder, so they stay usable
	// on machines that only have ffprobe.
	if !opts.dryRun {
		if err := preflight.Verify(ctx, cfg); err != nil {
			return nil, err
		}
	}

	result, err := ffprobe.Inspect(ctx, cfg.Tools.FFprobe, op.PrimaryInput())
	if err != nil {
		return nil, engine.Wrap(engine.ErrEnvironment, "probe", op.PrimaryInput(), err)
	}
	facts := result.Facts()

	stages, err := compile.Compile(op, facts)
	if err != nil {
		return nil, err
	}

	p, err := plan.Build(op, stages, plan.Options{
		DryRun:      opts.dryRun,
		Explain:     opts.explain,
		Overwrite:   opts.overwrite,
		Output:      opts.output,
		OutputDir:   opts.outputDir,
		ScratchRoot: cfg.Paths.ScratchDir,
	})
	if err != nil {
		return nil, err
	}

	// Explain augments the output but never suppresses execution; only
	// dry-run does that.
	if opts.explain {
		writeExplain(out, op, p)
	}
	if opts.dryRun {
		if !opts.explain {
			fmt.Fprint(out, p.Render())
		}
		return p.Outputs(), nil
	}

	outputDir := ""
	if outs := p.Outputs(); len(outs) > 0 {
		outputDir = filepath.Dir(outs[0])
	}
	if err := preflight.VerifyOutputDir(cfg, outputDir); err != nil {
		return nil, err
	}

	exec := executor.New(executor.Options{
		Binary:        cfg.Tools.FFmpeg,
		Logger:        cc.ensureLogger(),
		ShowProgress:  stderrIsTerminal(),
		TotalDuration: facts.Duration,
	})

	started := time.Now()
	runErr := exec.Run(ctx, p)
	recordHistory(cfg, verb, op, p, started, runErr)
	if runErr != nil {
		return nil, runErr
	}

	for _, output := range p.Outputs() {
		fmt.Fprintln(out, "Created", describeOutput(output))
	}
	reportSizeMiss(cc, cfg, op, p)
	return p.Outputs(), nil
}

// describeOutput appends the on-disk size when the output is a plain
// file. Pattern outputs (frame-%04d.png) are reported as written.
func describeOutput(path string) string {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return path
	}
	return fmt.Sprintf("%s (%s)", path, humanize.IBytes(uint64(info.Size())))
}

// reportSizeMiss warns when a size-targeted compress overshoots the
// configured tolerance. Two-pass encodes land close enough that the
// check only applies to single-pass runs.
func reportSizeMiss(cc *commandContext, cfg *config.Config, op operation.Operation, p *plan.Plan) {
	compress, ok := op.(operation.Compress)
	if !ok || compress.Size <= 0 || compress.TwoPass {
		return
	}
	outputs := p.Outputs()
	if len(outputs) == 0 {
		return
	}
	info, err := os.Stat(outputs[0])
	if err != nil {
		return
	}
	target := compress.Size.Bytes()
	limit := target + target*int64(cfg.Encode.SizeTolerancePct)/100
	if info.Size() > limit {
		cc.ensureLogger().Warn("output exceeds size target",
			logging.String(logging.FieldOutput, outputs[0]),
			logging.Int64("target_bytes", target),
			logging.Int64("actual_bytes", info.Size()))
	}
}

func recordHistory(cfg *config.Config, verb string, op operation.Operation, p *plan.Plan, started time.Time, runErr error) {
	store, err := history.Open(cfg.Paths.HistoryPath)
	if err != nil {
		return
	}
	defer store.Close()

	entry := history.Entry{
		StartedAt: started,
		Verb:      verb,
		Summary:   op.Summary(),
		Input:     op.PrimaryInput(),
		Status:    history.StatusCompleted,
		Duration:  time.Since(started),
	}
	if outs := p.Outputs(); len(outs) > 0 {
		entry.Output = outs[0]
	}
	if runErr != nil {
		entry.Status = history.StatusFailed
		entry.Error = runErr.Error()
	}
	recordCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _ = store.Record(recordCtx, entry)
}

// writeExplain shows how the sentence was understood, which values any
// presets expanded to, and what will run, stage by stage.
func writeExplain(out io.Writer, op operation.Operation, p *plan.Plan) {
	fmt.Fprintln(out, "Operation:", op.Summary())
	fmt.Fprintln(out, "Session:  ", p.Session)
	explainChoices(out, op)
	fmt.Fprintln(out)
	for i, stage := range p.Stages {
		fmt.Fprintf(out, "Stage %d: %s\n", i+1, stage.Name)
		if stage.DependsOn >= 0 {
			fmt.Fprintf(out, "  depends on stage %d\n", stage.DependsOn+1)
		}
		if stage.Discard {
			fmt.Fprintln(out, "  output: discarded (analysis pass)")
		} else {
			fmt.Fprintln(out, "  output:", stage.Output)
		}
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, p.Render())
}

// explainChoices names the concrete values presets and targets expanded
// to, so the rendered commands are traceable back to the sentence.
func explainChoices(out io.Writer, op operation.Operation) {
	switch v := op.(type) {
	case operation.Convert:
		if v.Platform != nil {
			fmt.Fprintf(out, "Preset:    %s expands to %s, %s, capped at %s\n",
				v.Platform.Name, v.Platform.Dimensions, v.Platform.Bitrate, v.Platform.MaxDuration)
		}
		if v.Quality != nil {
			fmt.Fprintf(out, "Quality:   %s maps to CRF %d\n", v.Quality.Name, v.Quality.CRF)
		}
	case operation.Compress:
		switch {
		case v.Quality != nil:
			fmt.Fprintf(out, "Quality:   %s maps to CRF %d\n", v.Quality.Name, v.Quality.CRF)
		case v.TwoPass:
			fmt.Fprintln(out, "Strategy:  two-pass; an analysis pass writes a statistics log the encode pass consumes")
		case v.Size > 0:
			fmt.Fprintln(out, "Strategy:  single pass; the result may overshoot the size target by about 10%")
		}
	}
}

// engineRun adapts runSingle into the callback the drivers re-enter
// the engine through. Explicit --out never applies across many files.
func (cc *commandContext) engineRun(out io.Writer, opts runOptions) batch.RunFunc {
	opts.output = ""
	return func(ctx context.Context, args []string) ([]string, error) {
		tree, err := grammar.Resolve(args)
		if err != nil {
			return nil, engine.Wrap(engine.ErrGrammar, "parse", "", err)
		}
		op, err := operation.Build(tree)
		if err != nil {
			return nil, err
		}
		return runSingle(ctx, cc, out, tree.Verb, op, opts)
	}
}

func runBatch(ctx context.Context, cc *commandContext, out io.Writer, op operation.Batch, opts runOptions) error {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return engine.Wrap(engine.ErrEnvironment, "config", "", err)
	}
	runner := &batch.Runner{
		Workers: cfg.Batch.Workers,
		Logger:  cc.ensureLogger(),
		Run:     cc.engineRun(out, opts),
		Probe: func(ctx context.Context, path string) (ffprobe.Facts, error) {
			result, err := ffprobe.Inspect(ctx, cfg.Tools.FFprobe, path)
			if err != nil {
				return ffprobe.Facts{}, err
			}
			return result.Facts(), nil
		},
	}
	summary, err := runner.Batch(ctx, op)
	fmt.Fprintf(out, "Batch finished: %d matched, %d processed, %d skipped, %d failed\n",
		summary.Matched, summary.Processed, summary.Skipped, summary.Failed)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return engine.Wrap(engine.ErrExecution, "batch",
			fmt.Sprintf("%d of %d files failed", summary.Failed, summary.Matched), nil)
	}
	return nil
}

func runWatch(ctx context.Context, cc *commandContext, out io.Writer, op operation.Watch, opts runOptions) error {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return engine.Wrap(engine.ErrEnvironment, "config", "", err)
	}
	fmt.Fprintf(out, "Watching %s (press Ctrl-C to stop)\n", op.Folder)
	watcher := &batch.Watcher{
		Settle: time.Duration(cfg.Watch.SettleMs) * time.Millisecond,
		Logger: cc.ensureLogger(),
		Run:    cc.engineRun(out, opts),
	}
	return watcher.Watch(ctx, op)
}

func runPipeline(ctx context.Context, cc *commandContext, out io.Writer, op operation.Pipeline, opts runOptions) error {
	runner := &batch.Runner{
		Logger: cc.ensureLogger(),
		Run:    cc.engineRun(out, opts),
	}
	return runner.Pipeline(ctx, op)
}
