package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"reel/internal/compile"
	"reel/internal/engine"
	"reel/internal/operation"
)

// Options carries the output and overwrite choices global flags set.
type Options struct {
	DryRun    bool
	Explain   bool
	Overwrite bool
	// Output is the explicit --out path; it wins over OutputDir.
	Output string
	// OutputDir places derived names in a directory other than the
	// source's.
	OutputDir string
	// ScratchRoot hosts per-session scratch directories.
	ScratchRoot string
}

// Stage is one fully resolved ffmpeg invocation.
type Stage struct {
	Name   string
	Args   []string
	Output string
	// Discard marks stages whose output is the null device.
	Discard bool
	// ListFile and ListEntries describe a concat list the executor
	// writes before the stage runs.
	ListFile    string
	ListEntries []string
	DependsOn   int
}

// Plan is an ordered set of stages sharing one scratch directory.
type Plan struct {
	Session string
	Scratch string
	Summary string
	Stages  []Stage
}

// Build resolves compiled stages against the filesystem and the output
// options. Stage order is preserved; DependsOn edges always point at
// earlier stages.
func Build(op operation.Operation, stages []compile.Stage, opts Options) (*Plan, error) {
	if len(stages) == 0 {
		return nil, engine.Wrap(engine.ErrPlan, "plan", "nothing to execute", nil)
	}

	session := sessionID(op, opts)
	root := opts.ScratchRoot
	if root == "" {
		root = os.TempDir()
	}
	scratch := filepath.Join(root, "reel-"+session)

	plan := &Plan{
		Session: session,
		Scratch: scratch,
		Summary: op.Summary(),
		Stages:  make([]Stage, 0, len(stages)),
	}

	outputs := make([]string, len(stages))
	for i, stage := range stages {
		output, err := resolveOutput(op, stage, opts, scratch)
		if err != nil {
			return nil, err
		}
		outputs[i] = output

		resolve := func(s string) string {
			s = strings.ReplaceAll(s, "{scratch}", scratch)
			for j := 0; j < i; j++ {
				s = strings.ReplaceAll(s, compile.Ref(j), outputs[j])
			}
			return s
		}

		args := make([]string, 0, len(stage.Args)+len(stage.Inputs)*2+6)
		args = append(args, "-hide_banner", "-nostdin")
		// Only final outputs honor the overwrite choice. Analysis
		// passes write to the null device and intermediates live in
		// the fresh scratch directory, so -n would abort them for no
		// reason.
		if opts.Overwrite || stage.Output.Kind != compile.OutputFinal {
			args = append(args, "-y")
		} else {
			args = append(args, "-n")
		}
		for _, a := range stage.InputArgs {
			args = append(args, resolve(a))
		}
		for _, in := range stage.Inputs {
			args = append(args, "-i", resolve(in))
		}
		for _, a := range stage.Args {
			args = append(args, resolve(a))
		}
		args = append(args, output)

		planned := Stage{
			Name:      stage.Name,
			Args:      args,
			Output:    output,
			Discard:   stage.Output.Kind == compile.OutputDiscard,
			DependsOn: stage.DependsOn,
		}
		if len(stage.ListEntries) > 0 {
			planned.ListFile = resolve(stage.Inputs[0])
			planned.ListEntries = append([]string(nil), stage.ListEntries...)
		}
		plan.Stages = append(plan.Stages, planned)
	}
	return plan, nil
}

// sessionID derives a stable session identifier from the operation and
// its output options, so repeated dry runs of the same command render
// identical plans.
func sessionID(op operation.Operation, opts Options) string {
	key := op.Summary() + "\x00" + opts.Output + "\x00" + opts.OutputDir
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()[:8]
}

func resolveOutput(op operation.Operation, stage compile.Stage, opts Options, scratch string) (string, error) {
	switch stage.Output.Kind {
	case compile.OutputDiscard:
		return os.DevNull, nil
	case compile.OutputIntermediate:
		name := stage.Output.Suffix
		if stage.Output.Ext != "" {
			name += "." + stage.Output.Ext
		}
		return filepath.Join(scratch, name), nil
	}

	source := op.PrimaryInput()
	ext := stage.Output.Ext
	if ext == "" {
		ext = strings.TrimPrefix(filepath.Ext(source), ".")
	}
	if ext == "" {
		ext = "mp4"
	}

	path := opts.Output
	if path == "" {
		stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		name := stem
		if stage.Output.Suffix != "" {
			name += "-" + stage.Output.Suffix
		}
		name += "." + ext
		dir := opts.OutputDir
		if dir == "" {
			dir = filepath.Dir(source)
		}
		path = filepath.Join(dir, name)
		if !stage.Output.Pattern && samePath(path, source) {
			path = filepath.Join(dir, stem+"-out."+ext)
		}
	}

	if !stage.Output.Pattern && !opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", engine.Wrap(engine.ErrPlan, "plan",
				fmt.Sprintf("output %s already exists (use --overwrite to replace it)", path), nil)
		}
	}
	return path, nil
}

func samePath(a, b string) bool {
	ca, err1 := filepath.Abs(a)
	cb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return a == b
	}
	return ca == cb
}

// Outputs lists the plan's user-visible output paths.
func (p *Plan) Outputs() []string {
	var outs []string
	for _, stage := range p.Stages {
		if !stage.Discard && !strings.HasPrefix(stage.Output, p.Scratch) {
			outs = append(outs, stage.Output)
		}
	}
	return outs
}

// Render prints the plan as the exact ffmpeg command lines the executor
// will run, one stage per line. The output is deterministic for a given
// command and filesystem state.
func (p *Plan) Render() string {
	var b strings.Builder
	for _, stage := range p.Stages {
		b.WriteString("ffmpeg")
		for _, arg := range stage.Args {
			b.WriteByte(' ')
			b.WriteString(quoteArg(arg))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// quoteArg shell-quotes arguments that would otherwise split.
func quoteArg(arg string) string {
	if arg == "" || strings.ContainsAny(arg, " \t'\"[]{};,*?$") {
		return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
	}
	return arg
}
