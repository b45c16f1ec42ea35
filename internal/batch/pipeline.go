package batch

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"reel/internal/engine"
	"reel/internal/grammar"
	"reel/internal/logging"
	"reel/internal/operation"
)

// PipelineFile is the on-disk shape of a steps file:
//
//	steps:
//	  - trim from 0:00 to 0:30
//	  - compress to 5mb
//	  - convert to gif
//
// Each step is a command sentence without an input; the runner inserts
// the current file after the verb and feeds each step's output to the
// next step.
type PipelineFile struct {
	Steps []string `yaml:"steps"`
}

// LoadPipeline reads and validates a steps file.
func LoadPipeline(path string) (PipelineFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PipelineFile{}, engine.Wrap(engine.ErrValidation, "pipeline",
			"read steps file "+path, err)
	}
	var file PipelineFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return PipelineFile{}, engine.Wrap(engine.ErrValidation, "pipeline",
			"parse steps file "+path, err)
	}
	if len(file.Steps) == 0 {
		return PipelineFile{}, engine.Wrap(engine.ErrValidation, "pipeline",
			path+" has no steps", nil)
	}
	for i, step := range file.Steps {
		if strings.TrimSpace(step) == "" {
			return PipelineFile{}, engine.Wrap(engine.ErrValidation, "pipeline",
				fmt.Sprintf("step %d is empty", i+1), nil)
		}
	}
	return file, nil
}

// Pipeline runs the steps in order against the source file. Any step
// failure aborts the chain; intermediate outputs are left in place so
// a fixed pipeline can resume from them by hand.
func (r *Runner) Pipeline(ctx context.Context, op operation.Pipeline) error {
	file, err := LoadPipeline(op.StepsFile)
	if err != nil {
		return err
	}

	logger := r.logger()
	current := op.Source
	for i, step := range file.Steps {
		args := stepSentence(step, current)
		logger.Info("running step",
			logging.Int("step", i+1),
			logging.String("command", step),
			logging.String(logging.FieldInput, current))

		outputs, err := r.Run(ctx, args)
		if err != nil {
			return engine.Wrap(engine.ErrExecution, "pipeline",
				fmt.Sprintf("step %d (%s)", i+1, step), err)
		}
		if i < len(file.Steps)-1 {
			if len(outputs) == 0 {
				return engine.Wrap(engine.ErrExecution, "pipeline",
					fmt.Sprintf("step %d (%s) produced no output to feed the next step", i+1, step), nil)
			}
			current = outputs[0]
		}
	}
	return nil
}

// stepSentence turns "compress to 5mb" plus an input into the argv
// ["compress", input, "to", "5mb"]. Two-word verbs keep both words
// ahead of the input, so "speed up by 2x" resolves exactly as it
// would on the command line.
func stepSentence(step, input string) []string {
	fields := strings.Fields(step)
	verbWords := 1
	if len(fields) > 1 && grammar.KnownVerb(fields[0]+"-"+fields[1]) {
		verbWords = 2
	}
	args := make([]string, 0, len(fields)+1)
	args = append(args, fields[:verbWords]...)
	args = append(args, input)
	args = append(args, fields[verbWords:]...)
	return args
}
