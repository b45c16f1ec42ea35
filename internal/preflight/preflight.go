package preflight

import (
	"context"
	"fmt"

	"reel/internal/config"
	"reel/internal/deps"
	"reel/internal/engine"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckBinary(ctx, "ffmpeg", cfg.Tools.FFmpeg),
		CheckBinary(ctx, "ffprobe", cfg.Tools.FFprobe),
	}
	if cfg.Paths.OutputDir != "" {
		results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
		results = append(results, CheckFreeSpace("Output disk", cfg.Paths.OutputDir, cfg.Preflight.MinFreeMiB))
	}
	if cfg.Paths.ScratchDir != "" {
		results = append(results, CheckDirectoryAccess("Scratch directory", cfg.Paths.ScratchDir))
	}
	return results
}

// Verify confirms the encode and probe tools resolve. It runs before
// any compilation or planning work, so a missing encoder is reported
// ahead of plan-level problems. The first failure aborts with an
// environment error.
func Verify(ctx context.Context, cfg *config.Config) error {
	return firstFailure([]Result{
		CheckBinary(ctx, "ffmpeg", cfg.Tools.FFmpeg),
		CheckBinary(ctx, "ffprobe", cfg.Tools.FFprobe),
	})
}

// VerifyOutputDir confirms the resolved output directory is writable
// and has headroom. The directory is only known once the plan is
// built, so this runs as a separate later gate.
func VerifyOutputDir(cfg *config.Config, dir string) error {
	if dir == "" {
		return nil
	}
	return firstFailure([]Result{
		CheckDirectoryAccess("output directory", dir),
		CheckFreeSpace("output disk", dir, cfg.Preflight.MinFreeMiB),
	})
}

func firstFailure(checks []Result) error {
	for _, check := range checks {
		if !check.Passed {
			detail := fmt.Sprintf("%s: %s", check.Name, check.Detail)
			return engine.Wrap(engine.ErrEnvironment, "preflight", detail, nil)
		}
	}
	return nil
}

// CheckBinary confirms a tool resolves on PATH.
func CheckBinary(ctx context.Context, name, command string) Result {
	status := deps.Check(ctx, []deps.Requirement{{Name: name, Command: command}})[0]
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}
	detail := status.Command
	if status.Version != "" {
		detail = status.Version
	}
	return Result{Name: name, Passed: true, Detail: detail}
}
