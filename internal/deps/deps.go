// Package deps discovers the external encoder binaries reel drives and
// reports their availability and versions for the doctor command.
package deps

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// Requirement defines an external binary reel relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Version     string
	Detail      string
}

// Check evaluates the provided requirements, resolving each command on
// PATH and probing its version.
func Check(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, checkOne(ctx, req))
	}
	return results
}

func checkOne(ctx context.Context, req Requirement) Status {
	command := strings.TrimSpace(req.Command)
	status := Status{
		Name:        req.Name,
		Command:     command,
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if command == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		status.Detail = "not found on PATH"
		return status
	}
	status.Command = resolved
	status.Available = true
	status.Version = Version(ctx, resolved)
	return status
}

// Version returns the first line of the binary's -version output, or
// an empty string when the probe fails.
func Version(ctx context.Context, binary string) string {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(probeCtx, binary, "-version").Output()
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line)
}
