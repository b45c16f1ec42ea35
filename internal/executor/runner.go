package executor

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
)

// processRunner executes the real encoder binary.
type processRunner struct{}

func (processRunner) Run(ctx context.Context, binary string, args []string, onStderrLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("attach stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", binary, err)
	}

	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	// ffmpeg terminates progress updates with carriage returns.
	scanner.Split(scanCRLF)
	for scanner.Scan() {
		if onStderrLine != nil {
			onStderrLine(scanner.Text())
		}
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s: %w", binary, err)
	}
	return nil
}

// scanCRLF splits on both \n and bare \r so progress updates arrive as
// individual lines.
func scanCRLF(data []byte, atEOF bool) (int, []byte, error) {
	for i, b := range data {
		if b == '\n' || b == '\r' {
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
