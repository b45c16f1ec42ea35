package deps

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// HasEncoder reports whether the ffmpeg build exposes a named encoder
// such as libx264 or libvpx-vp9.
func HasEncoder(ctx context.Context, binary, encoder string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(probeCtx, binary, "-hide_banner", "-encoders").Output()
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == encoder {
			return true
		}
	}
	return false
}
