package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"

	"reel/internal/config"
	"reel/internal/engine"
	"reel/internal/grammar"
	"reel/internal/media/ffprobe"
	"reel/internal/operation"
)

// runInspect handles "reel info file". With --json it emits the raw
// probe payload for scripting; otherwise a readable table.
func runInspect(ctx context.Context, cfg *config.Config, out io.Writer, tree *grammar.ParseTree, op operation.Probe) error {
	result, err := ffprobe.Inspect(ctx, cfg.Tools.FFprobe, op.Source)
	if err != nil {
		return engine.Wrap(engine.ErrEnvironment, "probe", op.Source, err)
	}

	if tree.HasFlag("json") {
		_, err := out.Write(result.RawJSON())
		return err
	}

	facts := result.Facts()
	rows := [][]string{
		{"File", op.Source},
		{"Container", facts.Container},
		{"Duration", facts.Duration.String()},
		{"Size", humanize.IBytes(uint64(facts.SizeBytes))},
	}
	if facts.HasVideo {
		rows = append(rows,
			[]string{"Resolution", fmt.Sprintf("%dx%d", facts.Width, facts.Height)},
			[]string{"Frame rate", strconv.FormatFloat(facts.FPS, 'f', -1, 64) + " fps"},
			[]string{"Video codec", facts.VideoCodec},
		)
	}
	if facts.HasAudio {
		rows = append(rows, []string{"Audio codec", facts.AudioCodec})
	}
	if rate := result.BitRate(); rate > 0 {
		rows = append(rows, []string{"Bitrate", fmt.Sprintf("%d kb/s", rate/1000)})
	}
	rows = append(rows, []string{"Streams", fmt.Sprintf("%d video, %d audio",
		result.VideoStreamCount(), result.AudioStreamCount())})

	fmt.Fprintln(out, renderTable([]string{"Property", "Value"}, rows))
	return nil
}
