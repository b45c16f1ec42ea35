package compile

import (
	"fmt"

	"reel/internal/media/ffprobe"
	"reel/internal/operation"
)

func compileThumbnail(op operation.Thumbnail, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	return []Stage{{
		Name:      "thumbnail",
		InputArgs: []string{"-ss", op.At.FFmpeg()},
		Inputs:    []string{op.Source},
		Args:      []string{"-frames:v", "1", "-q:v", "2"},
		Output:    Output{Ext: "jpg", Suffix: "thumbnail"},
		DependsOn: -1,
	}}, nil
}

func compileThumbnailGrid(op operation.ThumbnailGrid, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	total := op.Layout.Cells()
	vf := fmt.Sprintf("select='not(mod(n\\,%d))',scale=320:-1,tile=%dx%d",
		total, op.Layout.Cols, op.Layout.Rows)
	return []Stage{{
		Name:      "contact sheet",
		Inputs:    []string{op.Source},
		Args:      []string{"-vf", vf, "-frames:v", "1"},
		Output:    Output{Ext: "png", Suffix: "grid"},
		DependsOn: -1,
	}}, nil
}

func compileExtractFrames(op operation.ExtractFrames, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	interval := op.Interval.Seconds()
	if interval <= 0 {
		return nil, compileErr("frame interval must be positive")
	}
	return []Stage{{
		Name:      "extract frames",
		Inputs:    []string{op.Source},
		Args:      []string{"-vf", fmt.Sprintf("fps=1/%s", num(interval)), "-q:v", "2"},
		Output:    Output{Ext: "png", Suffix: "frame-%04d", Pattern: true},
		DependsOn: -1,
	}}, nil
}

func compileSplitSegments(op operation.SplitSegments, facts ffprobe.Facts) ([]Stage, error) {
	interval := op.Interval.Seconds()
	if op.Parts > 0 {
		duration := facts.Duration.Seconds()
		if duration <= 0 {
			return nil, compileErr("cannot split into equal parts without a known duration")
		}
		interval = duration / float64(op.Parts)
	}
	if interval <= 0 {
		return nil, compileErr("segment interval must be positive")
	}
	return []Stage{{
		Name:   "split",
		Inputs: []string{op.Source},
		Args: []string{
			"-c", "copy", "-map", "0", "-f", "segment",
			"-segment_time", num(interval), "-reset_timestamps", "1",
		},
		Output:    Output{Suffix: "part-%03d", Pattern: true},
		DependsOn: -1,
	}}, nil
}

// detectArgs maps each analysis pass to the filter whose stderr report
// the executor surfaces.
func detectArgs(kind operation.DetectKind) []string {
	switch kind {
	case operation.DetectBlack:
		return []string{"-vf", "blackdetect=d=0.5:pix_th=0.10", "-an", "-f", "null"}
	case operation.DetectSilence:
		return []string{"-af", "silencedetect=noise=-30dB:d=0.5", "-vn", "-f", "null"}
	case operation.DetectLoudness:
		return []string{"-af", "loudnorm=I=-16:TP=-1.5:LRA=11:print_format=summary", "-vn", "-f", "null"}
	default:
		return []string{"-vf", "select='gt(scene,0.4)',showinfo", "-an", "-f", "null"}
	}
}

func compileDetect(op operation.Detect, facts ffprobe.Facts) ([]Stage, error) {
	switch op.Kind {
	case operation.DetectSilence, operation.DetectLoudness:
		if err := needAudio(facts); err != nil {
			return nil, err
		}
	default:
		if err := needVideo(facts); err != nil {
			return nil, err
		}
	}
	return []Stage{{
		Name:      "detect " + string(op.Kind),
		Inputs:    []string{op.Source},
		Args:      detectArgs(op.Kind),
		Output:    Output{Kind: OutputDiscard},
		DependsOn: -1,
	}}, nil
}

func compileSetMetadata(op operation.SetMetadata) ([]Stage, error) {
	return []Stage{{
		Name:      "set metadata",
		Inputs:    []string{op.Source},
		Args:      []string{"-c", "copy", "-metadata", op.Field + "=" + op.Value},
		Output:    Output{Suffix: "tagged"},
		DependsOn: -1,
	}}, nil
}

func compileExtractMetadata(op operation.ExtractMetadata) ([]Stage, error) {
	return []Stage{{
		Name:      "extract metadata",
		Inputs:    []string{op.Source},
		Args:      []string{"-f", "ffmetadata"},
		Output:    Output{Ext: "txt", Suffix: "metadata"},
		DependsOn: -1,
	}}, nil
}
