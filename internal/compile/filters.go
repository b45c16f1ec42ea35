package compile

import (
	"fmt"
	"strconv"

	"reel/internal/media/ffprobe"
	"reel/internal/operation"
	"reel/internal/units"
)

func compileTrim(op operation.Trim, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	vcodec, acodec := codecsFor(op.Source)
	return []Stage{{
		Name:      "trim",
		Inputs:    []string{op.Source},
		Args:      []string{"-ss", op.Start.FFmpeg(), "-to", op.End.FFmpeg(), "-c:v", vcodec, "-c:a", acodec},
		Output:    Output{Suffix: "trimmed"},
		DependsOn: -1,
	}}, nil
}

func compileResize(op operation.Resize, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	var vf string
	if op.Target.Kind == units.ScalePercent {
		f := op.Target.Percent / 100
		vf = fmt.Sprintf("scale=trunc(iw*%s/2)*2:trunc(ih*%s/2)*2", num(f), num(f))
	} else {
		vf = fmt.Sprintf("scale=%d:%d", op.Target.Pixels.Width, op.Target.Pixels.Height)
	}
	return []Stage{vfStage("resize", op.Source, vf, "resized")}, nil
}

func compileCrop(op operation.Crop, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	w, h := op.Size.Width, op.Size.Height
	vf := fmt.Sprintf(
		"crop=min(%d\\,iw):min(%d\\,ih):(iw-min(%d\\,iw))/2:(ih-min(%d\\,ih))/2",
		w, h, w, h)
	return []Stage{vfStage("crop", op.Source, vf, "cropped")}, nil
}

func compileRotate(op operation.Rotate, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	var vf string
	switch op.Degrees {
	case 90:
		vf = "transpose=1"
	case 180:
		vf = "transpose=1,transpose=1"
	case 270:
		vf = "transpose=2"
	default:
		return nil, compileErr("rotation must be 90, 180 or 270 degrees")
	}
	stage := vfStage("rotate", op.Source, vf, "rotated")
	stage.Args[len(stage.Args)-1] = "copy"
	return []Stage{stage}, nil
}

func compileFlip(op operation.Flip, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	vf := "hflip"
	if op.Direction == units.FlipVertical {
		vf = "vflip"
	}
	stage := vfStage("flip", op.Source, vf, "flipped")
	stage.Args[len(stage.Args)-1] = "copy"
	return []Stage{stage}, nil
}

func compileFps(op operation.Fps, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	suffix := strconv.Itoa(op.Rate) + "fps"
	return []Stage{vfStage("set fps", op.Source, fmt.Sprintf("fps=%d", op.Rate), suffix)}, nil
}

func compileLoop(op operation.Loop) ([]Stage, error) {
	return []Stage{{
		Name:      "loop",
		InputArgs: []string{"-stream_loop", strconv.Itoa(op.Times - 1)},
		Inputs:    []string{op.Source},
		Args:      []string{"-c", "copy"},
		Output:    Output{Suffix: "looped"},
		DependsOn: -1,
	}}, nil
}

// atempoChain builds an atempo filter chain; the filter only accepts
// factors in [0.5, 2], so extreme factors are reached in steps.
func atempoChain(f float64) string {
	chain := ""
	for f > 2 {
		chain += "atempo=2.0,"
		f /= 2
	}
	for f < 0.5 {
		chain += "atempo=0.5,"
		f /= 0.5
	}
	return chain + "atempo=" + num(f)
}

func compileSpeed(op operation.Speed, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	f := float64(op.Factor)
	setpts := fmt.Sprintf("setpts=PTS/%s", num(f))

	if !facts.HasAudio {
		stage := vfStage("speed", op.Source, setpts, "speed")
		stage.Args = append(stage.Args[:4], "-an")
		return []Stage{stage}, nil
	}

	audio := atempoChain(f)
	if !op.KeepPitch {
		audio = fmt.Sprintf("asetrate=44100*%s,aresample=44100", num(f))
	}
	filter := fmt.Sprintf("[0:v]%s[v];[0:a]%s[a]", setpts, audio)
	vcodec, acodec := codecsFor(op.Source)
	return []Stage{{
		Name:   "speed",
		Inputs: []string{op.Source},
		Args: []string{
			"-filter_complex", filter, "-map", "[v]", "-map", "[a]",
			"-c:v", vcodec, "-c:a", acodec,
		},
		Output:    Output{Suffix: "speed"},
		DependsOn: -1,
	}}, nil
}

func compileReverse(op operation.Reverse, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	if !facts.HasAudio {
		stage := vfStage("reverse", op.Source, "reverse", "reversed")
		stage.Args = append(stage.Args[:4], "-an")
		return []Stage{stage}, nil
	}
	vcodec, acodec := codecsFor(op.Source)
	return []Stage{{
		Name:   "reverse",
		Inputs: []string{op.Source},
		Args: []string{
			"-filter_complex", "[0:v]reverse[v];[0:a]areverse[a]",
			"-map", "[v]", "-map", "[a]", "-c:v", vcodec, "-c:a", acodec,
		},
		Output:    Output{Suffix: "reversed"},
		DependsOn: -1,
	}}, nil
}

func compileVolume(op operation.VolumeAdjust, facts ffprobe.Facts) ([]Stage, error) {
	if err := needAudio(facts); err != nil {
		return nil, err
	}
	return []Stage{{
		Name:      "adjust volume",
		Inputs:    []string{op.Source},
		Args:      []string{"-af", "volume=" + num(op.Volume.FFmpegVolume()), "-c:v", "copy"},
		Output:    Output{Suffix: "volume"},
		DependsOn: -1,
	}}, nil
}

func compileNormalize(op operation.Normalize, facts ffprobe.Facts) ([]Stage, error) {
	if err := needAudio(facts); err != nil {
		return nil, err
	}
	return []Stage{{
		Name:      "normalize",
		Inputs:    []string{op.Source},
		Args:      []string{"-af", "loudnorm=I=-16:TP=-1.5:LRA=11", "-c:v", "copy"},
		Output:    Output{Suffix: "normalized"},
		DependsOn: -1,
	}}, nil
}

func compileMute(op operation.Mute) ([]Stage, error) {
	return []Stage{{
		Name:      "mute",
		Inputs:    []string{op.Source},
		Args:      []string{"-c:v", "copy", "-an"},
		Output:    Output{Suffix: "muted"},
		DependsOn: -1,
	}}, nil
}

func compileExtractAudio(op operation.ExtractAudio, facts ffprobe.Facts) ([]Stage, error) {
	if err := needAudio(facts); err != nil {
		return nil, err
	}
	args := []string{}
	if op.Start != nil && op.End != nil {
		args = append(args, "-ss", op.Start.FFmpeg(), "-to", op.End.FFmpeg())
	}
	args = append(args, "-vn")
	ext := op.Format
	switch op.Format {
	case "wav":
		args = append(args, "-c:a", "pcm_s16le")
	default:
		ext = "mp3"
		args = append(args, "-c:a", "libmp3lame", "-b:a", "192k")
	}
	return []Stage{{
		Name:      "extract audio",
		Inputs:    []string{op.Source},
		Args:      args,
		Output:    Output{Ext: ext},
		DependsOn: -1,
	}}, nil
}

func compileAddAudio(op operation.AddAudio) ([]Stage, error) {
	return []Stage{{
		Name:   "add audio",
		Inputs: []string{op.Source, op.Audio},
		Args: []string{
			"-map", "0:v", "-map", "1:a", "-c:v", "copy", "-c:a", "aac", "-shortest",
		},
		Output:    Output{Suffix: "with-audio"},
		DependsOn: -1,
	}}, nil
}
