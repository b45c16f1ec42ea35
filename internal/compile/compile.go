package compile

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"reel/internal/engine"
	"reel/internal/media/ffprobe"
	"reel/internal/operation"
	"reel/internal/units"
)

// Compile lowers a validated operation into ffmpeg stages. Facts come
// from probing the primary input and feed duration-dependent math such
// as bitrate budgets and fade-out offsets.
func Compile(op operation.Operation, facts ffprobe.Facts) ([]Stage, error) {
	switch v := op.(type) {
	case operation.Convert:
		return compileConvert(v, facts)
	case operation.Compress:
		return compileCompress(v, facts)
	case operation.Trim:
		return compileTrim(v, facts)
	case operation.Resize:
		return compileResize(v, facts)
	case operation.Crop:
		return compileCrop(v, facts)
	case operation.Rotate:
		return compileRotate(v, facts)
	case operation.Flip:
		return compileFlip(v, facts)
	case operation.Fps:
		return compileFps(v, facts)
	case operation.Loop:
		return compileLoop(v)
	case operation.Speed:
		return compileSpeed(v, facts)
	case operation.Reverse:
		return compileReverse(v, facts)
	case operation.VolumeAdjust:
		return compileVolume(v, facts)
	case operation.Normalize:
		return compileNormalize(v, facts)
	case operation.Mute:
		return compileMute(v)
	case operation.ExtractAudio:
		return compileExtractAudio(v, facts)
	case operation.AddAudio:
		return compileAddAudio(v)
	case operation.Watermark:
		return compileWatermark(v, facts)
	case operation.TextOverlay:
		return compileTextOverlay(v, facts)
	case operation.Overlay:
		return compileOverlay(v, facts)
	case operation.Pip:
		return compilePip(v, facts)
	case operation.SplitScreen:
		return compileSplitScreen(v)
	case operation.Montage:
		return compileMontage(v)
	case operation.Tile:
		return compileTile(v, facts)
	case operation.Merge:
		return compileMerge(v)
	case operation.Concat:
		return compileConcat(v)
	case operation.Crossfade:
		return compileCrossfade(v, facts)
	case operation.Transition:
		return compileTransition(v, facts)
	case operation.Compare:
		return compileCompare(v)
	case operation.SimpleEffect:
		return compileSimpleEffect(v, facts)
	case operation.ColorAdjust:
		return compileColorAdjust(v, facts)
	case operation.VintageFilm:
		return compileVintageFilm(v, facts)
	case operation.Vignette:
		return compileVignette(v, facts)
	case operation.BlurRegion:
		return compileBlurRegion(v, facts)
	case operation.Fade:
		return compileFade(v, facts)
	case operation.RemoveBackground:
		return compileRemoveBackground(v, facts)
	case operation.Detect:
		return compileDetect(v, facts)
	case operation.Thumbnail:
		return compileThumbnail(v, facts)
	case operation.ThumbnailGrid:
		return compileThumbnailGrid(v, facts)
	case operation.ExtractFrames:
		return compileExtractFrames(v, facts)
	case operation.SplitSegments:
		return compileSplitSegments(v, facts)
	case operation.SetMetadata:
		return compileSetMetadata(v)
	case operation.ExtractMetadata:
		return compileExtractMetadata(v)
	default:
		return nil, compileErr(fmt.Sprintf("%s operations are not compiled directly", op.Family()))
	}
}

func compileErr(detail string) error {
	return engine.Wrap(engine.ErrCompilation, "compile", detail, nil)
}

// needVideo rejects video transformations of inputs that carry no video
// stream.
func needVideo(facts ffprobe.Facts) error {
	if !facts.HasVideo {
		return compileErr("input has no video stream")
	}
	return nil
}

func needAudio(facts ffprobe.Facts) error {
	if !facts.HasAudio {
		return compileErr("input has no audio stream")
	}
	return nil
}

// codecsFor picks encoder pairs that the output container accepts.
func codecsFor(path string) (video, audio string) {
	if strings.EqualFold(filepath.Ext(path), ".webm") {
		return "libvpx-vp9", "libopus"
	}
	return "libx264", "aac"
}

// vfStage is the common single-input, single-filter shape.
func vfStage(name, input, vf, suffix string) Stage {
	vcodec, acodec := codecsFor(input)
	return Stage{
		Name:      name,
		Inputs:    []string{input},
		Args:      []string{"-vf", vf, "-c:v", vcodec, "-c:a", acodec},
		Output:    Output{Suffix: suffix},
		DependsOn: -1,
	}
}

// num formats filter-expression floats without trailing noise.
func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

const (
	gifFPS   = 15
	gifWidth = 480
)

func compileConvert(op operation.Convert, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil && op.Format != "mp3" && op.Format != "wav" {
		return nil, err
	}

	switch {
	case op.Vertical:
		return []Stage{padStage("vertical", op.Source, units.Dimensions{Width: 1080, Height: 1920}, nil, "vertical")}, nil
	case op.Platform != nil:
		stage := padStage(op.Platform.Name, op.Source, op.Platform.Dimensions, op.Platform, "")
		stage.Output.Suffix = op.Platform.Name
		if op.Platform.MaxDuration > 0 && facts.Duration > op.Platform.MaxDuration {
			stage.Args = append([]string{"-t", num(op.Platform.MaxDuration.Seconds())}, stage.Args...)
		}
		return []Stage{stage}, nil
	}

	switch op.Format {
	case "gif", "animated-gif":
		return compileGif(op), nil
	case "mp3":
		if err := needAudio(facts); err != nil {
			return nil, err
		}
		return []Stage{{
			Name:      "extract mp3",
			Inputs:    []string{op.Source},
			Args:      []string{"-vn", "-c:a", "libmp3lame", "-b:a", "192k"},
			Output:    Output{Ext: "mp3"},
			DependsOn: -1,
		}}, nil
	case "wav":
		if err := needAudio(facts); err != nil {
			return nil, err
		}
		return []Stage{{
			Name:      "extract wav",
			Inputs:    []string{op.Source},
			Args:      []string{"-vn", "-c:a", "pcm_s16le"},
			Output:    Output{Ext: "wav"},
			DependsOn: -1,
		}}, nil
	case "webm":
		args := []string{"-c:v", "libvpx-vp9", "-c:a", "libopus"}
		if op.Quality != nil {
			args = append(args, "-crf", strconv.Itoa(op.Quality.CRF), "-b:v", "0")
		}
		return []Stage{{
			Name:      "encode webm",
			Inputs:    []string{op.Source},
			Args:      args,
			Output:    Output{Ext: "webm"},
			DependsOn: -1,
		}}, nil
	case "iphone", "android":
		return []Stage{{
			Name:   "encode " + op.Format,
			Inputs: []string{op.Source},
			Args: []string{
				"-c:v", "libx264", "-profile:v", "main", "-pix_fmt", "yuv420p",
				"-c:a", "aac", "-b:a", "128k", "-movflags", "+faststart",
			},
			Output:    Output{Ext: "mp4", Suffix: op.Format},
			DependsOn: -1,
		}}, nil
	default:
		return compileContainer(op)
	}
}

// compileContainer handles the mp4/mkv/mov remux-reencode targets.
func compileContainer(op operation.Convert) ([]Stage, error) {
	vcodec := "libx264"
	switch op.Codec {
	case "h265":
		vcodec = "libx265"
	case "vp9":
		vcodec = "libvpx-vp9"
	case "copy":
		vcodec = "copy"
	}
	args := []string{"-c:v", vcodec, "-c:a", "aac"}
	if op.Quality != nil && vcodec != "copy" {
		args = append(args, "-crf", strconv.Itoa(op.Quality.CRF))
	}
	if op.Optimize && vcodec != "copy" {
		args = append(args, "-preset", "slow")
	}
	if op.Format == "mp4" || op.Format == "mov" {
		args = append(args, "-movflags", "+faststart")
	}
	return []Stage{{
		Name:      "encode " + op.Format,
		Inputs:    []string{op.Source},
		Args:      args,
		Output:    Output{Ext: op.Format},
		DependsOn: -1,
	}}, nil
}

// compileGif builds the two-stage palette pipeline: a palettegen pass
// writes an optimal 256-color palette, then paletteuse applies it.
func compileGif(op operation.Convert) []Stage {
	chain := fmt.Sprintf("fps=%d,scale=%d:-1:flags=lanczos", gifFPS, gifWidth)
	palette := Stage{
		Name:      "palette",
		Inputs:    []string{op.Source},
		Args:      []string{"-vf", chain + ",palettegen"},
		Output:    Output{Kind: OutputIntermediate, Ext: "png", Suffix: "palette"},
		DependsOn: -1,
	}
	args := []string{"-lavfi", chain + "[x];[x][1:v]paletteuse=dither=bayer"}
	if op.LoopGif {
		args = append(args, "-loop", "0")
	}
	render := Stage{
		Name:      "render gif",
		Inputs:    []string{op.Source, Ref(0)},
		Args:      args,
		Output:    Output{Ext: "gif"},
		DependsOn: 0,
	}
	return []Stage{palette, render}
}

// padStage scales into a box and pads to exact platform dimensions.
func padStage(name, input string, dims units.Dimensions, platform *operation.PlatformPreset, suffix string) Stage {
	vf := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
		dims.Width, dims.Height, dims.Width, dims.Height)
	args := []string{"-vf", vf, "-c:v", "libx264"}
	if platform != nil {
		args = append(args, "-b:v", strconv.FormatInt(platform.Bitrate.Kilobits(), 10)+"k", "-r", "30")
	}
	args = append(args, "-c:a", "aac", "-b:a", "128k", "-movflags", "+faststart")
	return Stage{
		Name:      name,
		Inputs:    []string{input},
		Args:      args,
		Output:    Output{Ext: "mp4", Suffix: suffix},
		DependsOn: -1,
	}
}

const (
	minTotalBps = 50_000
	minVideoBps = 50_000
	minAudioBps = 96_000
	maxAudioBps = 160_000
)

// sizeBudget splits a target file size into video and audio bitrates.
// Audio gets 8% of the total, clamped to a sane AAC range; video gets
// the rest.
func sizeBudget(size units.Size, durationSec float64) (videoKbps, audioKbps int64) {
	total := float64(size.Bytes()*8) / durationSec
	if total < minTotalBps {
		total = minTotalBps
	}
	audio := total * 0.08
	if audio < minAudioBps {
		audio = minAudioBps
	}
	if audio > maxAudioBps {
		audio = maxAudioBps
	}
	video := total - audio
	if video < minVideoBps {
		video = minVideoBps
	}
	return int64(video) / 1000, int64(audio) / 1000
}

func compileCompress(op operation.Compress, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}

	if op.Quality != nil {
		return []Stage{{
			Name:      "encode crf " + strconv.Itoa(op.Quality.CRF),
			Inputs:    []string{op.Source},
			Args:      []string{"-c:v", "libx264", "-crf", strconv.Itoa(op.Quality.CRF), "-preset", "medium", "-c:a", "copy"},
			Output:    Output{Suffix: "compressed"},
			DependsOn: -1,
		}}, nil
	}

	var videoK, audioK int64
	if op.Size > 0 {
		duration := facts.Duration.Seconds()
		if duration <= 0 {
			return nil, compileErr("cannot hit a size target without a known duration")
		}
		videoK, audioK = sizeBudget(op.Size, duration)
	} else {
		videoK = op.Bitrate.Kilobits()
		if videoK < 50 {
			videoK = 50
		}
		audioK = 128
	}
	rate := strconv.FormatInt(videoK, 10) + "k"
	audioRate := strconv.FormatInt(audioK, 10) + "k"

	if op.TwoPass {
		passlog := Scratch("passlog")
		first := Stage{
			Name:      "pass 1",
			Inputs:    []string{op.Source},
			Args:      []string{"-c:v", "libx264", "-b:v", rate, "-pass", "1", "-passlogfile", passlog, "-an", "-f", "mp4"},
			Output:    Output{Kind: OutputDiscard},
			DependsOn: -1,
		}
		second := Stage{
			Name:   "pass 2",
			Inputs: []string{op.Source},
			Args: []string{
				"-c:v", "libx264", "-b:v", rate, "-pass", "2", "-passlogfile", passlog,
				"-c:a", "aac", "-b:a", audioRate, "-movflags", "+faststart",
			},
			Output:    Output{Ext: "mp4", Suffix: "compressed"},
			DependsOn: 0,
		}
		return []Stage{first, second}, nil
	}

	burst := strconv.FormatInt(videoK*2, 10) + "k"
	return []Stage{{
		Name:   "encode " + rate,
		Inputs: []string{op.Source},
		Args: []string{
			"-c:v", "libx264", "-b:v", rate, "-maxrate", burst, "-bufsize", burst,
			"-c:a", "aac", "-b:a", audioRate, "-movflags", "+faststart",
		},
		Output:    Output{Ext: "mp4", Suffix: "compressed"},
		DependsOn: -1,
	}}, nil
}
