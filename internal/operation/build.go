package operation

import (
	"fmt"
	"strconv"
	"strings"

	"reel/internal/engine"
	"reel/internal/grammar"
	"reel/internal/units"
)

// Build maps a resolved ParseTree to a validated Operation. All
// validation failures carry engine.ErrValidation and name the field and
// constraint that was violated.
func Build(tree *grammar.ParseTree) (Operation, error) {
	builder, ok := builders[tree.Verb]
	if !ok {
		return nil, invalid(fmt.Sprintf("verb %q has no operation builder", tree.Verb))
	}
	op, err := builder(tree)
	if err != nil {
		return nil, err
	}
	return op, nil
}

type buildFunc func(*grammar.ParseTree) (Operation, error)

var builders map[string]buildFunc

func init() {
	builders = map[string]buildFunc{
		"convert":           buildConvert,
		"compress":          buildCompress,
		"trim":              buildTrim,
		"resize":            buildResize,
		"crop":              buildCrop,
		"rotate":            buildRotate,
		"flip":              buildFlip,
		"mirror":            buildFlip,
		"speed-up":          buildSpeedUp,
		"slow-down":         buildSlowDown,
		"timelapse":         buildTimelapse,
		"reverse":           single(func(in string) Operation { return Reverse{Source: in} }),
		"mute":              single(func(in string) Operation { return Mute{Source: in} }),
		"fps":               buildFps,
		"loop":              buildLoop,
		"thumbnail":         buildThumbnail,
		"thumbnails":        buildThumbnailGrid,
		"tile":              buildTile,
		"extract-audio":     buildExtractAudio,
		"extract-frames":    buildExtractFrames,
		"merge":             buildMerge,
		"concat":            buildConcat,
		"add":               buildAddAudio,
		"grayscale":         simpleEffect(EffectGrayscale),
		"sepia":             simpleEffect(EffectSepia),
		"denoise":           simpleEffect(EffectDenoise),
		"stabilize":         simpleEffect(EffectStabilize),
		"normalize":         single(func(in string) Operation { return Normalize{Source: in} }),
		"watermark":         buildWatermark,
		"add-text":          buildAddText,
		"filter":            buildFilter,
		"color-grade":       buildColorGrade,
		"vintage-film":      buildVintageFilm,
		"vignette":          buildVignette,
		"blur":              buildBlurRegion,
		"fade":              buildFade,
		"adjust-volume":     buildVolume,
		"split":             buildSplit,
		"montage":           buildMontage,
		"collage":           buildMontage,
		"crossfade":         buildCrossfade,
		"transition":        buildTransition,
		"pip":               buildPip,
		"overlay":           buildOverlay,
		"split-screen":      buildSplitScreen,
		"compare":           buildCompare,
		"remove-background": buildRemoveBackground,
		"detect-scenes":     detect(DetectScenes),
		"detect-black":      detect(DetectBlack),
		"detect-silence":    detect(DetectSilence),
		"analyze-loudness":  detect(DetectLoudness),
		"info":              single(func(in string) Operation { return Probe{Source: in} }),
		"set-metadata":      buildSetMetadata,
		"extract-metadata":  single(func(in string) Operation { return ExtractMetadata{Source: in} }),
		"batch":             buildBatch,
		"watch":             buildWatch,
		"pipeline":          buildPipeline,
	}
}

func invalid(detail string) error {
	return engine.Wrap(engine.ErrValidation, "", detail, nil)
}

func invalidField(field string, err error) error {
	return engine.Wrap(engine.ErrValidation, field, "", err)
}

func requireSlot(tree *grammar.ParseTree, role string) (string, error) {
	v, ok := tree.Slot(role)
	if !ok || v == "" {
		return "", invalid(fmt.Sprintf("missing %s", role))
	}
	return v, nil
}

func single(make func(string) Operation) buildFunc {
	return func(tree *grammar.ParseTree) (Operation, error) {
		input, err := requireSlot(tree, grammar.RoleInput)
		if err != nil {
			return nil, err
		}
		return make(input), nil
	}
}

func simpleEffect(kind SimpleEffectKind) buildFunc {
	return single(func(in string) Operation { return SimpleEffect{Source: in, Kind: kind} })
}

func detect(kind DetectKind) buildFunc {
	return single(func(in string) Operation { return Detect{Source: in, Kind: kind} })
}

func buildConvert(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	target, err := requireSlot(tree, grammar.RoleTarget)
	if err != nil {
		return nil, err
	}
	target = strings.ToLower(target)

	op := Convert{Source: input}
	if q, ok := tree.Flag("quality"); ok {
		preset, err := ParseQualityPreset(q)
		if err != nil {
			return nil, invalidField("quality", err)
		}
		op.Quality = &preset
	}
	if codec, ok := tree.Flag("codec"); ok {
		switch strings.ToLower(codec) {
		case "h264", "h265", "vp9", "copy":
			op.Codec = strings.ToLower(codec)
		default:
			return nil, invalid(fmt.Sprintf("codec %q: expected h264, h265, vp9 or copy", codec))
		}
	}
	op.LoopGif = tree.HasFlag("loop")
	op.Optimize = tree.HasFlag("optimize")

	switch {
	case target == "vertical" || target == "portrait":
		op.Vertical = true
	default:
		if platform, ok := LookupPlatform(target); ok {
			op.Platform = &platform
			break
		}
		if _, ok := convertFormats[target]; !ok {
			return nil, invalid(fmt.Sprintf("format %q: not a recognized target format or platform", target))
		}
		op.Format = target
	}
	return op, nil
}

func buildCompress(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	target, err := requireSlot(tree, grammar.RoleTarget)
	if err != nil {
		return nil, err
	}

	op := Compress{Source: input, TwoPass: tree.HasFlag("two-pass")}
	if strings.Contains(strings.ToLower(target), "quality") {
		preset, err := ParseQualityPreset(target)
		if err != nil {
			return nil, invalidField("target", err)
		}
		op.Quality = &preset
		if op.TwoPass {
			return nil, invalid("--two-pass requires a size or bitrate target, not a quality preset")
		}
		return op, nil
	}
	if size, err := units.ParseSize(target); err == nil {
		op.Size = size
		return op, nil
	}
	if rate, err := units.ParseBitrate(target); err == nil {
		op.Bitrate = rate
		return op, nil
	}
	return nil, invalid(fmt.Sprintf("target %q: expected a size (10mb), bitrate (2000kbps) or quality preset (high-quality)", target))
}

func buildTrim(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	start, end, err := timeRange(tree)
	if err != nil {
		return nil, err
	}
	return Trim{Source: input, Start: start, End: end}, nil
}

func timeRange(tree *grammar.ParseTree) (units.Timecode, units.Timecode, error) {
	rawStart, err := requireSlot(tree, grammar.RoleStart)
	if err != nil {
		return 0, 0, err
	}
	rawEnd, err := requireSlot(tree, grammar.RoleEnd)
	if err != nil {
		return 0, 0, err
	}
	start, err := units.ParseTimecode(rawStart)
	if err != nil {
		return 0, 0, invalidField("start", err)
	}
	end, err := units.ParseTimecode(rawEnd)
	if err != nil {
		return 0, 0, invalidField("end", err)
	}
	if end <= start {
		return 0, 0, invalid(fmt.Sprintf("end %s must be after start %s", end, start))
	}
	return start, end, nil
}

func buildResize(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	raw, err := requireSlot(tree, grammar.RoleTarget)
	if err != nil {
		return nil, err
	}
	target, err := units.ParseScale(raw)
	if err != nil {
		return nil, invalidField("target", err)
	}
	return Resize{Source: input, Target: target}, nil
}

func buildCrop(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	raw, err := requireSlot(tree, grammar.RoleTarget)
	if err != nil {
		return nil, err
	}
	size, err := units.ParseDimensions(raw)
	if err != nil {
		return nil, invalidField("size", err)
	}
	return Crop{Source: input, Size: size}, nil
}

func buildRotate(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	raw, err := requireSlot(tree, grammar.RoleDegrees)
	if err != nil {
		return nil, err
	}
	degrees, err := units.ParseRotation(raw)
	if err != nil {
		return nil, invalidField("degrees", err)
	}
	if degrees == 0 {
		return nil, invalid("rotation by 0 degrees is a no-op")
	}
	return Rotate{Source: input, Degrees: degrees}, nil
}

func buildFlip(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	raw, err := requireSlot(tree, grammar.RoleDirection)
	if err != nil {
		return nil, err
	}
	direction, err := units.ParseFlip(raw)
	if err != nil {
		return nil, invalidField("direction", err)
	}
	return Flip{Source: input, Direction: direction}, nil
}

func speedFactor(tree *grammar.ParseTree) (string, units.SpeedFactor, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return "", 0, err
	}
	raw, err := requireSlot(tree, grammar.RoleFactor)
	if err != nil {
		return "", 0, err
	}
	factor, err := units.ParseSpeedFactor(raw)
	if err != nil {
		return "", 0, invalidField("factor", err)
	}
	return input, factor, nil
}

func buildSpeedUp(tree *grammar.ParseTree) (Operation, error) {
	input, factor, err := speedFactor(tree)
	if err != nil {
		return nil, err
	}
	return Speed{Source: input, Factor: factor, KeepPitch: tree.HasFlag("keep-pitch")}, nil
}

func buildSlowDown(tree *grammar.ParseTree) (Operation, error) {
	input, factor, err := speedFactor(tree)
	if err != nil {
		return nil, err
	}
	// "slow-down by 2x" means half speed.
	return Speed{Source: input, Factor: 1 / factor, KeepPitch: tree.HasFlag("keep-pitch")}, nil
}

func buildTimelapse(tree *grammar.ParseTree) (Operation, error) {
	input, factor, err := speedFactor(tree)
	if err != nil {
		return nil, err
	}
	if factor < 2 {
		return nil, invalid("timelapse speed must be at least 2x")
	}
	return Speed{Source: input, Factor: factor}, nil
}

func buildFps(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	raw, err := requireSlot(tree, grammar.RoleTarget)
	if err != nil {
		return nil, err
	}
	rate, err := strconv.Atoi(raw)
	if err != nil || rate <= 0 || rate > 240 {
		return nil, invalid(fmt.Sprintf("fps %q: expected a whole number between 1 and 240", raw))
	}
	return Fps{Source: input, Rate: rate}, nil
}

func buildLoop(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	raw, err := requireSlot(tree, grammar.RoleCount)
	if err != nil {
		return nil, err
	}
	times, err := strconv.Atoi(raw)
	if err != nil || times < 2 {
		return nil, invalid(fmt.Sprintf("loop count %q: expected a whole number of at least 2", raw))
	}
	return Loop{Source: input, Times: times}, nil
}

func buildThumbnail(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	raw, err := requireSlot(tree, grammar.RoleTime)
	if err != nil {
		return nil, err
	}
	at, err := units.ParseTimecode(raw)
	if err != nil {
		return nil, invalidField("time", err)
	}
	return Thumbnail{Source: input, At: at}, nil
}

func layoutSlot(tree *grammar.ParseTree) (units.Layout, error) {
	raw, err := requireSlot(tree, grammar.RoleLayout)
	if err != nil {
		return units.Layout{}, err
	}
	layout, err := units.ParseLayout(raw)
	if err != nil {
		return units.Layout{}, invalidField("layout", err)
	}
	return layout, nil
}

func buildThumbnailGrid(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	layout, err := layoutSlot(tree)
	if err != nil {
		return nil, err
	}
	return ThumbnailGrid{Source: input, Layout: layout}, nil
}

func buildTile(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	layout, err := layoutSlot(tree)
	if err != nil {
		return nil, err
	}
	return Tile{Source: input, Layout: layout}, nil
}

func buildExtractAudio(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	op := ExtractAudio{Source: input, Format: "mp3"}
	if f, ok := tree.Flag("format"); ok {
		switch strings.ToLower(f) {
		case "mp3", "wav":
			op.Format = strings.ToLower(f)
		default:
			return nil, invalid(fmt.Sprintf("format %q: expected mp3 or wav", f))
		}
	}
	if _, ok := tree.Slot(grammar.RoleStart); ok {
		start, end, err := timeRange(tree)
		if err != nil {
			return nil, err
		}
		op.Start, op.End = &start, &end
	}
	return op, nil
}

func buildExtractFrames(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	raw, err := requireSlot(tree, grammar.RoleInterval)
	if err != nil {
		return nil, err
	}
	interval, err := units.ParseTimecode(raw)
	if err != nil {
		return nil, invalidField("interval", err)
	}
	if interval == 0 {
		return nil, invalid("frame interval must be positive")
	}
	return ExtractFrames{Source: input, Interval: interval}, nil
}

func pair(tree *grammar.ParseTree) (string, string, error) {
	a, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return "", "", err
	}
	b, err := requireSlot(tree, grammar.RoleSecondary)
	if err != nil {
		return "", "", err
	}
	if a == b {
		return "", "", invalid("the two inputs must be different files")
	}
	return a, b, nil
}

func buildMerge(tree *grammar.ParseTree) (Operation, error) {
	a, b, err := pair(tree)
	if err != nil {
		return nil, err
	}
	return Merge{A: a, B: b}, nil
}

func buildConcat(tree *grammar.ParseTree) (Operation, error) {
	if len(tree.Paths) < 2 {
		return nil, invalid(fmt.Sprintf("concat needs at least 2 inputs, %d given", len(tree.Paths)))
	}
	return Concat{Inputs: tree.Paths}, nil
}

func buildAddAudio(tree *grammar.ParseTree) (Operation, error) {
	video, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	audio, err := requireSlot(tree, grammar.RoleSecondary)
	if err != nil {
		return nil, err
	}
	return AddAudio{Source: video, Audio: audio}, nil
}

func anchorSlot(tree *grammar.ParseTree) (units.Anchor, error) {
	raw, err := requireSlot(tree, grammar.RolePosition)
	if err != nil {
		return units.Anchor{}, err
	}
	anchor, err := units.ParseAnchor(raw)
	if err != nil {
		return units.Anchor{}, invalidField("position", err)
	}
	return anchor, nil
}

func opacityFlag(tree *grammar.ParseTree) (units.Opacity, error) {
	raw, ok := tree.Flag("opacity")
	if !ok {
		return units.Opacity(1), nil
	}
	opacity, err := units.ParseOpacity(raw)
	if err != nil {
		return 0, invalidField("opacity", err)
	}
	return opacity, nil
}

func buildWatermark(tree *grammar.ParseTree) (Operation, error) {
	input, logo, err := pair(tree)
	if err != nil {
		return nil, err
	}
	position, err := anchorSlot(tree)
	if err != nil {
		return nil, err
	}
	opacity, err := opacityFlag(tree)
	if err != nil {
		return nil, err
	}
	op := Watermark{Source: input, Logo: logo, Position: position, Opacity: opacity}
	if raw, ok := tree.Flag("size"); ok {
		scale, err := units.ParseScale(raw)
		if err != nil {
			return nil, invalidField("size", err)
		}
		op.Scale = &scale
	}
	return op, nil
}

func buildAddText(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	text, err := requireSlot(tree, grammar.RoleText)
	if err != nil {
		return nil, err
	}
	position, err := anchorSlot(tree)
	if err != nil {
		return nil, err
	}
	op := TextOverlay{Source: input, Text: text, Position: position, FontSize: 24, Timestamp: tree.HasFlag("timestamp")}
	op.Color, _ = units.ParseColor("white")
	if raw, ok := tree.Flag("font-size"); ok {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 8 || size > 300 {
			return nil, invalid(fmt.Sprintf("font-size %q: expected a whole number between 8 and 300", raw))
		}
		op.FontSize = size
	}
	if raw, ok := tree.Flag("color"); ok {
		color, err := units.ParseColor(raw)
		if err != nil {
			return nil, invalidField("color", err)
		}
		op.Color = color
	}
	return op, nil
}

func adjustmentFlag(tree *grammar.ParseTree, name string) (float64, error) {
	raw, ok := tree.Flag(name)
	if !ok {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < -100 || value > 100 {
		return 0, invalid(fmt.Sprintf("%s %q: expected a number between -100 and 100", name, raw))
	}
	return value, nil
}

func buildFilter(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	op := ColorAdjust{Source: input}
	if op.Brightness, err = adjustmentFlag(tree, "brightness"); err != nil {
		return nil, err
	}
	if op.Contrast, err = adjustmentFlag(tree, "contrast"); err != nil {
		return nil, err
	}
	if op.Saturation, err = adjustmentFlag(tree, "saturation"); err != nil {
		return nil, err
	}
	if raw, ok := tree.Flag("preset"); ok {
		preset, err := ParseColorPreset(raw)
		if err != nil {
			return nil, invalidField("preset", err)
		}
		op.Preset = preset
	}
	if op.Preset == "" && op.Brightness == 0 && op.Contrast == 0 && op.Saturation == 0 {
		return nil, invalid("filter needs at least one adjustment or a preset")
	}
	return op, nil
}

func buildColorGrade(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	raw, ok := tree.Flag("preset")
	if !ok {
		return nil, invalid("color-grade requires --preset")
	}
	preset, err := ParseColorPreset(raw)
	if err != nil {
		return nil, invalidField("preset", err)
	}
	return ColorAdjust{Source: input, Preset: preset}, nil
}

func buildVintageFilm(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	raw, _ := tree.Flag("era")
	era, err := ParseFilmEra(raw)
	if err != nil {
		return nil, invalidField("era", err)
	}
	return VintageFilm{Source: input, Era: era}, nil
}

func buildVignette(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	op := Vignette{Source: input, Intensity: 0.5, Size: 0.7}
	if raw, ok := tree.Flag("intensity"); ok {
		if op.Intensity, err = unitInterval("intensity", raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := tree.Flag("size"); ok {
		if op.Size, err = unitInterval("size", raw); err != nil {
			return nil, err
		}
	}
	return op, nil
}

func unitInterval(name, raw string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 || value > 1 {
		return 0, invalid(fmt.Sprintf("%s %q: expected a number between 0 and 1", name, raw))
	}
	return value, nil
}

func buildBlurRegion(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	raw, err := requireSlot(tree, grammar.RoleRegion)
	if err != nil {
		return nil, err
	}
	region, err := units.ParseRegion(raw)
	if err != nil {
		return nil, invalidField("region", err)
	}
	return BlurRegion{Source: input, Region: region}, nil
}

func buildFade(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	op := Fade{Source: input}
	if raw, ok := tree.Flag("fade-in"); ok {
		if op.In, err = units.ParseTimecode(raw); err != nil {
			return nil, invalidField("fade-in", err)
		}
	}
	if raw, ok := tree.Flag("fade-out"); ok {
		if op.Out, err = units.ParseTimecode(raw); err != nil {
			return nil, invalidField("fade-out", err)
		}
	}
	if op.In == 0 && op.Out == 0 {
		return nil, invalid("fade needs --fade-in, --fade-out or both")
	}
	return op, nil
}

func buildVolume(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	raw, err := requireSlot(tree, grammar.RoleVolume)
	if err != nil {
		return nil, err
	}
	volume, err := units.ParseVolume(raw)
	if err != nil {
		return nil, invalidField("volume", err)
	}
	return VolumeAdjust{Source: input, Volume: volume}, nil
}

func buildSplit(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	if raw, ok := tree.Slot(grammar.RoleInterval); ok {
		interval, err := units.ParseTimecode(raw)
		if err != nil {
			return nil, invalidField("interval", err)
		}
		if interval == 0 {
			return nil, invalid("split interval must be positive")
		}
		return SplitSegments{Source: input, Interval: interval}, nil
	}
	raw, err := requireSlot(tree, grammar.RoleCount)
	if err != nil {
		return nil, err
	}
	parts, err := strconv.Atoi(raw)
	if err != nil || parts < 2 {
		return nil, invalid(fmt.Sprintf("parts %q: expected a whole number of at least 2", raw))
	}
	return SplitSegments{Source: input, Parts: parts}, nil
}

func buildMontage(tree *grammar.ParseTree) (Operation, error) {
	layout, err := layoutSlot(tree)
	if err != nil {
		return nil, err
	}
	if len(tree.Paths) != layout.Cells() {
		return nil, invalid(fmt.Sprintf("montage layout %s: %d expected, %d given", layout, layout.Cells(), len(tree.Paths)))
	}
	return Montage{Inputs: tree.Paths, Layout: layout}, nil
}

func buildCrossfade(tree *grammar.ParseTree) (Operation, error) {
	a, b, err := pair(tree)
	if err != nil {
		return nil, err
	}
	raw, err := requireSlot(tree, grammar.RoleDuration)
	if err != nil {
		return nil, err
	}
	duration, err := units.ParseTimecode(raw)
	if err != nil {
		return nil, invalidField("duration", err)
	}
	if duration == 0 {
		return nil, invalid("crossfade duration must be positive")
	}
	return Crossfade{A: a, B: b, Duration: duration}, nil
}

func buildTransition(tree *grammar.ParseTree) (Operation, error) {
	a, b, err := pair(tree)
	if err != nil {
		return nil, err
	}
	kind := TransitionFade
	if raw, ok := tree.Flag("type"); ok {
		switch strings.ToLower(raw) {
		case "fade":
			kind = TransitionFade
		case "wipe":
			kind = TransitionWipe
		case "slide":
			kind = TransitionSlide
		default:
			return nil, invalid(fmt.Sprintf("transition type %q: expected fade, wipe or slide", raw))
		}
	}
	return Transition{A: a, B: b, Kind: kind}, nil
}

func buildPip(tree *grammar.ParseTree) (Operation, error) {
	base, over, err := pair(tree)
	if err != nil {
		return nil, err
	}
	position, err := anchorSlot(tree)
	if err != nil {
		return nil, err
	}
	return Pip{Source: base, Over: over, Position: position}, nil
}

func buildOverlay(tree *grammar.ParseTree) (Operation, error) {
	base, over, err := pair(tree)
	if err != nil {
		return nil, err
	}
	position, err := anchorSlot(tree)
	if err != nil {
		return nil, err
	}
	opacity, err := opacityFlag(tree)
	if err != nil {
		return nil, err
	}
	return Overlay{Source: base, Over: over, Position: position, Opacity: opacity}, nil
}

func buildSplitScreen(tree *grammar.ParseTree) (Operation, error) {
	a, b, err := pair(tree)
	if err != nil {
		return nil, err
	}
	op := SplitScreen{A: a, B: b}
	if raw, ok := tree.Flag("orientation"); ok {
		switch strings.ToLower(raw) {
		case "horizontal":
		case "vertical":
			op.Vertical = true
		default:
			return nil, invalid(fmt.Sprintf("orientation %q: expected horizontal or vertical", raw))
		}
	}
	return op, nil
}

func buildCompare(tree *grammar.ParseTree) (Operation, error) {
	a, b, err := pair(tree)
	if err != nil {
		return nil, err
	}
	return Compare{A: a, B: b}, nil
}

func buildRemoveBackground(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	raw, err := requireSlot(tree, grammar.RoleColor)
	if err != nil {
		return nil, err
	}
	key, err := units.ParseColor(raw)
	if err != nil {
		return nil, invalidField("color", err)
	}
	return RemoveBackground{Source: input, Key: key}, nil
}

func buildSetMetadata(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	field, err := requireSlot(tree, grammar.RoleField)
	if err != nil {
		return nil, err
	}
	field = strings.ToLower(field)
	if _, ok := metadataFields[field]; !ok {
		return nil, invalid(fmt.Sprintf("field %q: expected title, author, copyright, comment or description", field))
	}
	value, err := requireSlot(tree, grammar.RoleValue)
	if err != nil {
		return nil, err
	}
	return SetMetadata{Source: input, Field: field, Value: value}, nil
}

func buildBatch(tree *grammar.ParseTree) (Operation, error) {
	verb, err := requireSlot(tree, grammar.RoleOperation)
	if err != nil {
		return nil, err
	}
	if !grammar.KnownVerb(verb) {
		return nil, invalid(fmt.Sprintf("operation %q: not a known verb", verb))
	}
	pattern, err := requireSlot(tree, grammar.RolePattern)
	if err != nil {
		return nil, err
	}
	op := Batch{Pattern: pattern, Verb: strings.ToLower(verb)}
	op.Target, _ = tree.Slot(grammar.RoleTarget)
	if raw, ok := tree.Flag("if"); ok {
		condition, err := ParseCondition(raw)
		if err != nil {
			return nil, invalidField("if", err)
		}
		op.Condition = &condition
	}
	return op, nil
}

func buildWatch(tree *grammar.ParseTree) (Operation, error) {
	folder, err := requireSlot(tree, grammar.RoleFolder)
	if err != nil {
		return nil, err
	}
	verb, err := requireSlot(tree, grammar.RoleOperation)
	if err != nil {
		return nil, err
	}
	if !grammar.KnownVerb(verb) {
		return nil, invalid(fmt.Sprintf("operation %q: not a known verb", verb))
	}
	op := Watch{Folder: folder, Verb: strings.ToLower(verb)}
	op.Target, _ = tree.Slot(grammar.RoleTarget)
	return op, nil
}

func buildPipeline(tree *grammar.ParseTree) (Operation, error) {
	input, err := requireSlot(tree, grammar.RoleInput)
	if err != nil {
		return nil, err
	}
	steps, err := requireSlot(tree, grammar.RoleSteps)
	if err != nil {
		return nil, err
	}
	return Pipeline{Source: input, StepsFile: steps}, nil
}
