package compile

import (
	"fmt"

	"reel/internal/media/ffprobe"
	"reel/internal/operation"
)

const sepiaMatrix = "colorchannelmixer=.393:.769:.189:0:.349:.686:.168:0:.272:.534:.131"

func compileSimpleEffect(op operation.SimpleEffect, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	switch op.Kind {
	case operation.EffectGrayscale:
		return []Stage{vfStage("grayscale", op.Source, "hue=s=0", "grayscale")}, nil
	case operation.EffectSepia:
		return []Stage{vfStage("sepia", op.Source, sepiaMatrix, "sepia")}, nil
	case operation.EffectDenoise:
		return []Stage{vfStage("denoise", op.Source, "hqdn3d=4:3:6:4.5", "denoised")}, nil
	case operation.EffectStabilize:
		return compileStabilize(op.Source), nil
	default:
		return nil, compileErr(fmt.Sprintf("unknown effect %q", op.Kind))
	}
}

// compileStabilize runs vidstab's detect/transform pair: the first pass
// writes motion vectors to scratch, the second applies them.
func compileStabilize(input string) []Stage {
	transforms := Scratch("transforms.trf")
	detect := Stage{
		Name:      "analyze motion",
		Inputs:    []string{input},
		Args:      []string{"-vf", "vidstabdetect=result=" + transforms, "-f", "null"},
		Output:    Output{Kind: OutputDiscard},
		DependsOn: -1,
	}
	apply := vfStage("stabilize", input, "vidstabtransform=input="+transforms+":smoothing=30,unsharp=5:5:0.8:3:3:0.4", "stabilized")
	apply.DependsOn = 0
	return []Stage{detect, apply}
}

func compileColorAdjust(op operation.ColorAdjust, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	if op.Preset != "" {
		vf, err := presetChain(op.Preset)
		if err != nil {
			return nil, err
		}
		return []Stage{vfStage("color grade", op.Source, vf, "graded")}, nil
	}
	// Sliders are -100..100; eq wants brightness in [-1,1] and
	// contrast/saturation as multipliers around 1.
	vf := fmt.Sprintf("eq=brightness=%s:contrast=%s:saturation=%s",
		num(op.Brightness/100), num(1+op.Contrast/100), num(1+op.Saturation/100))
	return []Stage{vfStage("adjust colors", op.Source, vf, "adjusted")}, nil
}

func presetChain(preset operation.ColorPreset) (string, error) {
	switch preset {
	case operation.ColorVintage:
		return "curves=vintage,vignette", nil
	case operation.ColorSepia:
		return sepiaMatrix, nil
	case operation.ColorBlackWhite:
		return "hue=s=0", nil
	case operation.ColorCinematic:
		return "eq=contrast=1.1:saturation=0.9,colorbalance=rs=.05:bs=-.05", nil
	case operation.ColorWarm:
		return "colortemperature=temperature=4500", nil
	case operation.ColorCool:
		return "colortemperature=temperature=8000", nil
	case operation.ColorDramatic:
		return "eq=contrast=1.3:saturation=1.1,vignette", nil
	default:
		return "", compileErr(fmt.Sprintf("unknown color preset %q", preset))
	}
}

func compileVintageFilm(op operation.VintageFilm, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	var vf string
	switch op.Era {
	case operation.EraSeventies:
		vf = "eq=saturation=0.75:gamma=1.1,colorbalance=rs=.08,noise=alls=18:allf=t+u,vignette"
	case operation.EraEighties:
		// VHS look: shifted RGB channels plus heavy noise.
		vf = "format=rgb24,geq=r='r(X+3,Y)':g='g(X,Y)':b='b(X-3,Y)',noise=alls=20:allf=t+u,format=yuv420p"
	case operation.EraNineties:
		vf = "eq=saturation=0.85:contrast=1.05,noise=alls=10:allf=t+u"
	default:
		vf = "curves=vintage,noise=alls=12:allf=t+u,vignette"
	}
	return []Stage{vfStage("vintage film", op.Source, vf, "vintage")}, nil
}

func compileVignette(op operation.Vignette, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	// Stronger intensity means a wider darkened band, expressed as the
	// vignette angle in radians.
	angle := 0.2 + 1.2*op.Intensity*op.Size
	vf := fmt.Sprintf("vignette=angle=%s", num(angle))
	return []Stage{vfStage("vignette", op.Source, vf, "vignette")}, nil
}

func compileBlurRegion(op operation.BlurRegion, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	r := op.Region
	graph := fmt.Sprintf(
		"[0:v]boxblur=10:10[blurred];[blurred]crop=%d:%d:%d:%d[patch];[0:v][patch]overlay=%d:%d[v]",
		r.Width, r.Height, r.X, r.Y, r.X, r.Y)
	return []Stage{complexStage("blur region", []string{op.Source}, graph, "blurred")}, nil
}

func compileFade(op operation.Fade, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	duration := facts.Duration.Seconds()
	if op.Out > 0 && duration <= 0 {
		return nil, compileErr("cannot place a fade-out without a known duration")
	}

	var video, audio []string
	if op.In > 0 {
		d := op.In.Seconds()
		video = append(video, fmt.Sprintf("fade=t=in:st=0:d=%s", num(d)))
		audio = append(audio, fmt.Sprintf("afade=t=in:st=0:d=%s", num(d)))
	}
	if op.Out > 0 {
		d := op.Out.Seconds()
		start := duration - d
		if start < 0 {
			start = 0
		}
		video = append(video, fmt.Sprintf("fade=t=out:st=%s:d=%s", num(start), num(d)))
		audio = append(audio, fmt.Sprintf("afade=t=out:st=%s:d=%s", num(start), num(d)))
	}

	vcodec, acodec := codecsFor(op.Source)
	if !facts.HasAudio {
		stage := vfStage("fade", op.Source, joinFilters(video), "faded")
		stage.Args = append(stage.Args[:4], "-an")
		return []Stage{stage}, nil
	}
	graph := fmt.Sprintf("[0:v]%s[v];[0:a]%s[a]", joinFilters(video), joinFilters(audio))
	return []Stage{{
		Name:   "fade",
		Inputs: []string{op.Source},
		Args: []string{
			"-filter_complex", graph, "-map", "[v]", "-map", "[a]",
			"-c:v", vcodec, "-c:a", acodec,
		},
		Output:    Output{Suffix: "faded"},
		DependsOn: -1,
	}}, nil
}

func joinFilters(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}

func compileRemoveBackground(op operation.RemoveBackground, facts ffprobe.Facts) ([]Stage, error) {
	if err := needVideo(facts); err != nil {
		return nil, err
	}
	vf := fmt.Sprintf("chromakey=color=%s:similarity=0.3:blend=0.1", op.Key.FFmpeg())
	return []Stage{{
		Name:      "remove background",
		Inputs:    []string{op.Source},
		Args:      []string{"-vf", vf, "-c:v", "libx264", "-pix_fmt", "yuv420p", "-c:a", "copy"},
		Output:    Output{Suffix: "keyed"},
		DependsOn: -1,
	}}, nil
}
