package ffprobe

import (
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", CodecName: "h264", Width: 1920, Height: 1080, AvgFrameRate: "30000/1001"},
			{CodecType: "audio", CodecName: "aac"},
			{CodecType: "audio", CodecName: "ac3"},
		},
		Format: Format{
			Duration:   "123.45",
			Size:       "1000",
			BitRate:    "32000",
			FormatName: "mov,mp4,m4a",
		},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if result.BitRate() != 32000 {
		t.Fatalf("unexpected bitrate: %d", result.BitRate())
	}

	facts := result.Facts()
	if !facts.HasVideo || !facts.HasAudio {
		t.Fatalf("facts streams = %+v", facts)
	}
	if facts.Width != 1920 || facts.Height != 1080 {
		t.Fatalf("facts dimensions = %dx%d", facts.Width, facts.Height)
	}
	if facts.FPS < 29.9 || facts.FPS > 30.0 {
		t.Fatalf("facts fps = %v", facts.FPS)
	}
	if facts.Duration.Milliseconds() != 123_450 {
		t.Fatalf("facts duration = %v", facts.Duration)
	}
	if facts.VideoCodec != "h264" || facts.AudioCodec != "aac" {
		t.Fatalf("facts codecs = %q/%q", facts.VideoCodec, facts.AudioCodec)
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected duration 0, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
}

func TestParseFrameRate(t *testing.T) {
	cases := map[string]float64{
		"30/1": 30,
		"25":   25,
		"0/0":  0,
		"":     0,
	}
	for in, want := range cases {
		if got := parseFrameRate(in); got != want {
			t.Fatalf("parseFrameRate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestAudioOnlyFacts(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio", CodecName: "mp3"}},
		Format:  Format{Duration: "10"},
	}
	facts := result.Facts()
	if facts.HasVideo {
		t.Fatal("audio-only input should not report video")
	}
	if !facts.HasAudio {
		t.Fatal("missing audio fact")
	}
}
