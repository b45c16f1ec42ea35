package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// VolumeKind distinguishes percent volume changes from decibel adjustments.
type VolumeKind int

const (
	VolumePercent VolumeKind = iota
	VolumeDecibels
)

// Volume is an audio level change, either a percentage of the source level
// or a signed decibel adjustment.
type Volume struct {
	Kind     VolumeKind
	Percent  float64
	Decibels float64
}

// ParseVolume accepts "150%", "150", "+3db" or "-5db". Decibel values may
// be negative; percentages must be non-negative.
func ParseVolume(s string) (Volume, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return Volume{}, fmt.Errorf("volume %q: empty value", s)
	}
	if strings.HasSuffix(trimmed, "db") {
		value, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(trimmed, "db")), 64)
		if err != nil {
			return Volume{}, fmt.Errorf("volume %q: invalid decibel value (try +3db, -5db)", s)
		}
		return Volume{Kind: VolumeDecibels, Decibels: value}, nil
	}
	percent := strings.TrimSuffix(trimmed, "%")
	value, err := strconv.ParseFloat(strings.TrimSpace(percent), 64)
	if err != nil {
		return Volume{}, fmt.Errorf("volume %q: expected a percentage or decibels (try 150%%, -5db)", s)
	}
	if value < 0 {
		return Volume{}, fmt.Errorf("volume %q: percentage must not be negative", s)
	}
	return Volume{Kind: VolumePercent, Percent: value}, nil
}

// FFmpegVolume returns the linear gain factor for the volume filter.
func (v Volume) FFmpegVolume() float64 {
	if v.Kind == VolumeDecibels {
		return math.Pow(10, v.Decibels/20)
	}
	return v.Percent / 100
}

func (v Volume) String() string {
	if v.Kind == VolumeDecibels {
		return strconv.FormatFloat(v.Decibels, 'f', -1, 64) + "dB"
	}
	return strconv.FormatFloat(v.Percent, 'f', -1, 64) + "%"
}
