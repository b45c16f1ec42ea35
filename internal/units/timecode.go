package units

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timecode is a point in (or span of) media time, normalized to milliseconds.
type Timecode int64

// ParseTimecode accepts "SS", "MM:SS", "HH:MM:SS", each with an optional
// fractional part, plus bare fractional seconds such as "0.5s".
func ParseTimecode(s string) (Timecode, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	trimmed = strings.TrimSuffix(trimmed, "s")
	if trimmed == "" {
		return 0, fmt.Errorf("time %q: empty value", s)
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("time %q: too many fields (try 30, 0:30 or 1:05:30)", s)
	}

	var total float64
	for i, part := range parts {
		if strings.TrimSpace(part) == "" {
			return 0, fmt.Errorf("time %q: empty field", s)
		}
		// Only the last (seconds) field may be fractional.
		if i < len(parts)-1 && strings.Contains(part, ".") {
			return 0, fmt.Errorf("time %q: only seconds may be fractional", s)
		}
		value, err := strconv.ParseFloat(part, 64)
		if err != nil || value < 0 {
			return 0, fmt.Errorf("time %q: invalid field %q", s, part)
		}
		if i > 0 && value >= 60 {
			return 0, fmt.Errorf("time %q: field %q exceeds 59", s, part)
		}
		total = total*60 + value
	}
	return Timecode(total*1000 + 0.5), nil
}

// Milliseconds returns the normalized duration in milliseconds.
func (t Timecode) Milliseconds() int64 { return int64(t) }

// Seconds returns the duration as fractional seconds.
func (t Timecode) Seconds() float64 { return float64(t) / 1000 }

// Duration converts the timecode to a time.Duration.
func (t Timecode) Duration() time.Duration { return time.Duration(t) * time.Millisecond }

// FFmpeg renders the timecode in the HH:MM:SS[.mmm] form the encoder accepts.
func (t Timecode) FFmpeg() string {
	ms := int64(t)
	hours := ms / 3_600_000
	ms -= hours * 3_600_000
	minutes := ms / 60_000
	ms -= minutes * 60_000
	seconds := ms / 1000
	ms -= seconds * 1000
	if ms == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, ms)
}

func (t Timecode) String() string { return t.FFmpeg() }

// SpeedFactor is a playback rate multiplier parsed from strings like "2x".
type SpeedFactor float64

// ParseSpeedFactor accepts "2x", "1.5x" or a bare positive number.
func ParseSpeedFactor(s string) (SpeedFactor, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	trimmed = strings.TrimSuffix(trimmed, "x")
	value, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
	if err != nil {
		return 0, fmt.Errorf("speed factor %q: invalid number (try 2x, 0.5x)", s)
	}
	if value <= 0 {
		return 0, fmt.Errorf("speed factor %q: must be positive", s)
	}
	return SpeedFactor(value), nil
}

func (f SpeedFactor) String() string {
	return strconv.FormatFloat(float64(f), 'f', -1, 64) + "x"
}
