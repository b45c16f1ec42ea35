package units

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Size is a storage size normalized to bytes.
type Size int64

// ParseSize accepts strings such as "10mb", "800k", "1.5gb" and normalizes
// them to bytes using binary multipliers.
func ParseSize(s string) (Size, error) {
	value, unit, err := splitNumberUnit(s)
	if err != nil {
		return 0, fmt.Errorf("size %q: %w", s, err)
	}
	var mult float64
	switch unit {
	case "b":
		mult = 1
	case "k", "kb":
		mult = 1 << 10
	case "m", "mb":
		mult = 1 << 20
	case "g", "gb":
		mult = 1 << 30
	default:
		return 0, fmt.Errorf("size %q: unknown unit %q (try 10mb, 800k, 1.5gb)", s, unit)
	}
	bytes := value * mult
	if bytes <= 0 {
		return 0, fmt.Errorf("size %q: must be positive", s)
	}
	return Size(bytes + 0.5), nil
}

// Bytes returns the size in bytes.
func (s Size) Bytes() int64 { return int64(s) }

func (s Size) String() string { return humanize.IBytes(uint64(s)) }

// Bitrate is a data rate normalized to bits per second.
type Bitrate int64

// ParseBitrate accepts strings such as "2000kbps", "2mbps", "500k" and
// normalizes them to bits per second using decimal multipliers.
func ParseBitrate(s string) (Bitrate, error) {
	value, unit, err := splitNumberUnit(s)
	if err != nil {
		return 0, fmt.Errorf("bitrate %q: %w", s, err)
	}
	var mult float64
	switch unit {
	case "bps", "b":
		mult = 1
	case "k", "kbps":
		mult = 1_000
	case "m", "mbps":
		mult = 1_000_000
	default:
		return 0, fmt.Errorf("bitrate %q: unknown unit %q (try 2000kbps, 2mbps, 500k)", s, unit)
	}
	bps := value * mult
	if bps <= 0 {
		return 0, fmt.Errorf("bitrate %q: must be positive", s)
	}
	return Bitrate(bps + 0.5), nil
}

// BitsPerSecond returns the rate in bits per second.
func (b Bitrate) BitsPerSecond() int64 { return int64(b) }

// Kilobits returns the rate in whole kilobits per second, never below 1.
func (b Bitrate) Kilobits() int64 {
	kbps := int64(b) / 1000
	if kbps < 1 {
		kbps = 1
	}
	return kbps
}

func (b Bitrate) String() string {
	switch {
	case b >= 1_000_000:
		return strconv.FormatFloat(float64(b)/1_000_000, 'f', -1, 64) + " Mbps"
	case b >= 1_000:
		return strconv.FormatFloat(float64(b)/1_000, 'f', -1, 64) + " kbps"
	default:
		return strconv.FormatInt(int64(b), 10) + " bps"
	}
}

// splitNumberUnit separates a trailing alphabetic unit from its numeric
// prefix. The unit is lowercased; the number must be non-negative.
func splitNumberUnit(s string) (float64, string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return 0, "", fmt.Errorf("empty value")
	}
	cut := len(trimmed)
	for cut > 0 {
		c := trimmed[cut-1]
		if c >= '0' && c <= '9' || c == '.' {
			break
		}
		cut--
	}
	numPart := strings.TrimSpace(trimmed[:cut])
	unit := strings.TrimSpace(trimmed[cut:])
	if numPart == "" {
		return 0, "", fmt.Errorf("missing numeric value")
	}
	value, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid number %q", numPart)
	}
	if value < 0 {
		return 0, "", fmt.Errorf("negative value")
	}
	return value, unit, nil
}
