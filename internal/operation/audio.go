package operation

import (
	"fmt"

	"reel/internal/units"
)

// VolumeAdjust raises or lowers the audio level.
type VolumeAdjust struct {
	Source string
	Volume units.Volume
}

func (VolumeAdjust) Family() Family         { return FamilyAudio }
func (v VolumeAdjust) PrimaryInput() string { return v.Source }
func (v VolumeAdjust) Summary() string {
	return fmt.Sprintf("adjust volume of %s to %s", v.Source, v.Volume)
}

// Normalize levels the audio with loudness normalization.
type Normalize struct {
	Source string
}

func (Normalize) Family() Family         { return FamilyAudio }
func (n Normalize) PrimaryInput() string { return n.Source }
func (n Normalize) Summary() string      { return "normalize audio of " + n.Source }

// Mute strips the audio track.
type Mute struct {
	Source string
}

func (Mute) Family() Family         { return FamilyAudio }
func (m Mute) PrimaryInput() string { return m.Source }
func (m Mute) Summary() string      { return "mute " + m.Source }

// ExtractAudio pulls the audio track out of a video, optionally limited
// to a time range.
type ExtractAudio struct {
	Source string
	Start  *units.Timecode
	End    *units.Timecode
	Format string
}

func (ExtractAudio) Family() Family         { return FamilyAudio }
func (e ExtractAudio) PrimaryInput() string { return e.Source }
func (e ExtractAudio) Summary() string {
	if e.Start != nil {
		return fmt.Sprintf("extract audio from %s (%s to %s)", e.Source, *e.Start, *e.End)
	}
	return "extract audio from " + e.Source
}

// AddAudio replaces the video's audio track with a separate audio file.
type AddAudio struct {
	Source string
	Audio  string
}

func (AddAudio) Family() Family         { return FamilyAudio }
func (a AddAudio) PrimaryInput() string { return a.Source }
func (a AddAudio) Summary() string      { return fmt.Sprintf("add %s to %s", a.Audio, a.Source) }
