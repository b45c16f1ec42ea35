package operation

import (
	"fmt"

	"reel/internal/units"
)

// Convert changes a file's container or codec, or retargets it for a
// social platform. Exactly one of Format, Platform or Vertical is set.
type Convert struct {
	Source   string
	Format   string
	Platform *PlatformPreset
	Quality  *QualityPreset
	Codec    string
	Vertical bool
	LoopGif  bool
	Optimize bool
}

func (Convert) Family() Family         { return FamilyConvert }
func (c Convert) PrimaryInput() string { return c.Source }

func (c Convert) Summary() string {
	switch {
	case c.Vertical:
		return fmt.Sprintf("convert %s to vertical", c.Source)
	case c.Platform != nil:
		return fmt.Sprintf("convert %s for %s", c.Source, c.Platform.Name)
	default:
		return fmt.Sprintf("convert %s to %s", c.Source, c.Format)
	}
}

// Compress re-encodes toward exactly one of a file size, a bitrate, or a
// quality preset.
type Compress struct {
	Source  string
	Size    units.Size
	Bitrate units.Bitrate
	Quality *QualityPreset
	TwoPass bool
}

func (Compress) Family() Family         { return FamilyCompress }
func (c Compress) PrimaryInput() string { return c.Source }

func (c Compress) Summary() string {
	switch {
	case c.Size > 0:
		return fmt.Sprintf("compress %s to %s", c.Source, c.Size)
	case c.Bitrate > 0:
		return fmt.Sprintf("compress %s to %s", c.Source, c.Bitrate)
	default:
		return fmt.Sprintf("compress %s to %s quality", c.Source, c.Quality.Name)
	}
}
