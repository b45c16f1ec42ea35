package operation

import "fmt"

// metadataFields are the tags set-metadata accepts.
var metadataFields = map[string]struct{}{
	"title":       {},
	"author":      {},
	"copyright":   {},
	"comment":     {},
	"description": {},
}

// SetMetadata writes one container tag without re-encoding streams.
type SetMetadata struct {
	Source string
	Field  string
	Value  string
}

func (SetMetadata) Family() Family         { return FamilyMetadata }
func (s SetMetadata) PrimaryInput() string { return s.Source }
func (s SetMetadata) Summary() string {
	return fmt.Sprintf("set %s of %s to %q", s.Field, s.Source, s.Value)
}

// ExtractMetadata dumps all container metadata as JSON.
type ExtractMetadata struct {
	Source string
}

func (ExtractMetadata) Family() Family         { return FamilyMetadata }
func (e ExtractMetadata) PrimaryInput() string { return e.Source }
func (e ExtractMetadata) Summary() string      { return "extract metadata from " + e.Source }
