package operation

// Family groups operation variants for reporting and dispatch.
type Family string

const (
	FamilyConvert   Family = "convert"
	FamilyCompress  Family = "compress"
	FamilyEdit      Family = "edit"
	FamilySpeed     Family = "speed"
	FamilyAudio     Family = "audio"
	FamilyComposite Family = "composite"
	FamilyEffect    Family = "effect"
	FamilyDetect    Family = "detect"
	FamilySnapshot  Family = "snapshot"
	FamilyMetadata  Family = "metadata"
	FamilyBatch     Family = "batch"
	FamilyWatch     Family = "watch"
	FamilyPipeline  Family = "pipeline"
)

// Operation is a fully validated transformation request. PrimaryInput is
// the path output naming derives from; multi-input operations return
// their base or first input.
type Operation interface {
	Family() Family
	PrimaryInput() string
	Summary() string
}
