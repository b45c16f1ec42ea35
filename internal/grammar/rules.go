package grammar

import "strings"

// Slot roles bound by the rule table. The operation builder looks slots up
// by these names.
const (
	RoleInput     = "input"
	RoleSecondary = "secondary"
	RoleTarget    = "target"
	RoleStart     = "start"
	RoleEnd       = "end"
	RoleTime      = "time"
	RolePosition  = "position"
	RoleFactor    = "factor"
	RoleDegrees   = "degrees"
	RoleDirection = "direction"
	RoleLayout    = "layout"
	RoleDuration  = "duration"
	RoleInterval  = "interval"
	RoleCount     = "count"
	RoleText      = "text"
	RoleField     = "field"
	RoleValue     = "value"
	RolePattern   = "pattern"
	RoleOperation = "operation"
	RoleColor     = "color"
	RoleRegion    = "region"
	RoleFolder    = "folder"
	RoleSteps     = "steps"
	RoleVolume    = "volume"
)

// slot is one element of a rule's shape. Exactly one of literal,
// connective-bound role, or positional role applies.
type slot struct {
	literal    string
	connective string
	role       string
	kinds      []Kind
	variadic   bool
	optional   bool
}

// rule is one recognized sentence shape for a verb. A verb may carry
// several rules; the resolver picks the match with the most connectives.
type rule struct {
	verb  string
	slots []slot
}

func lit(text string) slot { return slot{literal: text} }

func pos(role string, kinds ...Kind) slot {
	return slot{role: role, kinds: kinds}
}

func conn(connective, role string, kinds ...Kind) slot {
	return slot{connective: connective, role: role, kinds: kinds}
}

func rest(role string) slot {
	return slot{role: role, kinds: []Kind{KindPath}, variadic: true}
}

func opt(s slot) slot {
	s.optional = true
	return s
}

var (
	anyValue  = []Kind{KindBareword, KindNumber, KindPath, KindQuoted}
	pathOnly  = []Kind{KindPath}
	wordOrNum = []Kind{KindBareword, KindNumber}
	numOnly   = []Kind{KindNumber}
	wordOnly  = []Kind{KindBareword}
	textKinds = []Kind{KindQuoted, KindBareword, KindNumber}
)

// rules is the grammar: every sentence shape the resolver recognizes.
var rules = []rule{
	{"convert", []slot{pos(RoleInput, pathOnly...), conn("to", RoleTarget, wordOrNum...)}},
	{"convert", []slot{conn("to", RoleTarget, wordOnly...), pos(RoleInput, pathOnly...)}},
	{"compress", []slot{pos(RoleInput, pathOnly...), conn("to", RoleTarget, wordOrNum...)}},
	{"trim", []slot{pos(RoleInput, pathOnly...), conn("from", RoleStart, numOnly...), conn("to", RoleEnd, numOnly...)}},
	{"resize", []slot{pos(RoleInput, pathOnly...), conn("to", RoleTarget, wordOrNum...)}},
	{"crop", []slot{pos(RoleInput, pathOnly...), conn("to", RoleTarget, wordOrNum...)}},
	{"rotate", []slot{pos(RoleInput, pathOnly...), conn("by", RoleDegrees, numOnly...)}},
	{"flip", []slot{pos(RoleInput, pathOnly...), pos(RoleDirection, wordOnly...)}},
	{"mirror", []slot{pos(RoleInput, pathOnly...), pos(RoleDirection, wordOnly...)}},
	{"speed-up", []slot{pos(RoleInput, pathOnly...), conn("by", RoleFactor, numOnly...)}},
	{"slow-down", []slot{pos(RoleInput, pathOnly...), conn("by", RoleFactor, numOnly...)}},
	{"timelapse", []slot{pos(RoleInput, pathOnly...), conn("speed", RoleFactor, numOnly...)}},
	{"reverse", []slot{pos(RoleInput, pathOnly...)}},
	{"mute", []slot{pos(RoleInput, pathOnly...)}},
	{"fps", []slot{pos(RoleInput, pathOnly...), conn("to", RoleTarget, numOnly...)}},
	{"loop", []slot{pos(RoleInput, pathOnly...), pos(RoleCount, numOnly...), lit("times")}},
	{"thumbnail", []slot{pos(RoleInput, pathOnly...), conn("at", RoleTime, numOnly...)}},
	{"thumbnails", []slot{pos(RoleInput, pathOnly...), pos(RoleLayout, wordOrNum...)}},
	{"tile", []slot{pos(RoleInput, pathOnly...), pos(RoleLayout, wordOrNum...)}},
	{"extract-audio", []slot{pos(RoleInput, pathOnly...), conn("from", RoleStart, numOnly...), conn("to", RoleEnd, numOnly...)}},
	{"extract-audio", []slot{pos(RoleInput, pathOnly...)}},
	{"extract-frames", []slot{pos(RoleInput, pathOnly...), conn("every", RoleInterval, numOnly...)}},
	{"merge", []slot{pos(RoleInput, pathOnly...), conn("and", RoleSecondary, pathOnly...)}},
	{"concat", []slot{rest(RoleInput)}},
	{"add", []slot{pos(RoleSecondary, pathOnly...), conn("to", RoleInput, pathOnly...)}},
	{"grayscale", []slot{pos(RoleInput, pathOnly...)}},
	{"sepia", []slot{pos(RoleInput, pathOnly...)}},
	{"normalize", []slot{pos(RoleInput, pathOnly...)}},
	{"stabilize", []slot{pos(RoleInput, pathOnly...)}},
	{"denoise", []slot{pos(RoleInput, pathOnly...)}},
	{"watermark", []slot{pos(RoleInput, pathOnly...), pos(RoleSecondary, pathOnly...), conn("at", RolePosition, wordOrNum...)}},
	{"add-text", []slot{pos(RoleInput, pathOnly...), pos(RoleText, textKinds...), conn("at", RolePosition, wordOrNum...)}},
	{"filter", []slot{pos(RoleInput, pathOnly...)}},
	{"color-grade", []slot{pos(RoleInput, pathOnly...)}},
	{"vintage-film", []slot{pos(RoleInput, pathOnly...)}},
	{"vignette", []slot{pos(RoleInput, pathOnly...)}},
	{"blur", []slot{pos(RoleInput, pathOnly...), lit("region"), pos(RoleRegion, numOnly...)}},
	{"fade", []slot{pos(RoleInput, pathOnly...)}},
	{"adjust-volume", []slot{pos(RoleInput, pathOnly...), conn("to", RoleVolume, numOnly...)}},
	{"adjust-volume", []slot{pos(RoleInput, pathOnly...), conn("by", RoleVolume, numOnly...)}},
	{"split", []slot{pos(RoleInput, pathOnly...), conn("every", RoleInterval, numOnly...)}},
	{"split", []slot{pos(RoleInput, pathOnly...), conn("into", RoleCount, numOnly...), lit("parts")}},
	{"montage", []slot{conn("layout", RoleLayout, wordOrNum...), rest(RoleInput)}},
	{"collage", []slot{conn("layout", RoleLayout, wordOrNum...), rest(RoleInput)}},
	{"crossfade", []slot{pos(RoleInput, pathOnly...), conn("and", RoleSecondary, pathOnly...), conn("duration", RoleDuration, numOnly...)}},
	{"transition", []slot{pos(RoleInput, pathOnly...), conn("to", RoleSecondary, pathOnly...)}},
	{"pip", []slot{pos(RoleSecondary, pathOnly...), conn("on", RoleInput, pathOnly...), conn("at", RolePosition, wordOrNum...)}},
	{"overlay", []slot{pos(RoleSecondary, pathOnly...), conn("on", RoleInput, pathOnly...), conn("at", RolePosition, wordOrNum...)}},
	{"split-screen", []slot{pos(RoleInput, pathOnly...), conn("and", RoleSecondary, pathOnly...)}},
	{"compare", []slot{pos(RoleInput, pathOnly...), conn("and", RoleSecondary, pathOnly...)}},
	{"remove-background", []slot{pos(RoleInput, pathOnly...), lit("color"), pos(RoleColor, anyValue...)}},
	{"detect-scenes", []slot{pos(RoleInput, pathOnly...)}},
	{"detect-black", []slot{pos(RoleInput, pathOnly...)}},
	{"detect-silence", []slot{pos(RoleInput, pathOnly...)}},
	{"analyze-loudness", []slot{pos(RoleInput, pathOnly...)}},
	{"info", []slot{pos(RoleInput, pathOnly...)}},
	{"set-metadata", []slot{pos(RoleInput, pathOnly...), pos(RoleField, wordOnly...), pos(RoleValue, textKinds...)}},
	{"extract-metadata", []slot{pos(RoleInput, pathOnly...)}},
	{"batch", []slot{pos(RoleOperation, wordOnly...), pos(RolePattern, pathOnly...), opt(conn("to", RoleTarget, wordOrNum...))}},
	{"watch", []slot{lit("folder"), pos(RoleFolder, []Kind{KindPath, KindBareword}...), pos(RoleOperation, wordOnly...), opt(conn("to", RoleTarget, wordOrNum...))}},
	{"pipeline", []slot{pos(RoleInput, pathOnly...), pos(RoleSteps, pathOnly...)}},
}

// verbAliases map spoken variants onto canonical rule verbs.
var verbAliases = map[string]string{
	"speedup":   "speed-up",
	"slowdown":  "slow-down",
	"extract":   "extract-audio",
	"greyscale": "grayscale",
	"volume":    "adjust-volume",
}

// rulesByVerb indexes the table once at init.
var rulesByVerb = func() map[string][]rule {
	m := make(map[string][]rule, len(rules))
	for _, r := range rules {
		m[r.verb] = append(m[r.verb], r)
	}
	return m
}()

// KnownVerb reports whether the grammar has rules for a verb or alias.
// Batch and watch use it to validate their templated sub-operation.
func KnownVerb(v string) bool {
	_, ok := rulesByVerb[canonicalVerb(strings.ToLower(strings.TrimSpace(v)))]
	return ok
}
