package grammar

import (
	"strings"
)

// Kind classifies a single lexed token.
type Kind int

const (
	KindBareword Kind = iota
	KindPath
	KindNumber
	KindQuoted
	KindFlag
	KindConnective
)

func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindNumber:
		return "number"
	case KindQuoted:
		return "quoted string"
	case KindFlag:
		return "flag"
	case KindConnective:
		return "connective"
	default:
		return "word"
	}
}

// Token is one classified argument. Pos is the index in the original
// argument vector, kept for error reporting.
type Token struct {
	Kind  Kind
	Text  string
	Flag  string
	Value string
	Pos   int
}

// connectives are the keywords that key slot roles inside a sentence.
var connectives = map[string]struct{}{
	"to":       {},
	"from":     {},
	"at":       {},
	"by":       {},
	"on":       {},
	"and":      {},
	"when":     {},
	"every":    {},
	"into":     {},
	"duration": {},
	"layout":   {},
	"speed":    {},
	"times":    {},
}

// booleanFlags take no value; any other flag consumes the following
// argument (or an inline =value) as its value.
var booleanFlags = map[string]struct{}{
	"dry-run":    {},
	"explain":    {},
	"overwrite":  {},
	"y":          {},
	"two-pass":   {},
	"timestamp":  {},
	"optimize":   {},
	"loop":       {},
	"keep-pitch": {},
	"show-psnr":  {},
	"json":       {},
}

// Lex classifies an argument vector into tokens. Value-taking flags
// consume the following argument, so "--opacity 0.5" becomes one token.
func Lex(args []string) []Token {
	tokens := make([]Token, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if name, ok := flagName(arg); ok {
			tok := Token{Kind: KindFlag, Text: arg, Pos: i}
			if eq := strings.Index(name, "="); eq >= 0 {
				tok.Flag = name[:eq]
				tok.Value = name[eq+1:]
			} else {
				tok.Flag = name
				if _, boolean := booleanFlags[name]; !boolean && i+1 < len(args) {
					if _, next := flagName(args[i+1]); !next {
						tok.Value = args[i+1]
						i++
					}
				}
			}
			tokens = append(tokens, tok)
			continue
		}
		tokens = append(tokens, Token{Kind: classify(arg), Text: arg, Pos: i})
	}
	return tokens
}

func flagName(arg string) (string, bool) {
	if strings.HasPrefix(arg, "--") && len(arg) > 2 {
		return arg[2:], true
	}
	// Single-dash shorthands ("-y") but not negative numbers ("-5db").
	if strings.HasPrefix(arg, "-") && len(arg) == 2 && (arg[1] < '0' || arg[1] > '9') {
		return arg[1:], true
	}
	return "", false
}

func classify(arg string) Kind {
	lower := strings.ToLower(arg)
	if _, ok := connectives[lower]; ok {
		return KindConnective
	}
	if strings.ContainsAny(arg, `/\*?`) || hasMediaExtension(lower) {
		return KindPath
	}
	if looksNumeric(arg) {
		return KindNumber
	}
	if strings.ContainsRune(arg, ' ') {
		return KindQuoted
	}
	return KindBareword
}

// looksNumeric covers plain numbers, numbers with unit suffixes (10mb,
// 2x, +10db), timecodes (0:30) and coordinate lists (100,50).
func looksNumeric(arg string) bool {
	s := arg
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	return s[0] >= '0' && s[0] <= '9'
}

// hasMediaExtension reports whether the argument ends in something that
// reads as a file extension. The extension must start with a letter so
// unit suffixes on fractional numbers ("1.5gb") stay numeric.
func hasMediaExtension(lower string) bool {
	dot := strings.LastIndex(lower, ".")
	if dot <= 0 || dot == len(lower)-1 {
		return false
	}
	ext := lower[dot+1:]
	if len(ext) < 2 || len(ext) > 5 {
		return false
	}
	if ext[0] < 'a' || ext[0] > 'z' {
		return false
	}
	for _, c := range ext {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
