package grammar

import (
	"fmt"
	"strings"
)

// ParseTree is the resolved form of one sentence: the canonical verb, the
// role-bound slots, the variadic path list (montage, concat) and the flag
// map. It exists only between resolution and operation building.
type ParseTree struct {
	Verb  string
	Slots map[string]string
	Paths []string
	Flags map[string]string
}

// Slot returns the raw text bound to a role.
func (t *ParseTree) Slot(role string) (string, bool) {
	v, ok := t.Slots[role]
	return v, ok
}

// Flag returns a flag's raw value and whether the flag was present.
func (t *ParseTree) Flag(name string) (string, bool) {
	v, ok := t.Flags[name]
	return v, ok
}

// HasFlag reports flag presence regardless of value.
func (t *ParseTree) HasFlag(name string) bool {
	_, ok := t.Flags[name]
	return ok
}

// ParseError is a structured resolution failure: the position of the
// offending token and what the grammar expected there.
type ParseError struct {
	Verb     string
	Pos      int
	Expected string
	Got      string
}

func (e *ParseError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("%s: expected %s at end of command", e.Verb, e.Expected)
	}
	return fmt.Sprintf("%s: expected %s at argument %d, got %q", e.Verb, e.Expected, e.Pos+1, e.Got)
}

// Resolve matches an argument vector against the rule table and returns a
// ParseTree, or a ParseError naming the expected slot at the point of
// failure. When several rules for a verb match, the one consuming the most
// connectives wins.
func Resolve(args []string) (*ParseTree, error) {
	tokens := Lex(args)

	flags := make(map[string]string)
	positional := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == KindFlag {
			flags[tok.Flag] = tok.Value
			continue
		}
		positional = append(positional, tok)
	}
	if len(positional) == 0 {
		return nil, &ParseError{Verb: "command", Expected: "a verb"}
	}

	verb, remaining, err := resolveVerb(positional)
	if err != nil {
		return nil, err
	}

	var (
		best      *ParseTree
		bestScore = -1
		deepest   *ParseError
	)
	for _, r := range rulesByVerb[verb] {
		tree, score, merr := matchRule(r, remaining)
		if merr != nil {
			if deepest == nil || merr.Pos > deepest.Pos {
				deepest = merr
			}
			continue
		}
		if score > bestScore {
			best, bestScore = tree, score
		}
	}
	if best == nil {
		if deepest != nil {
			return nil, deepest
		}
		return nil, &ParseError{Verb: verb, Expected: "a recognized command shape"}
	}
	best.Verb = verb
	best.Flags = flags
	return best, nil
}

// resolveVerb performs longest-match verb lookup: two leading barewords
// joined with a hyphen ("speed up" -> "speed-up") beat a single-word verb.
func resolveVerb(tokens []Token) (string, []Token, error) {
	first := tokens[0]
	if first.Kind != KindBareword && first.Kind != KindConnective {
		return "", nil, &ParseError{Verb: "command", Pos: first.Pos, Expected: "a verb", Got: first.Text}
	}
	if len(tokens) > 1 && tokens[1].Kind == KindBareword {
		joined := canonicalVerb(strings.ToLower(first.Text) + "-" + strings.ToLower(tokens[1].Text))
		if _, ok := rulesByVerb[joined]; ok {
			return joined, tokens[2:], nil
		}
	}
	verb := canonicalVerb(strings.ToLower(first.Text))
	if _, ok := rulesByVerb[verb]; ok {
		return verb, tokens[1:], nil
	}
	return "", nil, &ParseError{Verb: first.Text, Pos: first.Pos, Expected: "a known verb", Got: first.Text}
}

func canonicalVerb(v string) string {
	if canonical, ok := verbAliases[v]; ok {
		return canonical
	}
	return v
}

func matchRule(r rule, tokens []Token) (*ParseTree, int, *ParseError) {
	tree := &ParseTree{Slots: make(map[string]string)}
	score := 0
	i := 0

	fail := func(expected string) (*ParseTree, int, *ParseError) {
		e := &ParseError{Verb: r.verb, Expected: expected}
		if i < len(tokens) {
			e.Pos = tokens[i].Pos
			e.Got = tokens[i].Text
		} else if len(tokens) > 0 {
			e.Pos = tokens[len(tokens)-1].Pos + 1
		}
		return nil, 0, e
	}

	for _, s := range r.slots {
		switch {
		case s.literal != "":
			if i < len(tokens) && strings.EqualFold(tokens[i].Text, s.literal) {
				i++
				score++
				continue
			}
			if s.optional {
				continue
			}
			return fail(fmt.Sprintf("keyword %q", s.literal))

		case s.connective != "":
			if i < len(tokens) && tokens[i].Kind == KindConnective && strings.EqualFold(tokens[i].Text, s.connective) {
				i++
				if i >= len(tokens) || !kindAllowed(tokens[i], s.kinds) {
					return fail(fmt.Sprintf("a value after %q", s.connective))
				}
				tree.Slots[s.role] = tokens[i].Text
				i++
				score += 2
				continue
			}
			if s.optional {
				continue
			}
			return fail(fmt.Sprintf("connective %q", s.connective))

		case s.variadic:
			start := i
			for i < len(tokens) && kindAllowed(tokens[i], s.kinds) {
				tree.Paths = append(tree.Paths, tokens[i].Text)
				i++
			}
			if i == start && !s.optional {
				return fail(roleExpectation(s))
			}

		default:
			if i < len(tokens) && kindAllowed(tokens[i], s.kinds) {
				tree.Slots[s.role] = tokens[i].Text
				i++
				continue
			}
			if s.optional {
				continue
			}
			return fail(roleExpectation(s))
		}
	}

	if i != len(tokens) {
		return fail("end of command")
	}
	return tree, score, nil
}

func kindAllowed(tok Token, kinds []Kind) bool {
	if tok.Kind == KindConnective {
		return false
	}
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if tok.Kind == k {
			return true
		}
	}
	return false
}

func roleExpectation(s slot) string {
	if len(s.kinds) == 1 {
		return fmt.Sprintf("a %s for %s", s.kinds[0], s.role)
	}
	return fmt.Sprintf("a value for %s", s.role)
}
