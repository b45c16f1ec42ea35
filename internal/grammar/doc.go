// Package grammar turns near-English argument vectors such as
// "compress video.mp4 to 10mb --two-pass" into a ParseTree: a verb, a set
// of role-bound slots, and a flag map. The grammar is connective-driven
// rather than positional: keywords like to, from, at, by, on and "and"
// disambiguate slot roles, so the same verb can accept variable argument
// order. Resolution is a declarative rule table interpreted by one generic
// matcher; adding a verb means adding rows, not control flow.
package grammar
