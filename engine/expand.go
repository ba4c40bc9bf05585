package engine

import (
	"ucc/grammar"
)

// visitSet tracks names currently being expanded. Every recursive expansion
// (registry aliases, variant template references) goes through it, so a
// cycle stops at the first revisited name, which is then kept literally.
type visitSet map[string]struct{}

func (v visitSet) enter(name string) bool {
	if _, ok := v[name]; ok {
		return false
	}
	v[name] = struct{}{}
	return true
}

func (v visitSet) leave(name string) {
	delete(v, name)
}

// expandRefs substitutes {name} tokens in text using lookup, expanding the
// substituted text recursively. Unknown names and names already being
// expanded are left verbatim.
func expandRefs(text string, lookup func(string) (string, bool), seen visitSet) string {
	if !grammar.Reference.MatchString(text) {
		return text
	}
	return grammar.Reference.ReplaceAllStringFunc(text, func(token string) string {
		name := token[1 : len(token)-1]
		value, ok := lookup(name)
		if !ok || !seen.enter(name) {
			return token
		}
		defer seen.leave(name)
		return expandRefs(value, lookup, seen)
	})
}
