// Package moderation censors configured words in outbound text messages.
// Matching runs over a normalized view of the text (lowercased, leet speak
// folded, punctuation and spacing stripped) so trivial obfuscation like
// "b.a.d" or "b4d" still matches, while replacement happens on the original
// runes to preserve the message's shape.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	machine     *goahocorasick.Machine
	replacement rune
}

// leet folds common substitution characters back to their letter.
var leet = map[rune]rune{
	'4': 'a', '@': 'a',
	'3': 'e', '€': 'e',
	'1': 'i', '!': 'i', '|': 'i',
	'0': 'o',
	'5': 's', '$': 's',
}

// New builds the Aho-Corasick automaton over the normalized word list.
func New(words []string, replacement rune) (*Moderator, error) {
	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		if norm, _ := normalize(w); len(norm) > 0 {
			patterns = append(patterns, norm)
		}
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{machine: machine, replacement: replacement}, nil
}

// Censor replaces every matched span with the replacement rune. The index
// mapping built during normalization translates match positions back to the
// original text.
func (m *Moderator) Censor(text string) string {
	norm, origIdx := normalize(text)
	if len(norm) == 0 {
		return text
	}

	spans := m.machine.MultiPatternSearch(norm, false)
	if len(spans) == 0 {
		return text
	}

	runes := []rune(text)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			runes[i] = m.replacement
		}
	}
	return string(runes)
}

// normalize returns the searchable rune slice and, for each normalized rune,
// the index of the original rune it came from.
func normalize(text string) ([]rune, []int) {
	orig := []rune(text)
	norm := make([]rune, 0, len(orig))
	origIdx := make([]int, 0, len(orig))

	for i, r := range orig {
		if folded, ok := leet[r]; ok {
			r = folded
		}
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		norm = append(norm, unicode.ToLower(r))
		origIdx = append(origIdx, i)
	}
	return norm, origIdx
}
