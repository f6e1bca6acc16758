// CLAUDE:SUMMARY Light title normalization (case + accents only) and word-boundary keyword matching where hyphen, slash and punctuation split words.
package category

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks is built per call: transform chains are stateful.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
}

// NormalizeTitle trims, lowercases and strips accents. Unlike the search
// normalizer it keeps punctuation such as "&", "-" and "/".
func NormalizeTitle(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	result, _, _ := transform.String(stripMarks(), strings.ToLower(s))
	return result
}

// Title is a normalized occupation title split into words.
type Title struct {
	Normalized string
	words      []string
	set        map[string]struct{}
}

// ParseTitle normalizes s and splits it on every non letter/digit rune.
func ParseTitle(s string) Title {
	n := NormalizeTitle(s)
	words := splitWords(n)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return Title{Normalized: n, words: words, set: set}
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Has reports whether keyword occurs as whole words. Multi-word keywords
// must appear contiguously ("data scientist" matches "Senior Data-Scientist").
func (t Title) Has(keyword string) bool {
	kw := splitWords(NormalizeTitle(keyword))
	switch len(kw) {
	case 0:
		return false
	case 1:
		_, ok := t.set[kw[0]]
		return ok
	}
	for i := 0; i+len(kw) <= len(t.words); i++ {
		if t.words[i] != kw[0] {
			continue
		}
		match := true
		for j := 1; j < len(kw); j++ {
			if t.words[i+j] != kw[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// HasAny reports whether any keyword matches.
func (t Title) HasAny(keywords ...string) bool {
	for _, kw := range keywords {
		if t.Has(kw) {
			return true
		}
	}
	return false
}
