// CLAUDE:SUMMARY Query/label normalization, singularizing tokenizer and morphological variant expansion for fuzzy occupation search.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// decompose returns a fresh NFKD + mark-stripping chain. A chain keeps
// internal buffers, so it must not be shared between goroutines.
func decompose() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
}

// Normalize lowercases, strips accents and drops everything outside
// [a-z0-9 -]. Whitespace runs collapse to a single space.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	decomposed, _, _ := transform.String(decompose(), strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(decomposed))
	pendingSpace := false
	for _, r := range decomposed {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-':
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSpace = true
		}
	}
	return b.String()
}

// Tokenize normalizes text, splits it on spaces and singularizes each token.
func Tokenize(text string) []string {
	fields := strings.Fields(Normalize(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := singular(f); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func singular(token string) string {
	return strings.TrimSuffix(token, "s")
}

var variantSuffixes = []string{"s", "er", "ers", "or", "ors", "ing", "al", "als"}

// BuildVariants expands a token into the morphological forms used for
// prefix and subsequence matching. The token itself is always first; an
// empty token has no variants.
func BuildVariants(token string) []string {
	if token == "" {
		return nil
	}
	base := singular(token)

	out := make([]string, 0, len(variantSuffixes)+5)
	seen := make(map[string]struct{}, cap(out))
	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	add(token)
	add(base)
	for _, suffix := range variantSuffixes {
		add(base + suffix)
	}
	if !strings.HasSuffix(base, "ion") {
		add(base + "ion")
	}
	if !strings.HasSuffix(base, "ions") {
		add(base + "ions")
	}
	if n := len(base); n > 4 {
		add(base[:max(4, n*6/10)])
	}
	return out
}
