package match

import "strings"

// Score weights. Higher totals rank first.
const (
	ScoreExact        = 1000
	scoreStartsWith   = 800
	scoreAllPrefix    = 700
	scoreAlignedToken = 40
	scoreInOrder      = 60
	scoreSubstring    = 300
	scoreSubsequence  = 30
	proximityWindow   = 50
	brevityWindow     = 80
)

// Score rates how well label answers query. It never fails: inputs
// without tokens score 0.
func Score(query, label string) int {
	qt := Tokenize(query)
	lt := Tokenize(label)
	if len(qt) == 0 || len(lt) == 0 {
		return 0
	}
	return scoreTokens(qt, lt)
}

func scoreTokens(qt, lt []string) int {
	q := strings.Join(qt, " ")
	l := strings.Join(lt, " ")
	if q == l {
		return ScoreExact
	}

	variants := make([][]string, len(qt))
	for i, t := range qt {
		variants[i] = BuildVariants(t)
	}

	score := 0
	if strings.HasPrefix(l, q) {
		score += scoreStartsWith
	}

	allPrefix := true
	for _, vs := range variants {
		if firstPrefixed(lt, vs) < 0 {
			allPrefix = false
			break
		}
	}
	if allPrefix {
		score += scoreAllPrefix
	}

	// Alignment: each query token is located independently; the order
	// bonus needs at least two hits at strictly increasing positions.
	matched, last, increasing := 0, -1, true
	for _, vs := range variants {
		idx := firstPrefixed(lt, vs)
		if idx < 0 {
			continue
		}
		score += scoreAlignedToken
		matched++
		if idx <= last {
			increasing = false
		}
		last = idx
	}
	if matched >= 2 && increasing {
		score += scoreInOrder
	}

	if strings.Contains(l, q) {
		score += scoreSubstring
	}

	for _, vs := range variants {
		for _, v := range vs {
			if isSubsequence(v, l) {
				score += scoreSubsequence
			}
		}
	}

	// A first token absent from the label counts as position 0.
	score += max(0, proximityWindow-max(0, strings.Index(l, qt[0])))
	score += max(0, brevityWindow-len(l))
	return score
}

// firstPrefixed returns the index of the first token that starts with one
// of the variants, or -1.
func firstPrefixed(tokens, variants []string) int {
	for i, t := range tokens {
		for _, v := range variants {
			if strings.HasPrefix(t, v) {
				return i
			}
		}
	}
	return -1
}

func isSubsequence(needle, haystack string) bool {
	if needle == "" {
		return true
	}
	i := 0
	for j := 0; j < len(haystack) && i < len(needle); j++ {
		if haystack[j] == needle[i] {
			i++
		}
	}
	return i == len(needle)
}
