package match

import (
	"slices"
	"strings"
)

// Candidate is anything that can be ranked against a query. Only Label is
// scored; Key identifies duplicates (label plus secondary attributes).
type Candidate interface {
	Label() string
	Key() string
}

// Result is a ranked candidate with its score.
type Result[C Candidate] struct {
	Item  C   `json:"item"`
	Score int `json:"score"`
}

// RankScored scores every candidate, drops those scoring 0, orders the rest
// by descending score (ties keep pool order) and removes duplicate keys.
func RankScored[C Candidate](query string, pool []C) []Result[C] {
	qt := Tokenize(query)
	if len(qt) == 0 {
		return nil
	}

	results := make([]Result[C], 0, len(pool))
	for _, c := range pool {
		lt := Tokenize(c.Label())
		if len(lt) == 0 {
			continue
		}
		if s := scoreTokens(qt, lt); s > 0 {
			results = append(results, Result[C]{Item: c, Score: s})
		}
	}
	slices.SortStableFunc(results, func(a, b Result[C]) int {
		return b.Score - a.Score
	})

	seen := make(map[string]struct{}, len(results))
	out := results[:0]
	for _, r := range results {
		k := r.Item.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Rank is RankScored without the scores.
func Rank[C Candidate](query string, pool []C) []C {
	scored := RankScored(query, pool)
	out := make([]C, len(scored))
	for i, r := range scored {
		out[i] = r.Item
	}
	return out
}

// PickBest returns the top-ranked candidate. An empty query never matches:
// callers route it to the scope root instead.
func PickBest[C Candidate](query string, pool []C) (C, bool) {
	var zero C
	if strings.TrimSpace(query) == "" {
		return zero, false
	}
	ranked := RankScored(query, pool)
	if len(ranked) == 0 {
		return zero, false
	}
	return ranked[0].Item, true
}
