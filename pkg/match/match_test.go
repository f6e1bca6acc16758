package match

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type occ struct {
	label, country, state string
}

func (o occ) Label() string { return o.label }
func (o occ) Key() string   { return o.label + "|" + o.country + "|" + o.state }

func pool(labels ...string) []occ {
	out := make([]occ, len(labels))
	for i, l := range labels {
		out[i] = occ{label: l, country: "us"}
	}
	return out
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"   ", ""},
		{"Software Engineer", "software engineer"},
		{"  Ingénieur\tLogiciel ", "ingenieur logiciel"},
		{"Front-End   Developer", "front-end developer"},
		{"C++ / C# Developer", "c c developer"},
		{"Ñoño (Sr.)", "nono sr"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.input), "Normalize(%q)", tt.input)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"", "Registered Nurse", "  Café  Owner ", "ﬁnance – Ⅸ", "Data\nEntry\tClerk", "Ünïcödé-Straße",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize not idempotent for %q", in)
	}
}

func TestTokenize(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize(" \t\n"))
	assert.Empty(t, Tokenize("?!"))
	assert.Equal(t, []string{"registered", "nurse"}, Tokenize("Registered Nurses"))
	assert.Equal(t, []string{"data", "analyst"}, Tokenize("DATA analysts"))
	assert.Equal(t, []string{"web-developer"}, Tokenize("web-developers"))
}

func TestBuildVariants(t *testing.T) {
	v := BuildVariants("anal")
	require.NotEmpty(t, v)
	assert.Equal(t, "anal", v[0])
	assert.Contains(t, v, "anals")
	assert.Contains(t, v, "analion")
	assert.Contains(t, v, "analions")
	assert.NotContains(t, v, "ana", "no prefix for tokens of length <= 4")

	v = BuildVariants("engineer")
	assert.Contains(t, v, "engineering")
	assert.Contains(t, v, "engi", "prefix is max(4, 0.6*len)")

	v = BuildVariants("production")
	assert.NotContains(t, v, "productionion")
	assert.Contains(t, v, "productionions")
	assert.Contains(t, v, "produc")

	v = BuildVariants("nurses")
	assert.Equal(t, "nurses", v[0])
	assert.Contains(t, v, "nurse")

	assert.Equal(t, BuildVariants("manager"), BuildVariants("manager"))
	assert.Nil(t, BuildVariants(""))
}

func TestScore_ExactMatch(t *testing.T) {
	for _, label := range []string{"Nurse", "Senior Data Analyst", "Chief Executive Officer", "Nurses"} {
		assert.Equal(t, ScoreExact, Score(label, label), label)
	}
	assert.Equal(t, ScoreExact, Score("registered nurses", "Registered Nurse"))
}

func TestScore_Empty(t *testing.T) {
	assert.Zero(t, Score("", "Nurse"))
	assert.Zero(t, Score("nurse", ""))
	assert.Zero(t, Score("!!!", "Nurse"))
	assert.Zero(t, Score("", ""))
}

func TestScore_Components(t *testing.T) {
	// "data anal" vs "senior data analyst":
	// all-prefix 700, alignment 2*40+60, substring 300,
	// subsequence 6*30, proximity 50-7, brevity 80-19.
	assert.Equal(t, 1424, Score("data anal", "Senior Data Analyst"))
	assert.Equal(t, 214, Score("data anal", "Data Entry Clerk"))
	assert.Equal(t, 273, Score("data anal", "Financial Analyst"))
	assert.Equal(t, 2102, Score("nurse", "Nurse Practitioner"))
}

func TestScore_ProximityWhenFirstTokenMissing(t *testing.T) {
	// "zzz" appears nowhere in "nurse": no prefix, alignment or substring
	// credit, and the missing first token still earns the full proximity
	// bonus of 50 rather than 51 or 0. Brevity adds 80-5.
	assert.Equal(t, 50+75, Score("zzz", "Nurse"))
}

func TestRank_EndToEnd(t *testing.T) {
	got := Rank("data anal", pool("Data Entry Clerk", "Financial Analyst", "Senior Data Analyst"))
	require.Len(t, got, 3)
	assert.Equal(t, "Senior Data Analyst", got[0].label)
	assert.Equal(t, "Financial Analyst", got[1].label)
	assert.Equal(t, "Data Entry Clerk", got[2].label)
}

func TestRankScored_Ordering(t *testing.T) {
	p := pool("Registered Nurse", "Nurse Practitioner", "Nursing Assistant", "Dental Hygienist",
		"Licensed Practical Nurse", "Nurse")
	res := RankScored("nurse", p)
	require.Len(t, res, 6)

	// An exact match stops at 1000, so a label that starts with the query
	// and also collects the additive bonuses outranks it.
	want := []string{"Nurse Practitioner", "Registered Nurse", "Licensed Practical Nurse", "Nurse",
		"Nursing Assistant", "Dental Hygienist"}
	for i, w := range want {
		assert.Equal(t, w, res[i].Item.label, "position %d", i)
	}
	for i := 1; i < len(res); i++ {
		assert.GreaterOrEqual(t, res[i-1].Score, res[i].Score, "rank not monotonic at %d", i)
	}
	for _, r := range res {
		assert.Positive(t, r.Score)
	}
}

func TestRankScored_StableTies(t *testing.T) {
	p := []occ{
		{label: "Cook", country: "us", state: "ca"},
		{label: "Cook", country: "us", state: "ny"},
		{label: "Cook", country: "us", state: "tx"},
	}
	res := RankScored("baker", p)
	require.Len(t, res, 3)
	assert.Equal(t, "ca", res[0].Item.state)
	assert.Equal(t, "ny", res[1].Item.state)
	assert.Equal(t, "tx", res[2].Item.state)
}

func TestRankScored_Dedup(t *testing.T) {
	p := []occ{
		{label: "Welder", country: "us", state: "tx"},
		{label: "Welder", country: "us", state: "tx"},
		{label: "Welder", country: "us", state: "ok"},
	}
	res := RankScored("welder", p)
	require.Len(t, res, 2)
	assert.Equal(t, "tx", res[0].Item.state)
	assert.Equal(t, "ok", res[1].Item.state)
}

func TestRank_ExcludesZeroScores(t *testing.T) {
	p := pool("!!!", "Nurse", "")
	got := Rank("nurse", p)
	require.Len(t, got, 1)
	assert.Equal(t, "Nurse", got[0].label)
	assert.Empty(t, Rank("", p))
}

func TestPickBest(t *testing.T) {
	p := pool("Data Entry Clerk", "Financial Analyst", "Senior Data Analyst")

	best, ok := PickBest("data anal", p)
	require.True(t, ok)
	assert.Equal(t, "Senior Data Analyst", best.label)

	for _, q := range []string{"", "   ", "\t"} {
		_, ok := PickBest(q, p)
		assert.False(t, ok, "PickBest(%q)", q)
	}

	_, ok = PickBest("nurse", []occ(nil))
	assert.False(t, ok)
}

func TestScore_ShortQueries(t *testing.T) {
	for _, q := range []string{"a", "s", "-", "1"} {
		assert.NotPanics(t, func() { Score(q, "Actuary") })
	}
}

func TestNormalize_Concurrent(t *testing.T) {
	inputs := map[string]string{
		"Ingénieur Mécanique":       "ingenieur mecanique",
		"Técnico de Enfermería":     "tecnico de enfermeria",
		"Ärztin / Chirurgin":        "arztin chirurgin",
		"Directeur Général Adjoint": "directeur general adjoint",
	}
	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				for in, want := range inputs {
					if got := Normalize(in); got != want {
						t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
