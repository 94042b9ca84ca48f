package atp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRule(t *testing.T) {
	tests := []struct {
		lemma, inflected string
		kind             RuleKind
		name             string
	}{
		{"walk", "walked", SuffixRule, "inflected = lemma + ed"},
		{"lay", "laid", MemorizedRule, "inflected = laid"},
		{"tidy", "tidied", MemorizedRule, "inflected = tidied"},
		{"shoot", "shot", MemorizedRule, "inflected = shot"},
		{"Schaf", "Schaf", SuffixRule, "inflected = lemma + "},
	}
	for _, tt := range tests {
		r := newRule(tt.lemma, tt.inflected, Concatenation{})
		assert.Equal(t, tt.kind, r.Kind, tt.lemma)
		assert.Equal(t, tt.name, r.Name(), tt.lemma)
		assert.Equal(t, tt.inflected, r.Apply(tt.lemma), tt.lemma)
		assert.True(t, r.Matches(tt.lemma, tt.inflected), tt.lemma)
	}
}

func TestMemorizedRuleIgnoresLemma(t *testing.T) {
	r := newRule("lemma_nonword", "inflected_nonword", Concatenation{})
	assert.Equal(t, MemorizedRule, r.Kind)
	assert.Equal(t, "inflected_nonword", r.Apply("other"))
	assert.False(t, r.Matches("other", "inflected_nonword"))
}

func TestSwitchStatementRuleCount(t *testing.T) {
	tests := []struct {
		name  string
		phon  Phonology
		pairs []Pair
		rules int
	}{
		{
			name: "allomorphs merge under phonology",
			phon: EnglishPhonology{},
			pairs: []Pair{
				NewPair("wɔk", "wɔkt", "PST"),
				NewPair("sprɪnt", "sprɪntɪd", "PST"),
			},
			rules: 1,
		},
		{
			name: "voiced suffix first",
			phon: EnglishPhonology{},
			pairs: []Pair{
				NewPair("pleɪ", "pleɪd", "PST"),
				NewPair("wɔk", "wɔkt", "PST"),
			},
			rules: 1,
		},
		{
			name: "allomorphs stay apart without phonology",
			pairs: []Pair{
				NewPair("peɪnt", "peɪntɪd", "PST"),
				NewPair("oʊpən", "oʊpənd", "PST"),
			},
			rules: 2,
		},
		{
			name: "one suffix",
			pairs: []Pair{
				NewPair("baby", "babys", "PL"),
				NewPair("tunnel", "tunnels", "PL"),
			},
			rules: 1,
		},
		{
			name: "irregulars memorized",
			pairs: []Pair{
				NewPair("walk", "walked", "PST"),
				NewPair("lay", "laid", "PST"),
				NewPair("shoot", "shot", "PST"),
			},
			rules: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSwitchStatement(tt.phon)
			s.Train(tt.pairs)
			assert.Len(t, s.Rules(), tt.rules)
			assert.Equal(t, IdentityRule, s.Default().Kind)
		})
	}
}

func TestSwitchStatementMoveToFront(t *testing.T) {
	s := NewSwitchStatement(nil)
	s.Train([]Pair{
		NewPair("a", "ax"),
		NewPair("b", "by"),
	})
	require.Len(t, s.Rules(), 2)
	assert.Equal(t, "x", s.Rules()[0].Suffix)

	s.Train([]Pair{NewPair("c", "cy")})
	assert.Equal(t, "y", s.Rules()[0].Suffix)
	assert.Equal(t, 2, s.Rules()[0].Hits())
}

func TestSwitchStatementDuplicates(t *testing.T) {
	s := NewSwitchStatement(nil)
	s.Train([]Pair{
		NewPair("cat", "cats", "PL"),
		NewPair("cat", "cats", "PL"),
		NewPair("cat", "cats", "PL", "GEN"),
	})
	assert.Len(t, s.Vocabulary(), 2)
	require.Len(t, s.Rules(), 1)
	assert.Equal(t, 2, s.Rules()[0].Hits())
}

func TestSwitchStatementProductive(t *testing.T) {
	pl := NewFeatures("PL")
	s := NewSwitchStatement(nil)
	s.Train([]Pair{
		NewPair("cat", "cats", "PL"),
		NewPair("ox", "oxen", "PL"),
		NewPair("dog", "dogs", "PL"),
		NewPair("hen", "hens", "PL"),
	})
	assert.False(t, s.IsProductive())

	r := s.Productive()
	require.NotNil(t, r)
	assert.True(t, s.IsProductive())
	assert.Equal(t, "s", r.Suffix)
	assert.Equal(t, 3, r.Hits())

	s.Install(r)
	assert.Same(t, r, s.Default())
	assert.True(t, r.Default)
	require.Len(t, s.Rules(), 1)
	assert.Equal(t, "en", s.Rules()[0].Suffix)
	assert.Same(t, s.Rules()[0], s.ClosestToProductive())

	assert.True(t, s.IsMemorized("ox", pl))
	assert.False(t, s.IsMemorized("cat", pl))
	assert.False(t, s.IsMemorized("ox", NewFeatures("GEN")))
	assert.Equal(t, "oxen", s.Inflect("ox", pl))
	assert.Equal(t, "foxs", s.Inflect("fox", pl))

	// Once a real default is in place it explains new pairs before a
	// fresh rule is created.
	s.Train([]Pair{NewPair("fox", "foxs", "PL")})
	assert.Len(t, s.Rules(), 1)
	assert.Equal(t, 4, s.Default().Hits())
}

func TestSwitchStatementNotProductive(t *testing.T) {
	s := NewSwitchStatement(nil)
	s.Train([]Pair{
		NewPair("walk", "walked", "PST"),
		NewPair("run", "ran", "PST"),
	})
	assert.Nil(t, s.Productive())
	assert.False(t, s.IsProductive())
	assert.Equal(t, "jump", s.Inflect("jump", NewFeatures("PST")))
	assert.Equal(t, "ran", s.Inflect("run", NewFeatures("PST")))
}

func TestSwitchStatementContradictoryPairs(t *testing.T) {
	s := NewSwitchStatement(nil)
	s.Train([]Pair{
		NewPair("Saal", "Saale", "PL"),
		NewPair("Saal", "Säle", "PL"),
	})
	assert.Len(t, s.Rules(), 2)
	assert.Equal(t, "Säle", s.Inflect("Saal", NewFeatures("PL")))
	assert.True(t, s.IsMemorized("Saal", NewFeatures("PL")))
}
