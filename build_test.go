package atp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func conditionNames(cs []Condition) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name()
	}
	return out
}

func TestPhonologicalConditions(t *testing.T) {
	assert.Equal(t, []string{"r#"}, conditionNames(phonologicalConditions(toyPairs())))
}

func TestPhonologicalConditionsAlternation(t *testing.T) {
	pairs := []Pair{
		NewPair("banana", "bananas", "PL"),
		NewPair("piano", "pianos", "PL"),
		NewPair("sofa", "sofas", "PL"),
		NewPair("photo", "photos", "PL"),
		NewPair("pizza", "pizzas", "PL"),
		NewPair("radio", "radios", "PL"),
		NewPair("ox", "oxen", "PL"),
		NewPair("child", "children", "PL"),
	}
	assert.Equal(t, []string{"[a|o]#"}, conditionNames(phonologicalConditions(pairs)))
}

func TestPhonologicalConditionsTooFew(t *testing.T) {
	pairs := []Pair{
		NewPair("cat", "cats", "PL"),
		NewPair("hat", "hats", "PL"),
	}
	assert.Empty(t, phonologicalConditions(pairs))
}

func TestConsistency(t *testing.T) {
	assert.Equal(t, 0.0, consistency(nil))
	assert.InDelta(t, 2.0/3, consistency([]string{"a", "b", "a"}), 1e-12)
	assert.Equal(t, 1.0, consistency([]string{"a"}))
}

func TestMostConsistent(t *testing.T) {
	pairs := []Pair{
		NewPair("Hund", "Hunde", "M"),
		NewPair("Tag", "Tage", "M"),
		NewPair("Frau", "Frauen", "F"),
		NewPair("Zeit", "Zeiten", "F"),
	}
	labels := []string{"e", "e", "en", "en"}
	f := GrammaticalCondition{Feature: "F"}
	m := GrammaticalCondition{Feature: "M"}

	// Both separate the labels perfectly; the first listed wins.
	assert.Equal(t, f, mostConsistent(pairs, labels, conditions{f, m}))
	assert.Equal(t, m, mostConsistent(pairs, labels, conditions{m, f}))
}

func TestInformative(t *testing.T) {
	pairs := []Pair{
		NewPair("Hund", "Hunde", "M"),
		NewPair("Frau", "Frauen", "F"),
	}
	assert.True(t, informative(GrammaticalCondition{Feature: "M"}, pairs))
	assert.False(t, informative(GrammaticalCondition{Feature: "PL"}, pairs))
	assert.False(t, informative(NewPhonologicalCondition("u", "d"), pairs))
}

func TestBuildLeavesCoverTrainingData(t *testing.T) {
	l := trainToy(t)
	total := 0
	for _, leaf := range l.Leaves() {
		total += len(leaf.Table().Vocabulary())
		for _, p := range leaf.Table().Vocabulary() {
			for _, b := range leaf.Path() {
				assert.True(t, b.Holds(p.Lemma, p.Features), "%s on %s", p.Lemma, leaf.Name())
			}
		}
	}
	assert.Equal(t, len(toyPairs()), total)
}
