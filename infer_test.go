package atp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictGuess(t *testing.T) {
	l := New(NewFeatures("PL"))
	require.NoError(t, l.Train([]Pair{
		NewPair("cat", "cats", "PL"),
		NewPair("hat", "hats", "PL"),
	}))
	require.Len(t, l.Leaves(), 1)
	require.False(t, l.Leaves()[0].Productive())

	pred, err := l.Predict("bat", NewFeatures("PL"))
	require.NoError(t, err)
	assert.Equal(t, "bats", pred.Form)
	assert.True(t, pred.Guessed)

	pred, err = l.Predict("cat", NewFeatures("PL"))
	require.NoError(t, err)
	assert.Equal(t, "cats", pred.Form)
	assert.False(t, pred.Guessed)
}

func TestGuess(t *testing.T) {
	vocab := []Pair{
		NewPair("dog", "doggies"),
		NewPair("mat", "mats"),
		NewPair("hat", "hatten"),
	}
	assert.Equal(t, "bats", Guess("bat", vocab))
	assert.Equal(t, "bat", Guess("bat", nil))
	assert.Equal(t, "walk", Guess("walk", []Pair{NewPair("run", "ran")}))
	assert.Equal(t, "übere", Guess("über", []Pair{NewPair("öl", "öle")}))
}

func TestHammingDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 0},
		{"cat", "cat", 0},
		{"bat", "cat", 1.0 / 3},
		{"at", "bat", 1.0 / 3},
		{"bat", "at", 1.0 / 3},
		{"dog", "bat", 1},
		{"0at", "at", 0},
		{"übel", "Übel", 0.25},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, HammingDistance(tt.a, tt.b), 1e-12, "%q %q", tt.a, tt.b)
	}
}

func birdPairs() []Pair {
	return []Pair{
		NewPair("cat", "cats", "PL"),
		NewPair("dog", "dogs", "PL"),
		NewPair("hen", "hens", "PL"),
		NewPair("cow", "cows", "PL"),
		NewPair("fox", "foxs", "PL"),
		NewPair("owl", "owls", "PL"),
		NewPair("jump", "jumpd", "PST"),
		NewPair("walk", "walkd", "PST"),
		NewPair("play", "playd", "PST"),
		NewPair("hug", "hugd", "PST"),
		NewPair("kiss", "kissd", "PST"),
	}
}

func TestRelaxedPrefersLargerVocabulary(t *testing.T) {
	l := New(NewFeatures("PL", "PST"))
	require.NoError(t, l.Train(birdPairs()))
	require.Equal(t, []string{
		"PL => inflected = lemma + s",
		"¬PL => inflected = lemma + d",
	}, leafNames(l))

	got, err := l.Inflect("bird", Features{})
	require.NoError(t, err)
	assert.Equal(t, "birdd", got)

	got, err = l.InflectIgnoringFeatures("bird", Features{})
	require.NoError(t, err)
	assert.Equal(t, "birds", got)
}

func TestRelaxedPrefersDeeperLeaf(t *testing.T) {
	l := trainToy(t)

	pred, err := l.PredictIgnoringFeatures("plank", Features{})
	require.NoError(t, err)
	assert.Equal(t, "plankt", pred.Form)
	assert.Equal(t, 3, pred.Leaf.Depth())

	// Phonological branches are still followed strictly.
	got, err := l.InflectIgnoringFeatures("walker", Features{})
	require.NoError(t, err)
	assert.Equal(t, "walkerz", got)
}

func TestRelaxedSingleLeaf(t *testing.T) {
	l := New(NewFeatures("PL"))
	require.NoError(t, l.Train([]Pair{
		NewPair("cat", "cats", "PL"),
		NewPair("hat", "hats", "PL"),
	}))
	pred, err := l.PredictIgnoringFeatures("bat", nil)
	require.NoError(t, err)
	assert.Equal(t, "bats", pred.Form)
	assert.True(t, pred.Guessed)
}

func TestPredictNoMatchingBranch(t *testing.T) {
	tree := &Tree{}
	root := tree.add(nil)
	yes := Branch{Positive: true, Condition: GrammaticalCondition{Feature: "PL"}}
	child := tree.add([]Branch{yes})
	child.table = NewSwitchStatement(nil)
	root.edges = []Edge{{Branch: yes, Child: child.ID}}

	l := New(NewFeatures("PL"))
	l.tree = tree

	_, err := l.Predict("cat", NewFeatures("SG"))
	assert.ErrorIs(t, err, ErrNoMatchingBranch)
	assert.Equal(t, 0.0, l.Accuracy([]Pair{NewPair("cat", "cats", "SG")}))

	got, err := l.Inflect("cat", NewFeatures("PL"))
	require.NoError(t, err)
	assert.Equal(t, "cat", got)
}

func trainedTable(t *testing.T, productive bool, pairs ...Pair) *SwitchStatement {
	t.Helper()
	s := NewSwitchStatement(nil)
	s.Train(pairs)
	r := s.Productive()
	require.Equal(t, productive, r != nil)
	if r != nil {
		s.Install(r)
	}
	return s
}

// plMTree builds PL => pl, ¬PL,M => m, ¬PL,¬M => notM by hand.
func plMTree(pl, m, notM *SwitchStatement) *Learner {
	plCond := GrammaticalCondition{Feature: "PL"}
	mCond := GrammaticalCondition{Feature: "M"}
	yesPL, noPL := Branch{Positive: true, Condition: plCond}, Branch{Positive: false, Condition: plCond}
	yesM, noM := Branch{Positive: true, Condition: mCond}, Branch{Positive: false, Condition: mCond}

	tree := &Tree{}
	root := tree.add(nil)
	plLeaf := tree.add([]Branch{yesPL})
	inner := tree.add([]Branch{noPL})
	mLeaf := tree.add([]Branch{noPL, yesM})
	notMLeaf := tree.add([]Branch{noPL, noM})
	root.edges = []Edge{{Branch: yesPL, Child: plLeaf.ID}, {Branch: noPL, Child: inner.ID}}
	inner.edges = []Edge{{Branch: yesM, Child: mLeaf.ID}, {Branch: noM, Child: notMLeaf.ID}}
	plLeaf.table, mLeaf.table, notMLeaf.table = pl, m, notM

	l := New(NewFeatures("PL", "M"))
	l.tree = tree
	return l
}

func TestRelaxedLeafPreference(t *testing.T) {
	tests := []struct {
		name        string
		plPairs     []Pair
		plProd      bool
		wantPath    string
		wantForm    string
		wantGuessed bool
	}{
		{
			name: "only productive leaf beats deeper leaves",
			plPairs: []Pair{
				NewPair("cat", "cats", "PL"),
				NewPair("hat", "hats", "PL"),
				NewPair("mat", "mats", "PL"),
				NewPair("rat", "rats", "PL"),
			},
			plProd:   true,
			wantPath: "PL",
			wantForm: "bats",
		},
		{
			name: "deepest leaf when none is productive",
			plPairs: []Pair{
				NewPair("cat", "cats", "PL"),
				NewPair("hat", "hats", "PL"),
			},
			wantPath:    "¬PL,¬M",
			wantForm:    "batx",
			wantGuessed: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := plMTree(
				trainedTable(t, tt.plProd, tt.plPairs...),
				trainedTable(t, false, NewPair("dog", "dogy", "M")),
				trainedTable(t, false, NewPair("cat", "catx"), NewPair("hat", "hatx")),
			)
			pred, err := l.PredictIgnoringFeatures("bat", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, pred.Leaf.PathString())
			assert.Equal(t, tt.wantForm, pred.Form)
			assert.Equal(t, tt.wantGuessed, pred.Guessed)
		})
	}
}
