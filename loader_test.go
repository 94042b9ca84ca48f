package atp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPairsLayouts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  LoadOptions
		want  []Pair
		freq  []float64
	}{
		{
			name:  "three columns",
			input: "walk\twalked\tV;PST\n\nrun\tran\tV;PST\n",
			want: []Pair{
				NewPair("walk", "walked", "PST", "V"),
				NewPair("run", "ran", "PST", "V"),
			},
		},
		{
			name:  "four columns",
			input: "Hund\tHunde\tN;PL\t12\nTag\tTage\tN;PL\t3.5\n",
			want: []Pair{
				NewPair("Hund", "Hunde", "N", "PL"),
				NewPair("Tag", "Tage", "N", "PL"),
			},
			freq: []float64{12, 3.5},
		},
		{
			name:  "six columns",
			input: "1\twalk\tx\twalked\tPST\ty\n",
			want:  []Pair{NewPair("walk", "walked", "PST")},
		},
		{
			name:  "header and custom separators",
			input: "lemma,inflected,features\nHund,Hunde,N|PL\n",
			opts:  LoadOptions{Sep: ",", FeatSep: "|", SkipHeader: true},
			want:  []Pair{NewPair("Hund", "Hunde", "N", "PL")},
		},
		{
			name:  "umlaut folding",
			input: "Apfel\tÄpfel\tN;PL\nMutter\tMütter\tN;PL\n",
			opts:  LoadOptions{FoldUmlauts: true},
			want: []Pair{
				NewPair("Apfel", "Apfel", "N", "PL"),
				NewPair("Mutter", "Mutter", "N", "PL"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := LoadPairs(strings.NewReader(tt.input), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ds.Pairs)
			assert.Equal(t, tt.freq, ds.Frequencies)
			assert.Equal(t, FeatureSpace(tt.want), ds.FeatureSpace)
		})
	}
}

func TestLoadPairsErrors(t *testing.T) {
	_, err := LoadPairs(strings.NewReader("walk\twalked\tPST\nrun\tran\n"), LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = LoadPairs(strings.NewReader("Hund\tHunde\tPL\tmany\n"), LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frequency")
}

func TestLoadPairsTranscribed(t *testing.T) {
	lex, err := LoadLexicon(strings.NewReader("walk\twɔk\nwalked\twɔkt\n"))
	require.NoError(t, err)

	ds, err := LoadPairs(strings.NewReader("walk\twalked\tPST\n"), LoadOptions{Preprocess: lex.Transcribe})
	require.NoError(t, err)
	assert.Equal(t, []Pair{NewPair("wɔk", "wɔkt", "PST")}, ds.Pairs)

	_, err = LoadPairs(strings.NewReader("run\tran\tPST\n"), LoadOptions{Preprocess: lex.Transcribe})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"run"`)
}

func TestLoadLexicon(t *testing.T) {
	_, err := LoadLexicon(strings.NewReader("walk\twɔk\nwalk\twɑk\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	_, err = LoadLexicon(strings.NewReader("walk wɔk\n"))
	assert.Error(t, err)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	pairs := filepath.Join(dir, "train.tsv")
	lexicon := filepath.Join(dir, "lexicon.tsv")
	require.NoError(t, os.WriteFile(pairs, []byte("cat\tcats\tPL\n"), 0o644))
	require.NoError(t, os.WriteFile(lexicon, []byte("cat\tkæt\ncats\tkæts\n"), 0o644))

	lex, err := LoadLexiconFile(lexicon)
	require.NoError(t, err)
	assert.Len(t, lex, 2)

	ds, err := LoadPairsFile(pairs, LoadOptions{Preprocess: lex.Transcribe})
	require.NoError(t, err)
	assert.Equal(t, []Pair{NewPair("kæt", "kæts", "PL")}, ds.Pairs)

	_, err = LoadPairsFile(filepath.Join(dir, "missing.tsv"), LoadOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
