package atp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadOptions describes the layout of a delimited dataset.
type LoadOptions struct {
	// Sep separates columns (default tab).
	Sep string
	// FeatSep separates feature atoms inside the features column (default ";").
	FeatSep string
	// SkipHeader drops the first line.
	SkipHeader bool
	// FoldUmlauts applies FoldUmlauts to lemmas and inflected forms.
	FoldUmlauts bool
	// Preprocess, when set, maps each lemma and inflected form after folding,
	// e.g. Lexicon.Transcribe to convert spellings to IPA.
	Preprocess func(string) (string, error)
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.Sep == "" {
		o.Sep = "\t"
	}
	if o.FeatSep == "" {
		o.FeatSep = ";"
	}
	return o
}

// Dataset is the content of a loaded file.
type Dataset struct {
	Pairs        []Pair
	FeatureSpace Features
	// Frequencies holds the token frequency column of four-column files,
	// aligned with Pairs; it is nil for other layouts.
	Frequencies []float64
}

// LoadPairs reads one pair per line. The layout is chosen by column count:
//
//	3 columns: lemma, inflected, features
//	4 columns: lemma, inflected, features, frequency
//	6 columns: _, lemma, _, inflected, features, _   (UniMorph/CELEX)
//
// Blank lines are skipped.
func LoadPairs(r io.Reader, opts LoadOptions) (*Dataset, error) {
	opts = opts.withDefaults()
	ds := &Dataset{}
	var space []string
	withFreq := false

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo == 1 && opts.SkipHeader {
			continue
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cols := strings.Split(line, opts.Sep)

		var lemma, inflected, feats string
		freq := 0.0
		switch len(cols) {
		case 3:
			lemma, inflected, feats = cols[0], cols[1], cols[2]
		case 4:
			lemma, inflected, feats = cols[0], cols[1], cols[2]
			f, err := strconv.ParseFloat(cols[3], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: frequency %q: %w", lineNo, cols[3], err)
			}
			freq = f
			withFreq = true
		case 6:
			lemma, inflected, feats = cols[1], cols[3], cols[4]
		default:
			return nil, fmt.Errorf("line %d: expected 3, 4 or 6 columns, got %d", lineNo, len(cols))
		}

		var err error
		if lemma, err = opts.form(lemma); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if inflected, err = opts.form(inflected); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		atoms := strings.Split(feats, opts.FeatSep)
		space = append(space, atoms...)
		ds.Pairs = append(ds.Pairs, Pair{Lemma: lemma, Inflected: inflected, Features: NewFeatures(atoms...)})
		ds.Frequencies = append(ds.Frequencies, freq)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !withFreq {
		ds.Frequencies = nil
	}
	ds.FeatureSpace = NewFeatures(space...)
	return ds, nil
}

func (o LoadOptions) form(s string) (string, error) {
	if o.FoldUmlauts {
		s = FoldUmlauts(s)
	}
	if o.Preprocess != nil {
		return o.Preprocess(s)
	}
	return s, nil
}

// LoadPairsFile opens path and calls LoadPairs.
func LoadPairsFile(path string, opts LoadOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := LoadPairs(f, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ds, nil
}

// Lexicon maps orthographic words to IPA transcriptions.
type Lexicon map[string]string

// LoadLexicon reads "word<TAB>ipa" lines. A word listed twice is an error.
func LoadLexicon(r io.Reader) (Lexicon, error) {
	lex := make(Lexicon)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		word, ipa, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: expected word<TAB>ipa", lineNo)
		}
		if _, dup := lex[word]; dup {
			return nil, fmt.Errorf("line %d: duplicate word %q", lineNo, word)
		}
		lex[word] = ipa
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lex, nil
}

// LoadLexiconFile opens path and calls LoadLexicon.
func LoadLexiconFile(path string) (Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	lex, err := LoadLexicon(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return lex, nil
}

// Transcribe returns the IPA form of word.
func (lex Lexicon) Transcribe(word string) (string, error) {
	ipa, ok := lex[word]
	if !ok {
		return "", fmt.Errorf("no transcription for %q", word)
	}
	return ipa, nil
}
