package atp

import (
	"sort"
	"strings"
)

// Features is a canonical set of grammatical feature atoms (e.g. "PST", "PL", "F").
// The atoms are kept sorted and unique so that two feature sets describing the
// same cell compare equal regardless of the order they were written in.
type Features []string

// NewFeatures builds a canonical feature set from atoms. Empty atoms are dropped.
func NewFeatures(atoms ...string) Features {
	out := make(Features, 0, len(atoms))
	for _, a := range atoms {
		if a != "" {
			out = append(out, a)
		}
	}
	sort.Strings(out)
	return unique(out)
}

// ParseFeatures splits s on sep and returns the canonical feature set.
func ParseFeatures(s, sep string) Features {
	if s == "" {
		return Features{}
	}
	return NewFeatures(strings.Split(s, sep)...)
}

// Has reports whether atom belongs to the set.
func (f Features) Has(atom string) bool {
	i := sort.SearchStrings(f, atom)
	return i < len(f) && f[i] == atom
}

// Equal reports whether both sets hold the same atoms.
func (f Features) Equal(o Features) bool {
	if len(f) != len(o) {
		return false
	}
	for i := range f {
		if f[i] != o[i] {
			return false
		}
	}
	return true
}

// String renders the set with ';' between atoms.
func (f Features) String() string {
	return strings.Join(f, ";")
}

// key is the comparable form of the set used inside hit and vocabulary sets.
func (f Features) key() string {
	return strings.Join(f, "\x1f")
}

// Pair is one training instance: a lemma, its inflected form and the
// features of the cell the inflected form fills.
type Pair struct {
	Lemma     string
	Inflected string
	Features  Features
}

// NewPair is a convenience constructor taking the feature atoms inline.
func NewPair(lemma, inflected string, atoms ...string) Pair {
	return Pair{Lemma: lemma, Inflected: inflected, Features: NewFeatures(atoms...)}
}

// Suffix returns the inflected form minus the lemma when the lemma is a prefix
// of the inflected form.
func (p Pair) Suffix() (string, bool) {
	if !strings.HasPrefix(p.Inflected, p.Lemma) {
		return "", false
	}
	return p.Inflected[len(p.Lemma):], true
}

type pairKey struct {
	lemma, inflected, feats string
}

func (p Pair) key() pairKey {
	return pairKey{p.Lemma, p.Inflected, p.Features.key()}
}

// hitKey identifies the (lemma, features) cell a rule fired on.
type hitKey struct {
	lemma, feats string
}

func newHitKey(lemma string, feats Features) hitKey {
	return hitKey{lemma, feats.key()}
}

// FeatureSpace returns the sorted set of every atom observed in pairs.
func FeatureSpace(pairs []Pair) Features {
	var all []string
	for _, p := range pairs {
		all = append(all, p.Features...)
	}
	return NewFeatures(all...)
}

// unique drops adjacent duplicates from a sorted slice, preserving order.
func unique(ss []string) []string {
	if len(ss) == 0 {
		return ss
	}
	out := ss[:1]
	for _, s := range ss[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
