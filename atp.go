// Package atp learns to inflect words from (lemma, inflected form, features)
// examples with the Tolerance Principle.
//
// Training grows a binary decision tree. At each node the examples are fed to
// a switch statement of suffixation and memorization rules; if one rule is
// productive under the Tolerance Principle the node becomes a leaf with that
// rule as its default. Otherwise the examples are split on the grammatical
// feature or lemma ending that makes one side most consistent, and both sides
// are grown in turn.
package atp

import (
	"fmt"
	"log/slog"
)

// Learner holds the feature space, the trained tree and the options used to
// train it. A Learner is not safe for concurrent Train calls; a trained
// Learner can be queried from several goroutines.
type Learner struct {
	featureSpace Features
	phon         Phonology
	logger       *slog.Logger
	tree         *Tree
}

// Option configures a Learner.
type Option func(*Learner)

// WithPhonology makes suffix rules realize suffixes through p.
func WithPhonology(p Phonology) Option {
	return func(l *Learner) {
		if p != nil {
			l.phon = p
		}
	}
}

// WithLogger sets the logger used while building the tree.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Learner) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New returns an untrained Learner. featureSpace lists the grammatical
// features the tree may split on.
func New(featureSpace Features, opts ...Option) *Learner {
	l := &Learner{
		featureSpace: NewFeatures(featureSpace...),
		phon:         Concatenation{},
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Train builds the decision tree from pairs, replacing any previous tree.
func (l *Learner) Train(pairs []Pair) error {
	if len(pairs) == 0 {
		return ErrNoTrainingPairs
	}
	l.tree = l.build(pairs, l.labels(pairs))
	leaves := l.tree.Leaves()
	productive := 0
	for _, n := range leaves {
		if n.Productive() {
			productive++
		}
	}
	l.logger.Debug("trained", "pairs", len(pairs), "nodes", l.tree.Len(), "leaves", len(leaves), "productive", productive)
	return nil
}

// labels names, for each pair, the rule that explains it in a switch
// statement trained on the whole set. They are only used to rank splits.
func (l *Learner) labels(pairs []Pair) []string {
	table := NewSwitchStatement(l.phon)
	table.Train(pairs)
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = table.RuleFor(p.Lemma, p.Features).Name()
	}
	return out
}

// Tree returns the trained tree, or nil before Train.
func (l *Learner) Tree() *Tree {
	return l.tree
}

// FeatureSpace returns the grammatical features the learner may split on.
func (l *Learner) FeatureSpace() Features {
	return append(Features(nil), l.featureSpace...)
}

// Leaves returns the leaves of the trained tree.
func (l *Learner) Leaves() []*Node {
	if l.tree == nil {
		return nil
	}
	return l.tree.Leaves()
}

// Accuracy returns the share of pairs whose inflected form is predicted
// exactly. Queries that cannot be routed count as wrong.
func (l *Learner) Accuracy(pairs []Pair) float64 {
	if len(pairs) == 0 {
		return 0
	}
	correct := 0
	for _, p := range pairs {
		form, err := l.Inflect(p.Lemma, p.Features)
		if err == nil && form == p.Inflected {
			correct++
		}
	}
	return float64(correct) / float64(len(pairs))
}

func (l *Learner) trained() (*Tree, error) {
	if l.tree == nil {
		return nil, fmt.Errorf("inflect: %w", ErrNotTrained)
	}
	return l.tree, nil
}
