package atp

import (
	"strings"
)

// ConditionKind distinguishes the two families of branch conditions.
type ConditionKind int

const (
	// Grammatical conditions test membership of a feature atom.
	Grammatical ConditionKind = iota
	// Phonological conditions test the ending of the lemma.
	Phonological
)

func (k ConditionKind) String() string {
	switch k {
	case Grammatical:
		return "grammatical"
	case Phonological:
		return "phonological"
	default:
		return "unknown"
	}
}

// Condition is a branch test of a decision tree.
// Two conditions are the same condition when Kind and Name agree.
type Condition interface {
	Applies(lemma string, feats Features) bool
	Name() string
	Kind() ConditionKind
}

// GrammaticalCondition holds when the query carries Feature.
type GrammaticalCondition struct {
	Feature string
}

func (g GrammaticalCondition) Applies(_ string, feats Features) bool {
	return feats.Has(g.Feature)
}

func (g GrammaticalCondition) Name() string        { return g.Feature }
func (g GrammaticalCondition) Kind() ConditionKind { return Grammatical }
func (g GrammaticalCondition) String() string      { return g.Name() }

// PhonologicalCondition holds when the lemma ends with one of Endings.
type PhonologicalCondition struct {
	Endings []string
}

// NewPhonologicalCondition builds an ending condition; endings keep their order.
func NewPhonologicalCondition(endings ...string) PhonologicalCondition {
	return PhonologicalCondition{Endings: append([]string(nil), endings...)}
}

func (p PhonologicalCondition) Applies(lemma string, _ Features) bool {
	for _, e := range p.Endings {
		if strings.HasSuffix(lemma, e) {
			return true
		}
	}
	return false
}

// Name renders a single ending as "e#" and an alternation as "[e1|e2]#".
func (p PhonologicalCondition) Name() string {
	if len(p.Endings) == 1 {
		return p.Endings[0] + "#"
	}
	return "[" + strings.Join(p.Endings, "|") + "]#"
}

func (p PhonologicalCondition) Kind() ConditionKind { return Phonological }
func (p PhonologicalCondition) String() string      { return p.Name() }

type conditionID struct {
	kind ConditionKind
	name string
}

func idOf(c Condition) conditionID {
	return conditionID{c.Kind(), c.Name()}
}

// conditions is an ordered set of split candidates. The order is the
// iteration order used to break consistency ties, so it must stay stable.
type conditions []Condition

func grammaticalConditions(space Features) conditions {
	out := make(conditions, 0, len(space))
	for _, f := range space {
		out = append(out, GrammaticalCondition{Feature: f})
	}
	return out
}

// mergeByName appends the candidates whose display name is not already present.
func (cs conditions) mergeByName(extra []Condition) conditions {
	names := make(map[string]bool, len(cs))
	for _, c := range cs {
		names[c.Name()] = true
	}
	out := append(conditions(nil), cs...)
	for _, c := range extra {
		if names[c.Name()] {
			continue
		}
		names[c.Name()] = true
		out = append(out, c)
	}
	return out
}

// without returns a copy of cs minus every condition identical to drop.
func (cs conditions) without(drop Condition) conditions {
	id := idOf(drop)
	out := make(conditions, 0, len(cs))
	for _, c := range cs {
		if idOf(c) != id {
			out = append(out, c)
		}
	}
	return out
}

// filter keeps the conditions for which keep returns true.
func (cs conditions) filter(keep func(Condition) bool) conditions {
	out := make(conditions, 0, len(cs))
	for _, c := range cs {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
