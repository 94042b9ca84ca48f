package atp

// RuleKind tags the three shapes an inflection rule can take.
type RuleKind int

const (
	// IdentityRule echoes the lemma. It is the placeholder default of a new table.
	IdentityRule RuleKind = iota
	// SuffixRule realizes a fixed suffix through the table's phonology.
	SuffixRule
	// MemorizedRule stores one exact (lemma, inflected) pair.
	MemorizedRule
)

// Rule is one case of a switch statement. During training it accumulates the
// (lemma, features) cells it fired on; their count is the evidence weighed by
// the Tolerance Principle.
type Rule struct {
	Kind RuleKind
	// Suffix is set for SuffixRule.
	Suffix string
	// Lemma and Form are set for MemorizedRule.
	Lemma string
	Form  string
	// Default marks the rule installed as its table's fallback.
	Default bool

	phon Phonology
	hits map[hitKey]struct{}
}

func identityRule() *Rule {
	return &Rule{Kind: IdentityRule, Default: true, hits: make(map[hitKey]struct{})}
}

func suffixRule(suffix string, phon Phonology) *Rule {
	return &Rule{Kind: SuffixRule, Suffix: suffix, phon: phon, hits: make(map[hitKey]struct{})}
}

func memorizedRule(lemma, form string) *Rule {
	return &Rule{Kind: MemorizedRule, Lemma: lemma, Form: form, hits: make(map[hitKey]struct{})}
}

// newRule explains a single pair: a suffix rule when the inflected form is
// the lemma plus a suffix under phon, a memorized rule otherwise.
func newRule(lemma, inflected string, phon Phonology) *Rule {
	p := Pair{Lemma: lemma, Inflected: inflected}
	if suffix, ok := p.Suffix(); ok && inflected == phon.Suffix(lemma, suffix) {
		return suffixRule(suffix, phon)
	}
	return memorizedRule(lemma, inflected)
}

// Name is the human-readable label of the rule. Names are also the labels
// the tree builder uses to measure consistency.
func (r *Rule) Name() string {
	switch r.Kind {
	case SuffixRule:
		return "inflected = lemma + " + r.Suffix
	case MemorizedRule:
		return "inflected = " + r.Form
	default:
		return "identity"
	}
}

func (r *Rule) String() string { return r.Name() }

// Matches reports whether the rule explains the (lemma, inflected) pair.
func (r *Rule) Matches(lemma, inflected string) bool {
	switch r.Kind {
	case SuffixRule:
		return inflected == r.phon.Suffix(lemma, r.Suffix)
	case MemorizedRule:
		return lemma == r.Lemma && inflected == r.Form
	default:
		return true
	}
}

// Apply inflects lemma with the rule.
func (r *Rule) Apply(lemma string) string {
	switch r.Kind {
	case SuffixRule:
		return r.phon.Suffix(lemma, r.Suffix)
	case MemorizedRule:
		return r.Form
	default:
		return lemma
	}
}

// Hits returns how many distinct (lemma, features) cells the rule fired on.
func (r *Rule) Hits() int {
	return len(r.hits)
}

func (r *Rule) record(lemma string, feats Features) {
	r.hits[newHitKey(lemma, feats)] = struct{}{}
}
