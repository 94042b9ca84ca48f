package atp

// SwitchStatement is the rule table held by a leaf of the tree. Rules are
// tried in order and the first one that fires wins; the specific (memorized)
// cases therefore take precedence over the default, which applies elsewhere.
type SwitchStatement struct {
	phon  Phonology
	rules []*Rule
	def   *Rule
	vocab []Pair
	seen  map[pairKey]struct{}
	// last maps each (lemma, features) cell to the rule that explained it
	// most recently, so that the later of two contradictory pairs wins.
	last       map[hitKey]*Rule
	productive bool
}

// NewSwitchStatement returns an empty table whose default echoes the lemma.
// A nil phonology means plain concatenation.
func NewSwitchStatement(phon Phonology) *SwitchStatement {
	if phon == nil {
		phon = Concatenation{}
	}
	return &SwitchStatement{
		phon: phon,
		def:  identityRule(),
		seen: make(map[pairKey]struct{}),
		last: make(map[hitKey]*Rule),
	}
}

// Train adds pairs to the vocabulary and explains each of them with a rule.
func (s *SwitchStatement) Train(pairs []Pair) {
	for _, p := range pairs {
		if _, ok := s.seen[p.key()]; !ok {
			s.seen[p.key()] = struct{}{}
			s.vocab = append(s.vocab, p)
		}
		s.trainPair(p)
	}
}

func (s *SwitchStatement) trainPair(p Pair) {
	for i, r := range s.rules {
		if r.Matches(p.Lemma, p.Inflected) {
			s.record(r, p)
			s.moveToFront(i)
			return
		}
	}
	if s.hasDefault() && s.def.Matches(p.Lemma, p.Inflected) {
		s.record(s.def, p)
		return
	}
	r := newRule(p.Lemma, p.Inflected, s.phon)
	s.record(r, p)
	s.rules = append(s.rules, r)
}

func (s *SwitchStatement) record(r *Rule, p Pair) {
	r.record(p.Lemma, p.Features)
	s.last[newHitKey(p.Lemma, p.Features)] = r
}

// moveToFront promotes the rule at i so that frequent rules are tried first.
// Rules rarely overlap, so this mostly affects speed, but when two rules do
// explain the same pair the promoted one claims it.
func (s *SwitchStatement) moveToFront(i int) {
	if i == 0 {
		return
	}
	r := s.rules[i]
	copy(s.rules[1:i+1], s.rules[:i])
	s.rules[0] = r
}

// hasDefault reports whether a real rule replaced the identity placeholder.
func (s *SwitchStatement) hasDefault() bool {
	return s.def.Kind != IdentityRule
}

// candidates lists the rules eligible for the productivity test, in order.
func (s *SwitchStatement) candidates() []*Rule {
	out := append([]*Rule(nil), s.rules...)
	if s.hasDefault() {
		out = append(out, s.def)
	}
	return out
}

// Productive runs the Tolerance Principle over every rule and returns the
// passing rule with the most hits, or nil. Ties go to the earliest rule.
func (s *SwitchStatement) Productive() *Rule {
	s.productive = false
	n := len(s.vocab)
	var best *Rule
	for _, r := range s.candidates() {
		if !TolerancePrinciple(n, r.Hits()) {
			continue
		}
		s.productive = true
		if best == nil || r.Hits() > best.Hits() {
			best = r
		}
	}
	return best
}

// IsProductive reports the outcome of the last productivity test.
func (s *SwitchStatement) IsProductive() bool {
	return s.productive
}

// Install makes r the default of the table and removes it from the ordered
// rules. It is called with the rule returned by Productive.
func (s *SwitchStatement) Install(r *Rule) {
	for i, x := range s.rules {
		if x == r {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			break
		}
	}
	s.def.Default = false
	r.Default = true
	s.def = r
}

// RuleFor returns the rule that last fired on (lemma, feats) during training,
// or the default.
func (s *SwitchStatement) RuleFor(lemma string, feats Features) *Rule {
	if r, ok := s.last[newHitKey(lemma, feats)]; ok {
		return r
	}
	return s.def
}

// IsMemorized reports whether a non-default rule fired on (lemma, feats).
func (s *SwitchStatement) IsMemorized(lemma string, feats Features) bool {
	return s.RuleFor(lemma, feats) != s.def
}

// Inflect applies RuleFor(lemma, feats).
func (s *SwitchStatement) Inflect(lemma string, feats Features) string {
	return s.RuleFor(lemma, feats).Apply(lemma)
}

// ClosestToProductive returns the non-default rule with the most hits.
func (s *SwitchStatement) ClosestToProductive() *Rule {
	var best *Rule
	for _, r := range s.rules {
		if best == nil || r.Hits() > best.Hits() {
			best = r
		}
	}
	return best
}

// Rules returns the non-default rules in their current order.
func (s *SwitchStatement) Rules() []*Rule {
	return append([]*Rule(nil), s.rules...)
}

// Default returns the fallback rule.
func (s *SwitchStatement) Default() *Rule {
	return s.def
}

// Vocabulary returns the distinct pairs the table was trained on, in order of
// first appearance.
func (s *SwitchStatement) Vocabulary() []Pair {
	return append([]Pair(nil), s.vocab...)
}
