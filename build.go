package atp

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// maxEndingLength bounds the lemma endings considered as phonological splits.
const maxEndingLength = 5

// buildTask is a pending node of the tree with the training data that reached it.
type buildTask struct {
	node    *Node
	pairs   []Pair
	labels  []string
	options conditions
}

// build grows the decision tree over pairs. Each task either settles into a
// leaf or splits into two child tasks; the work list replaces recursion and
// yields the same tree since sibling subtrees share no state.
func (l *Learner) build(pairs []Pair, labels []string) *Tree {
	t := &Tree{}
	stack := []buildTask{{
		node:    t.add(nil),
		pairs:   pairs,
		labels:  labels,
		options: grammaticalConditions(l.featureSpace),
	}}
	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		children := l.grow(t, task)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return t
}

// grow settles task.node as a leaf, or splits it and returns the tasks for its
// positive and negative children.
func (l *Learner) grow(t *Tree, task buildTask) []buildTask {
	options := task.options.mergeByName(phonologicalConditions(task.pairs))
	options = options.filter(func(c Condition) bool {
		return informative(c, task.pairs)
	})

	table := NewSwitchStatement(l.phon)
	table.Train(task.pairs)
	if r := table.Productive(); r != nil {
		table.Install(r)
		task.node.table = table
		l.logger.Debug("productive leaf", "path", task.node.PathString(), "rule", r.Name(), "pairs", len(task.pairs))
		return nil
	}
	if len(options) == 0 {
		task.node.table = table
		l.logger.Debug("unproductive leaf", "path", task.node.PathString(), "pairs", len(task.pairs))
		return nil
	}

	best := mostConsistent(task.pairs, task.labels, options)
	rest := options.without(best)
	pos, posLabels, neg, negLabels := split(task.pairs, task.labels, best)
	l.logger.Debug("split", "path", task.node.PathString(), "condition", best.Name(), "pos", len(pos), "neg", len(neg))

	yes := Branch{Positive: true, Condition: best}
	no := Branch{Positive: false, Condition: best}
	posNode := t.add(extend(task.node.path, yes))
	negNode := t.add(extend(task.node.path, no))
	task.node.edges = []Edge{{Branch: yes, Child: posNode.ID}, {Branch: no, Child: negNode.ID}}

	return []buildTask{
		{node: posNode, pairs: pos, labels: posLabels, options: rest},
		{node: negNode, pairs: neg, labels: negLabels, options: rest},
	}
}

func extend(path []Branch, b Branch) []Branch {
	out := make([]Branch, len(path), len(path)+1)
	copy(out, path)
	return append(out, b)
}

// informative reports whether c sends pairs down both branches.
func informative(c Condition, pairs []Pair) bool {
	hits := 0
	for _, p := range pairs {
		if c.Applies(p.Lemma, p.Features) {
			hits++
		}
	}
	return hits > 0 && hits < len(pairs)
}

// split partitions pairs and their labels on c.
func split(pairs []Pair, labels []string, c Condition) (pos []Pair, posLabels []string, neg []Pair, negLabels []string) {
	for i, p := range pairs {
		if c.Applies(p.Lemma, p.Features) {
			pos = append(pos, p)
			posLabels = append(posLabels, labels[i])
		} else {
			neg = append(neg, p)
			negLabels = append(negLabels, labels[i])
		}
	}
	return pos, posLabels, neg, negLabels
}

// consistency is the relative frequency of the most frequent label.
func consistency(labels []string) float64 {
	if len(labels) == 0 {
		return 0
	}
	counts := make(map[string]int)
	top := 0
	for _, lab := range labels {
		counts[lab]++
		if counts[lab] > top {
			top = counts[lab]
		}
	}
	return float64(top) / float64(len(labels))
}

// mostConsistent picks the condition whose positive or negative side has the
// highest label consistency. The first option in order wins ties.
func mostConsistent(pairs []Pair, labels []string, options conditions) Condition {
	var best Condition
	bestVal := -1.0
	for _, c := range options {
		_, posLabels, _, negLabels := split(pairs, labels, c)
		if v := consistency(posLabels); v > bestVal {
			bestVal, best = v, c
		}
		if v := consistency(negLabels); v > bestVal {
			bestVal, best = v, c
		}
	}
	return best
}

type suffixGroup struct {
	suffix  string
	members map[int]bool
}

// phonologicalConditions proposes lemma-ending conditions that predict a
// suffix. For each suffix, from the most to the least frequent, the endings of
// length 1-5 for which "ending => suffix" passes the Tolerance Principle are
// collected, shortest first, skipping endings already covered by a shorter
// one. The collected endings become one condition when they also pass
// together and cover a productive share of the suffix's pairs.
func phonologicalConditions(pairs []Pair) []Condition {
	distinct := make([]Pair, 0, len(pairs))
	seen := make(map[pairKey]bool, len(pairs))
	for _, p := range pairs {
		if !seen[p.key()] {
			seen[p.key()] = true
			distinct = append(distinct, p)
		}
	}

	var groups []*suffixGroup
	bySuffix := make(map[string]*suffixGroup)
	byEnding := make(map[string][]int)
	for i, p := range distinct {
		if suffix, ok := p.Suffix(); ok {
			g, ok := bySuffix[suffix]
			if !ok {
				g = &suffixGroup{suffix: suffix, members: make(map[int]bool)}
				bySuffix[suffix] = g
				groups = append(groups, g)
			}
			g.members[i] = true
		}
		runes := []rune(p.Lemma)
		for k := 1; k <= maxEndingLength && k < len(runes); k++ {
			e := string(runes[len(runes)-k:])
			byEnding[e] = append(byEnding[e], i)
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].members) > len(groups[j].members)
	})
	endings := make([]string, 0, len(byEnding))
	for e := range byEnding {
		endings = append(endings, e)
	}
	sort.Slice(endings, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(endings[i]), utf8.RuneCountInString(endings[j])
		if li != lj {
			return li < lj
		}
		return endings[i] < endings[j]
	})

	var out []Condition
	var claimed []string
	for _, g := range groups {
		var passed []string
		nTotal, cTotal := 0, 0
		for _, e := range endings {
			if endsWithAny(e, claimed) || endsWithAny(e, passed) {
				continue
			}
			n := len(byEnding[e])
			c := 0
			for _, i := range byEnding[e] {
				if g.members[i] {
					c++
				}
			}
			if TolerancePrinciple(n, c) {
				passed = append(passed, e)
				nTotal += n
				cTotal += c
			}
		}
		if len(passed) == 0 {
			continue
		}
		if TolerancePrinciple(nTotal, cTotal) && TolerancePrinciple(len(g.members), cTotal) {
			claimed = append(claimed, passed...)
			out = append(out, NewPhonologicalCondition(passed...))
		}
	}
	return out
}

func endsWithAny(s string, suffixes []string) bool {
	for _, x := range suffixes {
		if strings.HasSuffix(s, x) {
			return true
		}
	}
	return false
}
