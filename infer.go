package atp

import (
	"fmt"
	"sort"
)

// Prediction is the outcome of inflecting one lemma.
type Prediction struct {
	Form string
	// Guessed is true when no rule applied at the leaf and the form was
	// copied from the nearest neighbour.
	Guessed bool
	// Leaf is the node the query settled in.
	Leaf *Node
}

// Inflect returns the inflected form of lemma for feats.
func (l *Learner) Inflect(lemma string, feats Features) (string, error) {
	p, err := l.Predict(lemma, feats)
	if err != nil {
		return "", err
	}
	return p.Form, nil
}

// Predict walks the tree to the leaf matching (lemma, feats) and inflects
// there.
func (l *Learner) Predict(lemma string, feats Features) (Prediction, error) {
	t, err := l.trained()
	if err != nil {
		return Prediction{}, err
	}
	n := t.Root()
	for !n.IsLeaf() {
		next := -1
		for _, e := range n.edges {
			if e.Branch.Holds(lemma, feats) {
				next = e.Child
				break
			}
		}
		if next < 0 {
			return Prediction{}, fmt.Errorf("inflect %q at %q: %w", lemma, n.PathString(), ErrNoMatchingBranch)
		}
		n = t.Node(next)
	}
	return inflectAt(n, lemma, feats), nil
}

// InflectIgnoringFeatures is Predict for queries whose grammatical features
// are unknown or only partly known: every grammatical branch is followed and
// the best of the reached leaves is used.
func (l *Learner) InflectIgnoringFeatures(lemma string, feats Features) (string, error) {
	p, err := l.PredictIgnoringFeatures(lemma, feats)
	if err != nil {
		return "", err
	}
	return p.Form, nil
}

// PredictIgnoringFeatures follows both children at grammatical branches and
// the matching child at phonological ones. Among the leaves reached it
// prefers, in order: the only leaf, the only productive leaf, the deepest
// productive leaf, the deepest leaf. Depth ties go to the larger vocabulary,
// then to the leaf reached first.
func (l *Learner) PredictIgnoringFeatures(lemma string, feats Features) (Prediction, error) {
	t, err := l.trained()
	if err != nil {
		return Prediction{}, err
	}
	var leaves, productive []*Node
	stack := []int{0}
	for len(stack) > 0 {
		n := t.Node(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
		if n.IsLeaf() {
			leaves = append(leaves, n)
			if n.Productive() {
				productive = append(productive, n)
			}
			continue
		}
		for _, e := range n.edges {
			if e.Branch.Condition.Kind() == Grammatical || e.Branch.Holds(lemma, feats) {
				stack = append(stack, e.Child)
			}
		}
	}
	if len(leaves) == 0 {
		return Prediction{}, fmt.Errorf("inflect %q: %w", lemma, ErrNoMatchingBranch)
	}

	var leaf *Node
	switch {
	case len(leaves) == 1:
		leaf = leaves[0]
	case len(productive) == 1:
		leaf = productive[0]
	case len(productive) > 0:
		leaf = deepest(productive)
	default:
		leaf = deepest(leaves)
	}
	return inflectAt(leaf, lemma, feats), nil
}

// deepest returns the node with the longest path, breaking ties by the
// larger vocabulary and then by position in nodes.
func deepest(nodes []*Node) *Node {
	best := nodes[0]
	for _, n := range nodes[1:] {
		if n.Depth() > best.Depth() ||
			n.Depth() == best.Depth() && len(n.table.vocab) > len(best.table.vocab) {
			best = n
		}
	}
	return best
}

// inflectAt applies the leaf's productive or memorized rule, or guesses.
func inflectAt(leaf *Node, lemma string, feats Features) Prediction {
	s := leaf.table
	if s.IsProductive() || s.IsMemorized(lemma, feats) {
		return Prediction{Form: s.Inflect(lemma, feats), Leaf: leaf}
	}
	return Prediction{Form: Guess(lemma, s.vocab), Guessed: true, Leaf: leaf}
}

// Guess inflects lemma like its nearest neighbour in vocab: the neighbour's
// suffix (its inflected form minus its lemma) is appended to lemma.
// Neighbours are ranked by HammingDistance; earlier pairs win ties.
func Guess(lemma string, vocab []Pair) string {
	if len(vocab) == 0 {
		return lemma
	}
	ranked := append([]Pair(nil), vocab...)
	dist := make(map[string]float64, len(ranked))
	for _, p := range ranked {
		if _, ok := dist[p.Lemma]; !ok {
			dist[p.Lemma] = HammingDistance(lemma, p.Lemma)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return dist[ranked[i].Lemma] < dist[ranked[j].Lemma]
	})
	nearest := ranked[0]
	lr, ir := []rune(nearest.Lemma), []rune(nearest.Inflected)
	if len(ir) <= len(lr) {
		return lemma
	}
	return lemma + string(ir[len(lr):])
}

// HammingDistance is the share of mismatching positions between a and b
// after the shorter one is padded on the left with '0' to the same length.
func HammingDistance(a, b string) float64 {
	ar, br := []rune(a), []rune(b)
	n := max(len(ar), len(br))
	if n == 0 {
		return 0
	}
	pa, pb := n-len(ar), n-len(br)
	mismatches := 0
	for i := 0; i < n; i++ {
		var x, y rune = '0', '0'
		if i >= pa {
			x = ar[i-pa]
		}
		if i >= pb {
			y = br[i-pb]
		}
		if x != y {
			mismatches++
		}
	}
	return float64(mismatches) / float64(n)
}
