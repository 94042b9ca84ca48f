package atp

import "strings"

// NegationSymbol prefixes the name of a negated branch condition.
const NegationSymbol = "¬"

// noProductiveProcess labels leaves where no rule passed the Tolerance Principle.
const noProductiveProcess = "No Productive Process"

// Branch is one step of a path: a condition and the polarity it was taken with.
type Branch struct {
	Positive  bool
	Condition Condition
}

// Holds reports whether the query follows this branch.
func (b Branch) Holds(lemma string, feats Features) bool {
	return b.Condition.Applies(lemma, feats) == b.Positive
}

// String renders the branch as its condition name, negated with ¬.
func (b Branch) String() string {
	if b.Positive {
		return b.Condition.Name()
	}
	return NegationSymbol + b.Condition.Name()
}

// Edge links a node to a child through a branch.
type Edge struct {
	Branch Branch
	Child  int
}

// Node is an element of the tree arena. Internal nodes have exactly two
// edges; leaves have none and carry a switch statement.
type Node struct {
	ID    int
	path  []Branch
	edges []Edge
	table *SwitchStatement
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.edges) == 0 }

// Edges returns the outgoing edges, positive branch first.
func (n *Node) Edges() []Edge { return append([]Edge(nil), n.edges...) }

// Path returns the branches taken from the root to this node.
func (n *Node) Path() []Branch { return append([]Branch(nil), n.path...) }

// Depth is the number of branches taken from the root.
func (n *Node) Depth() int { return len(n.path) }

// Table returns the switch statement of a leaf, or nil for internal nodes.
func (n *Node) Table() *SwitchStatement { return n.table }

// Productive reports whether the leaf has a productive default rule.
func (n *Node) Productive() bool {
	return n.table != nil && n.table.IsProductive()
}

// PathString renders the path as comma-separated branch names.
func (n *Node) PathString() string {
	parts := make([]string, len(n.path))
	for i, b := range n.path {
		parts[i] = b.String()
	}
	return strings.Join(parts, ",")
}

// Name identifies the node: its path and, for leaves, the rule it settles on,
// e.g. "¬[e|del]#,M => inflected = lemma + e".
func (n *Node) Name() string {
	if !n.IsLeaf() {
		return n.PathString()
	}
	if n.Productive() {
		return n.PathString() + " => " + n.table.Default().Name()
	}
	return n.PathString() + " => " + noProductiveProcess
}

// ProductiveSuffix returns the suffix of a productive suffixation default.
func (n *Node) ProductiveSuffix() (string, bool) {
	if !n.Productive() || n.table.Default().Kind != SuffixRule {
		return "", false
	}
	return n.table.Default().Suffix, true
}

// ClosestRule returns the rule of an unproductive leaf that fired on the most
// pairs, or nil for productive leaves, internal nodes and empty tables.
func (n *Node) ClosestRule() *Rule {
	if n.table == nil || n.Productive() {
		return nil
	}
	return n.table.ClosestToProductive()
}

// Tree is an arena of nodes; node 0 is the root.
type Tree struct {
	nodes []*Node
}

func (t *Tree) add(path []Branch) *Node {
	n := &Node{ID: len(t.nodes), path: path}
	t.nodes = append(t.nodes, n)
	return n
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.nodes[0] }

// Node returns the node with the given id.
func (t *Tree) Node(id int) *Node { return t.nodes[id] }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Walk visits the nodes depth first, positive child before negative, and
// stops descending below a node when fn returns false.
func (t *Tree) Walk(fn func(n *Node) bool) {
	stack := []int{0}
	for len(stack) > 0 {
		n := t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			continue
		}
		for i := len(n.edges) - 1; i >= 0; i-- {
			stack = append(stack, n.edges[i].Child)
		}
	}
}

// Leaves returns every leaf in Walk order.
func (t *Tree) Leaves() []*Node {
	var out []*Node
	t.Walk(func(n *Node) bool {
		if n.IsLeaf() {
			out = append(out, n)
		}
		return true
	})
	return out
}
