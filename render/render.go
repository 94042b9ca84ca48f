// Package render draws trained decision trees, as Graphviz DOT text or as an
// interactive ECharts page.
package render

import (
	"bufio"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/cours-de-latin/atp"
)

const (
	chartWidth  = "1600px"
	chartHeight = "900px"
	emptySuffix = "∅"
	failedLabel = "failed"
)

// LeafLabel is the short label of a leaf: "-s" for a productive suffix,
// "-∅" for a productive zero suffix, the rule name for other productive
// rules and "failed" when nothing was productive.
func LeafLabel(n *atp.Node) string {
	if !n.Productive() {
		return failedLabel
	}
	if s, ok := n.ProductiveSuffix(); ok {
		if s == "" {
			s = emptySuffix
		}
		return "-" + s
	}
	return n.Table().Default().Name()
}

// nodeLabel is the split condition of an internal node or the leaf label.
func nodeLabel(n *atp.Node) string {
	if n.IsLeaf() {
		return LeafLabel(n)
	}
	return n.Edges()[0].Branch.Condition.Name()
}

// DOT writes tree as a Graphviz digraph. Internal nodes show their split
// condition and edges are marked "+" or "¬"; leaves show LeafLabel.
func DOT(w io.Writer, tree *atp.Tree) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph atp {")
	fmt.Fprintln(bw, "\tnode [fontname=\"Helvetica\"];")
	tree.Walk(func(n *atp.Node) bool {
		shape := "ellipse"
		if n.IsLeaf() {
			shape = "box"
		}
		fmt.Fprintf(bw, "\tn%d [label=%q, shape=%s];\n", n.ID, nodeLabel(n), shape)
		for _, e := range n.Edges() {
			mark := "+"
			if !e.Branch.Positive {
				mark = atp.NegationSymbol
			}
			fmt.Fprintf(bw, "\tn%d -> n%d [label=%q];\n", n.ID, e.Child, mark)
		}
		return true
	})
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

// HTML writes a standalone page with tree drawn as an ECharts tree chart.
func HTML(w io.Writer, tree *atp.Tree, title string) error {
	chart := charts.NewTree()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d nodes, %d leaves", tree.Len(), len(tree.Leaves())),
		}),
	)
	chart.AddSeries(title, []opts.TreeData{*treeData(tree, tree.Root(), "root")}).
		SetSeriesOptions(
			charts.WithTreeOpts(opts.TreeChart{
				Layout: "orthogonal",
				Orient: "LR",
			}),
		)
	return chart.Render(w)
}

// treeData converts the subtree under n. name is the branch that leads to n.
func treeData(tree *atp.Tree, n *atp.Node, name string) *opts.TreeData {
	if n.IsLeaf() {
		return &opts.TreeData{
			Name:  name + " => " + LeafLabel(n),
			Value: len(n.Table().Vocabulary()),
		}
	}
	d := &opts.TreeData{Name: name}
	for _, e := range n.Edges() {
		d.Children = append(d.Children, treeData(tree, tree.Node(e.Child), e.Branch.String()))
	}
	return d
}
