// Package forest implements additive decision-forest predictors.
//
// A forest is a set of trees sharing one node pool. Every interior node
// holds a split rule choosing one of its outgoing edges, and every edge
// carries a constant output. A tree's prediction is the sum of the edge
// outputs along the root-to-leaf path; the forest adds a bias and the
// predictions of all its trees.
//
// Trees grow by splitting leaves:
//
//	f := forest.NewSimple()
//	root, _ := f.Split(forest.SplitAction[forest.ThresholdRule]{
//	    Node: f.NewRootID(), Rule: forest.ThresholdRule{Index: 0, Threshold: 0.3}, EdgeOutputs: []float64{-1, 1},
//	})
//	f.Split(forest.SplitAction[forest.ThresholdRule]{Node: f.ChildID(root, 0), ...})
package forest

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Forest errors.
var (
	ErrInvalidNode  = errors.New("forest: invalid node")
	ErrAlreadySplit = errors.New("forest: node already split")
	ErrEdgeCount    = errors.New("forest: edge output count does not match split rule")
)

// SplitRule routes a feature vector to one of NumOutputs edges.
type SplitRule interface {
	Predict(x []float64) int
	NumOutputs() int
}

// ThresholdRule compares a single feature against a threshold.
type ThresholdRule struct {
	Index     int
	Threshold float64
}

// Predict returns 1 when x[Index] > Threshold and 0 otherwise.
func (r ThresholdRule) Predict(x []float64) int {
	if x[r.Index] > r.Threshold {
		return 1
	}
	return 0
}

// NumOutputs returns 2.
func (ThresholdRule) NumOutputs() int {
	return 2
}

// NodeID names a leaf that can be split: either a new root or the target
// of an existing edge.
type NodeID struct {
	root     bool
	parent   int
	position int
}

// String formats the id.
func (id NodeID) String() string {
	if id.root {
		return "root"
	}
	return fmt.Sprintf("child(%d, %d)", id.parent, id.position)
}

// SplitAction turns the leaf Node into an interior node.
type SplitAction[R SplitRule] struct {
	Node        NodeID
	Rule        R
	EdgeOutputs []float64 // One constant per rule output.
}

type edge struct {
	output float64
	target int // Interior node index, or -1 for a leaf.
}

type node[R SplitRule] struct {
	rule      R
	edges     []edge
	firstEdge int // Global index of edges[0].
}

// Forest is an additive ensemble of trees split by rules of type R.
// A Forest is not safe for concurrent modification.
type Forest[R SplitRule] struct {
	nodes    []node[R]
	roots    []int
	numEdges int
	bias     float64
}

// SimpleForest is a forest of single-feature threshold splits.
type SimpleForest = Forest[ThresholdRule]

// New returns an empty forest.
func New[R SplitRule]() *Forest[R] {
	return &Forest[R]{}
}

// NewSimple returns an empty SimpleForest.
func NewSimple() *SimpleForest {
	return New[ThresholdRule]()
}

// NewRootID returns the id of a new tree's root.
func (f *Forest[R]) NewRootID() NodeID {
	return NodeID{root: true}
}

// ChildID returns the id of the node reached through edge position of the
// interior node parent.
func (f *Forest[R]) ChildID(parent, position int) NodeID {
	return NodeID{parent: parent, position: position}
}

// Split applies a split action and returns the index of the new interior node.
func (f *Forest[R]) Split(action SplitAction[R]) (int, error) {
	if n := action.Rule.NumOutputs(); len(action.EdgeOutputs) != n {
		return 0, fmt.Errorf("%w: rule has %d outputs, got %d edge outputs", ErrEdgeCount, n, len(action.EdgeOutputs))
	}

	id := action.Node
	if !id.root {
		if id.parent < 0 || id.parent >= len(f.nodes) {
			return 0, fmt.Errorf("%w: %v: no interior node %d", ErrInvalidNode, id, id.parent)
		}
		parent := &f.nodes[id.parent]
		if id.position < 0 || id.position >= len(parent.edges) {
			return 0, fmt.Errorf("%w: %v: node %d has %d edges", ErrInvalidNode, id, id.parent, len(parent.edges))
		}
		if parent.edges[id.position].target >= 0 {
			return 0, fmt.Errorf("%w: %v", ErrAlreadySplit, id)
		}
	}

	index := len(f.nodes)
	edges := lo.Map(action.EdgeOutputs, func(output float64, _ int) edge {
		return edge{output: output, target: -1}
	})
	f.nodes = append(f.nodes, node[R]{rule: action.Rule, edges: edges, firstEdge: f.numEdges})
	f.numEdges += len(edges)

	if id.root {
		f.roots = append(f.roots, index)
	} else {
		f.nodes[id.parent].edges[id.position].target = index
	}
	return index, nil
}

// Bias returns the constant added to every prediction.
func (f *Forest[R]) Bias() float64 {
	return f.bias
}

// AddToBias adds v to the bias.
func (f *Forest[R]) AddToBias(v float64) {
	f.bias += v
}

// Roots returns the root node index of every tree.
func (f *Forest[R]) Roots() []int {
	return slices.Clone(f.roots)
}

// NumTrees returns the number of trees.
func (f *Forest[R]) NumTrees() int {
	return len(f.roots)
}

// NumInteriorNodes returns the number of interior nodes in all trees.
func (f *Forest[R]) NumInteriorNodes() int {
	return len(f.nodes)
}

// NumInteriorNodesIn returns the number of interior nodes in the subtree at root.
func (f *Forest[R]) NumInteriorNodesIn(root int) int {
	count := 0
	f.walk(root, func(n *node[R]) { count++ })
	return count
}

// NumEdges returns the number of edges in all trees.
func (f *Forest[R]) NumEdges() int {
	return f.numEdges
}

// NumEdgesIn returns the number of edges in the subtree at root.
func (f *Forest[R]) NumEdgesIn(root int) int {
	count := 0
	f.walk(root, func(n *node[R]) { count += len(n.edges) })
	return count
}

// Predict returns the bias plus the prediction of every tree.
func (f *Forest[R]) Predict(x []float64) float64 {
	return f.bias + lo.SumBy(f.roots, func(root int) float64 {
		return f.PredictTree(x, root)
	})
}

// PredictTree returns the sum of edge outputs on the path x takes from root.
func (f *Forest[R]) PredictTree(x []float64, root int) float64 {
	var sum float64
	f.path(x, root, func(n *node[R], position int) {
		sum += n.edges[position].output
	})
	return sum
}

// EdgeIndicator marks every edge on the paths x takes through all trees.
// Edge position p of node n has global index firstEdge(n) + p; nodes are
// numbered in split order.
func (f *Forest[R]) EdgeIndicator(x []float64) []bool {
	indicator := make([]bool, f.numEdges)
	for _, root := range f.roots {
		f.path(x, root, func(n *node[R], position int) {
			indicator[n.firstEdge+position] = true
		})
	}
	return indicator
}

// path calls visit for every edge taken by x from root to a leaf.
func (f *Forest[R]) path(x []float64, root int, visit func(n *node[R], position int)) {
	for index := root; index >= 0; {
		n := &f.nodes[index]
		position := n.rule.Predict(x)
		visit(n, position)
		index = n.edges[position].target
	}
}

// walk visits every interior node in the subtree at root.
func (f *Forest[R]) walk(root int, visit func(n *node[R])) {
	if root < 0 || root >= len(f.nodes) {
		return
	}
	stack := []int{root}
	for len(stack) > 0 {
		index := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &f.nodes[index]
		visit(n)
		for _, e := range n.edges {
			if e.target >= 0 {
				stack = append(stack, e.target)
			}
		}
	}
}
