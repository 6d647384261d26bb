package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type action = SplitAction[ThresholdRule]

// referenceForest builds two trees:
//
//	tree0: x0 > 0.3 ? (x2 > 0.9 ? 4 : -4) + 1 : (x1 > 0.6 ? 2 : -2) - 1
//	tree1: x0 > 0.2 ? 3 : -3
func referenceForest(t *testing.T) (f *SimpleForest, tree0, tree1 int) {
	t.Helper()
	f = NewSimple()

	tree0, err := f.Split(action{Node: f.NewRootID(), Rule: ThresholdRule{Index: 0, Threshold: 0.3}, EdgeOutputs: []float64{-1, 1}})
	require.NoError(t, err)
	_, err = f.Split(action{Node: f.ChildID(tree0, 0), Rule: ThresholdRule{Index: 1, Threshold: 0.6}, EdgeOutputs: []float64{-2, 2}})
	require.NoError(t, err)
	_, err = f.Split(action{Node: f.ChildID(tree0, 1), Rule: ThresholdRule{Index: 2, Threshold: 0.9}, EdgeOutputs: []float64{-4, 4}})
	require.NoError(t, err)

	tree1, err = f.Split(action{Node: f.NewRootID(), Rule: ThresholdRule{Index: 0, Threshold: 0.2}, EdgeOutputs: []float64{-3, 3}})
	require.NoError(t, err)
	return f, tree0, tree1
}

func TestForest_Counts(t *testing.T) {
	f, tree0, tree1 := referenceForest(t)

	assert.Equal(t, 2, f.NumTrees())
	assert.Equal(t, []int{0, 3}, f.Roots())

	assert.Equal(t, 4, f.NumInteriorNodes())
	assert.Equal(t, 3, f.NumInteriorNodesIn(tree0))
	assert.Equal(t, 1, f.NumInteriorNodesIn(tree1))

	assert.Equal(t, 8, f.NumEdges())
	assert.Equal(t, 6, f.NumEdgesIn(tree0))
	assert.Equal(t, 2, f.NumEdgesIn(tree1))

	assert.Equal(t, 0, f.NumEdgesIn(42))
}

func TestForest_PredictTree(t *testing.T) {
	f, tree0, _ := referenceForest(t)

	tests := []struct {
		x    []float64
		want float64
	}{
		{[]float64{0.2, 0.5, 0.0}, -3},
		{[]float64{0.18, 0.7, 0.0}, 1},
		{[]float64{0.5, 0.7, 0.7}, -3},
		{[]float64{0.5, 0.7, 1.0}, 5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, f.PredictTree(tt.x, tree0), 1e-8, "x=%v", tt.x)
	}
}

func TestForest_Predict(t *testing.T) {
	f, _, _ := referenceForest(t)

	assert.InDelta(t, -6.0, f.Predict([]float64{0.18, 0.5, 0.0}), 1e-8)
	assert.InDelta(t, 4.0, f.Predict([]float64{0.25, 0.7, 0.0}), 1e-8)

	f.AddToBias(0.5)
	f.AddToBias(0.25)
	assert.Equal(t, 0.75, f.Bias())
	assert.InDelta(t, 4.75, f.Predict([]float64{0.25, 0.7, 0.0}), 1e-8)
}

func TestForest_EdgeIndicator(t *testing.T) {
	f, _, _ := referenceForest(t)

	got := f.EdgeIndicator([]float64{0.25, 0.7, 0.0})
	assert.Equal(t, []bool{true, false, false, true, false, false, false, true}, got)
}

func TestForest_Empty(t *testing.T) {
	f := NewSimple()
	assert.Equal(t, 0.0, f.Predict([]float64{1}))
	assert.Empty(t, f.EdgeIndicator([]float64{1}))
	assert.Equal(t, 0, f.NumTrees())
}

func TestForest_SplitErrors(t *testing.T) {
	f, tree0, _ := referenceForest(t)
	rule := ThresholdRule{Index: 0, Threshold: 0}

	_, err := f.Split(action{Node: f.ChildID(tree0, 0), Rule: rule, EdgeOutputs: []float64{1, 2}})
	assert.ErrorIs(t, err, ErrAlreadySplit)

	_, err = f.Split(action{Node: f.ChildID(9, 0), Rule: rule, EdgeOutputs: []float64{1, 2}})
	assert.ErrorIs(t, err, ErrInvalidNode)

	_, err = f.Split(action{Node: f.ChildID(tree0, 2), Rule: rule, EdgeOutputs: []float64{1, 2}})
	assert.ErrorIs(t, err, ErrInvalidNode)

	_, err = f.Split(action{Node: f.NewRootID(), Rule: rule, EdgeOutputs: []float64{1}})
	assert.ErrorIs(t, err, ErrEdgeCount)

	// failed splits leave the forest unchanged
	assert.Equal(t, 4, f.NumInteriorNodes())
	assert.Equal(t, 8, f.NumEdges())
}

// rangeRule sends x[0] to one of three buckets.
type rangeRule struct{}

func (rangeRule) Predict(x []float64) int {
	switch {
	case x[0] < 0:
		return 0
	case x[0] < 1:
		return 1
	default:
		return 2
	}
}

func (rangeRule) NumOutputs() int { return 3 }

func TestForest_CustomRule(t *testing.T) {
	f := New[rangeRule]()
	root, err := f.Split(SplitAction[rangeRule]{Node: f.NewRootID(), EdgeOutputs: []float64{-1, 0, 1}})
	require.NoError(t, err)
	child, err := f.Split(SplitAction[rangeRule]{Node: f.ChildID(root, 2), EdgeOutputs: []float64{10, 20, 30}})
	require.NoError(t, err)
	assert.Equal(t, 1, child)

	assert.Equal(t, -1.0, f.Predict([]float64{-5}))
	assert.Equal(t, 31.0, f.Predict([]float64{5}))
	assert.Equal(t, []bool{false, false, true, false, false, true}, f.EdgeIndicator([]float64{5}))
	assert.Equal(t, 6, f.NumEdgesIn(root))
}
