// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package forest provides additive decision-forest predictors.
//
// # Basic Usage
//
//	f := forest.NewSimple()
//	root, err := f.Split(forest.SplitAction[forest.ThresholdRule]{
//	    Node:        f.NewRootID(),
//	    Rule:        forest.ThresholdRule{Index: 0, Threshold: 0.3},
//	    EdgeOutputs: []float64{-1, 1},
//	})
//	y := f.Predict([]float64{0.5})
package forest

import (
	"github.com/born-ml/predictors/internal/forest"
)

// Errors returned by Split.
var (
	ErrInvalidNode  = forest.ErrInvalidNode
	ErrAlreadySplit = forest.ErrAlreadySplit
	ErrEdgeCount    = forest.ErrEdgeCount
)

// SplitRule routes a feature vector to one of its outgoing edges.
type SplitRule = forest.SplitRule

// ThresholdRule routes on x[Index] > Threshold.
type ThresholdRule = forest.ThresholdRule

// NodeID names a leaf that can be split.
type NodeID = forest.NodeID

// SplitAction turns a leaf into an interior node.
type SplitAction[R SplitRule] = forest.SplitAction[R]

// Forest is an additive ensemble of trees.
type Forest[R SplitRule] = forest.Forest[R]

// SimpleForest is a forest of threshold splits.
type SimpleForest = forest.SimpleForest

// New returns an empty forest.
func New[R SplitRule]() *Forest[R] {
	return forest.New[R]()
}

// NewSimple returns an empty SimpleForest.
func NewSimple() *SimpleForest {
	return forest.NewSimple()
}
