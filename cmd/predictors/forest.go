package main

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/born-ml/predictors/forest"
)

func newForestCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forest",
		Short: "Evaluate the reference two-tree forest",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			f, err := buildForest()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "trees=%d interior=%d edges=%d\n", f.NumTrees(), f.NumInteriorNodes(), f.NumEdges())

			for _, x := range [][]float64{{0.18, 0.5, 0}, {0.25, 0.7, 0}, {0.5, 0.7, 1}} {
				path := lo.Map(f.EdgeIndicator(x), func(on bool, _ int) string {
					return lo.Ternary(on, "1", "0")
				})
				fmt.Fprintf(a.out, "%v -> %g edges=%s\n", x, f.Predict(x), strings.Join(path, ""))
			}
			return nil
		},
	}
}

// buildForest grows two threshold trees over three features.
func buildForest() (*forest.SimpleForest, error) {
	type action = forest.SplitAction[forest.ThresholdRule]
	f := forest.NewSimple()

	tree0, err := f.Split(action{Node: f.NewRootID(), Rule: forest.ThresholdRule{Index: 0, Threshold: 0.3}, EdgeOutputs: []float64{-1, 1}})
	if err != nil {
		return nil, err
	}
	for _, split := range []action{
		{Node: f.ChildID(tree0, 0), Rule: forest.ThresholdRule{Index: 1, Threshold: 0.6}, EdgeOutputs: []float64{-2, 2}},
		{Node: f.ChildID(tree0, 1), Rule: forest.ThresholdRule{Index: 2, Threshold: 0.9}, EdgeOutputs: []float64{-4, 4}},
		{Node: f.NewRootID(), Rule: forest.ThresholdRule{Index: 0, Threshold: 0.2}, EdgeOutputs: []float64{-3, 3}},
	} {
		if _, err := f.Split(split); err != nil {
			return nil, err
		}
	}
	return f, nil
}
