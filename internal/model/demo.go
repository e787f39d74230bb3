package model

import "github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"

// Feature column indexes in training order.
const (
	colMagnitude = iota
	colDepth
	colCDI
	colMMI
	colSig
)

// DemoRandomForest returns a small hand-built forest for local runs and tests.
// It leans on significance and intensity: quiet, shallow quakes come out green
// and high-significance quakes come out red.
func DemoRandomForest() *Artifact {
	return &Artifact{
		FormatVersion: FormatVersion,
		Kind:          KindRandomForest,
		NFeatures:     domain.NumFeatures,
		FeatureNames:  append([]string(nil), domain.FeatureNames...),
		Classes:       []int{0, 1, 2, 3},
		Trees: []Tree{
			split2(colSig, 300,
				colMMI, 6.5, []float64{8, 2, 0, 0}, []float64{2, 6, 2, 0},
				colSig, 700, []float64{0, 2, 6, 2}, []float64{0, 0, 2, 8}),
			split2(colMMI, 5.5,
				colMagnitude, 7.0, []float64{9, 1, 0, 0}, []float64{3, 5, 2, 0},
				colMMI, 7.5, []float64{1, 5, 3, 1}, []float64{0, 1, 3, 6}),
			split2(colCDI, 6.0,
				colDepth, 70, []float64{6, 2, 2, 0}, []float64{9, 1, 0, 0},
				colSig, 500, []float64{1, 3, 5, 1}, []float64{0, 0, 3, 7}),
		},
	}
}

// DemoGradientBoosting returns a two-stage boosted ensemble of stumps for
// local runs and tests.
func DemoGradientBoosting() *Artifact {
	return &Artifact{
		FormatVersion: FormatVersion,
		Kind:          KindGradientBoosting,
		NFeatures:     domain.NumFeatures,
		FeatureNames:  append([]string(nil), domain.FeatureNames...),
		Classes:       []int{0, 1, 2, 3},
		LearningRate:  0.5,
		InitScores:    []float64{1.0, 0.0, -0.5, -1.5},
		Stages: [][]Tree{
			{
				stump(colSig, 200, 1.0, -1.0),
				stump(colMMI, 6, 0.2, 0.8),
				stump(colSig, 500, -0.5, 1.5),
				stump(colSig, 800, -1.0, 3.0),
			},
			{
				stump(colMMI, 6, 0.5, -1.0),
				stump(colCDI, 7, 0.3, 0.6),
				stump(colMMI, 7.5, -0.2, 1.0),
				stump(colMMI, 8.5, -0.5, 2.0),
			},
		},
	}
}

// stump is a single split with scalar leaves.
func stump(feature int, threshold, left, right float64) Tree {
	return Tree{
		ChildrenLeft:  []int{1, leafNode, leafNode},
		ChildrenRight: []int{2, leafNode, leafNode},
		Feature:       []int{feature, -2, -2},
		Threshold:     []float64{threshold, -2, -2},
		Value:         [][]float64{{0}, {left}, {right}},
	}
}

// split2 is a full tree of depth two laid out depth first.
func split2(
	rootFeature int, rootThreshold float64,
	leftFeature int, leftThreshold float64, ll, lr []float64,
	rightFeature int, rightThreshold float64, rl, rr []float64,
) Tree {
	inner := make([]float64, len(ll))
	return Tree{
		ChildrenLeft:  []int{1, 2, leafNode, leafNode, 5, leafNode, leafNode},
		ChildrenRight: []int{4, 3, leafNode, leafNode, 6, leafNode, leafNode},
		Feature:       []int{rootFeature, leftFeature, -2, -2, rightFeature, -2, -2},
		Threshold:     []float64{rootThreshold, leftThreshold, -2, -2, rightThreshold, -2, -2},
		Value:         [][]float64{inner, inner, ll, lr, inner, rl, rr},
	}
}
