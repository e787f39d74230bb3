// Package model loads tree-ensemble classifier artifacts and runs inference on them.
//
// Artifacts are JSON exports of scikit-learn style ensembles. Each tree uses the
// flat array layout of sklearn's tree_ attribute: node i is a leaf when
// children_left[i] == -1, otherwise a row goes left when
// row[feature[i]] <= threshold[i]. Files ending in .gz are gzip compressed.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
)

// FormatVersion is the only artifact layout this package understands.
const FormatVersion = 1

// Kind names the ensemble algorithm an artifact was exported from.
type Kind string

const (
	KindRandomForest     Kind = "random_forest"
	KindGradientBoosting Kind = "gradient_boosting"
)

const leafNode = -1

// Artifact is the serialized form of a trained ensemble.
type Artifact struct {
	FormatVersion int      `json:"format_version"`
	Kind          Kind     `json:"kind"`
	NFeatures     int      `json:"n_features"`
	FeatureNames  []string `json:"feature_names,omitempty"`
	Classes       []int    `json:"classes"`

	// Random forest: leaf values are per-class sample counts or fractions.
	Trees []Tree `json:"trees,omitempty"`

	// Gradient boosting: Stages[i][k] is the regression tree for class k at
	// stage i; leaf values hold a single raw score.
	LearningRate float64   `json:"learning_rate,omitempty"`
	InitScores   []float64 `json:"init_scores,omitempty"`
	Stages       [][]Tree  `json:"stages,omitempty"`
}

// Tree is one decision tree in flat array form.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// ReadArtifact decodes an artifact from path without validating it.
func ReadArtifact(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &a, nil
}

// WriteArtifact encodes a to path, gzip compressed when path ends in .gz.
func WriteArtifact(path string, a *Artifact) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	var w io.Writer = f
	if strings.HasSuffix(path, ".gz") {
		zw := gzip.NewWriter(f)
		defer func() {
			if cerr := zw.Close(); err == nil {
				err = cerr
			}
		}()
		w = zw
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	return nil
}

// Validate checks that the artifact describes a classifier over the
// five-feature earthquake row.
func (a *Artifact) Validate() error {
	if a.FormatVersion != FormatVersion {
		return fmt.Errorf("unsupported format_version %d", a.FormatVersion)
	}
	if a.NFeatures != domain.NumFeatures {
		return fmt.Errorf("artifact expects %d features, rows have %d", a.NFeatures, domain.NumFeatures)
	}
	if len(a.FeatureNames) != 0 && len(a.FeatureNames) != a.NFeatures {
		return fmt.Errorf("feature_names has %d entries, n_features is %d", len(a.FeatureNames), a.NFeatures)
	}
	if len(a.Classes) < 2 {
		return errors.New("classifier needs at least two classes")
	}

	switch a.Kind {
	case KindRandomForest:
		return a.validateForest()
	case KindGradientBoosting:
		return a.validateBoosting()
	case "":
		return errors.New("missing kind")
	default:
		return fmt.Errorf("unknown kind %q", a.Kind)
	}
}

func (a *Artifact) validateForest() error {
	if len(a.Trees) == 0 {
		return errors.New("random forest has no trees")
	}
	for i := range a.Trees {
		if err := a.Trees[i].validate(a.NFeatures, len(a.Classes)); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func (a *Artifact) validateBoosting() error {
	if a.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be positive, got %v", a.LearningRate)
	}
	if len(a.InitScores) != len(a.Classes) {
		return fmt.Errorf("init_scores has %d entries for %d classes", len(a.InitScores), len(a.Classes))
	}
	if len(a.Stages) == 0 {
		return errors.New("gradient boosting has no stages")
	}
	for i, stage := range a.Stages {
		if len(stage) != len(a.Classes) {
			return fmt.Errorf("stage %d has %d trees for %d classes", i, len(stage), len(a.Classes))
		}
		for k := range stage {
			if err := stage[k].validate(a.NFeatures, 1); err != nil {
				return fmt.Errorf("stage %d class %d: %w", i, k, err)
			}
		}
	}
	return nil
}

// validate requires children to follow their parent so evaluation always terminates.
func (t *Tree) validate(nFeatures, valueWidth int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return errors.New("empty tree")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return errors.New("node arrays have different lengths")
	}
	for i := range n {
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == leafNode {
			if right != leafNode {
				return fmt.Errorf("node %d has a right child but no left child", i)
			}
			if len(t.Value[i]) != valueWidth {
				return fmt.Errorf("leaf %d has %d values, want %d", i, len(t.Value[i]), valueWidth)
			}
			continue
		}
		if left <= i || left >= n || right <= i || right >= n {
			return fmt.Errorf("node %d has out-of-order children %d, %d", i, left, right)
		}
		if f := t.Feature[i]; f < 0 || f >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d", i, f)
		}
	}
	return nil
}

// leaf walks the tree for row and returns the leaf value.
func (t *Tree) leaf(row []float64) []float64 {
	i := 0
	for t.ChildrenLeft[i] != leafNode {
		if row[t.Feature[i]] <= t.Threshold[i] {
			i = t.ChildrenLeft[i]
		} else {
			i = t.ChildrenRight[i]
		}
	}
	return t.Value[i]
}
