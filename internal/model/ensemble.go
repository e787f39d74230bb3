package model

import (
	"fmt"

	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
)

// Ensemble is a validated, immutable tree-ensemble classifier.
// It implements domain.Classifier and is safe for concurrent use.
type Ensemble struct {
	artifact Artifact
}

var _ domain.Classifier = (*Ensemble)(nil)

// Load reads and validates the artifact at path. Any failure is a *domain.LoadError.
func Load(path string) (*Ensemble, error) {
	a, err := ReadArtifact(path)
	if err != nil {
		return nil, &domain.LoadError{Path: path, Err: err}
	}
	e, err := New(a)
	if err != nil {
		return nil, &domain.LoadError{Path: path, Err: err}
	}
	return e, nil
}

// New validates a and wraps it as a classifier.
func New(a *Artifact) (*Ensemble, error) {
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("invalid artifact: %w", err)
	}
	return &Ensemble{artifact: *a}, nil
}

// Kind returns the ensemble algorithm.
func (e *Ensemble) Kind() Kind { return e.artifact.Kind }

// Classes returns the class labels in score order.
func (e *Ensemble) Classes() []int {
	return append([]int(nil), e.artifact.Classes...)
}

// NumTrees returns the total number of trees evaluated per prediction.
func (e *Ensemble) NumTrees() int {
	if e.artifact.Kind == KindRandomForest {
		return len(e.artifact.Trees)
	}
	return len(e.artifact.Stages) * len(e.artifact.Classes)
}

// Predict classifies one feature vector in training order.
func (e *Ensemble) Predict(features domain.FeatureVector) (int, error) {
	return e.PredictRow(features.Row())
}

// PredictRow classifies a raw row. The row width must match the artifact.
func (e *Ensemble) PredictRow(row []float64) (int, error) {
	scores, err := e.Scores(row)
	if err != nil {
		return 0, err
	}
	return e.artifact.Classes[argmax(scores)], nil
}

// Scores returns the per-class scores for row: mean class probabilities for
// a random forest, raw decision values for gradient boosting.
func (e *Ensemble) Scores(row []float64) ([]float64, error) {
	if len(row) != e.artifact.NFeatures {
		return nil, fmt.Errorf("row has %d features, model expects %d", len(row), e.artifact.NFeatures)
	}
	if e.artifact.Kind == KindRandomForest {
		return e.forestScores(row), nil
	}
	return e.boostingScores(row), nil
}

func (e *Ensemble) forestScores(row []float64) []float64 {
	scores := make([]float64, len(e.artifact.Classes))
	for i := range e.artifact.Trees {
		value := e.artifact.Trees[i].leaf(row)
		var total float64
		for _, v := range value {
			total += v
		}
		if total == 0 {
			continue
		}
		for k, v := range value {
			scores[k] += v / total
		}
	}
	n := float64(len(e.artifact.Trees))
	for k := range scores {
		scores[k] /= n
	}
	return scores
}

func (e *Ensemble) boostingScores(row []float64) []float64 {
	scores := append([]float64(nil), e.artifact.InitScores...)
	for _, stage := range e.artifact.Stages {
		for k := range stage {
			scores[k] += e.artifact.LearningRate * stage[k].leaf(row)[0]
		}
	}
	return scores
}

// argmax returns the first index of the largest score.
func argmax(scores []float64) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}
