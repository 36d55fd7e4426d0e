package pipeline

import (
	"fmt"

	"github.com/autobid-ai/winpredict/pkg/feature"
	"github.com/autobid-ai/winpredict/pkg/forest"
)

// Pipeline is a fitted preprocessing transform (one-hot industry encoding
// plus numeric standard scaling) composed with a fitted tree ensemble.
// The whole struct is JSON-serializable so a tenant's model persists and
// reloads as a single self-contained bundle.
type Pipeline struct {
	Encoder    *OneHotEncoder  `json:"encoder"`
	Scaler     *StandardScaler `json:"scaler"`
	Classifier *forest.Forest  `json:"classifier"`
}

// Fit trains the preprocessing on the raw rows and the classifier on the
// transformed matrix
func Fit(rows []feature.Row, labels []int, cfg forest.Config) (*Pipeline, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty training set")
	}
	if len(rows) != len(labels) {
		return nil, fmt.Errorf("row count %d does not match label count %d", len(rows), len(labels))
	}

	encoder := NewOneHotEncoder(feature.ColIndustry)
	industries := make([]string, len(rows))
	numeric := make([][]float64, len(rows))
	for i, r := range rows {
		industries[i] = r.Industry
		numeric[i] = r.NumericValues()
	}
	encoder.Fit(industries)

	scaler := &StandardScaler{}
	if err := scaler.Fit(numeric); err != nil {
		return nil, fmt.Errorf("failed to fit scaler: %w", err)
	}

	p := &Pipeline{Encoder: encoder, Scaler: scaler}
	x := make([][]float64, len(rows))
	for i, r := range rows {
		x[i] = p.Transform(r)
	}

	clf, err := forest.Fit(x, labels, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to fit classifier: %w", err)
	}
	p.Classifier = clf
	return p, nil
}

// Transform encodes and scales one raw row into the model's feature space:
// the one-hot industry block followed by the scaled numeric columns
func (p *Pipeline) Transform(r feature.Row) []float64 {
	encoded := p.Encoder.Transform(r.Industry)
	scaled := p.Scaler.Transform(r.NumericValues())
	out := make([]float64, 0, len(encoded)+len(scaled))
	out = append(out, encoded...)
	return append(out, scaled...)
}

// WinProbability runs the full pipeline on one raw row and returns the
// probability mass on the WON class, in [0, 1]
func (p *Pipeline) WinProbability(r feature.Row) (float64, error) {
	proba, err := p.Classifier.PredictProba(p.Transform(r))
	if err != nil {
		return 0, err
	}
	return proba[1], nil
}

// FeatureNames returns the post-encoding names in the exact order of
// Transform's output: one per one-hot industry level, then the numeric
// columns
func (p *Pipeline) FeatureNames() []string {
	names := p.Encoder.FeatureNames()
	return append(names, feature.ColBudget, feature.ColTechnicalScore, feature.ColDaysDeadline)
}
