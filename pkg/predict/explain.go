package predict

import (
	"fmt"
	"math"
	"sort"

	"github.com/autobid-ai/winpredict/pkg/feature"
	"github.com/autobid-ai/winpredict/pkg/model"
	"github.com/autobid-ai/winpredict/pkg/store/artifact"
)

// explanationEpsilon drops contributions too small to be actionable,
// on a [0,1] probability-contribution scale
const explanationEpsilon = 0.001

// friendlyNames maps numeric columns to the labels the dashboard shows
var friendlyNames = map[string]string{
	feature.ColBudget:         "Presupuesto",
	feature.ColTechnicalScore: "Match Técnico",
	feature.ColDaysDeadline:   "Urgencia (Días)",
}

// explain decomposes one transformed row into named, signed, magnitude-
// ranked contributions toward the WON class. One-hot industry levels that
// are zero for this input are suppressed regardless of magnitude: a
// category the tender is not in cannot explain its outcome. Ties sort
// stably in feature order.
func explain(art *artifact.Artifact, x []float64) ([]model.ExplanationEntry, error) {
	att, err := art.Pipeline.Classifier.Contributions(x)
	if err != nil {
		return nil, err
	}
	names := art.FeatureNames
	if len(names) != len(att.Contributions) {
		return nil, fmt.Errorf("feature name count %d does not match contribution count %d",
			len(names), len(att.Contributions))
	}

	oneHotWidth := art.Pipeline.Encoder.Width()
	entries := make([]model.ExplanationEntry, 0, len(names))
	for i, c := range att.Contributions {
		if i < oneHotWidth && x[i] == 0 {
			continue
		}
		if math.Abs(c) <= explanationEpsilon {
			continue
		}

		name := names[i]
		if friendly, ok := friendlyNames[name]; ok {
			name = friendly
		}
		direction := model.DirectionPositive
		if c < 0 {
			direction = model.DirectionNegative
		}
		entries = append(entries, model.ExplanationEntry{
			Feature:     name,
			ImpactValue: math.Abs(round4(c)),
			Direction:   direction,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ImpactValue > entries[j].ImpactValue
	})
	return entries, nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
