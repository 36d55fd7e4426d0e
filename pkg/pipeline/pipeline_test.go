package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobid-ai/winpredict/pkg/feature"
	"github.com/autobid-ai/winpredict/pkg/forest"
)

func trainingRows() ([]feature.Row, []int) {
	rows := []feature.Row{
		{Industry: "Fintech", Budget: 90000, TechnicalScore: 95, DaysDeadline: 45},
		{Industry: "Fintech", Budget: 88000, TechnicalScore: 92, DaysDeadline: 40},
		{Industry: "Fintech", Budget: 91000, TechnicalScore: 97, DaysDeadline: 50},
		{Industry: "Government", Budget: 15000, TechnicalScore: 10, DaysDeadline: 60},
		{Industry: "Government", Budget: 14000, TechnicalScore: 12, DaysDeadline: 55},
		{Industry: "Government", Budget: 16000, TechnicalScore: 8, DaysDeadline: 65},
	}
	labels := []int{1, 1, 1, 0, 0, 0}
	return rows, labels
}

func TestOneHotEncoderSortedCategories(t *testing.T) {
	e := NewOneHotEncoder("industry")
	e.Fit([]string{"Government", "Fintech", "Government", "Energy"})

	assert.Equal(t, []string{"Energy", "Fintech", "Government"}, e.Categories)
	assert.Equal(t, []string{"industry_Energy", "industry_Fintech", "industry_Government"}, e.FeatureNames())
	assert.Equal(t, []float64{0, 1, 0}, e.Transform("Fintech"))
}

func TestOneHotEncoderUnknownCategoryEncodesToZeros(t *testing.T) {
	e := NewOneHotEncoder("industry")
	e.Fit([]string{"Fintech", "Government"})

	assert.Equal(t, []float64{0, 0}, e.Transform("Aerospace"))
}

func TestStandardScaler(t *testing.T) {
	s := &StandardScaler{}
	require.NoError(t, s.Fit([][]float64{{1, 10}, {3, 10}, {5, 10}}))

	assert.InDelta(t, 3.0, s.Means[0], 1e-9)
	// Zero-variance column keeps scale 1 so it maps to zero, not NaN
	assert.Equal(t, 1.0, s.Scales[1])

	out := s.Transform([]float64{3, 10})
	assert.InDelta(t, 0.0, out[0], 1e-9)
	assert.InDelta(t, 0.0, out[1], 1e-9)
}

func TestStandardScalerEmptyInput(t *testing.T) {
	s := &StandardScaler{}
	assert.Error(t, s.Fit(nil))
}

func TestPipelineFeatureOrder(t *testing.T) {
	rows, labels := trainingRows()
	p, err := Fit(rows, labels, forest.DefaultConfig())
	require.NoError(t, err)

	names := p.FeatureNames()
	require.Equal(t, []string{
		"industry_Fintech", "industry_Government",
		feature.ColBudget, feature.ColTechnicalScore, feature.ColDaysDeadline,
	}, names)

	x := p.Transform(rows[0])
	require.Len(t, x, len(names), "transform width must match feature name count")
	assert.Equal(t, 1.0, x[0])
	assert.Equal(t, 0.0, x[1])
}

func TestPipelineSeparatesOutcomes(t *testing.T) {
	rows, labels := trainingRows()
	p, err := Fit(rows, labels, forest.DefaultConfig())
	require.NoError(t, err)

	won, err := p.WinProbability(feature.Row{Industry: "Fintech", Budget: 85000, TechnicalScore: 90, DaysDeadline: 40})
	require.NoError(t, err)
	lost, err := p.WinProbability(feature.Row{Industry: "Government", Budget: 15000, TechnicalScore: 8, DaysDeadline: 60})
	require.NoError(t, err)

	assert.Greater(t, won, 0.5)
	assert.Less(t, lost, 0.5)
}

func TestPipelineSurvivesJSONRoundTrip(t *testing.T) {
	rows, labels := trainingRows()
	p, err := Fit(rows, labels, forest.DefaultConfig())
	require.NoError(t, err)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	var loaded Pipeline
	require.NoError(t, json.Unmarshal(data, &loaded))

	probe := feature.Row{Industry: "Fintech", Budget: 85000, TechnicalScore: 90, DaysDeadline: 40}
	orig, err := p.WinProbability(probe)
	require.NoError(t, err)
	reloaded, err := loaded.WinProbability(probe)
	require.NoError(t, err)
	assert.InDelta(t, orig, reloaded, 1e-12)
}

func TestPipelineFitValidation(t *testing.T) {
	_, err := Fit(nil, nil, forest.DefaultConfig())
	assert.Error(t, err)

	rows, _ := trainingRows()
	_, err = Fit(rows, []int{1}, forest.DefaultConfig())
	assert.Error(t, err)
}
