package model

// Direction wire values match the API contract consumed by the dashboard
// frontend.
const (
	DirectionPositive = "Positivo"
	DirectionNegative = "Negativo"
)

// ExplanationEntry is one feature's contribution to a single prediction
type ExplanationEntry struct {
	Feature     string  `json:"feature"`
	ImpactValue float64 `json:"impact_value"` // absolute value, rounded to 4 decimals
	Direction   string  `json:"direction"`    // DirectionPositive or DirectionNegative
}

// Prediction is a win probability plus its ranked per-feature explanation
type Prediction struct {
	Probability float64            `json:"probability"` // 0-100, rounded to 1 decimal
	Explanation []ExplanationEntry `json:"explanation"`
}

// NeutralPrediction is the result for a tenant with no trained model yet:
// an even 50% with nothing to explain
func NeutralPrediction() Prediction {
	return Prediction{Probability: 50.0, Explanation: []ExplanationEntry{}}
}
