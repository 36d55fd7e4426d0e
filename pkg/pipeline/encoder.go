package pipeline

import "sort"

// OneHotEncoder maps a single categorical column onto a block of binary
// features, one per category seen at fit time. Categories are stored sorted
// so the encoded column order is stable across refits on the same data.
// Values unseen at fit time encode to all zeros rather than failing, which
// lets the classifier fall back on the baseline plus numeric features.
type OneHotEncoder struct {
	Column     string   `json:"column"`
	Categories []string `json:"categories"`
}

// NewOneHotEncoder creates an unfitted encoder for one column
func NewOneHotEncoder(column string) *OneHotEncoder {
	return &OneHotEncoder{Column: column}
}

// Fit collects the distinct categories from the training values
func (e *OneHotEncoder) Fit(values []string) {
	seen := make(map[string]struct{}, len(values))
	e.Categories = e.Categories[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		e.Categories = append(e.Categories, v)
	}
	sort.Strings(e.Categories)
}

// Transform encodes one value as a binary vector of Width() entries
func (e *OneHotEncoder) Transform(value string) []float64 {
	out := make([]float64, len(e.Categories))
	for i, cat := range e.Categories {
		if cat == value {
			out[i] = 1
			break
		}
	}
	return out
}

// Width returns the number of encoded columns
func (e *OneHotEncoder) Width() int {
	return len(e.Categories)
}

// FeatureNames returns one name per encoded column, e.g. "industry_Fintech"
func (e *OneHotEncoder) FeatureNames() []string {
	names := make([]string, len(e.Categories))
	for i, cat := range e.Categories {
		names[i] = e.Column + "_" + cat
	}
	return names
}
