package forest

import "fmt"

// Attribution decomposes one prediction into additive per-feature terms
// toward the WON class. The invariant Bias + sum(Contributions) equals
// PredictProba's P(won) exactly.
type Attribution struct {
	Bias          float64   // ensemble-average root probability of WON
	Contributions []float64 // signed contribution per feature, model order
}

// Contributions explains a single sample by walking each tree's decision
// path and charging the change in node probability to the feature that was
// split on, then averaging over the ensemble.
func (f *Forest) Contributions(x []float64) (*Attribution, error) {
	if len(x) != f.NumFeatures {
		return nil, fmt.Errorf("sample width %d does not match model width %d", len(x), f.NumFeatures)
	}
	if len(f.Trees) == 0 {
		return nil, fmt.Errorf("ensemble has no trees")
	}

	att := &Attribution{Contributions: make([]float64, f.NumFeatures)}
	for ti := range f.Trees {
		t := &f.Trees[ti]
		att.Bias += t.Nodes[0].Value[1]
		i := 0
		for t.Nodes[i].Feature >= 0 {
			n := &t.Nodes[i]
			next := n.Left
			if x[n.Feature] > n.Threshold {
				next = n.Right
			}
			att.Contributions[n.Feature] += t.Nodes[next].Value[1] - n.Value[1]
			i = next
		}
	}

	inv := 1 / float64(len(f.Trees))
	att.Bias *= inv
	for i := range att.Contributions {
		att.Contributions[i] *= inv
	}
	return att, nil
}
