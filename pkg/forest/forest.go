package forest

import (
	"fmt"
	"math"
	"math/rand"
)

// Config holds the ensemble hyperparameters. The out-of-the-box values are
// deliberately fixed: datasets are small (tens to low hundreds of rows per
// tenant) and ensemble size alone provides enough regularization, so there
// is no hyperparameter search.
type Config struct {
	Trees           int   // number of bagged trees
	MinSamplesSplit int   // minimum node size eligible for splitting
	Seed            int64 // base RNG seed; fixed seed makes refits deterministic
}

// DefaultConfig returns the standard ensemble configuration
func DefaultConfig() Config {
	return Config{
		Trees:           100,
		MinSamplesSplit: 2,
		Seed:            42,
	}
}

// Forest is a bagged ensemble of classification trees for a binary
// WON/LOST outcome. It is fully JSON-serializable so a fitted ensemble can
// be persisted inside a tenant's model artifact.
type Forest struct {
	Trees       []Tree `json:"trees"`
	NumFeatures int    `json:"num_features"`
}

// Fit trains an ensemble on x (rows of equal width) against 0/1 labels y.
// Each tree sees a bootstrap sample of the rows and considers a random
// sqrt-sized feature subset at every split. Tree i derives its RNG from
// Seed+i, so two fits on identical data produce identical ensembles.
func Fit(x [][]float64, y []int, cfg Config) (*Forest, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("empty training matrix")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("row count %d does not match label count %d", len(x), len(y))
	}
	nFeatures := len(x[0])
	if nFeatures == 0 {
		return nil, fmt.Errorf("training rows have no features")
	}
	for i, row := range x {
		if len(row) != nFeatures {
			return nil, fmt.Errorf("row %d has width %d, want %d", i, len(row), nFeatures)
		}
	}
	for i, label := range y {
		if label != 0 && label != 1 {
			return nil, fmt.Errorf("label %d at row %d is not binary", label, i)
		}
	}
	if cfg.Trees <= 0 {
		return nil, fmt.Errorf("ensemble size %d is not positive", cfg.Trees)
	}

	maxFeatures := int(math.Sqrt(float64(nFeatures)))
	if maxFeatures < 1 {
		maxFeatures = 1
	}
	minSplit := cfg.MinSamplesSplit
	if minSplit < 2 {
		minSplit = 2
	}

	f := &Forest{
		Trees:       make([]Tree, 0, cfg.Trees),
		NumFeatures: nFeatures,
	}
	for i := 0; i < cfg.Trees; i++ {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
		idx := make([]int, len(x))
		for j := range idx {
			idx[j] = rng.Intn(len(x))
		}
		f.Trees = append(f.Trees, growTree(x, y, idx, maxFeatures, minSplit, rng))
	}
	return f, nil
}

// PredictProba returns [P(lost), P(won)] for one sample, averaged over the
// leaf distributions of all trees
func (f *Forest) PredictProba(x []float64) ([2]float64, error) {
	if len(x) != f.NumFeatures {
		return [2]float64{}, fmt.Errorf("sample width %d does not match model width %d", len(x), f.NumFeatures)
	}
	var sum [2]float64
	for i := range f.Trees {
		p := f.Trees[i].Proba(x)
		sum[0] += p[0]
		sum[1] += p[1]
	}
	n := float64(len(f.Trees))
	return [2]float64{sum[0] / n, sum[1] / n}, nil
}
