package predict

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/autobid-ai/winpredict/pkg/feature"
	"github.com/autobid-ai/winpredict/pkg/model"
	"github.com/autobid-ai/winpredict/pkg/store/artifact"
)

// Engine scores candidate tenders against a tenant's trained pipeline
type Engine struct {
	store   *artifact.Store
	builder *feature.Builder
	logger  *zap.Logger
}

// NewEngine creates an inference engine
func NewEngine(store *artifact.Store, builder *feature.Builder, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:   store,
		builder: builder,
		logger:  logger,
	}
}

// Predict scores one candidate tender for the tenant. A tenant without a
// trained model gets the neutral 50% result with an empty explanation —
// expected state, not an error. Storage failures other than not-found are
// returned, so the caller can distinguish "no model yet" from "prediction
// unavailable" instead of showing a fabricated probability. Attribution is
// best-effort: if it fails, the probability still comes back alone.
func (e *Engine) Predict(ctx context.Context, tenantID string, in feature.TenderInput) (model.Prediction, error) {
	art, err := e.store.Load(tenantID)
	if errors.Is(err, artifact.ErrNotFound) {
		return model.NeutralPrediction(), nil
	}
	if err != nil {
		return model.Prediction{}, fmt.Errorf("failed to load model artifact: %w", err)
	}

	row := e.builder.InferenceRow(in)
	x := art.Pipeline.Transform(row)
	proba, err := art.Pipeline.Classifier.PredictProba(x)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("failed to score tender: %w", err)
	}

	explanation, err := explain(art, x)
	if err != nil {
		e.logger.Warn("attribution failed, returning probability only",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		explanation = []model.ExplanationEntry{}
	}

	return model.Prediction{
		Probability: round1(proba[1] * 100),
		Explanation: explanation,
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
