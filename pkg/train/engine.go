package train

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/autobid-ai/winpredict/pkg/feature"
	"github.com/autobid-ai/winpredict/pkg/forest"
	"github.com/autobid-ai/winpredict/pkg/model"
	"github.com/autobid-ai/winpredict/pkg/pipeline"
	"github.com/autobid-ai/winpredict/pkg/store/artifact"
)

// Outcome statuses mirror the wire contract of the surrounding API
const (
	StatusTrained = "trained"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// ReasonInsufficientData is the skip reason when a tenant has fewer than
// the minimum number of resolved bids
const ReasonInsufficientData = "Insufficient data (<5)."

// Outcome reports the result of one training attempt. It is data rather
// than an error because skipped and failed runs are expected states the
// caller branches on; a failed retrain must never abort the request that
// triggered it.
type Outcome struct {
	Status       string `json:"status"`
	Reason       string `json:"reason,omitempty"`
	TotalSamples int    `json:"total_samples,omitempty"`
}

// BidSource supplies a tenant's historical bid records. The duckdb BidRepo
// implements it; tests use in-memory fakes.
type BidSource interface {
	ListResolvedByTenant(ctx context.Context, tenantID string) ([]model.Bid, error)
}

// TrainingLog records training attempts for auditing. Logging is
// best-effort and never fails a training run.
type TrainingLog interface {
	Insert(ctx context.Context, tenantID string, rowsUsed int, status string) error
}

// Config holds the training parameters
type Config struct {
	MinSamples int // resolved records required to attempt a fit
	Forest     forest.Config
}

// DefaultConfig returns the standard training configuration
func DefaultConfig() Config {
	return Config{
		MinSamples: 5,
		Forest:     forest.DefaultConfig(),
	}
}

// Engine fits and persists one tenant's win-prediction pipeline. Every
// training run is a full refit on the current labeled set: per-tenant data
// is small, so refitting from scratch is cheap and avoids incremental
// staleness. Concurrent retrains for the same tenant are tolerated as
// last-writer-wins, since each fit is independent and saves are atomic.
type Engine struct {
	store   *artifact.Store
	builder *feature.Builder
	cfg     Config
	logger  *zap.Logger

	source  BidSource
	logRepo TrainingLog
}

// NewEngine creates a training engine
func NewEngine(store *artifact.Store, builder *feature.Builder, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:   store,
		builder: builder,
		cfg:     cfg,
		logger:  logger,
	}
}

// WithSource attaches the record supply used by TrainFromSource
func (e *Engine) WithSource(s BidSource) *Engine {
	e.source = s
	return e
}

// WithTrainingLog attaches the audit log for training attempts
func (e *Engine) WithTrainingLog(l TrainingLog) *Engine {
	e.logRepo = l
	return e
}

// Train fits a fresh pipeline on the tenant's resolved records and
// persists it, overwriting any prior artifact. Below the minimum sample
// count the run is skipped — not failed — and the existing model, if any,
// is left untouched.
func (e *Engine) Train(ctx context.Context, tenantID string, records []model.Bid) Outcome {
	resolved := make([]model.Bid, 0, len(records))
	for _, rec := range records {
		if rec.Status.IsResolved() {
			resolved = append(resolved, rec)
		}
	}

	if len(resolved) < e.cfg.MinSamples {
		e.logger.Info("skipping training",
			zap.String("tenant_id", tenantID),
			zap.Int("resolved_records", len(resolved)),
			zap.Int("min_samples", e.cfg.MinSamples),
		)
		return e.finish(ctx, tenantID, len(resolved), Outcome{
			Status: StatusSkipped,
			Reason: ReasonInsufficientData,
		})
	}

	rows, labels, err := e.builder.TrainingRows(resolved)
	if err != nil {
		return e.failed(ctx, tenantID, len(resolved), "failed to build training rows", err)
	}

	p, err := pipeline.Fit(rows, labels, e.cfg.Forest)
	if err != nil {
		return e.failed(ctx, tenantID, len(resolved), "failed to fit pipeline", err)
	}

	art := &artifact.Artifact{
		Pipeline:     p,
		FeatureNames: p.FeatureNames(),
		TrainedAt:    time.Now().UTC(),
		Samples:      len(resolved),
	}
	if err := e.store.Save(tenantID, art); err != nil {
		return e.failed(ctx, tenantID, len(resolved), "failed to persist artifact", err)
	}

	e.logger.Info("model trained",
		zap.String("tenant_id", tenantID),
		zap.Int("samples", len(resolved)),
		zap.Int("features", len(art.FeatureNames)),
	)
	return e.finish(ctx, tenantID, len(resolved), Outcome{
		Status:       StatusTrained,
		TotalSamples: len(resolved),
	})
}

// TrainFromSource pulls the tenant's current resolved records and runs
// Train. Two concurrent triggers each query "current" data independently,
// so no partial or merged state is possible.
func (e *Engine) TrainFromSource(ctx context.Context, tenantID string) Outcome {
	if e.source == nil {
		return e.failed(ctx, tenantID, 0, "no bid source configured", nil)
	}
	records, err := e.source.ListResolvedByTenant(ctx, tenantID)
	if err != nil {
		return e.failed(ctx, tenantID, 0, "failed to load records", err)
	}
	return e.Train(ctx, tenantID, records)
}

func (e *Engine) failed(ctx context.Context, tenantID string, rowsUsed int, reason string, err error) Outcome {
	fields := []zap.Field{zap.String("tenant_id", tenantID)}
	if err != nil {
		fields = append(fields, zap.Error(err))
		reason = reason + ": " + err.Error()
	}
	e.logger.Error("training failed", fields...)
	return e.finish(ctx, tenantID, rowsUsed, Outcome{
		Status: StatusError,
		Reason: reason,
	})
}

// finish records the attempt in the audit log, best-effort
func (e *Engine) finish(ctx context.Context, tenantID string, rowsUsed int, out Outcome) Outcome {
	if e.logRepo != nil {
		if err := e.logRepo.Insert(ctx, tenantID, rowsUsed, out.Status); err != nil {
			e.logger.Warn("failed to record training log",
				zap.String("tenant_id", tenantID),
				zap.Error(err),
			)
		}
	}
	return out
}
