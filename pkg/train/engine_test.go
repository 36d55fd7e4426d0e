package train

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autobid-ai/winpredict/pkg/feature"
	"github.com/autobid-ai/winpredict/pkg/model"
	"github.com/autobid-ai/winpredict/pkg/store/artifact"
)

type fakeSource struct {
	records map[string][]model.Bid
	err     error
}

func (f *fakeSource) ListResolvedByTenant(_ context.Context, tenantID string) ([]model.Bid, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[tenantID], nil
}

type fakeTrainingLog struct {
	entries []string
}

func (f *fakeTrainingLog) Insert(_ context.Context, tenantID string, rowsUsed int, status string) error {
	f.entries = append(f.entries, fmt.Sprintf("%s/%d/%s", tenantID, rowsUsed, status))
	return nil
}

func resolvedBids(tenantID string, won, lost int) []model.Bid {
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	score := func(v float64) *float64 { return &v }
	var bids []model.Bid
	for i := 0; i < won; i++ {
		deadline := created.AddDate(0, 0, 45)
		bids = append(bids, model.Bid{
			TenantID:       tenantID,
			Industry:       "Fintech",
			Budget:         90000 + float64(i)*500,
			TechnicalScore: score(95),
			Status:         model.StatusWon,
			Deadline:       &deadline,
			CreatedAt:      created,
		})
	}
	for i := 0; i < lost; i++ {
		deadline := created.AddDate(0, 0, 60)
		bids = append(bids, model.Bid{
			TenantID:       tenantID,
			Industry:       "Government",
			Budget:         15000 - float64(i)*300,
			TechnicalScore: score(10),
			Status:         model.StatusLost,
			Deadline:       &deadline,
			CreatedAt:      created,
		})
	}
	return bids
}

func newTestEngine(t *testing.T) (*Engine, *artifact.Store) {
	t.Helper()
	store, err := artifact.NewStore(t.TempDir())
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Forest.Trees = 20
	return NewEngine(store, feature.NewBuilder(), cfg, zap.NewNop()), store
}

func TestTrainWithSufficientData(t *testing.T) {
	engine, store := newTestEngine(t)

	out := engine.Train(context.Background(), "tenant-a", resolvedBids("tenant-a", 3, 3))
	assert.Equal(t, StatusTrained, out.Status)
	assert.Equal(t, 6, out.TotalSamples)
	assert.Empty(t, out.Reason)
	assert.True(t, store.Exists("tenant-a"))
}

func TestTrainSkippedBelowMinimum(t *testing.T) {
	engine, store := newTestEngine(t)

	out := engine.Train(context.Background(), "tenant-a", resolvedBids("tenant-a", 2, 2))
	assert.Equal(t, StatusSkipped, out.Status)
	assert.Equal(t, ReasonInsufficientData, out.Reason)
	assert.False(t, store.Exists("tenant-a"))
}

func TestTrainIgnoresUnresolvedRecords(t *testing.T) {
	engine, store := newTestEngine(t)

	bids := resolvedBids("tenant-a", 2, 2)
	for i := 0; i < 10; i++ {
		bids = append(bids, model.Bid{
			TenantID:  "tenant-a",
			Industry:  "Energy",
			Status:    model.StatusPending,
			CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		})
	}

	out := engine.Train(context.Background(), "tenant-a", bids)
	assert.Equal(t, StatusSkipped, out.Status, "pending records must not count toward the minimum")
	assert.False(t, store.Exists("tenant-a"))
}

func TestSkippedTrainingLeavesExistingModelUntouched(t *testing.T) {
	engine, store := newTestEngine(t)

	out := engine.Train(context.Background(), "tenant-a", resolvedBids("tenant-a", 3, 3))
	require.Equal(t, StatusTrained, out.Status)
	before, err := store.Load("tenant-a")
	require.NoError(t, err)

	out = engine.Train(context.Background(), "tenant-a", resolvedBids("tenant-a", 1, 1))
	assert.Equal(t, StatusSkipped, out.Status)

	after, err := store.Load("tenant-a")
	require.NoError(t, err)
	assert.Equal(t, before.TrainedAt, after.TrainedAt)
	assert.Equal(t, before.Samples, after.Samples)
}

func TestTrainPersistFailureIsFailedOutcome(t *testing.T) {
	engine, _ := newTestEngine(t)

	// A tenant id that cannot form a file name makes the save fail.
	out := engine.Train(context.Background(), "bad/tenant", resolvedBids("bad/tenant", 3, 3))
	assert.Equal(t, StatusError, out.Status)
	assert.NotEmpty(t, out.Reason)
}

func TestTrainFromSource(t *testing.T) {
	engine, store := newTestEngine(t)
	engine.WithSource(&fakeSource{records: map[string][]model.Bid{
		"tenant-a": resolvedBids("tenant-a", 3, 3),
	}})

	out := engine.TrainFromSource(context.Background(), "tenant-a")
	assert.Equal(t, StatusTrained, out.Status)
	assert.Equal(t, 6, out.TotalSamples)
	assert.True(t, store.Exists("tenant-a"))

	out = engine.TrainFromSource(context.Background(), "tenant-b")
	assert.Equal(t, StatusSkipped, out.Status)
}

func TestTrainFromSourceErrors(t *testing.T) {
	engine, _ := newTestEngine(t)

	out := engine.TrainFromSource(context.Background(), "tenant-a")
	assert.Equal(t, StatusError, out.Status, "engine without a source cannot pull records")

	engine.WithSource(&fakeSource{err: fmt.Errorf("db unavailable")})
	out = engine.TrainFromSource(context.Background(), "tenant-a")
	assert.Equal(t, StatusError, out.Status)
	assert.Contains(t, out.Reason, "db unavailable")
}

func TestTrainRecordsAuditLog(t *testing.T) {
	engine, _ := newTestEngine(t)
	auditLog := &fakeTrainingLog{}
	engine.WithTrainingLog(auditLog)

	engine.Train(context.Background(), "tenant-a", resolvedBids("tenant-a", 3, 3))
	engine.Train(context.Background(), "tenant-a", resolvedBids("tenant-a", 1, 0))

	require.Len(t, auditLog.entries, 2)
	assert.Equal(t, "tenant-a/6/trained", auditLog.entries[0])
	assert.Equal(t, "tenant-a/1/skipped", auditLog.entries[1])
}
