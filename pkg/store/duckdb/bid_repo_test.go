package duckdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobid-ai/winpredict/pkg/model"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, InitializeSchema(client))
	return client
}

func sampleBid(tenantID string, status model.BidStatus) *model.Bid {
	score := 80.0
	deadline := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	return &model.Bid{
		TenantID:       tenantID,
		ProjectName:    "CRM rollout",
		ClientName:     "Acme",
		Industry:       "Fintech",
		Budget:         75000,
		TechnicalScore: &score,
		Status:         status,
		Deadline:       &deadline,
	}
}

func TestInsertAndListByTenant(t *testing.T) {
	repo := NewBidRepo(newTestClient(t))
	ctx := context.Background()

	b := sampleBid("tenant-a", model.StatusPending)
	require.NoError(t, repo.Insert(ctx, b))
	assert.NotZero(t, b.ID)

	bids, err := repo.ListByTenant(ctx, "tenant-a")
	require.NoError(t, err)
	require.Len(t, bids, 1)
	got := bids[0]
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, "CRM rollout", got.ProjectName)
	assert.Equal(t, "Fintech", got.Industry)
	assert.Equal(t, model.StatusPending, got.Status)
	require.NotNil(t, got.TechnicalScore)
	assert.Equal(t, 80.0, *got.TechnicalScore)
	require.NotNil(t, got.Deadline)
	assert.True(t, got.Deadline.Equal(*b.Deadline))
}

func TestInsertNullableFields(t *testing.T) {
	repo := NewBidRepo(newTestClient(t))
	ctx := context.Background()

	b := &model.Bid{TenantID: "tenant-a", Status: model.StatusPending}
	require.NoError(t, repo.Insert(ctx, b))

	bids, err := repo.ListByTenant(ctx, "tenant-a")
	require.NoError(t, err)
	require.Len(t, bids, 1)
	assert.Empty(t, bids[0].Industry)
	assert.Nil(t, bids[0].TechnicalScore)
	assert.Nil(t, bids[0].Deadline)
}

func TestInsertBatch(t *testing.T) {
	repo := NewBidRepo(newTestClient(t))
	ctx := context.Background()

	batch := []*model.Bid{
		sampleBid("tenant-a", model.StatusWon),
		sampleBid("tenant-a", model.StatusLost),
		sampleBid("tenant-a", model.StatusPending),
	}
	require.NoError(t, repo.InsertBatch(ctx, batch))

	bids, err := repo.ListByTenant(ctx, "tenant-a")
	require.NoError(t, err)
	assert.Len(t, bids, 3)
}

func TestListResolvedByTenantFiltersPending(t *testing.T) {
	repo := NewBidRepo(newTestClient(t))
	ctx := context.Background()

	require.NoError(t, repo.InsertBatch(ctx, []*model.Bid{
		sampleBid("tenant-a", model.StatusWon),
		sampleBid("tenant-a", model.StatusLost),
		sampleBid("tenant-a", model.StatusPending),
		sampleBid("tenant-b", model.StatusWon),
	}))

	bids, err := repo.ListResolvedByTenant(ctx, "tenant-a")
	require.NoError(t, err)
	require.Len(t, bids, 2)
	for _, b := range bids {
		assert.True(t, b.Status.IsResolved())
		assert.Equal(t, "tenant-a", b.TenantID)
	}
}

func TestUpdateStatusScopedToTenant(t *testing.T) {
	repo := NewBidRepo(newTestClient(t))
	ctx := context.Background()

	mine := sampleBid("tenant-a", model.StatusPending)
	theirs := sampleBid("tenant-b", model.StatusPending)
	require.NoError(t, repo.Insert(ctx, mine))
	require.NoError(t, repo.Insert(ctx, theirs))

	n, err := repo.UpdateStatus(ctx, "tenant-a", []int64{mine.ID, theirs.ID}, model.StatusWon)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "another tenant's id must be skipped")

	other, err := repo.ListByTenant(ctx, "tenant-b")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, model.StatusPending, other[0].Status)
}

func TestDeleteByIDsScopedToTenant(t *testing.T) {
	repo := NewBidRepo(newTestClient(t))
	ctx := context.Background()

	mine := sampleBid("tenant-a", model.StatusWon)
	theirs := sampleBid("tenant-b", model.StatusWon)
	require.NoError(t, repo.Insert(ctx, mine))
	require.NoError(t, repo.Insert(ctx, theirs))

	n, err := repo.DeleteByIDs(ctx, "tenant-a", []int64{mine.ID, theirs.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	remaining, err := repo.ListByTenant(ctx, "tenant-a")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	other, err := repo.ListByTenant(ctx, "tenant-b")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestUpdateAndDeleteWithNoIDs(t *testing.T) {
	repo := NewBidRepo(newTestClient(t))
	ctx := context.Background()

	n, err := repo.UpdateStatus(ctx, "tenant-a", nil, model.StatusWon)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.DeleteByIDs(ctx, "tenant-a", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestModelLogRoundTrip(t *testing.T) {
	client := newTestClient(t)
	repo := NewModelLogRepo(client)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, "tenant-a", 12, "trained"))
	require.NoError(t, repo.Insert(ctx, "tenant-a", 3, "skipped"))
	require.NoError(t, repo.Insert(ctx, "tenant-b", 8, "trained"))

	logs, err := repo.ListByTenant(ctx, "tenant-a", 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "skipped", logs[0].Status, "newest first")
	assert.Equal(t, 3, logs[0].RowsUsed)
	assert.Equal(t, "trained", logs[1].Status)
	assert.Equal(t, 12, logs[1].RowsUsed)
}
