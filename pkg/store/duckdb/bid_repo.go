package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/autobid-ai/winpredict/pkg/model"
)

// BidRepo handles historical bid persistence. Every query is scoped by
// tenant_id so one tenant can never read or mutate another tenant's rows.
type BidRepo struct {
	client *Client
}

// NewBidRepo creates a new bid repository
func NewBidRepo(client *Client) *BidRepo {
	return &BidRepo{client: client}
}

const bidColumns = `id, tenant_id, project_name, client_name, industry,
	budget, technical_score, status, deadline, created_at, updated_at`

// Insert stores one bid and fills in its assigned id
func (r *BidRepo) Insert(ctx context.Context, b *model.Bid) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}
	query := `
		INSERT INTO bids (
			tenant_id, project_name, client_name, industry, budget,
			technical_score, status, deadline, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	row := r.client.QueryRow(query,
		b.TenantID, nullString(b.ProjectName), nullString(b.ClientName),
		nullString(b.Industry), b.Budget, nullFloat(b.TechnicalScore),
		string(b.Status), nullTime(b.Deadline), b.CreatedAt, b.UpdatedAt,
	)
	if err := row.Scan(&b.ID); err != nil {
		return fmt.Errorf("failed to insert bid: %w", err)
	}
	return nil
}

// InsertBatch stores multiple bids in a transaction
func (r *BidRepo) InsertBatch(ctx context.Context, bids []*model.Bid) error {
	tx, err := r.client.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO bids (
			tenant_id, project_name, client_name, industry, budget,
			technical_score, status, deadline, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, b := range bids {
		createdAt := b.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		updatedAt := b.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = createdAt
		}
		_, err := stmt.Exec(
			b.TenantID, nullString(b.ProjectName), nullString(b.ClientName),
			nullString(b.Industry), b.Budget, nullFloat(b.TechnicalScore),
			string(b.Status), nullTime(b.Deadline), createdAt, updatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bid: %w", err)
		}
	}
	return tx.Commit()
}

// ListByTenant returns all of a tenant's bids, newest first
func (r *BidRepo) ListByTenant(ctx context.Context, tenantID string) ([]model.Bid, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bids
		WHERE tenant_id = ?
		ORDER BY id DESC
	`, bidColumns)
	return r.queryBids(query, tenantID)
}

// ListResolvedByTenant returns the tenant's bids with a known WON/LOST
// outcome. This is the supply used to build training sets.
func (r *BidRepo) ListResolvedByTenant(ctx context.Context, tenantID string) ([]model.Bid, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bids
		WHERE tenant_id = ? AND status IN ('WON', 'LOST')
		ORDER BY id
	`, bidColumns)
	return r.queryBids(query, tenantID)
}

// UpdateStatus sets the status of the given bids, skipping ids that do not
// belong to the tenant. Returns the number of rows updated.
func (r *BidRepo) UpdateStatus(ctx context.Context, tenantID string, ids []int64, status model.BidStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := fmt.Sprintf(`
		UPDATE bids SET status = ?, updated_at = ?
		WHERE tenant_id = ? AND id IN (%s)
	`, placeholders(len(ids)))

	args := []interface{}{string(status), time.Now().UTC(), tenantID}
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := r.client.DB().Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update bid status: %w", err)
	}
	return res.RowsAffected()
}

// DeleteByIDs removes the given bids, skipping ids that do not belong to
// the tenant. Returns the number of rows deleted.
func (r *BidRepo) DeleteByIDs(ctx context.Context, tenantID string, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := fmt.Sprintf(`
		DELETE FROM bids
		WHERE tenant_id = ? AND id IN (%s)
	`, placeholders(len(ids)))

	args := []interface{}{tenantID}
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := r.client.DB().Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete bids: %w", err)
	}
	return res.RowsAffected()
}

func (r *BidRepo) queryBids(query string, args ...interface{}) ([]model.Bid, error) {
	rows, err := r.client.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bids: %w", err)
	}
	defer rows.Close()

	var bids []model.Bid
	for rows.Next() {
		var (
			b              model.Bid
			project        sql.NullString
			client         sql.NullString
			industry       sql.NullString
			technicalScore sql.NullFloat64
			deadline       sql.NullTime
			status         string
		)
		err := rows.Scan(
			&b.ID, &b.TenantID, &project, &client, &industry,
			&b.Budget, &technicalScore, &status, &deadline,
			&b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		b.ProjectName = project.String
		b.ClientName = client.String
		b.Industry = industry.String
		b.Status = model.BidStatus(status)
		if technicalScore.Valid {
			v := technicalScore.Float64
			b.TechnicalScore = &v
		}
		if deadline.Valid {
			t := deadline.Time
			b.Deadline = &t
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
