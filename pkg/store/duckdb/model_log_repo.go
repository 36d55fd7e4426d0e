package duckdb

import (
	"context"
	"fmt"
	"time"
)

// ModelLogRepo records one audit row per training attempt, so operators
// can see when each tenant's model was last refit and on how many rows
type ModelLogRepo struct {
	client *Client
}

// NewModelLogRepo creates a new training-log repository
func NewModelLogRepo(client *Client) *ModelLogRepo {
	return &ModelLogRepo{client: client}
}

// ModelLog is one training-run audit row
type ModelLog struct {
	ID        int64     `json:"id"`
	TenantID  string    `json:"tenant_id"`
	TrainedAt time.Time `json:"trained_at"`
	RowsUsed  int       `json:"rows_used"`
	Status    string    `json:"status"`
}

// Insert records a training attempt
func (r *ModelLogRepo) Insert(ctx context.Context, tenantID string, rowsUsed int, status string) error {
	query := `
		INSERT INTO ml_model_logs (tenant_id, trained_at, rows_used, status)
		VALUES (?, ?, ?, ?)
	`
	if err := r.client.Exec(query, tenantID, time.Now().UTC(), rowsUsed, status); err != nil {
		return fmt.Errorf("failed to insert model log: %w", err)
	}
	return nil
}

// ListByTenant returns the tenant's training history, newest first
func (r *ModelLogRepo) ListByTenant(ctx context.Context, tenantID string, limit int) ([]ModelLog, error) {
	query := `
		SELECT id, tenant_id, trained_at, rows_used, status
		FROM ml_model_logs
		WHERE tenant_id = ?
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := r.client.Query(query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query model logs: %w", err)
	}
	defer rows.Close()

	var logs []ModelLog
	for rows.Next() {
		var l ModelLog
		if err := rows.Scan(&l.ID, &l.TenantID, &l.TrainedAt, &l.RowsUsed, &l.Status); err != nil {
			return nil, fmt.Errorf("failed to scan model log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
