package duckdb

import "fmt"

// Schema contains table creation statements for all required tables.
// All rows are partitioned by tenant_id; there is no cross-tenant state.

// CreateBidsTable creates the historical bids fact table
const CreateBidsTable = `
CREATE SEQUENCE IF NOT EXISTS bids_id_seq;

CREATE TABLE IF NOT EXISTS bids (
    id BIGINT PRIMARY KEY DEFAULT nextval('bids_id_seq'),
    tenant_id VARCHAR NOT NULL,
    project_name VARCHAR,
    client_name VARCHAR,
    industry VARCHAR,
    budget DOUBLE DEFAULT 0,
    technical_score DOUBLE,
    status VARCHAR NOT NULL DEFAULT 'PENDING',
    deadline TIMESTAMP,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bids_tenant ON bids(tenant_id);
CREATE INDEX IF NOT EXISTS idx_bids_tenant_status ON bids(tenant_id, status);
`

// CreateModelLogsTable creates the training-run audit table
const CreateModelLogsTable = `
CREATE SEQUENCE IF NOT EXISTS ml_model_logs_id_seq;

CREATE TABLE IF NOT EXISTS ml_model_logs (
    id BIGINT PRIMARY KEY DEFAULT nextval('ml_model_logs_id_seq'),
    tenant_id VARCHAR NOT NULL,
    trained_at TIMESTAMP NOT NULL,
    rows_used INTEGER,
    status VARCHAR
);

CREATE INDEX IF NOT EXISTS idx_ml_model_logs_tenant ON ml_model_logs(tenant_id);
`

// InitializeSchema creates all required tables
func InitializeSchema(c *Client) error {
	schemas := []string{
		CreateBidsTable,
		CreateModelLogsTable,
	}
	for _, schema := range schemas {
		if err := c.Exec(schema); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// DropAllTables drops all tables (use with caution)
func DropAllTables(c *Client) error {
	tables := []string{"ml_model_logs", "bids"}
	for _, table := range tables {
		if err := c.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
