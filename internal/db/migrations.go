package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS monitor_loads (
		id UUID PRIMARY KEY,
		request_id VARCHAR(36) NOT NULL DEFAULT '',
		started_at TIMESTAMPTZ NOT NULL,
		duration_ms BIGINT NOT NULL,
		outcome VARCHAR(16) NOT NULL,
		http_status INTEGER NOT NULL DEFAULT 0,
		event_count INTEGER NOT NULL DEFAULT 0,
		service_count INTEGER NOT NULL DEFAULT 0,
		dropped_events INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT ''
	);`,
	`ALTER TABLE monitor_loads ADD COLUMN IF NOT EXISTS request_id VARCHAR(36) NOT NULL DEFAULT '';`,
	`CREATE INDEX IF NOT EXISTS idx_monitor_loads_request_id ON monitor_loads (request_id);`,
	`CREATE INDEX IF NOT EXISTS idx_monitor_loads_started_at ON monitor_loads (started_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_monitor_loads_outcome ON monitor_loads (outcome, started_at DESC);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
