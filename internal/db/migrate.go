package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS study_plans (
		id               TEXT PRIMARY KEY,
		user_goal        TEXT NOT NULL CHECK(length(trim(user_goal)) > 0),
		duration         INTEGER NOT NULL CHECK(duration > 0),
		generated_plan   TEXT NOT NULL DEFAULT '{}',
		content_calendar TEXT NOT NULL DEFAULT '[]',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_study_plans_created ON study_plans(created_at)`,

	`ALTER TABLE study_plans ADD COLUMN model_version TEXT NOT NULL DEFAULT ''`,
}
