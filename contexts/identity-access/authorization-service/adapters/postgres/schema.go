package postgresadapter

import (
	"context"

	"gorm.io/gorm"
)

const constraintActiveAssignment = "role_assignments_active_key"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS role_assignments (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		role_id     TEXT NOT NULL,
		role_name   TEXT NOT NULL,
		assigned_by TEXT NOT NULL,
		reason      TEXT NOT NULL DEFAULT '',
		assigned_at TIMESTAMPTZ NOT NULL,
		expires_at  TIMESTAMPTZ,
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		revoked_at  TIMESTAMPTZ
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS role_assignments_active_key
		ON role_assignments (user_id, role_id) WHERE is_active`,
	`CREATE INDEX IF NOT EXISTS role_assignments_user_idx
		ON role_assignments (user_id, assigned_at DESC)`,
}

// Migrate creates the role assignment table and its indexes.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, statement := range schemaStatements {
			if err := tx.Exec(statement).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
