// Package migrations applies the database schema as an ordered,
// forward-only ledger. Each step runs at most once per database;
// the applied set is tracked in the schema_migrations table.
package migrations

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
)

// Migration is a single forward schema step. Steps are identified by
// version and must never be edited once released; corrections are new
// steps appended to the ledger.
type Migration struct {
	Version string
	SQL     string
}

var (
	runOnce sync.Once
	runErr  error
)

// Run applies all pending migrations in order. It is safe to call from
// multiple startup paths; within a process only the first call does work.
func Run(ctx context.Context, db *gorm.DB) error {
	runOnce.Do(func() {
		runErr = apply(ctx, db, All())
	})
	return runErr
}

// Apply runs the given migrations without process-level memoization.
// Test databases are created per test and call this directly.
func Apply(ctx context.Context, db *gorm.DB) error {
	return apply(ctx, db, All())
}

func apply(ctx context.Context, db *gorm.DB, migrations []Migration) error {
	err := db.WithContext(ctx).Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(64) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`).Error
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		if err := applyOne(ctx, db, m); err != nil {
			return err
		}
	}

	return nil
}

func applyOne(ctx context.Context, db *gorm.DB, m Migration) error {
	var count int64
	err := db.WithContext(ctx).
		Table("schema_migrations").
		Where("version = ?", m.Version).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check migration %s: %w", m.Version, err)
	}
	if count > 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.SQL).Error; err != nil {
			return fmt.Errorf("migration %s failed: %w", m.Version, err)
		}

		err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version).Error
		if err != nil {
			// A concurrent process won the race to apply this step.
			if isUniqueViolation(err) {
				return nil
			}
			return fmt.Errorf("failed to record migration %s: %w", m.Version, err)
		}

		return nil
	})
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
