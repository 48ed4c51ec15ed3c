package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	// TargetSchemaVersion is the highest schema version this build knows how to create.
	TargetSchemaVersion int64 = 1
	// MoodlogDBComponent names the main database component in moodlog_versions.
	MoodlogDBComponent = "moodlogdb"
)

const upsertVersionStatement = `
INSERT INTO moodlog_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`

// GetComponentSchemaVersion returns the recorded schema version for a component.
// A missing row or a missing moodlog_versions table both report version 0.
func GetComponentSchemaVersion(ctx context.Context, db *sql.DB, componentName string) (int64, error) {
	var version int64
	err := db.QueryRowContext(ctx, `SELECT version FROM moodlog_versions WHERE component = ?;`, componentName).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// InitializeSchema creates every table and records schemaVersionToSet for
// the moodlogdb component.
func InitializeSchema(ctx context.Context, db *sql.DB, schemaVersionToSet int64) error {
	if _, err := db.ExecContext(ctx, SchemaV1); err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}

	if _, err := db.ExecContext(ctx, upsertVersionStatement, MoodlogDBComponent, schemaVersionToSet); err != nil {
		return fmt.Errorf("failed to record version %d for component %s: %w", schemaVersionToSet, MoodlogDBComponent, err)
	}
	return nil
}

// UpgradeDB brings the moodlogdb component to target, applying each
// registered migration in its own transaction.
func UpgradeDB(ctx context.Context, db *sql.DB, target int64, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	current, err := GetComponentSchemaVersion(ctx, db, MoodlogDBComponent)
	if err != nil {
		return err
	}

	switch {
	case current == target:
		log.Debug("schema already up to date", zap.String("component", MoodlogDBComponent), zap.Int64("version", current))
		return nil
	case current > target:
		return fmt.Errorf("component %s has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", MoodlogDBComponent, current, target)
	}

	for v := current + 1; v <= target; v++ {
		stmt, ok := migrations[v]
		if !ok {
			return fmt.Errorf("component %s has schema version %d, but no migration is registered for schema version %d", MoodlogDBComponent, current, v)
		}
		if err := applyMigration(ctx, db, v, stmt); err != nil {
			return err
		}
		log.Info("applied schema migration", zap.String("component", MoodlogDBComponent), zap.Int64("version", v))
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, version int64, stmt string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration to version %d: %w", version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to apply migration to version %d: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx, upsertVersionStatement, MoodlogDBComponent, version); err != nil {
		return fmt.Errorf("failed to record version %d: %w", version, err)
	}
	return tx.Commit()
}
