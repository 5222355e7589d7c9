// Package migration creates the content schema on an empty database.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_content_types",
		SQL: `CREATE TABLE IF NOT EXISTS content_types (
  id    BIGSERIAL PRIMARY KEY,
  alias TEXT      NOT NULL UNIQUE,
  name  TEXT      NOT NULL
);`,
	},
	{
		Name: "create_table_property_types",
		SQL: `CREATE TABLE IF NOT EXISTS property_types (
  id              BIGSERIAL PRIMARY KEY,
  content_type_id BIGINT    NOT NULL REFERENCES content_types (id) ON DELETE CASCADE,
  alias           TEXT      NOT NULL,
  name            TEXT      NOT NULL,
  editor_alias    TEXT      NOT NULL,
  sort_order      INT       NOT NULL DEFAULT 0,
  default_value   JSONB,
  UNIQUE (content_type_id, alias)
);`,
	},
	{
		Name: "create_table_contents",
		SQL: `CREATE TABLE IF NOT EXISTS contents (
  id              BIGSERIAL   PRIMARY KEY,
  name            TEXT        NOT NULL,
  parent_id       BIGINT      NOT NULL DEFAULT -1,
  content_type_id BIGINT      NOT NULL REFERENCES content_types (id),
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_property_values",
		SQL: `CREATE TABLE IF NOT EXISTS property_values (
  id               BIGSERIAL PRIMARY KEY,
  content_id       BIGINT    NOT NULL REFERENCES contents (id) ON DELETE CASCADE,
  property_type_id BIGINT    NOT NULL REFERENCES property_types (id) ON DELETE CASCADE,
  value            JSONB,
  UNIQUE (content_id, property_type_id)
);`,
	},
	{
		Name: "create_index_contents_parent_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_contents_parent_id ON contents (parent_id);`,
	},
	{
		Name: "create_index_property_types_content_type_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_property_types_content_type_id ON property_types (content_type_id, sort_order);`,
	},
}

// EnsureMigrated checks if the 'contents' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(slog.String("component", "database"), slog.String("db_host", dbHost))

	log.InfoContext(ctx, "db_migration_check", slog.String("status", "starting"))

	var exists bool
	query := "SELECT to_regclass('public.contents') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.ErrorContext(ctx, "db_migration_failed",
			slog.String("status", "error"),
			slog.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.InfoContext(ctx, "db_migration_skip",
			slog.String("status", "success"),
			slog.String("reason", "schema already exists"),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.InfoContext(ctx, "db_migration_start", slog.String("status", "in_progress"), slog.Int("steps", len(steps)))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.ErrorContext(ctx, "db_migration_failed",
				slog.String("status", "error"),
				slog.String("migration_step", step.Name),
				slog.String("error_message", err.Error()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.InfoContext(ctx, "db_migration_step",
			slog.String("status", "success"),
			slog.String("migration_step", step.Name),
			slog.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.InfoContext(ctx, "db_migration_success",
		slog.String("status", "success"),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
