// Package migrations applies the scrape database schema.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed *.sql
var schemaFS embed.FS

// Lock key shared by every process allowed to migrate this database.
const migrateLockID int64 = 726150331

// Apply brings the schema up to date. Each *.sql file runs once, in
// filename order, inside its own transaction; a row in schema_migrations
// marks it done. Concurrent callers serialize on an advisory lock.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	names, err := fs.Glob(schemaFS, "*.sql")
	if err != nil {
		return fmt.Errorf("list migration files: %w", err)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("connect for migration: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, migrateLockID); err != nil {
		return fmt.Errorf("lock migrations: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, migrateLockID)
	}()

	if _, err := conn.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	name TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, name := range names {
		if err := applyOne(ctx, conn, name); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}
	return nil
}

// applyOne claims the migration's schema_migrations row and runs its SQL
// in the same transaction. A claim that inserts nothing means an earlier
// run already applied the file.
func applyOne(ctx context.Context, conn *pgxpool.Conn, name string) error {
	raw, err := schemaFS.ReadFile(name)
	if err != nil {
		return err
	}
	stmts := strings.TrimSpace(string(raw))
	if stmts == "" {
		return nil
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(context.Background()) //nolint:errcheck

	tag, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return nil
	}
	if _, err := tx.Exec(ctx, stmts); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
