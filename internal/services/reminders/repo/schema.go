package repo

import (
	"context"
	"embed"
	"fmt"

	"remindme/internal/modkit/repokit"
	"remindme/internal/platform/store"
)

//go:embed schema/*.sql
var schemas embed.FS

// Schema returns the DDL for dialect
func Schema(d store.Dialect) (string, error) {
	var name string
	switch d {
	case store.DialectPostgres:
		name = "schema/postgres.sql"
	case store.DialectSQLite, "":
		name = "schema/sqlite.sql"
	default:
		return "", fmt.Errorf("no schema for dialect %q", d)
	}
	b, err := schemas.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Migrate creates the tables and indexes when missing. Safe to run on every start
func Migrate(ctx context.Context, db repokit.TxRunner, d store.Dialect) error {
	ddl, err := Schema(d)
	if err != nil {
		return err
	}
	return repokit.WithTx(ctx, db, func(q repokit.Queryer) error {
		if _, err := q.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("migrate %s: %w", d, err)
		}
		return nil
	})
}
