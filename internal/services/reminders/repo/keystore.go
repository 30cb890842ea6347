package repo

import (
	"context"

	"remindme/internal/platform/store"
)

func (r *queries) GetKey(ctx context.Context, name string) (string, error) {
	return store.Scalar[string](ctx, r.q, `SELECT value FROM keystore WHERE name = $1`, name)
}

func (r *queries) PutKey(ctx context.Context, name, value string) error {
	const sql = `
		INSERT INTO keystore (name, value) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value
	`
	_, err := r.q.Exec(ctx, sql, name, value)
	return err
}
