package db

import "context"

// PutRaw stores a document body verbatim, bypassing encoding
func (db *DB) PutRaw(ctx context.Context, collection, body string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO documents (collection, body) VALUES (?, ?)
		ON CONFLICT(collection) DO UPDATE SET body = excluded.body
	`, collection, body)
	return err
}
