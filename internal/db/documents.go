package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Collection names, one document each
const (
	CollectionProjects     = "projects"
	CollectionTasks        = "tasks"
	CollectionStakeholders = "stakeholders"
	CollectionSettings     = "settings"
)

// loadDocument decodes a collection into dst. It reports false when the collection
// has never been saved or its body cannot be decoded; dst must then be discarded and
// the caller falls back to defaults. Only database failures are returned as errors.
func (db *DB) loadDocument(ctx context.Context, collection string, dst any) (bool, error) {
	var body string
	err := db.QueryRowContext(ctx, "SELECT body FROM documents WHERE collection = ?", collection).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug().Str("collection", collection).Msg("no saved document, using defaults")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error loading %s: %w", collection, err)
	}

	if err := json.Unmarshal([]byte(body), dst); err != nil {
		log.Warn().Err(err).Str("collection", collection).Msg("saved document is unreadable, using defaults")
		return false, nil
	}
	return true, nil
}

// saveDocument replaces a collection's document
func (db *DB) saveDocument(ctx context.Context, collection string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", collection, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO documents (collection, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(collection) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP
	`, collection, string(body))
	if err != nil {
		return fmt.Errorf("error saving %s: %w", collection, err)
	}
	return nil
}
