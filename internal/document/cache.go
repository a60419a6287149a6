package document

import (
	"context"
	"database/sql"
	"fmt"

	"docchat/internal/db"
)

// Cache stores the last fetched document list per user for instant render
// at startup. It is never the source of truth: every successful refresh
// replaces it wholesale.
type Cache struct {
	db *db.DB
}

// NewCache creates a cache over the given database.
func NewCache(database *db.DB) *Cache {
	return &Cache{db: database}
}

// Load returns the cached list for a user in stored order.
func (c *Cache) Load(ctx context.Context, userID string) ([]*Document, error) {
	rows, err := c.db.Conn().QueryContext(ctx, `
		SELECT remote_key, name, size, size_readable, source_uri, last_modified
		FROM document_cache
		WHERE user_id = ?
		ORDER BY position`, userID)
	if err != nil {
		return nil, fmt.Errorf("loading document cache: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc := &Document{Status: StatusCompleted}
		if err := rows.Scan(&doc.RemoteKey, &doc.Name, &doc.Size, &doc.SizeReadable, &doc.SourceURI, &doc.LastModified); err != nil {
			return nil, fmt.Errorf("scanning cached document: %w", err)
		}
		doc.ID = doc.RemoteKey
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// Replace swaps the cached list for a user with the given documents.
// Entries without a remote key (in-flight placeholders) are skipped.
func (c *Cache) Replace(ctx context.Context, userID string, docs []*Document) error {
	return c.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM document_cache WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("clearing document cache: %w", err)
		}

		pos := 0
		for _, doc := range docs {
			if !doc.Remote() {
				continue
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO document_cache (user_id, remote_key, name, size, size_readable, source_uri, last_modified, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				userID, doc.RemoteKey, doc.Name, doc.Size, doc.SizeReadable, doc.SourceURI, doc.LastModified, pos)
			if err != nil {
				return fmt.Errorf("caching document: %w", err)
			}
			pos++
		}

		return nil
	})
}

// Clear drops the cached list for a user.
func (c *Cache) Clear(ctx context.Context, userID string) error {
	if _, err := c.db.Conn().ExecContext(ctx, `DELETE FROM document_cache WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clearing document cache: %w", err)
	}
	return nil
}
