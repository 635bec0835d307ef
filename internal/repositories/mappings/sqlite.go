package mappings

import (
	"context"
	"fmt"

	"github.com/privychat/sharekit/internal/dbx"
	"github.com/privychat/sharekit/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save upserts a mapping by (chat_id, placeholder).
func (r *SQLiteRepository) Save(ctx context.Context, chatID string, m models.PIIMapping) error {
	query := `INSERT INTO pii_mappings (chat_id, placeholder, original, category)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(chat_id, placeholder) DO UPDATE SET original = excluded.original,
				category = excluded.category
	`
	_, err := r.db.ExecContext(ctx, query, chatID, m.Placeholder, m.Original, m.Category)
	if err != nil {
		return fmt.Errorf("failed to upsert mapping: %w", err)
	}
	return nil
}

// ListByChat returns every mapping recorded for one chat.
func (r *SQLiteRepository) ListByChat(ctx context.Context, chatID string) ([]models.PIIMapping, error) {
	query := `SELECT placeholder, original, category FROM pii_mappings WHERE chat_id = ? ORDER BY placeholder`
	rows, err := r.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to select mappings: %w", err)
	}
	defer rows.Close()

	var result []models.PIIMapping
	for rows.Next() {
		var m models.PIIMapping
		if err := rows.Scan(&m.Placeholder, &m.Original, &m.Category); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// HasAny reports whether the chat has at least one mapping.
func (r *SQLiteRepository) HasAny(ctx context.Context, chatID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM pii_mappings WHERE chat_id = ?)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, chatID).Scan(&exists); err != nil {
		return false, fmt.Errorf("query mapping existence: %w", err)
	}
	return exists, nil
}
