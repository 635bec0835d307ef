package embeds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/privychat/sharekit/internal/common"
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

// Save upserts an embed by id.
func (r *SQLiteRepository) Save(ctx context.Context, e *models.Embed) error {
	query := `INSERT INTO embeds (id, chat_id, title, kind, content)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET chat_id = excluded.chat_id,
				title = excluded.title,
				kind = excluded.kind,
				content = excluded.content
	`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.ChatID, e.Title, e.Kind, e.Content)
	if err != nil {
		return fmt.Errorf("failed to upsert embed: %w", err)
	}
	return nil
}

// GetByID returns a single embed or common.ErrorNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Embed, error) {
	query := `SELECT id, chat_id, title, kind, content FROM embeds WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var e models.Embed
	if err := row.Scan(&e.ID, &e.ChatID, &e.Title, &e.Kind, &e.Content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query embed: %w", err)
	}
	return &e, nil
}

// Exists reports whether an embed with the given id is present.
func (r *SQLiteRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM embeds WHERE id = ?)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("query embed existence: %w", err)
	}
	return exists, nil
}

// ListByChat returns the embeds belonging to one chat, ordered by id.
func (r *SQLiteRepository) ListByChat(ctx context.Context, chatID string) ([]models.Embed, error) {
	query := `SELECT id, chat_id, title, kind, content FROM embeds WHERE chat_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("query embeds: %w", err)
	}
	defer rows.Close()

	var result []models.Embed
	for rows.Next() {
		var e models.Embed
		if err := rows.Scan(&e.ID, &e.ChatID, &e.Title, &e.Kind, &e.Content); err != nil {
			return nil, fmt.Errorf("scan embed: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate embeds: %w", err)
	}
	return result, nil
}
