package chats

import (
	"context"
	"database/sql"
	"encoding/json"
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

// Save upserts a chat by id. On conflict every metadata column is replaced.
func (r *SQLiteRepository) Save(ctx context.Context, c *models.Chat) error {
	followUps, err := json.Marshal(c.FollowUpSuggestions)
	if err != nil {
		return fmt.Errorf("marshal follow-ups: %w", err)
	}

	query := `INSERT INTO chats (id, title, summary, category, icon, follow_ups, owned, public, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET title = excluded.title,
				summary = excluded.summary,
				category = excluded.category,
				icon = excluded.icon,
				follow_ups = excluded.follow_ups,
				owned = excluded.owned,
				public = excluded.public
	`
	_, err = r.db.ExecContext(ctx, query,
		c.ID, c.Title, c.Summary, c.Category, c.Icon, string(followUps), c.Owned, c.Public, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert chat: %w", err)
	}
	return nil
}

// GetByID returns a single chat or common.ErrorNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	query := `SELECT id, title, summary, category, icon, follow_ups, owned, public, created_at
			FROM chats WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	c, err := scanChat(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query chat: %w", err)
	}
	return c, nil
}

// List returns all chats, newest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.Chat, error) {
	query := `SELECT id, title, summary, category, icon, follow_ups, owned, public, created_at
			FROM chats ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select chats: %w", err)
	}
	defer rows.Close()

	var result []models.Chat
	for rows.Next() {
		c, err := scanChat(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanChat(scan func(dest ...any) error) (*models.Chat, error) {
	var c models.Chat
	var followUps string
	if err := scan(&c.ID, &c.Title, &c.Summary, &c.Category, &c.Icon, &followUps, &c.Owned, &c.Public, &c.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(followUps), &c.FollowUpSuggestions); err != nil {
		return nil, fmt.Errorf("unmarshal follow-ups: %w", err)
	}
	return &c, nil
}
