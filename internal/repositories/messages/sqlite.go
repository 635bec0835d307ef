package messages

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

// Save upserts a message by id.
func (r *SQLiteRepository) Save(ctx context.Context, m *models.Message) error {
	query := `INSERT INTO messages (id, chat_id, role, seq, content)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET role = excluded.role,
				seq = excluded.seq,
				content = excluded.content
	`
	_, err := r.db.ExecContext(ctx, query, m.ID, m.ChatID, m.Role, m.Seq, m.Content)
	if err != nil {
		return fmt.Errorf("failed to upsert message: %w", err)
	}
	return nil
}

// ListByChat returns the messages of one chat ordered by sequence number.
func (r *SQLiteRepository) ListByChat(ctx context.Context, chatID string) ([]models.Message, error) {
	query := `SELECT id, chat_id, role, seq, content FROM messages WHERE chat_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	defer rows.Close()

	var result []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Role, &m.Seq, &m.Content); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
