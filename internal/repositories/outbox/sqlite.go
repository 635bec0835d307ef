package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

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

// Upsert enqueues item, replacing any pending record for the same chat.
// Retry state is rewound so fresh payloads are delivered without waiting out
// an earlier backoff. Timestamps on item are ignored; the repository stamps
// its own.
func (r *SQLiteRepository) Upsert(ctx context.Context, item models.QueueItem) error {
	followUps := item.FollowUpSuggestions
	if followUps == nil {
		followUps = []string{}
	}
	fu, err := json.Marshal(followUps)
	if err != nil {
		return fmt.Errorf("marshal follow-ups: %w", err)
	}

	var community any
	if item.Community != nil {
		b, err := json.Marshal(item.Community)
		if err != nil {
			return fmt.Errorf("marshal community payload: %w", err)
		}
		community = string(b)
	}

	now := time.Now()
	query := `INSERT INTO outbox (chat_id, title, summary, category, icon, follow_ups,
				share_with_community, community, attempts, next_retry_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)
			ON CONFLICT(chat_id) DO UPDATE SET title = excluded.title,
				summary = excluded.summary,
				category = excluded.category,
				icon = excluded.icon,
				follow_ups = excluded.follow_ups,
				share_with_community = excluded.share_with_community,
				community = excluded.community,
				attempts = 0,
				next_retry_at = 0,
				updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		item.ChatID, item.Title, item.Summary, item.Category, item.Icon, string(fu),
		item.ShareWithCommunity, community, now.Unix(), now.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to upsert outbox item: %w", err)
	}
	return nil
}

// NextReady returns the oldest due item or common.ErrorNotFound.
func (r *SQLiteRepository) NextReady(ctx context.Context, now int64) (*models.QueueItem, error) {
	query := selectColumns + ` FROM outbox WHERE next_retry_at <= ? ORDER BY created_at, chat_id LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, now)

	item, err := scanItem(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query outbox item: %w", err)
	}
	return item, nil
}

// Ack deletes the item if its updated_at stamp is unchanged since the caller
// claimed it. A record re-enqueued mid-flight keeps living.
func (r *SQLiteRepository) Ack(ctx context.Context, chatID string, updatedAt int64) error {
	query := `DELETE FROM outbox WHERE chat_id = ? AND updated_at = ?`
	_, err := r.db.ExecContext(ctx, query, chatID, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to ack outbox item: %w", err)
	}
	return nil
}

// Fail stores the bumped attempt counter and the next retry time.
func (r *SQLiteRepository) Fail(ctx context.Context, chatID string, attempts int, nextRetryAt int64) error {
	query := `UPDATE outbox SET attempts = ?, next_retry_at = ? WHERE chat_id = ?`
	_, err := r.db.ExecContext(ctx, query, attempts, nextRetryAt, chatID)
	if err != nil {
		return fmt.Errorf("failed to record outbox failure: %w", err)
	}
	return nil
}

// Pending returns every queued item, oldest first.
func (r *SQLiteRepository) Pending(ctx context.Context) ([]models.QueueItem, error) {
	query := selectColumns + ` FROM outbox ORDER BY created_at, chat_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select outbox items: %w", err)
	}
	defer rows.Close()

	var result []models.QueueItem
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Remove deletes the item for chatID regardless of its delivery state.
func (r *SQLiteRepository) Remove(ctx context.Context, chatID string) error {
	query := `DELETE FROM outbox WHERE chat_id = ?`
	_, err := r.db.ExecContext(ctx, query, chatID)
	if err != nil {
		return fmt.Errorf("failed to remove outbox item: %w", err)
	}
	return nil
}

const selectColumns = `SELECT chat_id, title, summary, category, icon, follow_ups,
	share_with_community, community, attempts, next_retry_at, created_at, updated_at`

func scanItem(scan func(dest ...any) error) (*models.QueueItem, error) {
	var item models.QueueItem
	var followUps string
	var community sql.NullString
	err := scan(&item.ChatID, &item.Title, &item.Summary, &item.Category, &item.Icon, &followUps,
		&item.ShareWithCommunity, &community, &item.Attempts, &item.NextRetryAt, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(followUps), &item.FollowUpSuggestions); err != nil {
		return nil, fmt.Errorf("unmarshal follow-ups: %w", err)
	}
	if community.Valid {
		var payload models.CommunityPayload
		if err := json.Unmarshal([]byte(community.String), &payload); err != nil {
			return nil, fmt.Errorf("unmarshal community payload: %w", err)
		}
		item.Community = &payload
	}
	return &item, nil
}
