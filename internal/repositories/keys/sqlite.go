package keys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/privychat/sharekit/internal/common"
	"github.com/privychat/sharekit/internal/dbx"
	"github.com/privychat/sharekit/internal/models"
)

// SQLiteRepository is a SQLite-backed content-key cache.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository creates a new SQLiteRepository instance.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetOrCreate inserts candidate for the target unless a key already exists,
// then reads back whichever key won. The insert ignores conflicts, so two
// racing callers converge on a single stored key.
func (r *SQLiteRepository) GetOrCreate(ctx context.Context, kind models.TargetKind, id string, candidate []byte) ([]byte, error) {
	query := `INSERT INTO content_keys (target_kind, target_id, key, created_at)
		VALUES (?, ?, ?, ?) ON CONFLICT (target_kind, target_id) DO NOTHING;`

	_, err := r.db.ExecContext(ctx, query, string(kind), id, candidate, time.Now().Unix())
	if err != nil {
		return nil, fmt.Errorf("error saving content key: %w", err)
	}

	return r.Get(ctx, kind, id)
}

// Get returns the stored content key for the target.
func (r *SQLiteRepository) Get(ctx context.Context, kind models.TargetKind, id string) ([]byte, error) {
	query := `SELECT key FROM content_keys WHERE target_kind = ? AND target_id = ?;`

	var key []byte
	err := r.db.QueryRowContext(ctx, query, string(kind), id).Scan(&key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error retrieving content key: %w", err)
	}

	return key, nil
}
