// Package chats provides the local persistence layer for chat records and
// their share-preview metadata.
package chats

import (
	"context"

	"github.com/privychat/sharekit/internal/models"
)

// Repository defines storage operations for chats.
//
// Contract:
//   - Save: whole-record upsert keyed by chat ID.
//   - GetByID: single chat; common.ErrorNotFound when absent.
//   - List: all chats, newest first, for display purposes.
//
// All methods must honor context cancellation/timeouts.
type Repository interface {
	Save(ctx context.Context, c *models.Chat) error
	GetByID(ctx context.Context, id string) (*models.Chat, error)
	List(ctx context.Context) ([]models.Chat, error)
}
