// Package messages provides the local persistence layer for chat messages.
package messages

import (
	"context"

	"github.com/privychat/sharekit/internal/models"
)

// Repository defines storage operations for messages.
//
// Contract:
//   - Save: whole-record upsert keyed by message ID.
//   - ListByChat: all messages of one chat in sequence order.
//
// All methods must honor context cancellation/timeouts.
type Repository interface {
	Save(ctx context.Context, m *models.Message) error
	ListByChat(ctx context.Context, chatID string) ([]models.Message, error)
}
