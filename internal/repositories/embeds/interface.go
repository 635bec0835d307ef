// Package embeds provides the local persistence layer for embed records.
// The share flow consults it to resolve embed references found in message
// content before any community publication is allowed.
package embeds

import (
	"context"

	"github.com/privychat/sharekit/internal/models"
)

// Repository defines storage operations for embeds.
//
// Contract:
//   - Save: whole-record upsert keyed by embed ID.
//   - GetByID: single embed; common.ErrorNotFound when absent.
//   - Exists: cheap presence check used by reference validation.
//   - ListByChat: all embeds of one chat, for display purposes.
//
// All methods must honor context cancellation/timeouts.
type Repository interface {
	Save(ctx context.Context, e *models.Embed) error
	GetByID(ctx context.Context, id string) (*models.Embed, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListByChat(ctx context.Context, chatID string) ([]models.Embed, error)
}
