// Package mappings provides the read-side persistence layer for PII
// placeholder mappings. Mappings are written during message authoring
// (outside this core) and consumed here when restoring content for an
// explicit community share.
package mappings

import (
	"context"

	"github.com/privychat/sharekit/internal/models"
)

// Repository defines storage operations for PII mappings.
//
// Contract:
//   - Save: whole-record upsert keyed by (chat ID, placeholder).
//   - ListByChat: every mapping recorded for one chat.
//   - HasAny: cheap presence check that drives the
//     "include sensitive data" control visibility.
//
// All methods must honor context cancellation/timeouts.
type Repository interface {
	Save(ctx context.Context, chatID string, m models.PIIMapping) error
	ListByChat(ctx context.Context, chatID string) ([]models.PIIMapping, error)
	HasAny(ctx context.Context, chatID string) (bool, error)
}
