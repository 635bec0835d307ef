package outbox

import (
	"context"

	"github.com/privychat/sharekit/internal/models"
)

// Repository is the durable store behind the metadata-sync queue.
//
// Contract:
//   - Upsert enqueues an item keyed by chat ID. A pending record for the
//     same chat is overwritten (payload replaced, attempts and retry state
//     reset); created_at of the original record is preserved so the item
//     keeps its place in line.
//   - NextReady returns the oldest item whose next_retry_at is due at now,
//     or common.ErrorNotFound when nothing is ready.
//   - Ack removes an item, but only if updatedAt still matches the stored
//     record. A mismatch means the item was re-enqueued mid-flight and
//     must survive for redelivery; Ack then does nothing.
//   - Fail records a failed delivery attempt and its retry time without
//     touching updated_at, so a late success for the same payload can
//     still clear the record.
//   - Pending lists all queued items oldest first.
//   - Remove deletes an item unconditionally.
type Repository interface {
	Upsert(ctx context.Context, item models.QueueItem) error
	NextReady(ctx context.Context, now int64) (*models.QueueItem, error)
	Ack(ctx context.Context, chatID string, updatedAt int64) error
	Fail(ctx context.Context, chatID string, attempts int, nextRetryAt int64) error
	Pending(ctx context.Context) ([]models.QueueItem, error)
	Remove(ctx context.Context, chatID string) error
}
