// Package metasync delivers queued share metadata to the server.
// This file defines the queue service: enqueueing records from the share
// flow, the background drain loop, and the retry backoff schedule.
package metasync

import (
	"context"
	"errors"
	"time"

	"github.com/privychat/sharekit/internal/api"
	"github.com/privychat/sharekit/internal/common"
	"github.com/privychat/sharekit/internal/logging"
	"github.com/privychat/sharekit/internal/models"
	"github.com/privychat/sharekit/internal/repositories/outbox"
)

// Publisher is the server-facing half of the queue. *api.Client satisfies it.
type Publisher interface {
	UpsertShareMetadata(ctx context.Context, req api.ShareMetadataRequest) error
}

// Queue connects the durable outbox to the server. Enqueue only touches the
// local database, so link generation keeps working with the network down;
// the drain loop owns all remote calls and runs in exactly one goroutine.
//
// Contract:
//   - Enqueue: record (or overwrite) the pending upsert for a chat and nudge
//     the drain loop. Never blocks on the network.
//   - Run: drain ready items oldest first until ctx is canceled. Failures
//     back off exponentially; successes are acked at-least-once.
//   - Remove: drop the pending record for a chat, if any.
//   - Pending: snapshot of undelivered records for status display.
type Queue struct {
	repo     outbox.Repository
	pub      Publisher
	logger   logging.Logger
	interval time.Duration
	now      func() time.Time
	kick     chan struct{}
}

// NewQueue creates a new Queue instance. interval is the idle poll period of
// the drain loop; enqueues wake it early.
func NewQueue(repo outbox.Repository, pub Publisher, logger logging.Logger, interval time.Duration) *Queue {
	return &Queue{
		repo:     repo,
		pub:      pub,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		kick:     make(chan struct{}, 1),
	}
}

// Enqueue stores item durably and nudges the drain loop. An item already
// pending for the same chat is overwritten, so the queue holds at most one
// record per chat.
func (q *Queue) Enqueue(ctx context.Context, item models.QueueItem) error {
	if err := q.repo.Upsert(ctx, item); err != nil {
		return err
	}
	select {
	case q.kick <- struct{}{}:
	default:
	}
	return nil
}

// Remove drops the pending record for chatID. Used when a share is revoked
// before its metadata ever reached the server.
func (q *Queue) Remove(ctx context.Context, chatID string) error {
	return q.repo.Remove(ctx, chatID)
}

// Pending returns the undelivered records, oldest first.
func (q *Queue) Pending(ctx context.Context) ([]models.QueueItem, error) {
	return q.repo.Pending(ctx)
}

// Run drains the queue until ctx is canceled. It must be called from a
// single goroutine; the guarded ack makes redelivery harmless but there is
// no point in competing drains inside one process.
func (q *Queue) Run(ctx context.Context) {
	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()

	for {
		q.drain(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-q.kick:
		}
	}
}

// drain delivers every currently-ready item once. Items that fail get a
// retry time in the future and therefore drop out of this pass on their own.
func (q *Queue) drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		item, err := q.repo.NextReady(ctx, q.now().Unix())
		if err != nil {
			if !errors.Is(err, common.ErrorNotFound) {
				q.logger.Error(ctx, "reading sync queue", "error", err)
			}
			return
		}

		if err := q.pub.UpsertShareMetadata(ctx, requestFor(item)); err != nil {
			attempts := item.Attempts + 1
			retryAt := q.now().Add(Backoff(attempts)).Unix()
			q.logger.Warn(ctx, "metadata delivery failed",
				"chat_id", item.ChatID, "attempts", attempts, "error", err)
			if err := q.repo.Fail(ctx, item.ChatID, attempts, retryAt); err != nil {
				q.logger.Error(ctx, "recording delivery failure", "chat_id", item.ChatID, "error", err)
				return
			}
			continue
		}

		if err := q.repo.Ack(ctx, item.ChatID, item.UpdatedAt); err != nil {
			q.logger.Error(ctx, "acking delivered item", "chat_id", item.ChatID, "error", err)
			return
		}
		q.logger.Info(ctx, "share metadata delivered", "chat_id", item.ChatID)
	}
}

// requestFor maps a queue record onto the wire payload. Queued records are
// always active shares; revocation goes through Unshare, not the queue.
func requestFor(item *models.QueueItem) api.ShareMetadataRequest {
	req := api.ShareMetadataRequest{
		ChatID:              item.ChatID,
		Title:               item.Title,
		Summary:             item.Summary,
		Category:            item.Category,
		Icon:                item.Icon,
		FollowUpSuggestions: item.FollowUpSuggestions,
		IsShared:            true,
		ShareWithCommunity:  item.ShareWithCommunity,
	}
	if item.Community != nil {
		req.DecryptedMessages = item.Community.Messages
		req.DecryptedEmbeds = item.Community.Embeds
	}
	return req
}

// Backoff schedule: 5s doubling per failed attempt, capped at 5m.
const (
	backoffBase = 5 * time.Second
	backoffCap  = 5 * time.Minute
)

// Backoff returns the wait before the next delivery of an item that has
// failed attempts times.
func Backoff(attempts int) time.Duration {
	d := backoffBase
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= backoffCap {
			return backoffCap
		}
	}
	return d
}
