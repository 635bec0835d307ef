package models

// SharedMessage is a message as published in a community share: content with
// placeholders either kept or restored, never anything the sharer did not
// opt into.
type SharedMessage struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SharedEmbed is an embed as published in a community share.
type SharedEmbed struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// CommunityPayload carries the decrypted content attached to a queue item
// when the sharer opted into community sharing. Nil otherwise.
type CommunityPayload struct {
	Messages []SharedMessage `json:"messages"`
	Embeds   []SharedEmbed   `json:"embeds"`
}

// QueueItem is one durable metadata-publish record. Items are keyed by chat
// ID: enqueueing again for the same chat overwrites the pending fields
// instead of creating a second record. An item is removed only after the
// server acknowledges the upsert.
type QueueItem struct {
	ChatID              string
	Title               string
	Summary             string
	Category            string
	Icon                string
	FollowUpSuggestions []string

	// ShareWithCommunity marks the item as a community publication.
	// Community holds the decrypted content; nil for link-only shares.
	ShareWithCommunity bool
	Community          *CommunityPayload

	// Attempts counts failed deliveries so far.
	Attempts int
	// NextRetryAt is the unix timestamp (seconds) before which the drain
	// loop must not retry this item.
	NextRetryAt int64
	// CreatedAt orders items oldest-first, unix seconds.
	CreatedAt int64
	UpdatedAt int64
}
