// Package outbox persists the metadata-sync queue.
//
// # Overview
//
// Shares work offline-first: the link and key material are produced locally
// and only the encrypted-at-rest metadata upsert travels to the server. That
// upsert is recorded here and delivered later by the drain loop, so a dead
// network never blocks link generation.
//
// The table is keyed by chat ID. Enqueueing again for a chat that already
// has a pending record overwrites the payload columns and rewinds the retry
// state; the queue therefore holds at most one record per chat and always
// the freshest metadata.
//
// Every write stamps updated_at with a nanosecond clock. Ack deletes only
// when that stamp still matches the value the caller claimed, so an upsert
// that lands while a delivery is in flight keeps the record alive for
// redelivery. Deliveries are at-least-once by construction.
//
// Key Types
//
//   - type Repository        — interface used by the drain loop and the CLI
//   - type SQLiteRepository  — SQLite implementation over dbx.DBTX
package outbox
