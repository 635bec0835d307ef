// Package keys provides the content-key cache.
//
// # Overview
//
// Every chat and embed owns exactly one symmetric content key. Keys are
// created lazily on the first share attempt and persist for the life of the
// item. The cache is mutated only through whole-record operations: a key row
// is inserted complete or not at all, so a crash can never leave a
// half-derived key behind.
//
// GetOrCreate takes a caller-supplied candidate key. If a key already exists
// for the target the stored one wins and the candidate is discarded; this
// makes the operation idempotent without the repository knowing how keys are
// generated.
//
// Key Types
//
//   - type Repository        — interface used by the share flow
//   - type SQLiteRepository  — SQLite implementation over dbx.DBTX
package keys
