// Package redact restores PII placeholders and polices embed references.
//
// # Overview
//
// Message content is stored with PII already replaced by placeholder tokens
// like [EMAIL_1]; the real values live only in the per-chat mapping table.
// Shared content keeps the placeholders. Restoring the originals happens
// exclusively on an explicit community opt-in, never as a side effect.
//
// Restore and Redact are pure text transforms over a mapping set. Both
// tolerate tokens they do not know: an unknown placeholder passes through
// verbatim, and an empty mapping set makes Restore the identity function.
//
// The package also owns the embed-reference gate. Message text may point at
// embeds via embed://<id> references; a community share must bundle every
// referenced embed, so ResolveEmbedRefs refuses with ErrOrphanEmbedRef when
// any reference does not resolve in the local store.
package redact
