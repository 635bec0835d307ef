// Package shareflow drives the share screen's state machine.
//
// # Overview
//
// A Flow walks one target at a time through three states:
//
//	NoTarget       --Activate-->       Configuring
//	Configuring    --Generate-->       LinkGenerated
//	LinkGenerated  --ChangeSettings--> Configuring
//
// Activate short-circuits straight to LinkGenerated when there is nothing to
// configure: public content shares by plain URL, and content the user does
// not own (or shares while signed out) gets a link with default settings,
// meaning no password and no expiry.
//
// Generate is the only operation that touches key material. It runs the slow
// work (store reads, key derivation, blob encoding) outside the state lock
// and re-checks, immediately before committing, that the target it computed
// for is still the active one. A result that lost that race is discarded,
// never shown. Generation failures leave the machine in Configuring.
//
// Metadata publication rides behind link generation: for owned non-public
// chats the freshly generated share also enqueues a durable metadata upsert.
// The link is valid the moment it is committed; queue trouble is logged and
// retried in the background, never surfaced as a share failure.
package shareflow
