// Package cli provides the interactive sharekit command-line client.
//
// It wires configuration, the local SQLite store, the share state machine,
// and the metadata sync queue into a REPL that exercises the whole share
// flow: pick a target, configure expiry and password, generate a link, open
// it back, publish to the community, and revoke.
//
// Key commands:
//   - list      — chats and embeds in the local store
//   - share     — activate a target and generate a link
//   - community — share a chat including decrypted content
//   - open      — parse and decode a produced share URL
//   - change    — reopen settings for a generated link
//   - unshare   — revoke an owned chat share
//   - qr        — write the link's QR code to a PNG file
//   - status    — machine state, session, pending queue
//   - seed      — create demo data in the local store
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
