package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Share(ctx context.Context, kind, id string) error
	Community(ctx context.Context, chatID string) error
	Open(ctx context.Context, rawURL string) error
	Change(ctx context.Context) error
	Unshare(ctx context.Context) error
	QR(ctx context.Context) error
	List(ctx context.Context) error
	Status(ctx context.Context) error
	Seed(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the share CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//   - help                    — show available commands
//   - list | l                — chats and embeds in the local store
//   - share <chat|embed> <id> — activate a target and generate a link
//   - community <chat-id>     — share a chat including decrypted content
//   - open <url>              — parse and decode a produced share URL
//   - change                  — reopen settings for a generated link
//   - unshare                 — revoke the active chat share
//   - qr                      — write the link's QR code to a PNG file
//   - status                  — machine state, session, pending queue
//   - seed                    — create demo data
//   - exit | quit             — leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("share %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: list, share <chat|embed> <id>, community <chat-id>, open <url>, change, unshare, qr, status, seed, exit")

		case "share":
			if len(args) != 2 {
				printlnFn("Usage: share <chat|embed> <id>")
				continue
			}
			_ = a.Share(ctx, args[0], args[1])

		case "community":
			if len(args) != 1 {
				printlnFn("Usage: community <chat-id>")
				continue
			}
			_ = a.Community(ctx, args[0])

		case "open":
			if len(args) != 1 {
				printlnFn("Usage: open <url>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "change":
			_ = a.Change(ctx)

		case "unshare":
			_ = a.Unshare(ctx)

		case "qr":
			_ = a.QR(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "status":
			_ = a.Status(ctx)

		case "seed":
			_ = a.Seed(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
