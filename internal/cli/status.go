package cli

import (
	"context"
	"fmt"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/privychat/sharekit/internal/filex"
)

// List prints the chats in the local store and the embeds under each.
func (a *App) List(ctx context.Context) error {
	all, err := a.repos.Chats.List(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	if len(all) == 0 {
		printlnFn("Local store is empty. Run 'seed' to create demo data.")
		return nil
	}

	for _, c := range all {
		var marks string
		if c.Public {
			marks += " [public]"
		}
		if !c.Owned {
			marks += " [not owned]"
		}
		printlnFn(fmt.Sprintf("chat  %s  %q%s", c.ID, c.Title, marks))

		embs, err := a.repos.Embeds.ListByChat(ctx, c.ID)
		if err != nil {
			printlnFn("Error:", err.Error())
			return err
		}
		for _, e := range embs {
			printlnFn(fmt.Sprintf("  embed %s  %q (%s)", e.ID, e.Title, e.Kind))
		}
	}
	return nil
}

// Status prints the machine state, the session identity, and the pending
// metadata queue.
func (a *App) Status(ctx context.Context) error {
	printlnFn("State:", a.flow.State().String())
	if target := a.flow.Target(); !target.IsZero() {
		printlnFn("Target:", target.String())
	}
	if link := a.flow.Link(); link != "" {
		printlnFn("Link:", link)
	}

	if id, err := a.session.UserID(); err == nil {
		printlnFn("Signed in as:", id)
	} else {
		printlnFn("Signed in as: anonymous")
	}

	pending, err := a.queue.Pending(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	if len(pending) == 0 {
		printlnFn("Queue: empty")
		return nil
	}
	printlnFn(fmt.Sprintf("Queue: %d pending", len(pending)))
	for _, item := range pending {
		printlnFn(fmt.Sprintf("  %s attempts=%d next_retry_at=%d", item.ChatID, item.Attempts, item.NextRetryAt))
	}
	return nil
}

// QR writes the QR code for the current link into ./qr/<kind>-<id>.png.
// The encoded payload is exactly the link string.
func (a *App) QR(ctx context.Context) error {
	payload := a.flow.QRPayload()
	if payload == "" {
		printlnFn("No link to encode. Share something first.")
		return nil
	}

	dir, err := filex.EnsureSubDir("qr")
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	target := a.flow.Target()
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.png", target.Kind, target.ID))
	if err := qrcode.WriteFile(payload, qrcode.Medium, 256, path); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("QR code written to", path)
	return nil
}
