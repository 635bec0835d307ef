package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/privychat/sharekit/internal/common"
	"github.com/privychat/sharekit/internal/links"
	"github.com/privychat/sharekit/internal/models"
	"github.com/privychat/sharekit/internal/shareblob"
)

// Open parses a share URL and decodes its key blob, prompting for the link
// password when the blob turns out to be protected. The recovered content key
// is checked against the local store when this device generated the link.
func (a *App) Open(ctx context.Context, rawURL string) error {
	ref, err := links.ExtractShareRef(rawURL)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	if ref.Public {
		printlnFn("Public chat:", ref.Target.ID)
		return a.printChat(ctx, ref.Target.ID)
	}

	key, expiresAt, err := a.decodeBlob(ref)
	if err != nil {
		switch {
		case errors.Is(err, shareblob.ErrExpired):
			printlnFn("This link has expired.")
		case errors.Is(err, shareblob.ErrWrongPassword):
			printlnFn("Wrong password.")
		case errors.Is(err, shareblob.ErrInvalidFormat):
			printlnFn("Not a valid share link.")
		default:
			printlnFn("Error:", err.Error())
		}
		return err
	}

	printlnFn(fmt.Sprintf("Recovered %d-byte content key for %s.", len(key), ref.Target))
	if expiresAt == 0 {
		printlnFn("Expires: never")
	} else {
		printlnFn("Expires:", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
	}

	stored, err := a.repos.Keys.Get(ctx, ref.Target.Kind, ref.Target.ID)
	switch {
	case err == nil && bytes.Equal(stored, key):
		printlnFn("Content key matches the local store.")
	case err == nil:
		printlnFn("Warning: content key differs from the local store.")
	case errors.Is(err, common.ErrorNotFound):
		// link was produced elsewhere, nothing to check against
	default:
		printlnFn("Error:", err.Error())
		return err
	}
	return nil
}

// decodeBlob tries the passwordless decode first and falls back to prompting
// when the blob requires a password.
func (a *App) decodeBlob(ref *links.Ref) ([]byte, int64, error) {
	key, expiresAt, err := decodeFor(ref, "")
	if !errors.Is(err, shareblob.ErrWrongPassword) {
		return key, expiresAt, err
	}

	printlnFn("This link is password-protected.")
	pw, perr := getPassword(a.out)
	if perr != nil {
		return nil, 0, perr
	}
	defer common.WipeByteArray(pw)
	return decodeFor(ref, string(pw))
}

func decodeFor(ref *links.Ref, password string) ([]byte, int64, error) {
	switch ref.Target.Kind {
	case models.TargetChat:
		return shareblob.NewChatCodec().Decode(ref.Blob, password)
	case models.TargetEmbed:
		return shareblob.NewEmbedCodec().Decode(ref.Blob, password)
	default:
		return nil, 0, shareblob.ErrInvalidFormat
	}
}

// printChat dumps a chat's messages when the local store has them.
func (a *App) printChat(ctx context.Context, chatID string) error {
	msgs, err := a.repos.Messages.ListByChat(ctx, chatID)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	if len(msgs) == 0 {
		printlnFn("(chat not in the local store)")
		return nil
	}
	for _, m := range msgs {
		printlnFn(fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return nil
}
