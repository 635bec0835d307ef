package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/privychat/sharekit/internal/common"
	"github.com/privychat/sharekit/internal/models"
	"github.com/privychat/sharekit/internal/redact"
	"github.com/privychat/sharekit/internal/shareflow"
)

// getPassword is an indirection used to facilitate testing. It points to the
// interactive password helper and can be swapped in tests.
var getPassword = GetPassword

// Share activates a target and generates a link for it. Public chats and
// content the user cannot configure get their link immediately; owned private
// content walks through the expiry and password prompts first.
func (a *App) Share(ctx context.Context, kind, id string) error {
	target, err := parseTarget(kind, id)
	if err != nil {
		printlnFn(err.Error())
		return nil
	}

	st, err := a.flow.Activate(ctx, target)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	if st == shareflow.StateLinkGenerated {
		a.printLink()
		return nil
	}

	settings, err := a.promptSettings()
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	return a.generate(ctx, settings)
}

// Community shares a chat with the community: preview metadata plus decrypted
// messages and embeds, with PII restored only on explicit opt-in. A link that
// was already generated is reopened for configuration first.
func (a *App) Community(ctx context.Context, chatID string) error {
	st, err := a.flow.Activate(ctx, models.ChatTarget(chatID))
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	if st == shareflow.StateLinkGenerated {
		if st, err = a.flow.ChangeSettings(); err != nil {
			printlnFn("Community sharing needs an owned, non-public chat.")
			return nil
		}
	}
	if st != shareflow.StateConfiguring {
		printlnFn("Community sharing needs an owned, non-public chat.")
		return nil
	}

	settings, err := a.promptSettings()
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	settings.ShareWithCommunity = true

	if has, herr := a.flow.HasSensitiveData(ctx); herr == nil && has {
		include, ierr := GetYesNo(a.reader, "Restore redacted personal data in the shared copy?", false, a.out)
		if ierr != nil {
			printlnFn("Error:", ierr.Error())
			return ierr
		}
		settings.IncludeSensitive = include
	}

	return a.generate(ctx, settings)
}

// Change reopens configuration for the generated link and prompts for new
// settings. The previous link and QR payload are discarded either way.
func (a *App) Change(ctx context.Context) error {
	if _, err := a.flow.ChangeSettings(); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	settings, err := a.promptSettings()
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	return a.generate(ctx, settings)
}

// Unshare revokes the active chat share: the queued metadata is dropped and
// the server forgets the shared state.
func (a *App) Unshare(ctx context.Context) error {
	if err := a.flow.Revoke(ctx); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Share revoked.")
	return nil
}

func parseTarget(kind, id string) (models.ShareTarget, error) {
	switch kind {
	case "chat":
		return models.ChatTarget(id), nil
	case "embed":
		return models.EmbedTarget(id), nil
	default:
		return models.ShareTarget{}, fmt.Errorf("unknown target kind %q (want chat or embed)", kind)
	}
}

// promptSettings walks the user through link lifetime and password.
func (a *App) promptSettings() (models.ShareSettings, error) {
	settings := shareflow.DefaultSettings()

	d, err := GetDuration(a.reader, a.out)
	if err != nil {
		return settings, err
	}
	settings.Duration = d

	protect, err := GetYesNo(a.reader, "Password-protect the link?", false, a.out)
	if err != nil {
		return settings, err
	}
	if protect {
		pw, perr := getPassword(a.out)
		if perr != nil {
			return settings, perr
		}
		settings.Password = string(pw)
		common.WipeByteArray(pw)
	}
	return settings, nil
}

func (a *App) generate(ctx context.Context, settings models.ShareSettings) error {
	if err := a.flow.Generate(ctx, settings); err != nil {
		if errors.Is(err, redact.ErrOrphanEmbedRef) {
			printlnFn("Refused:", err.Error())
			return err
		}
		printlnFn("Error:", err.Error())
		return err
	}
	a.printLink()
	return nil
}

func (a *App) printLink() {
	if link := a.flow.Link(); link != "" {
		printlnFn("Share link:", link)
	}
}
