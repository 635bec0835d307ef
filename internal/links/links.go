// Package links builds and parses the app's share URLs.
//
// Three shapes exist:
//
//	{origin}/#chat-id={chat_id}              public chat, no key material
//	{origin}/share/chat/{chat_id}#key={blob} encrypted chat share
//	{origin}/share/embed/{embed_id}#key={blob} encrypted embed share
//
// The key blob always rides in the fragment: fragments never leave the
// browser, so the server hosting the page cannot see the key.
package links

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/privychat/sharekit/internal/models"
)

// ErrNotShareLink is returned when a URL does not match any known shape.
var ErrNotShareLink = errors.New("not a share link")

// Ref is a parsed share URL.
type Ref struct {
	Target models.ShareTarget
	// Blob is the share-key blob from the fragment. Empty for public
	// chat links, which carry no key material.
	Blob   string
	Public bool
}

// PublicChatURL is the keyless link for a public chat.
func PublicChatURL(origin, chatID string) string {
	return fmt.Sprintf("%s/#chat-id=%s", strings.TrimRight(origin, "/"), url.PathEscape(chatID))
}

// ChatShareURL is the encrypted-share link for a chat.
func ChatShareURL(origin, chatID, blob string) string {
	return fmt.Sprintf("%s/share/chat/%s#key=%s", strings.TrimRight(origin, "/"), url.PathEscape(chatID), blob)
}

// EmbedShareURL is the encrypted-share link for a single embed.
func EmbedShareURL(origin, embedID, blob string) string {
	return fmt.Sprintf("%s/share/embed/%s#key=%s", strings.TrimRight(origin, "/"), url.PathEscape(embedID), blob)
}

// ExtractShareRef parses any of the three link shapes back into a Ref.
// The origin is not checked; links from any deployment parse the same way.
func ExtractShareRef(rawURL string) (*Ref, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotShareLink, err)
	}

	if id, ok := strings.CutPrefix(u.Fragment, "chat-id="); ok && id != "" {
		return &Ref{Target: models.ChatTarget(id), Public: true}, nil
	}

	path := strings.Trim(u.EscapedPath(), "/")
	parts := strings.Split(path, "/")
	if len(parts) != 3 || parts[0] != "share" {
		return nil, ErrNotShareLink
	}
	blob, ok := strings.CutPrefix(u.Fragment, "key=")
	if !ok || blob == "" {
		return nil, ErrNotShareLink
	}
	id, err := url.PathUnescape(parts[2])
	if err != nil || id == "" {
		return nil, ErrNotShareLink
	}

	switch parts[1] {
	case "chat":
		return &Ref{Target: models.ChatTarget(id), Blob: blob}, nil
	case "embed":
		return &Ref{Target: models.EmbedTarget(id), Blob: blob}, nil
	default:
		return nil, ErrNotShareLink
	}
}
