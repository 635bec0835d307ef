// Package models defines the share-core domain types: share targets, chat
// and embed records, expiry settings, PII mappings, and durable queue items.
package models

import "fmt"

// TargetKind classifies what a share link points at.
type TargetKind string

const (
	TargetChat  TargetKind = "chat"
	TargetEmbed TargetKind = "embed"
)

// ShareTarget identifies the single item a share action operates on.
// Exactly one target is active at a time; a zero value means no target.
type ShareTarget struct {
	Kind TargetKind
	ID   string
}

// ChatTarget returns a ShareTarget for a chat.
func ChatTarget(chatID string) ShareTarget {
	return ShareTarget{Kind: TargetChat, ID: chatID}
}

// EmbedTarget returns a ShareTarget for an embed.
func EmbedTarget(embedID string) ShareTarget {
	return ShareTarget{Kind: TargetEmbed, ID: embedID}
}

// IsZero reports whether no target is set.
func (t ShareTarget) IsZero() bool {
	return t.Kind == "" && t.ID == ""
}

func (t ShareTarget) String() string {
	if t.IsZero() {
		return "<none>"
	}
	return fmt.Sprintf("%s/%s", t.Kind, t.ID)
}
