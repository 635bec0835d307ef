package models

// Chat is the local record of a conversation. Preview metadata (title,
// summary, category, icon, follow-up suggestions) is what gets published to
// the server on sharing; message content never leaves the device except via
// the explicit community-share flow.
type Chat struct {
	// ID is the stable chat identifier used in share URLs.
	ID string
	// Title is the display title shown in chat lists and share previews.
	Title string
	// Summary is an optional one-line description. Empty means not set.
	Summary string
	// Category is an optional preview grouping label.
	Category string
	// Icon is an optional icon name for the preview card.
	Icon string
	// FollowUpSuggestions are optional prompt suggestions shown to viewers.
	FollowUpSuggestions []string
	// Owned is true when the current user authored this chat.
	Owned bool
	// Public marks demo/public chats that are shared by plain URL,
	// without any key material.
	Public bool
	// CreatedAt is a unix timestamp (seconds).
	CreatedAt int64
}

// Message is a single chat message. Content may carry placeholder tokens for
// redacted PII and embed references of the form embed://<id>.
type Message struct {
	ID     string
	ChatID string
	// Role is "user" or "assistant".
	Role string
	// Seq orders messages within a chat.
	Seq     int
	Content string
}

// Embed is an interactive artifact generated inside a chat. Embeds have
// their own content keys and can be shared independently of their chat.
type Embed struct {
	ID     string
	ChatID string
	Title  string
	// Kind names the embed renderer ("html", "chart", "doc", ...).
	Kind    string
	Content string
}

// PIIMapping links one placeholder token to the original value it replaced.
// Mappings are created during message authoring and are read-only here.
type PIIMapping struct {
	// Placeholder is the token present in stored content, e.g. "[EMAIL_1]".
	Placeholder string
	// Original is the value the placeholder stands for.
	Original string
	// Category names the detected PII class ("email", "phone", ...).
	Category string
}
