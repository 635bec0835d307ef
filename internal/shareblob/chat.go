package shareblob

import "time"

const (
	chatTag   = "c"
	chatLabel = "privychat/share/chat/v1"
)

// ChatCodec wraps chat content keys. It owns the chat domain label; blobs it
// produces cannot be decoded by EmbedCodec.
type ChatCodec struct {
	now func() time.Time
}

func NewChatCodec() *ChatCodec {
	return &ChatCodec{now: time.Now}
}

// Encode wraps contentKey into a URL-fragment-safe blob. expiresAt is an
// absolute unix timestamp (0 = never). An empty password produces an
// unprotected blob; otherwise the password must be 1-10 characters.
// Every call draws a fresh nonce, so identical inputs yield distinct blobs.
func (c *ChatCodec) Encode(contentKey []byte, expiresAt int64, password string) (string, error) {
	return encode(chatTag, chatLabel, contentKey, expiresAt, password)
}

// Decode recovers the content key and expiry from blob. The password is
// required only for protected blobs. Returns ErrInvalidFormat,
// ErrWrongPassword, or ErrExpired on failure.
func (c *ChatCodec) Decode(blob, password string) ([]byte, int64, error) {
	return decode(chatTag, chatLabel, c.now(), blob, password)
}
