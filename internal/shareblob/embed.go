package shareblob

import "time"

const (
	embedTag   = "e"
	embedLabel = "privychat/share/embed/v1"
)

// EmbedCodec wraps embed content keys. Embeds outlive the chats they were
// generated in and carry their own keys, so their blobs are a separate type
// with a separate domain label rather than a mode of ChatCodec.
type EmbedCodec struct {
	now func() time.Time
}

func NewEmbedCodec() *EmbedCodec {
	return &EmbedCodec{now: time.Now}
}

// Encode wraps an embed content key. Semantics match ChatCodec.Encode.
func (c *EmbedCodec) Encode(contentKey []byte, expiresAt int64, password string) (string, error) {
	return encode(embedTag, embedLabel, contentKey, expiresAt, password)
}

// Decode recovers an embed content key and expiry from blob.
func (c *EmbedCodec) Decode(blob, password string) ([]byte, int64, error) {
	return decode(embedTag, embedLabel, c.now(), blob, password)
}
