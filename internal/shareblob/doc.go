// Package shareblob encodes content keys into the opaque blobs carried in
// share-URL fragments, and decodes them back on the opener side.
//
// # Overview
//
// A blob wraps a single content key plus an absolute expiry timestamp. Two
// concrete codecs exist: ChatCodec for chat keys and EmbedCodec for embed
// keys. They share a wire format but derive their encryption keys under
// different domain labels and bind the label into the AEAD additional data,
// so a blob produced by one can never be decoded by the other.
//
// # Wire Format
//
// The blob is RawURLEncoding base64 of a compact JSON envelope:
//
//	{"v":1,"t":"c","n":...,"s":...,"e":1700003600,"p":true,"c":...}
//
// v is the format version, t tags the codec ("c" chat, "e" embed), n is the
// XChaCha20-Poly1305 nonce, s the Argon2id salt (password mode only), e the
// unix expiry (0 = never), p the password flag, and c the sealed content
// key. e and p are authenticated through the AEAD additional data, so
// envelope tampering surfaces as ErrInvalidFormat.
//
// Without a password the sealing key is derived from the nonce alone;
// confidentiality then rests on the URL fragment never reaching a server,
// while integrity still holds. With a password (1–10 characters) the key is
// Argon2id(password, salt).
//
// # Errors
//
// Decode failures map onto a fixed taxonomy matched with errors.Is:
// ErrInvalidFormat, ErrWrongPassword, ErrExpired. Expiry is evaluated at
// decode time against the codec clock, never at encode time.
package shareblob
