package shareblob

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/privychat/sharekit/internal/cryptox"
	"github.com/privychat/sharekit/internal/models"
)

// Decode error taxonomy. Anything that is not a wrong password or an expired
// link collapses into ErrInvalidFormat so the error surface stays
// constant-shape regardless of where parsing or authentication failed.
var (
	ErrInvalidFormat = errors.New("invalid share blob")
	ErrWrongPassword = errors.New("wrong password")
	ErrExpired       = errors.New("share link expired")
)

const blobVersion = 1

// envelope is the JSON wire form of a blob. Byte fields ride as std base64
// inside the JSON; the whole envelope is then base64url-encoded for the URL
// fragment.
type envelope struct {
	V int    `json:"v"`
	T string `json:"t"`
	N []byte `json:"n"`
	S []byte `json:"s,omitempty"`
	E int64  `json:"e"`
	P bool   `json:"p,omitempty"`
	C []byte `json:"c"`
}

// buildAAD folds the non-encrypted envelope fields into the AEAD additional
// data. The domain label covers codec kind and version, so a chat blob
// replayed against the embed codec fails authentication even if an attacker
// rewrites the type tag.
func buildAAD(label string, expiresAt int64, protected bool) []byte {
	flag := "0"
	if protected {
		flag = "1"
	}
	return []byte(label + "|" + strconv.FormatInt(expiresAt, 10) + "|" + flag)
}

// encode wraps contentKey for the codec identified by (tag, label).
// expiresAt is an absolute unix timestamp; 0 means the link never expires.
func encode(tag, label string, contentKey []byte, expiresAt int64, password string) (string, error) {
	if len(contentKey) != cryptox.KeySize {
		return "", fmt.Errorf("content key must be %d bytes, got %d", cryptox.KeySize, len(contentKey))
	}
	if expiresAt < 0 {
		return "", fmt.Errorf("negative expiry timestamp %d", expiresAt)
	}

	env := envelope{
		V: blobVersion,
		T: tag,
		N: cryptox.NewNonce(),
		E: expiresAt,
	}

	var key []byte
	if password == "" {
		// Key from the nonce alone: anyone holding the full fragment can
		// decode, nobody holding only the URL path can.
		k, err := cryptox.DeriveSubkey(env.N, label)
		if err != nil {
			return "", fmt.Errorf("derive blob key: %w", err)
		}
		key = k
	} else {
		if err := models.ValidateSharePassword(password); err != nil {
			return "", err
		}
		env.S = cryptox.NewSalt()
		env.P = true
		key = cryptox.DeriveKEK([]byte(password), env.S)
	}

	ct, err := cryptox.Seal(key, env.N, contentKey, buildAAD(label, env.E, env.P))
	if err != nil {
		return "", fmt.Errorf("seal content key: %w", err)
	}
	env.C = ct

	raw, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// decode unwraps a blob produced by encode with the same (tag, label).
func decode(tag, label string, now time.Time, blob, password string) ([]byte, int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(blob)
	if err != nil {
		return nil, 0, ErrInvalidFormat
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, 0, ErrInvalidFormat
	}
	if env.V != blobVersion || env.T != tag {
		return nil, 0, ErrInvalidFormat
	}
	if len(env.N) != cryptox.NonceSize || len(env.C) == 0 {
		return nil, 0, ErrInvalidFormat
	}

	var key []byte
	if env.P {
		if len(env.S) != cryptox.SaltSize {
			return nil, 0, ErrInvalidFormat
		}
		if password == "" {
			return nil, 0, ErrWrongPassword
		}
		key = cryptox.DeriveKEK([]byte(password), env.S)
	} else {
		// A password supplied for an unprotected blob is ignored.
		k, derr := cryptox.DeriveSubkey(env.N, label)
		if derr != nil {
			return nil, 0, ErrInvalidFormat
		}
		key = k
	}

	contentKey, err := cryptox.Open(key, env.N, env.C, buildAAD(label, env.E, env.P))
	if err != nil {
		if env.P {
			return nil, 0, ErrWrongPassword
		}
		return nil, 0, ErrInvalidFormat
	}
	if len(contentKey) != cryptox.KeySize {
		return nil, 0, ErrInvalidFormat
	}

	// Expiry is judged only after authentication so the timestamp we trust
	// is the one that was sealed in.
	if env.E != 0 && now.Unix() > env.E {
		return nil, 0, ErrExpired
	}

	return contentKey, env.E, nil
}
