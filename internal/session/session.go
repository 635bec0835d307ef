// Package session reads the auth token the main app leaves on disk and
// answers whether the user is signed in. Obtaining and refreshing tokens is
// the main app's job; this package only introspects what it finds, so shares
// made while signed out still work.
package session

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/privychat/sharekit/internal/api"
	"github.com/privychat/sharekit/internal/common"
)

// Session exposes the current auth state. All methods tolerate a missing or
// stale token file; anonymous is a valid state, not an error.
type Session struct {
	path string
	now  func() time.Time
}

var _ api.TokenSource = (*Session)(nil)

// NewFileSession creates a Session reading the bearer token from path.
func NewFileSession(path string) *Session {
	return &Session{path: path, now: time.Now}
}

// Token returns the raw bearer token for API calls, or "" when no usable
// token exists. Expired tokens are treated as absent rather than sent to
// the server to be rejected.
func (s *Session) Token() string {
	raw, _, err := s.introspect()
	if err != nil {
		return ""
	}
	return raw
}

// Authenticated reports whether a usable, unexpired token is present.
func (s *Session) Authenticated() bool {
	_, _, err := s.introspect()
	return err == nil
}

// UserID returns the token's subject claim.
func (s *Session) UserID() (string, error) {
	_, claims, err := s.introspect()
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Subject, nil
}

// introspect loads and decodes the token file. The signature is not checked;
// only the server holds the key, and the client gains nothing from forging a
// token against itself. Expiry is still honored locally.
func (s *Session) introspect() (string, *jwt.RegisteredClaims, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	raw := strings.TrimSpace(string(b))
	if raw == "" {
		return "", nil, common.ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims.ExpiresAt != nil && s.now().After(claims.ExpiresAt.Time) {
		return "", nil, common.ErrTokenExpired
	}
	return raw, claims, nil
}

// Anonymous is a Session that is never authenticated, for callers running
// without a token file at all. An empty path never resolves to a file.
func Anonymous() *Session {
	return NewFileSession("")
}
