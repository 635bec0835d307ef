package models

import (
	"errors"
	"time"
	"unicode/utf8"
)

// ExpiryDuration is a link lifetime in seconds. Only the enumerated values
// are accepted; ExpiryNever (0) means the link never expires.
type ExpiryDuration int64

const (
	ExpiryNever    ExpiryDuration = 0
	ExpiryMinute   ExpiryDuration = 60
	ExpiryHour     ExpiryDuration = 3600
	ExpiryDay      ExpiryDuration = 86400
	ExpiryWeek     ExpiryDuration = 604800
	ExpiryTwoWeeks ExpiryDuration = 1209600
	ExpiryMonth    ExpiryDuration = 2592000
	ExpiryQuarter  ExpiryDuration = 7776000
)

var ErrInvalidDuration = errors.New("invalid expiry duration")

// expiryDurations is the exhaustive set of allowed values.
var expiryDurations = map[ExpiryDuration]struct{}{
	ExpiryNever:    {},
	ExpiryMinute:   {},
	ExpiryHour:     {},
	ExpiryDay:      {},
	ExpiryWeek:     {},
	ExpiryTwoWeeks: {},
	ExpiryMonth:    {},
	ExpiryQuarter:  {},
}

// Valid reports whether d is one of the enumerated durations.
func (d ExpiryDuration) Valid() bool {
	_, ok := expiryDurations[d]
	return ok
}

// ExpiresAt converts the duration into an absolute unix timestamp relative
// to now. ExpiryNever maps to 0 ("never expires").
func (d ExpiryDuration) ExpiresAt(now time.Time) int64 {
	if d == ExpiryNever {
		return 0
	}
	return now.Unix() + int64(d)
}

// Password length bounds for protected links, counted in characters.
const (
	MinPasswordLen = 1
	MaxPasswordLen = 10
)

var ErrPasswordLength = errors.New("password must be 1-10 characters")

// ValidateSharePassword checks the length constraint on a link password.
// Length is counted in characters (runes), not bytes.
func ValidateSharePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLen || n > MaxPasswordLen {
		return ErrPasswordLength
	}
	return nil
}

// ShareSettings holds what the sharer picked on the configuration screen.
type ShareSettings struct {
	// Duration selects the link lifetime; ExpiryNever disables expiry.
	Duration ExpiryDuration
	// Password enables password protection when non-empty.
	Password string
	// IncludeSensitive restores PII placeholders in community-shared
	// content. Ignored unless ShareWithCommunity is set.
	IncludeSensitive bool
	// ShareWithCommunity opts the chat into server-side community
	// publication with decrypted content.
	ShareWithCommunity bool
}

// Validate checks the settings against the share rules.
func (s ShareSettings) Validate() error {
	if !s.Duration.Valid() {
		return ErrInvalidDuration
	}
	if s.Password != "" {
		return ValidateSharePassword(s.Password)
	}
	return nil
}
