package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiryDuration_Valid(t *testing.T) {
	valid := []ExpiryDuration{0, 60, 3600, 86400, 604800, 1209600, 2592000, 7776000}
	for _, d := range valid {
		assert.True(t, d.Valid(), "duration %d must be valid", d)
	}

	invalid := []ExpiryDuration{-1, 1, 59, 61, 7200, 100000000}
	for _, d := range invalid {
		assert.False(t, d.Valid(), "duration %d must be invalid", d)
	}
}

func TestExpiryDuration_ExpiresAt(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	assert.Equal(t, int64(0), ExpiryNever.ExpiresAt(now))
	assert.Equal(t, now.Unix()+3600, ExpiryHour.ExpiresAt(now))
	assert.Equal(t, now.Unix()+7776000, ExpiryQuarter.ExpiresAt(now))
}

func TestValidateSharePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"single char", "a", false},
		{"four chars", "ab12", false},
		{"ten chars", "abcdefghij", false},
		{"empty", "", true},
		{"eleven chars", "abcdefghijk", true},
		{"ten runes multibyte", "пароль1234", false},
		{"eleven runes multibyte", "пароль12345", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSharePassword(tt.password)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrPasswordLength)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestShareSettings_Validate(t *testing.T) {
	ok := ShareSettings{Duration: ExpiryHour, Password: "ab12"}
	require.NoError(t, ok.Validate())

	noPassword := ShareSettings{Duration: ExpiryNever}
	require.NoError(t, noPassword.Validate())

	badDuration := ShareSettings{Duration: 42}
	require.ErrorIs(t, badDuration.Validate(), ErrInvalidDuration)

	badPassword := ShareSettings{Duration: ExpiryHour, Password: "way too long password"}
	require.ErrorIs(t, badPassword.Validate(), ErrPasswordLength)
}

func TestShareTarget(t *testing.T) {
	var zero ShareTarget
	assert.True(t, zero.IsZero())
	assert.Equal(t, "<none>", zero.String())

	c := ChatTarget("c1")
	assert.Equal(t, TargetChat, c.Kind)
	assert.Equal(t, "chat/c1", c.String())
	assert.False(t, c.IsZero())

	e := EmbedTarget("e9")
	assert.Equal(t, TargetEmbed, e.Kind)
	assert.Equal(t, "embed/e9", e.String())
}
