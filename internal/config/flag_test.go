package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-o", "https://app.example", "-i", "10"}, expectPanic: false,
			expected: &Config{Origin: "https://app.example", DrainInterval: 10 * time.Second}},
		{name: "Test2 all flags", args: []string{"cmd", "-o", "https://app.example", "-a", "http://127.0.0.1:9090", "-d", "x.db", "-t", "tok", "-i", "5"}, expectPanic: false,
			expected: &Config{Origin: "https://app.example", APIBaseURL: "http://127.0.0.1:9090", DBPath: "x.db", TokenPath: "tok", DrainInterval: 5 * time.Second}},
		{name: "Test3 incorrect drain interval", args: []string{"cmd", "-o", "https://app.example", "-i", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
