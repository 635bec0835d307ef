package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privychat/sharekit/internal/config"
	"github.com/privychat/sharekit/internal/redact"
	"github.com/privychat/sharekit/internal/shareflow"
)

// ------------ helpers ------------

// mintToken writes a signed, unexpired access token for sub into a temp file
// and returns the file path.
func mintToken(t *testing.T, sub string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte(signed), 0o600))
	return path
}

type serverCalls struct {
	mu       sync.Mutex
	upserts  []string
	unshares []string
}

func (c *serverCalls) snapshot() (upserts, unshares []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.upserts...), append([]string(nil), c.unshares...)
}

// newTestApp builds a real App over a temp database and a stub share server.
// input is fed to the interactive prompts.
func newTestApp(t *testing.T, tokenPath, input string) (*App, *serverCalls) {
	t.Helper()

	calls := &serverCalls{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ChatID string `json:"chat_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls.mu.Lock()
		defer calls.mu.Unlock()
		switch r.URL.Path {
		case "/api/share/metadata":
			calls.upserts = append(calls.upserts, body.ChatID)
		case "/api/share/unshare":
			calls.unshares = append(calls.unshares, body.ChatID)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Origin = "https://app.example"
	cfg.APIBaseURL = srv.URL
	cfg.DBPath = filepath.Join(t.TempDir(), "app.db")
	cfg.TokenPath = tokenPath

	app, err := NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	app.reader = bufio.NewReader(strings.NewReader(input))
	app.out = io.Discard
	return app, calls
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

// ------------ tests ------------

func TestSeedAndList_PrintsStore(t *testing.T) {
	lines := captureOutput(t)
	app, _ := newTestApp(t, "", "")
	ctx := context.Background()

	require.NoError(t, app.Seed(ctx))
	require.NoError(t, app.List(ctx))

	joined := strings.Join(*lines, "\n")
	assert.Contains(t, joined, "demo-welcome")
	assert.Contains(t, joined, "trip-planning")
	assert.Contains(t, joined, "[public]")
	assert.Contains(t, joined, "Lisbon weekend itinerary")

	require.NoError(t, app.Seed(ctx))
	assert.Contains(t, strings.Join(*lines, "\n"), "Demo data already present.")
}

func TestShare_PublicChatPrintsPlainURL(t *testing.T) {
	lines := captureOutput(t)
	app, _ := newTestApp(t, "", "")
	ctx := context.Background()

	require.NoError(t, app.Seed(ctx))
	require.NoError(t, app.Share(ctx, "chat", "demo-welcome"))

	assert.Contains(t, strings.Join(*lines, "\n"),
		"Share link: https://app.example/#chat-id=demo-welcome")
	assert.Equal(t, shareflow.StateLinkGenerated, app.flow.State())
}

func TestShare_OwnedChatWithPasswordThenOpen(t *testing.T) {
	lines := captureOutput(t)
	stubPassword(t, "ab12")
	app, _ := newTestApp(t, mintToken(t, "alice"), "3600\ny\n")
	ctx := context.Background()

	require.NoError(t, app.Seed(ctx))
	require.NoError(t, app.Share(ctx, "chat", "trip-planning"))

	link := app.flow.Link()
	require.True(t, strings.HasPrefix(link, "https://app.example/share/chat/trip-planning#key="), link)

	pending, err := app.queue.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "trip-planning", pending[0].ChatID)

	require.NoError(t, app.Open(ctx, link))
	joined := strings.Join(*lines, "\n")
	assert.Contains(t, joined, "This link is password-protected.")
	assert.Contains(t, joined, "Content key matches the local store.")
	assert.Contains(t, joined, "Expires:")
}

func TestShare_AnonymousOwnedChatAutoSkips(t *testing.T) {
	captureOutput(t)
	app, _ := newTestApp(t, "", "")
	ctx := context.Background()

	require.NoError(t, app.Seed(ctx))
	require.NoError(t, app.Share(ctx, "chat", "trip-planning"))

	link := app.flow.Link()
	assert.True(t, strings.HasPrefix(link, "https://app.example/share/chat/trip-planning#key="), link)

	// no metadata published for an unauthenticated share
	pending, err := app.queue.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestShare_EmbedTargetNeverEnqueues(t *testing.T) {
	captureOutput(t)
	app, _ := newTestApp(t, mintToken(t, "alice"), "\n\n")
	ctx := context.Background()

	require.NoError(t, app.Seed(ctx))
	embs, err := app.repos.Embeds.ListByChat(ctx, "trip-planning")
	require.NoError(t, err)
	require.Len(t, embs, 1)

	require.NoError(t, app.Share(ctx, "embed", embs[0].ID))

	link := app.flow.Link()
	assert.True(t, strings.HasPrefix(link, "https://app.example/share/embed/"+embs[0].ID+"#key="), link)

	pending, err := app.queue.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCommunity_RestoresPIIOnOptIn(t *testing.T) {
	captureOutput(t)
	app, _ := newTestApp(t, mintToken(t, "alice"), "\n\ny\n")
	ctx := context.Background()

	require.NoError(t, app.Seed(ctx))
	require.NoError(t, app.Community(ctx, "trip-planning"))

	pending, err := app.queue.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	item := pending[0]
	assert.True(t, item.ShareWithCommunity)
	require.NotNil(t, item.Community)

	var msgs strings.Builder
	for _, m := range item.Community.Messages {
		msgs.WriteString(m.Content)
		msgs.WriteString("\n")
	}
	assert.Contains(t, msgs.String(), "Dana")
	assert.NotContains(t, msgs.String(), "[NAME_1]")
	assert.NotContains(t, msgs.String(), "[EMAIL_1]")

	require.Len(t, item.Community.Embeds, 1)
	assert.Contains(t, item.Community.Embeds[0].Content, "Dana")
}

func TestCommunity_OrphanEmbedRefRefused(t *testing.T) {
	lines := captureOutput(t)
	app, _ := newTestApp(t, mintToken(t, "alice"), "\n\n")
	ctx := context.Background()

	require.NoError(t, app.Seed(ctx))
	err := app.Community(ctx, "broken-refs")
	require.ErrorIs(t, err, redact.ErrOrphanEmbedRef)

	assert.Equal(t, shareflow.StateConfiguring, app.flow.State())
	assert.Contains(t, strings.Join(*lines, "\n"), "Refused:")

	pending, perr := app.queue.Pending(ctx)
	require.NoError(t, perr)
	assert.Empty(t, pending)
}

func TestCommunity_PublicChatNotEligible(t *testing.T) {
	lines := captureOutput(t)
	app, _ := newTestApp(t, mintToken(t, "alice"), "")
	ctx := context.Background()

	require.NoError(t, app.Seed(ctx))
	require.NoError(t, app.Community(ctx, "demo-welcome"))

	assert.Contains(t, strings.Join(*lines, "\n"),
		"Community sharing needs an owned, non-public chat.")
}

func TestChange_RegeneratesWithFreshBlob(t *testing.T) {
	captureOutput(t)
	app, _ := newTestApp(t, mintToken(t, "alice"), "\n\n\n\n")
	ctx := context.Background()

	require.NoError(t, app.Seed(ctx))
	require.NoError(t, app.Share(ctx, "chat", "trip-planning"))
	first := app.flow.Blob()
	require.NotEmpty(t, first)

	require.NoError(t, app.Change(ctx))
	second := app.flow.Blob()
	require.NotEmpty(t, second)

	assert.NotEqual(t, first, second)
	assert.Equal(t, shareflow.StateLinkGenerated, app.flow.State())
}

func TestUnshare_HitsServerAndDropsQueue(t *testing.T) {
	captureOutput(t)
	app, calls := newTestApp(t, mintToken(t, "alice"), "\n\n")
	ctx := context.Background()

	require.NoError(t, app.Seed(ctx))
	require.NoError(t, app.Share(ctx, "chat", "trip-planning"))

	pending, err := app.queue.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, app.Unshare(ctx))

	_, unshares := calls.snapshot()
	assert.Equal(t, []string{"trip-planning"}, unshares)

	pending, err = app.queue.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, shareflow.StateConfiguring, app.flow.State())
}

func TestOpen_PublicURLPrintsChat(t *testing.T) {
	lines := captureOutput(t)
	app, _ := newTestApp(t, "", "")
	ctx := context.Background()

	require.NoError(t, app.Seed(ctx))
	require.NoError(t, app.Open(ctx, "https://app.example/#chat-id=demo-welcome"))

	joined := strings.Join(*lines, "\n")
	assert.Contains(t, joined, "Public chat: demo-welcome")
	assert.Contains(t, joined, "What can I do here?")
}

func TestQR_WritesPNG(t *testing.T) {
	captureOutput(t)
	app, _ := newTestApp(t, "", "")
	ctx := context.Background()

	tmp := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(old) })

	require.NoError(t, app.Seed(ctx))
	require.NoError(t, app.Share(ctx, "chat", "demo-welcome"))
	require.NoError(t, app.QR(ctx))

	_, err = os.Stat(filepath.Join(tmp, "qr", "chat-demo-welcome.png"))
	require.NoError(t, err)
}
