// Package api is the HTTP client for the share server's metadata endpoints.
// Only encrypted-at-rest metadata and explicitly opted-in community content
// ever travel through it; keys and blobs stay on the client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/privychat/sharekit/internal/models"
)

// TokenSource supplies the bearer token for authenticated calls. An empty
// token sends the request anonymously.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource with a fixed value, mainly for tests and
// anonymous clients.
type StaticToken string

// Token returns the fixed token value.
func (s StaticToken) Token() string { return string(s) }

// ShareMetadataRequest is the upsert payload for a shared chat. Optional
// fields are omitted when empty; is_shared is always present.
type ShareMetadataRequest struct {
	ChatID              string                 `json:"chat_id"`
	Title               string                 `json:"title,omitempty"`
	Summary             string                 `json:"summary,omitempty"`
	Category            string                 `json:"category,omitempty"`
	Icon                string                 `json:"icon,omitempty"`
	FollowUpSuggestions []string               `json:"follow_up_suggestions,omitempty"`
	IsShared            bool                   `json:"is_shared"`
	ShareWithCommunity  bool                   `json:"share_with_community,omitempty"`
	DecryptedMessages   []models.SharedMessage `json:"decrypted_messages,omitempty"`
	DecryptedEmbeds     []models.SharedEmbed   `json:"decrypted_embeds,omitempty"`
}

// UnshareRequest asks the server to drop a chat's shared metadata.
type UnshareRequest struct {
	ChatID string `json:"chat_id"`
}

// Client talks to the share server. Safe for concurrent use.
type Client struct {
	baseURL string
	client  *http.Client
	token   TokenSource
}

// NewClient creates a new Client instance. baseURL points at the server root
// without a trailing slash; timeout bounds every request.
func NewClient(baseURL string, timeout time.Duration, token TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		token:   token,
	}
}

// UpsertShareMetadata publishes or refreshes the metadata record for a
// shared chat. The call is idempotent on the server side.
func (c *Client) UpsertShareMetadata(ctx context.Context, req ShareMetadataRequest) error {
	return c.post(ctx, "/api/share/metadata", req)
}

// Unshare removes the server-side metadata record for a chat.
func (c *Client) Unshare(ctx context.Context, chatID string) error {
	return c.post(ctx, "/api/share/unshare", UnshareRequest{ChatID: chatID})
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.token.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server returned %s: %s", resp.Status, string(b))
	}
	return nil
}
