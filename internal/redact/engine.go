package redact

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/privychat/sharekit/internal/models"
	"github.com/privychat/sharekit/internal/repositories/embeds"
	"github.com/privychat/sharekit/internal/repositories/mappings"
)

// ErrOrphanEmbedRef marks a message referencing an embed that is not in the
// local store. Sharing content with unresolvable references is refused.
var ErrOrphanEmbedRef = errors.New("embed reference does not resolve locally")

var embedRefPattern = regexp.MustCompile(`embed://([A-Za-z0-9_-]+)`)

// Restore replaces every known placeholder in text with its original value.
// Unknown placeholders are left untouched. With no mappings the text comes
// back unchanged.
func Restore(text string, mappings []models.PIIMapping) string {
	return replaceAll(text, mappings, func(m models.PIIMapping) (string, string) {
		return m.Placeholder, m.Original
	})
}

// Redact is the inverse of Restore: original values become placeholders.
func Redact(text string, mappings []models.PIIMapping) string {
	return replaceAll(text, mappings, func(m models.PIIMapping) (string, string) {
		return m.Original, m.Placeholder
	})
}

// replaceAll builds a single-pass replacer from the mapping set. Longer
// patterns go first so [EMAIL_12] is never half-matched as [EMAIL_1].
func replaceAll(text string, ms []models.PIIMapping, pair func(models.PIIMapping) (string, string)) string {
	if len(ms) == 0 || text == "" {
		return text
	}
	sorted := make([]models.PIIMapping, len(ms))
	copy(sorted, ms)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, _ := pair(sorted[i])
		pj, _ := pair(sorted[j])
		return len(pi) > len(pj)
	})

	oldnew := make([]string, 0, 2*len(sorted))
	for _, m := range sorted {
		from, to := pair(m)
		if from == "" {
			continue
		}
		oldnew = append(oldnew, from, to)
	}
	return strings.NewReplacer(oldnew...).Replace(text)
}

// EmbedRefs returns the embed IDs referenced in text, deduplicated in order
// of first appearance.
func EmbedRefs(text string) []string {
	matches := embedRefPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	var ids []string
	for _, m := range matches {
		id := m[1]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// Engine answers placeholder and embed-reference questions for a chat,
// backed by the local store.
type Engine struct {
	mappings mappings.Repository
	embeds   embeds.Repository
}

// NewEngine creates a new Engine instance.
func NewEngine(m mappings.Repository, e embeds.Repository) *Engine {
	return &Engine{mappings: m, embeds: e}
}

// HasMappings reports whether the chat has any PII mappings at all. The
// share screen uses this to decide whether to offer the restore option.
func (e *Engine) HasMappings(ctx context.Context, chatID string) (bool, error) {
	return e.mappings.HasAny(ctx, chatID)
}

// Mappings loads the chat's full mapping set for use with Restore.
func (e *Engine) Mappings(ctx context.Context, chatID string) ([]models.PIIMapping, error) {
	return e.mappings.ListByChat(ctx, chatID)
}

// ResolveEmbedRefs collects every embed ID referenced across msgs and
// verifies each one exists locally. It returns the deduplicated IDs in order
// of first appearance, or ErrOrphanEmbedRef naming the missing ones.
func (e *Engine) ResolveEmbedRefs(ctx context.Context, msgs []models.Message) ([]string, error) {
	var ids []string
	seen := make(map[string]struct{})
	for _, msg := range msgs {
		for _, id := range EmbedRefs(msg.Content) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	var missing []string
	for _, id := range ids {
		ok, err := e.embeds.Exists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("check embed %s: %w", id, err)
		}
		if !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrOrphanEmbedRef, strings.Join(missing, ", "))
	}
	return ids, nil
}
