package shareflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/privychat/sharekit/internal/common"
	"github.com/privychat/sharekit/internal/cryptox"
	"github.com/privychat/sharekit/internal/links"
	"github.com/privychat/sharekit/internal/logging"
	"github.com/privychat/sharekit/internal/models"
	"github.com/privychat/sharekit/internal/redact"
	"github.com/privychat/sharekit/internal/repositories/chats"
	"github.com/privychat/sharekit/internal/repositories/embeds"
	"github.com/privychat/sharekit/internal/repositories/keys"
	"github.com/privychat/sharekit/internal/repositories/messages"
	"github.com/privychat/sharekit/internal/shareblob"
)

var (
	// ErrNoTarget is returned by operations that need an active target.
	ErrNoTarget = errors.New("no share target active")
	// ErrInvalidTransition is returned when an operation does not apply to
	// the current state, like generating before activating.
	ErrInvalidTransition = errors.New("operation not allowed in current share state")
	// ErrNotConfigurable guards ChangeSettings: public and non-owned links
	// have fixed default settings.
	ErrNotConfigurable = errors.New("link settings cannot be changed for this target")
	// ErrNotRevocable guards Revoke: only owned, non-public chat shares
	// have a server record to withdraw.
	ErrNotRevocable = errors.New("only owned chat shares can be revoked")
	// ErrChatOnly is returned when community sharing is requested for a
	// target that is not a chat.
	ErrChatOnly = errors.New("community sharing applies to chats only")
	// ErrStaleGeneration means the target changed while a link was being
	// generated; the result was discarded.
	ErrStaleGeneration = errors.New("share target changed during generation")
)

// Syncer is the queue side the flow needs. *metasync.Queue satisfies it.
type Syncer interface {
	Enqueue(ctx context.Context, item models.QueueItem) error
	Remove(ctx context.Context, chatID string) error
}

// Revoker is the server call behind Revoke. *api.Client satisfies it.
type Revoker interface {
	Unshare(ctx context.Context, chatID string) error
}

// Authenticator reports whether the user is signed in. *session.Session
// satisfies it.
type Authenticator interface {
	Authenticated() bool
}

// Deps bundles everything a Flow needs.
type Deps struct {
	Origin   string
	Chats    chats.Repository
	Messages messages.Repository
	Embeds   embeds.Repository
	Keys     keys.Repository
	Redactor *redact.Engine
	Queue    Syncer
	Server   Revoker
	Auth     Authenticator
	Logger   logging.Logger
}

// Flow is the share state machine. Safe for concurrent use; the slow parts
// of generation run outside the lock so activating a new target is never
// blocked behind an old one.
type Flow struct {
	origin   string
	chats    chats.Repository
	messages messages.Repository
	embeds   embeds.Repository
	keys     keys.Repository
	redactor *redact.Engine
	queue    Syncer
	server   Revoker
	auth     Authenticator
	logger   logging.Logger

	chatCodec  *shareblob.ChatCodec
	embedCodec *shareblob.EmbedCodec
	now        func() time.Time

	mu       sync.Mutex
	epoch    uint64
	state    State
	target   models.ShareTarget
	owned    bool
	public   bool
	settings models.ShareSettings
	link     string
	blob     string
	qr       string
}

// New creates a new Flow instance in StateNoTarget.
func New(d Deps) *Flow {
	return &Flow{
		origin:     strings.TrimRight(d.Origin, "/"),
		chats:      d.Chats,
		messages:   d.Messages,
		embeds:     d.Embeds,
		keys:       d.Keys,
		redactor:   d.Redactor,
		queue:      d.Queue,
		server:     d.Server,
		auth:       d.Auth,
		logger:     d.Logger,
		chatCodec:  shareblob.NewChatCodec(),
		embedCodec: shareblob.NewEmbedCodec(),
		now:        time.Now,
		state:      StateNoTarget,
	}
}

// DefaultSettings are what auto-skipped shares use: no password, no expiry.
func DefaultSettings() models.ShareSettings {
	return models.ShareSettings{Duration: models.ExpiryNever}
}

// Activate makes target the active share target. Owned private content lands
// in StateConfiguring; public content, content the user does not own, and
// anything shared while signed out auto-skips to StateLinkGenerated with
// default settings. Re-activating the current target keeps its state.
//
// Switching away from a target discards any link generated for it.
func (f *Flow) Activate(ctx context.Context, target models.ShareTarget) (State, error) {
	if target.IsZero() {
		return StateNoTarget, ErrNoTarget
	}

	facts, err := f.inspect(ctx, target)
	if err != nil {
		return StateNoTarget, err
	}

	f.mu.Lock()
	if f.target == target && f.state != StateNoTarget {
		st := f.state
		f.mu.Unlock()
		return st, nil
	}

	f.clearLocked()
	f.target = target
	f.owned = facts.owned
	f.public = facts.public
	f.state = StateConfiguring
	f.settings = DefaultSettings()

	if facts.public {
		// public content is reachable by plain URL, no key material
		f.link = links.PublicChatURL(f.origin, target.ID)
		f.qr = f.link
		f.state = StateLinkGenerated
		f.mu.Unlock()
		return StateLinkGenerated, nil
	}
	if facts.owned && f.auth.Authenticated() {
		f.mu.Unlock()
		return StateConfiguring, nil
	}
	epoch := f.epoch
	f.mu.Unlock()

	// auto-skip: nothing to configure, generate with defaults right away
	if err := f.runGenerate(ctx, target, epoch, DefaultSettings(), false); err != nil {
		return StateConfiguring, err
	}
	return StateLinkGenerated, nil
}

// Generate produces the share link for the active target with the given
// settings. On success the flow moves to StateLinkGenerated and, for owned
// non-public chats, enqueues the metadata upsert. Any failure leaves the
// flow in StateConfiguring with no partial result visible.
func (f *Flow) Generate(ctx context.Context, settings models.ShareSettings) error {
	f.mu.Lock()
	if f.state == StateNoTarget {
		f.mu.Unlock()
		return ErrNoTarget
	}
	if f.state != StateConfiguring {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	if settings.ShareWithCommunity && f.target.Kind != models.TargetChat {
		f.mu.Unlock()
		return ErrChatOnly
	}
	target, epoch := f.target, f.epoch
	publish := f.owned && !f.public && f.auth.Authenticated()
	f.mu.Unlock()

	if err := settings.Validate(); err != nil {
		return err
	}
	return f.runGenerate(ctx, target, epoch, settings, publish)
}

// ChangeSettings reopens configuration for a generated link. Only owned,
// non-public targets can be reconfigured; the previous link, blob, and QR
// payload are discarded.
func (f *Flow) ChangeSettings() (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateLinkGenerated {
		return f.state, ErrInvalidTransition
	}
	if !f.owned || f.public {
		return f.state, ErrNotConfigurable
	}

	f.epoch++
	f.state = StateConfiguring
	f.link, f.blob, f.qr = "", "", ""
	return StateConfiguring, nil
}

// Revoke withdraws an owned chat share: the pending metadata record is
// dropped, the server flips is_shared off, and the flow returns to
// StateConfiguring. The local state only changes after the server confirms.
func (f *Flow) Revoke(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateLinkGenerated {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	if f.target.Kind != models.TargetChat || !f.owned || f.public {
		f.mu.Unlock()
		return ErrNotRevocable
	}
	target, epoch := f.target, f.epoch
	f.mu.Unlock()

	// drop the pending upsert first so a queued record cannot resurrect
	// the share after the server forgets it
	if err := f.queue.Remove(ctx, target.ID); err != nil {
		f.logger.Warn(ctx, "dropping queued metadata", "chat_id", target.ID, "error", err)
	}
	if err := f.server.Unshare(ctx, target.ID); err != nil {
		return fmt.Errorf("unshare: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.epoch != epoch || f.target != target {
		return nil
	}
	f.epoch++
	f.state = StateConfiguring
	f.settings = DefaultSettings()
	f.link, f.blob, f.qr = "", "", ""
	return nil
}

// Clear deactivates the share screen entirely.
func (f *Flow) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearLocked()
}

// HasSensitiveData reports whether the active chat has PII mappings. The
// share screen hides the "include sensitive data" control when it is false.
func (f *Flow) HasSensitiveData(ctx context.Context) (bool, error) {
	f.mu.Lock()
	target := f.target
	f.mu.Unlock()

	if target.Kind != models.TargetChat {
		return false, nil
	}
	return f.redactor.HasMappings(ctx, target.ID)
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Target returns the active target; zero when none.
func (f *Flow) Target() models.ShareTarget {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.target
}

// Link returns the generated URL, empty outside StateLinkGenerated.
func (f *Flow) Link() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.link
}

// Blob returns the key blob inside the generated link. Empty for public
// links and outside StateLinkGenerated.
func (f *Flow) Blob() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blob
}

// QRPayload returns the string a QR code for this share must encode. It is
// the link itself; rendering is the caller's concern.
func (f *Flow) QRPayload() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.qr
}

// Settings returns the settings of the current configuration or link.
func (f *Flow) Settings() models.ShareSettings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings
}

func (f *Flow) clearLocked() {
	f.epoch++
	f.state = StateNoTarget
	f.target = models.ShareTarget{}
	f.owned = false
	f.public = false
	f.settings = DefaultSettings()
	f.link, f.blob, f.qr = "", "", ""
}

type targetFacts struct {
	owned  bool
	public bool
}

// inspect loads the ownership facts that pick between Configuring and the
// auto-skip path. Embeds inherit ownership from their parent chat; an embed
// whose chat is gone locally is treated like foreign content.
func (f *Flow) inspect(ctx context.Context, target models.ShareTarget) (targetFacts, error) {
	switch target.Kind {
	case models.TargetChat:
		chat, err := f.chats.GetByID(ctx, target.ID)
		if err != nil {
			return targetFacts{}, fmt.Errorf("load chat: %w", err)
		}
		return targetFacts{owned: chat.Owned, public: chat.Public}, nil

	case models.TargetEmbed:
		emb, err := f.embeds.GetByID(ctx, target.ID)
		if err != nil {
			return targetFacts{}, fmt.Errorf("load embed: %w", err)
		}
		chat, err := f.chats.GetByID(ctx, emb.ChatID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return targetFacts{}, nil
			}
			return targetFacts{}, fmt.Errorf("load chat: %w", err)
		}
		return targetFacts{owned: chat.Owned}, nil

	default:
		return targetFacts{}, ErrNoTarget
	}
}

type generated struct {
	link string
	blob string
}

// runGenerate does the slow work unlocked, then commits the result only if
// the flow still points at the same target. Enqueueing happens after the
// commit and never affects the outcome.
func (f *Flow) runGenerate(ctx context.Context, target models.ShareTarget, epoch uint64, settings models.ShareSettings, publish bool) error {
	res, item, err := f.build(ctx, target, settings, publish)
	if err != nil {
		return err
	}

	f.mu.Lock()
	if f.epoch != epoch || f.target != target {
		f.mu.Unlock()
		return ErrStaleGeneration
	}
	f.epoch++
	f.state = StateLinkGenerated
	f.settings = settings
	f.link = res.link
	f.blob = res.blob
	f.qr = res.link
	f.mu.Unlock()

	if item != nil {
		if err := f.queue.Enqueue(ctx, *item); err != nil {
			f.logger.Warn(ctx, "queueing share metadata", "chat_id", item.ChatID, "error", err)
		} else {
			f.logger.Info(ctx, "share metadata queued", "chat_id", item.ChatID)
		}
	}
	return nil
}

// build produces the link and, when publish is set, the queue item. Strictly
// ordered: community assembly (with its embed-reference gate), then key
// retrieval, then blob encoding, then URL assembly.
func (f *Flow) build(ctx context.Context, target models.ShareTarget, settings models.ShareSettings, publish bool) (*generated, *models.QueueItem, error) {
	expiresAt := settings.Duration.ExpiresAt(f.now())

	switch target.Kind {
	case models.TargetEmbed:
		if _, err := f.embeds.GetByID(ctx, target.ID); err != nil {
			return nil, nil, fmt.Errorf("load embed: %w", err)
		}
		key, err := f.keys.GetOrCreate(ctx, models.TargetEmbed, target.ID, cryptox.NewKey())
		if err != nil {
			return nil, nil, fmt.Errorf("content key: %w", err)
		}
		blob, err := f.embedCodec.Encode(key, expiresAt, settings.Password)
		if err != nil {
			return nil, nil, err
		}
		return &generated{link: links.EmbedShareURL(f.origin, target.ID, blob), blob: blob}, nil, nil

	case models.TargetChat:
		chat, err := f.chats.GetByID(ctx, target.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("load chat: %w", err)
		}

		var community *models.CommunityPayload
		if settings.ShareWithCommunity {
			community, err = f.assembleCommunity(ctx, chat, settings.IncludeSensitive)
			if err != nil {
				return nil, nil, err
			}
		}

		key, err := f.keys.GetOrCreate(ctx, models.TargetChat, target.ID, cryptox.NewKey())
		if err != nil {
			return nil, nil, fmt.Errorf("content key: %w", err)
		}
		blob, err := f.chatCodec.Encode(key, expiresAt, settings.Password)
		if err != nil {
			return nil, nil, err
		}
		res := &generated{link: links.ChatShareURL(f.origin, target.ID, blob), blob: blob}

		if !publish {
			return res, nil, nil
		}
		return res, &models.QueueItem{
			ChatID:              chat.ID,
			Title:               chat.Title,
			Summary:             chat.Summary,
			Category:            chat.Category,
			Icon:                chat.Icon,
			FollowUpSuggestions: chat.FollowUpSuggestions,
			ShareWithCommunity:  settings.ShareWithCommunity,
			Community:           community,
		}, nil

	default:
		return nil, nil, ErrNoTarget
	}
}

// assembleCommunity builds the decrypted payload for a community share.
// Every embed reference must resolve before anything is assembled; PII
// placeholders are restored only when the sharer opted in.
func (f *Flow) assembleCommunity(ctx context.Context, chat *models.Chat, includeSensitive bool) (*models.CommunityPayload, error) {
	msgs, err := f.messages.ListByChat(ctx, chat.ID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	ids, err := f.redactor.ResolveEmbedRefs(ctx, msgs)
	if err != nil {
		return nil, err
	}

	var mappings []models.PIIMapping
	if includeSensitive {
		mappings, err = f.redactor.Mappings(ctx, chat.ID)
		if err != nil {
			return nil, fmt.Errorf("load mappings: %w", err)
		}
	}

	payload := &models.CommunityPayload{}
	for _, m := range msgs {
		content := m.Content
		if includeSensitive {
			content = redact.Restore(content, mappings)
		}
		payload.Messages = append(payload.Messages, models.SharedMessage{
			ID:      m.ID,
			Role:    m.Role,
			Content: content,
		})
	}
	for _, id := range ids {
		emb, err := f.embeds.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load embed %s: %w", id, err)
		}
		content := emb.Content
		if includeSensitive {
			content = redact.Restore(content, mappings)
		}
		payload.Embeds = append(payload.Embeds, models.SharedEmbed{
			ID:      emb.ID,
			Title:   emb.Title,
			Kind:    emb.Kind,
			Content: content,
		})
	}
	return payload, nil
}
