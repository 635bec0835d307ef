package cli

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/privychat/sharekit/internal/common"
	"github.com/privychat/sharekit/internal/dbx"
	"github.com/privychat/sharekit/internal/models"
	"github.com/privychat/sharekit/internal/repositories/chats"
	"github.com/privychat/sharekit/internal/repositories/embeds"
	"github.com/privychat/sharekit/internal/repositories/mappings"
	"github.com/privychat/sharekit/internal/repositories/messages"
)

// Seed populates the local store with demo content: the public welcome chat,
// an owned chat with PII mappings and an embed, a chat shared by someone
// else, and a draft with a dangling embed reference. All writes happen in one
// transaction. Running it again once the data exists is a no-op.
func (a *App) Seed(ctx context.Context) error {
	if _, err := a.repos.Chats.GetByID(ctx, "demo-welcome"); err == nil {
		printlnFn("Demo data already present.")
		return nil
	} else if !errors.Is(err, common.ErrorNotFound) {
		printlnFn("Error:", err.Error())
		return err
	}

	itineraryID := uuid.NewString()

	err := dbx.WithTx(ctx, a.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return seedDemoData(ctx, tx, itineraryID)
	})
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn("Seeded 4 chats and 1 embed.")
	printlnFn("Try: share chat demo-welcome | share chat trip-planning | share embed " + itineraryID)
	return nil
}

func seedDemoData(ctx context.Context, tx dbx.DBTX, itineraryID string) error {
	chatRepo := chats.NewSQLiteRepository(tx)
	messageRepo := messages.NewSQLiteRepository(tx)
	embedRepo := embeds.NewSQLiteRepository(tx)
	mappingRepo := mappings.NewSQLiteRepository(tx)

	now := time.Now().Unix()

	seedChats := []models.Chat{
		{
			ID:        "demo-welcome",
			Title:     "Welcome to PrivyChat",
			Public:    true,
			CreatedAt: now - 400,
		},
		{
			ID:                  "trip-planning",
			Title:               "Weekend trip planning",
			Summary:             "Two-day city trip with a packed itinerary",
			Category:            "travel",
			Icon:                "suitcase",
			FollowUpSuggestions: []string{"Add restaurant ideas", "Shorten day two"},
			Owned:               true,
			CreatedAt:           now - 300,
		},
		{
			ID:        "shared-with-me",
			Title:     "Borrowed recipe ideas",
			CreatedAt: now - 200,
		},
		{
			ID:        "broken-refs",
			Title:     "Draft with a missing embed",
			Owned:     true,
			CreatedAt: now - 100,
		},
	}
	for i := range seedChats {
		if err := chatRepo.Save(ctx, &seedChats[i]); err != nil {
			return err
		}
	}

	type turn struct{ role, content string }
	seedMessages := map[string][]turn{
		"demo-welcome": {
			{"user", "What can I do here?"},
			{"assistant", "Plan, draft, and analyze privately. Everything stays on your device."},
		},
		"trip-planning": {
			{"user", "Plan a weekend in Lisbon for [NAME_1]. Send the booking confirmations to [EMAIL_1]."},
			{"assistant", "Done. Day-by-day plan: embed://" + itineraryID},
		},
		"shared-with-me": {
			{"user", "Any quick dinner ideas?"},
			{"assistant", "Three pasta dishes, each under twenty minutes."},
		},
		"broken-refs": {
			{"assistant", "The chart lives at embed://missing-chart"},
		},
	}
	for chatID, turns := range seedMessages {
		for i, tn := range turns {
			m := &models.Message{
				ID:      uuid.NewString(),
				ChatID:  chatID,
				Role:    tn.role,
				Seq:     i + 1,
				Content: tn.content,
			}
			if err := messageRepo.Save(ctx, m); err != nil {
				return err
			}
		}
	}

	emb := &models.Embed{
		ID:      itineraryID,
		ChatID:  "trip-planning",
		Title:   "Lisbon weekend itinerary",
		Kind:    "doc",
		Content: "Saturday: Alfama walk with [NAME_1]. Sunday: Belém and the river.",
	}
	if err := embedRepo.Save(ctx, emb); err != nil {
		return err
	}

	pii := []models.PIIMapping{
		{Placeholder: "[NAME_1]", Original: "Dana", Category: "name"},
		{Placeholder: "[EMAIL_1]", Original: "dana@example.com", Category: "email"},
	}
	for _, m := range pii {
		if err := mappingRepo.Save(ctx, "trip-planning", m); err != nil {
			return err
		}
	}

	return nil
}
