package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/privychat/sharekit/internal/migrations"
	"github.com/privychat/sharekit/internal/repositories/chats"
	"github.com/privychat/sharekit/internal/repositories/embeds"
	"github.com/privychat/sharekit/internal/repositories/keys"
	"github.com/privychat/sharekit/internal/repositories/mappings"
	"github.com/privychat/sharekit/internal/repositories/messages"
	"github.com/privychat/sharekit/internal/repositories/outbox"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Repositories bundles every store the app works with, all bound to the same
// SQLite database.
type Repositories struct {
	Chats    chats.Repository
	Messages messages.Repository
	Embeds   embeds.Repository
	Mappings mappings.Repository
	Keys     keys.Repository
	Outbox   outbox.Repository
	DB       *sql.DB
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if necessary) the local database at dsn,
// applies migrations, and returns the repository bundle over it.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	repos := &Repositories{
		Chats:    chats.NewSQLiteRepository(db),
		Messages: messages.NewSQLiteRepository(db),
		Embeds:   embeds.NewSQLiteRepository(db),
		Mappings: mappings.NewSQLiteRepository(db),
		Keys:     keys.NewSQLiteRepository(db),
		Outbox:   outbox.NewSQLiteRepository(db),
		DB:       db,
	}
	return repos, nil
}
