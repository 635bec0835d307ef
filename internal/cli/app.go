package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/privychat/sharekit/internal/api"
	"github.com/privychat/sharekit/internal/config"
	"github.com/privychat/sharekit/internal/logging"
	"github.com/privychat/sharekit/internal/metasync"
	"github.com/privychat/sharekit/internal/redact"
	"github.com/privychat/sharekit/internal/session"
	"github.com/privychat/sharekit/internal/shareflow"
)

// App ties the share core together for interactive use: one flow, one queue,
// one session, one local store.
type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   *Repositories
	session *session.Session
	queue   *metasync.Queue
	flow    *shareflow.Flow
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp builds the full dependency graph from config: local database with
// migrations, file-backed session, HTTP client, metadata queue, and the share
// flow on top of them.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	repos, err := InitDatabase(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	logger := logging.NewDefault()
	sess := session.NewFileSession(c.TokenPath)
	client := api.NewClient(c.APIBaseURL, c.HTTPTimeout, sess)
	queue := metasync.NewQueue(repos.Outbox, client, logger, c.DrainInterval)

	flow := shareflow.New(shareflow.Deps{
		Origin:   c.Origin,
		Chats:    repos.Chats,
		Messages: repos.Messages,
		Embeds:   repos.Embeds,
		Keys:     repos.Keys,
		Redactor: redact.NewEngine(repos.Mappings, repos.Embeds),
		Queue:    queue,
		Server:   client,
		Auth:     sess,
		Logger:   logger,
	})

	return &App{
		config:  c,
		logger:  logger,
		repos:   repos,
		session: sess,
		queue:   queue,
		flow:    flow,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run starts the queue drain loop in the background and hands control to the
// REPL. It blocks until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	go a.queue.Run(ctx)

	printlnFn("sharekit (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// Close releases the local database.
func (a *App) Close() {
	if a.repos != nil && a.repos.DB != nil {
		_ = a.repos.DB.Close()
	}
}

// getStatus renders the prompt suffix: user, machine state, active target.
func (a *App) getStatus() string {
	user := "anonymous"
	if id, err := a.session.UserID(); err == nil {
		user = id
	}
	s := fmt.Sprintf("%s %s", user, a.flow.State())
	if target := a.flow.Target(); !target.IsZero() {
		s = fmt.Sprintf("%s %s", s, target)
	}
	return "(" + s + ")"
}
