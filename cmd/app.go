package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aurumfx/lbadmin/internal/api"
	"github.com/aurumfx/lbadmin/internal/auth"
	"github.com/aurumfx/lbadmin/internal/config"
	"github.com/aurumfx/lbadmin/internal/country"
	"github.com/aurumfx/lbadmin/internal/keyring"
	"github.com/aurumfx/lbadmin/internal/leaderboard"
	"github.com/aurumfx/lbadmin/internal/logging"
)

// app is the wired set of collaborators a command runs against.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	session *auth.SessionStore
	guard   *auth.Guard

	// loginClient carries no token; client sends the session token.
	loginClient *api.Client
	client      *api.Client
	ctrl        *leaderboard.Controller
}

// appLoader builds an app. Commands take one so tests can inject theirs.
type appLoader func() (*app, error)

// newApp wires the session, API clients and controller. The persisted
// session is loaded before returning.
func newApp(cfg *config.Config, persist auth.Persister, log zerolog.Logger) *app {
	session := auth.NewSessionStore(persist, log)
	session.Hydrate()

	newClient := func(tokens api.TokenProvider) *api.Client {
		return api.NewClient(cfg.APIBaseURL, tokens).
			WithTimeout(cfg.RequestTimeout()).
			WithRateLimit(cfg.RequestsPerSecond).
			WithLogger(log)
	}

	client := newClient(session)
	ctrl := leaderboard.NewController(api.NewTraderService(client), leaderboard.Options{
		PageSize:  cfg.PageSize,
		Session:   session,
		Countries: country.Default(),
		Logger:    log,
	})

	return &app{
		cfg:         cfg,
		log:         log,
		session:     session,
		guard:       auth.NewGuard(session),
		loginClient: newClient(nil),
		client:      client,
		ctrl:        ctrl,
	}
}

// loadApp builds the production app from the config file, .env and the
// configured session backend.
func loadApp() (*app, error) {
	config.LoadEnvFile()

	cfg, err := config.Load(GetConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := logging.New(cfg, logging.Dir())

	var persist auth.Persister
	switch cfg.SessionBackend {
	case config.SessionBackendFile:
		persist = auth.NewFilePersister(auth.SessionFilePath())
	default:
		persist = auth.NewKeyringPersister(keyring.NewEnvStore(keyring.NewSystemStore()))
	}

	return newApp(cfg, persist, log), nil
}

// context returns a deadline for one command: a load plus a mutation and
// its follow-up reload.
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout := 3 * a.cfg.RequestTimeout()
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}
