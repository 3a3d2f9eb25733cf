package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/discera/discera-client/internal/client/client"
	"github.com/discera/discera-client/internal/client/config"
	"github.com/discera/discera-client/internal/client/models"
	"github.com/discera/discera-client/internal/client/repositories/remember"
	"github.com/discera/discera-client/internal/client/repositories/tokens"
	"github.com/discera/discera-client/internal/client/services"
	"github.com/discera/discera-client/internal/client/storage"
	"github.com/discera/discera-client/internal/logging"
)

// sessionAPI is the part of *services.SessionManager the CLI drives.
type sessionAPI interface {
	Init(ctx context.Context) error
	Login(ctx context.Context, email, password string, opts ...services.LoginOption) (*models.User, error)
	Register(ctx context.Context, req models.RegisterRequest, opts ...services.LoginOption) (*models.User, error)
	Logout(ctx context.Context) error
	CheckAuth(ctx context.Context) error
	Snapshot() services.Snapshot
	Subscribe(fn services.Listener) func()
	RememberedEmail(ctx context.Context) (string, error)
	RequestPasswordReset(ctx context.Context, email string) error
	Teardown()
}

type App struct {
	config  *config.Config
	session sessionAPI
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	closers []func() error
}

// NewApp opens the configured store and builds the session manager on top
// of an HTTP client for cfg.ServerURL.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}

	api := client.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout)

	sm := services.NewSessionManager(
		api,
		tokens.NewMetadataRepository(store.Metadata),
		remember.NewMetadataRepository(store.Metadata),
		log,
		services.SessionConfig{
			CheckAuthRetries: cfg.CheckAuthRetries,
			CheckAuthBackoff: cfg.CheckAuthBackoff,
			LocalExpiryCheck: cfg.LocalExpiryCheck,
		},
	)

	return &App{
		config:  cfg,
		session: sm,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		closers: []func() error{api.Close, store.Close},
	}, nil
}

// Close tears down the session and releases the client and the store.
func (a *App) Close() error {
	a.session.Teardown()

	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.log.Warn(ctx, "shutdown", "error", err)
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().Phase == services.PhaseAuthenticated
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
