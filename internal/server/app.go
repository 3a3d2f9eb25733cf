// Package server wires the reference auth server: user storage, the users
// service and the HTTP API, with graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/discera/discera-client/internal/logging"
	"github.com/discera/discera-client/internal/server/config"
	"github.com/discera/discera-client/internal/server/rest"
	"github.com/discera/discera-client/internal/server/shared/db"
	"github.com/discera/discera-client/internal/server/users"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repos       db.RepositoryManager
	userService *users.Service
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, "json")

	rm, err := db.NewRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := users.NewService(rm.Users(), logger.With("module", "users"), c)

	return &App{config: c, logger: logger, repos: rm, userService: us}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// prepare migrates the schema and seeds demo users when configured to.
func (app *App) prepare(ctx context.Context) error {
	if err := app.repos.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	if app.config.SeedDemoUsers {
		created, err := app.userService.SeedDemoUsers(ctx)
		if err != nil {
			return err
		}
		app.logger.Info(ctx, "demo users seeded", "created", created)
	}
	return nil
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	defer func() {
		if err := app.repos.Close(); err != nil {
			app.logger.Error(ctx, "close storage", "error", err)
		}
	}()

	if err := app.prepare(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	s := rest.NewServer(app.config.EndpointAddr, app.logger, app.userService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	return nil
}
