// Package server initializes and runs the main application server.
// It opens the database, runs migrations, wires the services together,
// and starts the HTTP API with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/patronly/patronly/internal/logging"
	"github.com/patronly/patronly/internal/server/chain"
	"github.com/patronly/patronly/internal/server/config"
	"github.com/patronly/patronly/internal/server/httpapi"
	"github.com/patronly/patronly/internal/server/repositories/repomanager"
	"github.com/patronly/patronly/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
	db     *sql.DB
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager()
	if err != nil {
		return nil, fmt.Errorf("repo init error: %w", err)
	}

	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	verifier, err := chain.NewVerifier(c.ChainRPCURL, c.ChainRequestTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("chain client error: %w", err)
	}

	media := services.NewMediaService(c)
	identity := services.NewIdentityService(db, rm, c)
	content := services.NewContentService(db, rm, media, logger)
	ledger := services.NewLedgerService(db, rm, verifier, logger)

	server := httpapi.NewServer(c.EndpointAddrHTTP, logger, identity, content, ledger, media)

	return &App{config: c, logger: logger, server: server, db: db}, nil
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

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
