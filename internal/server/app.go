// Package server initializes and runs the memorylane application server.
// It opens the database, applies migrations, wires services, handles
// graceful shutdown, and starts the HTTP server for the public API.
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

	"github.com/dmitrijs2005/memorylane/internal/logging"
	"github.com/dmitrijs2005/memorylane/internal/server/config"
	"github.com/dmitrijs2005/memorylane/internal/server/github"
	"github.com/dmitrijs2005/memorylane/internal/server/http"
	"github.com/dmitrijs2005/memorylane/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/memorylane/internal/server/services"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	userService   *services.Users
	memoryService *services.Memories
	uploadService *services.Uploads
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	identity := github.NewClient(c.GithubClientID, c.GithubClientSecret, c.GithubOAuthEndpoint, c.GithubAPIEndpoint)

	us := services.NewUsers(db, rm, identity, c)
	ms := services.NewMemories(db, rm)
	up := services.NewUploads(c)

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		userService:   us,
		memoryService: ms,
		uploadService: up,
	}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := http.NewServer(
		app.config.EndpointAddrHTTP,
		[]byte(app.config.SecretKey),
		app.userService,
		app.memoryService,
		app.uploadService,
		app.logger,
	)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
