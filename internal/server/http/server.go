// Package http exposes the public HTTP API of the memorylane server.
package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/memorylane/internal/logging"
	"github.com/dmitrijs2005/memorylane/internal/server/access"
	"github.com/dmitrijs2005/memorylane/internal/server/models"
	"github.com/dmitrijs2005/memorylane/internal/server/services"
)

// UserService is the slice of the users service the handlers need.
type UserService interface {
	Register(ctx context.Context, code string) (*models.User, string, error)
}

// MemoryService is the slice of the memories service the handlers need.
type MemoryService interface {
	ListOwn(ctx context.Context, actor access.Actor) ([]services.MemoryExcerpt, error)
	GetPublicFeed(ctx context.Context, ownerID string) (*services.PublicFeed, error)
	Get(ctx context.Context, actor access.Actor, id string) (*models.Memory, error)
	Create(ctx context.Context, actor access.Actor, in services.MemoryInput) (*models.Memory, error)
	Update(ctx context.Context, actor access.Actor, id string, in services.MemoryInput) (*models.Memory, error)
	Delete(ctx context.Context, actor access.Actor, id string) error
}

// UploadService hands out presigned cover-image upload slots.
type UploadService interface {
	PresignCoverPut(ctx context.Context, userID string) (*services.CoverUpload, error)
}

// Server is the HTTP server for the memories API.
type Server struct {
	addr      string
	jwtSecret []byte
	users     UserService
	memories  MemoryService
	uploads   UploadService
	logger    logging.Logger
	app       *fiber.App
}

// NewServer creates a new API server. The services are injected so handler
// tests can run against fakes.
func NewServer(addr string, jwtSecret []byte, us UserService, ms MemoryService, up UploadService, logger logging.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		addr:      addr,
		jwtSecret: jwtSecret,
		users:     us,
		memories:  ms,
		uploads:   up,
		logger:    logger.With("module", "http_server"),
		app:       app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/register", s.handleRegister)
	app.Get("/user/:userId/memories", s.handlePublicFeed)

	app.Get("/memories", s.requireAuth, s.handleListOwn)
	app.Get("/memories/:id", s.requireAuth, s.handleGetMemory)
	app.Post("/memories", s.requireAuth, s.handleCreateMemory)
	app.Put("/memories/:id", s.requireAuth, s.handleUpdateMemory)
	app.Delete("/memories/:id", s.requireAuth, s.handleDeleteMemory)
	app.Post("/uploads", s.requireAuth, s.handlePresignUpload)

	return s
}

// Run starts the server and blocks until the context is cancelled or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		_ = s.app.Shutdown()
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.addr)
	return s.app.Listen(s.addr)
}
