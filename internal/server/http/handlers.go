package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/server/models"
	"github.com/dmitrijs2005/memorylane/internal/server/services"
)

type errorResponse struct {
	Message string `json:"message"`
}

// registerRequest is the body of POST /register.
type registerRequest struct {
	Code string `json:"code"`
}

// memoryRequest is the body of POST and PUT /memories. There is no owner
// field: ownership always comes from the token.
type memoryRequest struct {
	Content  string  `json:"content"`
	CoverURL string  `json:"coverUrl"`
	Date     *string `json:"date"`
	IsPublic bool    `json:"isPublic"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type memoryResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Content   string     `json:"content"`
	CoverURL  string     `json:"coverUrl"`
	Date      *time.Time `json:"date"`
	IsPublic  bool       `json:"isPublic"`
	CreatedAt time.Time  `json:"createdAt"`
}

type excerptResponse struct {
	ID        string     `json:"id"`
	CoverURL  string     `json:"coverUrl"`
	Excerpt   string     `json:"excerpt"`
	Date      *time.Time `json:"date"`
	CreatedAt time.Time  `json:"createdAt"`
}

func toMemoryResponse(m *models.Memory) memoryResponse {
	return memoryResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Content:   m.Content,
		CoverURL:  m.CoverURL,
		Date:      m.Date,
		IsPublic:  m.IsPublic,
		CreatedAt: m.CreatedAt,
	}
}

func toExcerptResponses(ms []services.MemoryExcerpt) []excerptResponse {
	out := make([]excerptResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, excerptResponse{
			ID:        m.ID,
			CoverURL:  m.CoverURL,
			Excerpt:   m.Excerpt,
			Date:      m.Date,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}

// fail maps service errors onto the API's status taxonomy. The original
// product answered 401 for both missing auth and not-owner, so forbidden is
// folded into unauthorized here.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Message: err.Error()})
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrorForbidden):
		return unauthorized(c)
	case errors.Is(err, common.ErrorNotFound):
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Message: "not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Message: "internal error"})
	}
}

func validationError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Message: msg})
}

// uuidParam parses a route parameter as a UUID string.
func uuidParam(c *fiber.Ctx, name string) (string, bool) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// parseMemoryRequest validates the shared create/update body. The optional
// date accepts RFC 3339 timestamps and plain dates.
func parseMemoryRequest(c *fiber.Ctx) (*services.MemoryInput, error) {
	var req memoryRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errors.New("malformed body")
	}
	if req.Content == "" {
		return nil, errors.New("content is required")
	}
	if req.CoverURL == "" {
		return nil, errors.New("coverUrl is required")
	}

	in := &services.MemoryInput{
		Content:  req.Content,
		CoverURL: req.CoverURL,
		IsPublic: req.IsPublic,
	}

	if req.Date != nil && *req.Date != "" {
		d, err := parseDate(*req.Date)
		if err != nil {
			return nil, errors.New("date must be ISO-8601")
		}
		in.Date = &d
	}

	return in, nil
}

func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d, nil
	}
	return time.Parse("2006-01-02", s)
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleRegister exchanges a GitHub authorization code for a local user and
// an access token.
func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return validationError(c, "code is required")
	}

	user, token, err := s.users.Register(c.Context(), req.Code)
	if err != nil {
		s.logger.Error(c.Context(), "registration failed", "error", err.Error())
		return fail(c, err)
	}

	s.logger.Info(c.Context(), "user registered", "login", user.Login)

	return c.JSON(fiber.Map{
		"user": userResponse{
			ID:        user.ID,
			Login:     user.Login,
			Name:      user.Name,
			AvatarURL: user.AvatarURL,
			CreatedAt: user.CreatedAt,
		},
		"token": token,
	})
}

// handleListOwn returns the caller's memories as excerpts, oldest first.
func (s *Server) handleListOwn(c *fiber.Ctx) error {
	memories, err := s.memories.ListOwn(c.Context(), actorFromCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toExcerptResponses(memories))
}

// handleGetMemory returns one full memory, visibility-checked.
func (s *Server) handleGetMemory(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return validationError(c, "id must be a uuid")
	}

	memory, err := s.memories.Get(c.Context(), actorFromCtx(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"memory": toMemoryResponse(memory)})
}

// handlePublicFeed returns another user's profile and public memories.
// No authentication required.
func (s *Server) handlePublicFeed(c *fiber.Ctx) error {
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return validationError(c, "userId must be a uuid")
	}

	feed, err := s.memories.GetPublicFeed(c.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(errorResponse{
				Message: "A user with this id does not exist.",
			})
		}
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"name":      feed.User.Name,
			"avatarUrl": feed.User.AvatarURL,
		},
		"memories": toExcerptResponses(feed.Memories),
	})
}

// handleCreateMemory creates a memory owned by the caller.
func (s *Server) handleCreateMemory(c *fiber.Ctx) error {
	in, err := parseMemoryRequest(c)
	if err != nil {
		return validationError(c, err.Error())
	}

	memory, err := s.memories.Create(c.Context(), actorFromCtx(c), *in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"memory": toMemoryResponse(memory)})
}

// handleUpdateMemory overwrites the mutable fields of a memory the caller owns.
func (s *Server) handleUpdateMemory(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return validationError(c, "id must be a uuid")
	}

	in, err := parseMemoryRequest(c)
	if err != nil {
		return validationError(c, err.Error())
	}

	memory, err := s.memories.Update(c.Context(), actorFromCtx(c), id, *in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"memory": toMemoryResponse(memory)})
}

// handleDeleteMemory deletes a memory the caller owns.
func (s *Server) handleDeleteMemory(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return validationError(c, "id must be a uuid")
	}

	if err := s.memories.Delete(c.Context(), actorFromCtx(c), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handlePresignUpload returns a one-time PUT URL for a cover image.
func (s *Server) handlePresignUpload(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	upload, err := s.uploads.PresignCoverPut(c.Context(), actor.UserID)
	if err != nil {
		s.logger.Error(c.Context(), "presign failed", "error", err.Error())
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"uploadUrl": upload.UploadURL,
		"fileUrl":   upload.FileURL,
	})
}
