package server

import (
	"fmt"

	"warble/internal/models"

	"github.com/gofiber/fiber/v2"
)

// HomeFeed handles GET /: for an authenticated user, the most recent
// messages from them and everyone they follow; for anonymous visitors, an
// empty view.
func (s *Server) HomeFeed(c *fiber.Ctx) error {
	actorID := currentUserID(c)
	messages, err := s.messageService.HomeFeed(c.Context(), actorID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"anonymous": actorID == 0,
		"messages":  messages,
	})
}

// MessageForm handles GET /messages/new
func (s *Server) MessageForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"csrf_token": csrfToken(c),
		"max_length": models.MaxMessageLength,
	})
}

// CreateMessage handles POST /messages/new
func (s *Server) CreateMessage(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	actorID := currentUserID(c)
	message, err := s.messageService.Post(c.Context(), actorID, req.Text)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  message,
		"redirect": fmt.Sprintf("/users/%d", actorID),
	})
}

// GetMessage handles GET /messages/:id
func (s *Server) GetMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	message, err := s.messageService.Get(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": message})
}

// DeleteMessage handles POST /messages/:id/delete. Only the owner may
// delete a message.
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actorID := currentUserID(c)

	if err := s.messageService.Delete(c.Context(), actorID, id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"redirect": fmt.Sprintf("/users/%d", actorID),
	})
}

// LikeMessage handles POST /messages/:id/like
func (s *Server) LikeMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.messageService.Like(c.Context(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"redirect": "/"})
}

// UnlikeMessage handles POST /messages/:id/unlike
func (s *Server) UnlikeMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.messageService.Unlike(c.Context(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"redirect": "/"})
}
