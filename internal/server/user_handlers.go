package server

import (
	"fmt"

	"warble/internal/models"
	"warble/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListUsers handles GET /users. An optional "q" query parameter filters by
// username substring.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	users, err := s.userService.SearchUsers(c.Context(), c.Query("q"), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// GetUser handles GET /users/:id: the profile page with the user's like
// count and recent messages.
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, likeCount, err := s.userService.GetProfile(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	p := parsePagination(c, 20)
	messages, err := s.messageService.MessagesByUser(c.Context(), id, p.Limit, p.Offset, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":            user,
		"number_of_likes": likeCount,
		"messages":        messages,
	})
}

// ShowFollowing handles GET /users/:id/following
func (s *Server) ShowFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	users, err := s.followService.Following(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"following": users})
}

// ShowFollowers handles GET /users/:id/followers
func (s *Server) ShowFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	users, err := s.followService.Followers(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"followers": users})
}

// FollowUser handles POST /users/follow/:id
func (s *Server) FollowUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actorID := currentUserID(c)

	if err := s.followService.Follow(c.Context(), actorID, id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"redirect": fmt.Sprintf("/users/%d/following", actorID),
	})
}

// StopFollowing handles POST /users/stop-following/:id
func (s *Server) StopFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actorID := currentUserID(c)

	if err := s.followService.Unfollow(c.Context(), actorID, id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"redirect": fmt.Sprintf("/users/%d/following", actorID),
	})
}

// ProfileForm handles GET /users/profile: the current user's editable fields.
func (s *Server) ProfileForm(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":       user,
		"csrf_token": csrfToken(c),
	})
}

// UpdateProfile handles POST /users/profile. The confirm password is
// re-verified before any field is applied.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		ImageURL        string `json:"image_url"`
		HeaderImageURL  string `json:"header_image_url"`
		Bio             string `json:"bio"`
		Location        string `json:"location"`
		ConfirmPassword string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	actorID := currentUserID(c)
	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:          actorID,
		Username:        req.Username,
		Email:           req.Email,
		ImageURL:        req.ImageURL,
		HeaderImageURL:  req.HeaderImageURL,
		Bio:             req.Bio,
		Location:        req.Location,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":     user,
		"redirect": fmt.Sprintf("/users/%d", actorID),
	})
}

// DeleteAccount handles POST /users/delete. The session is terminated
// first, then the account and everything it owns is removed in one
// transaction.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	actorID := currentUserID(c)

	if token := sessionToken(c); token != "" {
		if err := s.sessions.Destroy(c.Context(), token); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
	}
	s.clearSessionCookie(c)

	if err := s.userService.DeleteAccount(c.Context(), actorID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"redirect": "/signup",
	})
}

// ListLikes handles GET /users/:id/likes
func (s *Server) ListLikes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	messages, err := s.messageService.LikedMessages(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"likes": messages})
}
