package server

import (
	"fmt"

	"warble/internal/models"
	"warble/internal/observability"
	"warble/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SignupForm handles GET /signup
func (s *Server) SignupForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"csrf_token":        csrfToken(c),
		"default_image_url": models.DefaultImageURL,
	})
}

// Signup handles POST /signup: creates the user and establishes a session
// (login-on-signup semantics).
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username, email, and password are required"))
	}

	user, err := s.authService.Signup(c.Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return respondError(c, err)
	}

	token, err := s.sessions.Create(c.Context(), user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	s.setSessionCookie(c, token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":     user,
		"redirect": "/",
	})
}

// LoginForm handles GET /login
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"csrf_token": csrfToken(c),
	})
}

// Login handles POST /login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Authenticate(c.Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		// Unknown username and wrong password are indistinguishable.
		observability.LoginAttempts.WithLabelValues("failure").Inc()
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials."))
	}

	token, err := s.sessions.Create(c.Context(), user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	s.setSessionCookie(c, token)
	observability.LoginAttempts.WithLabelValues("success").Inc()

	return c.JSON(fiber.Map{
		"user":     user,
		"message":  fmt.Sprintf("Hello, %s!", user.Username),
		"redirect": "/",
	})
}

// Logout handles POST /logout: revokes the session and clears the cookie.
// Logging out without a session is not an error.
func (s *Server) Logout(c *fiber.Ctx) error {
	if token := sessionToken(c); token != "" {
		if err := s.sessions.Destroy(c.Context(), token); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
	}
	s.clearSessionCookie(c)

	return c.JSON(fiber.Map{
		"message":  "Successfully logged out!",
		"redirect": "/login",
	})
}
