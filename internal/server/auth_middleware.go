package server

import (
	"shayarihub/internal/authz"
	"shayarihub/internal/middleware"
	"shayarihub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired resolves the session token to a current user record. The
// role and active flag always come from the store, so a ban or role change
// applies to tokens issued before it.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := middleware.TokenFromRequest(c)
		if token == "" {
			return mapServiceError(c, authz.ErrUnauthenticated)
		}

		user, err := s.authService.Authenticate(c.UserContext(), token)
		if err != nil {
			return mapServiceError(c, err)
		}
		if !user.IsActive {
			return mapServiceError(c, authz.ErrBanned)
		}

		s.setCaller(c, user)
		return c.Next()
	}
}

// OptionalAuth attaches the caller when a valid session is present and lets
// anonymous or invalid requests through untouched.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := middleware.TokenFromRequest(c)
		if token == "" {
			return c.Next()
		}
		user, err := s.authService.Authenticate(c.UserContext(), token)
		if err == nil && user.IsActive {
			s.setCaller(c, user)
		}
		return c.Next()
	}
}

// RequireRole rejects callers ranked below role. Must be placed after
// AuthRequired.
func (s *Server) RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authz.Require(currentActor(c), role); err != nil {
			return mapServiceError(c, err)
		}
		return c.Next()
	}
}

func (s *Server) setCaller(c *fiber.Ctx, user *models.User) {
	c.Locals("userID", user.ID)
	c.Locals("user", user)
	c.Locals("actor", authz.ActorFromUser(user))
	c.SetUserContext(middleware.WithUserID(c.UserContext(), user.ID))
}
