package server

import (
	"context"
	"errors"

	"shayarihub/internal/authz"
	"shayarihub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID reads the :id route parameter as a positive uint. On failure it
// writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// mapServiceError writes err in the error envelope. Deadline overruns become
// 504 so clients can retry.
func mapServiceError(c *fiber.Ctx, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.RespondWithError(c, fiber.StatusGatewayTimeout,
			&models.AppError{Code: "TIMEOUT", Message: "Request timed out"})
	}
	return models.RespondWithAppError(c, err)
}

// currentUser returns the user loaded by AuthRequired or OptionalAuth.
func currentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals("user").(*models.User)
	return u
}

// currentActor returns the authorization actor for the request, nil when
// the request is anonymous.
func currentActor(c *fiber.Ctx) *authz.Actor {
	a, _ := c.Locals("actor").(*authz.Actor)
	return a
}

// viewerID is the caller's id or 0 for anonymous requests.
func viewerID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// queryPage reads page and limit from the query string.
func queryPage(c *fiber.Ctx) (int, int) {
	return c.QueryInt("page", 1), c.QueryInt("limit", 0)
}
