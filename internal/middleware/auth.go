package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "token"

// TokenFromRequest returns the session token from the cookie, falling back to
// an "Authorization: Bearer" header for non-browser clients.
func TokenFromRequest(c *fiber.Ctx) string {
	if tok := strings.TrimSpace(c.Cookies(SessionCookie)); tok != "" {
		return tok
	}
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
