package httpapi

import (
	"github.com/dmitrijs2005/linkdir/internal/logging"
	"github.com/dmitrijs2005/linkdir/internal/server/auth"
	"github.com/gofiber/fiber/v2"
)

// withRequestContext puts the request id into the user context so service
// logs can be correlated with the response header.
func withRequestContext(c *fiber.Ctx) error {
	id := c.GetRespHeader(fiber.HeaderXRequestID)
	c.SetUserContext(logging.WithRequestID(c.UserContext(), id))
	return c.Next()
}

// requireSession reads the session cookie and stores its claims in locals.
// missing is the message sent when no cookie is present.
func (s *Server) requireSession(missing string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			return errorJSON(c, fiber.StatusUnauthorized, missing)
		}

		claims, err := s.users.ValidateSession(token)
		if err != nil {
			s.logger.Debug(c.UserContext(), "session rejected", "error", err)
			return errorJSON(c, fiber.StatusUnauthorized, "Invalid authentication token")
		}

		c.Locals(localClaims, claims)
		return c.Next()
	}
}

func sessionClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(localClaims).(*auth.Claims)
	return claims, ok && claims != nil
}

func (s *Server) requireAdmin(c *fiber.Ctx) error {
	if err := s.admin.Authorize(c.Cookies(AdminCookie)); err != nil {
		s.logger.Debug(c.UserContext(), "admin credential rejected", "path", c.Path(), "error", err)
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return c.Next()
}
