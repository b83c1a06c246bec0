package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// setCookie stores a credential. Max-Age follows the credential TTL.
func (s *Server) setCookie(c *fiber.Ctx, name, value string, ttl time.Duration, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   s.cfg.Production,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// clearCookie overwrites the cookie with an empty, already expired one.
func (s *Server) clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-24 * time.Hour),
		HTTPOnly: true,
		Secure:   s.cfg.Production,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
