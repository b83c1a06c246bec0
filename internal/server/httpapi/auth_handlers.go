package httpapi

import (
	"strings"

	"github.com/dmitrijs2005/linkdir/internal/common"
	"github.com/dmitrijs2005/linkdir/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

// parseEmailRequest decodes and validates a signup or signin body. It
// writes the 400 response itself and returns ok=false when the request is
// unusable.
func (s *Server) parseEmailRequest(c *fiber.Ctx) (EmailRequest, bool, error) {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return req, false, errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Missing(s.users.CaptchaRequired()) {
		return req, false, errorJSON(c, fiber.StatusBadRequest, "Email and reCAPTCHA token are required")
	}
	if err := req.Validate(); err != nil {
		return req, false, errorJSON(c, fiber.StatusBadRequest, "Invalid email format")
	}
	req.Email = strings.TrimSpace(req.Email)
	return req, true, nil
}

// Signup handles POST /auth/signup.
func (s *Server) Signup(c *fiber.Ctx) error {
	req, ok, err := s.parseEmailRequest(c)
	if !ok {
		return err
	}

	if err := s.users.Signup(c.UserContext(), req.Email, req.RecaptchaToken); err != nil {
		return s.fail(c, err,
			with(common.ErrorAlreadyExists, "User already exists. Please sign in instead."),
			with(services.ErrMailDelivery, "Failed to send verification email"),
		)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Verification email sent successfully",
	})
}

// Signin handles POST /auth/signin.
func (s *Server) Signin(c *fiber.Ctx) error {
	req, ok, err := s.parseEmailRequest(c)
	if !ok {
		return err
	}

	if err := s.users.Signin(c.UserContext(), req.Email, req.RecaptchaToken); err != nil {
		return s.fail(c, err,
			with(common.ErrorNotFound, "User not found. Please sign up instead."),
			with(common.ErrorTooManyRequests, "Please wait before requesting another sign-in link"),
			with(services.ErrMailDelivery, "Failed to send signin email"),
		)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Signin email sent successfully",
	})
}

// Verify handles POST /auth/verify: it redeems the link token and sets the
// session cookie.
func (s *Server) Verify(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Token and email are required")
	}

	session, err := s.users.Verify(c.UserContext(), req.Token, req.Email)
	if err != nil {
		return s.fail(c, err,
			with(common.ErrorValidation, "Token and email are required"),
		)
	}

	s.setCookie(c, SessionCookie, session.Token, s.cfg.SessionTTL, session.ExpiresAt)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email verified successfully",
		"user":    toUserView(session.User),
	})
}

// Me handles GET /auth/me.
func (s *Server) Me(c *fiber.Ctx) error {
	claims, ok := sessionClaims(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "No authentication token")
	}

	user, err := s.users.CurrentUser(c.UserContext(), claims)
	if err != nil {
		return s.fail(c, err, with(common.ErrorNotFound, "User not found"))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    toUserView(user),
	})
}

// Logout handles POST /auth/logout. Sessions are not revocable; the cookie
// is simply dropped.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.clearCookie(c, SessionCookie)
	return c.JSON(fiber.Map{"success": true})
}
