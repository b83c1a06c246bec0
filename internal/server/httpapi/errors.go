package httpapi

import (
	"errors"

	"github.com/dmitrijs2005/linkdir/internal/common"
	"github.com/dmitrijs2005/linkdir/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

// override replaces the default client message for errors matching target.
type override struct {
	target  error
	message string
}

func with(target error, message string) override {
	return override{target: target, message: message}
}

// classify maps a service error to an HTTP status and a client-safe
// message. Order matters: wrapped sentinels are checked most specific first.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrCaptchaFailed):
		return fiber.StatusBadRequest, "reCAPTCHA verification failed"
	case errors.Is(err, common.ErrorValidation):
		return fiber.StatusBadRequest, "Invalid request"
	case errors.Is(err, common.ErrorAlreadyExists):
		return fiber.StatusConflict, "Already exists"
	case errors.Is(err, common.ErrorNotFound):
		return fiber.StatusNotFound, "Not found"
	case errors.Is(err, common.ErrTokenExpired):
		return fiber.StatusBadRequest, "Verification token expired"
	case errors.Is(err, common.ErrInvalidToken):
		return fiber.StatusBadRequest, "Invalid verification token"
	case errors.Is(err, common.ErrorUnauthorized):
		return fiber.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, common.ErrorTooManyRequests):
		return fiber.StatusTooManyRequests, "Too many requests"
	case errors.Is(err, services.ErrMailDelivery):
		return fiber.StatusBadGateway, "Failed to send email"
	case errors.Is(err, common.ErrorUpstream):
		return fiber.StatusBadGateway, "reCAPTCHA verification unavailable"
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// fail writes the error response for err. Causes are logged, never sent.
func (s *Server) fail(c *fiber.Ctx, err error, overrides ...override) error {
	status, message := classify(err)
	for _, o := range overrides {
		if errors.Is(err, o.target) {
			message = o.message
			break
		}
	}

	if status >= fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "request failed",
			"method", c.Method(), "path", c.Path(), "status", status, "error", err)
	} else {
		s.logger.Debug(c.UserContext(), "request rejected",
			"method", c.Method(), "path", c.Path(), "status", status, "error", err)
	}
	return errorJSON(c, status, message)
}

// handleFiberError keeps framework errors (unknown route, oversized body,
// recovered panics) in the same {"error": ...} shape.
func (s *Server) handleFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return errorJSON(c, fe.Code, fe.Message)
	}
	s.logger.Error(c.UserContext(), "unhandled error", "path", c.Path(), "error", err)
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}
