package httpapi

import (
	"strings"

	"github.com/dmitrijs2005/linkdir/internal/common"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) AdminLogin(c *fiber.Ctx) error {
	var req AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Password is required")
	}

	token, expiresAt, err := s.admin.Login(c.UserContext(), req.Password)
	if err != nil {
		return s.fail(c, err, with(common.ErrorUnauthorized, "Invalid password"))
	}

	s.setCookie(c, AdminCookie, token, s.cfg.AdminTokenTTL, expiresAt)
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) AdminLogout(c *fiber.Ctx) error {
	s.clearCookie(c, AdminCookie)
	return c.JSON(fiber.Map{"success": true})
}

// ListUsers handles GET /admin/users.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	list, err := s.admin.ListUsers(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}

	out := make([]AdminUserView, 0, len(list))
	for _, u := range list {
		out = append(out, toAdminUserView(u))
	}
	return c.JSON(fiber.Map{"success": true, "users": out})
}

// GetUser handles GET /admin/users/:id.
func (s *Server) GetUser(c *fiber.Ctx) error {
	user, err := s.admin.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.fail(c, err, with(common.ErrorNotFound, "User not found"))
	}
	return c.JSON(fiber.Map{"success": true, "user": toAdminUserView(user)})
}

// UpdateUser handles PATCH /admin/users/:id.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		if strings.TrimSpace(req.Email) == "" {
			return errorJSON(c, fiber.StatusBadRequest, "Email is required")
		}
		return errorJSON(c, fiber.StatusBadRequest, "Invalid email format")
	}

	user, err := s.admin.UpdateEmail(c.UserContext(), c.Params("id"), req.Email)
	if err != nil {
		return s.fail(c, err,
			with(common.ErrorNotFound, "User not found"),
			with(common.ErrorAlreadyExists, "Email is already taken"),
		)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User updated successfully",
		"user":    toAdminUserView(user),
	})
}

// DeleteUser handles DELETE /admin/users/:id.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	if err := s.admin.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return s.fail(c, err, with(common.ErrorNotFound, "User not found"))
	}
	return c.JSON(fiber.Map{"success": true, "message": "User deleted successfully"})
}

// CreateBookmark handles POST /admin/bookmarks.
func (s *Server) CreateBookmark(c *fiber.Ctx) error {
	var req CreateBookmarkRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid bookmark: "+err.Error())
	}

	b, err := s.admin.CreateBookmark(c.UserContext(), req.model())
	if err != nil {
		return s.fail(c, err, with(common.ErrorAlreadyExists, "A bookmark with this URL or slug already exists"))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "bookmark": toBookmarkView(b)})
}
