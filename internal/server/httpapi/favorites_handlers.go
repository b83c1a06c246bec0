package httpapi

import (
	"strconv"

	"github.com/dmitrijs2005/linkdir/internal/common"
	"github.com/dmitrijs2005/linkdir/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

// bookmarkIDQuery reads ?bookmarkId. present is false when the parameter
// is absent; a present but malformed value yields an error.
func bookmarkIDQuery(c *fiber.Ctx) (id int64, present bool, err error) {
	raw := c.Query("bookmarkId")
	if raw == "" {
		return 0, false, nil
	}
	id, err = strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, true, services.ErrBookmarkIDRequired
	}
	return id, true, nil
}

// ListFavorites handles GET /favorites. With ?bookmarkId it only reports
// whether that bookmark is saved.
func (s *Server) ListFavorites(c *fiber.Ctx) error {
	claims, ok := sessionClaims(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Authentication required")
	}

	id, present, err := bookmarkIDQuery(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid bookmark ID")
	}
	if present {
		favorited, err := s.favorites.IsFavorited(c.UserContext(), claims.UserID, id)
		if err != nil {
			return s.fail(c, err, with(common.ErrorValidation, "Invalid bookmark ID"))
		}
		return c.JSON(fiber.Map{"success": true, "isFavorited": favorited})
	}

	list, err := s.favorites.List(c.UserContext(), claims.UserID)
	if err != nil {
		return s.fail(c, err)
	}
	out := make([]FavoriteView, 0, len(list))
	for _, f := range list {
		out = append(out, toFavoriteView(f))
	}
	return c.JSON(fiber.Map{"success": true, "favorites": out})
}

// AddFavorite handles POST /favorites.
func (s *Server) AddFavorite(c *fiber.Ctx) error {
	claims, ok := sessionClaims(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Authentication required")
	}

	var req FavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Bookmark ID is required")
	}

	if _, err := s.favorites.Add(c.UserContext(), claims.UserID, req.BookmarkID); err != nil {
		return s.fail(c, err,
			with(services.ErrBookmarkIDRequired, "Bookmark ID is required"),
			with(services.ErrAlreadyFavorited, "Bookmark is already in favorites"),
			with(services.ErrBookmarkNotFound, "Bookmark not found"),
			with(common.ErrorNotFound, "User not found"),
		)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Added to favorites"})
}

// RemoveFavorite handles DELETE /favorites?bookmarkId=.
func (s *Server) RemoveFavorite(c *fiber.Ctx) error {
	claims, ok := sessionClaims(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Authentication required")
	}

	id, present, err := bookmarkIDQuery(c)
	if !present {
		return errorJSON(c, fiber.StatusBadRequest, "Bookmark ID is required")
	}
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid bookmark ID")
	}

	if err := s.favorites.Remove(c.UserContext(), claims.UserID, id); err != nil {
		return s.fail(c, err, with(common.ErrorValidation, "Invalid bookmark ID"))
	}
	return c.JSON(fiber.Map{"success": true, "message": "Removed from favorites"})
}
