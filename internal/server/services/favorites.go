package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/linkdir/internal/common"
	"github.com/dmitrijs2005/linkdir/internal/logging"
	"github.com/dmitrijs2005/linkdir/internal/server/models"
	"github.com/dmitrijs2005/linkdir/internal/server/repositories/repomanager"
)

var (
	// ErrBookmarkIDRequired is returned for a missing or non-positive id.
	ErrBookmarkIDRequired = fmt.Errorf("%w: bookmark ID is required", common.ErrorValidation)
	// ErrBookmarkNotFound is returned when the bookmark does not exist.
	ErrBookmarkNotFound = fmt.Errorf("%w: bookmark", common.ErrorNotFound)
	// ErrAlreadyFavorited is returned when the user already saved the bookmark.
	ErrAlreadyFavorited = fmt.Errorf("%w: bookmark is already in favorites", common.ErrorAlreadyExists)
)

// FavoriteService manages the bookmarks a signed-in user has saved.
type FavoriteService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewFavoriteService(m repomanager.RepositoryManager, logger logging.Logger) *FavoriteService {
	return &FavoriteService{
		repomanager: m,
		logger:      logger.With("module", "favorites"),
		now:         time.Now,
	}
}

// List returns the user's favorites with their bookmarks, oldest first.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]*models.Favorite, error) {
	list, err := s.repomanager.Favorites().List(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "list favorites failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return list, nil
}

func (s *FavoriteService) IsFavorited(ctx context.Context, userID string, bookmarkID int64) (bool, error) {
	if bookmarkID <= 0 {
		return false, ErrBookmarkIDRequired
	}
	ok, err := s.repomanager.Favorites().Exists(ctx, userID, bookmarkID)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return ok, nil
}

// Add saves the bookmark for the user and bumps its favorite count.
func (s *FavoriteService) Add(ctx context.Context, userID string, bookmarkID int64) (*models.Favorite, error) {
	if bookmarkID <= 0 {
		return nil, ErrBookmarkIDRequired
	}

	if _, err := s.repomanager.Bookmarks().GetByID(ctx, bookmarkID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrBookmarkNotFound
		}
		s.logger.Error(ctx, "lookup bookmark failed", "bookmark_id", bookmarkID, "error", err)
		return nil, fmt.Errorf("lookup bookmark: %w", err)
	}

	fav, err := s.repomanager.Favorites().Add(ctx, userID, bookmarkID, s.now())
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			return nil, ErrAlreadyFavorited
		case errors.Is(err, common.ErrorNotFound):
			// the bookmark was checked above, so the session user is gone
			return nil, fmt.Errorf("add favorite: user %s: %w", userID, common.ErrorNotFound)
		}
		s.logger.Error(ctx, "add favorite failed", "user_id", userID, "bookmark_id", bookmarkID, "error", err)
		return nil, fmt.Errorf("add favorite: %w", err)
	}

	s.logger.Info(ctx, "favorite added", "user_id", userID, "bookmark_id", bookmarkID)
	return fav, nil
}

// Remove drops the favorite if present. Removing a favorite that does not
// exist succeeds and leaves the count untouched.
func (s *FavoriteService) Remove(ctx context.Context, userID string, bookmarkID int64) error {
	if bookmarkID <= 0 {
		return ErrBookmarkIDRequired
	}

	removed, err := s.repomanager.Favorites().Remove(ctx, userID, bookmarkID)
	if err != nil {
		s.logger.Error(ctx, "remove favorite failed", "user_id", userID, "bookmark_id", bookmarkID, "error", err)
		return fmt.Errorf("remove favorite: %w", err)
	}
	if removed {
		s.logger.Info(ctx, "favorite removed", "user_id", userID, "bookmark_id", bookmarkID)
	}
	return nil
}
