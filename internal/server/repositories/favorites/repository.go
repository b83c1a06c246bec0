// Package favorites stores the bookmarks each user has saved. Adding or
// removing a favorite keeps the bookmark's favorite count in step.
package favorites

import (
	"context"
	"time"

	"github.com/dmitrijs2005/linkdir/internal/server/models"
)

type Repository interface {
	// List returns the user's favorites with their bookmarks, oldest first.
	List(ctx context.Context, userID string) ([]*models.Favorite, error)
	Exists(ctx context.Context, userID string, bookmarkID int64) (bool, error)
	// Add returns common.ErrorAlreadyExists for a repeated pair and
	// common.ErrorNotFound when the user or bookmark is missing.
	Add(ctx context.Context, userID string, bookmarkID int64, now time.Time) (*models.Favorite, error)
	// Remove reports whether a favorite was deleted.
	Remove(ctx context.Context, userID string, bookmarkID int64) (bool, error)
}
