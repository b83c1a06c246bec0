// Package bookmarks stores directory entries. Only the operations the
// favorites flow and the admin area need are exposed.
package bookmarks

import (
	"context"

	"github.com/dmitrijs2005/linkdir/internal/server/models"
)

type Repository interface {
	// Create inserts a bookmark and returns it with its assigned id.
	// Duplicate url or slug yields common.ErrorAlreadyExists.
	Create(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error)
	GetByID(ctx context.Context, id int64) (*models.Bookmark, error)
}
