package bookmarks

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/linkdir/internal/common"
	"github.com/dmitrijs2005/linkdir/internal/server/models"
)

// MemoryRepository keeps bookmarks in process memory. Ids are assigned
// from 1 upwards.
type MemoryRepository struct {
	mu        sync.RWMutex
	bookmarks map[int64]*models.Bookmark
	nextID    int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bookmarks: make(map[int64]*models.Bookmark)}
}

func clone(b *models.Bookmark) *models.Bookmark {
	c := *b
	for _, p := range []**string{&c.Description, &c.Tags, &c.Favicon, &c.OGImage, &c.Overview} {
		if *p != nil {
			v := **p
			*p = &v
		}
	}
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.bookmarks {
		if existing.URL == b.URL || existing.Slug == b.Slug {
			return nil, common.ErrorAlreadyExists
		}
	}

	r.nextID++
	stored := clone(b)
	stored.ID = r.nextID
	stored.VisitCount = 0
	stored.FavoriteCount = 0
	stored.IsArchived = false
	r.bookmarks[stored.ID] = stored
	return clone(stored), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.Bookmark, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookmarks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(b), nil
}

// AdjustFavoriteCount adds delta to the favorite count, never going below
// zero. Unknown ids are ignored.
func (r *MemoryRepository) AdjustFavoriteCount(id int64, delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookmarks[id]
	if !ok {
		return
	}
	b.FavoriteCount += delta
	if b.FavoriteCount < 0 {
		b.FavoriteCount = 0
	}
}
