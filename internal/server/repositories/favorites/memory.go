package favorites

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/linkdir/internal/common"
	"github.com/dmitrijs2005/linkdir/internal/server/models"
)

type bookmarkStore interface {
	GetByID(ctx context.Context, id int64) (*models.Bookmark, error)
	AdjustFavoriteCount(id int64, delta int)
}

type userStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type pair struct {
	userID     string
	bookmarkID int64
}

// MemoryRepository keeps favorites in process memory next to the memory
// bookmark and user stores. Favorites of deleted users are hidden, which
// stands in for the cascading delete of the database schema.
type MemoryRepository struct {
	mu        sync.RWMutex
	favorites map[pair]*models.Favorite
	nextID    int64
	bookmarks bookmarkStore
	users     userStore
}

func NewMemoryRepository(bookmarks bookmarkStore, users userStore) *MemoryRepository {
	return &MemoryRepository{
		favorites: make(map[pair]*models.Favorite),
		bookmarks: bookmarks,
		users:     users,
	}
}

func (r *MemoryRepository) userExists(ctx context.Context, id string) (bool, error) {
	_, err := r.users.GetByID(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *MemoryRepository) List(ctx context.Context, userID string) ([]*models.Favorite, error) {
	result := []*models.Favorite{}
	if ok, err := r.userExists(ctx, userID); err != nil || !ok {
		return result, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for k, f := range r.favorites {
		if k.userID != userID {
			continue
		}
		b, err := r.bookmarks.GetByID(ctx, k.bookmarkID)
		if err != nil {
			continue
		}
		c := *f
		c.Bookmark = b
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryRepository) Exists(ctx context.Context, userID string, bookmarkID int64) (bool, error) {
	if ok, err := r.userExists(ctx, userID); err != nil || !ok {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.favorites[pair{userID, bookmarkID}]
	return ok, nil
}

func (r *MemoryRepository) Add(ctx context.Context, userID string, bookmarkID int64, now time.Time) (*models.Favorite, error) {
	if ok, err := r.userExists(ctx, userID); err != nil {
		return nil, err
	} else if !ok {
		return nil, common.ErrorNotFound
	}
	if _, err := r.bookmarks.GetByID(ctx, bookmarkID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := pair{userID, bookmarkID}
	if _, ok := r.favorites[k]; ok {
		return nil, common.ErrorAlreadyExists
	}
	r.nextID++
	f := &models.Favorite{ID: r.nextID, UserID: userID, BookmarkID: bookmarkID, CreatedAt: now}
	r.favorites[k] = f
	r.bookmarks.AdjustFavoriteCount(bookmarkID, 1)

	c := *f
	return &c, nil
}

func (r *MemoryRepository) Remove(ctx context.Context, userID string, bookmarkID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := pair{userID, bookmarkID}
	if _, ok := r.favorites[k]; !ok {
		return false, nil
	}
	delete(r.favorites, k)
	r.bookmarks.AdjustFavoriteCount(bookmarkID, -1)
	return true, nil
}
