package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/linkdir/internal/common"
	"github.com/dmitrijs2005/linkdir/internal/server/models"
)

// MemoryRepository keeps users in process memory. It is used when no
// database DSN is configured and by service tests. Every method works on
// copies so callers can never mutate stored rows.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*models.User)}
}

func clone(u *models.User) *models.User {
	c := *u
	if u.VerificationToken != nil {
		t := *u.VerificationToken
		c.VerificationToken = &t
	}
	if u.VerificationExpires != nil {
		e := *u.VerificationExpires
		c.VerificationExpires = &e
	}
	if u.LastSignIn != nil {
		l := *u.LastSignIn
		c.LastSignIn = &l
	}
	return &c
}

// find returns the stored row matching pred. Callers hold mu.
func (r *MemoryRepository) find(pred func(u *models.User) bool) *models.User {
	for _, u := range r.users {
		if pred(u) {
			return u
		}
	}
	return nil
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.find(func(u *models.User) bool { return u.Email == user.Email }) != nil {
		return nil, common.ErrorAlreadyExists
	}
	if _, ok := r.users[user.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	r.users[user.ID] = clone(user)
	return clone(user), nil
}

func (r *MemoryRepository) getBy(pred func(u *models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u := r.find(pred)
	if u == nil {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(func(u *models.User) bool { return u.ID == id })
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(func(u *models.User) bool { return u.Email == email })
}

func (r *MemoryRepository) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return r.getBy(func(u *models.User) bool {
		return u.VerificationToken != nil && *u.VerificationToken == token
	})
}

func (r *MemoryRepository) SetVerificationToken(ctx context.Context, email, token string, expires, now time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(func(u *models.User) bool { return u.Email == email })
	if u == nil {
		return nil, common.ErrorNotFound
	}
	u.VerificationToken = &token
	u.VerificationExpires = &expires
	u.UpdatedAt = now
	return clone(u), nil
}

func (r *MemoryRepository) ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(func(u *models.User) bool {
		return u.HasPendingToken() && *u.VerificationToken == token && !u.TokenExpired(now)
	})
	if u == nil {
		return nil, common.ErrorNotFound
	}
	signedIn := now
	u.EmailVerified = true
	u.VerificationToken = nil
	u.VerificationExpires = nil
	u.LastSignIn = &signedIn
	u.UpdatedAt = now
	return clone(u), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		result = append(result, clone(u))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryRepository) UpdateEmail(ctx context.Context, id, email string, now time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if other := r.find(func(o *models.User) bool { return o.Email == email && o.ID != id }); other != nil {
		return nil, common.ErrorAlreadyExists
	}
	u.Email = email
	u.UpdatedAt = now
	return clone(u), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.users, id)
	return nil
}
