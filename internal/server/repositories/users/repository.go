// Package users declares the storage contract for directory members and the
// verification tokens attached to them.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/linkdir/internal/server/models"
)

// Repository persists users. Implementations return common.ErrorNotFound
// when a lookup or conditional update matches no row and
// common.ErrorAlreadyExists when an email is already taken.
type Repository interface {
	// Create inserts a new user, including any initial verification token.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.User, error)

	// SetVerificationToken overwrites the outstanding token of the user with
	// the given email in a single write.
	SetVerificationToken(ctx context.Context, email, token string, expires, now time.Time) (*models.User, error)

	// ConsumeVerificationToken marks the owner of an unexpired token as
	// verified, clears the token pair and records the sign-in, atomically.
	// Expired or unknown tokens match nothing and yield ErrorNotFound.
	ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (*models.User, error)

	// List returns all users ordered by creation time, oldest first.
	List(ctx context.Context) ([]*models.User, error)

	UpdateEmail(ctx context.Context, id, email string, now time.Time) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
