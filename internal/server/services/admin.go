package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/linkdir/internal/common"
	"github.com/dmitrijs2005/linkdir/internal/logging"
	"github.com/dmitrijs2005/linkdir/internal/server/auth"
	"github.com/dmitrijs2005/linkdir/internal/server/models"
	"github.com/dmitrijs2005/linkdir/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/linkdir/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

// AdminService backs the password-protected admin area: a single shared
// password, short-lived admin credentials and user management.
type AdminService struct {
	repomanager  repomanager.RepositoryManager
	issuer       *auth.Issuer
	passwordHash []byte
	logger       logging.Logger
	now          func() time.Time
}

// NewAdminService wires the admin area. An empty passwordHash disables
// login entirely.
func NewAdminService(m repomanager.RepositoryManager, issuer *auth.Issuer, passwordHash string, logger logging.Logger) *AdminService {
	return &AdminService{
		repomanager:  m,
		issuer:       issuer,
		passwordHash: []byte(passwordHash),
		logger:       logger.With("module", "admin"),
		now:          time.Now,
	}
}

// Login checks password against the configured bcrypt hash and returns an
// admin credential with its expiry.
func (s *AdminService) Login(ctx context.Context, password string) (string, time.Time, error) {
	if len(s.passwordHash) == 0 || password == "" {
		return "", time.Time{}, common.ErrorUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		s.logger.Warn(ctx, "admin login rejected")
		return "", time.Time{}, common.ErrorUnauthorized
	}

	token, expiresAt, err := s.issuer.Mint(auth.Claims{})
	if err != nil {
		s.logger.Error(ctx, "mint admin token failed", "error", err)
		return "", time.Time{}, common.ErrorInternal
	}
	s.logger.Info(ctx, "admin logged in")
	return token, expiresAt, nil
}

// Authorize validates an admin credential.
func (s *AdminService) Authorize(token string) error {
	if token == "" {
		return common.ErrorUnauthorized
	}
	if _, err := s.issuer.Validate(token); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	return nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	list, err := s.repomanager.Users().List(ctx)
	if err != nil {
		s.logger.Error(ctx, "list users failed", "error", err)
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

func (s *AdminService) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repomanager.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateEmail changes a user's address. The new address is lower-cased; it
// conflicts only when another user already holds it.
func (s *AdminService) UpdateEmail(ctx context.Context, id, email string) (*models.User, error) {
	email = NormalizeEmail(email)

	var updated *models.User
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, repo users.Repository) error {
		existing, err := repo.GetByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != id:
			return common.ErrorAlreadyExists
		case err != nil && !errors.Is(err, common.ErrorNotFound):
			return err
		}

		updated, err = repo.UpdateEmail(ctx, id, email, s.now())
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		s.logger.Error(ctx, "update email failed", "user_id", id, "error", err)
		return nil, fmt.Errorf("update email: %w", err)
	}

	s.logger.Info(ctx, "user email changed", "user_id", id)
	return updated, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repomanager.Users().Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		s.logger.Error(ctx, "delete user failed", "user_id", id, "error", err)
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.Info(ctx, "user deleted", "user_id", id)
	return nil
}

// CreateBookmark adds a bookmark to the directory. Url and slug must be
// unique.
func (s *AdminService) CreateBookmark(ctx context.Context, in *models.Bookmark) (*models.Bookmark, error) {
	b := *in
	b.CreatedAt = s.now()
	created, err := s.repomanager.Bookmarks().Create(ctx, &b)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		s.logger.Error(ctx, "create bookmark failed", "slug", b.Slug, "error", err)
		return nil, fmt.Errorf("create bookmark: %w", err)
	}
	s.logger.Info(ctx, "bookmark created", "bookmark_id", created.ID, "slug", created.Slug)
	return created, nil
}
