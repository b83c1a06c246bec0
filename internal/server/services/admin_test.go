package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/linkdir/internal/common"
	"github.com/dmitrijs2005/linkdir/internal/logging"
	"github.com/dmitrijs2005/linkdir/internal/server/auth"
	"github.com/dmitrijs2005/linkdir/internal/server/models"
	"github.com/dmitrijs2005/linkdir/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAdminService(t *testing.T, password string) (*AdminService, *repomanager.MemoryRepositoryManager) {
	t.Helper()

	var hash string
	if password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		hash = string(b)
	}

	m := repomanager.NewMemoryRepositoryManager()
	issuer := auth.NewIssuer([]byte("admin-secret"), time.Hour, auth.WithAudience(auth.AdminAudience))
	s := NewAdminService(m, issuer, hash, logging.Nop{})
	s.now = func() time.Time { return t0.Add(time.Hour) }
	return s, m
}

func seedUser(t *testing.T, m *repomanager.MemoryRepositoryManager, id, email string, created time.Time) {
	t.Helper()
	_, err := m.Users().Create(context.Background(), &models.User{ID: id, Email: email, CreatedAt: created, UpdatedAt: created})
	require.NoError(t, err)
}

func TestAdminLogin(t *testing.T) {
	s, _ := newAdminService(t, "hunter2")
	ctx := context.Background()

	token, exp, err := s.Login(ctx, "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())
	require.NoError(t, s.Authorize(token))

	_, _, err = s.Login(ctx, "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, _, err = s.Login(ctx, "")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAdminLogin_DisabledWithoutHash(t *testing.T) {
	s, _ := newAdminService(t, "")

	_, _, err := s.Login(context.Background(), "anything")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAdminAuthorize_Rejects(t *testing.T) {
	s, _ := newAdminService(t, "pw")

	assert.ErrorIs(t, s.Authorize(""), common.ErrorUnauthorized)
	assert.ErrorIs(t, s.Authorize("garbage"), common.ErrorUnauthorized)

	session, _, err := auth.NewIssuer([]byte("admin-secret"), time.Hour).Mint(auth.Claims{UserID: "u1"})
	require.NoError(t, err)
	assert.ErrorIs(t, s.Authorize(session), common.ErrorUnauthorized, "member sessions are not admin credentials")
}

func TestAdminListAndGet(t *testing.T) {
	s, m := newAdminService(t, "pw")
	ctx := context.Background()
	seedUser(t, m, "u-2", "b@b.co", t0.Add(time.Minute))
	seedUser(t, m, "u-1", "a@b.co", t0)

	list, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "u-1", list[0].ID)

	u, err := s.GetUser(ctx, "u-2")
	require.NoError(t, err)
	assert.Equal(t, "b@b.co", u.Email)

	_, err = s.GetUser(ctx, "u-9")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAdminUpdateEmail(t *testing.T) {
	s, m := newAdminService(t, "pw")
	ctx := context.Background()
	seedUser(t, m, "u-1", "a@b.co", t0)
	seedUser(t, m, "u-2", "b@b.co", t0)

	u, err := s.UpdateEmail(ctx, "u-1", "  New@B.co ")
	require.NoError(t, err)
	assert.Equal(t, "new@b.co", u.Email)
	assert.True(t, t0.Add(time.Hour).Equal(u.UpdatedAt))

	_, err = s.UpdateEmail(ctx, "u-1", "B@b.co")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	_, err = s.UpdateEmail(ctx, "u-1", "new@b.co")
	require.NoError(t, err, "same user keeping its address")

	_, err = s.UpdateEmail(ctx, "u-9", "free@b.co")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAdminDeleteUser(t *testing.T) {
	s, m := newAdminService(t, "pw")
	ctx := context.Background()
	seedUser(t, m, "u-1", "a@b.co", t0)

	require.NoError(t, s.DeleteUser(ctx, "u-1"))
	assert.ErrorIs(t, s.DeleteUser(ctx, "u-1"), common.ErrorNotFound)
}

func TestAdmin_StorageFailures(t *testing.T) {
	issuer := auth.NewIssuer([]byte("k"), time.Hour, auth.WithAudience(auth.AdminAudience))
	s := NewAdminService(&brokenRepoManager{err: errDBDown}, issuer, "", logging.Nop{})
	ctx := context.Background()

	_, err := s.ListUsers(ctx)
	assert.ErrorIs(t, err, errDBDown)
	_, err = s.GetUser(ctx, "u")
	assert.ErrorIs(t, err, errDBDown)
	_, err = s.UpdateEmail(ctx, "u", "a@b.co")
	assert.ErrorIs(t, err, errDBDown)
	assert.ErrorIs(t, s.DeleteUser(ctx, "u"), errDBDown)
}

func TestAdminCreateBookmark(t *testing.T) {
	s, m := newAdminService(t, "")
	ctx := context.Background()

	in := &models.Bookmark{URL: "https://go.dev", Title: "Go", Slug: "go"}
	created, err := s.CreateBookmark(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.CreatedAt.Equal(t0.Add(time.Hour)))
	assert.True(t, in.CreatedAt.IsZero(), "input is not modified")

	stored, err := m.Bookmarks().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", stored.Title)

	_, err = s.CreateBookmark(ctx, &models.Bookmark{URL: "https://go.dev", Title: "Go again", Slug: "go-again"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	broken := NewAdminService(&brokenRepoManager{err: errDBDown}, nil, "", logging.Nop{})
	_, err = broken.CreateBookmark(ctx, in)
	assert.ErrorIs(t, err, errDBDown)
}
