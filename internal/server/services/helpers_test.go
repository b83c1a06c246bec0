package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/linkdir/internal/logging"
	"github.com/dmitrijs2005/linkdir/internal/server/auth"
	"github.com/dmitrijs2005/linkdir/internal/server/config"
	"github.com/dmitrijs2005/linkdir/internal/server/models"
	"github.com/dmitrijs2005/linkdir/internal/server/repositories/bookmarks"
	"github.com/dmitrijs2005/linkdir/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/linkdir/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/linkdir/internal/server/repositories/users"
	"github.com/dmitrijs2005/linkdir/internal/server/throttle"
)

// --- helpers ---

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type sentMail struct {
	To, Subject, HTML string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: html})
	return nil
}

type fakeCaptcha struct {
	ok       bool
	err      error
	required bool
	tokens   []string
}

func (c *fakeCaptcha) Verify(ctx context.Context, token string) (bool, error) {
	c.tokens = append(c.tokens, token)
	return c.ok, c.err
}

func (c *fakeCaptcha) Required() bool { return c.required }

type fakeLimiter struct {
	allow      bool
	err        error
	releaseErr error
	keys       []string
	released   []string
}

func (l *fakeLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allow, l.err
}

func (l *fakeLimiter) Release(ctx context.Context, key string) error {
	l.released = append(l.released, key)
	return l.releaseErr
}

// brokenRepoManager fails every storage call with a driver-level error.
type brokenRepoManager struct{ err error }

type brokenUsers struct{ err error }

func (m *brokenRepoManager) RunMigrations(context.Context) error { return nil }
func (m *brokenRepoManager) Users() users.Repository            { return &brokenUsers{err: m.err} }
func (m *brokenRepoManager) Close() error                       { return nil }
func (m *brokenRepoManager) Bookmarks() bookmarks.Repository {
	return &brokenBookmarks{err: m.err}
}
func (m *brokenRepoManager) Favorites() favorites.Repository {
	return &brokenFavorites{err: m.err}
}
func (m *brokenRepoManager) WithTx(ctx context.Context, fn func(context.Context, users.Repository) error) error {
	return fn(ctx, &brokenUsers{err: m.err})
}

func (r *brokenUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, r.err }
func (r *brokenUsers) GetByID(context.Context, string) (*models.User, error)      { return nil, r.err }
func (r *brokenUsers) GetByEmail(context.Context, string) (*models.User, error)   { return nil, r.err }
func (r *brokenUsers) GetByVerificationToken(context.Context, string) (*models.User, error) {
	return nil, r.err
}
func (r *brokenUsers) SetVerificationToken(context.Context, string, string, time.Time, time.Time) (*models.User, error) {
	return nil, r.err
}
func (r *brokenUsers) ConsumeVerificationToken(context.Context, string, time.Time) (*models.User, error) {
	return nil, r.err
}
func (r *brokenUsers) List(context.Context) ([]*models.User, error) { return nil, r.err }
func (r *brokenUsers) UpdateEmail(context.Context, string, string, time.Time) (*models.User, error) {
	return nil, r.err
}
func (r *brokenUsers) Delete(context.Context, string) error { return r.err }

type brokenBookmarks struct{ err error }

func (r *brokenBookmarks) Create(context.Context, *models.Bookmark) (*models.Bookmark, error) {
	return nil, r.err
}
func (r *brokenBookmarks) GetByID(context.Context, int64) (*models.Bookmark, error) { return nil, r.err }

type brokenFavorites struct{ err error }

func (r *brokenFavorites) List(context.Context, string) ([]*models.Favorite, error) { return nil, r.err }
func (r *brokenFavorites) Exists(context.Context, string, int64) (bool, error)      { return false, r.err }
func (r *brokenFavorites) Add(context.Context, string, int64, time.Time) (*models.Favorite, error) {
	return nil, r.err
}
func (r *brokenFavorites) Remove(context.Context, string, int64) (bool, error) { return false, r.err }

var errDBDown = errors.New("connection refused")

type fixture struct {
	svc     *UserService
	repo    repomanager.RepositoryManager
	mailer  *fakeMailer
	captcha *fakeCaptcha
	limiter throttle.Limiter
	clock   *clock
	tokens  int
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BaseURL = "https://dir.example"
	return cfg
}

func newFixture() *fixture {
	f := &fixture{
		repo:    repomanager.NewMemoryRepositoryManager(),
		mailer:  &fakeMailer{},
		captcha: &fakeCaptcha{ok: true},
		limiter: throttle.Disabled{},
		clock:   &clock{now: t0},
	}
	f.build()
	return f
}

// build (re)creates the service from the fixture's current collaborators.
func (f *fixture) build() {
	cfg := testConfig()
	sessions := auth.NewIssuer([]byte(cfg.SecretKey), cfg.SessionTTL, auth.WithClock(f.clock.Now))
	f.svc = NewUserService(f.repo, cfg, sessions, f.mailer, f.captcha, f.limiter, logging.Nop{})
	f.svc.now = f.clock.Now
	f.svc.newToken = func() string {
		f.tokens++
		return fmt.Sprintf("token-%d", f.tokens)
	}
}

func (f *fixture) user(email string) *models.User {
	u, err := f.repo.Users().GetByEmail(context.Background(), email)
	if err != nil {
		panic(err)
	}
	return u
}
