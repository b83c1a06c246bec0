// Package services contains server-side business logic. This file implements
// UserService: magic-link signup and signin, link verification and session
// issuance.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/linkdir/internal/common"
	"github.com/dmitrijs2005/linkdir/internal/logging"
	"github.com/dmitrijs2005/linkdir/internal/server/auth"
	"github.com/dmitrijs2005/linkdir/internal/server/captcha"
	"github.com/dmitrijs2005/linkdir/internal/server/config"
	"github.com/dmitrijs2005/linkdir/internal/server/mail"
	"github.com/dmitrijs2005/linkdir/internal/server/models"
	"github.com/dmitrijs2005/linkdir/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/linkdir/internal/server/throttle"
	"github.com/google/uuid"
)

var (
	// ErrCaptchaFailed is returned when the bot check answered and said no.
	ErrCaptchaFailed = fmt.Errorf("%w: reCAPTCHA verification failed", common.ErrorValidation)
	// ErrMailDelivery is returned when the verification email could not be
	// handed to the mail transport.
	ErrMailDelivery = fmt.Errorf("%w: email delivery failed", common.ErrorUpstream)
)

// IssuedToken describes a freshly written verification token.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// Session is the result of a successful verification.
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// UserService issues verification links, redeems them and mints sessions.
type UserService struct {
	repomanager     repomanager.RepositoryManager
	sessions        *auth.Issuer
	templates       *mail.Templates
	mailer          mail.Mailer
	captcha         captcha.Verifier
	limiter         throttle.Limiter
	verificationTTL time.Duration
	logger          logging.Logger

	now      func() time.Time
	newToken func() string
}

func NewUserService(
	m repomanager.RepositoryManager,
	cfg *config.Config,
	sessions *auth.Issuer,
	mailer mail.Mailer,
	verifier captcha.Verifier,
	limiter throttle.Limiter,
	logger logging.Logger,
) *UserService {
	return &UserService{
		repomanager:     m,
		sessions:        sessions,
		templates:       mail.NewTemplates(cfg.BaseURL, cfg.VerificationTTL),
		mailer:          mailer,
		captcha:         verifier,
		limiter:         limiter,
		verificationTTL: cfg.VerificationTTL,
		logger:          logger.With("module", "users"),
		now:             time.Now,
		newToken:        uuid.NewString,
	}
}

// NormalizeEmail trims and lower-cases an address; emails are stored and
// compared in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CaptchaRequired reports whether signup and signin must carry a bot-check token.
func (s *UserService) CaptchaRequired() bool {
	return s.captcha.Required()
}

// Signup registers email and sends it a verification link. The user row and
// its first token are written in one insert.
func (s *UserService) Signup(ctx context.Context, email, captchaToken string) error {
	email = NormalizeEmail(email)

	if err := s.checkCaptcha(ctx, captchaToken); err != nil {
		return err
	}

	now := s.now()
	issued := s.mintVerificationToken(now)
	user := &models.User{
		ID:                  uuid.NewString(),
		Email:               email,
		EmailVerified:       false,
		VerificationToken:   &issued.Token,
		VerificationExpires: &issued.ExpiresAt,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	created, err := s.repomanager.Users().Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return err
		}
		s.logger.Error(ctx, "create user failed", "error", err)
		return fmt.Errorf("create user: %w", err)
	}
	s.logger.Info(ctx, "user registered", "user_id", created.ID)

	return s.sendLink(ctx, email, issued.Token, s.templates.Signup)
}

// Signin sends a fresh sign-in link to an existing user. Unknown addresses
// yield common.ErrorNotFound; repeated requests inside the cooldown yield
// common.ErrorTooManyRequests. Only a delivered link starts the cooldown.
func (s *UserService) Signin(ctx context.Context, email, captchaToken string) error {
	email = NormalizeEmail(email)

	if err := s.checkCaptcha(ctx, captchaToken); err != nil {
		return err
	}

	if _, err := s.repomanager.Users().GetByEmail(ctx, email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		s.logger.Error(ctx, "lookup user failed", "error", err)
		return fmt.Errorf("lookup user: %w", err)
	}

	key := "signin:" + email
	allowed, err := s.limiter.Allow(ctx, key)
	if err != nil {
		// fail open
		s.logger.Warn(ctx, "signin limiter unavailable", "error", err)
	} else if !allowed {
		return common.ErrorTooManyRequests
	}

	issued, err := s.IssueToken(ctx, email)
	if err == nil {
		err = s.sendLink(ctx, email, issued.Token, s.templates.Signin)
	}
	if err != nil {
		// a failed attempt must not block the retry
		s.releaseCooldown(ctx, key)
		return err
	}
	return nil
}

func (s *UserService) releaseCooldown(ctx context.Context, key string) {
	if err := s.limiter.Release(ctx, key); err != nil {
		s.logger.Warn(ctx, "signin limiter release failed", "error", err)
	}
}

// IssueToken replaces the outstanding verification token of the user with
// the given email. It performs exactly one write and sends nothing.
func (s *UserService) IssueToken(ctx context.Context, email string) (*IssuedToken, error) {
	now := s.now()
	issued := s.mintVerificationToken(now)

	user, err := s.repomanager.Users().SetVerificationToken(ctx, NormalizeEmail(email), issued.Token, issued.ExpiresAt, now)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		s.logger.Error(ctx, "store verification token failed", "error", err)
		return nil, fmt.Errorf("store verification token: %w", err)
	}
	s.logger.Info(ctx, "verification token issued", "user_id", user.ID)
	return &issued, nil
}

// Verify redeems a verification token and mints a session for its owner.
//
// The email is required by the API but ownership is decided by the token
// alone. An unknown or already used token yields common.ErrInvalidToken; an
// expired one yields common.ErrTokenExpired and stays in place.
func (s *UserService) Verify(ctx context.Context, token, email string) (*Session, error) {
	if token == "" || strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: token and email are required", common.ErrorValidation)
	}

	now := s.now()
	repo := s.repomanager.Users()

	user, err := repo.ConsumeVerificationToken(ctx, token, now)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "consume verification token failed", "error", err)
			return nil, fmt.Errorf("consume verification token: %w", err)
		}
		return nil, s.classifyRejectedToken(ctx, token, now)
	}

	signed, expiresAt, err := s.sessions.Mint(auth.Claims{
		UserID:        user.ID,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
	})
	if err != nil {
		s.logger.Error(ctx, "mint session failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user signed in", "user_id", user.ID)
	return &Session{User: user, Token: signed, ExpiresAt: expiresAt}, nil
}

// classifyRejectedToken tells an expired token apart from one that never
// existed or was already used.
func (s *UserService) classifyRejectedToken(ctx context.Context, token string, now time.Time) error {
	user, err := s.repomanager.Users().GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidToken
		}
		s.logger.Error(ctx, "lookup verification token failed", "error", err)
		return fmt.Errorf("lookup verification token: %w", err)
	}
	if user.TokenExpired(now) {
		return common.ErrTokenExpired
	}
	// Lost a race with a concurrent redemption of the same token.
	return common.ErrInvalidToken
}

// ValidateSession checks a session credential without consulting the store.
func (s *UserService) ValidateSession(token string) (*auth.Claims, error) {
	return s.sessions.Validate(token)
}

// CurrentUser re-reads the session owner so callers see the current row,
// not the snapshot in the credential.
func (s *UserService) CurrentUser(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	user, err := s.repomanager.Users().GetByEmail(ctx, NormalizeEmail(claims.Email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("lookup session user: %w", err)
	}
	return user, nil
}

func (s *UserService) mintVerificationToken(now time.Time) IssuedToken {
	return IssuedToken{Token: s.newToken(), ExpiresAt: now.Add(s.verificationTTL)}
}

func (s *UserService) checkCaptcha(ctx context.Context, token string) error {
	ok, err := s.captcha.Verify(ctx, token)
	if err != nil {
		s.logger.Error(ctx, "captcha check failed", "error", err)
		return err
	}
	if !ok {
		return ErrCaptchaFailed
	}
	return nil
}

type renderFunc func(email, token string) (string, string, error)

// sendLink emails the verification link. The token is already stored, so a
// delivery failure leaves it in place and is reported as an upstream error.
func (s *UserService) sendLink(ctx context.Context, email, token string, render renderFunc) error {
	subject, body, err := render(email, token)
	if err != nil {
		s.logger.Error(ctx, "render email failed", "error", err)
		return common.ErrorInternal
	}
	if err := s.mailer.Send(ctx, email, subject, body); err != nil {
		s.logger.Error(ctx, "send email failed", "subject", subject, "error", err)
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return nil
}
