// Package server wires configuration, storage, mail, bot checks and the
// HTTP API into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/linkdir/internal/logging"
	"github.com/dmitrijs2005/linkdir/internal/server/auth"
	"github.com/dmitrijs2005/linkdir/internal/server/captcha"
	"github.com/dmitrijs2005/linkdir/internal/server/config"
	"github.com/dmitrijs2005/linkdir/internal/server/httpapi"
	"github.com/dmitrijs2005/linkdir/internal/server/mail"
	"github.com/dmitrijs2005/linkdir/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/linkdir/internal/server/services"
	"github.com/dmitrijs2005/linkdir/internal/server/throttle"
)

const sweepInterval = time.Minute

type App struct {
	config  *config.Config
	logger  logging.Logger
	repo    repomanager.RepositoryManager
	limiter throttle.Limiter
	closers []io.Closer
	http    *httpapi.Server
}

// NewApp builds every component from c. Resources opened along the way are
// released by Run on exit, or here when a later step fails.
func NewApp(ctx context.Context, c *config.Config) (_ *App, err error) {
	level := slog.LevelInfo
	if !c.Production {
		level = slog.LevelDebug
	}
	logger := logging.NewJSON(os.Stdout, level)

	app := &App{config: c, logger: logger}
	defer func() {
		if err != nil {
			app.close(ctx)
		}
	}()

	app.repo, err = openStorage(ctx, c, logger)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, app.repo)

	if err = app.repo.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	mailer, err := mail.New(c, logger)
	if err != nil {
		return nil, fmt.Errorf("mail init error: %w", err)
	}
	if cl, ok := mailer.(io.Closer); ok {
		app.closers = append(app.closers, cl)
	}

	app.limiter, err = app.newLimiter(ctx)
	if err != nil {
		return nil, err
	}

	verifier := captcha.New(c.RecaptchaSecret, c.RecaptchaMinScore, c.RecaptchaEndpoint)
	if !verifier.Required() {
		logger.Warn(ctx, "reCAPTCHA secret not set, bot check disabled")
	}
	if c.AdminPasswordHash == "" {
		logger.Warn(ctx, "admin password hash not set, admin area disabled")
	}

	sessions := auth.NewIssuer([]byte(c.SecretKey), c.SessionTTL)
	admins := auth.NewIssuer([]byte(c.AdminSecretKey), c.AdminTokenTTL, auth.WithAudience(auth.AdminAudience))

	us := services.NewUserService(app.repo, c, sessions, mailer, verifier, app.limiter, logger)
	as := services.NewAdminService(app.repo, admins, c.AdminPasswordHash, logger)
	fs := services.NewFavoriteService(app.repo, logger)

	app.http = httpapi.New(c, us, as, fs, logger)
	return app, nil
}

func openStorage(ctx context.Context, c *config.Config, logger logging.Logger) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "database DSN not set, using in-memory storage")
		return repomanager.NewMemoryRepositoryManager(), nil
	}
	m, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	return m, nil
}

func (app *App) newLimiter(ctx context.Context) (throttle.Limiter, error) {
	c := app.config
	switch {
	case c.SigninCooldown <= 0:
		return throttle.Disabled{}, nil
	case c.RedisAddr != "":
		client, err := throttle.Connect(ctx, c.RedisAddr, c.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		app.closers = append(app.closers, client)
		return throttle.NewRedis(client, c.SigninCooldown), nil
	default:
		return throttle.NewMemory(c.SigninCooldown), nil
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until a termination signal arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close(context.Background())

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	if m, ok := app.limiter.(*throttle.Memory); ok {
		go m.Run(ctx, sweepInterval)
	}

	if err := app.http.Run(ctx, app.config.HTTPAddr, app.config.ShutdownTimeout); err != nil {
		app.logger.Error(ctx, "http server stopped", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}

func (app *App) close(ctx context.Context) {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Error(ctx, "close failed", "error", err)
		}
	}
	app.closers = nil
}
