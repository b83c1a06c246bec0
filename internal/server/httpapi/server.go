// Package httpapi exposes the auth, favorites and admin endpoints over HTTP
// using fiber.
package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/linkdir/internal/logging"
	"github.com/dmitrijs2005/linkdir/internal/server/config"
	"github.com/dmitrijs2005/linkdir/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const (
	SessionCookie = "auth-token"
	AdminCookie   = "boho_token"

	localClaims = "claims"
)

// Server owns the fiber application and its routes.
type Server struct {
	app    *fiber.App
	users     *services.UserService
	admin     *services.AdminService
	favorites *services.FavoriteService
	cfg       *config.Config
	logger    logging.Logger
}

func New(
	cfg *config.Config,
	users *services.UserService,
	admin *services.AdminService,
	favorites *services.FavoriteService,
	logger logging.Logger,
) *Server {
	s := &Server{
		users:     users,
		admin:     admin,
		favorites: favorites,
		cfg:       cfg,
		logger:    logger.With("module", "http"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "linkdir",
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		BodyLimit:             64 * 1024,
		ErrorHandler:          s.handleFiberError,
	})

	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(withRequestContext)
	s.app.Use(helmet.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept",
		AllowMethods:     "GET, POST, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	a := s.app.Group("/auth")
	a.Post("/signup", s.Signup)
	a.Post("/signin", s.Signin)
	a.Post("/verify", s.Verify)
	a.Get("/me", s.requireSession("No authentication token"), s.Me)
	a.Post("/logout", s.Logout)

	adm := s.app.Group("/admin")
	adm.Post("/login", s.AdminLogin)
	adm.Post("/logout", s.AdminLogout)

	adm.Get("/users", s.requireAdmin, s.ListUsers)
	adm.Get("/users/:id", s.requireAdmin, s.GetUser)
	adm.Patch("/users/:id", s.requireAdmin, s.UpdateUser)
	adm.Delete("/users/:id", s.requireAdmin, s.DeleteUser)
	adm.Post("/bookmarks", s.requireAdmin, s.CreateBookmark)

	signedIn := s.requireSession("Authentication required")
	s.app.Get("/favorites", signedIn, s.ListFavorites)
	s.app.Post("/favorites", signedIn, s.AddFavorite)
	s.app.Delete("/favorites", signedIn, s.RemoveFavorite)
}

// App exposes the underlying fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App { return s.app }

// Run serves on addr until ctx is cancelled, then drains in-flight requests
// for at most shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", addr)
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
