// Package repomanager vends repositories for the configured storage backend
// and owns its lifecycle: schema migrations, transactions and shutdown.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/linkdir/internal/server/repositories/bookmarks"
	"github.com/dmitrijs2005/linkdir/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/linkdir/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Bookmarks() bookmarks.Repository
	Favorites() favorites.Repository
	// WithTx runs fn with repositories bound to a single transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context, users users.Repository) error) error
	Close() error
}
