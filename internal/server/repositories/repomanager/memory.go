package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/linkdir/internal/server/repositories/bookmarks"
	"github.com/dmitrijs2005/linkdir/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/linkdir/internal/server/repositories/users"
)

// MemoryRepositoryManager serves in-process stores. Used when no database
// is configured; data is lost on restart.
type MemoryRepositoryManager struct {
	users     *users.MemoryRepository
	bookmarks *bookmarks.MemoryRepository
	favorites *favorites.MemoryRepository
	// txMu serializes WithTx blocks against each other.
	txMu sync.Mutex
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	u := users.NewMemoryRepository()
	b := bookmarks.NewMemoryRepository()
	return &MemoryRepositoryManager{
		users:     u,
		bookmarks: b,
		favorites: favorites.NewMemoryRepository(b, u),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) Bookmarks() bookmarks.Repository { return m.bookmarks }

func (m *MemoryRepositoryManager) Favorites() favorites.Repository { return m.favorites }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, users users.Repository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m.users)
}

func (m *MemoryRepositoryManager) Close() error { return nil }
