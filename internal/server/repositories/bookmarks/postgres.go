package bookmarks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkdir/internal/common"
	"github.com/dmitrijs2005/linkdir/internal/dbx"
	"github.com/dmitrijs2005/linkdir/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// columns lists bookmark columns in ScanDest order.
const columns = `id, url, title, slug, description, tags, favicon, og_image, overview,
	is_promoted, visit_count, favorite_count, is_archived, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ScanDest returns scan targets in column order, so joins in other
// repositories can read a bookmark alongside their own columns.
func ScanDest(b *models.Bookmark) []any {
	return []any{&b.ID, &b.URL, &b.Title, &b.Slug, &b.Description, &b.Tags, &b.Favicon,
		&b.OGImage, &b.Overview, &b.IsPromoted, &b.VisitCount, &b.FavoriteCount,
		&b.IsArchived, &b.CreatedAt}
}

func scanBookmark(row *sql.Row) (*models.Bookmark, error) {
	b := &models.Bookmark{}
	if err := row.Scan(ScanDest(b)...); err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return common.ErrorAlreadyExists
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	query :=
		`INSERT INTO bookmarks (url, title, slug, description, tags, favicon, og_image, overview, is_promoted, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING ` + columns

	return scanBookmark(r.db.QueryRowContext(ctx, query,
		b.URL, b.Title, b.Slug, b.Description, b.Tags, b.Favicon, b.OGImage, b.Overview,
		b.IsPromoted, b.CreatedAt))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Bookmark, error) {
	return scanBookmark(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM bookmarks WHERE id = $1`, id))
}
