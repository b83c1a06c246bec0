package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/linkdir/internal/common"
	"github.com/dmitrijs2005/linkdir/internal/dbx"
	"github.com/dmitrijs2005/linkdir/internal/server/models"
	"github.com/dmitrijs2005/linkdir/internal/server/repositories/bookmarks"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return common.ErrorAlreadyExists
		case foreignKeyViolation:
			return common.ErrorNotFound
		}
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Favorite, error) {
	query :=
		`SELECT f.id, f.user_id, f.bookmark_id, f.created_at,
		        b.id, b.url, b.title, b.slug, b.description, b.tags, b.favicon, b.og_image, b.overview,
		        b.is_promoted, b.visit_count, b.favorite_count, b.is_archived, b.created_at
		 FROM user_favorites f
		 JOIN bookmarks b ON b.id = f.bookmark_id
		 WHERE f.user_id = $1
		 ORDER BY f.created_at, f.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := []*models.Favorite{}
	for rows.Next() {
		f := &models.Favorite{Bookmark: &models.Bookmark{}}
		dest := append([]any{&f.ID, &f.UserID, &f.BookmarkID, &f.CreatedAt}, bookmarks.ScanDest(f.Bookmark)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, mapError(err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, userID string, bookmarkID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_favorites WHERE user_id = $1 AND bookmark_id = $2)`,
		userID, bookmarkID).Scan(&ok)
	if err != nil {
		return false, mapError(err)
	}
	return ok, nil
}

// Add inserts the favorite and bumps the bookmark's count in one statement.
func (r *PostgresRepository) Add(ctx context.Context, userID string, bookmarkID int64, now time.Time) (*models.Favorite, error) {
	query :=
		`WITH ins AS (
		     INSERT INTO user_favorites (user_id, bookmark_id, created_at)
		     VALUES ($1, $2, $3)
		     RETURNING id, user_id, bookmark_id, created_at
		 ), bump AS (
		     UPDATE bookmarks SET favorite_count = favorite_count + 1
		     WHERE id = (SELECT bookmark_id FROM ins)
		 )
		 SELECT id, user_id, bookmark_id, created_at FROM ins`

	f := &models.Favorite{}
	err := r.db.QueryRowContext(ctx, query, userID, bookmarkID, now).
		Scan(&f.ID, &f.UserID, &f.BookmarkID, &f.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return f, nil
}

// Remove deletes the favorite and decrements the count only when a row
// was actually deleted.
func (r *PostgresRepository) Remove(ctx context.Context, userID string, bookmarkID int64) (bool, error) {
	query :=
		`WITH del AS (
		     DELETE FROM user_favorites WHERE user_id = $1 AND bookmark_id = $2
		     RETURNING bookmark_id
		 )
		 UPDATE bookmarks SET favorite_count = GREATEST(favorite_count - 1, 0)
		 WHERE id IN (SELECT bookmark_id FROM del)`

	res, err := r.db.ExecContext(ctx, query, userID, bookmarkID)
	if err != nil {
		return false, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, mapError(err)
	}
	return n > 0, nil
}
