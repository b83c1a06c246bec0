package httpapi

import (
	"time"

	"github.com/dmitrijs2005/linkdir/internal/server/models"
)

// UserView is the public projection of a user.
type UserView struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

// AdminUserView adds bookkeeping fields shown in the admin table.
type AdminUserView struct {
	UserView
	CreatedAt  time.Time  `json:"createdAt"`
	LastSignIn *time.Time `json:"lastSignIn"`
}

func toUserView(u *models.User) UserView {
	return UserView{ID: u.ID, Email: u.Email, EmailVerified: u.EmailVerified}
}

func toAdminUserView(u *models.User) AdminUserView {
	return AdminUserView{
		UserView:   toUserView(u),
		CreatedAt:  u.CreatedAt,
		LastSignIn: u.LastSignIn,
	}
}

// BookmarkView is the public projection of a bookmark.
type BookmarkView struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	URL           string    `json:"url"`
	Description   *string   `json:"description"`
	Favicon       *string   `json:"favicon"`
	OGImage       *string   `json:"ogImage"`
	Overview      *string   `json:"overview"`
	Tags          *string   `json:"tags"`
	IsPromoted    bool      `json:"isPromoted"`
	VisitCount    int       `json:"visitCount"`
	FavoriteCount int       `json:"favoriteCount"`
	IsArchived    bool      `json:"isArchived"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FavoriteView is one entry of GET /favorites.
type FavoriteView struct {
	ID         int64        `json:"id"`
	BookmarkID int64        `json:"bookmarkId"`
	CreatedAt  time.Time    `json:"createdAt"`
	Bookmark   BookmarkView `json:"bookmark"`
}

func toBookmarkView(b *models.Bookmark) BookmarkView {
	return BookmarkView{
		ID:            b.ID,
		Title:         b.Title,
		Slug:          b.Slug,
		URL:           b.URL,
		Description:   b.Description,
		Favicon:       b.Favicon,
		OGImage:       b.OGImage,
		Overview:      b.Overview,
		Tags:          b.Tags,
		IsPromoted:    b.IsPromoted,
		VisitCount:    b.VisitCount,
		FavoriteCount: b.FavoriteCount,
		IsArchived:    b.IsArchived,
		CreatedAt:     b.CreatedAt,
	}
}

func toFavoriteView(f *models.Favorite) FavoriteView {
	v := FavoriteView{ID: f.ID, BookmarkID: f.BookmarkID, CreatedAt: f.CreatedAt}
	if f.Bookmark != nil {
		v.Bookmark = toBookmarkView(f.Bookmark)
	}
	return v
}
