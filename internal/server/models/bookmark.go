package models

import "time"

// Bookmark is a directory entry. Optional text fields are nil when unset.
type Bookmark struct {
	ID            int64
	URL           string
	Title         string
	Slug          string
	Description   *string
	Tags          *string
	Favicon       *string
	OGImage       *string
	Overview      *string
	IsPromoted    bool
	VisitCount    int
	FavoriteCount int
	IsArchived    bool
	CreatedAt     time.Time
}

// Favorite links a user to a bookmark they saved. Bookmark is filled in
// when favorites are listed.
type Favorite struct {
	ID         int64
	UserID     string
	BookmarkID int64
	CreatedAt  time.Time
	Bookmark   *Bookmark
}
