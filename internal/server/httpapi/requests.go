package httpapi

import (
	"regexp"
	"strings"

	"github.com/dmitrijs2005/linkdir/internal/server/models"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// EmailRequest is the body of /auth/signup and /auth/signin.
type EmailRequest struct {
	Email          string `json:"email"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// Missing reports absent fields; the bot-check token counts only when
// required.
func (r EmailRequest) Missing(captchaRequired bool) bool {
	return strings.TrimSpace(r.Email) == "" || (captchaRequired && r.RecaptchaToken == "")
}

func (r EmailRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
	)
}

// VerifyRequest is the body of /auth/verify.
type VerifyRequest struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

func (r VerifyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Email, validation.Required),
	)
}

type AdminLoginRequest struct {
	Password string `json:"password"`
}

func (r AdminLoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required),
	)
}

// UpdateUserRequest is the body of PATCH /admin/users/:id.
type UpdateUserRequest struct {
	Email string `json:"email"`
}

func (r UpdateUserRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
	)
}

// FavoriteRequest is the body of POST /favorites.
type FavoriteRequest struct {
	BookmarkID int64 `json:"bookmarkId"`
}

func (r FavoriteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookmarkID, validation.Required, validation.Min(int64(1))),
	)
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CreateBookmarkRequest is the body of POST /admin/bookmarks.
type CreateBookmarkRequest struct {
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	Tags        *string `json:"tags"`
	Favicon     *string `json:"favicon"`
	OGImage     *string `json:"ogImage"`
	Overview    *string `json:"overview"`
	IsPromoted  bool    `json:"isPromoted"`
}

func (r CreateBookmarkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required, validation.Length(1, 2048), is.URL),
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Slug, validation.Required, validation.Length(1, 100), validation.Match(slugPattern)),
		validation.Field(&r.Favicon, validation.NilOrNotEmpty, is.URL),
		validation.Field(&r.OGImage, validation.NilOrNotEmpty, is.URL),
	)
}

func (r CreateBookmarkRequest) model() *models.Bookmark {
	return &models.Bookmark{
		URL:         strings.TrimSpace(r.URL),
		Title:       strings.TrimSpace(r.Title),
		Slug:        r.Slug,
		Description: r.Description,
		Tags:        r.Tags,
		Favicon:     r.Favicon,
		OGImage:     r.OGImage,
		Overview:    r.Overview,
		IsPromoted:  r.IsPromoted,
	}
}
