package models

import "time"

// User is a registered directory member.
//
// VerificationToken and VerificationExpires are either both set (a login or
// signup link is outstanding) or both nil.
type User struct {
	ID                  string
	Email               string
	EmailVerified       bool
	VerificationToken   *string
	VerificationExpires *time.Time
	LastSignIn          *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasPendingToken reports whether a verification link is outstanding.
func (u *User) HasPendingToken() bool {
	return u.VerificationToken != nil && u.VerificationExpires != nil
}

// TokenExpired reports whether the outstanding token is no longer usable at now.
// A token is valid strictly before its expiry instant.
func (u *User) TokenExpired(now time.Time) bool {
	return u.VerificationExpires != nil && !now.Before(*u.VerificationExpires)
}
