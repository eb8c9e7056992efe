// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account is a registered user. PasswordHash is a bcrypt encoded string and
// ImagePath is empty until an avatar has been bound.
type Account struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	ImagePath    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasImage reports whether an avatar is bound to the account.
func (a *Account) HasImage() bool {
	return a.ImagePath != ""
}
