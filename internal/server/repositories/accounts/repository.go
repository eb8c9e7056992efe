package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/accounts/internal/server/models"
)

// Repository is the persistence contract of the account store. Emails are
// expected to be normalized by the caller.
type Repository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateFields(ctx context.Context, email string, patch Patch) error
	// SetImagePathIfEmpty binds path only while the account has no image and
	// reports whether a row was updated.
	SetImagePathIfEmpty(ctx context.Context, email, path string, at time.Time) (bool, error)
	DeleteByEmail(ctx context.Context, email string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
}

// Patch is a partial update: nil columns keep their stored value.
type Patch struct {
	FullName     *string
	PasswordHash *string
	UpdatedAt    time.Time
}
