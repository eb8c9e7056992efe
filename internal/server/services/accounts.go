// Package services contains server-side business logic: the account store
// (validation, hashing, CRUD) and the avatar binding workflow.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/cryptox"
	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	accountsrepo "github.com/dmitrijs2005/accounts/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ImageRemover deletes the stored file behind an account's image path.
type ImageRemover interface {
	RemoveImage(ctx context.Context, path string) error
}

// UpdateAccountInput selects the account by Email. A nil (or empty) field
// means "not supplied" and leaves the stored value untouched.
type UpdateAccountInput struct {
	Email    string
	FullName *string
	Password *string
}

// AccountService owns the account entity: validation, password hashing and
// persistence.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *cryptox.PasswordHasher
	images      ImageRemover
	logger      logging.Logger
	now         func() time.Time
}

// NewAccountService wires the store. images may be nil when no image backend
// is configured; deleting an account with a bound image then fails.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher *cryptox.PasswordHasher, images ImageRemover, logger logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		images:      images,
		logger:      logger.With("module", "accounts"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create validates the input, hashes the password and inserts the account.
// Email uniqueness is enforced by the database.
func (s *AccountService) Create(ctx context.Context, fullName, email, password string) error {
	in := accountInput{FullName: fullName, Email: NormalizeEmail(email), Password: password}
	if err := validateStruct(in); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w: %w", common.ErrorInternal, err)
	}

	now := s.now()
	account := &models.Account{
		ID:           uuid.NewString(),
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	repo := s.repomanager.Accounts(s.db)
	if err := repo.Create(ctx, account); err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return common.ErrDuplicateEmail
		}
		return fmt.Errorf("error creating account: %w: %w", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "account created", "id", account.ID)
	return nil
}

// Update applies the supplied fields in one statement. The password is
// re-validated and re-hashed only when a new one is supplied; columns that
// were not supplied are never written.
func (s *AccountService) Update(ctx context.Context, in UpdateAccountInput) error {
	email := NormalizeEmail(in.Email)
	if email == "" {
		return &ValidationError{Fields: map[string]string{"email": fieldMessage("email", "required")}}
	}
	fullName, password := supplied(in.FullName), supplied(in.Password)
	if err := validateStruct(updateInput{FullName: fullName, Password: password}); err != nil {
		return err
	}

	patch := accountsrepo.Patch{FullName: fullName, UpdatedAt: s.now()}
	if password != nil {
		hash, err := s.hasher.Hash(*password)
		if err != nil {
			return fmt.Errorf("error hashing password: %w: %w", common.ErrorInternal, err)
		}
		patch.PasswordHash = &hash
	}

	if err := s.repomanager.Accounts(s.db).UpdateFields(ctx, email, patch); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error updating account: %w: %w", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "account updated", "email", email, "password_changed", password != nil)
	return nil
}

// Delete removes the account and its bound image in one unit: the row is
// deleted inside a transaction that only commits once the file is gone.
func (s *AccountService) Delete(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return &ValidationError{Fields: map[string]string{"email": fieldMessage("email", "required")}}
	}

	var (
		deleted      *models.Account
		imageRemoved bool
	)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		account, err := s.repomanager.Accounts(tx).DeleteByEmail(ctx, email)
		if err != nil {
			return err
		}
		if account.HasImage() {
			if s.images == nil {
				return errors.New("no image storage configured")
			}
			if err := s.images.RemoveImage(ctx, account.ImagePath); err != nil {
				return fmt.Errorf("error removing image: %w", err)
			}
			imageRemoved = true
		}
		deleted = account
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		if imageRemoved {
			// the file is gone but the row survived the failed commit
			s.logger.Warn(ctx, "account references a removed image", "email", email,
				"path", deleted.ImagePath, "error", err)
		}
		return fmt.Errorf("error deleting account: %w: %w", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "account deleted", "id", deleted.ID, "image_removed", deleted.HasImage())
	return nil
}

// List returns every account, password hash included.
func (s *AccountService) List(ctx context.Context) ([]*models.Account, error) {
	accounts, err := s.repomanager.Accounts(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w: %w", common.ErrorInternal, err)
	}
	return accounts, nil
}

// GetByEmail looks an account up by (normalized) email.
func (s *AccountService) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading account: %w: %w", common.ErrorInternal, err)
	}
	return account, nil
}

// VerifyPassword compares candidate with the stored hash.
func (s *AccountService) VerifyPassword(account *models.Account, candidate string) (bool, error) {
	return s.hasher.Compare(account.PasswordHash, candidate)
}

func supplied(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}
