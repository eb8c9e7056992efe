package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accounts/internal/server/storage"
	"github.com/google/uuid"
)

var allowedImageTypes = map[string]struct{}{
	"jpeg": {},
	"jpg":  {},
	"png":  {},
	"gif":  {},
}

// Upload is a candidate avatar as received from the transport layer.
// Size is the declared size; Body is still read through a limit.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageService binds uploaded avatars to accounts. An account gets at most
// one image and a stored object is never left without an owning account.
type ImageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     storage.Storage
	logger      logging.Logger
	maxSize     int64
	newKey      func(ext string) string
	now         func() time.Time
}

func NewImageService(db *sql.DB, m repomanager.RepositoryManager, st storage.Storage, logger logging.Logger) *ImageService {
	return &ImageService{
		db:          db,
		repomanager: m,
		storage:     st,
		logger:      logger.With("module", "images"),
		maxSize:     common.MaxImageSize,
		newKey:      func(ext string) string { return uuid.NewString() + ext },
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// BindImage validates and stores the upload, then attaches it to the account
// identified by email. It returns the public path of the stored image.
func (s *ImageService) BindImage(ctx context.Context, email string, up Upload) (string, error) {
	ext, err := imageExtension(up.FileName, up.ContentType)
	if err != nil {
		return "", err
	}
	if up.Size > s.maxSize {
		return "", common.ErrPayloadTooLarge
	}

	email = NormalizeEmail(email)
	if email == "" {
		return "", &ValidationError{Fields: map[string]string{"email": fieldMessage("email", "required")}}
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("error loading account: %w: %w", common.ErrorInternal, err)
	}
	if account.HasImage() {
		return "", common.ErrImageAlreadyBound
	}

	data, err := io.ReadAll(io.LimitReader(up.Body, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("error reading upload: %w: %w", common.ErrorInternal, err)
	}
	if int64(len(data)) > s.maxSize {
		return "", common.ErrPayloadTooLarge
	}

	key := s.newKey(ext)
	if err := s.storage.Put(ctx, key, data, up.ContentType); err != nil {
		// a failed Put may still have created the object on some backends
		s.cleanup(ctx, key)
		return "", fmt.Errorf("error storing image: %w: %w", common.ErrorInternal, err)
	}

	path := common.ImagesURLPrefix + key
	bound, err := repo.SetImagePathIfEmpty(ctx, email, path, s.now())
	if err != nil {
		s.cleanup(ctx, key)
		return "", fmt.Errorf("error binding image: %w: %w", common.ErrorInternal, err)
	}
	if !bound {
		s.cleanup(ctx, key)
		// lost the race: either the account vanished or another upload won
		if _, err := repo.GetByEmail(ctx, email); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return "", common.ErrorNotFound
			}
			return "", fmt.Errorf("error loading account: %w: %w", common.ErrorInternal, err)
		}
		return "", common.ErrImageAlreadyBound
	}

	s.logger.Info(ctx, "image bound", "id", account.ID, "path", path, "size", len(data))
	return path, nil
}

// RemoveImage deletes the object behind a public image path. Missing objects
// count as removed.
func (s *ImageService) RemoveImage(ctx context.Context, path string) error {
	key := strings.TrimPrefix(path, common.ImagesURLPrefix)
	if key == "" {
		return nil
	}
	return s.storage.Delete(ctx, key)
}

func (s *ImageService) cleanup(ctx context.Context, key string) {
	if err := s.storage.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn(ctx, "orphan image not removed", "key", key,
			"error", fmt.Errorf("%w: %w", common.ErrCleanupFailed, err))
	}
}

// imageExtension checks that both the file extension and the declared media
// type name an allowed image format and returns the lowercased extension.
func imageExtension(fileName, contentType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := allowedImageTypes[strings.TrimPrefix(ext, ".")]; !ok {
		return "", common.ErrUnsupportedMediaType
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", common.ErrUnsupportedMediaType
	}
	typ, sub, found := strings.Cut(mediaType, "/")
	if !found || typ != "image" {
		return "", common.ErrUnsupportedMediaType
	}
	if _, ok := allowedImageTypes[sub]; !ok {
		return "", common.ErrUnsupportedMediaType
	}
	return ext, nil
}
