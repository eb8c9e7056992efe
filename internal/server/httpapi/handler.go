// Package httpapi exposes the account store, the avatar upload and the
// company catalog over HTTP using gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/catalog"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/services"
	"github.com/gin-gonic/gin"
)

// AccountStore is the subset of the account service used by the handlers.
type AccountStore interface {
	Create(ctx context.Context, fullName, email, password string) error
	Update(ctx context.Context, in services.UpdateAccountInput) error
	Delete(ctx context.Context, email string) error
	List(ctx context.Context) ([]*models.Account, error)
}

// ImageBinder attaches an uploaded avatar to an account.
type ImageBinder interface {
	BindImage(ctx context.Context, email string, up services.Upload) (string, error)
}

type Handler struct {
	accounts AccountStore
	images   ImageBinder
	catalog  catalog.Catalog
	logger   logging.Logger
}

func NewHandler(accounts AccountStore, images ImageBinder, cat catalog.Catalog, logger logging.Logger) *Handler {
	return &Handler{accounts: accounts, images: images, catalog: cat, logger: logger}
}

type createUserRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Email    string  `json:"email"`
	FullName *string `json:"fullName"`
	Password *string `json:"password"`
}

type deleteUserRequest struct {
	Email string `json:"email"`
}

type userView struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.accounts.Create(c.Request.Context(), req.FullName, req.Email, req.Password); err != nil {
		h.respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully."})
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.accounts.Update(c.Request.Context(), services.UpdateAccountInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		h.respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully."})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	var req deleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), req.Email); err != nil {
		h.respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully."})
}

func (h *Handler) ListUsers(c *gin.Context) {
	accounts, err := h.accounts.List(c.Request.Context())
	if err != nil {
		h.respondWithServiceError(c, err)
		return
	}

	users := make([]userView, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, userView{FullName: a.FullName, Email: a.Email, Password: a.PasswordHash})
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UploadImage expects a multipart form with the file under "image" and the
// owner's address under "email".
func (h *Handler) UploadImage(c *gin.Context) {
	// room for the multipart envelope on top of the image itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, common.MaxImageSize+1<<20)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondWithServiceError(c, common.ErrPayloadTooLarge)
			return
		}
		respondWithError(c, http.StatusBadRequest, "No image file uploaded")
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.respondWithServiceError(c, err)
		return
	}
	defer f.Close()

	path, err := h.images.BindImage(c.Request.Context(), c.PostForm("email"), services.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		h.respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Image uploaded successfully.", "filePath": path})
}

func (h *Handler) ListCompanies(c *gin.Context) {
	companies, err := h.catalog.Companies(c.Request.Context())
	if err != nil {
		h.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
