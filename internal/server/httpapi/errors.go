package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/services"
	"github.com/gin-gonic/gin"
)

func respondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// respondWithServiceError maps service errors onto status codes. Anything not
// recognised is logged and reported as a bare 500.
func (h *Handler) respondWithServiceError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": ve.Fields})
	case errors.Is(err, common.ErrDuplicateEmail):
		respondWithError(c, http.StatusBadRequest, "User with this email already exists")
	case errors.Is(err, common.ErrorNotFound):
		respondWithError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, common.ErrImageAlreadyBound):
		respondWithError(c, http.StatusBadRequest, "Image already exists for this user")
	case errors.Is(err, common.ErrUnsupportedMediaType):
		respondWithError(c, http.StatusUnsupportedMediaType, "Only images are allowed (jpeg, jpg, png, gif)")
	case errors.Is(err, common.ErrPayloadTooLarge):
		respondWithError(c, http.StatusRequestEntityTooLarge, "File size exceeds the 5MB limit")
	default:
		h.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		respondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
