package httpapi

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	// ImageDir is served under /images when set (disk backend only).
	ImageDir       string
	RequestTimeout time.Duration
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(h *Handler, logger logging.Logger, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger), RequestTimeout(opts.RequestTimeout))

	users := r.Group("/user")
	users.POST("", h.CreateUser)
	users.PUT("", h.UpdateUser)
	users.DELETE("", h.DeleteUser)
	users.GET("", h.ListUsers)
	users.POST("/image", h.UploadImage)

	r.GET("/api/companies/getAll", h.ListCompanies)
	r.GET("/health", h.Health)

	if opts.ImageDir != "" {
		r.Static(strings.TrimSuffix(common.ImagesURLPrefix, "/"), opts.ImageDir)
	}

	return r
}
