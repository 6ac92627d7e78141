// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/featured"
)

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, featured.ErrPostNotFound),
		errors.Is(err, featured.ErrPostTypeNotFound),
		errors.Is(err, featured.ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, featured.ErrInvalidNonce):
		return http.StatusForbidden
	case errors.Is(err, featured.ErrInvalidRequest),
		errors.Is(err, featured.ErrInvalidPostType),
		errors.Is(err, featured.ErrInvalidThumbnail),
		errors.Is(err, featured.ErrUnsupportedImage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// idParam parses a positive numeric path parameter
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
