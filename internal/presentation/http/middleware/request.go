// Package middleware provides gin middleware for request scoping and admin access
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AtRiskMedia/tractstack-featured/internal/application/services"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/caching/stores"
)

const (
	requestIDHeader  = "X-Request-ID"
	requestIDKey     = "requestId"
	privilegedKey    = "privileged"
	asyncHeaderValue = "xmlhttprequest"
)

// RequestID tags every request with an id, reusing a sane incoming one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// MetaCache gives each request its own post metadata cache
func MetaCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := stores.WithMetaStore(c.Request.Context(), stores.NewMetaStore())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Privileged marks every request of a route group as an admin request
func Privileged() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(privilegedKey, true)
		c.Next()
	}
}

// GetRequestContext describes the caller to the resolver
func GetRequestContext(c *gin.Context) services.RequestContext {
	return services.RequestContext{
		Privileged: c.GetBool(privilegedKey),
		Async:      IsAsync(c),
	}
}

// IsAsync reports whether the request is a background call from a page
func IsAsync(c *gin.Context) bool {
	return strings.EqualFold(strings.TrimSpace(c.GetHeader("X-Requested-With")), asyncHeaderValue)
}
