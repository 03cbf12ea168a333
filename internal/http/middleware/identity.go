// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file centralizes staff identity resolution. Authentication happens
// upstream (the dashboard session layer); the authenticated staff user id
// reaches this service either as the "userID" Gin context key set by an auth
// middleware, or as the X-User-ID request header. Rate limiting, idempotency
// lookups, and access logs all key on the same identity, so they share one
// resolver instead of each reinventing the lookup order.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// userIDKey is the Gin context key under which upstream auth middleware
	// stores the staff user id.
	userIDKey = "userID"
	// HeaderUserID is the request header that carries the staff user id when
	// no auth middleware has populated the context.
	HeaderUserID = "X-User-ID"
)

// staffID resolves the caller's staff user id, preferring the context key and
// falling back to the X-User-ID header. ok is false when neither is present.
func staffID(c *gin.Context) (id string, ok bool) {
	if v, exists := c.Get(userIDKey); exists {
		if s, isStr := v.(string); isStr && s != "" {
			return s, true
		}
	}
	if c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader(HeaderUserID)); h != "" {
			return h, true
		}
	}
	return "", false
}
