// Package testutil provides common test utilities for the CUPCAKE backend.
package testutil

import (
	"github.com/gin-gonic/gin"

	"github.com/cupcake/backend/internal/interfaces/http/middleware"
)

// Headers understood by TestAuthMiddleware.
const (
	TestUserIDHeader   = "X-Test-User-ID"
	TestUsernameHeader = "X-Test-Username"
	TestIsStaffHeader  = "X-Test-Is-Staff"
)

// TestAuthMiddleware simulates authenticated requests without issuing real
// tokens. It copies the test headers into the JWT context keys that
// handlers read, so API tests can act as any user by setting headers.
func TestAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader(TestUserIDHeader); userID != "" {
			c.Set(middleware.JWTUserIDKey, userID)
		}
		if username := c.GetHeader(TestUsernameHeader); username != "" {
			c.Set(middleware.JWTUsernameKey, username)
		}
		if c.GetHeader(TestIsStaffHeader) == "true" {
			c.Set(middleware.JWTIsStaffKey, true)
		}
		c.Next()
	}
}
