package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// userIDKey stores the token subject (the session user's email).
const userIDKey = contextKey("userID")

// GetUserIDFromContext retrieves the authenticated subject from the request context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return UserIDFromCtx(c.Request.Context())
}

// UserIDFromCtx retrieves the authenticated subject from a standard context.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
