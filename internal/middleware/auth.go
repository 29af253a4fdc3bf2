package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token and checks that it belongs to
// the currently logged-in session. Tokens issued before a logout are rejected.
func AuthMiddleware(jwtSecret string, sessions portssvc.SessionSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || tokenString == "" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := utils.ParseAndValidateJWT(tokenString, jwtSecret)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		if claims.Subject == "" {
			logger.Error("Subject missing from valid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		session := sessions.Current(c.Request.Context())
		if !session.IsLoggedIn || session.User == nil || !strings.EqualFold(session.User.Email, claims.Subject) {
			logger.Warn("Token does not match the active session", slog.String("subject", claims.Subject))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has ended"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, claims.Subject)
		ctx = WithLogger(ctx, logger.With(slog.String("user_id", claims.Subject)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
