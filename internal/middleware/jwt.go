package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mun-club-api/internal/models"
	appErrors "github.com/noah-isme/mun-club-api/pkg/errors"
	"github.com/noah-isme/mun-club-api/pkg/logger"
	"github.com/noah-isme/mun-club-api/pkg/response"
)

// ContextUserKey is the gin context key storing the authenticated caller.
const ContextUserKey = "currentUser"

type authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Caller, error)
}

// OptionalJWT attaches the caller when a valid bearer token is present. Anonymous requests pass
// through; a malformed or invalid token is rejected so clients notice expired sessions.
func OptionalJWT(auth authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthenticated, "invalid authorization header"))
			c.Abort()
			return
		}

		caller, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		SetCaller(c, caller)
		c.Next()
	}
}

// SetCaller stores the caller on the request context.
func SetCaller(c *gin.Context, caller *models.Caller) {
	if caller == nil {
		return
	}
	c.Set(ContextUserKey, caller)
	c.Set(logger.CallerIDKey, caller.UserID)
}

// CallerFromContext returns the authenticated caller or nil for anonymous requests.
func CallerFromContext(c *gin.Context) *models.Caller {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	caller, ok := value.(*models.Caller)
	if !ok {
		return nil
	}
	return caller
}
