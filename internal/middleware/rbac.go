package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mun-club-api/internal/authz"
	"github.com/noah-isme/mun-club-api/pkg/response"
)

// Authorize rejects the request before binding or storage access when the caller may not perform op.
func Authorize(op authz.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authz.Check(CallerFromContext(c), op); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
