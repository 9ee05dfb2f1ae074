package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/academic-task-api/internal/errors"
	"github.com/yukikurage/academic-task-api/internal/models"
)

// RequireRole allows the request through only when the viewer holds one of
// the roles. Must run after LoadViewer.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, ok := GetViewer(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		for _, role := range roles {
			if viewer.Role == role {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "You do not have permission to perform this action")
		c.Abort()
	}
}
