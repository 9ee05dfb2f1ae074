package middleware

import (
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/academic-task-api/internal/constants"
	"github.com/yukikurage/academic-task-api/internal/database"
	apierrors "github.com/yukikurage/academic-task-api/internal/errors"
	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/repository"
	"github.com/yukikurage/academic-task-api/internal/visibility"
	"gorm.io/gorm"
)

// RequireAuth checks if the user is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)

		if userID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// LoadViewer loads the session user with their departments and stores both
// the user and the visibility viewer in the context. Users without a role or
// with a deactivated account are turned away. Must run after RequireAuth.
func LoadViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := repository.NewUserRepository(database.GetDB()).FindByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// The account was removed after the session was issued
				sessions.Default(c).Clear()
				_ = sessions.Default(c).Save()
				apierrors.Unauthorized(c, "")
			} else {
				apierrors.InternalError(c, "Failed to load user")
			}
			c.Abort()
			return
		}

		if !user.Role.Valid() {
			apierrors.EmailNotRegistered(c, "")
			c.Abort()
			return
		}
		if !user.IsActive {
			apierrors.InactiveAccount(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyViewer, visibility.NewViewer(user))
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetViewer retrieves the viewer stored by LoadViewer
func GetViewer(c *gin.Context) (visibility.Viewer, bool) {
	value, exists := c.Get(constants.ContextKeyViewer)
	if !exists {
		return visibility.Viewer{}, false
	}
	viewer, ok := value.(visibility.Viewer)
	return viewer, ok
}

// GetCurrentUser retrieves the user stored by LoadViewer
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
