package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/academic-task-api/internal/constants"
	apierrors "github.com/yukikurage/academic-task-api/internal/errors"
	"github.com/yukikurage/academic-task-api/internal/logger"
	"github.com/yukikurage/academic-task-api/internal/middleware"
	"github.com/yukikurage/academic-task-api/internal/services"
	"github.com/yukikurage/academic-task-api/internal/validation"
	"github.com/yukikurage/academic-task-api/internal/visibility"
	"go.uber.org/zap"
)

var (
	notFoundErrors = []error{
		services.ErrUserNotFound,
		services.ErrCampusNotFound,
		services.ErrSchoolNotFound,
		services.ErrDepartmentNotFound,
		services.ErrProjectNotFound,
		services.ErrTaskNotFound,
		services.ErrTeamNotFound,
		services.ErrSubTaskNotFound,
		services.ErrWorkLogNotFound,
	}

	forbiddenErrors = []error{
		services.ErrRoleNotGrantable,
		services.ErrAccountsAdminOnly,
		services.ErrCannotModifySelf,
		services.ErrNoManagedDepartment,
		services.ErrProjectPermissionDenied,
		services.ErrDepartmentNotAllowed,
		services.ErrTaskPermissionDenied,
		services.ErrTeamPermissionDenied,
		services.ErrWorkLogNotAllowed,
	}

	conflictErrors = []error{
		services.ErrUsernameTaken,
		services.ErrEmailTaken,
		services.ErrEmpIDTaken,
		services.ErrPhoneNumberTaken,
	}

	badRequestErrors = []error{
		services.ErrPasswordMismatch,
		services.ErrUsernameRequired,
		services.ErrEmailRequired,
		services.ErrInvalidPhoneNumber,
		services.ErrInvalidRole,
		services.ErrInvalidOrganizationName,
		services.ErrDepartmentCampusMismatch,
		services.ErrSchoolCampusMismatch,
		services.ErrDepartmentSchoolMismatch,
		services.ErrProjectNameRequired,
		services.ErrTitleRequired,
		services.ErrTitleEmpty,
		services.ErrAssigneeRequired,
		services.ErrInvalidTaskAssignee,
		services.ErrInvalidTaskStatus,
		services.ErrInvalidTaskPriority,
		services.ErrInvalidDuration,
		services.ErrCommentEmpty,
		services.ErrSubTaskNotAssigned,
		services.ErrSubTaskTitleMissing,
		services.ErrTeamNameRequired,
		services.ErrTeamLeadRequired,
		services.ErrInvalidTeamMember,
		services.ErrEventNameRequired,
		services.ErrInvalidEventDates,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondError maps a service error onto the API error response.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.RespondWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, err.Error()))
	case errors.Is(err, services.ErrEmailNotRegistered):
		apierrors.EmailNotRegistered(c, "")
	case errors.Is(err, services.ErrInactiveAccount):
		apierrors.InactiveAccount(c, "")
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case isAny(err, notFoundErrors):
		apierrors.NotFound(c, err.Error())
	case isAny(err, forbiddenErrors):
		apierrors.Forbidden(c, err.Error())
	case isAny(err, conflictErrors):
		apierrors.Conflict(c, err.Error())
	case isAny(err, badRequestErrors):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrAINoSubTasksSuggested):
		apierrors.ServiceUnavailable(c, err.Error())
	default:
		logger.SystemLogger.Error("request failed",
			zap.String("request_id", c.GetString(constants.ContextKeyReqID)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		apierrors.InternalError(c, "")
	}
}

// respondBindError reports a request body that failed to bind, with field
// details when validation rejected it.
func respondBindError(c *gin.Context, err error) {
	if details := validation.Details(err); details != nil {
		apierrors.BadRequestWithDetails(c, "Validation failed", details)
		return
	}
	apierrors.BadRequest(c, "Invalid request body")
}

// currentViewer returns the viewer loaded by middleware.LoadViewer.
func currentViewer(c *gin.Context) (visibility.Viewer, bool) {
	viewer, ok := middleware.GetViewer(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return viewer, ok
}

// paramID parses a numeric path parameter, answering 400 when it is not one.
func paramID(c *gin.Context, name, label string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}

// queryID parses an optional numeric query parameter.
func queryID(c *gin.Context, name string) (*uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &id, true
}
