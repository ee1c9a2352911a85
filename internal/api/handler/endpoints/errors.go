package endpoints

import (
	"api/internal/api/apperr"
	"api/internal/api/handler/response"
	"api/internal/api/models"
	"api/pkg"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// writeError maps the core's error kinds to HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrInvalidTransition), errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrTransport):
		message = "Upstream service unavailable"
	default:
		message = "Internal server error"
	}

	c.JSON(status, response.APIError{Message: message})
}

// actor extracts the authenticated (actorId, role) pair set by the auth
// middleware. Aborts with a 401 when missing.
func actor(c *gin.Context) (uint, models.AppRole, bool) {
	userID, ok := pkg.GetUserID(c)
	if !ok {
		return 0, "", false
	}
	role, ok := pkg.GetUserRole(c)
	if !ok {
		return 0, "", false
	}
	return userID, models.AppRole(role), true
}
