package handler

import (
	"errors"
	"net/http"

	"bookingdesk/internal/middleware"
	"bookingdesk/internal/service"
	"bookingdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

// statusFor maps a service error onto its HTTP status
func statusFor(err error) int {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDomainNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, service.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrInvalidAssignee):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)

	var ve *service.ValidationError
	if errors.As(err, &ve) {
		c.JSON(status, response.ValidationError(status, "Validation failed", ve.Fields))
		return
	}
	if status == http.StatusInternalServerError {
		c.JSON(status, response.Error(status, "Internal server error"))
		return
	}
	c.JSON(status, response.Error(status, err.Error()))
}

func badPayload(c *gin.Context) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
}

// currentActor fetches the session actor, aborting with 401 when the route was
// mounted without RequireSession
func currentActor(c *gin.Context) (service.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
	}
	return actor, ok
}
