package handler

import (
	"context"
	"net/http"

	"bookingdesk/internal/service"
	"bookingdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
	session        gin.HandlerFunc
}

func NewProfileHandler(profileService service.ProfileService, session gin.HandlerFunc) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, session: session}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profiles := router.Group("/api/profiles")
	profiles.Use(h.session)
	{
		profiles.GET("/me", h.GetMe)
		profiles.GET("", h.ListProfiles)
		profiles.GET("/assignable", h.ListAssignable)
		profiles.PUT("/:id/approve", h.ApproveProfile)
		profiles.PUT("/:id/deny", h.DenyProfile)
		profiles.PUT("/:id/revoke", h.RevokeProfile)
	}
}

// GetMe returns the caller's profile and the dashboard it is routed to
// @Summary      Get current profile
// @Tags         profiles
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.ProfileResponse}
// @Failure      401  {object}  response.Response
// @Router       /api/profiles/me [get]
func (h *ProfileHandler) GetMe(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	profile, err := h.profileService.Me(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// ListProfiles returns profiles, optionally filtered by status
// @Summary      List profiles
// @Tags         profiles
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "pending_admin, active or revoked"
// @Success      200     {object}  response.Response{data=[]service.ProfileResponse}
// @Failure      403     {object}  response.Response
// @Router       /api/profiles [get]
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	profiles, err := h.profileService.List(c.Request.Context(), actor, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profiles))
}

// ListAssignable returns the admins bookings can be assigned to
// @Summary      List assignable admins
// @Tags         profiles
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.ProfileResponse}
// @Failure      403  {object}  response.Response
// @Router       /api/profiles/assignable [get]
func (h *ProfileHandler) ListAssignable(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	profiles, err := h.profileService.Assignable(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profiles))
}

// ApproveProfile activates a pending admin
// @Summary      Approve an admin
// @Tags         profiles
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=service.ProfileResponse}
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/profiles/{id}/approve [put]
func (h *ProfileHandler) ApproveProfile(c *gin.Context) {
	h.transition(c, h.profileService.Approve)
}

// DenyProfile revokes a pending admin
// @Summary      Deny an admin
// @Tags         profiles
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=service.ProfileResponse}
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/profiles/{id}/deny [put]
func (h *ProfileHandler) DenyProfile(c *gin.Context) {
	h.transition(c, h.profileService.Deny)
}

// RevokeProfile revokes an active admin
// @Summary      Revoke an admin
// @Tags         profiles
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=service.ProfileResponse}
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/profiles/{id}/revoke [put]
func (h *ProfileHandler) RevokeProfile(c *gin.Context) {
	h.transition(c, h.profileService.Revoke)
}

type profileTransition func(ctx context.Context, actor service.Actor, id string) (*service.ProfileResponse, error)

func (h *ProfileHandler) transition(c *gin.Context, op profileTransition) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	profile, err := op(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}
