package handler

import (
	"net/http"

	"bookingdesk/internal/middleware"
	"bookingdesk/internal/service"
	"bookingdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService    service.AuthService
	profileService service.ProfileService
	cookies        middleware.CookiePolicy
	session        gin.HandlerFunc
}

// NewAuthHandler sets up the routing dependencies for sign-up and session endpoints
func NewAuthHandler(
	authService service.AuthService,
	profileService service.ProfileService,
	cookies middleware.CookiePolicy,
	session gin.HandlerFunc,
) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
		cookies:        cookies,
		session:        session,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/sign-up", h.SignUp)
		auth.POST("/sign-in", h.SignIn)
		auth.GET("/session", h.session, h.Session)
		auth.POST("/sign-out", h.session, h.SignOut)
	}
}

// SignUp registers an identity and provisions its profile
// @Summary      Sign up
// @Description  Creates an identity for an allowed email domain. The super-admin address is activated immediately, every other address waits for approval.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RegisterRequest  true  "Sign-up credentials"
// @Success      201      {object}  response.Response{data=service.ProfileResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	profile, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, profile))
}

// SignIn handles POST /api/auth/sign-in and sets the access token cookie
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SignInRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=service.SessionResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req service.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	sess, err := h.authService.SignIn(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cookies.SetTokenCookie(c, sess.Token, sess.ExpiresAt)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sess))
}

// Session returns the profile behind the current session
// @Summary      Current session
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.ProfileResponse}
// @Failure      401  {object}  response.Response
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
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

// SignOut ends the current session
// @Summary      Sign out
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/sign-out [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.authService.SignOut(c.Request.Context(), actor); err != nil {
		respondError(c, err)
		return
	}

	h.cookies.ClearTokenCookie(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Signed out successfully"}))
}
