package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"bookingdesk/internal/service"
	"bookingdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie = "access_token"
	actorKey          = "actor"
)

// CookiePolicy decides how the access token cookie is scoped.
// Production (cross-origin): SameSiteNoneMode + Secure=true
// Development (same-site):   SameSiteLaxMode  + Secure=false
type CookiePolicy struct {
	Secure bool
}

func (p CookiePolicy) apply(c *gin.Context) {
	if p.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
}

// SetTokenCookie stores the access token as an HttpOnly cookie until expiresAt
func (p CookiePolicy) SetTokenCookie(c *gin.Context, token string, expiresAt time.Time) {
	p.apply(c)
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetCookie(AccessTokenCookie, token, maxAge, "/", "", p.Secure, true)
}

// ClearTokenCookie removes the access token cookie
func (p CookiePolicy) ClearTokenCookie(c *gin.Context) {
	p.apply(c)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", p.Secure, true)
}

// TokenFromRequest reads the token from the cookie first, then the Authorization header
func TokenFromRequest(c *gin.Context) (string, error) {
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token, nil
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errors.New("Authorization is missing")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.New("Invalid authorization format. Expected 'Bearer <token>'")
	}
	return parts[1], nil
}

// RequireSession resolves the caller's session into a service.Actor.
// Role and status checks are left to the services; a pending admin still
// passes here so it can read its own profile.
func RequireSession(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := TokenFromRequest(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
			return
		}

		actor, err := auth.CurrentSession(c.Request.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			msg := "Invalid or expired session"
			if errors.Is(err, service.ErrStore) {
				status = http.StatusInternalServerError
				msg = "Failed to verify session"
			}
			c.AbortWithStatusJSON(status, response.Error(status, msg))
			return
		}

		c.Set(actorKey, *actor)
		c.Next()
	}
}

// ActorFrom returns the actor stored by RequireSession
func ActorFrom(c *gin.Context) (service.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return service.Actor{}, false
	}
	actor, ok := v.(service.Actor)
	return actor, ok
}
