package handler

import (
	"net/http"
	"time"

	identityapp "github.com/apex/backoffice/internal/application/identity"
	"github.com/apex/backoffice/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
)

// sessionCookieName is the cookie carrying the JWT for browser clients.
// API clients can ignore it and send the Authorization header instead.
const sessionCookieName = "session_token"

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	cookieCfg   config.CookieConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService, cookieCfg config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookieCfg:   cookieCfg,
	}
}

// Login godoc
// @ID           login
// @Summary      Authenticate a user
// @Description  Validates credentials and returns a JWT, also set as an HttpOnly cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginRequest true "Credentials"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      429 {object} dto.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.setSessionCookie(c, resp.Token, time.Until(resp.ExpiresAt))
	h.Success(c, resp)
}

// Logout godoc
// @ID           logout
// @Summary      End the current session
// @Description  Clears the session cookie; the JWT itself stays valid until expiry
// @Tags         auth
// @Produce      json
// @Success      204 "No Content"
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -time.Hour)
	h.NoContent(c)
}

// Me godoc
// @ID           me
// @Summary      Get the authenticated user
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(parseSameSite(h.cookieCfg.SameSite))
	c.SetCookie(
		sessionCookieName,
		token,
		int(ttl.Seconds()),
		h.cookieCfg.Path,
		h.cookieCfg.Domain,
		h.cookieCfg.Secure,
		true, // HttpOnly, the token is never readable from JS
	)
}

func parseSameSite(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
