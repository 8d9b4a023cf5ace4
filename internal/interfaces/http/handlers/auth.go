// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linseaa/storefront-gateway/internal/config"
	"github.com/linseaa/storefront-gateway/internal/domain/session"
	"github.com/linseaa/storefront-gateway/internal/interfaces/http/middleware"
)

// AuthHandler handles the sign-in and sign-up flow
type AuthHandler struct {
	config *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		config: cfg,
	}
}

// ShowLogin handles GET /auth. An already signed-in session is sent to
// its landing route instead of the form.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	sess := middleware.MustGetSession(c)
	if sess == nil {
		return
	}

	next := c.Query("next")
	if sess.Role().Authenticated() {
		c.Redirect(http.StatusSeeOther, session.LandingRoute(sess.Identity(), next))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"view": "auth",
		"next": next,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	h.authenticate(c, session.ModeLogin)
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	h.authenticate(c, session.ModeRegister)
}

func (h *AuthHandler) authenticate(c *gin.Context, mode session.Mode) {
	sess := middleware.MustGetSession(c)
	if sess == nil {
		return
	}

	var creds session.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
		})
		return
	}

	route, err := sess.Login(c.Request.Context(), mode, creds, c.Query("next"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"redirect": route,
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.MustGetSession(c)
	if sess == nil {
		return
	}

	route := sess.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"redirect": route,
	})
}
