// internal/interfaces/http/handlers/pages.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linseaa/storefront-gateway/internal/interfaces/http/middleware"
)

// PagesHandler serves the remaining storefront views. They carry no
// server-side data beyond the acting identity; the guards in front of
// them do the real work.
type PagesHandler struct{}

// NewPagesHandler creates a new pages handler
func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

// StaticView returns a handler for a plain named view
func (h *PagesHandler) StaticView(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"view": name,
		})
	}
}

// IdentityView returns a handler for a view rendered around the
// signed-in identity
func (h *PagesHandler) IdentityView(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.MustGetSession(c)
		if sess == nil {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"view": name,
			"user": sess.Identity(),
		})
	}
}

// NotFound redirects any unknown location to the home page
func (h *PagesHandler) NotFound(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}
