// internal/interfaces/http/middleware/session.go
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linseaa/storefront-gateway/internal/config"
	"github.com/linseaa/storefront-gateway/internal/domain/session"
	"github.com/linseaa/storefront-gateway/internal/pkg/auth"
)

const sessionContextKey = "session"

// Session resolves the browser session for every request. The session
// id rides a JWT-signed cookie; a missing or invalid cookie starts a
// fresh anonymous session. The snapshot is persisted after the handler
// runs so a restarted gateway can restore state.
func Session(registry *session.Registry, cfg *config.Config) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		var sess *session.Session

		if cookie, err := c.Cookie(cfg.Session.CookieName); err == nil {
			if claims, err := jwtManager.ValidateSessionToken(cookie); err == nil {
				sess = registry.GetOrCreate(c.Request.Context(), claims.SessionID)
			}
		}

		if sess == nil {
			sess = registry.Create()
			if token, err := jwtManager.GenerateSessionToken(sess.ID()); err == nil {
				c.SetCookie(cfg.Session.CookieName, token,
					int(cfg.Session.CookieExpiry.Seconds()), "/", "", cfg.IsProduction(), true)
			}
			// bootstrap off the request path; a fresh session is
			// anonymous until it resolves
			go sess.Establish(context.WithoutCancel(c.Request.Context()))
		}

		c.Set(sessionContextKey, sess)
		c.Next()

		// persistence must not inherit the request context: a request
		// that hit its deadline still gets its snapshot written
		saveCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		registry.Save(saveCtx, sess)
	}
}

// GetSession extracts the session from the gin context
func GetSession(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok
}

// MustGetSession extracts the session or aborts with a server error
func MustGetSession(c *gin.Context) *session.Session {
	sess, ok := GetSession(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "session not initialized",
		})
		return nil
	}
	return sess
}
