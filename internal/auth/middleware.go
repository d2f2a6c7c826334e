package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/badreads/badreads/internal/errors"
)

// ContextKeySession holds the request's Session in the gin context.
const ContextKeySession = "auth_session"

// Identify copies the cookie session into the gin context. Requests without
// a session carry the zero Session.
func (sm *SessionManager) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeySession, sm.Current(c.Request))
		c.Next()
	}
}

// RequireSession rejects requests without an active session.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).Active() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":  errors.ErrNoActiveSession.Message,
				"code":   errors.ErrNoActiveSession.Code,
				"reason": errors.ErrNoActiveSession.Reason,
			})
			return
		}
		c.Next()
	}
}

// CurrentSession retrieves the session from the gin context.
func CurrentSession(c *gin.Context) Session {
	if v, exists := c.Get(ContextKeySession); exists {
		if s, ok := v.(Session); ok {
			return s
		}
	}
	return Session{}
}

// SetSession replaces the session in the gin context, after login or logout.
func SetSession(c *gin.Context, s Session) {
	c.Set(ContextKeySession, s)
}
