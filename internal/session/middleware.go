package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CookieName = "session_id"

	ctxSessionIDKey = "session.id"
)

// EnsureSession assigns a session id cookie on first contact. The id is only
// a key into the redis-backed store, nothing is created server-side until a
// handler writes a flash message.
func EnsureSession(ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(CookieName)

		if err != nil || id == "" {
			id = uuid.NewString()

			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(
				CookieName,
				id,
				int(ttl.Seconds()),
				"/",
				"",
				secure,
				true, // HttpOnly
			)
		}

		c.Set(ctxSessionIDKey, id)

		c.Next()
	}
}

func IDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxSessionIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
