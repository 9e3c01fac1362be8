package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/capitainerie/port-russell/internal/auth"
	"github.com/capitainerie/port-russell/internal/cache"
	"github.com/capitainerie/port-russell/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// TokenCookie carries the bearer token; HTTP-only, same-site strict.
const TokenCookie = "token"

// Keep these interfaces small so tests can fake them easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type UserFinder interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier

	// strict mode: re-check that the token subject still exists
	users    UserFinder
	subjects *cache.Cache
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// WithStrictSubjects turns on per-request subject re-validation. The default
// is trust-the-token: whatever the claim says is taken at face value for the
// token's whole lifetime.
func (m *AuthMiddleware) WithStrictSubjects(users UserFinder, subjects *cache.Cache) *AuthMiddleware {
	m.users = users
	m.subjects = subjects
	return m
}

const (
	ctxUserIDKey = "auth.userID"
	ctxEmailKey  = "auth.email"
	ctxNameKey   = "auth.name"
)

// RequireAuth gates protected routes: no cookie means 401 and the handler
// never runs; a malformed or expired token means 403. On success the decoded
// identity rides on the request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(TokenCookie)
		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Accès non autorisé, token manquant",
				},
			})
			return
		}

		claims, err := m.jwt.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "forbidden",
					"message": "Token invalide",
				},
			})
			return
		}

		if m.users != nil && !m.subjectExists(c, claims.UserID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "forbidden",
					"message": "Token invalide",
				},
			})
			return
		}

		// Stash useful bits of identity on the context
		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxEmailKey, claims.Email)
		c.Set(ctxNameKey, claims.Name)

		c.Next()
	}
}

func (m *AuthMiddleware) subjectExists(c *gin.Context, id string) bool {
	if m.subjects != nil {
		if v, ok := m.subjects.Get(id); ok {
			exists, _ := v.(bool)
			return exists
		}
	}

	_, err := m.users.GetByID(c.Request.Context(), id)

	exists := err == nil

	if err != nil && !errors.Is(err, user.ErrNotFound) && !errors.Is(err, user.ErrInvalidID) {
		// Store trouble is not the client's fault; fail open like the
		// trust-the-token default rather than locking everyone out.
		exists = true
	}

	if m.subjects != nil {
		m.subjects.Set(id, exists)
	}

	return exists
}

// Optional helpers so handlers don’t need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxEmailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}

func NameFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxNameKey)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}
