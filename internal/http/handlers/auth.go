package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/capitainerie/port-russell/internal/auth"
	"github.com/capitainerie/port-russell/internal/config"
	"github.com/capitainerie/port-russell/internal/domain/user"
	"github.com/capitainerie/port-russell/internal/http/middlewares"
	"github.com/capitainerie/port-russell/internal/security"
	"github.com/capitainerie/port-russell/internal/session"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type SessionDestroyer interface {
	Destroy(ctx context.Context, sessionID string) error
}

type AuthHandler struct {
	users    UserReader
	jwt      *auth.Manager
	sessions SessionDestroyer
	cfg      config.Config
	log      *slog.Logger
}

func NewAuthHandler(users UserReader, jwtManager *auth.Manager, sessions SessionDestroyer, cfg config.Config, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		jwt:      jwtManager,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
	}
}

type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

// LoginPage renders the landing/login view.
func (h *AuthHandler) LoginPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "index.html", gin.H{
		"title": "Port de plaisance Russell",
	})
}

// Login checks the credentials, mints a 24h token into the HTTP-only cookie
// and redirects to the dashboard.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Email et mot de passe requis"})
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Utilisateur non trouvé"})
			return
		}

		h.log.Error("login lookup failed", "err", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Mot de passe incorrect"})
		return
	}

	token, err := h.jwt.Issue(foundUser.ID, foundUser.Email, foundUser.Name)

	if err != nil {
		h.log.Error("token issue failed", "err", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur serveur"})
		return
	}

	h.setTokenCookie(ctx, token)

	ctx.Redirect(http.StatusSeeOther, "/dashboard")
}

// Logout clears the token cookie and drops the session's flash state.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearTokenCookie(ctx)

	if sid, ok := session.IDFromContext(ctx); ok && h.sessions != nil {
		cctx, cancel := config.WithTimeout(2 * time.Second)
		defer cancel()

		if err := h.sessions.Destroy(cctx, sid); err != nil {
			h.log.Error("session destroy failed", "err", err)
		}
	}

	ctx.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) setTokenCookie(ctx *gin.Context, token string) {
	secure := h.cfg.Env == "prod"

	ctx.SetSameSite(http.SameSiteStrictMode)

	ctx.SetCookie(
		middlewares.TokenCookie,
		token,
		int(h.cfg.TokenTTL.Seconds()),
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearTokenCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(
		middlewares.TokenCookie,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
