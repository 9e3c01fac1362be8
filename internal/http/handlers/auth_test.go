package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/capitainerie/port-russell/internal/auth"
	"github.com/capitainerie/port-russell/internal/config"
	"github.com/capitainerie/port-russell/internal/http/handlers"
	"github.com/capitainerie/port-russell/internal/http/middlewares"
	"github.com/capitainerie/port-russell/internal/repo/memory"
	"github.com/capitainerie/port-russell/internal/security"
	"github.com/capitainerie/port-russell/internal/session"
	"github.com/capitainerie/port-russell/internal/web"
	"github.com/gin-gonic/gin"
)

type destroyRecorder struct {
	destroyed []string
}

func (d *destroyRecorder) Destroy(ctx context.Context, sessionID string) error {
	d.destroyed = append(d.destroyed, sessionID)
	return nil
}

type authFixture struct {
	router    *gin.Engine
	users     *memory.UsersRepo
	jwt       *auth.Manager
	destroyer *destroyRecorder
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	users := memory.NewUsersRepo()

	cfg := config.Config{
		Env:      "dev",
		TokenTTL: time.Hour,
	}

	jwtManager := auth.NewManager("test-secret", cfg.TokenTTL)
	destroyer := &destroyRecorder{}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := handlers.NewAuthHandler(users, jwtManager, destroyer, cfg, log)

	r := gin.New()
	r.SetHTMLTemplate(web.Templates())
	r.Use(session.EnsureSession(time.Hour, false))

	r.GET("/", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)

	return &authFixture{
		router:    r,
		users:     users,
		jwt:       jwtManager,
		destroyer: destroyer,
	}
}

func (f *authFixture) seedUser(t *testing.T, name, email, password string) {
	t.Helper()

	hash, err := security.HashPassword(password)

	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if _, err := f.users.Create(context.Background(), name, email, hash); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func tokenCookie(w *httptest.ResponseRecorder) *http.Cookie {
	res := http.Response{Header: w.Header()}

	for _, c := range res.Cookies() {
		if c.Name == middlewares.TokenCookie {
			return c
		}
	}

	return nil
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "Capitaine", "capitaine@port.fr", "motdepasse")

	form := url.Values{
		"email":    {"capitaine@port.fr"},
		"password": {"motdepasse"},
	}

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want 303: %s", w.Code, w.Body.String())
	}

	if loc := w.Header().Get("Location"); loc != "/dashboard" {
		t.Fatalf("got redirect to %q, want /dashboard", loc)
	}

	c := tokenCookie(w)

	if c == nil {
		t.Fatal("token cookie not set")
	}

	if !c.HttpOnly {
		t.Fatal("token cookie must be HTTP-only")
	}

	claims, err := f.jwt.Verify(c.Value)

	if err != nil {
		t.Fatalf("cookie holds an unverifiable token: %v", err)
	}

	if claims.Email != "capitaine@port.fr" || claims.Name != "Capitaine" {
		t.Fatalf("token claims %+v, want the seeded identity", claims)
	}
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name        string
		form        url.Values
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "missing fields",
			form:        url.Values{"email": {"capitaine@port.fr"}},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Email et mot de passe requis",
		},
		{
			name: "unknown user",
			form: url.Values{
				"email":    {"inconnu@port.fr"},
				"password": {"motdepasse"},
			},
			wantStatus:  http.StatusNotFound,
			wantMessage: "Utilisateur non trouvé",
		},
		{
			name: "wrong password",
			form: url.Values{
				"email":    {"capitaine@port.fr"},
				"password": {"mauvais-mdp"},
			},
			wantStatus:  http.StatusForbidden,
			wantMessage: "Mot de passe incorrect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			f.seedUser(t, "Capitaine", "capitaine@port.fr", "motdepasse")

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()

			f.router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}

			if !strings.Contains(w.Body.String(), tt.wantMessage) {
				t.Fatalf("body %q missing message %q", w.Body.String(), tt.wantMessage)
			}

			if c := tokenCookie(w); c != nil && c.Value != "" {
				t.Fatal("token cookie set on a failed login")
			}
		})
	}
}

func TestLogoutClearsTokenAndSession(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sess-1"})
	req.AddCookie(&http.Cookie{Name: middlewares.TokenCookie, Value: "whatever"})
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want 303", w.Code)
	}

	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("got redirect to %q, want /", loc)
	}

	c := tokenCookie(w)

	if c == nil || c.Value != "" || c.MaxAge >= 0 {
		t.Fatalf("token cookie not cleared: %+v", c)
	}

	if len(f.destroyer.destroyed) != 1 || f.destroyer.destroyed[0] != "sess-1" {
		t.Fatalf("session not destroyed: %v", f.destroyer.destroyed)
	}
}

func TestLoginPageRenders(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	if !strings.Contains(w.Body.String(), "Port de plaisance Russell") {
		t.Fatal("login page missing the title")
	}
}
