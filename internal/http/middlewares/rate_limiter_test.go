package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/capitainerie/port-russell/internal/auth"
	"github.com/capitainerie/port-russell/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func TestRateLimiterKeysByAuthenticatedUser(t *testing.T) {
	manager := auth.NewManager("test-secret", time.Hour)

	tokenA, err := manager.Issue("user-a", "a@port.fr", "A")

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	tokenB, err := manager.Issue("user-b", "b@port.fr", "B")

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	gate := middlewares.NewAuthMiddleware(manager)
	limiter := middlewares.NewRateLimiter(2, time.Minute)

	r := gin.New()
	r.POST("/dashboard/create-catway",
		gate.RequireAuth(),
		limiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	do := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/dashboard/create-catway", nil)
		req.AddCookie(&http.Cookie{Name: middlewares.TokenCookie, Value: token})
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		return w.Code
	}

	// user A burns through their window
	for i := 0; i < 2; i++ {
		if code := do(tokenA); code != http.StatusOK {
			t.Fatalf("request %d got status %d, want 200", i+1, code)
		}
	}

	if code := do(tokenA); code != http.StatusTooManyRequests {
		t.Fatalf("got status %d, want 429 once the window is spent", code)
	}

	// user B has their own bucket
	if code := do(tokenB); code != http.StatusOK {
		t.Fatalf("got status %d for another user, want 200", code)
	}
}

func TestRateLimiterWindowIsFixed(t *testing.T) {
	limiter := middlewares.NewRateLimiter(1, 50*time.Millisecond)

	r := gin.New()
	r.POST("/login", limiter.RateLimiterMiddleware(middlewares.KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		return w
	}

	if w := do(); w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	w := do()

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("got status %d, want 429", w.Code)
	}

	if w.Header().Get("Retry-After") == "" {
		t.Fatal("429 missing the Retry-After header")
	}

	time.Sleep(80 * time.Millisecond)

	if w := do(); w.Code != http.StatusOK {
		t.Fatalf("got status %d after the window rolled, want 200", w.Code)
	}
}
