package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/capitainerie/port-russell/internal/domain/reservation"
	"github.com/capitainerie/port-russell/internal/http/handlers"
	"github.com/capitainerie/port-russell/internal/repo/memory"
	"github.com/capitainerie/port-russell/internal/web"
	"github.com/gin-gonic/gin"
)

type catwaysFixture struct {
	router       *gin.Engine
	catways      *memory.CatwaysRepo
	reservations *memory.ReservationsRepo
}

func newCatwaysFixture() *catwaysFixture {
	catways := memory.NewCatwaysRepo()
	reservations := memory.NewReservationsRepo(catways)

	h := handlers.NewCatwaysHandler(catways, reservations)

	r := gin.New()
	r.SetHTMLTemplate(web.Templates())

	r.GET("/catways", h.List)
	r.GET("/catways/:catwayNumber", h.Details)
	r.GET("/catways/:catwayNumber/reservations", h.Reservations)
	r.GET("/catways/:catwayNumber/reservations/:reservationId", h.ReservationDetails)
	r.GET("/documentation", handlers.NewDocsHandler().Page)

	return &catwaysFixture{router: r, catways: catways, reservations: reservations}
}

func (f *catwaysFixture) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	return w
}

func (f *catwaysFixture) seedReservation(t *testing.T, catwayNumber int, client string) reservation.Reservation {
	t.Helper()

	res, err := f.reservations.Create(context.Background(), reservation.CreateReservationRequest{
		CatwayNumber: catwayNumber,
		ClientName:   client,
		BoatName:     "La Sirène",
		CheckIn:      time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:     time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	})

	if err != nil {
		t.Fatalf("seed reservation failed: %v", err)
	}

	return res
}

func TestCatwaysListPage(t *testing.T) {
	f := newCatwaysFixture()

	if _, err := f.catways.Create(context.Background(), "long", "bon état"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	w := f.get("/catways")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	if !strings.Contains(w.Body.String(), "/catways/1/reservations") {
		t.Fatal("list page missing the per-catway reservations link")
	}
}

func TestCatwayDetailsPage(t *testing.T) {
	f := newCatwaysFixture()

	if _, err := f.catways.Create(context.Background(), "short", "bon état"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	t.Run("found", func(t *testing.T) {
		w := f.get("/catways/1")

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200", w.Code)
		}

		if !strings.Contains(w.Body.String(), "Catway n°1") {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("unknown number", func(t *testing.T) {
		w := f.get("/catways/99")

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want 404", w.Code)
		}

		if !strings.Contains(w.Body.String(), "Catway non trouvé") {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("non-numeric", func(t *testing.T) {
		w := f.get("/catways/abc")

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want 404", w.Code)
		}
	})
}

func TestCatwayReservationsPageScopedToCatway(t *testing.T) {
	f := newCatwaysFixture()
	ctx := context.Background()

	if _, err := f.catways.Create(ctx, "long", "bon état"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := f.catways.Create(ctx, "short", "bon état"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	f.seedReservation(t, 1, "Mme Dupont")
	f.seedReservation(t, 2, "M. Martin")

	w := f.get("/catways/1/reservations")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	body := w.Body.String()

	if !strings.Contains(body, "Mme Dupont") {
		t.Fatal("page missing the catway's own reservation")
	}

	if strings.Contains(body, "M. Martin") {
		t.Fatal("page leaked another catway's reservation")
	}
}

func TestCatwayReservationDetailsPage(t *testing.T) {
	f := newCatwaysFixture()
	ctx := context.Background()

	if _, err := f.catways.Create(ctx, "long", "bon état"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := f.catways.Create(ctx, "short", "bon état"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	res := f.seedReservation(t, 1, "Mme Dupont")

	t.Run("found", func(t *testing.T) {
		w := f.get("/catways/1/reservations/" + res.ID)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200", w.Code)
		}

		if !strings.Contains(w.Body.String(), "Mme Dupont") {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("wrong catway", func(t *testing.T) {
		w := f.get("/catways/2/reservations/" + res.ID)

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want 404", w.Code)
		}

		if !strings.Contains(w.Body.String(), "Réservation non trouvée.") {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		w := f.get("/catways/1/reservations/pas-un-uuid")

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want 404", w.Code)
		}
	})
}

func TestDocumentationPage(t *testing.T) {
	f := newCatwaysFixture()

	w := f.get("/documentation")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	body := w.Body.String()

	if !strings.Contains(body, "Documentation de l&#39;API") && !strings.Contains(body, "Documentation de l'API") {
		t.Fatal("documentation page missing its heading")
	}

	if !strings.Contains(body, "/catways/:catwayNumber/reservations") {
		t.Fatal("documentation page missing the reservation routes")
	}
}
