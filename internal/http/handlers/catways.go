package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/capitainerie/port-russell/internal/config"
	"github.com/capitainerie/port-russell/internal/domain/catway"
	"github.com/capitainerie/port-russell/internal/domain/reservation"
	"github.com/gin-gonic/gin"
)

// CatwaysHandler serves the open, read-only catway pages, including the
// per-catway reservation views. Everything is keyed by catway number.
type CatwaysHandler struct {
	catways      CatwaysStore
	reservations ReservationsStore
}

func NewCatwaysHandler(catways CatwaysStore, reservations ReservationsStore) *CatwaysHandler {
	return &CatwaysHandler{catways: catways, reservations: reservations}
}

func (h *CatwaysHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	catways, err := h.catways.List(cctx)

	if err != nil {
		ctx.String(http.StatusInternalServerError, "Erreur serveur lors de la récupération des catways.")
		return
	}

	ctx.HTML(http.StatusOK, "catways.html", gin.H{
		"title":   "Catways",
		"catways": catways,
	})
}

func (h *CatwaysHandler) Details(ctx *gin.Context) {
	number, err := strconv.Atoi(ctx.Param("catwayNumber"))

	if err != nil {
		ctx.String(http.StatusNotFound, "Catway non trouvé")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	c, err := h.catways.GetByNumber(cctx, number)

	if err != nil {
		if errors.Is(err, catway.ErrNotFound) {
			ctx.String(http.StatusNotFound, "Catway non trouvé")
			return
		}

		ctx.String(http.StatusInternalServerError, "Erreur serveur lors de la récupération du catway.")
		return
	}

	ctx.HTML(http.StatusOK, "catway-details.html", gin.H{
		"title":  "Catway",
		"catway": c,
	})
}

// Reservations lists a catway's reservations, with the full catway list for
// navigation like the other pages.
func (h *CatwaysHandler) Reservations(ctx *gin.Context) {
	number, err := strconv.Atoi(ctx.Param("catwayNumber"))

	if err != nil {
		ctx.String(http.StatusNotFound, "Catway non trouvé")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	reservations, err := h.reservations.ListByCatway(cctx, number)

	if err != nil {
		ctx.String(http.StatusInternalServerError, "Erreur serveur lors de la récupération des réservations.")
		return
	}

	catways, err := h.catways.List(cctx)

	if err != nil {
		ctx.String(http.StatusInternalServerError, "Erreur serveur lors de la récupération des réservations.")
		return
	}

	ctx.HTML(http.StatusOK, "catway-reservations.html", gin.H{
		"title":        "Réservations",
		"catwayNumber": number,
		"reservations": reservations,
		"catways":      catways,
	})
}

// ReservationDetails renders one reservation, scoped to its catway; a
// reservation id that belongs to another catway answers 404.
func (h *CatwaysHandler) ReservationDetails(ctx *gin.Context) {
	number, err := strconv.Atoi(ctx.Param("catwayNumber"))

	if err != nil {
		ctx.String(http.StatusNotFound, "Catway non trouvé")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	res, err := h.reservations.GetByIDAndCatway(cctx, ctx.Param("reservationId"), number)

	if err != nil {
		if errors.Is(err, reservation.ErrNotFound) || errors.Is(err, reservation.ErrInvalidID) {
			ctx.String(http.StatusNotFound, "Réservation non trouvée.")
			return
		}

		ctx.String(http.StatusInternalServerError, "Erreur serveur lors de la récupération de la réservation.")
		return
	}

	ctx.HTML(http.StatusOK, "reservation-details.html", gin.H{
		"title":       "Réservation",
		"reservation": res,
	})
}
