package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/capitainerie/port-russell/internal/config"
	"github.com/capitainerie/port-russell/internal/domain/catway"
	"github.com/capitainerie/port-russell/internal/domain/reservation"
	"github.com/capitainerie/port-russell/internal/domain/user"
	"github.com/capitainerie/port-russell/internal/http/middlewares"
	"github.com/capitainerie/port-russell/internal/security"
	"github.com/capitainerie/port-russell/internal/session"
	"github.com/gin-gonic/gin"
)

// Store interfaces are declared here, consumer-side, so tests can fake them.

type UsersStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	Update(ctx context.Context, id, name, email string) (user.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]user.User, error)
}

type CatwaysStore interface {
	Create(ctx context.Context, typ, state string) (catway.Catway, error)
	NextNumber(ctx context.Context) (int, error)
	UpdateState(ctx context.Context, id, state string) (catway.Catway, error)
	DeleteByNumber(ctx context.Context, number int) error
	GetByNumber(ctx context.Context, number int) (catway.Catway, error)
	GetByID(ctx context.Context, id string) (catway.Catway, error)
	List(ctx context.Context) ([]catway.Catway, error)
}

type ReservationsStore interface {
	Create(ctx context.Context, req reservation.CreateReservationRequest) (reservation.Reservation, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (reservation.Reservation, error)
	GetByIDAndCatway(ctx context.Context, id string, catwayNumber int) (reservation.Reservation, error)
	List(ctx context.Context) ([]reservation.Reservation, error)
	ListByCatway(ctx context.Context, catwayNumber int) ([]reservation.Reservation, error)
}

type FlashWriter interface {
	Set(ctx context.Context, sessionID, slot, message string) error
	ReadAll(ctx context.Context, sessionID string) (map[string]string, error)
}

type DashboardHandler struct {
	users        UsersStore
	catways      CatwaysStore
	reservations ReservationsStore
	flash        FlashWriter
	log          *slog.Logger
}

func NewDashboardHandler(users UsersStore, catways CatwaysStore, reservations ReservationsStore, flash FlashWriter, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		users:        users,
		catways:      catways,
		reservations: reservations,
		flash:        flash,
		log:          log,
	}
}

// report implements the redirect-report cycle: write the outcome into the
// session flash slot, then redirect to the dashboard. Always in that order;
// a flash write failure only costs the banner, never the redirect.
func (h *DashboardHandler) report(ctx *gin.Context, slot, message string) {
	if actor, ok := middlewares.NameFromContext(ctx); ok {
		h.log.Info("dashboard action", "slot", slot, "actor", actor)
	}

	sid, ok := session.IDFromContext(ctx)

	if ok {
		cctx, cancel := config.WithTimeout(2 * time.Second)
		defer cancel()

		if err := h.flash.Set(cctx, sid, slot, message); err != nil {
			h.log.Error("flash write failed", "slot", slot, "err", err)
		}
	}

	ctx.Redirect(http.StatusSeeOther, "/dashboard")
}

// Dashboard renders the listing page with every non-empty flash slot. Slots
// clear themselves on the store's timer, reading here has no side effects.
func (h *DashboardHandler) Dashboard(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	catways, err := h.catways.List(cctx)

	if err != nil {
		h.log.Error("catways list failed", "err", err)
		ctx.String(http.StatusInternalServerError, "Erreur serveur")
		return
	}

	reservations, err := h.reservations.List(cctx)

	if err != nil {
		h.log.Error("reservations list failed", "err", err)
		ctx.String(http.StatusInternalServerError, "Erreur serveur")
		return
	}

	users, err := h.users.List(cctx)

	if err != nil {
		h.log.Error("users list failed", "err", err)
		ctx.String(http.StatusInternalServerError, "Erreur serveur")
		return
	}

	flashes := map[string]string{}

	if sid, ok := session.IDFromContext(ctx); ok {
		flashes, err = h.flash.ReadAll(cctx, sid)

		if err != nil {
			// banner loss is non-fatal
			h.log.Error("flash read failed", "err", err)
			flashes = map[string]string{}
		}
	}

	ctx.HTML(http.StatusOK, "dashboard.html", gin.H{
		"title":        "Tableau de bord",
		"catways":      catways,
		"reservations": reservations,
		"users":        users,
		"flashes":      flashes,
	})
}

// User actions

func (h *DashboardHandler) CreateUser(ctx *gin.Context) {
	var req user.CreateUserRequest

	if err := ctx.ShouldBind(&req); err != nil {
		h.report(ctx, session.SlotErrorCreateUser, "Tous les champs doivent être remplis.")
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		h.report(ctx, session.SlotErrorCreateUser, "Erreur serveur")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err = h.users.Create(cctx, req.Name, req.Email, hash)

	if err != nil {
		h.report(ctx, session.SlotErrorCreateUser, userErrMessage(err))
		return
	}

	h.report(ctx, session.SlotSuccessCreateUser, "Utilisateur créé avec succès.")
}

func (h *DashboardHandler) UpdateUser(ctx *gin.Context) {
	var req user.UpdateUserRequest

	if err := ctx.ShouldBind(&req); err != nil {
		h.report(ctx, session.SlotErrorUpdateUser, "Tous les champs doivent être remplis.")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err := h.users.Update(cctx, req.UserID, req.Name, req.Email)

	if err != nil {
		h.report(ctx, session.SlotErrorUpdateUser, userErrMessage(err))
		return
	}

	h.report(ctx, session.SlotSuccessUpdateUser, "Utilisateur mis à jour avec succès.")
}

func (h *DashboardHandler) DeleteUser(ctx *gin.Context) {
	var req user.DeleteUserRequest

	if err := ctx.ShouldBind(&req); err != nil {
		h.report(ctx, session.SlotErrorDeleteUser, "Tous les champs doivent être remplis.")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.users.Delete(cctx, req.UserID)

	if err != nil {
		h.report(ctx, session.SlotErrorDeleteUser, userErrMessage(err))
		return
	}

	h.report(ctx, session.SlotSuccessDeleteUser, "Utilisateur supprimé avec succès.")
}

// Catway actions

func (h *DashboardHandler) CreateCatway(ctx *gin.Context) {
	var req catway.CreateCatwayRequest

	if err := ctx.ShouldBind(&req); err != nil {
		h.report(ctx, session.SlotErrorCreateCatway, "Le type du catway et la description de l'état du catway sont requis.")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err := h.catways.Create(cctx, req.Type, req.CatwayState)

	if err != nil {
		h.report(ctx, session.SlotErrorCreateCatway, catwayErrMessage(err))
		return
	}

	h.report(ctx, session.SlotSuccessCreateCatway, "Catway créé avec succès.")
}

func (h *DashboardHandler) NextCatwayNumber(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	next, err := h.catways.NextNumber(cctx)

	if err != nil {
		h.log.Error("next catway number failed", "err", err)
		RespondInternal(ctx, "Erreur serveur")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"nextCatwayNumber": next})
}

func (h *DashboardHandler) UpdateCatwayState(ctx *gin.Context) {
	var req catway.UpdateCatwayStateRequest

	if err := ctx.ShouldBind(&req); err != nil {
		h.report(ctx, session.SlotErrorUpdateCatway, "Tous les champs sont requis.")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err := h.catways.UpdateState(cctx, req.CatwayID, req.CatwayState)

	if err != nil {
		h.report(ctx, session.SlotErrorUpdateCatway, catwayErrMessage(err))
		return
	}

	h.report(ctx, session.SlotSuccessUpdateCatway, "État du catway mis à jour avec succès.")
}

func (h *DashboardHandler) DeleteCatway(ctx *gin.Context) {
	var req catway.DeleteCatwayRequest

	if err := ctx.ShouldBind(&req); err != nil {
		h.report(ctx, session.SlotErrorDeleteCatway, "Numéro de catway invalide.")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.catways.DeleteByNumber(cctx, req.CatwayNumber)

	if err != nil {
		h.report(ctx, session.SlotErrorDeleteCatway, catwayErrMessage(err))
		return
	}

	h.report(ctx, session.SlotSuccessDeleteCatway, "Catway supprimé avec succès.")
}

func (h *DashboardHandler) CatwayDetails(ctx *gin.Context) {
	number, err := strconv.Atoi(ctx.Param("catwayNumber"))

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Catway non trouvé"})
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	c, err := h.catways.GetByNumber(cctx, number)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Catway non trouvé"})
		return
	}

	ctx.JSON(http.StatusOK, catway.Details{
		Type:        c.Type,
		CatwayState: c.CatwayState,
	})
}

// Reservation actions

func (h *DashboardHandler) SaveReservation(ctx *gin.Context) {
	var req reservation.CreateReservationRequest

	if err := ctx.ShouldBind(&req); err != nil {
		h.report(ctx, session.SlotErrorSaveReservation, "Tous les champs sont requis.")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err := h.reservations.Create(cctx, req)

	if err != nil {
		h.report(ctx, session.SlotErrorSaveReservation, reservationErrMessage(err))
		return
	}

	h.report(ctx, session.SlotSuccessSaveReservation, "Réservation enregistrée avec succès.")
}

func (h *DashboardHandler) DeleteReservation(ctx *gin.Context) {
	var req reservation.DeleteReservationRequest

	if err := ctx.ShouldBind(&req); err != nil {
		h.report(ctx, session.SlotErrorDeleteReservation, "L'ID est requis.")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.reservations.Delete(cctx, req.ReservationID)

	if err != nil {
		h.report(ctx, session.SlotErrorDeleteReservation, reservationErrMessage(err))
		return
	}

	h.report(ctx, session.SlotSuccessDeleteReservation, "Réservation supprimée avec succès.")
}

func (h *DashboardHandler) ReservationDetails(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	res, err := h.reservations.GetByID(cctx, ctx.Param("reservationId"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": reservationErrMessage(err)})
		return
	}

	ctx.JSON(http.StatusOK, reservation.Details{
		CatwayNumber: res.CatwayNumber,
		ClientName:   res.ClientName,
		BoatName:     res.BoatName,
		CheckIn:      res.CheckIn,
		CheckOut:     res.CheckOut,
	})
}

// Error-to-message mapping. Users only ever see these strings in a flash
// banner or a JSON error body.

func userErrMessage(err error) string {
	switch {
	case errors.Is(err, user.ErrEmailTaken):
		return "Un utilisateur avec cet email existe déjà."
	case errors.Is(err, user.ErrInvalidID):
		return "L'ID utilisateur fourni est invalide."
	case errors.Is(err, user.ErrNotFound):
		return "Utilisateur non trouvé."
	default:
		return "Erreur serveur"
	}
}

func catwayErrMessage(err error) string {
	switch {
	case errors.Is(err, catway.ErrInvalidID):
		return "L'ID du catway fourni est invalide."
	case errors.Is(err, catway.ErrNotFound):
		return "Catway non trouvé."
	default:
		return "Erreur serveur"
	}
}

func reservationErrMessage(err error) string {
	switch {
	case errors.Is(err, reservation.ErrInvalidID):
		return "L'ID de la réservation fourni est invalide."
	case errors.Is(err, reservation.ErrNotFound):
		return "Réservation non trouvée."
	case errors.Is(err, reservation.ErrUnknownCatway):
		return "Ce numéro de catway n'existe pas."
	default:
		return "Erreur serveur"
	}
}
