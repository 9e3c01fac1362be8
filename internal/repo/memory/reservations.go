package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/capitainerie/port-russell/internal/domain/reservation"
	"github.com/google/uuid"
)

type ReservationsRepo struct {
	mu      sync.RWMutex
	items   map[string]reservation.Reservation
	catways *CatwaysRepo
}

// NewReservationsRepo takes the catways repo so creation can enforce that
// the reserved catway number exists, like the SQL variant does.
func NewReservationsRepo(catways *CatwaysRepo) *ReservationsRepo {
	return &ReservationsRepo{
		items:   make(map[string]reservation.Reservation),
		catways: catways,
	}
}

func (r *ReservationsRepo) Create(ctx context.Context, req reservation.CreateReservationRequest) (reservation.Reservation, error) {
	if r.catways != nil {
		_, err := r.catways.GetByNumber(ctx, req.CatwayNumber)

		if err != nil {
			return reservation.Reservation{}, reservation.ErrUnknownCatway
		}
	}

	now := time.Now().UTC()

	res := reservation.Reservation{
		ID:           uuid.NewString(),
		CatwayNumber: req.CatwayNumber,
		ClientName:   req.ClientName,
		BoatName:     req.BoatName,
		CheckIn:      req.CheckIn,
		CheckOut:     req.CheckOut,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.mu.Lock()
	r.items[res.ID] = res
	r.mu.Unlock()

	return res, nil
}

func (r *ReservationsRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return reservation.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[id]

	if !ok {
		return reservation.ErrNotFound
	}

	delete(r.items, id)

	return nil
}

func (r *ReservationsRepo) GetByID(ctx context.Context, id string) (reservation.Reservation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return reservation.Reservation{}, reservation.ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.items[id]

	if !ok {
		return reservation.Reservation{}, reservation.ErrNotFound
	}

	return res, nil
}

// GetByIDAndCatway scopes the lookup to a catway number; a reservation on
// another catway is a miss.
func (r *ReservationsRepo) GetByIDAndCatway(ctx context.Context, id string, catwayNumber int) (reservation.Reservation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return reservation.Reservation{}, reservation.ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.items[id]

	if !ok || res.CatwayNumber != catwayNumber {
		return reservation.Reservation{}, reservation.ErrNotFound
	}

	return res, nil
}

func (r *ReservationsRepo) ListByCatway(ctx context.Context, catwayNumber int) ([]reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reservation.Reservation, 0)

	for _, res := range r.items {
		if res.CatwayNumber == catwayNumber {
			out = append(out, res)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })

	return out, nil
}

func (r *ReservationsRepo) List(ctx context.Context) ([]reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reservation.Reservation, 0, len(r.items))

	for _, res := range r.items {
		out = append(out, res)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })

	return out, nil
}
