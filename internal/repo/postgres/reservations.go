package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/capitainerie/port-russell/internal/domain/reservation"
	"github.com/capitainerie/port-russell/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewReservationsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ReservationsRepo {
	return &ReservationsRepo{pool: pool, prom: prom}
}

func (r *ReservationsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// Create inserts the reservation only if the catway number exists. The
// existence check rides in the INSERT itself so there is no read-then-write
// window.
func (r *ReservationsRepo) Create(ctx context.Context, req reservation.CreateReservationRequest) (reservation.Reservation, error) {
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

	var tag pgconn.CommandTag

	err := r.observe("reservations.create", func() error {
		var err error
		tag, err = r.pool.Exec(ctx,
			`INSERT INTO reservations (id, catway_number, client_name, boat_name, check_in, check_out, created_at, updated_at)
			SELECT $1, $2, $3, $4, $5, $6, $7, $8
			WHERE EXISTS (SELECT 1 FROM catways WHERE catway_number = $2)`,
			res.ID, res.CatwayNumber, res.ClientName, res.BoatName, res.CheckIn, res.CheckOut, res.CreatedAt, res.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return reservation.Reservation{}, err
	}

	if tag.RowsAffected() == 0 {
		return reservation.Reservation{}, reservation.ErrUnknownCatway
	}

	return res, nil
}

func (r *ReservationsRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return reservation.ErrInvalidID
	}

	var tag pgconn.CommandTag

	err := r.observe("reservations.delete", func() error {
		var err error
		tag, err = r.pool.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
		return err
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return reservation.ErrNotFound
	}

	return nil
}

func (r *ReservationsRepo) GetByID(ctx context.Context, id string) (reservation.Reservation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return reservation.Reservation{}, reservation.ErrInvalidID
	}

	var res reservation.Reservation

	err := r.observe("reservations.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, catway_number, client_name, boat_name, check_in, check_out, created_at, updated_at
			FROM reservations
			WHERE id = $1`,
			id,
		).Scan(&res.ID, &res.CatwayNumber, &res.ClientName, &res.BoatName, &res.CheckIn, &res.CheckOut, &res.CreatedAt, &res.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reservation.Reservation{}, reservation.ErrNotFound
		}

		return reservation.Reservation{}, err
	}

	return res, nil
}

// GetByIDAndCatway looks the reservation up scoped to a catway number, for
// the nested per-catway pages. A reservation on another catway is a miss.
func (r *ReservationsRepo) GetByIDAndCatway(ctx context.Context, id string, catwayNumber int) (reservation.Reservation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return reservation.Reservation{}, reservation.ErrInvalidID
	}

	var res reservation.Reservation

	err := r.observe("reservations.get_by_id_and_catway", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, catway_number, client_name, boat_name, check_in, check_out, created_at, updated_at
			FROM reservations
			WHERE id = $1 AND catway_number = $2`,
			id, catwayNumber,
		).Scan(&res.ID, &res.CatwayNumber, &res.ClientName, &res.BoatName, &res.CheckIn, &res.CheckOut, &res.CreatedAt, &res.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reservation.Reservation{}, reservation.ErrNotFound
		}

		return reservation.Reservation{}, err
	}

	return res, nil
}

func (r *ReservationsRepo) ListByCatway(ctx context.Context, catwayNumber int) ([]reservation.Reservation, error) {
	var reservations []reservation.Reservation

	err := r.observe("reservations.list_by_catway", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, catway_number, client_name, boat_name, check_in, check_out, created_at, updated_at
			FROM reservations
			WHERE catway_number = $1
			ORDER BY check_in`,
			catwayNumber,
		)

		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var res reservation.Reservation

			err = rows.Scan(&res.ID, &res.CatwayNumber, &res.ClientName, &res.BoatName, &res.CheckIn, &res.CheckOut, &res.CreatedAt, &res.UpdatedAt)

			if err != nil {
				return err
			}

			reservations = append(reservations, res)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return reservations, nil
}

func (r *ReservationsRepo) List(ctx context.Context) ([]reservation.Reservation, error) {
	var reservations []reservation.Reservation

	err := r.observe("reservations.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, catway_number, client_name, boat_name, check_in, check_out, created_at, updated_at
			FROM reservations
			ORDER BY check_in`,
		)

		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var res reservation.Reservation

			err = rows.Scan(&res.ID, &res.CatwayNumber, &res.ClientName, &res.BoatName, &res.CheckIn, &res.CheckOut, &res.CreatedAt, &res.UpdatedAt)

			if err != nil {
				return err
			}

			reservations = append(reservations, res)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return reservations, nil
}
