package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/capitainerie/port-russell/internal/domain/catway"
	"github.com/capitainerie/port-russell/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const catwayCounter = "catway_number"

type CatwaysRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewCatwaysRepo(pool *pgxpool.Pool, prom *observability.Prom) *CatwaysRepo {
	return &CatwaysRepo{pool: pool, prom: prom}
}

func (r *CatwaysRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// Create allocates the next catway number atomically through the counters
// row, so two concurrent creations can never produce the same number.
func (r *CatwaysRepo) Create(ctx context.Context, typ, state string) (catway.Catway, error) {
	now := time.Now().UTC()

	c := catway.Catway{
		ID:          uuid.NewString(),
		Type:        typ,
		CatwayState: state,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.observe("catways.create", func() error {
		tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})

		if err != nil {
			return err
		}

		defer func() { _ = tx.Rollback(ctx) }()

		err = tx.QueryRow(ctx,
			`INSERT INTO counters (name, value) VALUES ($1, 1)
			ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
			RETURNING value`,
			catwayCounter,
		).Scan(&c.CatwayNumber)

		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO catways (id, catway_number, type, catway_state, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			c.ID, c.CatwayNumber, c.Type, c.CatwayState, c.CreatedAt, c.UpdatedAt,
		)

		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})

	if err != nil {
		return catway.Catway{}, err
	}

	return c, nil
}

// NextNumber previews the number the next creation would get. Purely
// informational, the allocation itself happens inside Create.
func (r *CatwaysRepo) NextNumber(ctx context.Context) (int, error) {
	var last int

	err := r.observe("catways.next_number", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT value FROM counters WHERE name = $1`, catwayCounter,
		).Scan(&last)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 1, nil
		}

		return 0, err
	}

	return last + 1, nil
}

func (r *CatwaysRepo) UpdateState(ctx context.Context, id, state string) (catway.Catway, error) {
	if _, err := uuid.Parse(id); err != nil {
		return catway.Catway{}, catway.ErrInvalidID
	}

	var c catway.Catway

	err := r.observe("catways.update_state", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE catways
			SET catway_state = $2, updated_at = $3
			WHERE id = $1
			RETURNING id, catway_number, type, catway_state, created_at, updated_at`,
			id, state, time.Now().UTC(),
		).Scan(&c.ID, &c.CatwayNumber, &c.Type, &c.CatwayState, &c.CreatedAt, &c.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catway.Catway{}, catway.ErrNotFound
		}

		return catway.Catway{}, err
	}

	return c, nil
}

func (r *CatwaysRepo) DeleteByNumber(ctx context.Context, number int) error {
	var tag pgconn.CommandTag

	err := r.observe("catways.delete", func() error {
		var err error
		tag, err = r.pool.Exec(ctx, `DELETE FROM catways WHERE catway_number = $1`, number)
		return err
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return catway.ErrNotFound
	}

	return nil
}

func (r *CatwaysRepo) GetByNumber(ctx context.Context, number int) (catway.Catway, error) {
	var c catway.Catway

	err := r.observe("catways.get_by_number", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, catway_number, type, catway_state, created_at, updated_at
			FROM catways
			WHERE catway_number = $1`,
			number,
		).Scan(&c.ID, &c.CatwayNumber, &c.Type, &c.CatwayState, &c.CreatedAt, &c.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catway.Catway{}, catway.ErrNotFound
		}

		return catway.Catway{}, err
	}

	return c, nil
}

func (r *CatwaysRepo) GetByID(ctx context.Context, id string) (catway.Catway, error) {
	if _, err := uuid.Parse(id); err != nil {
		return catway.Catway{}, catway.ErrInvalidID
	}

	var c catway.Catway

	err := r.observe("catways.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, catway_number, type, catway_state, created_at, updated_at
			FROM catways
			WHERE id = $1`,
			id,
		).Scan(&c.ID, &c.CatwayNumber, &c.Type, &c.CatwayState, &c.CreatedAt, &c.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catway.Catway{}, catway.ErrNotFound
		}

		return catway.Catway{}, err
	}

	return c, nil
}

func (r *CatwaysRepo) List(ctx context.Context) ([]catway.Catway, error) {
	var catways []catway.Catway

	err := r.observe("catways.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, catway_number, type, catway_state, created_at, updated_at
			FROM catways
			ORDER BY catway_number`,
		)

		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c catway.Catway

			err = rows.Scan(&c.ID, &c.CatwayNumber, &c.Type, &c.CatwayState, &c.CreatedAt, &c.UpdatedAt)

			if err != nil {
				return err
			}

			catways = append(catways, c)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return catways, nil
}
