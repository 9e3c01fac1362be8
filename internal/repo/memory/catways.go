package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/capitainerie/port-russell/internal/domain/catway"
	"github.com/google/uuid"
)

type CatwaysRepo struct {
	mu      sync.RWMutex
	items   map[string]catway.Catway
	lastNum int
}

func NewCatwaysRepo() *CatwaysRepo {
	return &CatwaysRepo{
		items: make(map[string]catway.Catway),
	}
}

func (r *CatwaysRepo) Create(ctx context.Context, typ, state string) (catway.Catway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastNum++

	now := time.Now().UTC()

	c := catway.Catway{
		ID:           uuid.NewString(),
		CatwayNumber: r.lastNum,
		Type:         typ,
		CatwayState:  state,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.items[c.ID] = c

	return c, nil
}

func (r *CatwaysRepo) NextNumber(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lastNum + 1, nil
}

func (r *CatwaysRepo) UpdateState(ctx context.Context, id, state string) (catway.Catway, error) {
	if _, err := uuid.Parse(id); err != nil {
		return catway.Catway{}, catway.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]

	if !ok {
		return catway.Catway{}, catway.ErrNotFound
	}

	c.CatwayState = state
	c.UpdatedAt = time.Now().UTC()

	r.items[id] = c

	return c, nil
}

func (r *CatwaysRepo) DeleteByNumber(ctx context.Context, number int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.items {
		if c.CatwayNumber == number {
			delete(r.items, id)
			return nil
		}
	}

	return catway.ErrNotFound
}

func (r *CatwaysRepo) GetByNumber(ctx context.Context, number int) (catway.Catway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.items {
		if c.CatwayNumber == number {
			return c, nil
		}
	}

	return catway.Catway{}, catway.ErrNotFound
}

func (r *CatwaysRepo) GetByID(ctx context.Context, id string) (catway.Catway, error) {
	if _, err := uuid.Parse(id); err != nil {
		return catway.Catway{}, catway.ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]

	if !ok {
		return catway.Catway{}, catway.ErrNotFound
	}

	return c, nil
}

func (r *CatwaysRepo) List(ctx context.Context) ([]catway.Catway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catway.Catway, 0, len(r.items))

	for _, c := range r.items {
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CatwayNumber < out[j].CatwayNumber })

	return out, nil
}
