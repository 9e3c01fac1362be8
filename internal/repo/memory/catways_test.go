package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/capitainerie/port-russell/internal/domain/catway"
	"github.com/capitainerie/port-russell/internal/repo/memory"
)

func TestCatwayNumbersNeverReused(t *testing.T) {
	repo := memory.NewCatwaysRepo()
	ctx := context.Background()

	first, err := repo.Create(ctx, "long", "bon état")

	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	second, err := repo.Create(ctx, "short", "bon état")

	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if first.CatwayNumber != 1 || second.CatwayNumber != 2 {
		t.Fatalf("got numbers %d and %d, want 1 and 2", first.CatwayNumber, second.CatwayNumber)
	}

	// Deleting a catway must not free its number for reallocation.
	if err := repo.DeleteByNumber(ctx, second.CatwayNumber); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	third, err := repo.Create(ctx, "long", "bon état")

	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if third.CatwayNumber != 3 {
		t.Fatalf("got number %d after a delete, want 3", third.CatwayNumber)
	}

	next, err := repo.NextNumber(ctx)

	if err != nil {
		t.Fatalf("next number failed: %v", err)
	}

	if next != 4 {
		t.Fatalf("got next number %d, want 4", next)
	}
}

func TestCatwaySentinelErrors(t *testing.T) {
	repo := memory.NewCatwaysRepo()
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "pas-un-uuid"); !errors.Is(err, catway.ErrInvalidID) {
		t.Fatalf("got %v, want ErrInvalidID", err)
	}

	if _, err := repo.GetByNumber(ctx, 42); !errors.Is(err, catway.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	if err := repo.DeleteByNumber(ctx, 42); !errors.Is(err, catway.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
