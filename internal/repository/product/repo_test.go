package product

import (
	"context"
	"errors"
	"testing"

	"github.com/pazar-cloud/pazar/internal/db/memory"
	"github.com/pazar-cloud/pazar/internal/domain"
)

func TestPutGet_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.NewStore())

	in := domain.Product{ID: "prod_1", Name: "Domates", Category: "Sebze", Unit: "kg", Freshness: "Taze"}
	if err := repo.Put(ctx, in); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := repo.Get(ctx, "prod_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != in {
		t.Errorf("round trip mismatch: got %+v want %+v", got, in)
	}
}

func TestGet_Missing(t *testing.T) {
	repo := New(memory.NewStore())
	_, err := repo.Get(context.Background(), "prod_nope")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestList_SortedByID(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.NewStore())
	for _, id := range []string{"prod_3", "prod_1", "prod_2"} {
		_ = repo.Put(ctx, domain.Product{ID: id, Name: id})
	}

	products, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	for i, want := range []string{"prod_1", "prod_2", "prod_3"} {
		if products[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, products[i].ID, want)
		}
	}
}

func TestDelete_MissingAndPresent(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.NewStore())

	if err := repo.Delete(ctx, "prod_nope"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	_ = repo.Put(ctx, domain.Product{ID: "prod_1", Name: "Elma"})
	if err := repo.Delete(ctx, "prod_1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, _ := repo.Exists(ctx, "prod_1")
	if ok {
		t.Error("expected product gone after delete")
	}
}
