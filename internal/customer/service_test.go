package customer_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/salon-booking/internal/customer"
	"github.com/hackgods/salon-booking/internal/memstore"
)

func newManager() *customer.Manager {
	return customer.NewManager(memstore.New().Customers(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegisterNormalizes(t *testing.T) {
	m := newManager()
	c, err := m.Register(context.Background(), customer.Input{
		Name:  "  Maria Silva ",
		Email: " Maria@Example.COM ",
		Phone: " 11999990000 ",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if c.Name != "Maria Silva" || c.Email != "maria@example.com" || c.Phone != "11999990000" {
		t.Fatalf("input not normalized: %+v", c)
	}
	if c.ID == uuid.Nil || c.RegisteredAt.IsZero() {
		t.Fatalf("expected id and registration time, got %+v", c)
	}

	got, err := m.GetByEmail(context.Background(), "MARIA@example.com")
	if err != nil || got.ID != c.ID {
		t.Fatalf("GetByEmail = %+v, %v", got, err)
	}
}

func TestRegisterValidation(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	if _, err := m.Register(ctx, customer.Input{Email: "a@example.com"}); !errors.Is(err, customer.ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if _, err := m.Register(ctx, customer.Input{Name: "Ana", Email: "   "}); !errors.Is(err, customer.ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
	if _, err := m.Register(ctx, customer.Input{Name: "Ana", Email: "ana@example.com"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	_, err := m.Register(ctx, customer.Input{Name: "Ana Souza", Email: "ANA@example.com"})
	if !errors.Is(err, customer.ErrDuplicateEmail) || !errors.Is(err, customer.ErrInvalid) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	ana, _ := m.Register(ctx, customer.Input{Name: "Ana", Email: "ana@example.com"})
	bia, _ := m.Register(ctx, customer.Input{Name: "Bia", Email: "bia@example.com"})

	updated, err := m.Update(ctx, ana.ID, customer.Input{Name: "Ana Souza", Email: "ana@example.com", Address: "Rua A, 1"})
	if err != nil {
		t.Fatalf("keeping the same email must be allowed: %v", err)
	}
	if updated.Name != "Ana Souza" || updated.Address != "Rua A, 1" {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if !updated.RegisteredAt.Equal(ana.RegisteredAt) {
		t.Fatal("registration time must not change on update")
	}

	if _, err := m.Update(ctx, ana.ID, customer.Input{Name: "Ana", Email: bia.Email}); !errors.Is(err, customer.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if _, err := m.Update(ctx, uuid.New(), customer.Input{Name: "X", Email: "x@example.com"}); !errors.Is(err, customer.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchAndList(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	for _, in := range []customer.Input{
		{Name: "Carla Mendes", Email: "carla@example.com", Phone: "1111"},
		{Name: "Ana Souza", Email: "ana@example.com", Phone: "2222"},
		{Name: "Bruna Souza", Email: "bruna@example.com", Phone: "1111"},
	} {
		if _, err := m.Register(ctx, in); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}

	all, _ := m.List(ctx)
	if len(all) != 3 || all[0].Name != "Ana Souza" || all[2].Name != "Carla Mendes" {
		t.Fatalf("expected name order, got %+v", all)
	}

	souza, _ := m.SearchByName(ctx, "souza")
	if len(souza) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(souza))
	}

	byPhone, _ := m.SearchByPhone(ctx, " 1111 ")
	if len(byPhone) != 2 {
		t.Fatalf("expected 2 phone matches, got %d", len(byPhone))
	}
}

func TestRegisteredBetween(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	clock := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	m.WithClock(func() time.Time { return clock })

	old, _ := m.Register(ctx, customer.Input{Name: "Old", Email: "old@example.com"})
	clock = clock.AddDate(0, 1, 0)
	recent, _ := m.Register(ctx, customer.Input{Name: "Recent", Email: "recent@example.com"})

	got, err := m.RegisteredBetween(ctx, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("RegisteredBetween failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != recent.ID {
		t.Fatalf("expected only %s, got %+v (old=%s)", recent.ID, got, old.ID)
	}
}

func TestDeleteAndExists(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	c, _ := m.Register(ctx, customer.Input{Name: "Ana", Email: "ana@example.com"})

	if ok, err := m.Exists(ctx, c.ID); err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
	if err := m.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if ok, err := m.Exists(ctx, c.ID); err != nil || ok {
		t.Fatalf("Exists after delete = %v, %v", ok, err)
	}
	if err := m.Delete(ctx, c.ID); !errors.Is(err, customer.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
