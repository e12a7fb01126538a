package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"escher-cotizador/go_backend/internal/domain/quote"
)

func TestMemoryCreateStampsTimestamps(t *testing.T) {
	m := NewMemory()
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	m.Now = func() time.Time { return fixed }

	ctx := context.Background()
	id, err := m.Create(ctx, CollectionQuotes, quote.Record{ClienteID: "c1", Estado: quote.StatusQuoted})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatal("create should assign an id")
	}

	var rec quote.Record
	if err := m.Get(ctx, CollectionQuotes, id, &rec); err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.ID != id {
		t.Fatalf("id not merged into payload: %q", rec.ID)
	}
	if !rec.CreatedAt.Equal(fixed) || !rec.UpdatedAt.Equal(fixed) {
		t.Fatalf("timestamps = %v / %v, want store-stamped %v", rec.CreatedAt, rec.UpdatedAt, fixed)
	}
}

func TestMemoryUpdateNotFound(t *testing.T) {
	m := NewMemory()
	err := m.Update(context.Background(), CollectionQuotes, "missing", quote.Record{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	var rec quote.Record
	if err := m.Get(context.Background(), CollectionQuotes, "missing", &rec); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryQueryFilterAndOrder(t *testing.T) {
	m := NewMemory()
	ts := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	m.Now = func() time.Time {
		ts = ts.Add(time.Second)
		return ts
	}
	ctx := context.Background()

	quotes := NewQuotes(m)
	first, err := quotes.CreateQuote(ctx, quote.Record{ClienteID: "c1", Estado: quote.StatusQuoted})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := quotes.CreateQuote(ctx, quote.Record{ClienteID: "c2", Estado: quote.StatusSold}); err != nil {
		t.Fatalf("create: %v", err)
	}
	last, err := quotes.CreateQuote(ctx, quote.Record{ClienteID: "c3", Estado: quote.StatusQuoted})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := quotes.List(ctx, quote.StatusQuoted)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d quotes, want 2 matching the status filter", len(got))
	}
	// newest first
	if got[0].ID != last || got[1].ID != first {
		t.Fatalf("order = %s, %s; want %s, %s", got[0].ID, got[1].ID, last, first)
	}
	for _, rec := range got {
		if rec.CreatedAt.IsZero() {
			t.Fatalf("createdAt missing from query result %s", rec.ID)
		}
	}
}

func TestMemorySubscribeFiresPerCollection(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	fired := make(chan struct{}, 4)
	cancel := m.Subscribe(CollectionCustomers, func() { fired <- struct{}{} })
	defer cancel()

	if _, err := m.Create(ctx, CollectionCustomers, map[string]string{"nombre": "Ana"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("subscriber did not fire on create")
	}

	// writes to other collections stay silent
	if _, err := m.Create(ctx, CollectionQuotes, quote.Record{ClienteID: "c1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	select {
	case <-fired:
		t.Fatal("subscriber fired for an unrelated collection")
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	if _, err := m.Create(ctx, CollectionCustomers, map[string]string{"nombre": "Juan"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	select {
	case <-fired:
		t.Fatal("subscriber fired after cancel")
	case <-time.After(50 * time.Millisecond):
	}
}
