package customer

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Source supplies the directory snapshot and its change feed.
type Source interface {
	Customers(ctx context.Context) ([]Customer, error)
	Subscribe(fn func()) (cancel func())
}

// Directory is a live snapshot of all customers, refreshed whenever the
// source's change feed fires. It is owned by the view that opened it and
// must be closed with it.
type Directory struct {
	src    Source
	cancel func()

	mu        sync.RWMutex
	customers []Customer
}

// OpenDirectory loads the initial snapshot and starts listening for
// changes. Refresh failures keep the previous snapshot.
func OpenDirectory(ctx context.Context, src Source) (*Directory, error) {
	d := &Directory{src: src}
	if err := d.refresh(ctx); err != nil {
		return nil, fmt.Errorf("load customer directory: %w", err)
	}
	d.cancel = src.Subscribe(func() {
		if err := d.refresh(context.Background()); err != nil {
			log.Printf("customer directory: refresh failed: %v", err)
		}
	})
	return d, nil
}

func (d *Directory) refresh(ctx context.Context) error {
	cs, err := d.src.Customers(ctx)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.customers = cs
	d.mu.Unlock()
	return nil
}

func (d *Directory) Customers() []Customer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Customer, len(d.customers))
	copy(out, d.customers)
	return out
}

func (d *Directory) Search(query string) []Customer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Search(d.customers, query)
}

func (d *Directory) Close() {
	if d.cancel != nil {
		d.cancel()
	}
}
