// Package store is the document store boundary: collections of JSON
// payloads with server-assigned IDs and timestamps, plus a push-style
// change feed per collection.
package store

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrUnavailable      = errors.New("document store unavailable")
	ErrPermissionDenied = errors.New("permission denied")
)

const (
	CollectionQuotes    = "presupuestos"
	CollectionCustomers = "clientes"
)

// Filter matches a top-level payload field against a string value.
type Filter struct {
	Field string
	Value string
}

// Order sorts by createdAt/updatedAt or a top-level payload field.
type Order struct {
	Field string
	Desc  bool
}

// Store abstracts the document database. Payloads marshal to JSON; reads
// merge the server-kept id/createdAt/updatedAt back into the decoded value.
type Store interface {
	Create(ctx context.Context, collection string, payload any) (string, error)
	Update(ctx context.Context, collection, id string, payload any) error
	Get(ctx context.Context, collection, id string, out any) error
	Query(ctx context.Context, collection string, filters []Filter, order Order, out any) error
	// Subscribe registers a change callback for the collection and returns
	// its cancel function. Callbacks fire after any create/update.
	Subscribe(collection string, fn func()) (cancel func())
}

// fanout is the in-process change feed shared by both implementations.
type fanout struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]func()
}

func newFanout() *fanout {
	return &fanout{subs: make(map[string]map[int]func())}
}

func (f *fanout) subscribe(collection string, fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs[collection] == nil {
		f.subs[collection] = make(map[int]func())
	}
	id := f.next
	f.next++
	f.subs[collection][id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs[collection], id)
	}
}

func (f *fanout) notify(collection string) {
	f.mu.Lock()
	fns := make([]func(), 0, len(f.subs[collection]))
	for _, fn := range f.subs[collection] {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		go fn()
	}
}
