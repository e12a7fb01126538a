package store

import (
	"context"

	"escher-cotizador/go_backend/internal/domain/customer"
	"escher-cotizador/go_backend/internal/domain/quote"
)

// Quotes adapts the generic Store to the narrow interface the quote edit
// session consumes.
type Quotes struct {
	Store Store
}

func NewQuotes(st Store) Quotes { return Quotes{Store: st} }

func (q Quotes) CreateQuote(ctx context.Context, rec quote.Record) (string, error) {
	return q.Store.Create(ctx, CollectionQuotes, rec)
}

func (q Quotes) UpdateQuote(ctx context.Context, id string, rec quote.Record) error {
	return q.Store.Update(ctx, CollectionQuotes, id, rec)
}

func (q Quotes) GetQuote(ctx context.Context, id string) (quote.Record, error) {
	var rec quote.Record
	if err := q.Store.Get(ctx, CollectionQuotes, id, &rec); err != nil {
		return quote.Record{}, err
	}
	return rec, nil
}

// List returns quotes newest-first, optionally filtered by status.
func (q Quotes) List(ctx context.Context, status quote.Status) ([]quote.Record, error) {
	var filters []Filter
	if status != "" {
		filters = append(filters, Filter{Field: "estado", Value: string(status)})
	}
	var out []quote.Record
	err := q.Store.Query(ctx, CollectionQuotes, filters, Order{Field: "createdAt", Desc: true}, &out)
	return out, err
}

// Customers adapts the generic Store to the directory source the customer
// matcher consumes.
type Customers struct {
	Store Store
}

func NewCustomers(st Store) Customers { return Customers{Store: st} }

func (c Customers) Customers(ctx context.Context) ([]customer.Customer, error) {
	var out []customer.Customer
	err := c.Store.Query(ctx, CollectionCustomers, nil, Order{}, &out)
	return out, err
}

func (c Customers) Subscribe(fn func()) (cancel func()) {
	return c.Store.Subscribe(CollectionCustomers, fn)
}

func (c Customers) CreateCustomer(ctx context.Context, rec customer.Customer) (string, error) {
	return c.Store.Create(ctx, CollectionCustomers, rec)
}

func (c Customers) GetCustomer(ctx context.Context, id string) (customer.Customer, error) {
	var rec customer.Customer
	if err := c.Store.Get(ctx, CollectionCustomers, id, &rec); err != nil {
		return customer.Customer{}, err
	}
	return rec, nil
}
