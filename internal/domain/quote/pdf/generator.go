package pdf

import (
	"escher-cotizador/go_backend/internal/domain/customer"
	"escher-cotizador/go_backend/internal/domain/quote"
)

type Generator interface {
	Generate(rec quote.Record, cust customer.Customer) ([]byte, error)
}
