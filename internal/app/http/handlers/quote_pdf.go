package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"escher-cotizador/go_backend/internal/domain/customer"
)

// QuotePDF renders the printable quote. A dangling customer reference
// still produces a document, just without the customer block.
func (h *Handlers) QuotePDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.Quotes.GetQuote(r.Context(), id)
	if err != nil {
		writeQuoteError(w, err)
		return
	}
	rec.ID = id

	var cust customer.Customer
	if rec.ClienteID != "" {
		cust, err = h.Customers.GetCustomer(r.Context(), rec.ClienteID)
		if err != nil {
			log.Printf("quote pdf: customer lookup failed quote_id=%s cliente_id=%s err=%v", id, rec.ClienteID, err)
			cust = customer.Customer{}
		}
	}

	data, err := h.PDF.Generate(rec, cust)
	if err != nil {
		http.Error(w, "pdf generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="presupuesto-%s.pdf"`, id))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
