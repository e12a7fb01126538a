package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"escher-cotizador/go_backend/internal/domain/quote"
	"escher-cotizador/go_backend/internal/infra/identity"
	"escher-cotizador/go_backend/internal/infra/store"
)

// rawValue accepts a JSON string or number and keeps the text as typed, so
// numeric fields go through the same permissive parsing as interactive
// edits.
type rawValue string

func (v *rawValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = rawValue(s)
		return nil
	}
	*v = rawValue(bytes.TrimSpace(b))
	return nil
}

type quoteItemRequest struct {
	ProductoID string   `json:"productoId"`
	Tipo       string   `json:"tipo"`
	Ancho      rawValue `json:"ancho"`
	Alto       rawValue `json:"alto"`
	Cantidad   rawValue `json:"cantidad"`
	Precio     rawValue `json:"precio"`
}

type quoteRequest struct {
	ClienteID     string               `json:"clienteId"`
	Productos     []quoteItemRequest   `json:"productos"`
	Estado        string               `json:"estado"`
	Observaciones string               `json:"observaciones"`
	Imagenes      quote.AttachmentList `json:"imagenes"`
}

func (h *Handlers) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	sess := quote.NewSession(h.Quotes, h.Identity)
	if err := applyQuoteRequest(sess, req); err != nil {
		writeQuoteError(w, err)
		return
	}
	if err := sess.Save(r.Context()); err != nil {
		writeQuoteError(w, err)
		return
	}

	rec := sess.Quote()
	log.Printf("quotes: created id=%s items=%d total=%.2f", rec.ID, len(rec.Productos), rec.Total)
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handlers) GetQuote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.Quotes.GetQuote(r.Context(), id)
	if err != nil {
		writeQuoteError(w, err)
		return
	}
	rec.ID = id
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handlers) ListQuotes(w http.ResponseWriter, r *http.Request) {
	status := quote.Status(r.URL.Query().Get("estado"))
	if status != "" && !status.Valid() {
		http.Error(w, "invalid estado filter", http.StatusBadRequest)
		return
	}
	recs, err := h.Quotes.List(r.Context(), status)
	if err != nil {
		writeQuoteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handlers) UpdateQuote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	sess, err := quote.OpenSession(r.Context(), h.Quotes, h.Identity, id)
	if err != nil {
		writeQuoteError(w, err)
		return
	}
	sess.Edit()
	if err := clearDraft(sess); err != nil {
		writeQuoteError(w, err)
		return
	}
	if err := applyQuoteRequest(sess, req); err != nil {
		writeQuoteError(w, err)
		return
	}
	if err := sess.Save(r.Context()); err != nil {
		writeQuoteError(w, err)
		return
	}

	rec := sess.Quote()
	log.Printf("quotes: updated id=%s items=%d total=%.2f", rec.ID, len(rec.Productos), rec.Total)
	writeJSON(w, http.StatusOK, rec)
}

// applyQuoteRequest drives the edit session with the request content, one
// operation at a time, the same way interactive edits arrive.
func applyQuoteRequest(sess *quote.Session, req quoteRequest) error {
	if req.ClienteID != "" {
		if err := sess.BindCustomer(req.ClienteID); err != nil {
			return err
		}
	}
	if req.Estado != "" {
		status := quote.Status(req.Estado)
		if !status.Valid() {
			return errInvalidStatus
		}
		if err := sess.SetStatus(status); err != nil {
			return err
		}
	}
	if err := sess.SetNotes(req.Observaciones); err != nil {
		return err
	}
	for i, p := range req.Productos {
		if err := sess.AddItem(); err != nil {
			return err
		}
		fields := map[string]string{
			"productoId": p.ProductoID,
			"tipo":       p.Tipo,
			"ancho":      string(p.Ancho),
			"alto":       string(p.Alto),
			"cantidad":   string(p.Cantidad),
			"precio":     string(p.Precio),
		}
		for field, raw := range fields {
			if raw == "" {
				continue
			}
			if err := sess.UpdateItem(i, field, raw); err != nil {
				return err
			}
		}
	}
	if len(req.Imagenes) > 0 {
		if err := sess.AddAttachments(req.Imagenes...); err != nil {
			return err
		}
	}
	return nil
}

func clearDraft(sess *quote.Session) error {
	for range sess.Items() {
		if err := sess.RemoveItem(0); err != nil {
			return err
		}
	}
	for _, a := range sess.Attachments() {
		if err := sess.RemoveAttachment(a.URL); err != nil {
			return err
		}
	}
	return nil
}

var errInvalidStatus = errors.New("invalid estado value")

func writeQuoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quote.ErrMissingCustomer),
		errors.Is(err, quote.ErrEmptyQuote),
		errors.Is(err, quote.ErrItemIndex),
		errors.Is(err, quote.ErrUnknownField),
		errors.Is(err, errInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, identity.ErrNotAuthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "quote not found", http.StatusNotFound)
	case errors.Is(err, quote.ErrSaveInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, store.ErrPermissionDenied):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		log.Printf("quotes: store failure: %v", err)
		http.Error(w, "document store failure", http.StatusBadGateway)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
