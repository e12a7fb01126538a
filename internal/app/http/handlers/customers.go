package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"escher-cotizador/go_backend/internal/domain/customer"
	"escher-cotizador/go_backend/internal/infra/identity"
	"escher-cotizador/go_backend/internal/infra/store"
)

// ListCustomers returns the directory snapshot, or the matcher results
// when ?q= is present. A query below the matcher threshold yields an empty
// list, same as the search box before the second keystroke.
func (h *Handlers) ListCustomers(w http.ResponseWriter, r *http.Request) {
	all, err := h.Customers.Customers(r.Context())
	if err != nil {
		writeCustomerError(w, err)
		return
	}
	q, hasQuery := r.URL.Query()["q"]
	if !hasQuery {
		writeJSON(w, http.StatusOK, all)
		return
	}
	results := customer.Search(all, strings.Join(q, " "))
	if results == nil {
		results = []customer.Customer{}
	}
	writeJSON(w, http.StatusOK, results)
}

type customerRequest struct {
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	Telefono  string `json:"telefono"`
	Direccion string `json:"direccion"`
	Email     string `json:"email"`
}

// CreateCustomer is the "not found" escape hatch: the created record is
// returned with its ID so the caller can select it right away.
func (h *Handlers) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Nombre) == "" {
		http.Error(w, "nombre is required", http.StatusBadRequest)
		return
	}

	uid, err := h.Identity.CurrentUserID(r.Context())
	if err != nil {
		writeCustomerError(w, err)
		return
	}

	rec := customer.Customer{
		Name:      req.Nombre,
		Surname:   req.Apellido,
		Phone:     req.Telefono,
		Address:   req.Direccion,
		Email:     req.Email,
		CreatedBy: uid,
		UpdatedBy: uid,
	}
	id, err := h.Customers.CreateCustomer(r.Context(), rec)
	if err != nil {
		writeCustomerError(w, err)
		return
	}
	rec.ID = id
	log.Printf("customers: created id=%s nombre=%s", id, rec.Name)
	writeJSON(w, http.StatusCreated, rec)
}

func writeCustomerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrNotAuthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "customer not found", http.StatusNotFound)
	case errors.Is(err, store.ErrPermissionDenied):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		log.Printf("customers: store failure: %v", err)
		http.Error(w, "document store failure", http.StatusBadGateway)
	}
}
