package handlers

import (
	"escher-cotizador/go_backend/internal/app/config"
	"escher-cotizador/go_backend/internal/domain/attachment"
	"escher-cotizador/go_backend/internal/domain/quote/pdf"
	pdfgen "escher-cotizador/go_backend/internal/domain/quote/pdf/gofpdf"
	"escher-cotizador/go_backend/internal/infra/identity"
	"escher-cotizador/go_backend/internal/infra/store"
)

type Handlers struct {
	Cfg       config.Config
	Quotes    store.Quotes
	Customers store.Customers
	Media     attachment.Uploader
	Identity  identity.Provider
	PDF       pdf.Generator
}

func New(cfg config.Config, st store.Store, media attachment.Uploader) *Handlers {
	return &Handlers{
		Cfg:       cfg,
		Quotes:    store.NewQuotes(st),
		Customers: store.NewCustomers(st),
		Media:     media,
		Identity:  identity.FromContext{},
		PDF:       pdfgen.New(),
	}
}
