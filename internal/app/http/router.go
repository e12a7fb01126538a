package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"escher-cotizador/go_backend/internal/app/config"
	"escher-cotizador/go_backend/internal/app/http/handlers"
	"escher-cotizador/go_backend/internal/app/http/middleware"
	"escher-cotizador/go_backend/internal/domain/attachment"
	"escher-cotizador/go_backend/internal/infra/store"
)

func NewRouter(cfg config.Config, st store.Store, media attachment.Uploader) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSAllowOrigin))

	h := handlers.New(cfg, st, media)

	r.Get("/health", h.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.InternalAuth(cfg.InternalToken))

		r.Post("/quotes", h.CreateQuote)
		r.Get("/quotes", h.ListQuotes)
		r.Get("/quotes/{id}", h.GetQuote)
		r.Put("/quotes/{id}", h.UpdateQuote)
		r.Get("/quotes/{id}/pdf", h.QuotePDF)
		r.Post("/quotes/{id}/attachments", h.UploadAttachments)
		r.Delete("/quotes/{id}/attachments", h.DeleteAttachment)

		r.Get("/customers", h.ListCustomers)
		r.Post("/customers", h.CreateCustomer)
	})

	return r
}
