package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"escher-cotizador/go_backend/internal/app/config"
	apphttp "escher-cotizador/go_backend/internal/app/http"
	"escher-cotizador/go_backend/internal/infra/db/postgres"
	"escher-cotizador/go_backend/internal/infra/media/s3"
	"escher-cotizador/go_backend/internal/infra/store"
)

func Run() {
	cfg := config.MustLoad()
	ctx := context.Background()

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	docs := store.NewPostgres(db)
	if err := docs.EnsureSchema(ctx); err != nil {
		log.Fatalf("db schema: %v", err)
	}

	media, err := s3.New(cfg)
	if err != nil {
		log.Fatalf("media store: %v", err)
	}
	if err := media.EnsureBucket(ctx); err != nil {
		log.Fatalf("media bucket: %v", err)
	}

	router := apphttp.NewRouter(cfg, docs, media)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("listening on %s", cfg.HTTPAddr)
	log.Fatal(srv.ListenAndServe())
}
