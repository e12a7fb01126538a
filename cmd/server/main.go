package main

import (
	"github.com/joho/godotenv"

	"escher-cotizador/go_backend/internal/app"
)

func main() {
	_ = godotenv.Load()
	app.Run()
}
