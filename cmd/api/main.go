package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/jaeho-dev/minigame-backend/internal/config"
	"github.com/jaeho-dev/minigame-backend/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	cfg := config.Load()
	srv := server.NewServer(cfg)

	log.Printf("Server running on http://localhost:%d", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
