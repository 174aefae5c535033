package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jaeho-dev/minigame-backend/internal/config"
	"github.com/jaeho-dev/minigame-backend/internal/game"
)

type Server struct {
	port int
	hub  *game.Hub
}

// NewServer wires the hub into an http.Server ready to listen.
func NewServer(cfg *config.Config) *http.Server {
	s := &Server{
		port: cfg.Port,
		hub:  game.NewHub(cfg),
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.RegisterRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
