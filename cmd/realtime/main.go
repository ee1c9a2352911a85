package main

import (
	"api/internal/realtime"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg := realtime.LoadConfig()
	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET is required")
	}

	hub := realtime.NewHub(logger)
	go hub.Run()

	bridge, err := realtime.NewNATSBridge(cfg.NatsURL, hub, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect NATS bridge")
	}
	defer bridge.Close()

	if err := bridge.Subscribe(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to subscribe NATS bridge")
	}

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		realtime.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	logger.Info().Str("port", cfg.RealtimePort).Msg("Realtime service listening")
	if err := http.ListenAndServe(cfg.RealtimePort, nil); err != nil {
		logger.Fatal().Err(err).Msg("Realtime server failed")
	}
}
