package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spatuletail/spatuletail/server"
)

// getenv returns the environment value for key, or fallback when unset.
func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Ignoring non-numeric %s=%q", key, v)
	}
	return fallback
}

func main() {
	defaults := server.DefaultConfig()

	port := flag.String("port", getenv("PORT", "8080"), "Server port")
	dataDir := flag.String("data-dir", getenv("DATA_DIR", defaults.DataDir), "Directory for leaderboard and log files")
	maxRounds := flag.Int("max-rounds", getenvInt("MAX_ROUNDS", defaults.MaxRounds), "Rounds per match")
	turnTimer := flag.Int("turn-timer", getenvInt("TURN_TIMER", int(defaults.TurnTimeout/time.Second)), "Turn deadline in seconds")
	botMinDifficulty := flag.Int("bot-min-difficulty", getenvInt("BOT_MIN_DIFFICULTY", defaults.BotMinDifficulty), "Minimum bot difficulty (1-4)")
	botMaxDifficulty := flag.Int("bot-max-difficulty", getenvInt("BOT_MAX_DIFFICULTY", defaults.BotMaxDifficulty), "Maximum bot difficulty (1-4)")
	flag.Parse()

	cfg := defaults
	cfg.DataDir = *dataDir
	cfg.MaxRounds = *maxRounds
	cfg.TurnTimeout = time.Duration(*turnTimer) * time.Second
	cfg.BotMinDifficulty = *botMinDifficulty
	cfg.BotMaxDifficulty = *botMaxDifficulty

	log.Printf("Starting battleship server on port %s", *port)

	gameServer := server.NewServer(cfg)
	go gameServer.Run()

	r := mux.NewRouter()

	// WebSocket endpoint
	r.HandleFunc("/ws", gameServer.HandleWebSocket)

	// Read-only REST API
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/leaderboard/{mode:online|offline}", gameServer.HandleLeaderboard).Methods(http.MethodGet)
	api.HandleFunc("/stats/live", gameServer.HandleLiveStats).Methods(http.MethodGet)
	api.HandleFunc("/logs/recent", gameServer.HandleRecentLogs).Methods(http.MethodGet)

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server running at http://localhost:%s", *port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Printf("Shutting down server (signal: %v)...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Signal game server to stop background goroutines
	gameServer.Shutdown()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
