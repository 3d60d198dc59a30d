package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// HandleLeaderboard serves the win/loss standings for one mode.
func (s *Server) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	mode := mux.Vars(r)["mode"]
	lb, ok := s.leaderboards[mode]
	if !ok {
		http.Error(w, "unknown mode", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(lb.Top())
}

// HandleLiveStats serves running counters plus current occupancy.
func (s *Server) HandleLiveStats(w http.ResponseWriter, r *http.Request) {
	snap := s.stats.Snapshot()

	s.dir.Mu.Lock()
	online, offline, waiting, spectators := s.dir.counts()
	s.dir.Mu.Unlock()

	accuracy := 0.0
	if total := snap.TotalHits + snap.TotalMisses; total > 0 {
		accuracy = float64(snap.TotalHits) / float64(total)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"stats":           snap,
		"onlineSessions":  online,
		"offlineSessions": offline,
		"waitingPlayers":  waiting,
		"spectators":      spectators,
		"accuracy":        accuracy,
	})
}

// HandleRecentLogs serves the newest game events, default 50.
func (s *Server) HandleRecentLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(s.events.Recent(limit))
}
