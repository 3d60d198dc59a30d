package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/spatuletail/spatuletail/store"
)

func apiRouter(s *Server) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/leaderboard/{mode:online|offline}", s.HandleLeaderboard)
	r.HandleFunc("/api/v1/stats/live", s.HandleLiveStats)
	r.HandleFunc("/api/v1/logs/recent", s.HandleRecentLogs)
	return r
}

func TestHandleLeaderboard(t *testing.T) {
	s := newTestServer(t)
	s.leaderboards[ModeOnline].Record("alice", true)
	s.leaderboards[ModeOnline].Record("bob", false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard/online", nil)
	rec := httptest.NewRecorder()
	apiRouter(s).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var entries []store.LeaderboardEntry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Name != "alice" {
		t.Errorf("unexpected standings: %+v", entries)
	}
}

func TestHandleLeaderboardUnknownMode(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard/ranked", nil)
	rec := httptest.NewRecorder()
	apiRouter(s).ServeHTTP(rec, req)

	// The route pattern only admits online|offline.
	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d", rec.Code)
	}
}

func TestHandleLiveStats(t *testing.T) {
	s := newTestServer(t)
	s.stats.Hit()
	s.stats.Hit()
	s.stats.Miss()

	c := newTestClient(s, 1)
	join(t, c, "alice", ModeOffline)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/live", nil)
	rec := httptest.NewRecorder()
	apiRouter(s).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["offlineSessions"].(float64) != 1 {
		t.Errorf("expected 1 offline session, got %v", body["offlineSessions"])
	}
	if acc := body["accuracy"].(float64); acc < 0.66 || acc > 0.67 {
		t.Errorf("expected accuracy 2/3, got %v", acc)
	}
}

func TestHandleRecentLogs(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 5; i++ {
		s.events.Append("evt", map[string]interface{}{"n": i})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs/recent?limit=3", nil)
	rec := httptest.NewRecorder()
	apiRouter(s).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var events []store.Event
	if err := json.NewDecoder(rec.Body).Decode(&events); err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events, got %d", len(events))
	}
}

func TestHandleRecentLogsRejectsBadLimit(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs/recent?limit=zero", nil)
	rec := httptest.NewRecorder()
	apiRouter(s).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d", rec.Code)
	}
}
