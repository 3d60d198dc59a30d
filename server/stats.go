package server

import "sync"

// LiveStats tracks running counters for the stats API. Safe for
// concurrent use.
type LiveStats struct {
	mu sync.Mutex

	totalConnections   int
	currentPlayers     int
	gamesPlayed        int
	onlineGamesPlayed  int
	offlineGamesPlayed int
	totalHits          int
	totalMisses        int
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	TotalConnections   int `json:"totalConnections"`
	CurrentPlayers     int `json:"currentPlayers"`
	GamesPlayed        int `json:"gamesPlayed"`
	OnlineGamesPlayed  int `json:"onlineGamesPlayed"`
	OfflineGamesPlayed int `json:"offlineGamesPlayed"`
	TotalHits          int `json:"totalHits"`
	TotalMisses        int `json:"totalMisses"`
}

func NewLiveStats() *LiveStats {
	return &LiveStats{}
}

func (ls *LiveStats) Connection() {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.totalConnections++
	ls.currentPlayers++
}

func (ls *LiveStats) Disconnect() {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.currentPlayers > 0 {
		ls.currentPlayers--
	}
}

func (ls *LiveStats) GameStart(mode string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.gamesPlayed++
	switch mode {
	case ModeOnline:
		ls.onlineGamesPlayed++
	case ModeOffline:
		ls.offlineGamesPlayed++
	}
}

func (ls *LiveStats) Hit() {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.totalHits++
}

func (ls *LiveStats) Miss() {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.totalMisses++
}

func (ls *LiveStats) Snapshot() StatsSnapshot {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return StatsSnapshot{
		TotalConnections:   ls.totalConnections,
		CurrentPlayers:     ls.currentPlayers,
		GamesPlayed:        ls.gamesPlayed,
		OnlineGamesPlayed:  ls.onlineGamesPlayed,
		OfflineGamesPlayed: ls.offlineGamesPlayed,
		TotalHits:          ls.totalHits,
		TotalMisses:        ls.totalMisses,
	}
}
