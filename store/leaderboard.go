// Package store persists leaderboards and the append-style game event log
// as JSON files. The orchestration core treats these as fire-and-forget
// collaborators: every failure here is logged and swallowed, gameplay never
// depends on a write succeeding.
package store

import (
	"encoding/json"
	"log"
	"os"
	"sort"
	"sync"
)

// LeaderboardEntry accumulates one player's record for a mode.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Wins  int    `json:"wins"`
	Games int    `json:"games"`
}

// Leaderboard is a JSON-file-backed win/loss tally keyed by player name.
// One instance exists per game mode.
type Leaderboard struct {
	mu         sync.Mutex
	path       string
	maxEntries int
}

// NewLeaderboard opens (creating if needed) the leaderboard file at path.
func NewLeaderboard(path string, maxEntries int) *Leaderboard {
	ensureFile(path)
	return &Leaderboard{path: path, maxEntries: maxEntries}
}

// Record adds one game to the player's tally, creating the entry on first
// sight. Errors are logged, never returned.
func (l *Leaderboard) Record(name string, won bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.read()
	found := false
	for i := range entries {
		if entries[i].Name == name {
			entries[i].Games++
			if won {
				entries[i].Wins++
			}
			found = true
			break
		}
	}
	if !found {
		entry := LeaderboardEntry{Name: name, Games: 1}
		if won {
			entry.Wins = 1
		}
		entries = append(entries, entry)
	}

	l.write(entries)
}

// Top returns the leaderboard sorted by wins descending, then games
// ascending, capped at maxEntries.
func (l *Leaderboard) Top() []LeaderboardEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.read()
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].Games < entries[j].Games
	})
	if len(entries) > l.maxEntries {
		entries = entries[:l.maxEntries]
	}
	return entries
}

func (l *Leaderboard) read() []LeaderboardEntry {
	data, err := os.ReadFile(l.path)
	if err != nil {
		log.Printf("leaderboard: read %s: %v", l.path, err)
		return nil
	}
	var entries []LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("leaderboard: parse %s: %v", l.path, err)
		return nil
	}
	return entries
}

func (l *Leaderboard) write(entries []LeaderboardEntry) {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("leaderboard: marshal: %v", err)
		return
	}
	if err := os.WriteFile(l.path, data, 0644); err != nil {
		log.Printf("leaderboard: write %s: %v", l.path, err)
	}
}

// ensureFile creates path with an empty JSON array unless it exists.
func ensureFile(path string) {
	if _, err := os.Stat(path); err == nil {
		return
	}
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		log.Printf("store: create %s: %v", path, err)
	}
}
