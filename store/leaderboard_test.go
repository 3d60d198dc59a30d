package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLeaderboardRecordAndTop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.json")
	lb := NewLeaderboard(path, 10)

	lb.Record("alice", true)
	lb.Record("alice", true)
	lb.Record("alice", false)
	lb.Record("bob", true)
	lb.Record("carol", true)
	lb.Record("carol", false)

	top := lb.Top()
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}

	if top[0].Name != "alice" || top[0].Wins != 2 || top[0].Games != 3 {
		t.Errorf("unexpected leader: %+v", top[0])
	}
	// bob and carol both have 1 win; bob played fewer games and ranks higher.
	if top[1].Name != "bob" {
		t.Errorf("expected bob second, got %s", top[1].Name)
	}
	if top[2].Name != "carol" {
		t.Errorf("expected carol third, got %s", top[2].Name)
	}
}

func TestLeaderboardCapsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.json")
	lb := NewLeaderboard(path, 2)

	lb.Record("a", true)
	lb.Record("b", false)
	lb.Record("c", false)

	if got := len(lb.Top()); got != 2 {
		t.Errorf("expected cap of 2, got %d", got)
	}
}

func TestLeaderboardPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.json")

	NewLeaderboard(path, 10).Record("alice", true)

	top := NewLeaderboard(path, 10).Top()
	if len(top) != 1 || top[0].Name != "alice" || top[0].Wins != 1 {
		t.Fatalf("record did not survive reopen: %+v", top)
	}
}

func TestLeaderboardCreatesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.json")
	lb := NewLeaderboard(path, 10)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected empty array, got %q", data)
	}
	if top := lb.Top(); len(top) != 0 {
		t.Errorf("expected empty leaderboard, got %d entries", len(top))
	}
}

func TestLeaderboardSurvivesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	lb := NewLeaderboard(path, 10)
	lb.Record("alice", true)

	top := lb.Top()
	if len(top) != 1 || top[0].Name != "alice" {
		t.Fatalf("expected a fresh entry after corrupt file, got %+v", top)
	}
}
