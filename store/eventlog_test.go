package store

import (
	"fmt"
	"path/filepath"
	"testing"
)

func TestEventLogAppendAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	el := NewEventLog(path, 100)

	el.Append("attack", map[string]interface{}{"row": 1, "col": 2})
	el.Append("gameOver", map[string]interface{}{"winner": "alice"})

	events := el.Recent(10)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Newest first.
	if events[0].Type != "gameOver" || events[1].Type != "attack" {
		t.Errorf("wrong order: %s, %s", events[0].Type, events[1].Type)
	}
	if events[0].Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestEventLogRecentLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	el := NewEventLog(path, 100)

	for i := 0; i < 5; i++ {
		el.Append("evt", map[string]interface{}{"n": i})
	}

	events := el.Recent(3)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Data["n"].(float64) != 4 {
		t.Errorf("expected newest event first, got %v", events[0].Data["n"])
	}
}

func TestEventLogDropsOldestAtCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	el := NewEventLog(path, 3)

	for i := 0; i < 5; i++ {
		el.Append(fmt.Sprintf("evt%d", i), nil)
	}

	events := el.Recent(10)
	if len(events) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(events))
	}
	// evt0 and evt1 were dropped; newest first means evt4 leads.
	if events[0].Type != "evt4" || events[2].Type != "evt2" {
		t.Errorf("wrong retained window: %s .. %s", events[0].Type, events[2].Type)
	}
}
