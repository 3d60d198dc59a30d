package store

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"
)

// Event is one recorded game event.
type Event struct {
	Timestamp time.Time              `json:"timestamp"`
	Type      string                 `json:"event"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// EventLog is a JSON-file-backed log of game events, capped at maxEntries
// with the oldest entries dropped first.
type EventLog struct {
	mu         sync.Mutex
	path       string
	maxEntries int
}

// NewEventLog opens (creating if needed) the event log file at path.
func NewEventLog(path string, maxEntries int) *EventLog {
	ensureFile(path)
	return &EventLog{path: path, maxEntries: maxEntries}
}

// Append records one event. Errors are logged, never returned.
func (e *EventLog) Append(eventType string, data map[string]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()

	events := e.read()
	events = append(events, Event{
		Timestamp: time.Now().UTC(),
		Type:      eventType,
		Data:      data,
	})
	if len(events) > e.maxEntries {
		events = events[len(events)-e.maxEntries:]
	}

	e.write(events)
}

// Recent returns up to limit events, newest first.
func (e *EventLog) Recent(limit int) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	events := e.read()
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	// Reverse so the newest entry comes first.
	out := make([]Event, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		out = append(out, events[i])
	}
	return out
}

func (e *EventLog) read() []Event {
	data, err := os.ReadFile(e.path)
	if err != nil {
		log.Printf("eventlog: read %s: %v", e.path, err)
		return nil
	}
	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		log.Printf("eventlog: parse %s: %v", e.path, err)
		return nil
	}
	return events
}

func (e *EventLog) write(events []Event) {
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		log.Printf("eventlog: marshal: %v", err)
		return
	}
	if err := os.WriteFile(e.path, data, 0644); err != nil {
		log.Printf("eventlog: write %s: %v", e.path, err)
	}
}
