package server

import (
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spatuletail/spatuletail/store"
)

// isValidOrigin checks if the origin is allowed to connect
func isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No origin header - could be a non-browser client
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		log.Printf("Invalid origin URL: %s", origin)
		return false
	}

	// Allow same-origin connections
	if r.Host == originURL.Host {
		return true
	}

	// Allow localhost connections for development
	if strings.HasPrefix(originURL.Host, "localhost:") ||
		strings.HasPrefix(originURL.Host, "127.0.0.1:") ||
		originURL.Host == "localhost" ||
		originURL.Host == "127.0.0.1" {
		return true
	}

	log.Printf("Rejected WebSocket connection from origin: %s", origin)
	return false
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       isValidOrigin,
	EnableCompression: true,
}

// Client represents a connected player
type Client struct {
	ID     int
	conn   *websocket.Conn
	send   chan ServerMessage
	server *Server

	// combatant is set on join and guarded by the directory lock.
	combatant *Combatant
}

// Server manages sessions, matchmaking and client connections.
type Server struct {
	mu         sync.RWMutex
	clients    map[int]*Client
	register   chan *Client
	unregister chan *Client
	nextID     int
	done       chan struct{}

	cfg   Config
	dir   *Directory
	stats *LiveStats

	leaderboards map[string]*store.Leaderboard
	events       *store.EventLog

	activityMu sync.Mutex
	activity   map[int]time.Time
	warned     map[int]bool
}

// NewServer creates a game server. The data directory is created on demand
// and holds the leaderboard and event log files; persistence failures are
// logged and never affect gameplay.
func NewServer(cfg Config) *Server {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Printf("Data dir %s: %v", cfg.DataDir, err)
	}

	return &Server{
		clients:    make(map[int]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		cfg:        cfg,
		dir:        NewDirectory(),
		stats:      NewLiveStats(),
		leaderboards: map[string]*store.Leaderboard{
			ModeOnline:  store.NewLeaderboard(filepath.Join(cfg.DataDir, "online-leaderboard.json"), cfg.MaxLeaderboardEntries),
			ModeOffline: store.NewLeaderboard(filepath.Join(cfg.DataDir, "offline-leaderboard.json"), cfg.MaxLeaderboardEntries),
		},
		events:   store.NewEventLog(filepath.Join(cfg.DataDir, "game-log.json"), cfg.MaxEventLogEntries),
		activity: make(map[int]time.Time),
		warned:   make(map[int]bool),
	}
}

// Run starts the server main loop
func (s *Server) Run() {
	go s.activityLoop()

	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.ID] = client
			s.mu.Unlock()
			s.stats.Connection()
			s.touchActivity(client)
			log.Printf("Client %d connected", client.ID)

		case client := <-s.unregister:
			s.mu.Lock()
			_, registered := s.clients[client.ID]
			if registered {
				delete(s.clients, client.ID)
			}
			s.mu.Unlock()
			if registered {
				s.dropActivity(client)
				s.stats.Disconnect()
				// Detach the combatant under the directory lock before
				// closing the channel: a timer callback already holding
				// the lock may still be sending to this client, and a
				// send on a closed channel panics.
				s.clientDisconnected(client)
				close(client.send)
			}
			log.Printf("Client %d disconnected", client.ID)

		case <-s.done:
			return
		}
	}
}

// Shutdown stops the background loops.
func (s *Server) Shutdown() {
	close(s.done)
}

// activityLoop periodically sweeps client activity timestamps and warns
// about idle connections. The forfeit system does the actual ejecting;
// this is operator visibility only.
func (s *Server) activityLoop() {
	ticker := time.NewTicker(s.cfg.ActivitySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweepActivity()
		case <-s.done:
			return
		}
	}
}

func (s *Server) sweepActivity() {
	s.activityMu.Lock()
	defer s.activityMu.Unlock()

	now := time.Now()
	for id, last := range s.activity {
		idle := now.Sub(last)
		switch {
		case idle > s.cfg.InactivityThreshold:
			log.Printf("Client %d inactive for %s", id, idle.Round(time.Second))
		case idle > s.cfg.WarningThreshold && !s.warned[id]:
			s.warned[id] = true
			log.Printf("Client %d approaching inactivity threshold (%s idle)", id, idle.Round(time.Second))
		}
	}
}

func (s *Server) touchActivity(c *Client) {
	s.activityMu.Lock()
	s.activity[c.ID] = time.Now()
	s.warned[c.ID] = false
	s.activityMu.Unlock()
}

func (s *Server) dropActivity(c *Client) {
	s.activityMu.Lock()
	delete(s.activity, c.ID)
	delete(s.warned, c.ID)
	s.activityMu.Unlock()
}

// HandleWebSocket handles WebSocket connections
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	s.mu.Lock()
	clientID := s.nextID
	s.nextID++
	s.mu.Unlock()

	client := &Client{
		ID:     clientID,
		conn:   conn,
		send:   make(chan ServerMessage, 256),
		server: s,
	}

	s.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump handles incoming messages from the client
func (c *Client) readPump() {
	defer func() {
		c.server.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg ClientMessage
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		c.handleMessage(msg)
	}
}

// writePump sends messages to the client
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes a message from the client
func (c *Client) handleMessage(msg ClientMessage) {
	// Recover from any panic to prevent disconnection
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in handleMessage for client %d, type %s: %v", c.ID, msg.Type, r)
		}
	}()

	c.server.touchActivity(c)

	switch msg.Type {
	case MsgTypeJoin:
		c.handleJoin(msg.Data)
	case MsgTypePlaceShips:
		c.handlePlaceShips(msg.Data)
	case MsgTypeAttack:
		c.handleAttack(msg.Data)
	case MsgTypeContinueWithBot:
		c.handleContinueWithBot()
	case MsgTypeHeartbeat:
		// Liveness only; activity was already touched above.
	default:
		log.Printf("Unknown message type: %s", msg.Type)
	}
}
