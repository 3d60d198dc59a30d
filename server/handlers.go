package server

import (
	"encoding/json"
	"fmt"
	"html"
	"log"
	"math/rand"
	"strings"

	"github.com/spatuletail/spatuletail/game"
)

// sanitizeName removes non-alphanumeric characters and escapes HTML
func sanitizeName(name string) string {
	// Limit name length
	const maxNameLength = 20
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}

	// Remove non-alphanumeric characters
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, name)

	// Also escape HTML just in case
	return html.EscapeString(cleaned)
}

// handleJoin routes a joiner into matchmaking, an offline bot match, or
// the spectator queue.
func (c *Client) handleJoin(data json.RawMessage) {
	var joinData JoinData
	if err := json.Unmarshal(data, &joinData); err != nil {
		log.Printf("Client %d sent invalid join data: %v", c.ID, err)
		return
	}

	name := sanitizeName(joinData.Name)
	if name == "" {
		name = fmt.Sprintf("Guest%d", rand.Intn(1000))
	}

	s := c.server
	s.dir.Mu.Lock()
	defer s.dir.Mu.Unlock()

	if c.combatant != nil {
		// Still engaged somewhere (playing, waiting, or spectating):
		// keep the first identity. A combatant whose game ended is free
		// to start over on the same connection.
		id := c.combatant.ID
		if s.dir.findSession(id) != nil || s.dir.waiting == c.combatant || s.dir.isSpectator(id) {
			log.Printf("Client %d already joined as %s, ignoring join", c.ID, c.combatant.Name)
			return
		}
		c.combatant = nil
	}

	go s.events.Append("playerJoin", map[string]interface{}{
		"client": c.ID, "name": name, "mode": joinData.Mode,
	})

	switch joinData.Mode {
	case ModeSpectate:
		s.joinSpectate(c, name)
	case ModeOffline:
		s.joinOffline(c, name)
	default:
		s.joinOnline(c, name)
	}
}

// handlePlaceShips validates a submitted fleet and readies the player.
func (c *Client) handlePlaceShips(data json.RawMessage) {
	var ships []*game.Ship
	if err := json.Unmarshal(data, &ships); err != nil {
		c.sendPlacementError(fmt.Errorf("malformed ship data"))
		return
	}

	s := c.server
	s.dir.Mu.Lock()
	defer s.dir.Mu.Unlock()

	if c.combatant == nil {
		c.sendPlacementError(fmt.Errorf("no active game found"))
		return
	}
	sess := s.dir.findSession(c.combatant.ID)
	if sess == nil {
		c.sendPlacementError(fmt.Errorf("no active game found"))
		return
	}

	if err := sess.submitShips(c.combatant.ID, ships); err != nil {
		log.Printf("[PLACEMENT] %s rejected: %v", c.combatant.Name, err)
		c.sendPlacementError(err)
		return
	}

	log.Printf("[PLACEMENT] %s placed ships in session %s", c.combatant.Name, sess.ID)
	go s.events.Append("shipsPlaced", map[string]interface{}{
		"session": sess.ID, "player": c.combatant.Name, "mode": sess.Mode,
	})

	c.combatant.send(ServerMessage{
		Type: MsgTypePlacementConfirmed,
		Data: map[string]interface{}{"message": "Ships placed successfully"},
	})

	if sess.bothReady() {
		s.startBattle(sess)
	}
}

func (c *Client) sendPlacementError(err error) {
	select {
	case c.send <- ServerMessage{
		Type: MsgTypePlacementError,
		Data: PlacementErrorData{
			Error:         "Invalid ship placement",
			Message:       err.Error(),
			ExpectedShips: game.ShipClasses,
		},
	}:
	default:
	}
}

// handleAttack resolves one attack from the turn holder. Protocol
// violations (no session, out of turn, duplicate cell) are logged and
// dropped without mutating anything.
func (c *Client) handleAttack(data json.RawMessage) {
	var attackData AttackData
	if err := json.Unmarshal(data, &attackData); err != nil {
		log.Printf("Client %d sent invalid attack data: %v", c.ID, err)
		return
	}

	s := c.server
	s.dir.Mu.Lock()
	defer s.dir.Mu.Unlock()

	if c.combatant == nil {
		log.Printf("[ATTACK] client %d attacked without a session", c.ID)
		return
	}
	sess := s.dir.findSession(c.combatant.ID)
	if sess == nil {
		log.Printf("[ATTACK] %s attacked without a session", c.combatant.Name)
		return
	}

	s.processAttack(sess, c.combatant.ID, attackData.Row, attackData.Col)
}

// handleContinueWithBot converts the caller's online session to an
// offline one with a bot standing in for the departed opponent.
func (c *Client) handleContinueWithBot() {
	s := c.server
	s.dir.Mu.Lock()
	defer s.dir.Mu.Unlock()

	if c.combatant == nil {
		return
	}
	s.continueWithBot(c.combatant)
}
