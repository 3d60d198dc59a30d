package server

import (
	"fmt"
	"log"

	"github.com/spatuletail/spatuletail/game"
)

// Combatant is one party to a session: a connected human or a bot. A
// human's client pointer is a weak reference; it is nilled out on
// disconnect while the combatant itself may live on in its session until
// the directory decides what to do with it.
type Combatant struct {
	ID    string
	Name  string
	IsBot bool
	Bot   *game.Bot

	client *Client
}

func newHumanCombatant(c *Client, name string) *Combatant {
	return &Combatant{
		ID:     fmt.Sprintf("player_%d", c.ID),
		Name:   name,
		client: c,
	}
}

func newBotCombatant(b *game.Bot) *Combatant {
	return &Combatant{
		ID:    b.ID,
		Name:  b.Name,
		IsBot: true,
		Bot:   b,
	}
}

// Connected reports whether the combatant has a live connection.
func (c *Combatant) Connected() bool {
	return c != nil && !c.IsBot && c.client != nil
}

// send queues an outbound event. Bots and disconnected combatants receive
// nothing; a full send buffer drops the message rather than blocking the
// orchestration path.
func (c *Combatant) send(msg ServerMessage) {
	if !c.Connected() {
		return
	}
	select {
	case c.client.send <- msg:
	default:
		log.Printf("Warning: combatant %s send buffer full, dropping %s", c.ID, msg.Type)
	}
}
