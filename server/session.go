package server

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spatuletail/spatuletail/game"
)

// SessionState is the phase of a session's state machine.
type SessionState int

const (
	StatePlacing SessionState = iota
	StateBattling
	StateRoundEnded
	StateGameOver
)

func (s SessionState) String() string {
	switch s {
	case StatePlacing:
		return "placing"
	case StateBattling:
		return "battling"
	case StateRoundEnded:
		return "roundEnded"
	case StateGameOver:
		return "gameOver"
	}
	return "unknown"
}

// roundState is the per-round sub-state, rebuilt from scratch at every
// placement phase. Match-persistent identity (combatants, scores, round
// counter) lives on the Session itself.
type roundState struct {
	boards   map[string]*game.Board
	ships    map[string][]*game.Ship
	ready    map[string]bool
	forfeits map[string]int // consecutive forfeit count per combatant
}

// Session is one match between two combatants across up to MaxRounds
// rounds. All mutation happens under the directory lock; the session owns
// its deferred callbacks (turn deadline, bot move, round break) and every
// transition that invalidates one cancels it in the same critical section.
type Session struct {
	ID        string
	Mode      string // ModeOnline or ModeOffline
	State     SessionState
	Players   [2]*Combatant
	Round     int
	MaxRounds int
	Scores    map[string]int

	// CurrentTurn holds the ID of exactly one of the two combatants from
	// battle start until game over.
	CurrentTurn string

	round *roundState

	turnTimer  TurnTimer
	botTimer   TurnTimer
	breakTimer TurnTimer
}

func newSession(p1, p2 *Combatant, mode string, maxRounds int) *Session {
	s := &Session{
		ID:        uuid.NewString()[:8],
		Mode:      mode,
		Players:   [2]*Combatant{p1, p2},
		Round:     1,
		MaxRounds: maxRounds,
		Scores:    map[string]int{p1.ID: 0, p2.ID: 0},
	}
	s.resetRound()
	log.Printf("[GAME] Session %s created: %s vs %s (%s)", s.ID, p1.Name, p2.Name, mode)
	return s
}

// resetRound rebuilds the round sub-state for a placement phase. Boards,
// ships, ready flags and forfeit counters start fresh; bot targeting
// memory is wiped; combatant 1 opens every round.
func (s *Session) resetRound() {
	s.State = StatePlacing
	s.CurrentTurn = s.Players[0].ID
	s.round = &roundState{
		boards:   make(map[string]*game.Board, 2),
		ships:    make(map[string][]*game.Ship, 2),
		ready:    make(map[string]bool, 2),
		forfeits: make(map[string]int, 2),
	}
	for _, p := range s.Players {
		s.round.boards[p.ID] = game.NewBoard()
		s.round.forfeits[p.ID] = 0
		if p.IsBot {
			p.Bot.Memory.Reset()
		}
	}
}

// placeBotShips auto-places fleets for every bot participant and marks
// them ready.
func (s *Session) placeBotShips() {
	for _, p := range s.Players {
		if !p.IsBot {
			continue
		}
		ships := game.AutoPlaceShips()
		if len(ships) < game.NumShips {
			// Placement budget exhausted; the bot fights short-handed
			// rather than crashing the session.
			log.Printf("[BOT] %s placed only %d/%d ships", p.Name, len(ships), game.NumShips)
		}
		s.round.ships[p.ID] = ships
		s.round.ready[p.ID] = true
	}
}

// submitShips validates and stores a human fleet. Hit state on the
// submitted ships is discarded; hits only ever accrue through attack
// resolution.
func (s *Session) submitShips(id string, ships []*game.Ship) error {
	if s.State != StatePlacing {
		return fmt.Errorf("placement phase is over")
	}
	if err := game.ValidateShips(ships); err != nil {
		return err
	}
	for _, ship := range ships {
		ship.Hits = 0
		ship.Sunk = false
	}
	s.round.ships[id] = ships
	s.round.ready[id] = true
	return nil
}

// resolveAttack validates turn possession and resolves the attack against
// the opponent's board. On a bot attacker, targeting memory is updated as
// a side effect so hunt mode has something to chase.
func (s *Session) resolveAttack(attackerID string, row, col int) (*game.AttackResult, error) {
	if s.State != StateBattling {
		return nil, fmt.Errorf("session %s is %s, not battling", s.ID, s.State)
	}
	if s.CurrentTurn != attackerID {
		return nil, fmt.Errorf("combatant %s attacked out of turn", attackerID)
	}

	defender := s.opponent(attackerID)
	result, err := game.ResolveAttack(s.round.boards[defender.ID], s.round.ships[defender.ID], row, col)
	if err != nil {
		return nil, err
	}

	attacker := s.combatant(attackerID)
	if attacker.IsBot && result.Hit {
		attacker.Bot.Memory.RecordHit(game.Cell{Row: row, Col: col})
		if result.Sunk {
			attacker.Bot.Memory.RecordSunk(result.Ship.Type)
		}
	}

	return result, nil
}

// forfeit bumps the combatant's consecutive forfeit counter. terminal is
// true at two, the point where the session must end with the opponent
// winning.
func (s *Session) forfeit(id string) (count int, terminal bool) {
	s.round.forfeits[id]++
	count = s.round.forfeits[id]
	return count, count >= 2
}

// resetForfeits clears one combatant's consecutive forfeit counter; a
// successful attack earns a full reset, not a decrement.
func (s *Session) resetForfeits(id string) {
	if s.round.forfeits[id] > 0 {
		log.Printf("[GAME] %s forfeit counter reset (was %d)", s.combatant(id).Name, s.round.forfeits[id])
	}
	s.round.forfeits[id] = 0
}

func (s *Session) switchTurn() {
	s.CurrentTurn = s.opponent(s.CurrentTurn).ID
}

func (s *Session) combatant(id string) *Combatant {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Session) opponent(id string) *Combatant {
	if s.Players[0].ID == id {
		return s.Players[1]
	}
	return s.Players[0]
}

func (s *Session) has(id string) bool {
	return s.combatant(id) != nil
}

func (s *Session) bothReady() bool {
	return s.round.ready[s.Players[0].ID] && s.round.ready[s.Players[1].ID]
}

// winnerID compares scores after the final round. Empty on a tie.
func (s *Session) winnerID() string {
	p1, p2 := s.Players[0], s.Players[1]
	switch {
	case s.Scores[p1.ID] > s.Scores[p2.ID]:
		return p1.ID
	case s.Scores[p2.ID] > s.Scores[p1.ID]:
		return p2.ID
	}
	return ""
}

// substituteBot swaps a departed combatant for a bot in place, re-keying
// every piece of per-combatant state. Ships already placed this round are
// inherited by the bot; otherwise the caller is expected to trigger bot
// placement.
func (s *Session) substituteBot(old *Combatant, bot *Combatant) {
	for i, p := range s.Players {
		if p.ID == old.ID {
			s.Players[i] = bot
		}
	}

	s.Scores[bot.ID] = s.Scores[old.ID]
	delete(s.Scores, old.ID)

	if board, ok := s.round.boards[old.ID]; ok {
		s.round.boards[bot.ID] = board
		delete(s.round.boards, old.ID)
	}
	if ships, ok := s.round.ships[old.ID]; ok {
		s.round.ships[bot.ID] = ships
		delete(s.round.ships, old.ID)
	}
	s.round.ready[bot.ID] = s.round.ready[old.ID]
	delete(s.round.ready, old.ID)
	s.round.forfeits[bot.ID] = s.round.forfeits[old.ID]
	delete(s.round.forfeits, old.ID)

	if s.CurrentTurn == old.ID {
		s.CurrentTurn = bot.ID
	}
}

// stopTimers cancels every pending deferred callback. Every path that
// removes a session from the directory must go through this, or a stale
// forfeit could fire against a destroyed session.
func (s *Session) stopTimers() {
	s.turnTimer.Stop()
	s.botTimer.Stop()
	s.breakTimer.Stop()
}
