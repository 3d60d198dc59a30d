package server

import (
	"fmt"
	"log"

	"github.com/spatuletail/spatuletail/game"
)

// Matchmaking and session lifecycle. Every method here except
// clientDisconnected expects the directory lock to be held by the caller.

// joinOnline pairs the client with the waiting combatant if one exists,
// parks them in the waiting slot if the online seat is free, or enrolls
// them as a spectator when a match is already running.
func (s *Server) joinOnline(c *Client, name string) {
	comb := newHumanCombatant(c, name)

	if s.dir.online != nil {
		// Match in progress; third joiner watches instead.
		log.Printf("[MATCH] %s joined during a live match, spectating", name)
		c.combatant = comb
		s.enrollSpectator(comb)
		return
	}

	if s.dir.waiting == nil {
		c.combatant = comb
		s.dir.waiting = comb
		log.Printf("[MATCH] %s waiting for an opponent", name)
		comb.send(ServerMessage{
			Type: MsgTypeWaiting,
			Data: map[string]interface{}{"message": "Waiting for an opponent..."},
		})
		return
	}

	opponent := s.dir.waiting
	s.dir.waiting = nil
	c.combatant = comb

	sess := newSession(opponent, comb, ModeOnline, s.cfg.MaxRounds)
	s.dir.online = sess

	s.sendGameStart(sess)
	s.broadcastToSpectators(MsgTypeSpectatorUpdate, map[string]interface{}{
		"event": "gameStarted",
		"state": s.spectatorState(sess),
	})
}

// joinOffline starts an immediate match against a bot of random
// difficulty.
func (s *Server) joinOffline(c *Client, name string) {
	comb := newHumanCombatant(c, name)
	c.combatant = comb

	bot := game.NewRandomBot(s.cfg.BotMinDifficulty, s.cfg.BotMaxDifficulty)
	botComb := newBotCombatant(bot)

	sess := newSession(comb, botComb, ModeOffline, s.cfg.MaxRounds)
	sess.placeBotShips()
	s.dir.offline = append(s.dir.offline, sess)

	comb.send(ServerMessage{
		Type: MsgTypeBotJoined,
		Data: BotJoinedData{
			BotName:        bot.Name,
			Difficulty:     bot.Difficulty,
			DifficultyName: bot.DifficultyName(),
			ShipTypes:      game.ShipClasses,
		},
	})
}

// joinSpectate enrolls the client in the spectator queue. With no live
// online match they are told so but stay queued for promotion.
func (s *Server) joinSpectate(c *Client, name string) {
	comb := newHumanCombatant(c, name)
	c.combatant = comb
	s.enrollSpectator(comb)

	if s.dir.online == nil {
		comb.send(ServerMessage{
			Type: MsgTypeNoActiveGames,
			Data: map[string]interface{}{"message": "No games in progress right now"},
		})
	}
}

func (s *Server) enrollSpectator(comb *Combatant) {
	s.dir.spectators = append(s.dir.spectators, comb)
	position := len(s.dir.spectators)
	log.Printf("[SPECTATE] %s enrolled at queue position %d", comb.Name, position)

	comb.send(ServerMessage{
		Type: MsgTypeSpectating,
		Data: SpectatingData{
			Message:       "You are spectating. You will be matched when a seat opens.",
			QueuePosition: position,
		},
	})
	if s.dir.online != nil {
		comb.send(ServerMessage{
			Type: MsgTypeSpectatorGameState,
			Data: s.spectatorState(s.dir.online),
		})
	}
}

// spectatorState builds the public view of a session: names, round
// standing and turn holder, never board contents.
func (s *Server) spectatorState(sess *Session) SpectatorGameStateData {
	scores := make(map[string]int, 2)
	for _, p := range sess.Players {
		scores[p.Name] = sess.Scores[p.ID]
	}
	return SpectatorGameStateData{
		Player1:      sess.Players[0].Name,
		Player2:      sess.Players[1].Name,
		CurrentRound: sess.Round,
		MaxRounds:    sess.MaxRounds,
		Scores:       scores,
		CurrentTurn:  sess.combatant(sess.CurrentTurn).Name,
	}
}

func (s *Server) broadcastToSpectators(msgType string, data interface{}) {
	for _, spec := range s.dir.spectators {
		spec.send(ServerMessage{Type: msgType, Data: data})
	}
}

func (s *Server) notifyQueuePositions() {
	total := len(s.dir.spectators)
	for i, spec := range s.dir.spectators {
		spec.send(ServerMessage{
			Type: MsgTypeQueueUpdate,
			Data: QueueUpdateData{Position: i + 1, TotalInQueue: total},
		})
	}
}

// sendGameStart announces the match (or a fresh round of it) to both
// participants.
func (s *Server) sendGameStart(sess *Session) {
	for _, p := range sess.Players {
		p.send(ServerMessage{
			Type: MsgTypeGameStart,
			Data: GameStartData{
				Opponent:  sess.opponent(p.ID).Name,
				Round:     sess.Round,
				MaxRounds: sess.MaxRounds,
			},
		})
	}
}

// requeueWinner moves an online match's human winner back into the
// waiting slot so they face the next spectator. Called before queue
// promotion so the winner keeps their seat.
func (s *Server) requeueWinner(winner *Combatant) {
	if winner == nil || !winner.Connected() || s.dir.waiting != nil {
		return
	}
	s.dir.waiting = winner
	log.Printf("[MATCH] Winner %s requeued for the next challenger", winner.Name)
	winner.send(ServerMessage{
		Type: MsgTypeWaiting,
		Data: map[string]interface{}{"message": "You won! Waiting for the next challenger..."},
	})
}

// promoteQueue fills the online seat from the spectator queue: two
// spectators (or one spectator plus the waiting slot) make a match, a
// lone spectator becomes the waiting combatant.
func (s *Server) promoteQueue() {
	if s.dir.online != nil {
		s.notifyQueuePositions()
		return
	}

	for {
		if len(s.dir.spectators) == 0 {
			break
		}
		next := s.dir.spectators[0]

		if s.dir.waiting != nil {
			s.dir.spectators = s.dir.spectators[1:]
			opponent := s.dir.waiting
			s.dir.waiting = nil

			sess := newSession(opponent, next, ModeOnline, s.cfg.MaxRounds)
			s.dir.online = sess
			log.Printf("[MATCH] Promoted %s from the spectator queue", next.Name)

			s.sendGameStart(sess)
			s.broadcastToSpectators(MsgTypeSpectatorUpdate, map[string]interface{}{
				"event": "gameStarted",
				"state": s.spectatorState(sess),
			})
			break
		}

		s.dir.spectators = s.dir.spectators[1:]
		s.dir.waiting = next
		log.Printf("[MATCH] Promoted %s from the spectator queue to the waiting slot", next.Name)
		next.send(ServerMessage{
			Type: MsgTypeWaiting,
			Data: map[string]interface{}{"message": "A seat opened up! Waiting for an opponent..."},
		})
	}

	s.notifyQueuePositions()
}

// continueWithBot swaps the departed opponent for a bot and converts the
// session to an offline match. Only valid after the caller received an
// opponentDisconnected offer, which implies an online session with a
// vacated seat.
func (s *Server) continueWithBot(comb *Combatant) {
	sess := s.dir.findSession(comb.ID)
	if sess == nil || sess.Mode != ModeOnline {
		log.Printf("[MATCH] %s asked for a bot without an eligible session", comb.Name)
		return
	}

	departed := sess.opponent(comb.ID)
	if departed.Connected() || departed.IsBot {
		log.Printf("[MATCH] %s asked for a bot but %s is still seated", comb.Name, departed.Name)
		return
	}

	bot := game.NewRandomBot(s.cfg.BotMinDifficulty, s.cfg.BotMaxDifficulty)
	botComb := newBotCombatant(bot)
	sess.substituteBot(departed, botComb)
	sess.Mode = ModeOffline

	// The online seat frees up for the spectator queue.
	s.dir.online = nil
	s.dir.offline = append(s.dir.offline, sess)

	if !sess.round.ready[botComb.ID] {
		sess.placeBotShips()
	}

	log.Printf("[MATCH] %s continues against bot %s (%s)", comb.Name, bot.Name, bot.DifficultyName())
	comb.send(ServerMessage{
		Type: MsgTypeBotJoined,
		Data: BotJoinedData{
			BotName:        bot.Name,
			Difficulty:     bot.Difficulty,
			DifficultyName: bot.DifficultyName(),
			ShipTypes:      game.ShipClasses,
		},
	})

	switch {
	case sess.State == StateBattling:
		// Resume mid-round; if the seat vacated on the bot's turn the bot
		// moves after its usual delay.
		s.startTurn(sess)
	case sess.State == StatePlacing && sess.bothReady():
		s.startBattle(sess)
	}

	s.broadcastToSpectators(MsgTypeSpectatorUpdate, map[string]interface{}{
		"event":  "gameEnded",
		"reason": "converted to offline",
	})
	s.promoteQueue()
}

// clientDisconnected untangles a departed client from whatever it was
// doing: the waiting slot, the spectator queue, or a live session.
func (s *Server) clientDisconnected(c *Client) {
	s.dir.Mu.Lock()
	defer s.dir.Mu.Unlock()

	comb := c.combatant
	if comb == nil {
		return
	}
	comb.client = nil

	if s.dir.waiting == comb {
		s.dir.waiting = nil
		log.Printf("[MATCH] Waiting player %s left", comb.Name)
		s.promoteQueue()
		return
	}

	if s.dir.removeSpectator(comb.ID) {
		log.Printf("[SPECTATE] %s left the queue", comb.Name)
		s.notifyQueuePositions()
		return
	}

	sess := s.dir.findSession(comb.ID)
	if sess == nil {
		return
	}

	go s.events.Append("playerDisconnect", map[string]interface{}{
		"session": sess.ID, "player": comb.Name, "mode": sess.Mode,
	})

	if sess.Mode == ModeOffline {
		// Bot matches die with their human.
		log.Printf("[MATCH] %s left offline session %s", comb.Name, sess.ID)
		s.dir.remove(sess)
		return
	}

	opponent := sess.opponent(comb.ID)
	if !opponent.Connected() {
		// Both seats empty; nothing to offer anyone.
		log.Printf("[MATCH] Online session %s abandoned", sess.ID)
		s.dir.remove(sess)
		s.broadcastToSpectators(MsgTypeSpectatorUpdate, map[string]interface{}{
			"event":  "gameEnded",
			"reason": "both players disconnected",
		})
		s.promoteQueue()
		return
	}

	// The remaining player chooses: continue against a bot or leave. The
	// session and its timers keep running in the meantime, so stalling on
	// the decision costs forfeits like any other stall.
	log.Printf("[MATCH] %s left online session %s, offering bot to %s", comb.Name, sess.ID, opponent.Name)
	opponent.send(ServerMessage{
		Type: MsgTypeOpponentDisconnected,
		Data: OpponentDisconnectedData{
			Message: fmt.Sprintf("%s disconnected. Continue against a bot?", comb.Name),
		},
	})
}
