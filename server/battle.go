package server

import (
	"log"
	"math/rand"
	"time"
)

// Battle orchestration. Every method expects the directory lock held;
// timer callbacks re-acquire it and re-validate that the session is still
// registered before touching anything, since a deadline can fire in the
// same instant a teardown wins the lock.

// startBattle transitions a session out of placement once both fleets are
// down.
func (s *Server) startBattle(sess *Session) {
	sess.State = StateBattling
	s.stats.GameStart(sess.Mode)

	log.Printf("[GAME] Session %s battle started, round %d/%d, %s opens",
		sess.ID, sess.Round, sess.MaxRounds, sess.combatant(sess.CurrentTurn).Name)
	go s.events.Append("battleStart", map[string]interface{}{
		"session": sess.ID, "round": sess.Round, "mode": sess.Mode,
	})

	for _, p := range sess.Players {
		p.send(ServerMessage{
			Type: MsgTypeBattleStart,
			Data: BattleStartData{
				IsYourTurn: sess.CurrentTurn == p.ID,
				Round:      sess.Round,
			},
		})
	}
	if sess.Mode == ModeOnline {
		s.broadcastToSpectators(MsgTypeSpectatorGameState, s.spectatorState(sess))
	}

	s.startTurn(sess)
}

// startTurn arms the turn deadline, announces it, and schedules the bot
// move when the turn holder is a bot. The deadline stays armed until an
// attack actually resolves; invalid attacks burn time instead of
// resetting it.
func (s *Server) startTurn(sess *Session) {
	turnHolder := sess.CurrentTurn

	sess.turnTimer.Arm(s.cfg.TurnTimeout, func() {
		s.dir.Mu.Lock()
		defer s.dir.Mu.Unlock()
		if !s.dir.registered(sess) || sess.State != StateBattling || sess.CurrentTurn != turnHolder {
			return
		}
		s.forfeitTurn(sess)
	})

	for _, p := range sess.Players {
		p.send(ServerMessage{
			Type: MsgTypeTimerStart,
			Data: TimerStartData{TimeLeft: int(s.cfg.TurnTimeout / time.Second)},
		})
	}

	holder := sess.combatant(turnHolder)
	if holder.IsBot {
		delay := s.cfg.BotMinDelay
		if spread := s.cfg.BotMaxDelay - s.cfg.BotMinDelay; spread > 0 {
			delay += time.Duration(rand.Int63n(int64(spread)))
		}
		sess.botTimer.Arm(delay, func() {
			s.dir.Mu.Lock()
			defer s.dir.Mu.Unlock()
			if !s.dir.registered(sess) {
				return
			}
			s.botMove(sess, turnHolder)
		})
	}
}

// botMove picks and resolves the bot's attack.
func (s *Server) botMove(sess *Session, botID string) {
	if sess.State != StateBattling || sess.CurrentTurn != botID {
		return
	}
	bot := sess.combatant(botID)
	if bot == nil || !bot.IsBot {
		return
	}

	enemy := sess.opponent(botID)
	cell, ok := bot.Bot.ChooseAttack(sess.round.boards[enemy.ID])
	if !ok {
		// A full board without all ships sunk means a short-handed fleet;
		// the bot has nothing left to shoot at.
		log.Printf("[BOT] %s found no cell to attack in session %s", bot.Name, sess.ID)
		s.forfeitTurn(sess)
		return
	}

	s.processAttack(sess, botID, cell.Row, cell.Col)
}

// processAttack resolves one attack and drives whatever follows from it:
// turn change, round end, or game over.
func (s *Server) processAttack(sess *Session, attackerID string, row, col int) {
	result, err := sess.resolveAttack(attackerID, row, col)
	if err != nil {
		// Invalid attacks leave the turn deadline running; stalling on
		// repeats costs the turn.
		log.Printf("[ATTACK] Session %s rejected attack (%d,%d): %v", sess.ID, row, col, err)
		return
	}

	sess.turnTimer.Stop()
	sess.botTimer.Stop()
	sess.resetForfeits(attackerID)

	attacker := sess.combatant(attackerID)
	defender := sess.opponent(attackerID)

	if result.Hit {
		s.stats.Hit()
	} else {
		s.stats.Miss()
	}
	go s.events.Append("attack", map[string]interface{}{
		"session": sess.ID, "attacker": attacker.Name,
		"row": row, "col": col, "hit": result.Hit, "sunk": result.Sunk,
	})

	shipName := ""
	if result.Sunk {
		shipName = result.Ship.Type
		log.Printf("[GAME] %s sunk %s's %s", attacker.Name, defender.Name, shipName)
	}
	attacker.send(ServerMessage{
		Type: MsgTypeAttackResult,
		Data: AttackResultData{Row: row, Col: col, Hit: result.Hit, Enemy: true, Sunk: result.Sunk, Ship: shipName},
	})
	defender.send(ServerMessage{
		Type: MsgTypeAttackResult,
		Data: AttackResultData{Row: row, Col: col, Hit: result.Hit, Enemy: false, Sunk: result.Sunk, Ship: shipName},
	})

	if result.AllSunk {
		s.endRound(sess, attacker)
		return
	}

	sess.switchTurn()
	for _, p := range sess.Players {
		p.send(ServerMessage{
			Type: MsgTypeTurnChange,
			Data: TurnChangeData{IsYourTurn: sess.CurrentTurn == p.ID},
		})
	}
	if sess.Mode == ModeOnline {
		s.broadcastToSpectators(MsgTypeSpectatorGameState, s.spectatorState(sess))
	}

	s.startTurn(sess)
}

// endRound credits the round to its winner and either schedules the next
// round or ends the match.
func (s *Server) endRound(sess *Session, winner *Combatant) {
	sess.Scores[winner.ID]++
	log.Printf("[GAME] Session %s round %d won by %s (score %d-%d)",
		sess.ID, sess.Round, winner.Name,
		sess.Scores[sess.Players[0].ID], sess.Scores[sess.Players[1].ID])

	if sess.Round >= sess.MaxRounds {
		s.endGame(sess, sess.winnerID(), "")
		return
	}

	sess.State = StateRoundEnded
	sess.turnTimer.Stop()
	sess.botTimer.Stop()

	scores := make(map[string]int, 2)
	for _, p := range sess.Players {
		scores[p.Name] = sess.Scores[p.ID]
	}
	for _, p := range sess.Players {
		p.send(ServerMessage{
			Type: MsgTypeRoundEnd,
			Data: RoundEndData{Winner: winner.Name, Scores: scores, NextRound: sess.Round + 1},
		})
	}
	if sess.Mode == ModeOnline {
		s.broadcastToSpectators(MsgTypeSpectatorGameState, s.spectatorState(sess))
	}

	sess.breakTimer.Arm(s.cfg.RoundBreak, func() {
		s.dir.Mu.Lock()
		defer s.dir.Mu.Unlock()
		if !s.dir.registered(sess) || sess.State != StateRoundEnded {
			return
		}
		s.beginNextRound(sess)
	})
}

// beginNextRound opens the next placement phase after the round break.
func (s *Server) beginNextRound(sess *Session) {
	sess.Round++
	sess.resetRound()
	sess.placeBotShips()

	log.Printf("[GAME] Session %s round %d placement", sess.ID, sess.Round)
	s.sendGameStart(sess)
	if sess.Mode == ModeOnline {
		s.broadcastToSpectators(MsgTypeSpectatorGameState, s.spectatorState(sess))
	}
}

// forfeitTurn charges the turn holder with a missed deadline. The second
// consecutive forfeit ends the match in the opponent's favor regardless
// of score.
func (s *Server) forfeitTurn(sess *Session) {
	holder := sess.combatant(sess.CurrentTurn)
	count, terminal := sess.forfeit(holder.ID)
	log.Printf("[GAME] %s forfeited their turn in session %s (%d consecutive)", holder.Name, sess.ID, count)
	go s.events.Append("turnForfeit", map[string]interface{}{
		"session": sess.ID, "player": holder.Name, "count": count,
	})

	if terminal {
		winner := sess.opponent(holder.ID)
		log.Printf("[GAME] %s forfeited out of session %s, %s wins", holder.Name, sess.ID, winner.Name)
		if sess.Mode == ModeOffline && !holder.IsBot {
			holder.send(ServerMessage{
				Type: MsgTypeKickToMenu,
				Data: KickToMenuData{Reason: "You were removed for repeated inactivity"},
			})
		}
		s.endGame(sess, winner.ID, "forfeit")
		return
	}

	willBeKicked := sess.Mode == ModeOffline && !holder.IsBot
	for _, p := range sess.Players {
		p.send(ServerMessage{
			Type: MsgTypeForfeitNotice,
			Data: ForfeitNoticeData{
				Player:              holder.Name,
				ConsecutiveForfeits: count,
				WillBeKicked:        willBeKicked,
			},
		})
	}

	sess.switchTurn()
	for _, p := range sess.Players {
		p.send(ServerMessage{
			Type: MsgTypeTurnChange,
			Data: TurnChangeData{IsYourTurn: sess.CurrentTurn == p.ID},
		})
	}
	if sess.Mode == ModeOnline {
		s.broadcastToSpectators(MsgTypeSpectatorGameState, s.spectatorState(sess))
	}
	s.startTurn(sess)
}

// endGame tears the session down, reports the result, persists the
// leaderboard, and recycles the online seat. winnerID may be empty on a
// drawn match.
func (s *Server) endGame(sess *Session, winnerID, reason string) {
	sess.State = StateGameOver
	wasOnline := sess.Mode == ModeOnline
	s.dir.remove(sess)

	var winner *Combatant
	winnerName := ""
	if winnerID != "" {
		winner = sess.combatant(winnerID)
		winnerName = winner.Name
	}
	log.Printf("[GAME] Session %s over, winner=%q reason=%q", sess.ID, winnerName, reason)
	go s.events.Append("gameOver", map[string]interface{}{
		"session": sess.ID, "winner": winnerName, "reason": reason, "mode": sess.Mode,
	})

	scores := make(map[string]int, 2)
	for _, p := range sess.Players {
		scores[p.Name] = sess.Scores[p.ID]
	}
	for _, p := range sess.Players {
		p.send(ServerMessage{
			Type: MsgTypeGameOver,
			Data: GameOverData{Winner: winnerName, Scores: scores, Reason: reason},
		})
	}

	if lb := s.leaderboards[sess.Mode]; lb != nil {
		for _, p := range sess.Players {
			if p.IsBot {
				continue
			}
			name, won := p.Name, p.ID == winnerID
			go lb.Record(name, won)
		}
	}

	if wasOnline {
		s.broadcastToSpectators(MsgTypeSpectatorUpdate, map[string]interface{}{
			"event":  "gameEnded",
			"winner": winnerName,
		})
		if winner != nil && !winner.IsBot {
			s.requeueWinner(winner)
		}
		s.promoteQueue()
	}
}
