package server

import "sync"

// Directory is the process-wide registry of sessions and queued players:
// at most one online session, any number of offline sessions, at most one
// waiting (unpaired) combatant, and a FIFO spectator queue. It is
// constructed once at server start and passed into every handler; nothing
// else holds cross-session state.
//
// Mu serializes all session and matchmaking mutation. Handlers and timer
// callbacks take it for their whole critical section, which stands in for
// the single-threaded event loop the protocol was designed around: within
// a session no two events are ever in flight concurrently.
type Directory struct {
	Mu sync.Mutex

	online     *Session
	offline    []*Session
	waiting    *Combatant
	spectators []*Combatant
}

func NewDirectory() *Directory {
	return &Directory{}
}

// findSession locates the session a combatant is playing in, if any.
func (d *Directory) findSession(combatantID string) *Session {
	if d.online != nil && d.online.has(combatantID) {
		return d.online
	}
	for _, sess := range d.offline {
		if sess.has(combatantID) {
			return sess
		}
	}
	return nil
}

// registered reports whether the session is still in the directory. Timer
// callbacks check this before acting so a deadline that raced a teardown
// is a no-op.
func (d *Directory) registered(sess *Session) bool {
	if d.online == sess {
		return true
	}
	for _, s := range d.offline {
		if s == sess {
			return true
		}
	}
	return false
}

// remove detaches a session from the directory and cancels its pending
// timers in the same step.
func (d *Directory) remove(sess *Session) {
	sess.stopTimers()
	if d.online == sess {
		d.online = nil
		return
	}
	for i, s := range d.offline {
		if s == sess {
			d.offline = append(d.offline[:i], d.offline[i+1:]...)
			return
		}
	}
}

// isSpectator reports whether the combatant is in the spectator queue.
func (d *Directory) isSpectator(combatantID string) bool {
	for _, spec := range d.spectators {
		if spec.ID == combatantID {
			return true
		}
	}
	return false
}

// removeSpectator drops a spectator by combatant ID.
func (d *Directory) removeSpectator(combatantID string) bool {
	for i, spec := range d.spectators {
		if spec.ID == combatantID {
			d.spectators = append(d.spectators[:i], d.spectators[i+1:]...)
			return true
		}
	}
	return false
}

// counts reports queue/session occupancy for the stats API.
func (d *Directory) counts() (online, offline, waiting, spectators int) {
	if d.online != nil {
		online = 1
	}
	if d.waiting != nil {
		waiting = 1
	}
	return online, len(d.offline), waiting, len(d.spectators)
}
