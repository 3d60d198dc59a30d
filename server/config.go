package server

import "time"

// Config holds the orchestration knobs. Start from DefaultConfig and
// override; the zero value is not usable.
type Config struct {
	// Match rules
	MaxRounds   int           // rounds per match
	TurnTimeout time.Duration // time a combatant has to attack before forfeiting
	RoundBreak  time.Duration // pause between a round ending and the next placement phase

	// Bot behavior
	BotMinDifficulty int
	BotMaxDifficulty int
	BotMinDelay      time.Duration // bot "thinking" delay bounds; max must stay
	BotMaxDelay      time.Duration // below TurnTimeout so bots never forfeit

	// Heartbeat/activity tracking
	WarningThreshold      time.Duration
	InactivityThreshold   time.Duration
	ActivitySweepInterval time.Duration

	// Persistence
	DataDir               string
	MaxLeaderboardEntries int
	MaxEventLogEntries    int
}

// DefaultConfig mirrors the shipped tuning.
func DefaultConfig() Config {
	return Config{
		MaxRounds:   3,
		TurnTimeout: 30 * time.Second,
		RoundBreak:  3 * time.Second,

		BotMinDifficulty: 1,
		BotMaxDifficulty: 4,
		BotMinDelay:      1500 * time.Millisecond,
		BotMaxDelay:      2500 * time.Millisecond,

		WarningThreshold:      30 * time.Second,
		InactivityThreshold:   45 * time.Second,
		ActivitySweepInterval: 10 * time.Second,

		DataDir:               "waterbird",
		MaxLeaderboardEntries: 100,
		MaxEventLogEntries:    2000,
	}
}
