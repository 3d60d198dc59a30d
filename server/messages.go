package server

import (
	"encoding/json"

	"github.com/spatuletail/spatuletail/game"
)

// Inbound message types (client -> server)
const (
	MsgTypeJoin            = "join"
	MsgTypePlaceShips      = "placeShips"
	MsgTypeAttack          = "attack"
	MsgTypeContinueWithBot = "continueWithBot"
	MsgTypeHeartbeat       = "heartbeat"
)

// Outbound message types (server -> client)
const (
	MsgTypeWaiting              = "waiting"
	MsgTypeGameStart            = "gameStart"
	MsgTypeBotJoined            = "botJoined"
	MsgTypePlacementConfirmed   = "placementConfirmed"
	MsgTypePlacementError       = "placementError"
	MsgTypeBattleStart          = "battleStart"
	MsgTypeTurnChange           = "turnChange"
	MsgTypeTimerStart           = "timerStart"
	MsgTypeAttackResult         = "attackResult"
	MsgTypeRoundEnd             = "roundEnd"
	MsgTypeGameOver             = "gameOver"
	MsgTypeForfeitNotice        = "forfeitNotice"
	MsgTypeKickToMenu           = "kickToMenu"
	MsgTypeOpponentDisconnected = "opponentDisconnected"
	MsgTypeSpectating           = "spectating"
	MsgTypeSpectatorGameState   = "spectatorGameState"
	MsgTypeSpectatorUpdate      = "spectatorUpdate"
	MsgTypeQueueUpdate          = "queueUpdate"
	MsgTypeNoActiveGames        = "noActiveGames"
)

// Session modes
const (
	ModeOnline   = "online"
	ModeOffline  = "offline"
	ModeSpectate = "spectate"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// JoinData is the join request payload.
type JoinData struct {
	Name string `json:"name"`
	Mode string `json:"mode"`
}

// AttackData is the attack request payload.
type AttackData struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// GameStartData announces a new match or round to a participant.
type GameStartData struct {
	Opponent  string `json:"opponent"`
	Round     int    `json:"round"`
	MaxRounds int    `json:"maxRounds"`
}

// BotJoinedData announces a bot opponent.
type BotJoinedData struct {
	BotName        string           `json:"botName"`
	Difficulty     int              `json:"difficulty"`
	DifficultyName string           `json:"difficultyName"`
	ShipTypes      []game.ShipClass `json:"shipTypes"`
}

// PlacementErrorData rejects a ship placement with the reason and the
// expected fleet composition.
type PlacementErrorData struct {
	Error         string           `json:"error"`
	Message       string           `json:"message"`
	ExpectedShips []game.ShipClass `json:"expectedShips,omitempty"`
}

// BattleStartData opens the battle phase for one participant.
type BattleStartData struct {
	IsYourTurn bool `json:"isYourTurn"`
	Round      int  `json:"round"`
}

// TurnChangeData flips turn possession.
type TurnChangeData struct {
	IsYourTurn bool `json:"isYourTurn"`
}

// TimerStartData announces a fresh turn deadline.
type TimerStartData struct {
	TimeLeft int `json:"timeLeft"` // seconds
}

// AttackResultData reports one resolved attack to a participant. Enemy is
// true on the attacker's copy (the attacked board belongs to their enemy).
type AttackResultData struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Hit   bool   `json:"hit"`
	Enemy bool   `json:"enemy"`
	Sunk  bool   `json:"sunk,omitempty"`
	Ship  string `json:"ship,omitempty"`
}

// RoundEndData closes a round.
type RoundEndData struct {
	Winner    string         `json:"winner"`
	Scores    map[string]int `json:"scores"`
	NextRound int            `json:"nextRound"`
}

// GameOverData closes a match. Winner is empty on a tie.
type GameOverData struct {
	Winner string         `json:"winner"`
	Scores map[string]int `json:"scores"`
	Reason string         `json:"reason,omitempty"`
}

// ForfeitNoticeData announces a turn forfeit.
type ForfeitNoticeData struct {
	Player              string `json:"player"`
	ConsecutiveForfeits int    `json:"consecutiveForfeits"`
	WillBeKicked        bool   `json:"willBeKicked,omitempty"`
}

// KickToMenuData ejects an offline player who forfeited out.
type KickToMenuData struct {
	Reason string `json:"reason"`
}

// OpponentDisconnectedData offers bot continuation after a disconnect.
type OpponentDisconnectedData struct {
	Message string `json:"message"`
}

// SpectatingData confirms spectator enrollment.
type SpectatingData struct {
	Message       string `json:"message"`
	QueuePosition int    `json:"queuePosition"`
}

// SpectatorGameStateData is the public view of the live online session.
type SpectatorGameStateData struct {
	Player1      string         `json:"player1"`
	Player2      string         `json:"player2"`
	CurrentRound int            `json:"currentRound"`
	MaxRounds    int            `json:"maxRounds"`
	Scores       map[string]int `json:"scores"`
	CurrentTurn  string         `json:"currentTurn"`
}

// QueueUpdateData refreshes a spectator's 1-indexed queue position.
type QueueUpdateData struct {
	Position     int `json:"position"`
	TotalInQueue int `json:"totalInQueue"`
}
