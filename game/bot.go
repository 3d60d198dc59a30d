package game

import (
	"math/rand"

	"github.com/google/uuid"
)

// Bot difficulty tiers. Each tier maps to one attack strategy.
const (
	DifficultyEasy    = 1 // uniform random
	DifficultyMedium  = 2 // checkerboard parity
	DifficultyHard    = 3 // hunt-and-target
	DifficultyExtreme = 4 // probability-density targeting
)

// DifficultyNames maps a tier to its display name.
var DifficultyNames = map[int]string{
	DifficultyEasy:    "Easy",
	DifficultyMedium:  "Medium",
	DifficultyHard:    "Hard",
	DifficultyExtreme: "Extreme",
}

// BotNames is the pool of display names drawn from at bot creation.
var BotNames = []string{
	"ShadowKnight", "NoobMaster69", "ProGamer420", "xXDarkLordXx",
	"CaptainCool", "TheDestroyer", "NinjaWarrior", "DragonSlayer",
	"SilentAssassin", "ThunderStrike", "IceQueen", "PhoenixRising",
}

// TargetMemory is a bot's private targeting state, updated by the session
// as the bot's attacks resolve and reset at the start of every round.
type TargetMemory struct {
	LastHit   *Cell           // most recent hit, nil when hunting cold
	Queue     []Cell          // FIFO of candidates seeded by adjacency to hits
	Hits      []Cell          // every hit landed this round
	SunkTypes map[string]bool // ship classes confirmed sunk this round
}

// RecordHit notes a successful attack and seeds the candidate queue with
// the orthogonal neighbors of the struck cell.
func (m *TargetMemory) RecordHit(c Cell) {
	hit := c
	m.LastHit = &hit
	m.Hits = append(m.Hits, c)
	for _, adj := range orthogonal(c) {
		if InBounds(adj) {
			m.Queue = append(m.Queue, adj)
		}
	}
}

// RecordSunk notes that a defending ship class went down.
func (m *TargetMemory) RecordSunk(shipType string) {
	if m.SunkTypes == nil {
		m.SunkTypes = make(map[string]bool)
	}
	m.SunkTypes[shipType] = true
}

// Reset clears all targeting state for a fresh round.
func (m *TargetMemory) Reset() {
	*m = TargetMemory{}
}

func orthogonal(c Cell) [4]Cell {
	return [4]Cell{
		{Row: c.Row - 1, Col: c.Col},
		{Row: c.Row + 1, Col: c.Col},
		{Row: c.Row, Col: c.Col - 1},
		{Row: c.Row, Col: c.Col + 1},
	}
}

// Bot is a synthetic combatant: a difficulty-keyed attack strategy plus the
// targeting memory that strategy reads. Bots have no connection; the turn
// controller schedules their moves.
type Bot struct {
	ID         string
	Name       string
	Difficulty int
	Memory     TargetMemory

	strategy Strategy
}

// NewBot creates a bot on the given difficulty tier. The strategy is fixed
// at creation and invoked uniformly by the turn controller afterwards.
func NewBot(difficulty int, name string) *Bot {
	return &Bot{
		ID:         "bot_" + uuid.NewString()[:8],
		Name:       name,
		Difficulty: difficulty,
		strategy:   strategyForDifficulty(difficulty),
	}
}

// NewRandomBot creates a bot with a difficulty drawn uniformly from
// [minDifficulty, maxDifficulty] and a name from the pool.
func NewRandomBot(minDifficulty, maxDifficulty int) *Bot {
	if minDifficulty < DifficultyEasy {
		minDifficulty = DifficultyEasy
	}
	if maxDifficulty > DifficultyExtreme {
		maxDifficulty = DifficultyExtreme
	}
	difficulty := minDifficulty + rand.Intn(maxDifficulty-minDifficulty+1)
	name := BotNames[rand.Intn(len(BotNames))]
	return NewBot(difficulty, name)
}

// DifficultyName returns the display name of the bot's tier.
func (b *Bot) DifficultyName() string {
	return DifficultyNames[b.Difficulty]
}

// ChooseAttack picks the bot's next target on the enemy board. ok is false
// only when no attackable cell remains.
func (b *Bot) ChooseAttack(enemy *Board) (Cell, bool) {
	return b.strategy.ChooseAttack(enemy, &b.Memory)
}

// placementAttempts bounds the random draws per ship during auto-placement.
const placementAttempts = 100

// AutoPlaceShips generates a random fleet: for each class in descending
// length order it draws up to placementAttempts random (row, col,
// orientation) candidates and takes the first whose full run is in-bounds
// and unoccupied. There is no backtracking, so in pathological draws a ship
// can fail to place; the caller is expected to check len(ships) and retry
// or log. In practice all five ships place well within budget.
func AutoPlaceShips() []*Ship {
	var occupied [BoardSize][BoardSize]bool
	ships := make([]*Ship, 0, len(ShipClasses))

	for _, class := range ShipClasses {
		for attempt := 0; attempt < placementAttempts; attempt++ {
			horizontal := rand.Intn(2) == 0
			row := rand.Intn(BoardSize)
			col := rand.Intn(BoardSize)

			cells, ok := runCells(row, col, class.Length, horizontal, &occupied)
			if !ok {
				continue
			}

			for _, c := range cells {
				occupied[c.Row][c.Col] = true
			}
			ships = append(ships, &Ship{
				Type:   class.Name,
				Length: class.Length,
				Cells:  cells,
			})
			break
		}
	}

	return ships
}

// runCells returns the cell run for a candidate placement, or ok=false if
// the run leaves the board or crosses an occupied cell.
func runCells(row, col, length int, horizontal bool, occupied *[BoardSize][BoardSize]bool) ([]Cell, bool) {
	cells := make([]Cell, 0, length)
	for i := 0; i < length; i++ {
		c := Cell{Row: row, Col: col}
		if horizontal {
			c.Col += i
		} else {
			c.Row += i
		}
		if !InBounds(c) || occupied[c.Row][c.Col] {
			return nil, false
		}
		cells = append(cells, c)
	}
	return cells, true
}
