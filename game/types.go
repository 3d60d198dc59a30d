package game

// Board and fleet constants
const (
	BoardSize      = 10
	NumShips       = 5
	TotalShipCells = 17 // 5+4+3+3+2
)

// CellState is the attacker-visible state of one board cell. Ship presence
// is never recorded on the board itself; it lives in the defender's ship
// list, so a board can be shared with the opponent as-is.
type CellState int

const (
	CellEmpty CellState = iota
	CellMiss
	CellHit
)

// Cell addresses one board position.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is the 10x10 attack record kept per combatant per round.
type Board [BoardSize][BoardSize]CellState

// ShipClass describes one canonical ship type.
type ShipClass struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
	Symbol string `json:"symbol"`
}

// ShipClasses is the canonical fleet in descending length order.
// The lengths {5,4,3,3,2} cover exactly TotalShipCells cells.
var ShipClasses = []ShipClass{
	{Name: "Carrier", Length: 5, Symbol: "C"},
	{Name: "Battleship", Length: 4, Symbol: "B"},
	{Name: "Cruiser", Length: 3, Symbol: "R"},
	{Name: "Submarine", Length: 3, Symbol: "S"},
	{Name: "Destroyer", Length: 2, Symbol: "D"},
}

// Ship is one placed ship. Its shape is immutable after placement; only
// Hits and Sunk change as attacks land.
type Ship struct {
	Type   string `json:"type"`
	Length int    `json:"length"`
	Cells  []Cell `json:"cells"`
	Hits   int    `json:"hits"`
	Sunk   bool   `json:"sunk"`
}

// InBounds reports whether c lies on the board.
func InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < BoardSize && c.Col >= 0 && c.Col < BoardSize
}

// ClassByName looks up a canonical ship class.
func ClassByName(name string) (ShipClass, bool) {
	for _, sc := range ShipClasses {
		if sc.Name == name {
			return sc, true
		}
	}
	return ShipClass{}, false
}

// AllSunk reports whether every ship in the fleet is sunk. True for an
// empty fleet, so callers must not consult it before placement.
func AllSunk(ships []*Ship) bool {
	for _, s := range ships {
		if !s.Sunk {
			return false
		}
	}
	return true
}
