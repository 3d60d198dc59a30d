package game

import "fmt"

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// ValidateShips checks a submitted fleet before it is accepted into a round.
// A fleet must contain exactly one ship of every canonical class, each with
// the declared length and a matching number of cells, covering exactly
// TotalShipCells cells in total. This guarantees both combatants always
// field equal tonnage.
//
// Beyond the count/type/length checks, every cell must be in bounds and no
// two ships may share a cell: a hostile client could otherwise stack its
// fleet onto fewer cells. Contiguity of each ship's cell run is NOT
// re-verified; the placing UI is trusted for that.
//
// Returns nil on acceptance. No state is mutated either way.
func ValidateShips(ships []*Ship) error {
	if len(ships) != len(ShipClasses) {
		return fmt.Errorf("expected %d ships, got %d", len(ShipClasses), len(ships))
	}

	placed := make(map[string]bool, len(ships))
	occupied := make(map[Cell]bool, TotalShipCells)
	totalCells := 0

	for _, ship := range ships {
		class, ok := ClassByName(ship.Type)
		if !ok {
			return fmt.Errorf("unknown ship type %q", ship.Type)
		}
		if placed[ship.Type] {
			return fmt.Errorf("duplicate ship type %q", ship.Type)
		}
		placed[ship.Type] = true

		if ship.Length != class.Length {
			return fmt.Errorf("%s must have length %d, got %d", ship.Type, class.Length, ship.Length)
		}
		if len(ship.Cells) != ship.Length {
			return fmt.Errorf("%s declares length %d but has %d cells", ship.Type, ship.Length, len(ship.Cells))
		}

		for _, c := range ship.Cells {
			if !InBounds(c) {
				return fmt.Errorf("%s cell (%d,%d) is out of bounds", ship.Type, c.Row, c.Col)
			}
			if occupied[c] {
				return fmt.Errorf("%s overlaps another ship at (%d,%d)", ship.Type, c.Row, c.Col)
			}
			occupied[c] = true
		}

		totalCells += ship.Length
	}

	if totalCells != TotalShipCells {
		return fmt.Errorf("fleet covers %d cells, expected %d", totalCells, TotalShipCells)
	}

	return nil
}
