package game

import "fmt"

// AttackResult reports the outcome of one resolved attack against a
// defender's board and fleet.
type AttackResult struct {
	Row     int
	Col     int
	Hit     bool
	Ship    *Ship // ship that was struck, nil on miss
	Sunk    bool  // the struck ship went down on this attack
	AllSunk bool  // every defending ship is now sunk: the round is won
}

// ResolveAttack resolves a single attack on (row, col) against the
// defender's board and ships. The target cell must not have been attacked
// before; a duplicate coordinate is rejected with no state change, which
// makes the operation safe against repeated network delivery.
//
// On a fresh cell the defender's ships are scanned for a match: a hit marks
// the cell, increments the ship's hit count and flips Sunk when the count
// reaches the ship's length; a miss just marks the cell.
func ResolveAttack(board *Board, ships []*Ship, row, col int) (*AttackResult, error) {
	cell := Cell{Row: row, Col: col}
	if !InBounds(cell) {
		return nil, fmt.Errorf("attack (%d,%d) is out of bounds", row, col)
	}
	if board[row][col] != CellEmpty {
		return nil, fmt.Errorf("cell (%d,%d) was already attacked", row, col)
	}

	result := &AttackResult{Row: row, Col: col}

	for _, ship := range ships {
		for _, c := range ship.Cells {
			if c == cell {
				board[row][col] = CellHit
				ship.Hits++
				if ship.Hits >= ship.Length {
					ship.Sunk = true
				}
				result.Hit = true
				result.Ship = ship
				result.Sunk = ship.Sunk
				break
			}
		}
		if result.Hit {
			break
		}
	}

	if !result.Hit {
		board[row][col] = CellMiss
		return result, nil
	}

	result.AllSunk = AllSunk(ships)
	return result, nil
}
