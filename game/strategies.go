package game

import "math/rand"

// Strategy selects a bot's next target given the opponent's board as the
// bot sees it (attack results only) and the bot's private memory. One
// implementation exists per difficulty tier; harder tiers fall back to
// easier ones when they have nothing to work with.
type Strategy interface {
	Name() string
	ChooseAttack(b *Board, mem *TargetMemory) (Cell, bool)
}

func strategyForDifficulty(difficulty int) Strategy {
	switch difficulty {
	case DifficultyMedium:
		return checkerboardStrategy{}
	case DifficultyHard:
		return huntTargetStrategy{}
	case DifficultyExtreme:
		return densityStrategy{}
	default:
		return randomStrategy{}
	}
}

// emptyCells collects every cell not yet attacked.
func emptyCells(b *Board) []Cell {
	var cells []Cell
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b[row][col] == CellEmpty {
				cells = append(cells, Cell{Row: row, Col: col})
			}
		}
	}
	return cells
}

// randomStrategy attacks a uniformly random unattacked cell.
type randomStrategy struct{}

func (randomStrategy) Name() string { return "random" }

func (randomStrategy) ChooseAttack(b *Board, _ *TargetMemory) (Cell, bool) {
	cells := emptyCells(b)
	if len(cells) == 0 {
		return Cell{}, false
	}
	return cells[rand.Intn(len(cells))], true
}

// checkerboardStrategy restricts the random choice to even-parity cells.
// Every ship of length >= 2 covers at least one even-parity cell, so the
// parity lattice finds every ship eventually with half the shots.
type checkerboardStrategy struct{}

func (checkerboardStrategy) Name() string { return "checkerboard" }

func (checkerboardStrategy) ChooseAttack(b *Board, mem *TargetMemory) (Cell, bool) {
	var cells []Cell
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b[row][col] == CellEmpty && (row+col)%2 == 0 {
				cells = append(cells, Cell{Row: row, Col: col})
			}
		}
	}
	if len(cells) == 0 {
		return randomStrategy{}.ChooseAttack(b, mem)
	}
	return cells[rand.Intn(len(cells))], true
}

// huntTargetStrategy chases the most recent hit: while the memory holds a
// hit coordinate it attacks an orthogonally adjacent unattacked cell, and
// clears the memory once no adjacent candidate remains.
type huntTargetStrategy struct{}

func (huntTargetStrategy) Name() string { return "hunt-and-target" }

func (huntTargetStrategy) ChooseAttack(b *Board, mem *TargetMemory) (Cell, bool) {
	if mem.LastHit != nil {
		for _, adj := range orthogonal(*mem.LastHit) {
			if InBounds(adj) && b[adj.Row][adj.Col] == CellEmpty {
				return adj, true
			}
		}
		mem.LastHit = nil
	}
	return checkerboardStrategy{}.ChooseAttack(b, mem)
}

// densityStrategy is the extreme tier. Target priority:
//  1. the head of the candidate queue (stale entries are discarded),
//  2. extension of a collinear pair of known hits,
//  3. the unattacked cell covered by the most legal placements of the
//     ship classes not yet confirmed sunk, ties broken uniformly.
type densityStrategy struct{}

func (densityStrategy) Name() string { return "probability-density" }

func (densityStrategy) ChooseAttack(b *Board, mem *TargetMemory) (Cell, bool) {
	// Drain stale queue entries; attack the first still-fresh candidate.
	for len(mem.Queue) > 0 {
		head := mem.Queue[0]
		mem.Queue = mem.Queue[1:]
		if b[head.Row][head.Col] == CellEmpty {
			return head, true
		}
	}

	if c, ok := extendHitLine(b, mem.Hits); ok {
		return c, true
	}

	if c, ok := bestCoverageCell(b, remainingClasses(mem)); ok {
		return c, true
	}

	return randomStrategy{}.ChooseAttack(b, mem)
}

// extendHitLine looks for two collinear hits and tries to extend the line
// by one cell on either end.
func extendHitLine(b *Board, hits []Cell) (Cell, bool) {
	for i := 0; i < len(hits); i++ {
		for j := i + 1; j < len(hits); j++ {
			a, c := hits[i], hits[j]
			if a.Row == c.Row {
				minCol, maxCol := a.Col, c.Col
				if minCol > maxCol {
					minCol, maxCol = maxCol, minCol
				}
				if candidate := (Cell{Row: a.Row, Col: maxCol + 1}); InBounds(candidate) && b[candidate.Row][candidate.Col] == CellEmpty {
					return candidate, true
				}
				if candidate := (Cell{Row: a.Row, Col: minCol - 1}); InBounds(candidate) && b[candidate.Row][candidate.Col] == CellEmpty {
					return candidate, true
				}
			}
			if a.Col == c.Col {
				minRow, maxRow := a.Row, c.Row
				if minRow > maxRow {
					minRow, maxRow = maxRow, minRow
				}
				if candidate := (Cell{Row: maxRow + 1, Col: a.Col}); InBounds(candidate) && b[candidate.Row][candidate.Col] == CellEmpty {
					return candidate, true
				}
				if candidate := (Cell{Row: minRow - 1, Col: a.Col}); InBounds(candidate) && b[candidate.Row][candidate.Col] == CellEmpty {
					return candidate, true
				}
			}
		}
	}
	return Cell{}, false
}

// remainingClasses returns the ship classes not yet confirmed sunk.
func remainingClasses(mem *TargetMemory) []ShipClass {
	var classes []ShipClass
	for _, sc := range ShipClasses {
		if !mem.SunkTypes[sc.Name] {
			classes = append(classes, sc)
		}
	}
	return classes
}

// bestCoverageCell counts, for every unattacked cell, how many legal
// placements of the given classes would cover it, and returns a uniformly
// chosen cell among those with the maximum count. A placement is legal when
// its whole run lies in bounds and crosses no attacked cell.
func bestCoverageCell(b *Board, classes []ShipClass) (Cell, bool) {
	if len(classes) == 0 {
		return Cell{}, false
	}

	var coverage [BoardSize][BoardSize]int
	for _, class := range classes {
		for row := 0; row < BoardSize; row++ {
			for col := 0; col+class.Length <= BoardSize; col++ {
				countRun(b, &coverage, row, col, class.Length, true)
			}
		}
		for col := 0; col < BoardSize; col++ {
			for row := 0; row+class.Length <= BoardSize; row++ {
				countRun(b, &coverage, row, col, class.Length, false)
			}
		}
	}

	best := 0
	var candidates []Cell
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b[row][col] != CellEmpty {
				continue
			}
			switch {
			case coverage[row][col] > best:
				best = coverage[row][col]
				candidates = candidates[:0]
				candidates = append(candidates, Cell{Row: row, Col: col})
			case coverage[row][col] == best && best > 0:
				candidates = append(candidates, Cell{Row: row, Col: col})
			}
		}
	}

	if len(candidates) == 0 {
		return Cell{}, false
	}
	return candidates[rand.Intn(len(candidates))], true
}

// countRun bumps the coverage of every cell in a placement run, provided
// the run crosses no attacked cell.
func countRun(b *Board, coverage *[BoardSize][BoardSize]int, row, col, length int, horizontal bool) {
	for i := 0; i < length; i++ {
		r, c := row, col
		if horizontal {
			c += i
		} else {
			r += i
		}
		if b[r][c] != CellEmpty {
			return
		}
	}
	for i := 0; i < length; i++ {
		r, c := row, col
		if horizontal {
			c += i
		} else {
			r += i
		}
		coverage[r][c]++
	}
}
