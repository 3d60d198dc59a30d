package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoPlaceShipsProducesValidFleet(t *testing.T) {
	for i := 0; i < 50; i++ {
		ships := AutoPlaceShips()
		require.Len(t, ships, NumShips)
		require.NoError(t, ValidateShips(ships))

		// Every run must be contiguous in one axis; auto-placement never
		// produces the gapped shapes a client could submit.
		for _, ship := range ships {
			first := ship.Cells[0]
			for j, c := range ship.Cells {
				horizontal := ship.Cells[1].Row == first.Row
				if horizontal {
					assert.Equal(t, first.Row, c.Row)
					assert.Equal(t, first.Col+j, c.Col)
				} else {
					assert.Equal(t, first.Col, c.Col)
					assert.Equal(t, first.Row+j, c.Row)
				}
			}
		}
	}
}

func TestTargetMemoryRecordHit(t *testing.T) {
	var mem TargetMemory
	mem.RecordHit(Cell{Row: 0, Col: 0})

	require.NotNil(t, mem.LastHit)
	assert.Equal(t, Cell{Row: 0, Col: 0}, *mem.LastHit)
	// Corner cell: only the two in-bounds neighbors are queued.
	assert.ElementsMatch(t, []Cell{{Row: 1, Col: 0}, {Row: 0, Col: 1}}, mem.Queue)

	mem.RecordHit(Cell{Row: 5, Col: 5})
	assert.Len(t, mem.Hits, 2)
	assert.Len(t, mem.Queue, 6)
}

func TestTargetMemoryReset(t *testing.T) {
	var mem TargetMemory
	mem.RecordHit(Cell{Row: 3, Col: 3})
	mem.RecordSunk("Destroyer")

	mem.Reset()
	assert.Nil(t, mem.LastHit)
	assert.Empty(t, mem.Queue)
	assert.Empty(t, mem.Hits)
	assert.Empty(t, mem.SunkTypes)
}

func TestNewRandomBotClampsDifficulty(t *testing.T) {
	for i := 0; i < 30; i++ {
		bot := NewRandomBot(-3, 99)
		assert.GreaterOrEqual(t, bot.Difficulty, DifficultyEasy)
		assert.LessOrEqual(t, bot.Difficulty, DifficultyExtreme)
		assert.NotEmpty(t, bot.Name)
		assert.NotEmpty(t, bot.DifficultyName())
	}

	bot := NewRandomBot(DifficultyHard, DifficultyHard)
	assert.Equal(t, DifficultyHard, bot.Difficulty)
}

func TestChooseAttackAlwaysPicksFreshCell(t *testing.T) {
	for difficulty := DifficultyEasy; difficulty <= DifficultyExtreme; difficulty++ {
		t.Run(DifficultyNames[difficulty], func(t *testing.T) {
			bot := NewBot(difficulty, "tester")
			board := NewBoard()

			// Exhaust the whole board; every pick must be a fresh cell.
			for i := 0; i < BoardSize*BoardSize; i++ {
				cell, ok := bot.ChooseAttack(board)
				require.True(t, ok, "pick %d", i)
				require.Equal(t, CellEmpty, board[cell.Row][cell.Col], "pick %d hit attacked cell (%d,%d)", i, cell.Row, cell.Col)
				board[cell.Row][cell.Col] = CellMiss
			}

			_, ok := bot.ChooseAttack(board)
			assert.False(t, ok, "full board must yield no pick")
		})
	}
}

func TestCheckerboardPrefersParityCells(t *testing.T) {
	bot := NewBot(DifficultyMedium, "tester")
	board := NewBoard()

	for i := 0; i < 20; i++ {
		cell, ok := bot.ChooseAttack(board)
		require.True(t, ok)
		assert.Equal(t, 0, (cell.Row+cell.Col)%2)
		board[cell.Row][cell.Col] = CellMiss
	}
}

func TestHuntTargetChasesLastHit(t *testing.T) {
	bot := NewBot(DifficultyHard, "tester")
	board := NewBoard()

	board[5][5] = CellHit
	bot.Memory.RecordHit(Cell{Row: 5, Col: 5})

	cell, ok := bot.ChooseAttack(board)
	require.True(t, ok)
	assert.Contains(t, []Cell{
		{Row: 4, Col: 5}, {Row: 6, Col: 5}, {Row: 5, Col: 4}, {Row: 5, Col: 6},
	}, cell)
}

func TestHuntTargetFallsBackWhenSurrounded(t *testing.T) {
	bot := NewBot(DifficultyHard, "tester")
	board := NewBoard()

	board[5][5] = CellHit
	board[4][5] = CellMiss
	board[6][5] = CellMiss
	board[5][4] = CellMiss
	board[5][6] = CellMiss
	bot.Memory.LastHit = &Cell{Row: 5, Col: 5}

	cell, ok := bot.ChooseAttack(board)
	require.True(t, ok)
	assert.Equal(t, CellEmpty, board[cell.Row][cell.Col])
	assert.Nil(t, bot.Memory.LastHit, "exhausted hit must be forgotten")
}

func TestDensityDrainsQueueBeforeCoverage(t *testing.T) {
	bot := NewBot(DifficultyExtreme, "tester")
	board := NewBoard()

	board[2][2] = CellHit
	bot.Memory.RecordHit(Cell{Row: 2, Col: 2})
	// First queued neighbor is already attacked and must be skipped.
	board[1][2] = CellMiss

	cell, ok := bot.ChooseAttack(board)
	require.True(t, ok)
	assert.Equal(t, Cell{Row: 3, Col: 2}, cell)
}

func TestDensityExtendsHitLine(t *testing.T) {
	bot := NewBot(DifficultyExtreme, "tester")
	board := NewBoard()

	// Two collinear hits with an empty queue: the line gets extended.
	board[4][3] = CellHit
	board[4][4] = CellHit
	bot.Memory.Hits = []Cell{{Row: 4, Col: 3}, {Row: 4, Col: 4}}

	cell, ok := bot.ChooseAttack(board)
	require.True(t, ok)
	assert.Contains(t, []Cell{{Row: 4, Col: 5}, {Row: 4, Col: 2}}, cell)
}

func TestBestCoverageCellAvoidsBlockedRegions(t *testing.T) {
	board := NewBoard()
	// Wall off column 1: nothing horizontal can cross it, so cell (0,0)
	// can only be covered by vertical runs clipped to the corner.
	for row := 0; row < BoardSize; row++ {
		board[row][1] = CellMiss
	}

	cell, ok := bestCoverageCell(board, ShipClasses)
	require.True(t, ok)
	assert.Equal(t, CellEmpty, board[cell.Row][cell.Col])
	assert.NotEqual(t, 1, cell.Col)
	// The open region right of the wall dominates the 1-wide strip.
	assert.Greater(t, cell.Col, 1)
}

func TestRemainingClassesExcludesSunk(t *testing.T) {
	var mem TargetMemory
	mem.RecordSunk("Carrier")
	mem.RecordSunk("Destroyer")

	classes := remainingClasses(&mem)
	require.Len(t, classes, 3)
	for _, class := range classes {
		assert.NotContains(t, []string{"Carrier", "Destroyer"}, class.Name)
	}
}
