// Package tictactoe is the match rule engine: pure functions over a board
// and a mark, with no knowledge of rooms, connections or seats. Swapping it
// for a different game leaves the session coordinator untouched.
package tictactoe

import (
	"fmt"

	"github.com/charles1986-star/gameroom-backend/internal/apperror"
	"github.com/charles1986-star/gameroom-backend/internal/entity"
)

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Apply places mark on cell and returns the new board plus the match result:
// entity.MarkX or entity.MarkO for a win, entity.WinnerTie for a full board
// without a winner, or "" while the match is still ongoing. On an invalid or
// occupied cell the board comes back unchanged along with an error.
func Apply(board entity.Board, mark string, cell int) (entity.Board, string, error) {
	if cell < 0 || cell >= len(board) {
		return board, "", fmt.Errorf("%w: %d", apperror.ErrInvalidCell, cell)
	}

	if board[cell] != entity.EmptyCell {
		return board, "", fmt.Errorf("%w: %d", apperror.ErrCellOccupied, cell)
	}

	board[cell] = mark

	return board, Result(board), nil
}

// Result inspects a board without mutating anything.
func Result(board entity.Board) string {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	// the match continues while any cell is still free
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return ""
		}
	}

	return entity.WinnerTie
}

// ToggleMark returns the mark whose move becomes legal after currentMark moved.
func ToggleMark(currentMark string) string {
	if currentMark == entity.MarkX {
		return entity.MarkO
	}
	return entity.MarkX
}
