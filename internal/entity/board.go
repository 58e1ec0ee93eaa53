package entity

import (
	"errors"
	"fmt"
	"strings"
)

type Mark string

const (
	Empty  Mark = ""
	Cross  Mark = "X"
	Circle Mark = "O"
)

type Outcome int

const (
	InProgress Outcome = iota
	CrossWin
	CircleWin
	Draw
)

const BoardSize = 3

var (
	ErrInvalidBoard = errors.New("invalid board notation")

	// WinLines - 3 rows, 3 columns and 2 diagonals.
	WinLines = [8][3]Move{
		{{0, 0}, {0, 1}, {0, 2}},
		{{1, 0}, {1, 1}, {1, 2}},
		{{2, 0}, {2, 1}, {2, 2}},
		{{0, 0}, {1, 0}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}},
		{{0, 2}, {1, 2}, {2, 2}},
		{{0, 0}, {1, 1}, {2, 2}},
		{{0, 2}, {1, 1}, {2, 0}},
	}
)

// Move identifies a cell by its row and column.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is a 3x3 grid indexed as [row][col]. It is a value type: assigning it copies every cell.
type Board [BoardSize][BoardSize]Mark

func (that Mark) String() string {
	if that == Empty {
		return "."
	}
	return string(that)
}

// Opponent - returns the other player's mark, Empty stays Empty.
func (that Mark) Opponent() Mark {
	switch that {
	case Cross:
		return Circle
	case Circle:
		return Cross
	default:
		return Empty
	}
}

func (that Outcome) String() string {
	switch that {
	case CrossWin:
		return "cross_win"
	case CircleWin:
		return "circle_win"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

// IsTerminal - true when the game can not continue.
func (that Outcome) IsTerminal() bool {
	return that != InProgress
}

// NewBoard - returns an empty board.
func NewBoard() Board {
	return Board{}
}

// InBounds - checks that the cell exists on the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// Place - puts mark into the cell. Returns false without touching the board if the cell is occupied
// or outside the board. Turn order is not checked here.
func (that *Board) Place(row, col int, mark Mark) bool {
	if !InBounds(row, col) || mark == Empty {
		return false
	}

	if that[row][col] != Empty {
		return false
	}

	that[row][col] = mark

	return true
}

// Cell - returns the mark in the cell, Empty for cells outside the board.
func (that Board) Cell(row, col int) Mark {
	if !InBounds(row, col) {
		return Empty
	}
	return that[row][col]
}

// Outcome - classifies the board. If both players own a line (impossible in legal play) CrossWin is reported.
func (that Board) Outcome() Outcome {
	circleWon := false

	for _, line := range WinLines {
		a, b, c := that[line[0].Row][line[0].Col], that[line[1].Row][line[1].Col], that[line[2].Row][line[2].Col]
		if a == Empty || a != b || b != c {
			continue
		}

		if a == Cross {
			return CrossWin
		}
		circleWon = true
	}

	if circleWon {
		return CircleWin
	}

	// the game will continue until all the squares are full
	if that.Count(Empty) > 0 {
		return InProgress
	}

	return Draw
}

// EmptyCells - free cells in row-major order, recomputed on every call.
func (that Board) EmptyCells() []Move {
	cells := make([]Move, 0, BoardSize*BoardSize)
	for row := range BoardSize {
		for col := range BoardSize {
			if that[row][col] == Empty {
				cells = append(cells, Move{Row: row, Col: col})
			}
		}
	}
	return cells
}

// Successor - returns a copy of the board with the cell set to mark, the receiver is not modified.
func (that Board) Successor(mark Mark, row, col int) Board {
	next := that
	next[row][col] = mark
	return next
}

// Successors - every board reachable by the side to move, in EmptyCells order.
func (that Board) Successors() []Board {
	mark := that.NextMarkToMove()
	cells := that.EmptyCells()

	boards := make([]Board, 0, len(cells))
	for _, cell := range cells {
		boards = append(boards, that.Successor(mark, cell.Row, cell.Col))
	}
	return boards
}

// NextMarkToMove - Circle when Cross is one mark ahead, Cross otherwise.
func (that Board) NextMarkToMove() Mark {
	if that.Count(Cross) == that.Count(Circle)+1 {
		return Circle
	}
	return Cross
}

// Count - number of cells holding mark.
func (that Board) Count(mark Mark) int {
	count := 0
	for row := range BoardSize {
		for col := range BoardSize {
			if that[row][col] == mark {
				count++
			}
		}
	}
	return count
}

// String - rows joined by "/", empty cells as ".", e.g. "X../X../.OO".
func (that Board) String() string {
	var sb strings.Builder
	for row := range BoardSize {
		if row > 0 {
			sb.WriteByte('/')
		}
		for col := range BoardSize {
			sb.WriteString(that[row][col].String())
		}
	}
	return sb.String()
}

// ParseBoard - reads the notation produced by String. "_", "-" and " " are accepted as empty cells,
// marks are case-insensitive.
func ParseBoard(notation string) (Board, error) {
	var board Board

	rows := strings.Split(notation, "/")
	if len(rows) != BoardSize {
		return board, fmt.Errorf("%w: want %d rows, got %d", ErrInvalidBoard, BoardSize, len(rows))
	}

	for row, line := range rows {
		if len(line) != BoardSize {
			return board, fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, row, len(line))
		}

		for col := range BoardSize {
			switch line[col] {
			case 'X', 'x':
				board[row][col] = Cross
			case 'O', 'o', '0':
				board[row][col] = Circle
			case '.', '_', '-', ' ':
				board[row][col] = Empty
			default:
				return board, fmt.Errorf("%w: unexpected %q at %d,%d", ErrInvalidBoard, line[col], row, col)
			}
		}
	}

	return board, nil
}
