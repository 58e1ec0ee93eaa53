package tictactoe

import (
	"math"

	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/pkg"
)

const (
	winScore  = 10
	lossScore = -10
	drawScore = 0
)

var (
	center  = entity.Move{Row: 1, Col: 1}
	corners = [4]entity.Move{{Row: 0, Col: 0}, {Row: 2, Col: 0}, {Row: 0, Col: 2}, {Row: 2, Col: 2}}
)

// ScoredMove is a legal move with the outcome it guarantees against best play.
type ScoredMove struct {
	entity.Move
	Score int `json:"score"`
}

// MoveSelector plays one side of a game with full minimax search.
type MoveSelector struct {
	mark   entity.Mark
	random pkg.Random
}

// NewMoveSelector - movesFirst selects Cross, otherwise the selector plays Circle.
func NewMoveSelector(movesFirst bool, random pkg.Random) *MoveSelector {
	mark := entity.Circle
	if movesFirst {
		mark = entity.Cross
	}

	return &MoveSelector{
		mark:   mark,
		random: random,
	}
}

func (that *MoveSelector) Mark() entity.Mark {
	return that.mark
}

// openingPly - index of this player's first move in the game.
func (that *MoveSelector) openingPly() int {
	if that.mark == entity.Cross {
		return 0
	}
	return 1
}

// SelectMove - returns the move for the side to move. The board must be in progress.
// plyIndex is the number of moves already made and is only used to detect the opening move.
func (that *MoveSelector) SelectMove(board entity.Board, plyIndex int) entity.Move {
	if plyIndex == that.openingPly() {
		return that.openingMove(board)
	}

	ranked := that.RankMoves(board)

	bestScore := math.MinInt
	for _, move := range ranked {
		bestScore = max(bestScore, move.Score)
	}

	best := make([]entity.Move, 0, len(ranked))
	for _, move := range ranked {
		if move.Score == bestScore {
			best = append(best, move.Move)
		}
	}

	return best[that.random.IntN(len(best))]
}

// RankMoves - every legal move in row-major order with its minimax score.
func (that *MoveSelector) RankMoves(board entity.Board) []ScoredMove {
	mark := board.NextMarkToMove()
	cells := board.EmptyCells()

	ranked := make([]ScoredMove, 0, len(cells))
	for _, cell := range cells {
		ranked = append(ranked, ScoredMove{
			Move:  cell,
			Score: that.score(board.Successor(mark, cell.Row, cell.Col)),
		})
	}

	return ranked
}

// openingMove - center if it is free, a random corner otherwise.
func (that *MoveSelector) openingMove(board entity.Board) entity.Move {
	if board.Cell(center.Row, center.Col) == entity.Empty {
		return center
	}
	return corners[that.random.IntN(len(corners))]
}

// score - value of the position for this selector assuming both sides play perfectly.
func (that *MoveSelector) score(board entity.Board) int {
	switch board.Outcome() {
	case entity.CrossWin:
		return that.terminalScore(entity.Cross)
	case entity.CircleWin:
		return that.terminalScore(entity.Circle)
	case entity.Draw:
		return drawScore
	case entity.InProgress:
	}

	maximizing := board.NextMarkToMove() == that.mark

	best := math.MaxInt
	if maximizing {
		best = math.MinInt
	}

	for _, next := range board.Successors() {
		if maximizing {
			best = max(best, that.score(next))
		} else {
			best = min(best, that.score(next))
		}
	}

	return best
}

func (that *MoveSelector) terminalScore(winner entity.Mark) int {
	if winner == that.mark {
		return winScore
	}
	return lossScore
}
