package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
)

const (
	LocalMode = "local"
	BotMode   = "bot"
)

const (
	FirstMovePlayer = "player"
	FirstMoveBot    = "bot"
	FirstMoveRandom = "random"
)

// Game is one session of play. It lives from the first move until an outcome is reached.
type Game struct {
	ID          string    `json:"id"`
	Board       Board     `json:"board"`
	Mode        string    `json:"mode"`
	BotFirst    bool      `json:"bot_first,omitempty"`
	TurnCounter int       `json:"turn_counter"`
	StartedAt   time.Time `json:"started_at"`
}

func NewGame(id, mode string, botFirst bool, startedAt time.Time) *Game {
	return &Game{
		ID:        id,
		Board:     NewBoard(),
		Mode:      mode,
		BotFirst:  botFirst && mode == BotMode,
		StartedAt: startedAt,
	}
}

// ValidateMode - checks the mode name.
func ValidateMode(mode string) error {
	switch mode {
	case LocalMode, BotMode:
		return nil
	default:
		return fmt.Errorf("%w: %q", apperror.ErrUnknownMode, mode)
	}
}

// Turn - mark of the side to move, Cross always opens.
func (that *Game) Turn() Mark {
	if that.TurnCounter%2 == 0 {
		return Cross
	}
	return Circle
}

func (that *Game) IsWithBot() bool {
	return that.Mode == BotMode
}

// BotMark - Cross if the bot moves first, Circle otherwise. Empty in local games.
func (that *Game) BotMark() Mark {
	switch {
	case !that.IsWithBot():
		return Empty
	case that.BotFirst:
		return Cross
	default:
		return Circle
	}
}

// IsBotTurn - true when the side to move is controlled by the computer.
func (that *Game) IsBotTurn() bool {
	return that.IsWithBot() && !that.IsFinished() && that.Turn() == that.BotMark()
}

func (that *Game) Outcome() Outcome {
	return that.Board.Outcome()
}

func (that *Game) IsFinished() bool {
	return that.Outcome().IsTerminal()
}

// MakeTurn - places the mark of the side to move and advances the turn counter.
func (that *Game) MakeTurn(row, col int) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if !InBounds(row, col) {
		return fmt.Errorf("%w: cell %d,%d", apperror.ErrInvalidCell, row, col)
	}

	if !that.Board.Place(row, col, that.Turn()) {
		return apperror.ErrCellOccupied
	}

	that.TurnCounter++

	return nil
}

// Elapsed - time since the game started.
func (that *Game) Elapsed(now time.Time) time.Duration {
	return now.Sub(that.StartedAt)
}

// ResultMessage - the announcement shown when the game is over, empty while it is still going.
func (that *Game) ResultMessage(now time.Time) string {
	var message string

	switch that.Outcome() {
	case CrossWin:
		message = "Crosses won!"
	case CircleWin:
		message = "Circles won!"
	case Draw:
		message = "Draw!"
	default:
		return ""
	}

	return fmt.Sprintf("%s Game ended in %.2fs!", message, that.Elapsed(now).Seconds())
}
