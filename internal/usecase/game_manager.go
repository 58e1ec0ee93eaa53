package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/pkg"
	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager runs game sessions: it applies the player's turns, answers with the bot in bot games
// and removes sessions from the store once they are over.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	random   pkg.Random
	now      func() time.Time

	mu        sync.Mutex
	selectors map[string]*tictactoe.MoveSelector
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, random pkg.Random, now func() time.Time) *GameManager {
	return &GameManager{
		logger: logger,

		gameRepo: gameRepo,
		random:   random,
		now:      now,

		selectors: make(map[string]*tictactoe.MoveSelector),
	}
}

// StartGame - creates a session. In bot games firstMove decides who opens: player, bot or random.
// If the bot opens, its first move is already on the returned board.
func (that *GameManager) StartGame(ctx context.Context, mode, firstMove string) (*entity.Game, error) {
	if err := entity.ValidateMode(mode); err != nil {
		return nil, err
	}

	botFirst := false
	if mode == entity.BotMode {
		var err error
		if botFirst, err = that.resolveFirstMove(firstMove); err != nil {
			return nil, err
		}
	}

	game := entity.NewGame(pkg.GenerateGameID(), mode, botFirst, that.now())
	log := that.logger.With("method", "StartGame", "gameID", game.ID)

	if game.IsBotTurn() {
		if err := that.playBot(game); err != nil {
			return nil, fmt.Errorf("bot failed to make first turn: %w", err)
		}
	}

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		that.forgetSelector(game.ID)
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	log.Info("game started", "mode", game.Mode, "botFirst", game.BotFirst)

	return game, nil
}

// GetGame - returns the session with the given id.
func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// MakeTurn - plays the side to move at row, col and, in bot games, the bot's reply.
// When the game ends the session is removed and the final state is returned with apperror.ErrGameFinished.
func (that *GameManager) MakeTurn(ctx context.Context, gameID string, row, col int) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", gameID)

	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.IsBotTurn() {
		return game, apperror.ErrNotYourTurn
	}

	if err = game.MakeTurn(row, col); err != nil {
		if errors.Is(err, apperror.ErrGameFinished) {
			that.deleteGame(ctx, game)

			return game, apperror.ErrGameFinished
		}

		return game, fmt.Errorf("failed make turn: %w", err)
	}

	log.Debug("turn made", "row", row, "col", col, "turn", game.TurnCounter)

	if game.IsBotTurn() {
		if err = that.playBot(game); err != nil {
			return nil, fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	if game.IsFinished() {
		that.deleteGame(ctx, game)

		return game, apperror.ErrGameFinished
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed update game: %w", err)
	}

	return game, nil
}

// AbandonGame - drops an unfinished session.
func (that *GameManager) AbandonGame(ctx context.Context, gameID string) error {
	that.forgetSelector(gameID)

	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

func (that *GameManager) resolveFirstMove(firstMove string) (bool, error) {
	switch firstMove {
	case entity.FirstMovePlayer:
		return false, nil
	case entity.FirstMoveBot:
		return true, nil
	case entity.FirstMoveRandom:
		return that.random.IntN(2) == 1, nil
	default:
		return false, fmt.Errorf("%w: %q", apperror.ErrUnknownFirstMove, firstMove)
	}
}

// playBot - asks the game's selector for a move and plays it.
func (that *GameManager) playBot(game *entity.Game) error {
	move := that.selectorFor(game).SelectMove(game.Board, game.TurnCounter)

	if err := game.MakeTurn(move.Row, move.Col); err != nil {
		return fmt.Errorf("selected %d,%d: %w", move.Row, move.Col, err)
	}

	that.logger.Debug("bot made turn", "gameID", game.ID, "row", move.Row, "col", move.Col)

	return nil
}

// selectorFor - the selector is built once per game, sessions loaded from a shared store get one on first use.
func (that *GameManager) selectorFor(game *entity.Game) *tictactoe.MoveSelector {
	that.mu.Lock()
	defer that.mu.Unlock()

	selector, ok := that.selectors[game.ID]
	if !ok {
		selector = tictactoe.NewMoveSelector(game.BotFirst, that.random)
		that.selectors[game.ID] = selector
	}

	return selector
}

func (that *GameManager) forgetSelector(gameID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.selectors, gameID)
}

func (that *GameManager) deleteGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "deleteGame", "gameID", game.ID)

	that.forgetSelector(game.ID)

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
		return
	}

	log.Info("game deleted", "outcome", game.Outcome().String())
}
