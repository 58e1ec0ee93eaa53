package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/pkg"
	"github.com/rocketscienceinc/tictactoe/internal/repository"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
)

var errRedisDown = errors.New("redis down")

type abandonSpy struct {
	*usecase.GameManager

	turnErr   error
	abandoned []string
}

func (that *abandonSpy) MakeTurn(ctx context.Context, gameID string, row, col int) (*entity.Game, error) {
	if that.turnErr != nil {
		return nil, that.turnErr
	}
	return that.GameManager.MakeTurn(ctx, gameID, row, col)
}

func (that *abandonSpy) AbandonGame(ctx context.Context, gameID string) error {
	that.abandoned = append(that.abandoned, gameID)
	return that.GameManager.AbandonGame(ctx, gameID)
}

func newTestConsole(input string) (*Console, *bytes.Buffer) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	startedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return startedAt }

	repo := repository.NewMemoryGameRepository()
	manager := usecase.NewGameManager(logger, repo, pkg.NewSequenceRandom(), now)

	var buf bytes.Buffer
	out := termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii))

	return New(logger, manager, strings.NewReader(input), out, entity.FirstMovePlayer, now), &buf
}

func TestConsole_Run(t *testing.T) {
	t.Run("Quits from the menu", func(t *testing.T) {
		// Given
		console, out := newTestConsole("4\n")

		// When
		err := console.Run(context.Background())

		// Then
		require.NoError(t, err)
		assert.Contains(t, out.String(), "1) Play local")
		assert.Contains(t, out.String(), "4) Quit")
	})

	t.Run("Stops when the input ends", func(t *testing.T) {
		// Given
		console, _ := newTestConsole("")

		// When
		err := console.Run(context.Background())

		// Then
		require.NoError(t, err)
	})

	t.Run("Shows the help", func(t *testing.T) {
		// Given
		console, out := newTestConsole("3\n4\n")

		// When
		err := console.Run(context.Background())

		// Then
		require.NoError(t, err)
		assert.Contains(t, out.String(), "The rules are simple:")
	})

	t.Run("Reports unknown options", func(t *testing.T) {
		// Given
		console, out := newTestConsole("7\n4\n")

		// When
		err := console.Run(context.Background())

		// Then
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Unknown option.")
	})

	t.Run("Plays a local game to the end", func(t *testing.T) {
		// Given
		console, out := newTestConsole("1\n1\n4\n2\n5\n3\n4\n")

		// When
		err := console.Run(context.Background())

		// Then
		require.NoError(t, err)
		assert.Contains(t, out.String(), " X | X | X ")
		assert.Contains(t, out.String(), "Crosses won! Game ended in 0.00s!")
	})

	t.Run("Ignores invalid and occupied cells", func(t *testing.T) {
		// Given
		console, out := newTestConsole("1\nfoo\n10\n0\n1\n1\n4\n2\n5\n3\n4\n")

		// When
		err := console.Run(context.Background())

		// Then
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Crosses won!")
	})

	t.Run("Bot opens in the center", func(t *testing.T) {
		// Given
		console, out := newTestConsole("2\n2\nq\n4\n")

		// When
		err := console.Run(context.Background())

		// Then
		require.NoError(t, err)
		assert.Contains(t, out.String(), " 4 | X | 6 ")
		assert.Contains(t, out.String(), "O to move")
	})

	t.Run("Empty bot choice uses the default first move", func(t *testing.T) {
		// Given
		console, out := newTestConsole("2\n\nq\n4\n")

		// When
		err := console.Run(context.Background())

		// Then
		require.NoError(t, err)
		assert.Contains(t, out.String(), "(Enter: player)")
		assert.Contains(t, out.String(), " 4 | 5 | 6 ")
		assert.Contains(t, out.String(), "X to move")
	})

	t.Run("Going back returns to the menu", func(t *testing.T) {
		// Given
		console, out := newTestConsole("2\n4\n4\n")

		// When
		err := console.Run(context.Background())

		// Then
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(out.String(), "1) Play local"))
	})

	t.Run("Leaving a game abandons it", func(t *testing.T) {
		// Given
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		repo := repository.NewMemoryGameRepository()
		games := &abandonSpy{GameManager: usecase.NewGameManager(logger, repo, pkg.NewSequenceRandom(), time.Now)}
		out := termenv.NewOutput(io.Discard, termenv.WithProfile(termenv.Ascii))
		console := New(logger, games, strings.NewReader("1\n5\nq\n4\n"), out, entity.FirstMovePlayer, time.Now)

		// When
		err := console.Run(context.Background())

		// Then
		require.NoError(t, err)
		require.Len(t, games.abandoned, 1)

		_, err = repo.GetByID(context.Background(), games.abandoned[0])
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Failed turn abandons the game", func(t *testing.T) {
		// Given: a manager whose turns fail with a storage error
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		repo := repository.NewMemoryGameRepository()
		games := &abandonSpy{
			GameManager: usecase.NewGameManager(logger, repo, pkg.NewSequenceRandom(), time.Now),
			turnErr:     errRedisDown,
		}
		out := termenv.NewOutput(io.Discard, termenv.WithProfile(termenv.Ascii))
		console := New(logger, games, strings.NewReader("1\n5\n"), out, entity.FirstMovePlayer, time.Now)

		// When: the player makes a move
		err := console.Run(context.Background())

		// Then: the error is returned and the session is removed
		require.ErrorIs(t, err, errRedisDown)
		require.Len(t, games.abandoned, 1)

		_, err = repo.GetByID(context.Background(), games.abandoned[0])
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Input reader stops when Run returns", func(t *testing.T) {
		// Given: input left over after quitting
		console, _ := newTestConsole("4\n1\n2\n3\n")

		// When
		err := console.Run(context.Background())

		// Then: the reader goroutine finishes and closes its channel
		require.NoError(t, err)
		lines := console.lines
		assert.Eventually(t, func() bool {
			select {
			case _, ok := <-lines:
				return !ok
			default:
				return false
			}
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("Stops when the context is canceled", func(t *testing.T) {
		// Given
		reader, writer := io.Pipe()
		defer writer.Close()

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		manager := usecase.NewGameManager(logger, repository.NewMemoryGameRepository(), pkg.NewSequenceRandom(), time.Now)
		console := New(logger, manager, reader, termenv.NewOutput(io.Discard, termenv.WithProfile(termenv.Ascii)), entity.FirstMovePlayer, time.Now)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// When
		err := console.Run(ctx)

		// Then
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		input string
		row   int
		col   int
		ok    bool
	}{
		{input: "1", row: 0, col: 0, ok: true},
		{input: "5", row: 1, col: 1, ok: true},
		{input: "6", row: 1, col: 2, ok: true},
		{input: "9", row: 2, col: 2, ok: true},
		{input: "0"},
		{input: "10"},
		{input: "x"},
		{input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			row, col, ok := parseCell(tt.input)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.row, row)
			assert.Equal(t, tt.col, col)
		})
	}
}
