package cli

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/config"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

func runRoot(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	conf := &config.Config{
		LogLevel: "info",
		Storage:  config.StorageMemory,
		Bot:      config.Bot{FirstMove: entity.FirstMovePlayer},
	}

	var out bytes.Buffer

	cmd := NewRootCmd(logger, conf)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestRootCmd(t *testing.T) {
	t.Run("Play runs the console", func(t *testing.T) {
		// When
		out, err := runRoot(t, "4\n", "play")

		// Then
		require.NoError(t, err)
		assert.Contains(t, out, "1) Play local")
	})

	t.Run("Plays without a subcommand", func(t *testing.T) {
		// When
		out, err := runRoot(t, "4\n")

		// Then
		require.NoError(t, err)
		assert.Contains(t, out, "1) Play local")
	})

	t.Run("First move flag sets the bot menu default", func(t *testing.T) {
		// When
		out, err := runRoot(t, "2\n\nq\n4\n", "play", "--first-move", entity.FirstMoveBot)

		// Then
		require.NoError(t, err)
		assert.Contains(t, out, "(Enter: bot)")
		assert.Contains(t, out, " 4 | X | 6 ")
	})

	t.Run("Rejects an unknown first move", func(t *testing.T) {
		// When
		_, err := runRoot(t, "", "play", "--first-move", "nobody")

		// Then
		require.ErrorIs(t, err, apperror.ErrUnknownFirstMove)
	})

	t.Run("Suggest is available", func(t *testing.T) {
		// When
		out, err := runRoot(t, "", "suggest", "X../X../.OO")

		// Then
		require.NoError(t, err)
		assert.Contains(t, out, "cell 7")
	})
}
