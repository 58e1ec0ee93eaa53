package cli

import (
	"log/slog"

	"github.com/rocketscienceinc/tictactoe/internal/config"
	"github.com/rocketscienceinc/tictactoe/internal/pkg"
	"github.com/spf13/cobra"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// NewRootCmd creates the root command. Without a subcommand it starts the console game.
func NewRootCmd(logger *slog.Logger, conf *config.Config) *cobra.Command {
	play := newPlayCmd(logger, conf)

	rootCmd := &cobra.Command{
		Use:   "tictactoe",
		Short: "Tic Tac Toe against a friend or an unbeatable bot",
		Long: `tictactoe is a console Tic Tac Toe game.

Play locally with a friend or against a minimax bot that never loses,
or ask the bot which move it would make on a given board.`,
		Args:         cobra.NoArgs,
		RunE:         play.RunE,
		SilenceUsage: true,
	}

	rootCmd.Flags().AddFlagSet(play.Flags())

	rootCmd.AddCommand(play)
	rootCmd.AddCommand(newSuggestCmd(pkg.NewRandom()))

	return rootCmd
}
