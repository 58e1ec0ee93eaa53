package cli

import (
	"fmt"
	"log/slog"

	"github.com/muesli/termenv"
	application "github.com/rocketscienceinc/tictactoe/internal"
	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/config"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/spf13/cobra"
)

func newPlayCmd(logger *slog.Logger, conf *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start the console game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch conf.Bot.FirstMove {
			case entity.FirstMovePlayer, entity.FirstMoveBot, entity.FirstMoveRandom:
			default:
				return fmt.Errorf("%w: %q", apperror.ErrUnknownFirstMove, conf.Bot.FirstMove)
			}

			out := termenv.NewOutput(cmd.OutOrStdout())

			return application.RunApp(logger, conf, cmd.InOrStdin(), out)
		},
	}

	cmd.Flags().StringVar(&conf.Storage, "storage", conf.Storage, "Session storage: memory, redis (env: TICTACTOE_STORAGE)")
	cmd.Flags().StringVar(&conf.Bot.FirstMove, "first-move", conf.Bot.FirstMove,
		"Default opener against the bot: player, bot, random (env: TICTACTOE_BOT_FIRST_MOVE)")

	return cmd
}
