package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/pkg"
	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
	"github.com/spf13/cobra"
)

// Suggestion is the output of the suggest command.
type Suggestion struct {
	Board  string      `json:"board"`
	Mark   string      `json:"mark"`
	Ply    int         `json:"ply"`
	Move   entity.Move `json:"move"`
	Cell   int         `json:"cell"`
	Scores []MoveScore `json:"scores,omitempty"`
}

// MoveScore is the minimax value of one candidate move.
type MoveScore struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Score int `json:"score"`
}

func newSuggestCmd(random pkg.Random) *cobra.Command {
	var (
		ply    int
		first  bool
		scores bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "suggest <board>",
		Short: "Print the bot's move for a board",
		Long: `Print the move the bot would make on a board.

The board is written row by row, rows separated by '/':
X and O for marks, '.', '_', '-' or a space for empty cells.

The bot always plays the side to move; --first only asserts that this is X.
By default the ply is the number of marks already on the board.`,
		Example: `  tictactoe suggest X../X../.OO
  tictactoe suggest XX./.O./... --scores -o json`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := entity.ParseBoard(args[0])
			if err != nil {
				return err
			}

			if board.Outcome().IsTerminal() {
				return fmt.Errorf("%w: %s", apperror.ErrGameFinished, board.Outcome())
			}

			toMove := board.NextMarkToMove()
			if !cmd.Flags().Changed("first") {
				first = toMove == entity.Cross
			}

			if first != (toMove == entity.Cross) {
				return fmt.Errorf("%w: %s is to move on %s", apperror.ErrNotYourTurn, toMove, board)
			}

			if !cmd.Flags().Changed("ply") {
				ply = entity.BoardSize*entity.BoardSize - len(board.EmptyCells())
			}

			selector := tictactoe.NewMoveSelector(first, random)
			move := selector.SelectMove(board, ply)

			suggestion := Suggestion{
				Board: board.String(),
				Mark:  selector.Mark().String(),
				Ply:   ply,
				Move:  move,
				Cell:  move.Row*entity.BoardSize + move.Col + 1,
			}

			if scores {
				for _, scored := range selector.RankMoves(board) {
					suggestion.Scores = append(suggestion.Scores, MoveScore{
						Row:   scored.Row,
						Col:   scored.Col,
						Score: scored.Score,
					})
				}
			}

			return printSuggestion(cmd.OutOrStdout(), output, suggestion)
		},
	}

	cmd.Flags().IntVar(&ply, "ply", 0, "Plies already played (default: marks on the board)")
	cmd.Flags().BoolVar(&first, "first", false, "Bot is the first player, X; must match the side to move")
	cmd.Flags().BoolVar(&scores, "scores", false, "Also print the minimax score of every legal move")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json")

	return cmd
}

func printSuggestion(w io.Writer, format string, suggestion Suggestion) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(suggestion)
	case outputText:
		fmt.Fprintf(w, "%s plays row=%d col=%d (cell %d)\n",
			suggestion.Mark, suggestion.Move.Row, suggestion.Move.Col, suggestion.Cell)

		for _, scored := range suggestion.Scores {
			fmt.Fprintf(w, "  row=%d col=%d score=%d\n", scored.Row, scored.Col, scored.Score)
		}

		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
