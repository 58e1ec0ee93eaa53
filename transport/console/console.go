package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

const (
	crossColor  = "#ED1C24"
	circleColor = "#00A3E8"
	titleColor  = "#FFF200"
)

const helpText = `This is a game of Tic Tac Toe.

The rules are simple:
1. The game is played on a 3x3 grid.
2. First player is X, second is O. Players take turns
   in putting their characters in empty cells.
3. Whoever first gets 3 of their own characters in a row wins.
4. If such didn't happen but all squares are filled, game ends in a tie.

Cells are numbered 1-9 from the top left corner, row by row.`

type gameManager interface {
	StartGame(ctx context.Context, mode, firstMove string) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID string, row, col int) (*entity.Game, error)
	AbandonGame(ctx context.Context, gameID string) error
}

// Console is the text front end: a menu, the bot order selection, help and the board.
type Console struct {
	logger *slog.Logger
	games  gameManager
	out    *termenv.Output
	now    func() time.Time

	defaultFirstMove string

	in    io.Reader
	lines <-chan string
}

// New - defaultFirstMove is played when the bot menu choice is left empty.
func New(
	logger *slog.Logger,
	games gameManager,
	in io.Reader,
	out *termenv.Output,
	defaultFirstMove string,
	now func() time.Time,
) *Console {
	return &Console{
		logger: logger.With("component", "console"),
		games:  games,
		out:    out,
		now:    now,

		defaultFirstMove: defaultFirstMove,

		in: in,
	}
}

// readLines - input is read in the background so a blocked read never holds back cancellation.
// The reader stops once ctx is done.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	return lines
}

// Run - shows the main menu until the user quits, the input ends or ctx is canceled.
func (that *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	that.lines = readLines(ctx, that.in)

	for {
		that.printMenu()

		choice, err := that.readLine(ctx)
		if err != nil {
			return that.endOfInput(err)
		}

		switch strings.ToLower(choice) {
		case "1", "local":
			err = that.playGame(ctx, entity.LocalMode, "")
		case "2", "bot":
			err = that.selectBotOrder(ctx)
		case "3", "help":
			fmt.Fprintln(that.out, helpText)
		case "4", "q", "quit":
			return nil
		default:
			fmt.Fprintln(that.out, "Unknown option.")
		}

		if err != nil {
			return that.endOfInput(err)
		}
	}
}

func (that *Console) endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (that *Console) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-that.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

func (that *Console) printMenu() {
	title := that.out.String("TIC ").Foreground(that.out.Color(crossColor)).Bold().String() +
		that.out.String("TAC ").Foreground(that.out.Color(circleColor)).Bold().String() +
		that.out.String("TOE").Foreground(that.out.Color(titleColor)).Bold().String()

	fmt.Fprintln(that.out)
	fmt.Fprintln(that.out, title)
	fmt.Fprintln(that.out, "1) Play local")
	fmt.Fprintln(that.out, "2) Play vs Bot")
	fmt.Fprintln(that.out, "3) Help")
	fmt.Fprintln(that.out, "4) Quit")
	fmt.Fprint(that.out, "> ")
}

func (that *Console) selectBotOrder(ctx context.Context) error {
	for {
		fmt.Fprintln(that.out, "Choose who moves the first and start the game:")
		fmt.Fprintln(that.out, "1) Player")
		fmt.Fprintln(that.out, "2) Bot")
		fmt.Fprintln(that.out, "3) Random")
		fmt.Fprintln(that.out, "4) Go back")
		fmt.Fprintf(that.out, "> (Enter: %s) ", that.defaultFirstMove)

		choice, err := that.readLine(ctx)
		if err != nil {
			return err
		}

		switch strings.ToLower(choice) {
		case "":
			return that.playGame(ctx, entity.BotMode, that.defaultFirstMove)
		case "1", entity.FirstMovePlayer:
			return that.playGame(ctx, entity.BotMode, entity.FirstMovePlayer)
		case "2", entity.FirstMoveBot:
			return that.playGame(ctx, entity.BotMode, entity.FirstMoveBot)
		case "3", entity.FirstMoveRandom:
			return that.playGame(ctx, entity.BotMode, entity.FirstMoveRandom)
		case "4", "back":
			return nil
		default:
			fmt.Fprintln(that.out, "Unknown option.")
		}
	}
}

func (that *Console) playGame(ctx context.Context, mode, firstMove string) error {
	game, err := that.games.StartGame(ctx, mode, firstMove)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	log := that.logger.With("method", "playGame", "gameID", game.ID)

	for {
		that.printBoard(game.Board)
		fmt.Fprintf(that.out, "%s to move (1-9, q to leave): ", that.paintMark(game.Turn()))

		input, err := that.readLine(ctx)
		if err != nil {
			that.abandon(game.ID)
			return err
		}

		if strings.EqualFold(input, "q") {
			that.abandon(game.ID)
			return nil
		}

		row, col, ok := parseCell(input)
		if !ok {
			continue
		}

		next, err := that.games.MakeTurn(ctx, game.ID, row, col)
		switch {
		case errors.Is(err, apperror.ErrGameFinished):
			that.printBoard(next.Board)
			fmt.Fprintln(that.out, next.ResultMessage(that.now()))
			return nil
		case errors.Is(err, apperror.ErrCellOccupied), errors.Is(err, apperror.ErrInvalidCell):
			log.Debug("move ignored", "input", input, "error", err)
			continue
		case err != nil:
			that.abandon(game.ID)
			return fmt.Errorf("failed to make turn: %w", err)
		}

		game = next
	}
}

// abandon - best effort, the game may already be gone.
func (that *Console) abandon(gameID string) {
	if err := that.games.AbandonGame(context.Background(), gameID); err != nil {
		that.logger.Warn("failed to abandon game", "gameID", gameID, "error", err)
	}
}

// parseCell - cell numbers 1-9 in row-major order.
func parseCell(input string) (int, int, bool) {
	cell, err := strconv.Atoi(input)
	if err != nil || cell < 1 || cell > entity.BoardSize*entity.BoardSize {
		return 0, 0, false
	}

	cell--

	return cell / entity.BoardSize, cell % entity.BoardSize, true
}

func (that *Console) printBoard(board entity.Board) {
	fmt.Fprintln(that.out)

	for row := range entity.BoardSize {
		if row > 0 {
			fmt.Fprintln(that.out, "---+---+---")
		}

		cells := make([]string, 0, entity.BoardSize)
		for col := range entity.BoardSize {
			mark := board[row][col]
			if mark == entity.Empty {
				number := strconv.Itoa(row*entity.BoardSize + col + 1)
				cells = append(cells, " "+that.out.String(number).Faint().String()+" ")
				continue
			}
			cells = append(cells, " "+that.paintMark(mark)+" ")
		}

		fmt.Fprintln(that.out, strings.Join(cells, "|"))
	}

	fmt.Fprintln(that.out)
}

func (that *Console) paintMark(mark entity.Mark) string {
	color := crossColor
	if mark == entity.Circle {
		color = circleColor
	}

	return that.out.String(mark.String()).Foreground(that.out.Color(color)).Bold().String()
}
