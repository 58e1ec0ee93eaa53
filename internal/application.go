package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"github.com/rocketscienceinc/tictactoe/internal/config"
	"github.com/rocketscienceinc/tictactoe/internal/pkg"
	"github.com/rocketscienceinc/tictactoe/internal/repository"
	"github.com/rocketscienceinc/tictactoe/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
	"github.com/rocketscienceinc/tictactoe/transport/console"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrUnknownStorage = errors.New("unknown storage")
)

// RunApp - runs the console until the user quits or a shutdown signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config, in io.Reader, out *termenv.Output) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	err := run(ctx, logger, conf, in, out)
	if errors.Is(err, context.Canceled) {
		log.Info("Application context canceled, shutting down")
		return nil
	}

	return err
}

func run(ctx context.Context, logger *slog.Logger, conf *config.Config, in io.Reader, out *termenv.Output) error {
	gameRepo, closeStorage, err := newGameRepository(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeStorage()

	gameUseCase := usecase.NewGameManager(logger, gameRepo, pkg.NewRandom(), time.Now)

	return console.New(logger, gameUseCase, in, out, conf.Bot.FirstMove, time.Now).Run(ctx)
}

// newGameRepository - picks the session store named by the config. The returned func releases it.
func newGameRepository(
	ctx context.Context,
	logger *slog.Logger,
	conf *config.Config,
) (repository.GameRepository, func(), error) {
	log := logger.With("component", "app")

	switch conf.Storage {
	case config.StorageMemory:
		return repository.NewMemoryGameRepository(), func() {}, nil
	case config.StorageRedis:
		if conf.Redis.Host == "" || conf.Redis.Port == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		closeStorage := func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}

		return repository.NewGameRepository(redisStorage), closeStorage, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStorage, conf.Storage)
	}
}
