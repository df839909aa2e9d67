package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/statesquiz/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("exited")
		stop()
		os.Exit(1)
	}
}

// setupLogging applies the configured level. Terminal play logs to stderr in
// console form so it does not interleave JSON with the board.
func setupLogging(cfg config.Config, console bool) {
	zerolog.SetGlobalLevel(cfg.Level())
	if console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
