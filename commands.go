package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gliderlabs/ssh"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/statesquiz/assets"
	"github.com/robalobadob/statesquiz/internal/config"
	"github.com/robalobadob/statesquiz/internal/httpserver"
	"github.com/robalobadob/statesquiz/internal/play"
	"github.com/robalobadob/statesquiz/internal/regions"
	"github.com/robalobadob/statesquiz/internal/results"
	"github.com/robalobadob/statesquiz/internal/store"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "statesquiz",
		Short:         "Guess the states and union territories of India",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newPlayCmd(), newSSHCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var noResults bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setupLogging(cfg, false)

			table, err := regions.Load(cfg.RegionsFile)
			if err != nil {
				return fmt.Errorf("load regions: %w", err)
			}

			var res *results.Store
			if !noResults {
				db, err := results.Open(cfg.DBPath)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := results.Migrate(db, assets.Migrations()); err != nil {
					return err
				}
				res = results.NewStore(db)
			}

			ctx := cmd.Context()
			mem := store.NewMemoryStore()
			go store.RunSweeper(ctx, mem, cfg.SweepInterval, cfg.SessionIdle)

			srv := httpserver.New(mem, res, table, httpserver.Options{
				JWTSecret:    cfg.JWTSecret,
				TokenTTL:     cfg.TokenTTL,
				CookieName:   cfg.CookieName,
				ClientOrigin: cfg.ClientOrigin,
				Production:   cfg.Production(),
				FeedbackTTL:  cfg.FeedbackTTL,
			})
			log.Info().Str("port", cfg.Port).Int("regions", table.Len()).Bool("results", res != nil).Msg("starting statesquiz")
			return srv.Start(ctx, ":"+cfg.Port)
		},
	}
	cmd.Flags().BoolVar(&noResults, "no-results", false, "do not persist completed games")
	return cmd
}

func newPlayCmd() *cobra.Command {
	var (
		player  string
		noColor bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in this terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setupLogging(cfg, true)

			table, err := regions.Load(cfg.RegionsFile)
			if err != nil {
				return fmt.Errorf("load regions: %w", err)
			}
			s := play.NewSession(play.Lines(os.Stdin), os.Stdout, play.Options{
				Table:       table,
				Player:      player,
				FeedbackTTL: cfg.FeedbackTTL,
				PaintDelay:  cfg.PaintDelay,
				Color:       !noColor,
				Prompt:      "> ",
			})
			return s.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&player, "player", os.Getenv("USER"), "player name")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable coloured tiles")
	return cmd
}

func newSSHCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ssh",
		Short: "Serve the terminal game over SSH",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setupLogging(cfg, false)

			table, err := regions.Load(cfg.RegionsFile)
			if err != nil {
				return fmt.Errorf("load regions: %w", err)
			}
			srv, err := play.NewSSHServer(play.SSHOptions{
				Addr:        cfg.SSHAddr,
				HostKeyFile: cfg.SSHHostKey,
				IdleTimeout: cfg.SSHIdle,
				Session: play.Options{
					Table:       table,
					FeedbackTTL: cfg.FeedbackTTL,
					PaintDelay:  cfg.PaintDelay,
				},
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			log.Info().Str("addr", cfg.SSHAddr).Msg("starting ssh server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}
