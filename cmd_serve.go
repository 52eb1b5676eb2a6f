// cmd_serve.go
//
// `mastermind serve`: opens the results database, starts the session
// janitor and serves the HTTP API.

package main

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/httpserver"
	"github.com/robalobadob/mastermind/internal/results"
	"github.com/robalobadob/mastermind/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP solver API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if p, _ := cmd.Flags().GetString("port"); p != "" {
			cfg.Port = p
		}

		db, err := results.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		sessions := store.NewMemoryStore(store.WithTTL(cfg.SessionTTL), store.WithMaxSessions(cfg.MaxSessions))
		go store.Janitor(cmd.Context(), sessions, time.Minute)

		srv := httpserver.New(cfg, sessions, results.NewStore(db))
		log.Info().
			Str("port", cfg.Port).
			Str("db", cfg.DBPath).
			Str("rule", cfg.FeedbackRule).
			Int("alphabet", cfg.AlphabetSize).
			Int("length", cfg.CodeLength).
			Dur("session_ttl", cfg.SessionTTL).
			Msg("starting mastermind server")
		return srv.Start(":" + cfg.Port)
	},
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "listen port (overrides PORT)")
}
