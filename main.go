// main.go
//
// Entry point for the mastermind CLI.
// The root command loads config (.env + environment), applies flag
// overrides and sets up zerolog before any subcommand runs.

package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/config"
)

var (
	cfg config.Config

	pretty       bool
	alphabetSize int
	codeLength   int
	ruleName     string

	rootCmd = &cobra.Command{
		Use:           "mastermind",
		Short:         "Autonomous Mastermind code-breaker",
		Long:          "Plays the code-breaker role of Mastermind by candidate elimination, as a CLI or an HTTP service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			// flags win over the environment
			if cmd.Flags().Changed("alphabet") {
				cfg.AlphabetSize = alphabetSize
			}
			if cmd.Flags().Changed("length") {
				cfg.CodeLength = codeLength
			}
			if cmd.Flags().Changed("rule") {
				cfg.FeedbackRule = ruleName
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			setupLogging(cfg.LogLevel, pretty)
			return nil
		},
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&pretty, "pretty", false, "human-readable console logs")
	pf.IntVarP(&alphabetSize, "alphabet", "c", 6, "alphabet size C (symbols 1..C)")
	pf.IntVarP(&codeLength, "length", "l", 4, "code length L")
	pf.StringVarP(&ruleName, "rule", "r", "simplified", "feedback rule: simplified | canonical")

	rootCmd.AddCommand(serveCmd, solveCmd, benchCmd)
}

func setupLogging(level string, console bool) {
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("mastermind")
	}
}
