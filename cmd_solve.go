// cmd_solve.go
//
// `mastermind solve [secret]`: one self-play game, printing every round.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/solver"
)

var solveCmd = &cobra.Command{
	Use:   "solve [secret]",
	Short: "Self-play against a secret (random when omitted)",
	Example: `  mastermind solve 3142
  mastermind solve "(3,1,4,2)" --rule canonical
  mastermind solve --alphabet 8 --length 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		alphabet := game.NewAlphabet(cfg.AlphabetSize)

		var secret game.Code
		var err error
		if len(args) == 1 {
			if secret, err = game.ParseCode(args[0]); err == nil {
				err = alphabet.Validate(secret, len(secret))
			}
		} else {
			secret, err = game.RandomSecret(alphabet, cfg.CodeLength, cfg.SecretRepeats)
		}
		if err != nil {
			return err
		}
		rule, err := game.RuleByName(cfg.FeedbackRule)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.SolveTimeout)
		defer cancel()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "secret %v (%s rule)\n", secret, rule.Name())
		res, err := solver.SolveSecret(ctx, cfg.AlphabetSize, secret, solver.WithRule(rule))
		for _, r := range res.Rounds {
			fmt.Fprintf(out, "%2d  %v  %v  remaining %d\n", r.Number, r.Guess, r.Feedback, r.Remaining)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "won in %d moves | %v\n", len(res.Rounds), res.Elapsed)
		return nil
	},
}
