// cmd_bench.go
//
// `mastermind bench`: self-play over every secret of the configured space,
// per feedback rule, with a round histogram. Finished games feed the
// Prometheus game counters.

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/metrics"
	"github.com/robalobadob/mastermind/internal/solver"
)

var (
	benchDistinct bool
	benchWorkers  int
	benchAllRules bool
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Play every secret of the code space and report round counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rules := []string{cfg.FeedbackRule}
		if benchAllRules {
			rules = []string{game.RuleSimplified, game.RuleCanonical}
		}
		for _, name := range rules {
			rule, err := game.RuleByName(name)
			if err != nil {
				return err
			}
			rep, err := solver.Bench(cmd.Context(), solver.BenchOptions{
				AlphabetSize: cfg.AlphabetSize,
				CodeLength:   cfg.CodeLength,
				Rule:         rule,
				Distinct:     benchDistinct,
				Workers:      benchWorkers,
				OnGame: func(_ game.Code, o solver.Outcome) {
					metrics.ObserveGame(rule.Name(), o.Solved, len(o.Rounds))
				},
			})
			if err != nil {
				return err
			}
			printReport(cmd, rep)
		}
		return nil
	},
}

func printReport(cmd *cobra.Command, rep solver.BenchReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d games, %d solved, %d failed, max %d rounds (worst %v), avg %.3f, %v\n",
		rep.Rule, rep.Games, rep.Solved, rep.Failed, rep.MaxRounds, rep.Worst, rep.AvgRounds, rep.Elapsed)

	rounds := make([]int, 0, len(rep.Histogram))
	for n := range rep.Histogram {
		rounds = append(rounds, n)
	}
	sort.Ints(rounds)
	for _, n := range rounds {
		fmt.Fprintf(out, "  %2d rounds: %d\n", n, rep.Histogram[n])
	}
}

func init() {
	f := benchCmd.Flags()
	f.BoolVar(&benchDistinct, "distinct", false, "only secrets without repeated symbols")
	f.IntVar(&benchWorkers, "workers", 0, "parallel games (default GOMAXPROCS)")
	f.BoolVar(&benchAllRules, "all-rules", false, "run both feedback rules")
}
