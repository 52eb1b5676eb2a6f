// internal/solver/bench.go
//
// Parallel self-play over a whole code space (errgroup, bounded workers).

package solver

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/mastermind/internal/game"
)

// BenchReport summarises self-play over a set of secrets.
type BenchReport struct {
	Rule      string
	Games     int
	Solved    int
	Failed    int
	MaxRounds int
	AvgRounds float64     // over solved games
	Worst     game.Code   // first secret needing MaxRounds
	Histogram map[int]int // rounds -> games
	Elapsed   time.Duration
}

// BenchOptions controls Bench.
type BenchOptions struct {
	AlphabetSize int
	CodeLength   int
	Rule         game.FeedbackRule
	Distinct     bool // only secrets without repeated symbols
	Workers      int  // defaults to GOMAXPROCS
	// OnGame is called once per finished game, from worker goroutines.
	OnGame func(secret game.Code, out Outcome)
	// Options are applied to every solver after the rule.
	Options []Option
}

// Bench plays every secret of the configured space, in parallel, and
// aggregates the round counts. A failed game is counted, not returned;
// only context cancellation aborts the run.
func Bench(ctx context.Context, o BenchOptions) (BenchReport, error) {
	if o.Rule == nil {
		o.Rule = game.DefaultRule()
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.CodeLength < 1 {
		return BenchReport{}, game.ErrInvalidCodeLength
	}
	if o.AlphabetSize < 1 {
		return BenchReport{}, game.ErrInvalidSymbol
	}

	var secrets []game.Code
	for _, c := range game.Universe(game.NewAlphabet(o.AlphabetSize), o.CodeLength).Codes() {
		if o.Distinct && c.HasRepeats() {
			continue
		}
		secrets = append(secrets, c)
	}

	opts := append([]Option{WithRule(o.Rule)}, o.Options...)
	started := time.Now()
	outcomes := make([]Outcome, len(secrets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers)
	for i, secret := range secrets {
		g.Go(func() error {
			// game failures stay in out.Err
			out, _ := SolveSecret(gctx, o.AlphabetSize, secret, opts...)
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = out
			if o.OnGame != nil {
				o.OnGame(secret, out)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BenchReport{}, err
	}

	rep := BenchReport{Rule: o.Rule.Name(), Games: len(secrets), Histogram: map[int]int{}, Elapsed: time.Since(started)}
	total := 0
	for i, out := range outcomes {
		if !out.Solved {
			rep.Failed++
			continue
		}
		n := len(out.Rounds)
		rep.Solved++
		rep.Histogram[n]++
		total += n
		if n > rep.MaxRounds {
			rep.MaxRounds = n
			rep.Worst = secrets[i]
		}
	}
	if rep.Solved > 0 {
		rep.AvgRounds = float64(total) / float64(rep.Solved)
	}
	return rep, nil
}
