package solver

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/internal/game"
)

func TestBenchSmallSpace(t *testing.T) {
	var calls atomic.Int64
	rep, err := Bench(context.Background(), BenchOptions{
		AlphabetSize: 3,
		CodeLength:   2,
		Workers:      2,
		OnGame:       func(game.Code, Outcome) { calls.Add(1) },
		Options:      []Option{quiet()},
	})
	require.NoError(t, err)
	assert.Equal(t, 9, rep.Games)
	assert.Equal(t, 9, rep.Solved)
	assert.Zero(t, rep.Failed)
	assert.EqualValues(t, 9, calls.Load())
	assert.Equal(t, game.RuleSimplified, rep.Rule)

	sum := 0
	for rounds, n := range rep.Histogram {
		assert.LessOrEqual(t, rounds, rep.MaxRounds)
		sum += n
	}
	assert.Equal(t, 9, sum)
	assert.Len(t, rep.Worst, 2)
	// (1,2) is the opening itself
	assert.Equal(t, 1, rep.Histogram[1])
}

func TestBenchDistinct(t *testing.T) {
	rep, err := Bench(context.Background(), BenchOptions{AlphabetSize: 4, CodeLength: 3, Distinct: true, Options: []Option{quiet()}})
	require.NoError(t, err)
	assert.Equal(t, 24, rep.Games)
	assert.Equal(t, 24, rep.Solved)
	assert.False(t, rep.Worst.HasRepeats())
}

func TestBenchClassicSpace(t *testing.T) {
	if testing.Short() {
		t.Skip("plays all 1296 secrets")
	}
	rep, err := Bench(context.Background(), BenchOptions{AlphabetSize: 6, CodeLength: 4, Rule: game.Canonical{}, Options: []Option{quiet()}})
	require.NoError(t, err)
	assert.Equal(t, 1296, rep.Games)
	assert.Equal(t, 1296, rep.Solved)
	assert.LessOrEqual(t, rep.MaxRounds, 9)
	assert.Greater(t, rep.AvgRounds, 1.0)
}

func TestBenchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Bench(ctx, BenchOptions{AlphabetSize: 6, CodeLength: 4})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBenchRejectsBadDimensions(t *testing.T) {
	_, err := Bench(context.Background(), BenchOptions{AlphabetSize: 6})
	assert.ErrorIs(t, err, game.ErrInvalidCodeLength)
}
