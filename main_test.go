package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("LOG_LEVEL", "disabled")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestSolveCommand(t *testing.T) {
	out := run(t, "solve", "3142", "--alphabet", "6", "--rule", "simplified")
	assert.Contains(t, out, "secret (3,1,4,2) (simplified rule)")
	assert.Contains(t, out, " 1  (1,1,2,2)  (2,2)  remaining 101")
	assert.Contains(t, out, " 2  (1,1,2,2)  (2,2)  remaining 100")
	assert.Contains(t, out, " 6  (3,1,4,2)  (4,0)")
	assert.Contains(t, out, "won in 6 moves")
}

func TestSolveRejectsForeignSymbol(t *testing.T) {
	t.Setenv("LOG_LEVEL", "disabled")
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"solve", "3172", "--alphabet", "6"})
	assert.Error(t, rootCmd.Execute())
}

func TestBenchCommand(t *testing.T) {
	out := run(t, "bench", "--alphabet", "3", "--length", "2", "--all-rules")
	assert.Contains(t, out, "simplified: 9 games, 9 solved, 0 failed")
	assert.Contains(t, out, "canonical: 9 games, 9 solved, 0 failed")
	assert.Contains(t, out, "   1 rounds: 1")
}
