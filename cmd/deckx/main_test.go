package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSetupOverrides(t *testing.T) {
	setup, err := loadSetup("", "smithy,engine", "Smithy,Laboratory", 12)
	require.NoError(t, err)
	assert.Equal(t, []string{"smithy", "engine"}, setup.Policies)
	assert.Equal(t, int64(12), setup.Seed)
	assert.Len(t, setup.Supply, 8)

	_, err = loadSetup("", "smithy", "", 0)
	assert.Error(t, err)
}

func TestRunPlayPrintsResult(t *testing.T) {
	var out bytes.Buffer
	err := runPlay(context.Background(), []string{"--policies", "big-money,passive", "--seed", "4"}, strings.NewReader(""), &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "=== Turn 1 (P1: Alice) ===")
	assert.Contains(t, text, "Winner: Alice")
	assert.True(t, strings.HasSuffix(text, "\n"))
}

func TestRunPlayHumanSeat(t *testing.T) {
	var out bytes.Buffer
	input := strings.NewReader(strings.Repeat("0\n", 10))
	err := runPlay(context.Background(), []string{"--policies", "passive,passive", "--human", "1", "--seed", "4"}, input, &out)
	// Ten declines, then the input runs out.
	require.Error(t, err)
	assert.Contains(t, out.String(), "Buy a card")
	assert.Contains(t, out.String(), "P2 cleans up")
}

func TestRunSimPrintsSummary(t *testing.T) {
	var out bytes.Buffer
	err := runSim(context.Background(), []string{"--policies", "big-money,passive", "--games", "5", "--seed", "2"}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "5 games")
	assert.Contains(t, out.String(), "wins     5 (100.0%)")
}
