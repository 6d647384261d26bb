package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "predictors "+version+" (CPU, popcount ")
}

func TestXOR(t *testing.T) {
	out, _, err := run(t, "xor", "--workers", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "0 xor 0 -> 0.000")
	assert.Contains(t, out, "0 xor 1 -> 1.000")
	assert.Contains(t, out, "1 xor 0 -> 1.000")
	assert.Contains(t, out, "1 xor 1 -> 0.000")
}

func TestConvCheck(t *testing.T) {
	out, _, err := run(t, "conv-check", "--channels", "70", "--filters", "3", "--rows", "9", "--cols", "7", "--stride", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "output shape:                (5, 4, 3)")

	_, _, err = run(t, "conv-check", "--filters", "0")
	assert.Error(t, err)
}

func TestForest(t *testing.T) {
	out, _, err := run(t, "forest")
	require.NoError(t, err)
	assert.Contains(t, out, "trees=2 interior=4 edges=8")
	assert.Contains(t, out, "[0.25 0.7 0] -> 4 edges=10010001")
}

func TestLogLevel(t *testing.T) {
	_, stderr, err := run(t, "--log-level", "debug", "version")
	require.NoError(t, err)
	assert.Contains(t, stderr, "starting")

	_, _, err = run(t, "--log-level", "loud", "version")
	assert.Error(t, err)
}
