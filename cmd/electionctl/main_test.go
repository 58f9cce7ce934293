package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	root := rootCmd()
	for _, path := range [][]string{
		{"phase", "current"},
		{"phase", "advance"},
		{"phase", "set"},
		{"phase", "log"},
		{"tally"},
		{"reset"},
		{"roles", "grant"},
		{"roles", "revoke"},
		{"roles", "list"},
		{"migrate"},
		{"students", "import"},
	} {
		found, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name(), path)
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	root := rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"reset", "--admin", "admin-1"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}

func TestPhaseSetRejectsNonNumericPhase(t *testing.T) {
	root := rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"phase", "set", "voting"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phase must be a number")
}

func TestExpiry(t *testing.T) {
	assert.Equal(t, "never", expiry(nil))
	past := time.Now().Add(-3 * time.Hour)
	assert.Contains(t, expiry(&past), "ago")
}
