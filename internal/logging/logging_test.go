package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "planbook.log")

	l, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)

	l.Info("plan accepted", "week", 3)
	l.With("component", "test").Debug("detail")
	l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "plan accepted")
	assert.Contains(t, string(data), `"week":3`)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop()
	l.Info("ignored", "k", "v")
	l.Error("ignored")
	l.Sync()
}
