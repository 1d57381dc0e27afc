package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")

	log, flush, err := New(Options{File: path, Level: "info"})
	require.NoError(t, err)
	log.Named("decoder").Infow("stale reference", "entityID", 7)
	log.Debugw("filtered")
	flush()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "stale reference")
	assert.Contains(t, string(data), "decoder")
	assert.Contains(t, string(data), "entityID")
	assert.NotContains(t, string(data), "filtered")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := Nop()
	assert.Same(t, l, OrNop(l))
}
