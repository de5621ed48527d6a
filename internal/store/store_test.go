package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "edugen.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	db := openTestStore(t).DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}
	for _, tt := range tests {
		var got string
		require.NoError(t, db.QueryRow("PRAGMA "+tt.pragma).Scan(&got), tt.pragma)
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edugen.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestSequenceCounter_Monotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var last int64
	for range 5 {
		n, err := s.seq.Next(ctx)
		require.NoError(t, err)
		assert.Greater(t, n, last)
		last = n
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(dir, "custom", "quiz.db")
		t.Setenv("EDUGEN_DB", want)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.DirExists(t, filepath.Dir(want))
	})

	t.Run("xdg data home", func(t *testing.T) {
		t.Setenv("EDUGEN_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "edugen", "edugen.db"), got)
	})
}
