package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/floating-particles/internal/render"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, Particles{Count: 50, Color: "blue", Connections: true}, cfg.Particles)
	assert.Equal(t, WindowWidth, cfg.Window.Width)
	assert.Equal(t, WindowHeight, cfg.Window.Height)
	require.NoError(t, cfg.Validate())
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("particles:\n  count: 30\n  color: purple\n"))
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Particles.Count)
	assert.Equal(t, "purple", cfg.Particles.Color)
	assert.True(t, cfg.Particles.Connections)
	assert.Equal(t, WindowTitle, cfg.Window.Title)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{"Negative count", "particles: {count: -1}", ErrInvalidCount},
		{"Huge count", "particles: {count: 5000}", ErrInvalidCount},
		{"Unknown color", "particles: {color: blurple}", render.ErrUnknownColor},
		{"Zero window", "window: {width: 0}", ErrInvalidWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := Parse([]byte("particles: [not, a, map]"))
	assert.Error(t, err)
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Particles.Count = -5
	cfg.Window.Height = 0

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidCount)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "particles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("particles:\n  connections: false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Particles.Connections)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "particles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("particles: {count: 10}\n"), 0o644))

	got := make(chan Config, 4)
	w, err := NewWatcher(nil, path, 20*time.Millisecond, func(c Config) { got <- c })
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(path, []byte("particles: {count: 20, color: green}\n"), 0o644))

	select {
	case cfg := <-got:
		assert.Equal(t, 20, cfg.Particles.Count)
		assert.Equal(t, "green", cfg.Particles.Color)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}
}

func TestWatcherSkipsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "particles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("particles: {count: 10}\n"), 0o644))

	got := make(chan Config, 4)
	w, err := NewWatcher(nil, path, 20*time.Millisecond, func(c Config) { got <- c })
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(path, []byte("particles: {count: -3}\n"), 0o644))

	select {
	case cfg := <-got:
		t.Fatalf("unexpected reload: %+v", cfg)
	case <-time.After(300 * time.Millisecond):
	}
}
