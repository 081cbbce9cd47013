package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabonline/boot/app"
)

func TestProviderRegistersConfigService(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server:\n  addr: \":8000\"\n"), 0o644))

	cfg, err := New(WithPath(dir), WithName("config.yaml"))
	require.NoError(t, err)

	provider := NewProvider(cfg)
	assert.Equal(t, "config", provider.Name())
	assert.Empty(t, provider.Dependencies())

	a := app.New(app.WithProviders(provider))
	require.NoError(t, a.Start(context.Background()))
	defer a.Shutdown(context.Background())

	resolved, err := a.Container().Resolve(ProviderName)
	require.NoError(t, err)
	assert.Same(t, cfg, resolved)
	assert.Equal(t, ":8000", cfg.GetViper().GetString("server.addr"))
}

func TestProviderBootFailsWhenFileMissing(t *testing.T) {
	cfg, err := New(WithPath(t.TempDir()), WithName("missing.yaml"))
	require.NoError(t, err)

	a := app.New(app.WithProviders(NewProvider(cfg)))
	assert.Error(t, a.Start(context.Background()))
}
