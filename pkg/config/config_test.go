package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, SchemaVersion, cfg.Version)
	assert.True(t, cfg.DrawableOutputsEnabled())
	assert.Equal(t, 8, cfg.PoolSize())
	assert.Equal(t, 1, cfg.Layout.Workers)
	assert.Equal(t, "mountgraph", cfg.Metrics.Namespace)
	require.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
version: v1.0.0
tree:
  logTag: feed
  drawableOutputs: false
mount:
  incremental: true
  poolSize: 0
layout:
  workers: 4
metrics:
  enabled: true
  namespace: app
log:
  verbosity: 2
`))
	require.NoError(t, err)
	assert.Equal(t, "feed", cfg.Tree.LogTag)
	assert.False(t, cfg.DrawableOutputsEnabled())
	assert.True(t, cfg.Mount.Incremental)
	assert.Equal(t, 0, cfg.PoolSize())
	assert.Equal(t, 4, cfg.Layout.Workers)
	assert.Equal(t, 16, cfg.Layout.Queue)
	assert.Equal(t, "app", cfg.Metrics.Namespace)
	assert.True(t, cfg.Logger().V(2).Enabled())
	assert.False(t, cfg.Logger().V(3).Enabled())
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not semver", "version: latest"},
		{"other major", "version: v2.0.0"},
		{"too new", "version: v1.9.0"},
		{"negative workers", "layout:\n  workers: -1"},
		{"bad namespace", "metrics:\n  namespace: My-App"},
		{"bad yaml", "tree: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOptional(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("tree:\n  logTag: x\n"), 0o644))
	cfg, err = LoadOptional(dir)
	require.NoError(t, err)
	assert.Equal(t, "x", cfg.Tree.LogTag)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
