package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"input_dir": "/captures",
		"max_dimension": 1200,
		"format": "jpeg"
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/captures", cfg.InputDir)
	assert.Equal(t, 1200, cfg.MaxDimension)

	cfg.Resolve(Flags{MaxDim: 800, Workers: 3})
	assert.Equal(t, 800, cfg.MaxDimension) // flag wins
	assert.Equal(t, "jpeg", cfg.Format)
	assert.Equal(t, "thumbs", cfg.OutputDir)
	assert.Equal(t, 90, cfg.JPEGQuality)
	assert.Equal(t, 3, cfg.Workers)
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})
	assert.Equal(t, 1500, cfg.MaxDimension)
	assert.Equal(t, "webp", cfg.Format)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("/does/not/exist.json")
	assert.Error(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
