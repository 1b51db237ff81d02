package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
engine:
  path: /usr/local/bin/stockfish
  threads: 4
  hash: 1024
books_dir: /opt/books
tablebase_url: http://localhost:9000
`))
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/stockfish", cfg.Engine.Path)
	assert.Equal(t, 4, cfg.Engine.Threads)
	assert.Equal(t, 1024, cfg.Engine.Hash)
	assert.Equal(t, "/opt/books", cfg.BooksDir)
	assert.Equal(t, "http://localhost:9000", cfg.TablebaseURL)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
engine:
  path: /usr/games/stockfish
`))
	require.NoError(t, err)

	assert.Equal(t, "/usr/games/stockfish", cfg.Engine.Path)
	assert.Equal(t, 1, cfg.Engine.Threads)
	assert.Equal(t, 256, cfg.Engine.Hash)
	assert.Equal(t, "books", cfg.BooksDir)
	assert.Equal(t, "https://tablebase.lichess.ovh", cfg.TablebaseURL)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "engine: [unbalanced"))
	assert.Error(t, err)
}

func TestLoad_NegativeValuesBackfilled(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
engine:
  threads: -2
  hash: 0
`))
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Engine.Threads)
	assert.Equal(t, 256, cfg.Engine.Hash)
}
