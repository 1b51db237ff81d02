// Package config loads the optional YAML config file holding machine-local
// settings: where the engine binary lives, how many resources it may use and
// where book files are kept.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Engine struct {
	Path    string `yaml:"path"`
	Threads int    `yaml:"threads"`
	Hash    int    `yaml:"hash"`
}

type Config struct {
	Engine       Engine `yaml:"engine"`
	BooksDir     string `yaml:"books_dir"`
	TablebaseURL string `yaml:"tablebase_url"`
}

// Default is the configuration used when no file is present.
func Default() Config {
	return Config{
		Engine: Engine{
			Path:    "stockfish",
			Threads: 1,
			Hash:    256,
		},
		BooksDir:     "books",
		TablebaseURL: "https://tablebase.lichess.ovh",
	}
}

// Load reads a YAML config file and fills unset fields with defaults.
func Load(filename string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("'%s': %w", filename, err)
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("'%s': %w", filename, err)
	}

	if cfg.Engine.Path == "" {
		cfg.Engine.Path = "stockfish"
	}
	if cfg.Engine.Threads <= 0 {
		cfg.Engine.Threads = 1
	}
	if cfg.Engine.Hash <= 0 {
		cfg.Engine.Hash = 256
	}
	if cfg.BooksDir == "" {
		cfg.BooksDir = "books"
	}
	if cfg.TablebaseURL == "" {
		cfg.TablebaseURL = "https://tablebase.lichess.ovh"
	}

	return cfg, nil
}
