// Package config loads settings for the sacr command from a TOML file, a
// .env file and SACR_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jamesainslie/go-sacr/internal/export"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// Splitter kinds.
const (
	SplitterRules  = "rules"
	SplitterNeural = "neural"
)

// Config holds command settings.
type Config struct {
	Database string   `toml:"database"`
	LogLevel string   `toml:"log_level"`
	Jobs     int      `toml:"jobs"`
	Format   string   `toml:"format"`
	Splitter Splitter `toml:"splitter"`
}

// Splitter selects and configures sentence splitting.
type Splitter struct {
	Kind      string  `toml:"kind"`
	Model     string  `toml:"model"`
	Tokenizer string  `toml:"tokenizer"`
	Threshold float32 `toml:"threshold"`
	PoolSize  int     `toml:"pool_size"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: "sacr.db",
		LogLevel: "info",
		Jobs:     runtime.NumCPU(),
		Format:   string(export.JSONL),
		Splitter: Splitter{
			Kind:      SplitterRules,
			Threshold: 0.025,
			PoolSize:  runtime.NumCPU(),
		},
	}
}

// Load starts from Default, then applies the TOML file at path, the dotenv
// file at envFile, and the process environment. Empty paths are skipped.
// Values from envFile never override variables already set in the process.
// The result is not validated; callers apply their own overrides first and
// then call Validate.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
	}

	env := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		if err != nil {
			return Config{}, fmt.Errorf("%s: failed to read env file: %w", envFile, err)
		}
		env = vars
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"SACR_DATABASE":  &c.Database,
		"SACR_LOG_LEVEL": &c.LogLevel,
		"SACR_FORMAT":    &c.Format,
		"SACR_SPLITTER":  &c.Splitter.Kind,
		"SACR_MODEL":     &c.Splitter.Model,
		"SACR_TOKENIZER": &c.Splitter.Tokenizer,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"SACR_JOBS":      &c.Jobs,
		"SACR_POOL_SIZE": &c.Splitter.PoolSize,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}

	if v, ok := lookup("SACR_THRESHOLD"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
		if err != nil {
			return fmt.Errorf("SACR_THRESHOLD: %w", err)
		}
		c.Splitter.Threshold = float32(f)
	}

	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return fmt.Errorf("%w: database path is empty", ErrInvalid)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("%w: jobs must be at least 1, got %d", ErrInvalid, c.Jobs)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := export.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	switch c.Splitter.Kind {
	case SplitterRules:
	case SplitterNeural:
		if c.Splitter.Model == "" || c.Splitter.Tokenizer == "" {
			return fmt.Errorf("%w: neural splitter needs model and tokenizer paths", ErrInvalid)
		}
		if c.Splitter.Threshold <= 0 || c.Splitter.Threshold >= 1 {
			return fmt.Errorf("%w: threshold must be in (0, 1), got %g", ErrInvalid, c.Splitter.Threshold)
		}
		if c.Splitter.PoolSize < 1 {
			return fmt.Errorf("%w: pool_size must be at least 1, got %d", ErrInvalid, c.Splitter.PoolSize)
		}
	default:
		return fmt.Errorf("%w: unknown splitter %q", ErrInvalid, c.Splitter.Kind)
	}

	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, err
	}
	return l, nil
}
