// Command sacr parses SACR coreference annotations and manages a corpus
// store of annotated documents.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	sacr "github.com/jamesainslie/go-sacr"
	"github.com/jamesainslie/go-sacr/internal/config"
	"github.com/jamesainslie/go-sacr/internal/store"
	"github.com/jamesainslie/go-sacr/segment"
)

const (
	defaultConfigFile = "sacr.toml"
	defaultEnvFile    = ".env"
)

var rootCmd = &cobra.Command{
	Use:           "sacr",
	Short:         "SACR coreference annotation toolkit",
	Long:          `sacr parses {Label:prop="Class" text} annotations into mentions and stores annotated corpora`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(sentencesCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(versionCmd)

	addGlobalFlags(rootCmd)
}

// addGlobalFlags registers the settings every subcommand can override.
func addGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default ./"+defaultConfigFile+" if present)")
	flags.String("env-file", "", "dotenv file (default ./"+defaultEnvFile+" if present)")
	flags.String("db", "", "SQLite database path")
	flags.BoolP("verbose", "v", false, "log at debug level")
	flags.Int("jobs", 0, "parallel workers")
	flags.String("splitter", "", "sentence splitter (rules|neural)")
	flags.String("model", "", "SaT ONNX model for the neural splitter")
	flags.String("tokenizer", "", "SentencePiece model for the neural splitter")
	flags.Float32("threshold", 0, "neural splitter boundary threshold")
	flags.String("color", "auto", "colorize output (auto|on|off)")
}

func main() {
	rootCmd.Version = Version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration for cmd: files and environment first,
// then any flag the user set. Validation runs once, after the flags, so a
// flag can repair a setting the file left incomplete.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	if path == "" && fileExists(defaultConfigFile) {
		path = defaultConfigFile
	}
	envFile, _ := flags.GetString("env-file")
	if envFile == "" && fileExists(defaultEnvFile) {
		envFile = defaultEnvFile
	}

	cfg, err := config.Load(path, envFile)
	if err != nil {
		return config.Config{}, err
	}

	if flags.Changed("db") {
		cfg.Database, _ = flags.GetString("db")
	}
	if flags.Changed("jobs") {
		cfg.Jobs, _ = flags.GetInt("jobs")
	}
	if v, _ := flags.GetBool("verbose"); v {
		cfg.LogLevel = "debug"
	}
	if flags.Changed("splitter") {
		cfg.Splitter.Kind, _ = flags.GetString("splitter")
	}
	if flags.Changed("model") {
		cfg.Splitter.Model, _ = flags.GetString("model")
	}
	if flags.Changed("tokenizer") {
		cfg.Splitter.Tokenizer, _ = flags.GetString("tokenizer")
	}
	if flags.Changed("threshold") {
		cfg.Splitter.Threshold, _ = flags.GetFloat32("threshold")
	}
	if flags.Lookup("format") != nil && flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}

	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) *slog.Logger {
	level, err := cfg.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newSplitter(cfg config.Config, logger *slog.Logger) (segment.Splitter, error) {
	if cfg.Splitter.Kind != config.SplitterNeural {
		return segment.NewRules(), nil
	}
	return segment.NewNeural(cfg.Splitter.Model, cfg.Splitter.Tokenizer,
		segment.WithThreshold(cfg.Splitter.Threshold),
		segment.WithPoolSize(cfg.Splitter.PoolSize),
		segment.WithLogger(logger),
	)
}

// setup loads configuration and builds an annotator. The caller must Close it.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, *sacr.Annotator, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	logger := newLogger(cfg)
	configureColor(cmd)

	splitter, err := newSplitter(cfg, logger)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("creating splitter: %w", err)
	}

	return cfg, logger, sacr.New(
		sacr.WithSplitter(splitter),
		sacr.WithLogger(logger),
	), nil
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	configureColor(cmd)
	return store.New(cfg.Database)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
