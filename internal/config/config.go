// Package config loads homeinv settings.
//
// Layers, lowest precedence first:
//
//	defaults
//	YAML file (--config)
//	.env file
//	environment (HOMEINV_DB, HOMEINV_FORMAT, HOMEINV_LOG_LEVEL)
//
// Command-line flags are applied by the caller on top of the result, which
// then calls Validate again.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Environment variable names.
const (
	EnvDatabase = "HOMEINV_DB"
	EnvFormat   = "HOMEINV_FORMAT"
	EnvLogLevel = "HOMEINV_LOG_LEVEL"
)

// DefaultEnvFile is read when LoadOptions.EnvFile is empty.
const DefaultEnvFile = ".env"

// Config holds the resolved settings.
type Config struct {
	Database string `yaml:"database" json:"database"`
	Format   string `yaml:"format" json:"format"`
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database: "inventory.db",
		Format:   "text",
		LogLevel: "info",
	}
}

// LoadOptions selects the sources Load reads.
type LoadOptions struct {
	// Path is the YAML config file. Empty skips the file layer.
	Path string

	// EnvFile is the dotenv file. Empty means DefaultEnvFile. A missing
	// file is not an error.
	EnvFile string

	// Getenv reads the process environment. Defaults to os.Getenv.
	Getenv func(string) string
}

// Load resolves the config layers and validates the result.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	if opts.Path != "" {
		if err := cfg.mergeFile(opts.Path); err != nil {
			return Config{}, err
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read %s: %w", envFile, err)
	}
	cfg.mergeEnv(func(key string) string { return dotenv[key] })

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg.mergeEnv(getenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeFile overlays the non-empty fields of a YAML file. Unknown keys are
// rejected.
func (c *Config) mergeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	var file Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.overlay(file)
	return nil
}

func (c *Config) mergeEnv(getenv func(string) string) {
	c.overlay(Config{
		Database: getenv(EnvDatabase),
		Format:   getenv(EnvFormat),
		LogLevel: getenv(EnvLogLevel),
	})
}

// overlay copies every non-empty field of o onto c.
func (c *Config) overlay(o Config) {
	if o.Database != "" {
		c.Database = o.Database
	}
	if o.Format != "" {
		c.Format = strings.ToLower(o.Format)
	}
	if o.LogLevel != "" {
		c.LogLevel = strings.ToLower(o.LogLevel)
	}
}

// Validate checks c against the CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := def.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// ValidationError reports a config that does not satisfy the schema.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// SlogLevel maps LogLevel onto a slog level. Unknown values map to Info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
