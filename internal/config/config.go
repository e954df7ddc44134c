package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/mutagraph"
	"github.com/aretw0/mutagraph/internal/logging"
	"github.com/aretw0/mutagraph/pkg/mutation"
	"github.com/aretw0/mutagraph/pkg/persistence/middleware"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of the mutagraph binary.
type Config struct {
	Size        int      `mapstructure:"size"`
	Seed        uint64   `mapstructure:"seed"`
	Open        *bool    `mapstructure:"open"`
	RetryBudget int      `mapstructure:"retry_budget"`
	Operators   []string `mapstructure:"operators"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	Listen  string        `mapstructure:"listen"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Archive ArchiveConfig `mapstructure:"archive"`
}

// ArchiveConfig seals archived traces when EncryptionKey is set.
// Keys are base64 encoded AES-256 keys.
type ArchiveConfig struct {
	EncryptionKey string   `mapstructure:"encryption_key"`
	FallbackKeys  []string `mapstructure:"fallback_keys"`
}

// RedisConfig enables archiving traces in Redis when Addr is set.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Size:        20,
		RetryBudget: mutation.DefaultRetryBudget,
		LogLevel:    "info",
		LogFormat:   string(logging.FormatText),
		Listen:      ":8080",
	}
}

// Load reads a YAML or JSON file over the defaults.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw := make(map[string]any)
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := Decode(raw, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Decode binds a raw map onto cfg. Unknown keys are rejected and durations
// may be written as strings such as "10m".
func Decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Validate checks values the decoder cannot.
func (c Config) Validate() error {
	if c.Size < 0 {
		return fmt.Errorf("size must not be negative, got %d", c.Size)
	}
	if c.RetryBudget < 0 {
		return fmt.Errorf("retry_budget must not be negative, got %d", c.RetryBudget)
	}
	switch logging.Format(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := c.ParseOperators(); err != nil {
		return err
	}
	if _, err := c.Encryption(); err != nil {
		return err
	}
	return nil
}

// Encryption decodes the archive keys. It returns nil when archives are
// stored in plain text.
func (c Config) Encryption() (*middleware.EncryptionConfig, error) {
	if c.Archive.EncryptionKey == "" {
		if len(c.Archive.FallbackKeys) > 0 {
			return nil, fmt.Errorf("archive.fallback_keys requires archive.encryption_key")
		}
		return nil, nil
	}
	active, err := middleware.ParseKey(c.Archive.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("archive.encryption_key: %w", err)
	}
	enc := &middleware.EncryptionConfig{ActiveKey: active}
	for i, s := range c.Archive.FallbackKeys {
		key, err := middleware.ParseKey(s)
		if err != nil {
			return nil, fmt.Errorf("archive.fallback_keys[%d]: %w", i, err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	return enc, nil
}

// ParseOperators resolves the configured operator names. None means all.
func (c Config) ParseOperators() ([]mutation.Operator, error) {
	ops := make([]mutation.Operator, 0, len(c.Operators))
	for _, name := range c.Operators {
		op, err := mutation.ParseOperator(name)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// GeneratorOptions translates the generation settings.
// A zero seed leaves the seed random.
func (c Config) GeneratorOptions() ([]mutagraph.Option, error) {
	ops, err := c.ParseOperators()
	if err != nil {
		return nil, err
	}

	opts := []mutagraph.Option{mutagraph.WithRetryBudget(c.RetryBudget)}
	if c.Seed != 0 {
		opts = append(opts, mutagraph.WithSeed(c.Seed))
	}
	if c.Open != nil {
		opts = append(opts, mutagraph.WithOpen(*c.Open))
	}
	if len(ops) > 0 {
		opts = append(opts, mutagraph.WithOperators(ops...))
	}
	return opts, nil
}
