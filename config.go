package memopt

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/romanmarkunas-com/0010-memory-optimization/internal/pool"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/slab"
)

// Config is the file form of the Store options.
type Config struct {
	MemoryLimitBytes    int64 `yaml:"memory_limit_bytes"`
	InitialPoolCapacity int   `yaml:"initial_pool_capacity"`
	SlabSizeBytes       int   `yaml:"slab_size_bytes"`
	OffHeap             bool  `yaml:"off_heap"`
	CompactPostCodes    bool  `yaml:"compact_post_codes"`

	// Hasher is one of xxhash, crc32c or polynomial.
	Hasher string `yaml:"hasher"`

	// LogLevel is a slog level name. LogFormat is text or json.
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// DefaultConfig returns the configuration New uses without options.
func DefaultConfig() Config {
	return Config{
		InitialPoolCapacity: pool.DefaultInitialCapacity,
		SlabSizeBytes:       slab.DefaultSlabSize,
		Hasher:              "xxhash",
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

// FillDefaults replaces zero values with defaults.
func (c *Config) FillDefaults() {
	d := DefaultConfig()
	if c.InitialPoolCapacity <= 0 {
		c.InitialPoolCapacity = d.InitialPoolCapacity
	}
	if c.SlabSizeBytes <= 0 {
		c.SlabSizeBytes = d.SlabSizeBytes
	}
	if c.Hasher == "" {
		c.Hasher = d.Hasher
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}
}

// LoadConfig reads a YAML configuration file and fills defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration and fills defaults.
func ParseConfig(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	c.FillDefaults()
	if _, err := parseHasher(c.Hasher); err != nil {
		return Config{}, err
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return Config{}, err
	}
	if _, err := parseFormat(c.LogFormat); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Options converts the configuration into Store options.
func (c Config) Options() ([]Option, error) {
	c.FillDefaults()
	h, err := parseHasher(c.Hasher)
	if err != nil {
		return nil, err
	}
	logger, err := c.Logger()
	if err != nil {
		return nil, err
	}

	return []Option{
		WithMemoryLimit(c.MemoryLimitBytes),
		WithInitialPoolCapacity(c.InitialPoolCapacity),
		WithSlabSize(c.SlabSizeBytes),
		WithOffHeap(c.OffHeap),
		WithHasher(h),
		WithCompactPostCodes(c.CompactPostCodes),
		WithLogger(logger),
	}, nil
}

// Logger creates the logger described by LogLevel and LogFormat.
func (c Config) Logger() (*Logger, error) {
	c.FillDefaults()
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := parseFormat(c.LogFormat)
	if err != nil {
		return nil, err
	}
	if format == "json" {
		return NewJSONLogger(level), nil
	}
	return NewTextLogger(level), nil
}

func parseFormat(s string) (string, error) {
	switch f := strings.ToLower(s); f {
	case "", "text":
		return "text", nil
	case "json":
		return f, nil
	default:
		return "", fmt.Errorf("unknown log format %q", s)
	}
}

func parseHasher(s string) (Hasher, error) {
	switch strings.ToLower(s) {
	case "", "xxhash":
		return HasherXXHash, nil
	case "crc32c":
		return HasherCRC32C, nil
	case "polynomial":
		return HasherPolynomial, nil
	default:
		return 0, fmt.Errorf("unknown hasher %q", s)
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q: %w", s, err)
	}
	return level, nil
}
