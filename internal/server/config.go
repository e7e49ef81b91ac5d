package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/erp-engines/internal/config"
	"github.com/iwvelando/erp-engines/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address     string               `yaml:"address"`
	MaxBodySize string               `yaml:"maxBodySize"`
	Version     string               `yaml:"version"`
	Logging     config.LoggingConfig `yaml:"logging"`

	maxBodyBytes int64
}

// LoadConfig loads the server configuration from YAML. A missing file yields
// the defaults without error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Address:      constants.DefaultServerAddress,
		maxBodyBytes: constants.DefaultMaxBodySizeBytes,
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MaxBodyBytes returns the request body limit in bytes.
func (c *Config) MaxBodyBytes() int64 {
	return c.maxBodyBytes
}

func (c *Config) normalize() error {
	if strings.TrimSpace(c.Address) == "" {
		c.Address = constants.DefaultServerAddress
	}

	size, err := ParseSize(c.MaxBodySize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxBodySizeBytes
	}
	c.maxBodyBytes = size
	return nil
}

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
}

// ParseSize converts a byte size such as "256K" or "1MB" into bytes. An empty
// value yields the default body limit.
func ParseSize(value string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	digits := strings.TrimRightFunc(trimmed, func(r rune) bool { return r < '0' || r > '9' })
	unit := strings.TrimSpace(trimmed[len(digits):])
	if digits == "" {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	multiplier, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q", unit)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(digits), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	if n > (1<<62)/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
