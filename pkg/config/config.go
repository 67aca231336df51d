package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/turnexec/pkg/dotdir"
)

const (
	configFile = "config.toml"

	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0

	maxTimeoutSeconds = math.MaxInt64 / int64(time.Second)
)

type Configer struct {
	ddm        *dotdir.Manager
	override   string
	targetPath string
}

func NewConfiger(override string) (*Configer, error) {
	cfger := &Configer{override: override}

	cfger.ddm = dotdir.NewManager()
	target, err := cfger.ddm.Target(override)
	if err != nil {
		return nil, err
	}

	// If no .turnexec/ directory was resolved, targetPath stays empty;
	// LoadConfig returns defaults and SaveConfig creates ~/.turnexec/.
	if target == "" {
		return cfger, nil
	}

	path := filepath.Join(target, configFile)
	_, err = os.Stat(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Always set targetPath when the directory exists so SaveConfig
	// can create or overwrite the file.
	cfger.targetPath = path

	return cfger, nil
}

// ValidConfigKeys returns the sorted list of all supported configuration key names.
func ValidConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}

	// Return in a stable, logical order matching the TOML section layout.
	ordered := []string{
		"dataset.input",
		"dataset.output",
		"executor.backend",
		"executor.shell",
		"executor.timeout",
		"checkpoint.every",
		"progress.preview_length",
		"journal.sqlite_path",
		"events.kafka_brokers",
		"events.kafka_topic",
	}

	// Sanity: only return keys that actually exist in the map.
	result := make([]string, 0, len(ordered))
	for _, k := range ordered {
		if _, ok := configKeys[k]; ok {
			result = append(result, k)
		}
	}

	// Append any keys in the map that we missed in the ordered list.
	seen := make(map[string]bool, len(result))
	for _, k := range result {
		seen[k] = true
	}
	for _, k := range keys {
		if !seen[k] {
			result = append(result, k)
		}
	}

	return result
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

func (c *Configer) GetTarget() string {
	return c.targetPath
}

// LoadConfig loads the configuration from config.toml in the target .turnexec/ directory.
// If the file does not exist, returns DefaultConfig() so callers always receive
// a fully-populated Config with sane defaults. Fields explicitly set in the file
// override the defaults.
// If overrideDir is non-empty, it is used instead of the default .turnexec/ location.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.targetPath == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}

	// Merge in defaults: fill in any zero-value fields from the loaded config
	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills zero-value fields in cfg with values from DefaultConfig().
func applyDefaults(cfg *Config) {
	defaults := NewDefaultConfig()

	if cfg.Version == 0 {
		cfg.Version = defaults.Version
	}

	if cfg.Dataset.Input == "" {
		cfg.Dataset.Input = defaults.Dataset.Input
	}
	if cfg.Dataset.Output == "" {
		cfg.Dataset.Output = defaults.Dataset.Output
	}

	if cfg.Executor.Backend == "" {
		cfg.Executor.Backend = defaults.Executor.Backend
	}
	if cfg.Executor.Shell == "" {
		cfg.Executor.Shell = defaults.Executor.Shell
	}
	if cfg.Executor.Timeout == 0 {
		cfg.Executor.Timeout = defaults.Executor.Timeout
	}

	if cfg.Checkpoint.Every == 0 {
		cfg.Checkpoint.Every = defaults.Checkpoint.Every
	}

	if cfg.Progress.PreviewLength == 0 {
		cfg.Progress.PreviewLength = defaults.Progress.PreviewLength
	}

	if cfg.Events.KafkaTopic == "" {
		cfg.Events.KafkaTopic = defaults.Events.KafkaTopic
	}
}

// SaveConfig persists the configuration to config.toml in the target .turnexec/ directory.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}

	if c.targetPath == "" {
		dir, err := c.ddm.Ensure(c.override)
		if err != nil {
			return err
		}
		c.targetPath = filepath.Join(dir, configFile)
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetConfigValue loads the config, sets the given key to the given value, and saves it.
// Returns an error if the key is not a valid config key.
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	if err := info.set(cfg, value); err != nil {
		return err
	}

	return c.SaveConfig(cfg)
}

// GetConfigValue loads the config and returns the string representation of the given key.
// Returns an error if the key is not a valid config key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}

	return info.get(cfg), nil
}

// ParseConfigTOML parses raw TOML bytes into a Config.
// Returns an error if the version field is present and not equal to CurrentConfigVersion.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return cfg, nil
}

// Validate reports configuration values turnexec cannot run with.
func (c *Config) Validate() error {
	switch c.Executor.Backend {
	case "exec", "interp":
	default:
		return fmt.Errorf("unknown executor backend %q (available: exec, interp)", c.Executor.Backend)
	}

	if c.Executor.Timeout <= 0 {
		return fmt.Errorf("executor timeout must be positive, got %d", c.Executor.Timeout)
	}
	if int64(c.Executor.Timeout) > maxTimeoutSeconds {
		return fmt.Errorf("executor timeout must not exceed %d seconds, got %d", maxTimeoutSeconds, c.Executor.Timeout)
	}
	if c.Checkpoint.Every <= 0 {
		return fmt.Errorf("checkpoint cadence must be positive, got %d", c.Checkpoint.Every)
	}
	if c.Progress.PreviewLength <= 0 {
		return fmt.Errorf("preview length must be positive, got %d", c.Progress.PreviewLength)
	}

	return nil
}
