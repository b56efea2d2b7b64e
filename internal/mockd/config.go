package mockd

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses YAML values like "12h" or "90s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	dur, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("mockd: bad duration %q: %w", value.Value, err)
	}
	*d = Duration(dur)
	return nil
}

// Config is the mock backend configuration, loaded from YAML.
type Config struct {
	Addr      string   `yaml:"addr"`
	DBPath    string   `yaml:"db_path"`
	JWTSecret string   `yaml:"jwt_secret"`
	TokenTTL  Duration `yaml:"token_ttl"`
	SeedDir   string   `yaml:"seed_dir"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Addr:      ":8791",
		DBPath:    "lanfinitas-mock.db",
		JWTSecret: "demo-secret-not-for-production",
		TokenTTL:  Duration(12 * time.Hour),
	}
}

// LoadConfig reads a YAML config file, filling unset fields with defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("mockd: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("mockd: parse config: %w", err)
	}

	if cfg.Addr == "" {
		cfg.Addr = DefaultConfig().Addr
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultConfig().TokenTTL
	}
	return cfg, nil
}
