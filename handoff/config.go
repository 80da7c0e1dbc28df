package handoff

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pausepoint/handoff/codec"
	"github.com/pausepoint/handoff/transport"
)

// Config holds initialization parameters for an activation's driver.
type Config struct {
	Codec     string           `json:"codec,omitempty"` // Codec name for the object-convenience layer.
	Transport transport.Config `json:"transport"`
}

// DefaultConfig returns a Config with the JSON codec and in-memory transport.
func DefaultConfig() Config {
	return Config{
		Codec:     codec.NameJSON,
		Transport: transport.DefaultConfig(),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	if source.Codec != "" {
		c.Codec = source.Codec
	}
	c.Transport.Merge(&source.Transport)
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
