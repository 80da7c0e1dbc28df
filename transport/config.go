package transport

// Config holds transport store initialization parameters.
type Config struct {
	Path string `json:"path,omitempty"` // FileStore root directory; empty selects the in-memory store.
}

// DefaultConfig returns the default transport configuration (in-memory).
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Path != "" {
		c.Path = source.Path
	}
}

// NewStore creates a Store from configuration.
func NewStore(cfg *Config) (Store, error) {
	if cfg.Path == "" {
		return NewMemoryStore(), nil
	}
	return NewFileStore(cfg.Path), nil
}
