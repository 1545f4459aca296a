package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/evcraddock/place-notes/internal/client"
	"github.com/evcraddock/place-notes/internal/thread"
)

const defaultServerURL = "http://localhost:8080"

// Config says which place-notes server to talk to and as whom. The file
// under ~/.config/pn holds what login saved; PN_* variables win over it.
type Config struct {
	ServerURL string `yaml:"server_url,omitempty"`
	APIKey    string `yaml:"api_key,omitempty"`

	// CommentCacheSize bounds the comment lists one command keeps.
	// Zero means the cache default.
	CommentCacheSize int `yaml:"comment_cache_size,omitempty"`
}

// LoggedIn reports whether an API key is configured.
func (c Config) LoggedIn() bool {
	return c.APIKey != ""
}

// AuthContext is the caller's identity before the profile is fetched: a
// token if logged in, nothing otherwise.
func (c Config) AuthContext() thread.AuthContext {
	if !c.LoggedIn() {
		return thread.Anonymous
	}
	return thread.AuthContext{Token: c.APIKey}
}

// Client returns an API client for the configured server and key.
func (c Config) Client() *client.Client {
	return client.New(c.ServerURL, c.APIKey)
}

// configPath returns the path to the CLI config file.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pn", "config.yaml"), nil
}

// loadConfig reads the saved config. A missing file is an empty Config.
func loadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// saveConfig writes cfg to disk, readable only by the owner.
func saveConfig(cfg Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// resolveConfig layers PN_SERVER_URL, PN_API_KEY and PN_COMMENT_CACHE_SIZE
// over the saved config. An unreadable file counts as empty so commands
// still run from the environment alone.
func resolveConfig() Config {
	cfg, err := loadConfig()
	if err != nil {
		cfg = Config{}
	}

	if v := os.Getenv("PN_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("PN_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("PN_COMMENT_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CommentCacheSize = n
		}
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = defaultServerURL
	}
	return cfg
}
