// Package config provides configuration loading and validation for dnsq.
// It handles reading configuration from files, providing defaults, and
// ensuring all required settings are properly set.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lc/dnsq/internal/filesys"
	"github.com/lc/dnsq/internal/policy"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNoConfig is returned when the configuration file is not found.
	ErrNoConfig = errors.New("configuration file not found")
)

const (
	// DefaultSocketPath is the default path for the daemon's Unix socket.
	DefaultSocketPath = "/var/run/dnsqd.socket"
	// DefaultConfigPath is the default path for the configuration file.
	DefaultConfigPath = ".dnsq/config.yaml"
	// DefaultTimeout is the default per-lookup timeout.
	DefaultTimeout = 5 * time.Second
	// DefaultRetries is the default number of additional lookup attempts.
	DefaultRetries = 2
)

// Config holds the application configuration.
type Config struct {
	Socket   SocketConfig   `yaml:"socket"`
	Resolver ResolverConfig `yaml:"resolver"`
	Lookup   LookupConfig   `yaml:"lookup"`
}

// SocketConfig holds socket-related configuration.
type SocketConfig struct {
	Path string `yaml:"path"`
}

// ResolverConfig holds upstream resolver configuration.
type ResolverConfig struct {
	// Servers lists DNS servers as host:port. Empty uses the built-in default.
	Servers []string      `yaml:"servers"`
	Timeout time.Duration `yaml:"timeout"`
	Retries uint          `yaml:"retries"`
}

// LookupConfig holds address post-processing configuration.
type LookupConfig struct {
	// SortV4First enables the IPv4-before-IPv6 result ordering.
	SortV4First bool `yaml:"sort_v4_first"`
	// LoopbackPlatform names the GOOS on which the loopback filter applies.
	// Empty disables the filter.
	LoopbackPlatform string `yaml:"loopback_platform"`
	// LoopbackHost is the hostname the loopback filter triggers on.
	LoopbackHost string `yaml:"loopback_host"`
}

// Policy converts the lookup section into a policy value.
func (l LookupConfig) Policy() policy.Policy {
	return policy.Policy{
		SortV4First:      l.SortV4First,
		LoopbackPlatform: l.LoopbackPlatform,
		LoopbackHost:     l.LoopbackHost,
	}
}

// Provider defines the interface for loading configuration.
type Provider interface {
	Load() (*Config, error)
}

// FSProvider implements Provider using the local filesystem.
type FSProvider struct {
	fs   filesys.ReadWriteFS
	path string
}

var _ Provider = (*FSProvider)(nil)

// New creates a new configuration provider using the default configuration
// path under the user's home directory. If the home directory cannot be
// determined, it falls back to the current directory.
func New() Provider {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not determine home directory: %v\n", err)
		home = ""
	}
	return NewWithPath(filesys.OS(), filepath.Join(home, DefaultConfigPath))
}

// NewWithPath creates a new provider with a specific config path.
// It allows specifying both the filesystem implementation and the path to use.
func NewWithPath(fs filesys.ReadWriteFS, path string) Provider {
	return &FSProvider{
		fs:   fs,
		path: path,
	}
}

// Default returns a default configuration with preset values.
// This is used when no configuration file exists.
func Default() *Config {
	return &Config{
		Socket: SocketConfig{
			Path: DefaultSocketPath,
		},
		Resolver: ResolverConfig{
			Timeout: DefaultTimeout,
			Retries: DefaultRetries,
		},
		Lookup: LookupConfig{
			SortV4First:      true,
			LoopbackPlatform: policy.DefaultLoopbackPlatform,
			LoopbackHost:     policy.DefaultLoopbackHost,
		},
	}
}

// Load loads the configuration from the provider's path. When no file
// exists, the defaults are returned and persisted for the next run.
func (p *FSProvider) Load() (*Config, error) {
	_ = p.ensureConfigDir()

	cfg, err := p.loadAndParse()
	if err != nil {
		if errors.Is(err, ErrNoConfig) {
			cfg = Default()
			if writeErr := p.writeDefault(cfg); writeErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not persist default config: %v\n", writeErr)
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// Validate checks the configuration to ensure all required fields are set.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Socket.Path) == "" {
		return errors.New("socket path cannot be empty")
	}
	if c.Resolver.Timeout < time.Second {
		return errors.New("resolver timeout must be at least 1 second")
	}
	if c.Resolver.Retries > 10 {
		return errors.New("resolver retries must be at most 10")
	}
	for _, s := range c.Resolver.Servers {
		if strings.TrimSpace(s) == "" {
			return errors.New("resolver servers cannot contain empty entries")
		}
	}
	return nil
}

func (p *FSProvider) ensureConfigDir() error {
	dir := filepath.Dir(p.path)
	if _, err := p.fs.Stat(dir); os.IsNotExist(err) {
		if err := p.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	return nil
}

func (p *FSProvider) loadAndParse() (*Config, error) {
	f, err := p.fs.Open(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoConfig
		}
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config file: %w", err)
	}

	return &cfg, nil
}

func (p *FSProvider) writeDefault(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}
	if fops, ok := p.fs.(filesys.FileOps); ok {
		return filesys.AtomicWrite(fops, p.path, data, 0o644)
	}
	return p.fs.WriteFile(p.path, data, 0o644)
}
