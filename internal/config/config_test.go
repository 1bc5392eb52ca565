package config_test

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lc/dnsq/internal/config"
)

type ConfigTestSuite struct {
	suite.Suite
	fs       mockFS
	provider config.Provider
}

type mockFS struct {
	files map[string]string
}

func (m mockFS) Stat(path string) (os.FileInfo, error) {
	if _, ok := m.files[path]; !ok {
		return nil, os.ErrNotExist
	}
	return nil, nil
}

func (m mockFS) MkdirAll(_ string, _ os.FileMode) error {
	return nil
}

func (m mockFS) Open(path string) (*os.File, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	tmp, err := os.CreateTemp("", "mock-*")
	if err != nil {
		return nil, err
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return nil, err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, err
	}
	return tmp, nil
}

func (m mockFS) WriteFile(path string, content []byte, _ os.FileMode) error {
	m.files[path] = string(content)
	return nil
}

func (s *ConfigTestSuite) SetupTest() {
	s.fs = mockFS{
		files: make(map[string]string),
	}
	s.provider = config.NewWithPath(s.fs, "test/config.yaml")
}

func (s *ConfigTestSuite) TestLoadDefaultWhenNoFile() {
	// When loading configuration with no file present
	cfg, err := s.provider.Load()

	// Then default configuration should be returned
	s.Require().NoError(err)
	s.Equal(config.DefaultSocketPath, cfg.Socket.Path)
	s.Equal(config.DefaultTimeout, cfg.Resolver.Timeout)
	s.Equal(uint(config.DefaultRetries), cfg.Resolver.Retries)
	s.True(cfg.Lookup.SortV4First)

	// And the defaults should be persisted for the next run
	s.Contains(s.fs.files, "test/config.yaml")
}

func (s *ConfigTestSuite) TestLoadValidConfig() {
	// Given a valid config file
	s.fs.files["test/config.yaml"] = `
socket:
  path: /custom/socket
resolver:
  servers:
    - 9.9.9.9:53
  timeout: 10s
  retries: 1
lookup:
  sort_v4_first: false
  loopback_platform: ""
  loopback_host: localhost
`
	// When loading configuration
	cfg, err := s.provider.Load()

	// Then custom values should be loaded
	s.Require().NoError(err)
	s.Equal("/custom/socket", cfg.Socket.Path)
	s.Equal([]string{"9.9.9.9:53"}, cfg.Resolver.Servers)
	s.Equal(10*time.Second, cfg.Resolver.Timeout)
	s.Equal(uint(1), cfg.Resolver.Retries)
	s.False(cfg.Lookup.SortV4First)
	s.Empty(cfg.Lookup.LoopbackPlatform)
}

func (s *ConfigTestSuite) TestValidation() {
	testCases := []struct {
		name        string
		mutate      func(*config.Config)
		expectedErr string
	}{
		{
			name:        "empty socket path",
			mutate:      func(c *config.Config) { c.Socket.Path = " " },
			expectedErr: "socket path cannot be empty",
		},
		{
			name:        "timeout too small",
			mutate:      func(c *config.Config) { c.Resolver.Timeout = 100 * time.Millisecond },
			expectedErr: "resolver timeout must be at least 1 second",
		},
		{
			name:        "too many retries",
			mutate:      func(c *config.Config) { c.Resolver.Retries = 11 },
			expectedErr: "resolver retries must be at most 10",
		},
		{
			name:        "empty server entry",
			mutate:      func(c *config.Config) { c.Resolver.Servers = []string{"1.1.1.1:53", ""} },
			expectedErr: "resolver servers cannot contain empty entries",
		},
		{
			name:   "valid config",
			mutate: func(c *config.Config) {},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			cfg := config.Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.expectedErr != "" {
				s.Require().Error(err)
				s.Contains(err.Error(), tc.expectedErr)
				return
			}
			s.NoError(err)
		})
	}
}

func (s *ConfigTestSuite) TestInvalidConfigFails() {
	s.fs.files["test/config.yaml"] = `
socket:
  path: ""
resolver:
  timeout: 5s
`
	_, err := s.provider.Load()
	s.Require().Error(err)
	s.ErrorIs(err, config.ErrInvalidConfig)
}

func (s *ConfigTestSuite) TestPolicyConversion() {
	cfg := config.Default()
	p := cfg.Lookup.Policy()

	s.True(p.SortV4First)
	s.Equal("darwin", p.LoopbackPlatform)
	s.Equal("localhost", p.LoopbackHost)
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
