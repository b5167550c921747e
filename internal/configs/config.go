package configs

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/PolarWolf314/vault-nacl/internal/document"
	"github.com/PolarWolf314/vault-nacl/internal/marker"
	"github.com/PolarWolf314/vault-nacl/internal/vault"
)

type Config struct {
	KDF    KDFConfig    `toml:"kdf" json:"kdf"`
	Output OutputConfig `toml:"output" json:"output"`
	Audit  AuditConfig  `toml:"audit" json:"audit"`
}

type KDFConfig struct {
	Digest     string `toml:"digest" json:"digest"`
	Iterations uint32 `toml:"iterations,omitempty" json:"iterations,omitempty"`
}

type OutputConfig struct {
	SplitLines bool   `toml:"split_lines" json:"split_lines"`
	Marker     string `toml:"marker" json:"marker"`
	Format     string `toml:"format" json:"format"`
}

type AuditConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled"`
	Path    string `toml:"path,omitempty" json:"path,omitempty"`
}

// DefaultConfig returns the settings used when no config file exists.
// Iterations stay zero so the digest's default applies.
func DefaultConfig() *Config {
	return &Config{
		KDF: KDFConfig{
			Digest: vault.DefaultDigest.String(),
		},
		Output: OutputConfig{
			Marker: marker.DefaultName,
			Format: string(document.Text),
		},
	}
}

// LoadConfig reads the config at path, or at DefaultConfigPath when path is
// empty. A missing file yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	config := DefaultConfig()
	if err := LoadTOML(path, config); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// SaveConfig writes config to path, or to DefaultConfigPath when path is empty.
func SaveConfig(path string, config *Config) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks every named value against the sets the tool understands.
func (c *Config) Validate() error {
	if _, err := vault.ParseDigest(c.KDF.Digest); err != nil {
		return err
	}
	if err := vault.CheckIterations(c.KDF.Iterations); err != nil {
		return err
	}
	if c.Output.Marker != "" {
		if _, err := marker.New(c.Output.Marker); err != nil {
			return err
		}
	}
	if _, err := document.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	return nil
}

// VaultConfig returns the settings for vaults that seal new spans.
func (c *Config) VaultConfig() vault.Config {
	return vault.Config{
		Digest:     c.KDF.Digest,
		Iterations: c.KDF.Iterations,
	}
}

// Marker returns the configured marker protocol.
func (c *Config) Marker() (*marker.Protocol, error) {
	if c.Output.Marker == "" {
		return marker.Default, nil
	}
	return marker.New(c.Output.Marker)
}

// AuditPath returns the audit log location.
func (c *Config) AuditPath() string {
	if c.Audit.Path != "" {
		return c.Audit.Path
	}
	return DefaultAuditPath()
}
