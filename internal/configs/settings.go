package configs

import (
	"os"
	"path/filepath"
)

type UserSettings struct {
	UserConfigsPath string
	UserDataPath    string
}

var UserVaultSettings *UserSettings

func init() {
	UserVaultSettings = defaultSettings()
}

func defaultSettings() *UserSettings {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			dataDir = filepath.Join(homeDir, ".local", "share")
		} else {
			dataDir = "."
		}
	}

	// This is independent of the documents being processed, so it is ok to init here
	return &UserSettings{
		UserConfigsPath: filepath.Join(configDir, "vault-nacl"),
		UserDataPath:    filepath.Join(dataDir, "vault-nacl"),
	}
}

// DefaultConfigPath is where LoadConfig looks when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(UserVaultSettings.UserConfigsPath, "config.toml")
}

// DefaultAuditPath is the audit log location when [audit] path is empty.
func DefaultAuditPath() string {
	return filepath.Join(UserVaultSettings.UserDataPath, "audit.jsonl")
}
