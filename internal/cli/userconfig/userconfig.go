// Package userconfig keeps per-user CLI settings that are not part of a
// session: the selected server and the last email used on each server.
package userconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	configDirName  = "storefront"
	configFileName = "config.json"
)

// UserConfig is stored in ~/.config/storefront/config.json (or under
// STOREFRONT_CONFIG_DIR when set)
type UserConfig struct {
	SelectedServerURL string `json:"selected_server_url,omitempty"`

	// LastEmails maps a server URL to the email of its last successful login
	LastEmails map[string]string `json:"last_emails,omitempty"`
}

// Dir returns the storefront configuration directory
func Dir() (string, error) {
	if dir := os.Getenv("STOREFRONT_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", configDirName), nil
}

// GetConfigPath returns the path to the user config file
func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the user configuration. A missing file yields an empty config.
func Load() (*UserConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file %s: %w", configPath, err)
	}
	return &cfg, nil
}

// Save replaces the config file atomically
func Save(cfg *UserConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	tmp := configPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}
	if err := os.Rename(tmp, configPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace user config file: %w", err)
	}
	return nil
}

func update(fn func(cfg *UserConfig)) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	fn(cfg)
	return Save(cfg)
}

// SetSelectedServer records the server URL used when no --server is given.
// An empty URL clears the selection.
func SetSelectedServer(serverURL string) error {
	return update(func(cfg *UserConfig) {
		cfg.SelectedServerURL = serverURL
	})
}

// GetSelectedServer returns the selected server URL, or "" if none
func GetSelectedServer() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return cfg.SelectedServerURL, nil
}

// RememberEmail stores the email of a successful login on serverURL
func RememberEmail(serverURL, email string) error {
	key := serverKey(serverURL)
	return update(func(cfg *UserConfig) {
		if cfg.LastEmails == nil {
			cfg.LastEmails = make(map[string]string)
		}
		cfg.LastEmails[key] = email
	})
}

// LastEmail returns the email remembered for serverURL, or ""
func LastEmail(serverURL string) (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return cfg.LastEmails[serverKey(serverURL)], nil
}

func serverKey(serverURL string) string {
	return strings.TrimRight(strings.TrimSpace(serverURL), "/")
}
