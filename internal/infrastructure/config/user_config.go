package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig represents user preferences stored in ~/.eveindustry/config.json
// This file stores ONLY preferences, never tokens or secrets
type UserConfig struct {
	// Default project ID to use when not specified via CLI
	DefaultProjectID string `json:"default_project_id,omitempty"`

	// Default character name attached to manually recorded purchases
	DefaultCharacter string `json:"default_character,omitempty"`
}

// UserConfigHandler manages loading and saving user configuration
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a new user config handler
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".eveindustry")
	configPath := filepath.Join(configDir, "config.json")

	// Ensure config directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return &UserConfigHandler{
		configPath: configPath,
	}, nil
}

// Load reads the user config from disk
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	// If file doesn't exist, return empty config
	if _, err := os.Stat(h.configPath); os.IsNotExist(err) {
		return &UserConfig{}, nil
	}

	data, err := os.ReadFile(h.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var config UserConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}

	return &config, nil
}

// Save writes the user config to disk
func (h *UserConfigHandler) Save(config *UserConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(h.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}

	return nil
}

// SetDefaultProject sets the default project ID
func (h *UserConfigHandler) SetDefaultProject(projectID string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.DefaultProjectID = projectID
	return h.Save(config)
}

// SetDefaultCharacter sets the default character name
func (h *UserConfigHandler) SetDefaultCharacter(character string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.DefaultCharacter = character
	return h.Save(config)
}

// ClearDefaults removes the stored preferences
func (h *UserConfigHandler) ClearDefaults() error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.DefaultProjectID = ""
	config.DefaultCharacter = ""
	return h.Save(config)
}

// GetConfigPath returns the path to the user config file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
