// Package config handles StudyPilot configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds all configuration
type Config struct {
	// Paths
	DataDir string `json:"data_dir"`

	// Server
	Server ServerConfig `json:"server"`

	// Services
	LLM LLMConfig `json:"llm"`

	// Features
	Features FeatureConfig `json:"features"`
}

// ServerConfig for HTTP server
type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// LLMConfig for the chat completions endpoint
type LLMConfig struct {
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
}

// FeatureConfig for feature flags
type FeatureConfig struct {
	EnableWebSocket bool `json:"enable_websocket"`
	DebugMode       bool `json:"debug_mode"`
}

// Default returns default configuration
func Default() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		DataDir: filepath.Join(home, ".studypilot"),
		Server: ServerConfig{
			Port: 8787,
			Host: "localhost",
		},
		LLM: LLMConfig{
			BaseURL: os.Getenv("STUDYPILOT_LLM_BASE_URL"),
			APIKey:  os.Getenv("STUDYPILOT_LLM_API_KEY"),
			Model:   "gpt-4o-mini",
		},
		Features: FeatureConfig{
			EnableWebSocket: true,
			DebugMode:       false,
		},
	}
}

// Load loads config from file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Env overrides win over the file
	if baseURL := os.Getenv("STUDYPILOT_LLM_BASE_URL"); baseURL != "" {
		cfg.LLM.BaseURL = baseURL
	}
	if apiKey := os.Getenv("STUDYPILOT_LLM_API_KEY"); apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if model := os.Getenv("STUDYPILOT_LLM_MODEL"); model != "" {
		cfg.LLM.Model = model
	}

	return cfg, nil
}

// Save saves config to file
func (c *Config) Save(path string) error {
	if path == "" {
		path = filepath.Join(c.DataDir, "config.json")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	// Don't save API key to file
	safeCfg := *c
	safeCfg.LLM.APIKey = ""

	data, err := json.MarshalIndent(safeCfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
