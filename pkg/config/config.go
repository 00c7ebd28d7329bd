// Package config loads and validates configuration for the recall
// subsystem: where the memory stores live, which model backend extracts
// memories, and which projects may carry their own store.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Provider names accepted in the llm section.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config represents the configuration for the recall subsystem
type Config struct {
	// Home is the recall home directory. It holds the global memory store
	// and session logs.
	Home string `yaml:"home" json:"home"`

	// WorkingDir is the directory the hosting turn runs in. Project-scoped
	// memory resolution starts here.
	WorkingDir string `yaml:"working_dir" json:"working_dir"`

	// LLM configures the extraction backend.
	LLM LLMConfig `yaml:"llm" json:"llm"`

	// Memory configures capture behavior.
	Memory MemoryConfig `yaml:"memory" json:"memory"`
}

// LLMConfig defines the model backend used for extraction
type LLMConfig struct {
	// Provider selects the backend: "openai" or "anthropic".
	Provider string `yaml:"provider" json:"provider"`

	// Model overrides the provider's default model when set.
	Model string `yaml:"model" json:"model"`

	// BaseURL overrides the provider's API endpoint when set.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// APIKey authenticates against the provider. Providers fall back to
	// their usual environment variables when empty.
	APIKey string `yaml:"api_key" json:"api_key"`
}

// MemoryConfig defines capture behavior
type MemoryConfig struct {
	// CaptureEnabled gates memory extraction after each turn.
	CaptureEnabled bool `yaml:"capture_enabled" json:"capture_enabled"`

	// DeniedProjects lists glob patterns of repository roots that must not
	// carry a project-scoped store. Matching projects write to the global
	// store instead.
	DeniedProjects []string `yaml:"denied_projects" json:"denied_projects"`
}

// DefaultConfig returns a configuration with every field at its default
func DefaultConfig() *Config {
	return &Config{
		Home:       defaultHome(),
		WorkingDir: defaultWorkingDir(),
		LLM: LLMConfig{
			Provider: ProviderOpenAI,
		},
		Memory: MemoryConfig{
			CaptureEnabled: true,
		},
	}
}

// defaultHome resolves the recall home: $RECALL_HOME when set, otherwise
// ~/.recall.
func defaultHome() string {
	if env := os.Getenv("RECALL_HOME"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".recall")
}

func defaultWorkingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// DefaultConfigPath returns the path the CLI looks at when no --config flag
// is given: <home>/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(defaultHome(), "config.yaml")
}

// Load reads a YAML configuration file over the defaults and validates the
// result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads DefaultConfigPath when it exists and plain defaults
// when it does not.
func LoadDefault() (*Config, error) {
	path := DefaultConfigPath()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Home == "" {
		return fmt.Errorf("home directory is required")
	}

	if c.WorkingDir == "" {
		return fmt.Errorf("working directory is required")
	}

	if c.LLM.Provider != ProviderOpenAI && c.LLM.Provider != ProviderAnthropic {
		return fmt.Errorf("invalid llm provider: %s (must be 'openai' or 'anthropic')", c.LLM.Provider)
	}

	// Denied-project patterns must compile.
	if _, err := NewProjectFilter(c.Memory.DeniedProjects); err != nil {
		return err
	}

	return nil
}
