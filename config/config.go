package config

import (
	"os"
	"path/filepath"

	"github.com/podsage/podsage/errors"
	"gopkg.in/yaml.v3"
)

// FilesystemAccess restricts what the local file tools may touch.
type FilesystemAccess struct {
	Hidden   []string `yaml:"hidden"`
	ReadOnly []string `yaml:"read_only"`
}

// MCPServer describes a tool-process launched over the MCP stdio
// transport. PassEnv names environment variables of this process that
// are forwarded into the child's environment.
type MCPServer struct {
	Name    string   `yaml:"name"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	PassEnv []string `yaml:"pass_env"`
}

type Toolset struct {
	Name  string   `yaml:"name"`
	Tools []string `yaml:"tools"`
}

type Config struct {
	LLMClient        string           `yaml:"llm"`
	Model            string           `yaml:"model"`
	MaxTurns         int              `yaml:"max_turns"`
	MCPServers       []MCPServer      `yaml:"mcp_servers"`
	Toolsets         []Toolset        `yaml:"toolsets"`
	FilesystemAccess FilesystemAccess `yaml:"filesystem_access"`
}

// LoadConfig loads configuration from the user's home directory and the
// current working directory, with the latter taking precedence, then
// fills in defaults for anything left unset.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	// Keep the assistant's own state directory out of the file tools.
	cfg.FilesystemAccess.Hidden = append(cfg.FilesystemAccess.Hidden, ".podsage", ".podsage/**")

	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, ".podsage", "config.yaml")
		if _, err := os.Stat(userConfigPath); err == nil {
			if err := loadFromFile(userConfigPath, cfg); err != nil {
				return nil, errors.Wrapf(err, "error loading user config")
			}
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrapf(err, "could not get working directory")
	}
	projectConfigPath := filepath.Join(wd, ".podsage", "config.yaml")
	if _, err := os.Stat(projectConfigPath); err == nil {
		if err := loadFromFile(projectConfigPath, cfg); err != nil {
			return nil, errors.Wrapf(err, "error loading project config")
		}
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Unmarshal overwrites fields present in the YAML, so project-level
	// config replaces user-level field by field.
	return yaml.Unmarshal(data, cfg)
}

// ApplyDefaults fills unset fields so the assistant runs with no config
// file at all: OpenAI as the model provider and the podcast-transcriber
// tool-process launched through node, with the API key forwarded.
func (c *Config) ApplyDefaults() {
	if c.LLMClient == "" {
		c.LLMClient = "openai"
	}
	if c.Model == "" {
		c.Model = "gpt-4o"
	}
	if c.MaxTurns <= 0 {
		c.MaxTurns = 20
	}
	if len(c.MCPServers) == 0 {
		c.MCPServers = []MCPServer{{
			Name:    "transcriber",
			Command: "node",
			Args:    []string{"src/index.js"},
			PassEnv: []string{"OPENAI_API_KEY"},
		}}
	}
	if len(c.Toolsets) == 0 {
		c.Toolsets = []Toolset{{
			Name:  "default",
			Tools: []string{"read_file", "write_file", "transcriber.*"},
		}}
	}
}

// GetToolset finds a toolset by name. Returns the "default" toolset if
// the named one is not found or if an empty name is provided.
func (c *Config) GetToolset(name string) (*Toolset, error) {
	if name == "" {
		name = "default"
	}
	for _, ts := range c.Toolsets {
		if ts.Name == name {
			return &ts, nil
		}
	}
	if name == "default" {
		return nil, errors.New("mandatory 'default' toolset not found in configuration")
	}
	return c.GetToolset("default")
}
