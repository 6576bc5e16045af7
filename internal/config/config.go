package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Assistant AssistantConfig `yaml:"assistant"`
	Relay     RelayConfig     `yaml:"relay"`
	Sound     SoundConfig     `yaml:"sound"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// Transport is the MCP transport used by `serve`: "http" or "stdio".
	Transport string `yaml:"transport"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// OpenAIConfig holds the upstream credential. It is read by the relay and
// by the direct assistant transport.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// AssistantConfig selects how local surfaces reach the assistant.
type AssistantConfig struct {
	Transport    string        `yaml:"transport"`
	Model        string        `yaml:"model"`
	RelayURL     string        `yaml:"relay_url"`
	SystemPrompt string        `yaml:"system_prompt"`
	Timeout      time.Duration `yaml:"timeout"`
}

// RelayConfig tunes the upstream request the relay makes.
type RelayConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type SoundConfig struct {
	Command string `yaml:"command"`
	File    string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      5000,
			Transport: "http",
		},
		DB: DBConfig{
			Path: "chunking.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		OpenAI: OpenAIConfig{
			BaseURL: "https://api.openai.com/v1",
		},
		Assistant: AssistantConfig{
			Transport:    "relay",
			Model:        "gpt-4o",
			RelayURL:     "http://localhost:5000",
			SystemPrompt: "You are a helpful assistant that explains Chunking clearly. Summarize in 5 to 6 bullet points.",
			Timeout:      60 * time.Second,
		},
		Relay: RelayConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   400,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CHUNKING_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("CHUNKING_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("CHUNKING_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CHUNKING_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if transport := os.Getenv("CHUNKING_TRANSPORT"); transport != "" {
		cfg.Server.Transport = transport
	}
	if dbPath := os.Getenv("CHUNKING_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("CHUNKING_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("CHUNKING_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAI.APIKey = key
	}
	if transport := os.Getenv("CHUNKING_ASSISTANT_TRANSPORT"); transport != "" {
		cfg.Assistant.Transport = transport
	}
	if model := os.Getenv("CHUNKING_ASSISTANT_MODEL"); model != "" {
		cfg.Assistant.Model = model
	}
	if relayURL := os.Getenv("CHUNKING_RELAY_URL"); relayURL != "" {
		cfg.Assistant.RelayURL = relayURL
	}
	if command := os.Getenv("CHUNKING_SOUND_COMMAND"); command != "" {
		cfg.Sound.Command = command
	}
	if file := os.Getenv("CHUNKING_SOUND_FILE"); file != "" {
		cfg.Sound.File = file
	}

	return cfg, nil
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	switch strings.ToLower(c.Server.Transport) {
	case "http", "stdio":
	default:
		return fmt.Errorf("unknown server transport %q", c.Server.Transport)
	}
	switch c.Assistant.Transport {
	case "direct", "relay":
	default:
		return fmt.Errorf("unknown assistant transport %q", c.Assistant.Transport)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	if c.DB.Path == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Relay.MaxTokens < 0 {
		return fmt.Errorf("relay max_tokens must not be negative")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
