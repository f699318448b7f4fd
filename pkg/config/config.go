package config

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
)

// Config defines the global application configuration structure.
// This structure maps directly to the config.json file and holds
// business-level settings like channel payloads and the default model.
type Config struct {
	// Channels contains a map of channel identifiers (e.g., "web", "telegram")
	// to their specific configuration payloads in raw JSON format.
	Channels map[string]jsoniter.RawMessage `json:"channels"`
	// DefaultModel is the model identifier used for a turn when the caller
	// does not request a specific one (e.g., "mistral:7b", "gemini-2.5-flash").
	DefaultModel string `json:"default_model"`
	// SystemPrompt overrides the built-in persona/instruction string sent to
	// the model as the initial system message. Empty means use the built-in prompt.
	SystemPrompt string `json:"system_prompt"`
}

// Validate ensures the configuration structure contains all mandatory fields.
// It acts as a primary guard before the system proceeds to initialization.
func (c *Config) Validate() error {
	if c.DefaultModel == "" {
		return fmt.Errorf("mandatory 'default_model' configuration is missing or empty")
	}
	return nil
}

// SystemConfig defines engine-level technical parameters.
// These settings are usually stored in system.json and control the
// performance, reliability, and technical behavior of the engine.
type SystemConfig struct {
	// LLMTimeoutMs is the hard cutoff time (in milliseconds) for a single
	// orchestration turn. The context will be cancelled if exceeded.
	LLMTimeoutMs int `json:"llm_timeout_ms"`
	// OllamaDefaultURL is the endpoint used when connecting to the local
	// Ollama instance.
	OllamaDefaultURL string `json:"ollama_default_url"`
	// InternalChannelBuffer defines the size of the internal Go channels
	// used for buffering stream fragments to prevent production blocking.
	InternalChannelBuffer int `json:"internal_channel_buffer"`
	// ThinkingInitDelayMs is the time to wait (in milliseconds) after a
	// user message before showing the "thinking" status in the UI.
	ThinkingInitDelayMs int `json:"thinking_init_delay_ms"`
	// TelegramMessageLimit is the maximum character count for a single
	// Telegram message. Longer responses will be split into multiple chunks.
	TelegramMessageLimit int `json:"telegram_message_limit"`
	// CalendarTimeoutMs is the timeout (in milliseconds) applied to
	// Google Calendar API requests made by the calendar capability.
	CalendarTimeoutMs int `json:"calendar_timeout_ms"`
	// DebugChunks enables saving every raw provider response chunk to the
	// /debug folder for inspection and troubleshooting purposes.
	DebugChunks bool `json:"debug_chunks"`
	// LogLevel sets the minimum severity for log output.
	// Accepted values: "debug", "info", "warn", "error". Default: "info".
	LogLevel string `json:"log_level"`
	// EnableTools globally toggles the capability dispatch path.
	// If false, every generation is streamed back as a direct answer.
	EnableTools bool `json:"enable_tools"`
}

// DefaultSystemConfig returns a SystemConfig pointer initialized with hardcoded
// safe default values. This is used as a fallback when the system.json file
// is missing or corrupt, ensuring the engine can always start.
func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		LLMTimeoutMs:          600000,
		OllamaDefaultURL:      "http://127.0.0.1:11434",
		InternalChannelBuffer: 100,
		ThinkingInitDelayMs:   500,
		TelegramMessageLimit:  4000,
		CalendarTimeoutMs:     10000,
		DebugChunks:           false,
		LogLevel:              "info",
		EnableTools:           true,
	}
}

// Credentials holds secrets read from the process environment. They are
// loaded once at startup and passed down explicitly; providers never read
// the environment themselves.
type Credentials struct {
	GeminiAPIKey   string // GEMINI_API_KEY; empty means the Gemini provider is unavailable
	OpenAIAPIKey   string // OPENAI_API_KEY; empty means the OpenAI provider is unavailable
	CalendarAPIKey string // GOOGLE_CALENDAR_API_KEY; empty means the calendar capability reports errors
}

// LoadCredentials reads provider and capability secrets from the environment.
func LoadCredentials() Credentials {
	return Credentials{
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		CalendarAPIKey: os.Getenv("GOOGLE_CALENDAR_API_KEY"),
	}
}

// Load reads and parses the JSON configuration files from the current working directory.
// It first attempts to load 'config.json' (app config). If this file is missing, it returns an error.
// Then it calls LoadSystemConfig to load 'system.json'.
// Returns pointers to the loaded Config and SystemConfig, or an error if the mandatory app config fails.
func Load() (*Config, *SystemConfig, error) {
	// 1. Load Application Config
	appPath := "config.json"
	if _, err := os.Stat(appPath); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("config file '%s' not found. please create one", appPath)
	}

	appFile, err := os.ReadFile(appPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(appFile, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// 1a. Validate structure integrity
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	// 2. Load System Config independently
	sysCfg := LoadSystemConfig("system.json")

	return &cfg, sysCfg, nil
}

// LoadSystemConfig attempts to load system settings, returns defaults if it fails
func LoadSystemConfig(path string) *SystemConfig {
	cfg := DefaultSystemConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		return cfg // File not found, use defaults
	}

	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(file, cfg); err != nil {
		return cfg // Parse failed, use defaults
	}

	return cfg
}
