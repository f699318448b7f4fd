package llm

import (
	"context"
)

// TurnIDContextKey is the context key carrying the unique ID of the current
// orchestration turn. It is used to group debug captures and log lines.
const TurnIDContextKey = "turn_id"

// Provider kind constants.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Model type constants.
const (
	ModelTypeLocal  = "local"
	ModelTypeOnline = "online"
)

// ModelInfo describes one model and the capabilities of its provider.
// Info() must be pure: no I/O, no network.
type ModelInfo struct {
	Name              string `json:"name"`
	Provider          string `json:"provider"` // "ollama", "gemini" or "openai"
	Type              string `json:"type"`     // "local" or "online"
	Description       string `json:"description"`
	SupportsStreaming bool   `json:"supports_streaming"`
	SupportsTools     bool   `json:"supports_tools"`
	// NativeStream reports whether fragments come incrementally from the
	// backend (true) or are simulated by word-splitting a completed
	// generation (false). Correctness is identical; latency differs.
	NativeStream bool `json:"native_stream"`
}

// ModelProvider 通用模型提供者介面
//
// GenerateStream never lets a backend failure escape the returned channel:
// a failed generation yields exactly one human-readable error fragment and
// then the channel closes. Consumers need no generation-specific error
// handling. A returned channel is single-pass; restart by calling again.
type ModelProvider interface {
	// GenerateStream 流式生成，返回文字片段 channel
	GenerateStream(ctx context.Context, messages []Message) <-chan string

	// IsAvailable reports whether the backend is ready. It must not block on
	// a hosted backend without credentials and must never panic or error.
	IsAvailable(ctx context.Context) bool

	// Info returns descriptive metadata for the model.
	Info() ModelInfo
}

// Settings carries the construction-time configuration shared by all
// provider factories. Loaded once in main and passed down explicitly.
type Settings struct {
	OllamaURL    string // Base URL of the local Ollama instance
	GeminiAPIKey string // Empty means the Gemini provider is permanently unavailable
	OpenAIAPIKey string // Empty means the OpenAI provider is permanently unavailable
	DebugChunks  bool   // Save raw provider chunks under debug/chunks
}
