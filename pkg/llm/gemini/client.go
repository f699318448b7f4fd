package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"ricky/pkg/llm"

	"google.golang.org/genai"
)

// GeminiProvider serves Google-hosted models. The backend is driven through
// a single blocking generation call and streaming is simulated by re-emitting
// the completed text split on whitespace; ModelInfo.NativeStream is false so
// callers can tell the two latency profiles apart.
type GeminiProvider struct {
	model      string
	apiKey     string
	httpClient *http.Client // Optional; injected in tests to observe transport usage

	mu     sync.Mutex
	client *genai.Client // Built lazily on first generation
}

// NewGeminiProvider creates a Gemini provider. An empty apiKey is not an
// error: the provider simply reports unavailable and every generation
// attempt yields an explanatory fragment.
func NewGeminiProvider(model string, apiKey string, httpClient *http.Client) *GeminiProvider {
	if apiKey == "" {
		slog.Warn("GEMINI_API_KEY not set, Gemini provider will be unavailable")
	}
	slog.Info("Gemini provider initialized", "model", model)

	return &GeminiProvider{
		model:      model,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// getClient builds the genai client on first use.
func (g *GeminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	if g.apiKey == "" {
		return nil, fmt.Errorf("missing Gemini API key")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     g.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	g.client = client
	return client, nil
}

// GenerateStream implements llm.ModelProvider. The full response is fetched
// in one call, then replayed word by word. Failures surface as a single
// in-band error fragment; nothing escapes the channel.
func (g *GeminiProvider) GenerateStream(ctx context.Context, messages []llm.Message) <-chan string {
	fragmentCh := make(chan string, 100)

	go func() {
		defer close(fragmentCh)

		client, err := g.getClient(ctx)
		if err != nil {
			fragmentCh <- fmt.Sprintf("Gemini provider not available: %v", err)
			return
		}

		prompt := g.convertMessages(messages)

		slog.Debug("Generating Gemini response", "model", g.model)

		resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.7),
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("Gemini generation error", "model", g.model, "error", err)
			select {
			case fragmentCh <- fmt.Sprintf("Error generating response with Gemini: %v", err):
			case <-ctx.Done():
			}
			return
		}

		text := resp.Text()
		if text == "" {
			fragmentCh <- "Sorry, I couldn't generate a response."
			return
		}

		llm.EmitWords(ctx, text, fragmentCh)
	}()

	return fragmentCh
}

// convertMessages flattens the conversation into a single role-prefixed
// prompt. Unrecognized roles are skipped.
func (g *GeminiProvider) convertMessages(messages []llm.Message) string {
	formatted := make([]string, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			formatted = append(formatted, "System: "+m.Content)
		case llm.RoleUser:
			formatted = append(formatted, "User: "+m.Content)
		case llm.RoleAssistant:
			formatted = append(formatted, "Assistant: "+m.Content)
		}
	}
	return strings.Join(formatted, "\n\n")
}

// IsAvailable implements llm.ModelProvider. Availability is purely a matter
// of configuration: without a credential the provider is permanently
// unavailable and no network access is attempted.
func (g *GeminiProvider) IsAvailable(ctx context.Context) bool {
	return g.apiKey != ""
}

// Info implements llm.ModelProvider.
func (g *GeminiProvider) Info() llm.ModelInfo {
	if info, ok := llm.HostedModelInfo(g.model); ok {
		return info
	}
	return llm.ModelInfo{
		Name:              g.model,
		Provider:          llm.ProviderGemini,
		Type:              llm.ModelTypeOnline,
		Description:       fmt.Sprintf("Google Gemini model: %s", g.model),
		SupportsStreaming: true,
		SupportsTools:     false,
		NativeStream:      false,
	}
}
