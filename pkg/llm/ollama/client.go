package ollama

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"ricky/pkg/llm"

	jsoniter "github.com/json-iterator/go"
	"github.com/ollama/ollama/api"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// OllamaProvider serves locally hosted models through the Ollama API.
// Streaming is native: fragments are forwarded as the backend produces them.
type OllamaProvider struct {
	client       *api.Client
	model        string
	debugEnabled bool
}

// NewOllamaProvider creates a provider bound to one local model.
func NewOllamaProvider(model string, baseURL string, debugEnabled bool) (*OllamaProvider, error) {
	// Custom Transport to ensure no timeouts are imposed by the client;
	// local generation can legitimately take minutes.
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 0,
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   0,
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	client := api.NewClient(u, httpClient)

	slog.Info("Ollama provider initialized", "model", model, "base_url", baseURL)

	return &OllamaProvider{
		client:       client,
		model:        model,
		debugEnabled: debugEnabled,
	}, nil
}

// GenerateStream implements llm.ModelProvider. Backend failures never escape
// the channel: they surface as one in-band error fragment before it closes.
func (o *OllamaProvider) GenerateStream(ctx context.Context, messages []llm.Message) <-chan string {
	fragmentCh := make(chan string, 100)

	apiMessages := o.convertMessages(messages)

	go func() {
		defer close(fragmentCh)

		debugger := llm.NewStreamDebugger(ctx, "ollama", o.debugEnabled)
		defer debugger.Close()

		streamVal := true
		req := &api.ChatRequest{
			Model:    o.model,
			Messages: apiMessages,
			Stream:   &streamVal,
		}

		err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
			if o.debugEnabled {
				if raw, merr := json.Marshal(resp); merr == nil {
					debugger.WriteString(string(raw))
				}
			}

			if resp.Message.Content != "" {
				select {
				case fragmentCh <- resp.Message.Content:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})

		if err != nil && ctx.Err() == nil {
			slog.Error("Ollama stream error", "model", o.model, "error", err)
			select {
			case fragmentCh <- fmt.Sprintf("Error generating response: %v", err):
			case <-ctx.Done():
			}
		}
	}()

	return fragmentCh
}

// convertMessages converts messages to Ollama API format. Unrecognized roles
// were already dropped upstream; the conversion is a direct field mapping.
func (o *OllamaProvider) convertMessages(messages []llm.Message) []api.Message {
	ollamaMsgs := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		ollamaMsgs = append(ollamaMsgs, api.Message{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return ollamaMsgs
}

// IsAvailable implements llm.ModelProvider via the Ollama heartbeat endpoint.
func (o *OllamaProvider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := o.client.Heartbeat(ctx); err != nil {
		slog.Debug("Ollama heartbeat failed", "error", err)
		return false
	}
	return true
}

// Info implements llm.ModelProvider.
func (o *OllamaProvider) Info() llm.ModelInfo {
	return llm.ModelInfo{
		Name:              o.model,
		Provider:          llm.ProviderOllama,
		Type:              llm.ModelTypeLocal,
		Description:       fmt.Sprintf("Local Ollama model: %s", o.model),
		SupportsStreaming: true,
		SupportsTools:     true,
		NativeStream:      true,
	}
}
