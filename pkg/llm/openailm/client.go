package openailm

import (
	"context"
	"fmt"
	"log/slog"

	"ricky/pkg/llm"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIProvider serves OpenAI-hosted models through the official SDK with
// native incremental streaming.
type OpenAIProvider struct {
	client       *openai.Client
	model        string
	apiKey       string
	debugEnabled bool
}

// NewOpenAIProvider creates an OpenAI provider. An empty apiKey is not an
// error: the provider reports unavailable and generation attempts yield an
// explanatory fragment.
func NewOpenAIProvider(model string, apiKey string, debugEnabled bool) *OpenAIProvider {
	if apiKey == "" {
		slog.Warn("OPENAI_API_KEY not set, OpenAI provider will be unavailable")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	slog.Info("OpenAI provider initialized", "model", model)

	return &OpenAIProvider{
		client:       &client,
		model:        model,
		apiKey:       apiKey,
		debugEnabled: debugEnabled,
	}
}

// GenerateStream implements llm.ModelProvider. Fragments are forwarded as
// the backend produces them; failures surface as one in-band error fragment.
func (c *OpenAIProvider) GenerateStream(ctx context.Context, messages []llm.Message) <-chan string {
	fragmentCh := make(chan string, 100)

	go func() {
		defer close(fragmentCh)

		if c.apiKey == "" {
			fragmentCh <- "OpenAI provider not available: missing OpenAI API key"
			return
		}

		debugger := llm.NewStreamDebugger(ctx, "openai", c.debugEnabled)
		defer debugger.Close()

		params := openai.ChatCompletionNewParams{
			Model:    shared.ChatModel(c.model),
			Messages: c.convertMessages(messages),
		}

		stream := c.client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if c.debugEnabled {
				debugger.WriteString(chunk.RawJSON())
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case fragmentCh <- delta:
			case <-ctx.Done():
				return
			}
		}

		if err := stream.Err(); err != nil && ctx.Err() == nil {
			slog.Error("OpenAI stream error", "model", c.model, "error", err)
			select {
			case fragmentCh <- fmt.Sprintf("Error generating response with OpenAI: %v", err):
			case <-ctx.Done():
			}
		}
	}()

	return fragmentCh
}

// convertMessages maps conversation messages onto the SDK's union params.
// Unrecognized roles are skipped.
func (c *OpenAIProvider) convertMessages(messages []llm.Message) []openai.ChatCompletionMessageParamUnion {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			converted = append(converted, openai.SystemMessage(m.Content))
		case llm.RoleUser:
			converted = append(converted, openai.UserMessage(m.Content))
		case llm.RoleAssistant:
			converted = append(converted, openai.AssistantMessage(m.Content))
		}
	}
	return converted
}

// IsAvailable implements llm.ModelProvider. Configuration-only; no network.
func (c *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	return c.apiKey != ""
}

// Info implements llm.ModelProvider.
func (c *OpenAIProvider) Info() llm.ModelInfo {
	if info, ok := llm.HostedModelInfo(c.model); ok {
		return info
	}
	return llm.ModelInfo{
		Name:              c.model,
		Provider:          llm.ProviderOpenAI,
		Type:              llm.ModelTypeOnline,
		Description:       fmt.Sprintf("OpenAI model: %s", c.model),
		SupportsStreaming: true,
		SupportsTools:     false,
		NativeStream:      true,
	}
}
