package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ricky/pkg/llm"

	"github.com/ollama/ollama/api"
)

// OllamaFactory handles creation of Ollama providers.
type OllamaFactory struct{}

// Create implements llm.ProviderFactory.
func (f *OllamaFactory) Create(model string, settings llm.Settings) (llm.ModelProvider, error) {
	return NewOllamaProvider(model, settings.OllamaURL, settings.DebugChunks)
}

// ModelLister returns a llm.LocalModelLister that queries the live model set
// from the local Ollama instance. Used by the model directory to merge local
// models into its available listing.
func ModelLister(baseURL string) llm.LocalModelLister {
	return func(ctx context.Context) ([]llm.ModelInfo, error) {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		client := api.NewClient(u, &http.Client{Timeout: 5 * time.Second})

		resp, err := client.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list ollama models: %w", err)
		}

		models := make([]llm.ModelInfo, 0, len(resp.Models))
		for _, m := range resp.Models {
			models = append(models, llm.ModelInfo{
				Name:              m.Name,
				Provider:          llm.ProviderOllama,
				Type:              llm.ModelTypeLocal,
				Description:       fmt.Sprintf("Local Ollama model: %s", m.Name),
				SupportsStreaming: true,
				SupportsTools:     true,
				NativeStream:      true,
			})
		}
		return models, nil
	}
}

func init() {
	llm.RegisterProvider(llm.ProviderOllama, &OllamaFactory{})
}
