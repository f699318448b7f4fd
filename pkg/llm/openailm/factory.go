package openailm

import (
	"ricky/pkg/llm"
)

// OpenAIFactory handles creation of OpenAI providers.
type OpenAIFactory struct{}

// Create implements llm.ProviderFactory.
func (f *OpenAIFactory) Create(model string, settings llm.Settings) (llm.ModelProvider, error) {
	return NewOpenAIProvider(model, settings.OpenAIAPIKey, settings.DebugChunks), nil
}

func init() {
	llm.RegisterProvider(llm.ProviderOpenAI, &OpenAIFactory{})
}
