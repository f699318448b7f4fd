package gemini

import (
	"ricky/pkg/llm"
)

// GeminiFactory handles creation of Gemini providers.
type GeminiFactory struct{}

// Create implements llm.ProviderFactory.
func (f *GeminiFactory) Create(model string, settings llm.Settings) (llm.ModelProvider, error) {
	return NewGeminiProvider(model, settings.GeminiAPIKey, nil), nil
}

func init() {
	llm.RegisterProvider(llm.ProviderGemini, &GeminiFactory{})
}
