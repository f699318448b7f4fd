package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// hostedCatalog is the static set of online models this deployment knows how
// to reach. Any identifier not in this map is assumed to name a local model.
var hostedCatalog = map[string]ModelInfo{
	"gemini-2.5-flash": {
		Name:              "gemini-2.5-flash",
		Provider:          ProviderGemini,
		Type:              ModelTypeOnline,
		Description:       "Fast and efficient Gemini 2.5 Flash model",
		SupportsStreaming: true,
		SupportsTools:     false,
		NativeStream:      false,
	},
	"gemini-2.5-pro": {
		Name:              "gemini-2.5-pro",
		Provider:          ProviderGemini,
		Type:              ModelTypeOnline,
		Description:       "Advanced Gemini 2.5 Pro model with enhanced capabilities",
		SupportsStreaming: true,
		SupportsTools:     false,
		NativeStream:      false,
	},
	"gpt-4o-mini": {
		Name:              "gpt-4o-mini",
		Provider:          ProviderOpenAI,
		Type:              ModelTypeOnline,
		Description:       "Compact OpenAI GPT-4o mini model",
		SupportsStreaming: true,
		SupportsTools:     false,
		NativeStream:      true,
	},
	"gpt-4.1-mini": {
		Name:              "gpt-4.1-mini",
		Provider:          ProviderOpenAI,
		Type:              ModelTypeOnline,
		Description:       "Compact OpenAI GPT-4.1 mini model",
		SupportsStreaming: true,
		SupportsTools:     false,
		NativeStream:      true,
	},
}

// HostedModelInfo returns the catalog record for an online model identifier.
func HostedModelInfo(model string) (ModelInfo, bool) {
	info, ok := hostedCatalog[model]
	return info, ok
}

// LocalModelLister enumerates the models currently served by the local
// backend. Injected into the directory so it stays decoupled from any
// concrete provider package.
type LocalModelLister func(ctx context.Context) ([]ModelInfo, error)

// ModelDirectory resolves model identifiers to provider instances and caches
// one provider per distinct identifier for the lifetime of the process.
// Safe for concurrent use.
type ModelDirectory struct {
	mu          sync.Mutex
	providers   map[string]ModelProvider
	settings    Settings
	localLister LocalModelLister
}

// NewModelDirectory creates a directory. lister may be nil, in which case
// ListAvailable only reports the hosted catalog.
func NewModelDirectory(settings Settings, lister LocalModelLister) *ModelDirectory {
	return &ModelDirectory{
		providers:   make(map[string]ModelProvider),
		settings:    settings,
		localLister: lister,
	}
}

// Resolve returns the provider for a model identifier, constructing and
// caching it on first use. Identifiers in the hosted catalog map to their
// hosted provider kind; everything else is assumed to be a local Ollama
// model and is constructed eagerly, so an unusable identifier fails here.
func (d *ModelDirectory) Resolve(model string) (ModelProvider, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.providers[model]; ok {
		return p, nil
	}

	kind := ProviderOllama
	if info, ok := hostedCatalog[model]; ok {
		kind = info.Provider
	}

	factory, ok := GetProviderFactory(kind)
	if !ok {
		return nil, fmt.Errorf("provider kind %q is not registered", kind)
	}

	p, err := factory.Create(model, d.settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider for model %q: %w", model, err)
	}

	d.providers[model] = p
	return p, nil
}

// ListAvailable merges the live local model set with the static hosted
// catalog. A failure to query local models degrades to an empty local
// contribution; it is logged, never raised.
func (d *ModelDirectory) ListAvailable(ctx context.Context) []ModelInfo {
	var models []ModelInfo

	if d.localLister != nil {
		local, err := d.localLister(ctx)
		if err != nil {
			slog.Error("Failed to list local models", "error", err)
		} else {
			models = append(models, local...)
		}
	}

	for _, info := range hostedCatalog {
		models = append(models, info)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })

	return models
}
