package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	model string
}

func (p *stubProvider) GenerateStream(ctx context.Context, messages []Message) <-chan string {
	ch := make(chan string)
	close(ch)
	return ch
}

func (p *stubProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *stubProvider) Info() ModelInfo {
	return ModelInfo{Name: p.model, Provider: ProviderOllama, Type: ModelTypeLocal}
}

type stubFactory struct {
	created int
	fail    bool
}

func (f *stubFactory) Create(model string, settings Settings) (ModelProvider, error) {
	if f.fail {
		return nil, fmt.Errorf("construction refused for %q", model)
	}
	f.created++
	return &stubProvider{model: model}, nil
}

func TestResolveMemoizesPerIdentifier(t *testing.T) {
	factory := &stubFactory{}
	RegisterProvider(ProviderOllama, factory)
	d := NewModelDirectory(Settings{}, nil)

	a, err := d.Resolve("mistral:7b")
	require.NoError(t, err)
	b, err := d.Resolve("mistral:7b")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, factory.created)

	c, err := d.Resolve("llama3:8b")
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, factory.created)
}

func TestResolveConstructionFailureIsNotCached(t *testing.T) {
	factory := &stubFactory{fail: true}
	RegisterProvider(ProviderOllama, factory)
	d := NewModelDirectory(Settings{}, nil)

	_, err := d.Resolve("mistral:7b")
	require.Error(t, err)

	// A later attempt hits the factory again instead of a cached failure.
	factory.fail = false
	p, err := d.Resolve("mistral:7b")
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestResolveUnregisteredKind(t *testing.T) {
	// The gemini factory lives in its own package and is not imported here,
	// so the catalog maps this identifier to an unregistered kind.
	d := NewModelDirectory(Settings{}, nil)

	_, err := d.Resolve("gemini-2.5-flash")
	assert.Error(t, err)
}

func TestListAvailableDegradesOnLocalFailure(t *testing.T) {
	d := NewModelDirectory(Settings{}, func(ctx context.Context) ([]ModelInfo, error) {
		return nil, errors.New("backend down")
	})

	models := d.ListAvailable(context.Background())

	// Hosted catalog still present despite the local failure.
	require.Len(t, models, len(hostedCatalog))
	for i := 1; i < len(models); i++ {
		assert.LessOrEqual(t, models[i-1].Name, models[i].Name)
	}
}

func TestListAvailableMergesLocalModels(t *testing.T) {
	d := NewModelDirectory(Settings{}, func(ctx context.Context) ([]ModelInfo, error) {
		return []ModelInfo{
			{Name: "mistral:7b", Provider: ProviderOllama, Type: ModelTypeLocal},
		}, nil
	})

	models := d.ListAvailable(context.Background())
	require.Len(t, models, len(hostedCatalog)+1)

	names := make(map[string]bool, len(models))
	for _, m := range models {
		names[m.Name] = true
	}
	assert.True(t, names["mistral:7b"])
	assert.True(t, names["gemini-2.5-flash"])
	assert.True(t, names["gpt-4o-mini"])
}
