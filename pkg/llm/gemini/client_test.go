package gemini

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ricky/pkg/llm"
)

func historyFixture() []llm.Message {
	return []llm.Message{
		llm.NewSystemMessage("be helpful"),
		llm.NewUserMessage("hi"),
		llm.NewAssistantMessage("hello"),
	}
}

// countingTransport records every request that would leave the process.
type countingTransport struct {
	calls atomic.Int64
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.calls.Add(1)
	return nil, http.ErrHandlerTimeout
}

func TestUnavailableWithoutCredential(t *testing.T) {
	transport := &countingTransport{}
	p := NewGeminiProvider("gemini-2.5-flash", "", &http.Client{Transport: transport})

	assert.False(t, p.IsAvailable(context.Background()))
	assert.Equal(t, int64(0), transport.calls.Load(), "availability check must not touch the network")
}

func TestAvailableWithCredential(t *testing.T) {
	transport := &countingTransport{}
	p := NewGeminiProvider("gemini-2.5-flash", "test-key", &http.Client{Transport: transport})

	assert.True(t, p.IsAvailable(context.Background()))
	assert.Equal(t, int64(0), transport.calls.Load(), "availability check must not touch the network")
}

func TestGenerateWithoutCredentialYieldsErrorFragment(t *testing.T) {
	transport := &countingTransport{}
	p := NewGeminiProvider("gemini-2.5-flash", "", &http.Client{Transport: transport})

	var fragments []string
	for f := range p.GenerateStream(context.Background(), nil) {
		fragments = append(fragments, f)
	}

	require.Len(t, fragments, 1)
	assert.Contains(t, fragments[0], "not available")
	assert.Equal(t, int64(0), transport.calls.Load())
}

func TestConvertMessagesFlattensRoles(t *testing.T) {
	p := NewGeminiProvider("gemini-2.5-flash", "test-key", nil)

	prompt := p.convertMessages(historyFixture())
	assert.Equal(t, "System: be helpful\n\nUser: hi\n\nAssistant: hello", prompt)
}

func TestInfoUsesCatalog(t *testing.T) {
	p := NewGeminiProvider("gemini-2.5-flash", "test-key", nil)

	info := p.Info()
	assert.Equal(t, "gemini-2.5-flash", info.Name)
	assert.False(t, info.NativeStream)
	assert.True(t, info.SupportsStreaming)
}
