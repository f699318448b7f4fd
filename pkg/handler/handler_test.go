package handler

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ricky/pkg/api"
	"ricky/pkg/config"
	"ricky/pkg/llm"
	"ricky/pkg/orchestrator"
	"ricky/pkg/tools"
)

// captureResponder records everything the handler sends back.
type captureResponder struct {
	mu      sync.Mutex
	replies []string
	signals []string
}

func (r *captureResponder) SendReply(session api.SessionContext, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, content)
	return nil
}

func (r *captureResponder) StreamReply(session api.SessionContext, fragments <-chan string) error {
	var full strings.Builder
	for f := range fragments {
		full.WriteString(f)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, full.String())
	return nil
}

func (r *captureResponder) SendSignal(session api.SessionContext, signal string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals = append(r.signals, signal)
	return nil
}

// echoProvider answers with a fixed reply and records the context it saw.
type echoProvider struct {
	mu    sync.Mutex
	reply string
	calls [][]llm.Message
}

func (p *echoProvider) GenerateStream(ctx context.Context, messages []llm.Message) <-chan string {
	p.mu.Lock()
	p.calls = append(p.calls, messages)
	p.mu.Unlock()

	out := make(chan string, 1)
	out <- p.reply
	close(out)
	return out
}

func (p *echoProvider) IsAvailable(ctx context.Context) bool { return true }
func (p *echoProvider) Info() llm.ModelInfo                  { return llm.ModelInfo{} }

type echoResolver struct{ provider llm.ModelProvider }

func (r *echoResolver) Resolve(model string) (llm.ModelProvider, error) { return r.provider, nil }

func newTestHandler(provider llm.ModelProvider) (*ChatHandler, *captureResponder) {
	orch := orchestrator.New(&echoResolver{provider: provider}, tools.NewRegistry(), "test-model")
	h := NewChatHandler(orch, config.DefaultSystemConfig())
	responder := &captureResponder{}
	h.SetResponder(responder)
	return h, responder
}

func TestOnMessageStreamsReply(t *testing.T) {
	provider := &echoProvider{reply: "hello from the model"}
	h, responder := newTestHandler(provider)

	msg := &api.UnifiedMessage{
		Session: api.SessionContext{ChannelID: "web", UserID: "u1", ChatID: "c1"},
		Content: "hi there",
	}
	h.OnMessage(msg)

	require.Len(t, responder.replies, 1)
	assert.Equal(t, "hello from the model", responder.replies[0])
	assert.NotEmpty(t, msg.TurnID)
}

func TestSessionHistoryAccumulates(t *testing.T) {
	provider := &echoProvider{reply: "first answer"}
	h, _ := newTestHandler(provider)

	session := api.SessionContext{ChannelID: "web", UserID: "u1", ChatID: "c1"}
	h.OnMessage(&api.UnifiedMessage{Session: session, Content: "first question"})

	provider.reply = "second answer"
	h.OnMessage(&api.UnifiedMessage{Session: session, Content: "second question"})

	// Second turn's context contains the first turn as history.
	require.Len(t, provider.calls, 2)
	second := provider.calls[1]
	require.Len(t, second, 4)
	assert.Equal(t, "first question", second[1].Content)
	assert.Equal(t, "first answer", second[2].Content)
	assert.Equal(t, "second question", second[3].Content)
}

func TestSessionsAreIsolated(t *testing.T) {
	provider := &echoProvider{reply: "ok"}
	h, _ := newTestHandler(provider)

	h.OnMessage(&api.UnifiedMessage{
		Session: api.SessionContext{ChannelID: "web", ChatID: "c1"},
		Content: "alpha",
	})
	h.OnMessage(&api.UnifiedMessage{
		Session: api.SessionContext{ChannelID: "web", ChatID: "c2"},
		Content: "beta",
	})

	require.Len(t, provider.calls, 2)
	// No cross-session bleed: the second turn carries no history.
	assert.Len(t, provider.calls[1], 2)
}

func TestCallerSuppliedHistoryBypassesSessions(t *testing.T) {
	provider := &echoProvider{reply: "ok"}
	h, _ := newTestHandler(provider)

	session := api.SessionContext{ChannelID: "web", ChatID: "c1"}
	supplied := []llm.Message{
		llm.NewUserMessage("external context"),
		llm.NewAssistantMessage("external reply"),
	}
	h.OnMessage(&api.UnifiedMessage{Session: session, Content: "q1", History: supplied})
	h.OnMessage(&api.UnifiedMessage{Session: session, Content: "q2", History: supplied})

	// Caller-managed history is used verbatim and never accumulated.
	require.Len(t, provider.calls, 2)
	assert.Len(t, provider.calls[1], 4)
	assert.Equal(t, "external context", provider.calls[1][1].Content)
}
