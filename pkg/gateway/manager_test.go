package gateway

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ricky/pkg/api"
	"ricky/pkg/monitor"
)

type fakeChannel struct {
	id       string
	mu       sync.Mutex
	sent     []string
	streamed []string
	signals  []string
}

func (c *fakeChannel) ID() string                        { return c.id }
func (c *fakeChannel) Start(ctx api.ChannelContext) error { return nil }
func (c *fakeChannel) Stop() error                       { return nil }

func (c *fakeChannel) Send(session api.SessionContext, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, message)
	return nil
}

func (c *fakeChannel) Stream(session api.SessionContext, fragments <-chan string) error {
	var full strings.Builder
	for f := range fragments {
		full.WriteString(f)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.streamed = append(c.streamed, full.String())
	return nil
}

func (c *fakeChannel) SendSignal(session api.SessionContext, signal string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signals = append(c.signals, signal)
	return nil
}

type recordingMonitor struct {
	mu       sync.Mutex
	messages []monitor.MonitorMessage
}

func (m *recordingMonitor) Start() error { return nil }
func (m *recordingMonitor) Stop() error  { return nil }

func (m *recordingMonitor) OnMessage(msg monitor.MonitorMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func TestSendReplyRoutesToChannel(t *testing.T) {
	gw := NewGatewayManager()
	ch := &fakeChannel{id: "web"}
	gw.Register(ch)

	session := api.SessionContext{ChannelID: "web", Username: "alice"}
	require.NoError(t, gw.SendReply(session, "hello"))
	assert.Equal(t, []string{"hello"}, ch.sent)

	err := gw.SendReply(api.SessionContext{ChannelID: "ghost"}, "lost")
	assert.Error(t, err)
}

func TestStreamReplyRelaysAndBroadcasts(t *testing.T) {
	gw := NewGatewayManager()
	ch := &fakeChannel{id: "web"}
	mon := &recordingMonitor{}
	gw.Register(ch)
	gw.SetMonitor(mon)

	fragments := make(chan string, 3)
	fragments <- "one "
	fragments <- "two "
	fragments <- "three"
	close(fragments)

	session := api.SessionContext{ChannelID: "web", Username: "alice"}
	require.NoError(t, gw.StreamReply(session, fragments))

	assert.Equal(t, []string{"one two three"}, ch.streamed)

	mon.mu.Lock()
	defer mon.mu.Unlock()
	require.Len(t, mon.messages, 1)
	assert.Equal(t, "ASSISTANT", mon.messages[0].MessageType)
	assert.Equal(t, "one two three", mon.messages[0].Content)
}

// abortingChannel drops the stream after the first fragment, like a
// websocket whose peer disconnected mid-reply.
type abortingChannel struct {
	fakeChannel
}

func (c *abortingChannel) Stream(session api.SessionContext, fragments <-chan string) error {
	<-fragments
	return errSinkClosed
}

var errSinkClosed = errors.New("write on closed connection")

func TestStreamReplyAbortedSinkDoesNotBlockProducer(t *testing.T) {
	gw := NewGatewayManager()
	gw.SetChannelBuffer(1)
	ch := &abortingChannel{fakeChannel: fakeChannel{id: "web"}}
	mon := &recordingMonitor{}
	gw.Register(ch)
	gw.SetMonitor(mon)

	// More fragments than the relay buffer can hold after the sink is gone.
	fragments := make(chan string)
	producerDone := make(chan struct{})
	go func() {
		defer close(producerDone)
		defer close(fragments)
		for _, f := range []string{"a", "b", "c", "d", "e", "f"} {
			fragments <- f
		}
	}()

	session := api.SessionContext{ChannelID: "web", Username: "alice"}
	err := gw.StreamReply(session, fragments)
	assert.ErrorIs(t, err, errSinkClosed)

	select {
	case <-producerDone:
	case <-time.After(2 * time.Second):
		t.Fatal("producer still blocked after the sink aborted")
	}

	// The monitor still gets the complete reply once the producer finishes.
	require.Eventually(t, func() bool {
		mon.mu.Lock()
		defer mon.mu.Unlock()
		return len(mon.messages) == 1 && mon.messages[0].Content == "abcdef"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSignalRoutesToSignalingChannel(t *testing.T) {
	gw := NewGatewayManager()
	ch := &fakeChannel{id: "web"}
	gw.Register(ch)

	session := api.SessionContext{ChannelID: "web"}
	require.NoError(t, gw.SendSignal(session, "thinking"))
	assert.Equal(t, []string{"thinking"}, ch.signals)
}

func TestOnMessageForwardsToHandler(t *testing.T) {
	gw := NewGatewayManager()
	var received *UnifiedMessage
	gw.SetMessageHandler(func(msg *UnifiedMessage) { received = msg })

	msg := &UnifiedMessage{Content: "hi"}
	gw.OnMessage("web", msg)

	require.NotNil(t, received)
	assert.Equal(t, "hi", received.Content)
}
