// Package gateway routes messages between communication channels and the
// core handler, fanning replies back to whichever channel a session lives on.
package gateway

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"ricky/pkg/monitor"
)

// GatewayManager owns all registered Channels and routes traffic in both
// directions. It implements api.ChannelContext for channels and
// api.MessageResponder for the handler.
type GatewayManager struct {
	channels      map[string]Channel
	msgHandler    MessageHandler
	monitor       monitor.Monitor
	channelBuffer int
	mu            sync.RWMutex
}

// NewGatewayManager creates an empty manager.
func NewGatewayManager() *GatewayManager {
	return &GatewayManager{
		channels:      make(map[string]Channel),
		channelBuffer: 100,
	}
}

// SetChannelBuffer sets the internal relay channel capacity.
func (g *GatewayManager) SetChannelBuffer(size int) {
	if size > 0 {
		g.channelBuffer = size
	}
}

// SetMessageHandler sets the core processing function for inbound messages.
func (g *GatewayManager) SetMessageHandler(handler MessageHandler) {
	g.msgHandler = handler
}

// SetMonitor sets the monitoring sink.
func (g *GatewayManager) SetMonitor(m monitor.Monitor) {
	g.monitor = m
}

// Register adds a Channel.
func (g *GatewayManager) Register(c Channel) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.channels[c.ID()] = c
}

// GetChannel returns a registered Channel by ID.
func (g *GatewayManager) GetChannel(id string) (Channel, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.channels[id]
	return c, ok
}

// StartAll starts every registered Channel, passing the manager as context.
func (g *GatewayManager) StartAll() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for id, c := range g.channels {
		slog.Info("Starting channel", "channel", id)
		if err := c.Start(g); err != nil {
			return fmt.Errorf("failed to start channel %s: %w", id, err)
		}
	}
	return nil
}

// StopAll stops every Channel.
func (g *GatewayManager) StopAll() {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for id, c := range g.channels {
		slog.Info("Stopping channel", "channel", id)
		if err := c.Stop(); err != nil {
			slog.Error("Error stopping channel", "channel", id, "error", err)
		}
	}
}

// SendReply sends one complete message back to the session's channel.
func (g *GatewayManager) SendReply(session SessionContext, content string) error {
	slog.Info("Reply", "channel", session.ChannelID, "user", session.Username, "content", content)

	g.broadcast("ASSISTANT", session.ChannelID, session.Username, content)

	c, ok := g.GetChannel(session.ChannelID)
	if !ok {
		return fmt.Errorf("channel %s not found", session.ChannelID)
	}
	return c.Send(session, content)
}

// SendSignal relays a control signal to the session's channel. Channels that
// do not support signals ignore it silently.
func (g *GatewayManager) SendSignal(session SessionContext, signal string) error {
	c, ok := g.GetChannel(session.ChannelID)
	if !ok {
		return fmt.Errorf("channel %s not found", session.ChannelID)
	}

	if sc, ok := c.(SignalingChannel); ok {
		slog.Debug("Signal", "channel", session.ChannelID, "user", session.Username, "signal", signal)
		return sc.SendSignal(session, signal)
	}

	return nil
}

// StreamReply relays a fragment stream to the session's channel. The wrapper
// channel collects the full reply so it can be broadcast to the monitor once
// the stream ends. If the channel's Stream aborts early (closed sink), the
// wrapper keeps draining the producer so it never blocks, and the monitor
// still receives the full reply.
func (g *GatewayManager) StreamReply(session SessionContext, fragments <-chan string) error {
	c, ok := g.GetChannel(session.ChannelID)
	if !ok {
		return fmt.Errorf("channel %s not found", session.ChannelID)
	}

	wrapped := make(chan string, g.channelBuffer)
	sinkDone := make(chan struct{})
	go func() {
		defer close(wrapped)
		var full strings.Builder
		for fragment := range fragments {
			full.WriteString(fragment)
			select {
			case wrapped <- fragment:
			case <-sinkDone:
			}
		}
		if full.Len() > 0 {
			g.broadcast("ASSISTANT", session.ChannelID, session.Username, full.String())
		}
	}()

	err := c.Stream(session, wrapped)
	close(sinkDone)
	return err
}

// OnMessage implements api.ChannelContext, receiving messages from channels.
func (g *GatewayManager) OnMessage(channelID string, msg *UnifiedMessage) {
	slog.Info("Inbound message", "channel", channelID, "user", msg.Session.Username, "user_id", msg.Session.UserID, "content", msg.Content)

	g.broadcast("USER", channelID, msg.Session.Username, msg.Content)

	if g.msgHandler == nil {
		slog.Warn("No message handler set, dropping message", "channel", channelID)
		return
	}
	g.msgHandler(msg)
}

func (g *GatewayManager) broadcast(messageType, channelID, username, content string) {
	if g.monitor == nil {
		return
	}
	g.monitor.OnMessage(monitor.MonitorMessage{
		Timestamp:   time.Now(),
		MessageType: messageType,
		ChannelID:   channelID,
		Username:    username,
		Content:     content,
	})
}
