// Package handler bridges the gateway's unified messages into the
// orchestration pipeline and relays the resulting fragment stream back to
// the originating channel.
package handler

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ricky/pkg/api"
	"ricky/pkg/config"
	"ricky/pkg/llm"
	"ricky/pkg/orchestrator"
)

// ChatHandler receives unified messages from the gateway, runs one
// orchestration turn per message, and streams the reply back. For channels
// that do not carry their own history it buffers per-session history in
// memory.
type ChatHandler struct {
	orch         *orchestrator.Orchestrator
	sessions     *llm.SessionManager
	responder    api.MessageResponder
	systemConfig *config.SystemConfig
}

// NewChatHandler wires the orchestrator behind the gateway contract. The
// responder is injected later by the gateway builder via SetResponder.
func NewChatHandler(orch *orchestrator.Orchestrator, sysCfg *config.SystemConfig) *ChatHandler {
	return &ChatHandler{
		orch:         orch,
		sessions:     llm.NewSessionManager(),
		systemConfig: sysCfg,
	}
}

// SetResponder implements api.ResponderAware.
func (h *ChatHandler) SetResponder(responder api.MessageResponder) {
	h.responder = responder
}

// OnMessage implements api.MessageProcessor. One invocation is one turn.
func (h *ChatHandler) OnMessage(msg *api.UnifiedMessage) {
	if msg.TurnID == "" {
		msg.TurnID = newTurnID()
	}
	start := time.Now()

	slog.Info("Message received", "channel", msg.Session.ChannelID, "user", msg.Session.Username, "content", msg.Content, "turn_id", msg.TurnID)

	timeout := time.Duration(h.systemConfig.LLMTimeoutMs) * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ctx = context.WithValue(ctx, llm.TurnIDContextKey, msg.TurnID)

	// Channels that keep their own history supply it on the message; for the
	// rest the handler owns a per-session buffer.
	var history *llm.ChatHistory
	turnHistory := msg.History
	if turnHistory == nil {
		history = h.sessions.GetHistory(sessionKey(msg.Session))
		turnHistory = history.GetMessages()
	}

	// Nudge the UI if the first generation takes a while.
	delay := time.Duration(h.systemConfig.ThinkingInitDelayMs) * time.Millisecond
	thinkingTimer := time.AfterFunc(delay, func() {
		if err := h.responder.SendSignal(msg.Session, "thinking"); err != nil {
			slog.Debug("Thinking signal not delivered", "error", err)
		}
	})
	defer thinkingTimer.Stop()

	fragments := h.orch.Respond(ctx, orchestrator.Request{
		Model:   msg.Model,
		Message: msg.Content,
		History: turnHistory,
	})

	// Relay fragments to the channel while accumulating the full reply for
	// history. The relay channel mirrors the pipeline channel one to one.
	relay := make(chan string, h.systemConfig.InternalChannelBuffer)
	streamDone := make(chan struct{})
	go func() {
		defer close(streamDone)
		if err := h.responder.StreamReply(msg.Session, relay); err != nil {
			slog.Error("Failed to stream reply", "error", err, "turn_id", msg.TurnID)
		}
	}()

	var reply strings.Builder
	first := true
	for fragment := range fragments {
		if first {
			thinkingTimer.Stop()
			first = false
		}
		reply.WriteString(fragment)
		select {
		case relay <- fragment:
		case <-streamDone:
			// Sink is gone; keep draining so the history still records the
			// full reply.
		}
	}
	close(relay)
	<-streamDone

	if history != nil && reply.Len() > 0 {
		history.Add(llm.NewUserMessage(msg.Content))
		history.Add(llm.NewAssistantMessage(reply.String()))
	}

	slog.Info("Turn finished", "duration", time.Since(start).String(), "chars", reply.Len(), "turn_id", msg.TurnID)
}

// sessionKey isolates histories per channel and chat.
func sessionKey(s api.SessionContext) string {
	return s.ChannelID + ":" + s.ChatID
}

func newTurnID() string {
	b := make([]byte, 2)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}
