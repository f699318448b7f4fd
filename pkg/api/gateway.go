package api

import (
	"ricky/pkg/llm"
)

// Channel defines the standardized lifecycle interface for communication platforms.
type Channel interface {
	ID() string
	Start(ctx ChannelContext) error
	Stop() error
	Send(session SessionContext, message string) error
	// Stream relays a lazy sequence of response fragments to the session.
	// The sequence ends when the channel is closed by the producer; a write
	// failure (closed sink) is returned so the producer can stop early.
	Stream(session SessionContext, fragments <-chan string) error
}

// SignalingChannel is an optional extension of the Channel interface for
// platforms that support control signals (e.g., typing indicators, thinking UI).
type SignalingChannel interface {
	Channel
	// SendSignal transmits a control signal (e.g., "thinking") to the target
	// session to change UI state or metadata.
	SendSignal(session SessionContext, signal string) error
}

// ChannelContext provides the interface for a Channel implementation to
// communicate back with the Gateway core.
type ChannelContext interface {
	MessageResponder
	OnMessage(channelID string, msg *UnifiedMessage)
}

// MessageResponder defines the capabilities for sending responses back to a channel.
type MessageResponder interface {
	SendReply(session SessionContext, content string) error
	StreamReply(session SessionContext, fragments <-chan string) error
	SendSignal(session SessionContext, signal string) error
}

// UnifiedMessage defines the standardized internal data structure for all
// incoming messages within the system.
type UnifiedMessage struct {
	Session SessionContext // Contextual information about the source (User, Chat)
	Content string         // Standardized text content of the message
	Model   string         // Requested model identifier; empty means the configured default
	History []llm.Message  // Prior turns supplied by the caller; nil means the channel keeps none
	Raw     any            // Optional storage for the original platform-specific payload object
	TurnID  string         // Unique identifier for grouping one turn's logs
}

// SessionContext encapsulates identity and routing information for a specific
// conversation unit on a specific communication channel.
type SessionContext struct {
	ChannelID string // Identifier of the channel that originated the session (e.g., "telegram")
	UserID    string // Platform-specific unique identifier for the user
	ChatID    string // Platform-specific identifier for the chat or group (may match UserID for DMs)
	Username  string // Display name or nickname of the user as provided by the platform
}

// MessageHandler defines the function signature for processing incoming messages.
// It implements the MessageProcessor interface.
type MessageHandler func(*UnifiedMessage)

// OnMessage allows MessageHandler to satisfy the MessageProcessor interface.
func (h MessageHandler) OnMessage(msg *UnifiedMessage) {
	h(msg)
}

// MessageProcessor defines the interface for components that can process incoming messages.
type MessageProcessor interface {
	OnMessage(msg *UnifiedMessage)
}

// ResponderAware defines an interface for components that require a MessageResponder to be injected.
type ResponderAware interface {
	SetResponder(responder MessageResponder)
}

// GatewayHandler is a composite interface for components that handle incoming
// messages AND are aware of the responder (e.g., ChatHandler).
type GatewayHandler interface {
	MessageProcessor
	ResponderAware
}
