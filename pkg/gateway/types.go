package gateway

import (
	"ricky/pkg/api"
)

// Re-export types from api package via aliases so channel implementations
// and the manager share one vocabulary.
type Channel = api.Channel
type SignalingChannel = api.SignalingChannel
type MessageResponder = api.MessageResponder
type ChannelContext = api.ChannelContext
type UnifiedMessage = api.UnifiedMessage
type SessionContext = api.SessionContext

type MessageHandler = api.MessageHandler
