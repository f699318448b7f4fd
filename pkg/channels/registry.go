// Package channels maps platform names to channel factories so new
// platforms can be added without touching the gateway core.
package channels

import (
	"ricky/pkg/config"
	"ricky/pkg/gateway"
	"ricky/pkg/llm"

	jsoniter "github.com/json-iterator/go"
)

// Deps bundles the shared resources a channel may need at construction
// time.
type Deps struct {
	System *config.SystemConfig
	Models *llm.ModelDirectory
}

// ChannelFactory defines the abstract interface for platform-specific
// channel creators.
type ChannelFactory interface {
	// Create instantiates a concrete Channel implementation using the
	// provided configuration and shared system resources.
	Create(rawConfig jsoniter.RawMessage, deps Deps) (gateway.Channel, error)
}

// channelRegistry stores the mapping between platform names
// (e.g., "telegram") and their factory implementations.
var channelRegistry = make(map[string]ChannelFactory)

// RegisterChannel adds a new ChannelFactory to the global internal registry.
// Typically called during the package's init() phase.
func RegisterChannel(name string, factory ChannelFactory) {
	channelRegistry[name] = factory
}

// GetChannelFactory retrieves a registered ChannelFactory by platform name.
func GetChannelFactory(name string) (ChannelFactory, bool) {
	f, ok := channelRegistry[name]
	return f, ok
}
