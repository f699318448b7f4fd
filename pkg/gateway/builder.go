package gateway

import (
	"fmt"

	"ricky/pkg/api"
	"ricky/pkg/config"
	"ricky/pkg/monitor"
)

// GatewayBuilder provides a fluent interface for assembling a GatewayManager
// with its channels, handler, and monitor, then starting everything.
type GatewayBuilder struct {
	gw           *GatewayManager
	monitor      monitor.Monitor
	systemConfig *config.SystemConfig
	handler      api.MessageProcessor
	channels     []api.Channel
}

// NewGatewayBuilder creates a fresh builder around a new GatewayManager.
func NewGatewayBuilder() *GatewayBuilder {
	return &GatewayBuilder{
		gw: NewGatewayManager(),
	}
}

// WithMonitor injects a monitoring implementation. It is started during
// Build.
func (b *GatewayBuilder) WithMonitor(m monitor.Monitor) *GatewayBuilder {
	b.monitor = m
	return b
}

// WithSystemConfig provides engine-level technical parameters.
func (b *GatewayBuilder) WithSystemConfig(cfg *config.SystemConfig) *GatewayBuilder {
	b.systemConfig = cfg
	return b
}

// WithChannel adds pre-built channel instances.
func (b *GatewayBuilder) WithChannel(channels ...api.Channel) *GatewayBuilder {
	b.channels = append(b.channels, channels...)
	return b
}

// WithHandler injects the message handler. Handlers implementing
// api.ResponderAware get the manager injected as their responder.
func (b *GatewayBuilder) WithHandler(h api.MessageProcessor) *GatewayBuilder {
	b.handler = h
	return b
}

// Build wires everything together, starts the monitor and all channels, and
// returns the running manager.
func (b *GatewayBuilder) Build() (*GatewayManager, error) {
	if b.systemConfig != nil {
		b.gw.SetChannelBuffer(b.systemConfig.InternalChannelBuffer)
	}

	if b.monitor != nil {
		b.gw.SetMonitor(b.monitor)
		if err := b.monitor.Start(); err != nil {
			return nil, fmt.Errorf("failed to start monitor: %w", err)
		}
	}

	for _, c := range b.channels {
		b.gw.Register(c)
	}

	if b.handler != nil {
		if setter, ok := b.handler.(api.ResponderAware); ok {
			setter.SetResponder(b.gw)
		}
		b.gw.SetMessageHandler(b.handler.OnMessage)
	}

	if err := b.gw.StartAll(); err != nil {
		return nil, fmt.Errorf("failed to start channels: %w", err)
	}

	return b.gw, nil
}
