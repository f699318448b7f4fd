package web

import (
	"fmt"

	"ricky/pkg/channels"
	"ricky/pkg/gateway"

	jsoniter "github.com/json-iterator/go"
)

// WebFactory builds Web channels.
type WebFactory struct{}

// Create implements ChannelFactory.
func (f *WebFactory) Create(rawConfig jsoniter.RawMessage, deps channels.Deps) (gateway.Channel, error) {
	pCfg := WebConfig{Port: 9453}

	if err := json.Unmarshal(rawConfig, &pCfg); err != nil {
		return nil, fmt.Errorf("failed to parse web config: %w", err)
	}

	return NewWebChannel(pCfg, deps.Models), nil
}

func init() {
	channels.RegisterChannel("web", &WebFactory{})
}
