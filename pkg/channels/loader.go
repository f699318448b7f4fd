package channels

import (
	"log/slog"

	"ricky/pkg/gateway"

	jsoniter "github.com/json-iterator/go"
)

// BuildFromConfig iterates through the configured channel map, resolves
// factories, and returns the constructed channels ready for gateway
// registration. A channel that fails to build is logged and skipped; the
// rest still come up.
func BuildFromConfig(configs map[string]jsoniter.RawMessage, deps Deps) []gateway.Channel {
	var built []gateway.Channel
	for name, rawConfig := range configs {
		factory, ok := GetChannelFactory(name)
		if !ok {
			slog.Warn("Unknown channel type", "name", name)
			continue
		}

		channel, err := factory.Create(rawConfig, deps)
		if err != nil {
			slog.Error("Failed to create channel", "name", name, "error", err)
			continue
		}

		if channel == nil {
			continue
		}

		built = append(built, channel)
		slog.Info("Channel configured", "name", name)
	}
	return built
}
