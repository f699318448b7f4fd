package monitor

import "time"

// MonitorMessage represents one observed message flowing through the gateway.
type MonitorMessage struct {
	Timestamp   time.Time
	MessageType string // "USER" or "ASSISTANT"
	ChannelID   string
	Username    string
	Content     string
}

// Monitor defines the behavior of a traffic monitor.
type Monitor interface {
	// Start activates the monitor
	Start() error

	// Stop deactivates the monitor
	Stop() error

	// OnMessage receives and displays a monitoring message
	OnMessage(msg MonitorMessage)
}
