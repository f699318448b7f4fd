package monitor

import (
	"fmt"
	"io"
	"os"
)

// CLIMonitor renders gateway traffic to the terminal, one line per message.
// Inbound lines show the originating channel and user; assistant lines show
// the reply text. Intended as the default monitor for local runs.
type CLIMonitor struct {
	out io.Writer
}

// NewCLIMonitor creates a monitor writing to stdout.
func NewCLIMonitor() *CLIMonitor {
	return &CLIMonitor{out: os.Stdout}
}

// Start implements Monitor.
func (m *CLIMonitor) Start() error {
	fmt.Fprintln(m.out, "================================================================")
	fmt.Fprintln(m.out, " Traffic monitor active")
	fmt.Fprintln(m.out, "================================================================")
	return nil
}

// Stop implements Monitor.
func (m *CLIMonitor) Stop() error {
	return nil
}

// OnMessage implements Monitor.
func (m *CLIMonitor) OnMessage(msg MonitorMessage) {
	// Dim timestamp, then direction marker: "<-" inbound, "->" assistant.
	ts := msg.Timestamp.Format("15:04:05")

	if msg.MessageType == "ASSISTANT" {
		fmt.Fprintf(m.out, "\033[90m[%s]\033[0m -> %s: %s\n", ts, msg.ChannelID, msg.Content)
		return
	}
	fmt.Fprintf(m.out, "\033[90m[%s]\033[0m <- %s/%s: %s\n", ts, msg.ChannelID, msg.Username, msg.Content)
}
