package monitor

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIMonitorRendersDirections(t *testing.T) {
	var buf bytes.Buffer
	m := &CLIMonitor{out: &buf}

	ts := time.Date(2026, 8, 30, 14, 5, 6, 0, time.UTC)

	m.OnMessage(MonitorMessage{
		Timestamp:   ts,
		MessageType: "USER",
		ChannelID:   "web",
		Username:    "alice",
		Content:     "what's on my calendar?",
	})
	m.OnMessage(MonitorMessage{
		Timestamp:   ts,
		MessageType: "ASSISTANT",
		ChannelID:   "web",
		Content:     "You have a standup at nine.",
	})

	out := buf.String()
	assert.Contains(t, out, "[14:05:06]")
	assert.Contains(t, out, "<- web/alice: what's on my calendar?")
	assert.Contains(t, out, "-> web: You have a standup at nine.")
}

func TestCLIMonitorLifecycle(t *testing.T) {
	var buf bytes.Buffer
	m := &CLIMonitor{out: &buf}

	require.NoError(t, m.Start())
	require.NoError(t, m.Stop())
	assert.Contains(t, buf.String(), "Traffic monitor active")
}
