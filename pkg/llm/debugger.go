package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// StreamDebugger handles the creation and writing of debug logs for provider
// streams. It centralizes the logic for directory creation, file naming, and
// safe writing.
type StreamDebugger struct {
	file    *os.File
	enabled bool
}

// NewStreamDebugger creates a new debugger instance.
// It attempts to open the debug file immediately if enabled.
//
// Parameters:
//   - ctx: Context containing the potential TurnIDContextKey
//   - provider: Name of the provider (e.g., "ollama", "openai")
//   - enabled: Whether debugging is globally enabled
func NewStreamDebugger(ctx context.Context, provider string, enabled bool) *StreamDebugger {
	if !enabled {
		return &StreamDebugger{enabled: false}
	}

	// Base debug dir
	debugDir := filepath.Join("debug", "chunks", provider)

	// If turn ID is in context, nest under it
	if val := ctx.Value(TurnIDContextKey); val != nil {
		if dirStr, ok := val.(string); ok && dirStr != "" {
			debugDir = filepath.Join("debug", "chunks", dirStr, provider)
		}
	}

	if err := os.MkdirAll(debugDir, 0755); err != nil {
		slog.Error("Failed to create debug directory", "dir", debugDir, "error", err)
		return &StreamDebugger{enabled: false}
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(debugDir, fmt.Sprintf("%s.log", timestamp))

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		slog.Error("Failed to open debug file", "file", filename, "error", err)
		return &StreamDebugger{enabled: false}
	}

	slog.Debug("Debug mode ON", "provider", provider, "file", filename)
	return &StreamDebugger{
		file:    f,
		enabled: true,
	}
}

// WriteString appends one raw chunk line to the debug file.
func (d *StreamDebugger) WriteString(raw string) {
	if !d.enabled || d.file == nil {
		return
	}
	d.file.WriteString(raw)
	d.file.WriteString("\n")
}

// Close releases the underlying file handle.
func (d *StreamDebugger) Close() {
	if d.file != nil {
		d.file.Close()
	}
}
