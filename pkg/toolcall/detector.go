// Package toolcall recovers structured capability invocations from
// free-form generated text. The upstream generator offers no schema
// contract, so detection is heuristic: it can false-positive and
// false-negative, and it never errors - it only renders a verdict.
package toolcall

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultReasoning is substituted when a parsed invocation carries no
// "reasoning" field.
const DefaultReasoning = "No reasoning provided"

// Invocation is a validated capability invocation extracted from one
// generation's output. Produced transiently, consumed once, never stored.
type Invocation struct {
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
	Reasoning  string         `json:"reasoning"`
}

// Detector decides whether a generated text block encodes a capability
// invocation and extracts it. Kept as an interface so the JSON heuristic can
// later be swapped for a provider's native structured-output mode without
// touching the orchestrator's state machine.
type Detector interface {
	// Detect reports whether text appears to encode an invocation.
	// It never errors; ambiguous text is simply "not a tool call".
	Detect(text string) bool

	// Parse extracts the invocation. The second return is false when no
	// valid invocation could be decoded - possible even after a positive
	// Detect, and the caller must treat that as a hard failure of the
	// tool path.
	Parse(text string) (*Invocation, bool)
}

// JSONDetector implements Detector for the JSON-object convention the
// system prompt instructs models to follow: a single self-contained object
// with "action" and mapping-typed "parameters" keys, optionally wrapped in
// a fenced code block.
type JSONDetector struct{}

// NewJSONDetector returns the default detection strategy.
func NewJSONDetector() *JSONDetector {
	return &JSONDetector{}
}

// stripFence removes a leading ```json marker and a trailing ``` marker,
// trimming surrounding whitespace. Generation frequently wraps JSON in a
// fenced block even when told not to.
func stripFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = cleaned[:len(cleaned)-len("```")]
	}
	return strings.TrimSpace(cleaned)
}

// decodeCandidate attempts to decode raw as a JSON object and checks the
// two-key invocation shape: an "action" key, and a "parameters" key whose
// value is itself a mapping. Returns the decoded object on success.
func decodeCandidate(raw string) (map[string]any, bool) {
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, false
	}
	if _, ok := data["action"]; !ok {
		return nil, false
	}
	params, ok := data["parameters"]
	if !ok {
		return nil, false
	}
	if _, ok := params.(map[string]any); !ok {
		return nil, false
	}
	return data, true
}

// findCandidate runs the shared two-pass scan: each line is tested
// independently for a self-contained object first, then the whole cleaned
// text is tried as a fallback. Only the first matching line is used;
// scanning stops there.
func findCandidate(text string) (map[string]any, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
			continue
		}
		if data, ok := decodeCandidate(line); ok {
			return data, true
		}
	}

	return decodeCandidate(stripFence(text))
}

// Detect implements Detector.
func (d *JSONDetector) Detect(text string) bool {
	_, ok := findCandidate(text)
	return ok
}

// Parse implements Detector.
func (d *JSONDetector) Parse(text string) (*Invocation, bool) {
	data, ok := findCandidate(text)
	if !ok {
		return nil, false
	}

	action, _ := data["action"].(string)
	params, _ := data["parameters"].(map[string]any)

	reasoning := DefaultReasoning
	if r, ok := data["reasoning"].(string); ok && r != "" {
		reasoning = r
	}

	return &Invocation{
		Action:     action,
		Parameters: params,
		Reasoning:  reasoning,
	}, true
}
