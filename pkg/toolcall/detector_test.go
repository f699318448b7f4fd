package toolcall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPlainProse(t *testing.T) {
	d := NewJSONDetector()

	assert.False(t, d.Detect("The capital of France is Paris."))
	assert.False(t, d.Detect(""))
	assert.False(t, d.Detect("Here is some JSON talk about {braces} but no object."))
}

func TestDetectInvocationLine(t *testing.T) {
	d := NewJSONDetector()

	text := `Sure, let me check.
{"action": "google_calendar_events", "parameters": {"max_results": 5}, "reasoning": "user asked for events"}
Done.`

	require.True(t, d.Detect(text))

	inv, ok := d.Parse(text)
	require.True(t, ok)
	assert.Equal(t, "google_calendar_events", inv.Action)
	assert.Equal(t, float64(5), inv.Parameters["max_results"])
	assert.Equal(t, "user asked for events", inv.Reasoning)
}

func TestDetectFencedBlock(t *testing.T) {
	d := NewJSONDetector()

	text := "```json\n{\"action\": \"google_calendar_events\",\n \"parameters\": {}}\n```"

	require.True(t, d.Detect(text))

	inv, ok := d.Parse(text)
	require.True(t, ok)
	assert.Equal(t, "google_calendar_events", inv.Action)
	assert.Empty(t, inv.Parameters)
}

func TestParametersMustBeMapping(t *testing.T) {
	d := NewJSONDetector()

	assert.False(t, d.Detect(`{"action": "x", "parameters": "not a map"}`))
	assert.False(t, d.Detect(`{"action": "x", "parameters": [1, 2]}`))
	assert.False(t, d.Detect(`{"action": "x"}`))
	assert.False(t, d.Detect(`{"parameters": {}}`))
}

func TestEmptyParametersIsValid(t *testing.T) {
	d := NewJSONDetector()

	inv, ok := d.Parse(`{"action": "google_calendar_events", "parameters": {}}`)
	require.True(t, ok)
	assert.Equal(t, "google_calendar_events", inv.Action)
	assert.Equal(t, DefaultReasoning, inv.Reasoning)
}

func TestFirstMatchingLineWins(t *testing.T) {
	d := NewJSONDetector()

	text := `{"action": "first", "parameters": {}}
{"action": "second", "parameters": {}}`

	inv, ok := d.Parse(text)
	require.True(t, ok)
	assert.Equal(t, "first", inv.Action)
}

func TestWholeTextFallback(t *testing.T) {
	d := NewJSONDetector()

	// Object spans multiple lines, so no single line matches; the whole
	// cleaned text decodes.
	text := `{
  "action": "google_calendar_events",
  "parameters": {"calendar_id": "primary"}
}`

	inv, ok := d.Parse(text)
	require.True(t, ok)
	assert.Equal(t, "google_calendar_events", inv.Action)
	assert.Equal(t, "primary", inv.Parameters["calendar_id"])
}

func TestJSONEmbeddedInProseFallbackFails(t *testing.T) {
	d := NewJSONDetector()

	// Neither a self-contained line nor a clean whole-text object.
	text := `I think I should use a tool: {"action": "x", "parameters": {}} would do it.`

	assert.False(t, d.Detect(text))
	_, ok := d.Parse(text)
	assert.False(t, ok)
}
