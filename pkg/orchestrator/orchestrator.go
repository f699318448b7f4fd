// Package orchestrator runs the per-turn pipeline: one buffered generation,
// capability detection, optional dispatch, and a grounding generation that
// presents the capability result. Every path yields the same contract, a
// fragment channel that closes when the turn is over.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	jsoniter "github.com/json-iterator/go"

	"ricky/pkg/llm"
	"ricky/pkg/prompts"
	"ricky/pkg/toolcall"
	"ricky/pkg/tools"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseFailureNotice is streamed as the entire reply when text detected as a
// capability invocation cannot actually be parsed into one.
const ParseFailureNotice = "I tried to use a tool but there was an error parsing the request. Let me try a different approach."

// ProviderResolver maps a model identifier to a ready provider.
// *llm.ModelDirectory satisfies it.
type ProviderResolver interface {
	Resolve(model string) (llm.ModelProvider, error)
}

// Request is one user turn entering the pipeline.
type Request struct {
	Model   string        // Model identifier, empty means the configured default
	Message string        // The user's message text
	History []llm.Message // Prior turns, oldest first, may be nil
}

// Orchestrator owns a turn's control flow. Construction wires the three
// collaborators; per-turn state lives on the goroutine that Respond spawns,
// so one Orchestrator serves concurrent turns.
type Orchestrator struct {
	resolver     ProviderResolver
	registry     *tools.Registry
	detector     toolcall.Detector
	defaultModel string
	systemPrompt string
	buffer       int
	toolsEnabled bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDetector replaces the default JSON detection strategy.
func WithDetector(d toolcall.Detector) Option {
	return func(o *Orchestrator) { o.detector = d }
}

// WithChannelBuffer sets the fragment channel capacity.
func WithChannelBuffer(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.buffer = n
		}
	}
}

// WithToolsEnabled toggles the capability path. When disabled every turn is
// a direct reply and the detector never runs.
func WithToolsEnabled(enabled bool) Option {
	return func(o *Orchestrator) { o.toolsEnabled = enabled }
}

// WithSystemPrompt overrides the built-in persona for the first generation.
// The grounding persona is never overridden.
func WithSystemPrompt(prompt string) Option {
	return func(o *Orchestrator) {
		if prompt != "" {
			o.systemPrompt = prompt
		}
	}
}

// New creates an orchestrator around a provider resolver and a capability
// registry.
func New(resolver ProviderResolver, registry *tools.Registry, defaultModel string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		resolver:     resolver,
		registry:     registry,
		detector:     toolcall.NewJSONDetector(),
		defaultModel: defaultModel,
		systemPrompt: prompts.System,
		buffer:       10,
		toolsEnabled: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Respond runs one turn. The returned channel carries reply fragments and is
// always closed when the turn finishes, whatever path it took. Failures are
// reported in-band as a final fragment, never as a panic or a leaked error.
func (o *Orchestrator) Respond(ctx context.Context, req Request) <-chan string {
	out := make(chan string, o.buffer)

	go func() {
		defer close(out)
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Orchestration panic recovered", "panic", r)
				emit(ctx, out, fmt.Sprintf("Error during response generation: %v", r))
			}
		}()
		o.run(ctx, req, out)
	}()

	return out
}

func (o *Orchestrator) run(ctx context.Context, req Request, out chan<- string) {
	model := req.Model
	if model == "" {
		model = o.defaultModel
	}

	provider, err := o.resolver.Resolve(model)
	if err != nil {
		slog.Error("Model resolution failed", "model", model, "error", err)
		emit(ctx, out, fmt.Sprintf("Error: model %q is not available.", model))
		return
	}

	messages := o.buildMessages(req)

	slog.Info("Starting generation", "model", model, "history_len", len(req.History))

	// The first generation is always buffered fully. Detection needs the
	// complete text, so nothing reaches the caller until the verdict is in.
	full, n := drain(ctx, provider.GenerateStream(ctx, messages))
	slog.Debug("Initial generation complete", "fragments", n, "chars", len(full))

	if !o.toolsEnabled || !o.detector.Detect(full) {
		llm.EmitWords(ctx, full, out)
		return
	}

	inv, ok := o.detector.Parse(full)
	if !ok {
		slog.Warn("Detected tool call could not be parsed", "model", model)
		emit(ctx, out, ParseFailureNotice)
		return
	}

	slog.Info("Tool call detected", "action", inv.Action, "reasoning", inv.Reasoning)

	result, err := o.registry.Execute(ctx, inv.Action, inv.Parameters)
	if err != nil {
		// Structural dispatch failure. The turn still proceeds to grounding
		// so the model can explain the problem to the user.
		slog.Error("Tool dispatch failed", "action", inv.Action, "error", err)
		result = tools.ErrorResult(inv.Action, err)
	}

	o.ground(ctx, provider, req.Message, inv.Action, result, out)
}

// ground runs the second generation: a fresh context that contains only the
// focused persona and the serialized capability result, never the original
// history. Its fragments pass through unchanged.
func (o *Orchestrator) ground(ctx context.Context, provider llm.ModelProvider, userMessage, action string, result tools.Result, out chan<- string) {
	resultJSON, err := json.MarshalToString(result)
	if err != nil {
		resultJSON = fmt.Sprintf("%v", result)
	}

	messages := []llm.Message{
		llm.NewSystemMessage(prompts.Grounding),
		llm.NewUserMessage(prompts.ToolContext(userMessage, action, resultJSON)),
	}

	for fragment := range provider.GenerateStream(ctx, messages) {
		if !emit(ctx, out, fragment) {
			return
		}
	}
}

// buildMessages assembles the first generation's context: persona, surviving
// history, then the current message.
func (o *Orchestrator) buildMessages(req Request) []llm.Message {
	history := llm.FilterHistory(req.History)
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.NewSystemMessage(o.systemPrompt))
	messages = append(messages, history...)
	messages = append(messages, llm.NewUserMessage(req.Message))
	return messages
}

// drain consumes a fragment channel to completion and returns the
// concatenated text and fragment count.
func drain(ctx context.Context, in <-chan string) (string, int) {
	var full string
	n := 0
	for {
		select {
		case fragment, ok := <-in:
			if !ok {
				return full, n
			}
			full += fragment
			n++
		case <-ctx.Done():
			return full, n
		}
	}
}

func emit(ctx context.Context, out chan<- string, fragment string) bool {
	select {
	case out <- fragment:
		return true
	case <-ctx.Done():
		return false
	}
}
