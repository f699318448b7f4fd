package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// strictJSON rejects unknown fields so a parameter mapping that does not fit
// a capability's declared signature fails at decode time instead of being
// silently accepted.
var strictJSON = jsoniter.Config{DisallowUnknownFields: true}.Froze()

// Structural dispatch failures. These indicate a mismatch between the
// generator's output and the dispatch contract, not a runtime data problem,
// so they are surfaced as errors rather than converted into a Result.
var (
	ErrUnknownTool   = errors.New("unknown tool")
	ErrInvalidParams = errors.New("invalid parameters")
)

// Result is the outcome mapping of one capability execution. It always
// carries a "status" key ("success" or "error"); the rest of the payload is
// capability-specific. Consumed once by the orchestrator to build grounding
// context, then discarded.
type Result map[string]any

// ErrorResult builds the standard error-status payload for a failed
// capability execution, preserving the error text and the action name.
func ErrorResult(action string, err error) Result {
	return Result{
		"status": "error",
		"error":  err.Error(),
		"tool":   action,
	}
}

// Tool defines the interface for any capability the assistant can invoke.
// Implementations decode their parameter mapping into a typed struct via
// DecodeParams so shape mismatches become structural failures.
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, params map[string]any) (Result, error)
}

// DecodeParams strictly decodes a parameter mapping into a typed parameter
// struct. Unknown fields are rejected. Any failure wraps ErrInvalidParams.
func DecodeParams(params map[string]any, out any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if err := strictJSON.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

// Registry acts as the central inventory of all capabilities and the sole
// dispatch surface for side-effecting operations.
type Registry struct {
	mu    sync.RWMutex    // Protects concurrent access to the tools map
	tools map[string]Tool // Internal map of tool name to implementation
}

// NewRegistry creates an empty capability registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name()] = tool
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Names returns the registered action names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// GetAll returns all registered tools
func (r *Registry) GetAll() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tools := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	return tools
}

// Execute dispatches one capability invocation.
//
// Failure contract:
//   - unknown action          -> error wrapping ErrUnknownTool
//   - parameter shape wrong   -> error wrapping ErrInvalidParams
//   - handler runtime failure -> Result with status "error", nil error
//
// The third case must never propagate as an error so the orchestrator can
// always proceed to a grounding generation.
func (r *Registry) Execute(ctx context.Context, action string, params map[string]any) (Result, error) {
	tool, ok := r.Get(action)
	if !ok {
		return nil, fmt.Errorf("%w: %q, available tools: %v", ErrUnknownTool, action, r.Names())
	}

	result, err := tool.Execute(ctx, params)
	if err != nil {
		if errors.Is(err, ErrInvalidParams) {
			return nil, fmt.Errorf("tool %q: %w", action, err)
		}
		slog.Error("Tool execution failed", "tool", action, "error", err)
		return ErrorResult(action, err), nil
	}

	slog.Info("Tool executed successfully", "tool", action)
	return result, nil
}
