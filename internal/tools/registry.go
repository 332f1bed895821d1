package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
)

// Handler is the function signature for tool implementations.
type Handler func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Tool describes one registered operation: its unique name, a description
// for callers, and the JSON schema of its argument object.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

type registration struct {
	tool     Tool
	handler  Handler
	resolved *jsonschema.Resolved
}

// Registry is the name → (descriptor, handler) catalog. It is built once at
// startup and never mutated afterwards, so dispatch needs no locking.
type Registry struct {
	order   []string
	entries map[string]*registration
	logger  *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		entries: map[string]*registration{},
		logger:  logger,
	}
}

// Register adds a tool. Registering a name twice is a programming error and
// fails rather than silently overwriting the earlier handler.
func (r *Registry) Register(tool Tool, handler Handler) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if handler == nil {
		return fmt.Errorf("tool %s: handler must not be nil", tool.Name)
	}
	if _, exists := r.entries[tool.Name]; exists {
		return fmt.Errorf("tool %s is already registered", tool.Name)
	}

	var resolved *jsonschema.Resolved
	if tool.InputSchema != nil {
		var err error
		resolved, err = tool.InputSchema.Resolve(nil)
		if err != nil {
			return fmt.Errorf("tool %s: invalid input schema: %w", tool.Name, err)
		}
	}

	r.order = append(r.order, tool.Name)
	r.entries[tool.Name] = &registration{
		tool:     tool,
		handler:  handler,
		resolved: resolved,
	}
	return nil
}

// Tools returns the descriptors in registration order.
func (r *Registry) Tools() []Tool {
	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.entries[name].tool)
	}
	return tools
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Dispatch looks up the named tool, validates the arguments against its
// declared schema, and invokes the handler. An unknown name is an
// UnknownTool error, never a fallback handler. Handler panics are confined
// to the dispatch boundary.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]interface{}) (result interface{}, err error) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, Errorf(CodeUnknownTool, "unknown tool: %s", name)
	}

	if args == nil {
		args = map[string]interface{}{}
	}

	if entry.resolved != nil {
		if verr := entry.resolved.Validate(args); verr != nil {
			return nil, Errorf(CodeInvalidArgument, "invalid arguments for %s: %v", name, verr)
		}
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("tool handler panicked", "tool", name, "panic", p)
			result = nil
			err = fmt.Errorf("tool %s failed: %v", name, p)
		}
	}()

	r.logger.Debug("dispatching tool call", "tool", name)
	return entry.handler(ctx, args)
}
