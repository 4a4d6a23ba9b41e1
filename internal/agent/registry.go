package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// ToolHandler executes one tool invocation for a user. Raw arguments arrive
// exactly as the model produced them.
type ToolHandler func(ctx context.Context, userID int64, args json.RawMessage) (any, error)

type toolEntry struct {
	definition openai.Tool
	handle     ToolHandler
}

// Registry is the immutable catalog of tools exposed to the model. It is
// built once at startup and injected wherever needed.
type Registry struct {
	order   []string
	entries map[string]toolEntry
}

func newRegistry() *Registry {
	return &Registry{entries: make(map[string]toolEntry)}
}

func (r *Registry) register(name, description string, parameters json.RawMessage, handle ToolHandler) {
	r.order = append(r.order, name)
	r.entries[name] = toolEntry{
		definition: openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        name,
				Description: description,
				Parameters:  parameters,
			},
		},
		handle: handle,
	}
}

// Definitions returns the catalog in registration order, for the request's
// tools field.
func (r *Registry) Definitions() []openai.Tool {
	defs := make([]openai.Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.entries[name].definition)
	}
	return defs
}

// Dispatch routes one invocation to its handler and always returns a JSON-
// serializable result: handler failures and unknown names become {"error"}
// payloads for the model to read, never a raised error. Malformed argument
// JSON is treated as an empty object.
func (r *Registry) Dispatch(ctx context.Context, userID int64, name, rawArgs string) (result any) {
	defer func() {
		if rec := recover(); rec != nil {
			result = errorResult(fmt.Sprintf("tool %s panicked: %v", name, rec))
		}
	}()

	entry, ok := r.entries[name]
	if !ok {
		return errorResult(fmt.Sprintf("Unknown tool %s", name))
	}

	args := json.RawMessage(rawArgs)
	if len(args) == 0 || !json.Valid(args) {
		args = json.RawMessage("{}")
	}

	out, err := entry.handle(ctx, userID, args)
	if err != nil {
		return errorResult(err.Error())
	}
	return out
}

func errorResult(msg string) map[string]string {
	return map[string]string{"error": msg}
}
