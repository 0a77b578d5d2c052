// Package tools defines the tools the model can call during a turn.
//
// Each registry is bound to one session handle; a tool call only ever
// touches the calling session's data.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/studypilot/studypilot/internal/core"
	"github.com/studypilot/studypilot/internal/session"
)

// Tool represents a callable tool.
type Tool struct {
	Name        string                                                         `json:"name"`
	Description string                                                         `json:"description"`
	Parameters  map[string]any                                                 `json:"parameters"`
	Handler     func(ctx context.Context, args map[string]any) (string, error) `json:"-"`
}

// Registry holds the tools for one session.
type Registry struct {
	tools map[string]*Tool
	h     *session.Handle
}

// NewRegistry creates a tool registry bound to a session handle.
func NewRegistry(h *session.Handle) *Registry {
	r := &Registry{
		tools: make(map[string]*Tool),
		h:     h,
	}
	r.registerBuiltins()
	return r
}

// Register adds a tool.
func (r *Registry) Register(t *Tool) {
	r.tools[t.Name] = t
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) *Tool {
	return r.tools[name]
}

// List returns all tools in the wire shape the model expects.
func (r *Registry) List() []map[string]any {
	var result []map[string]any
	for _, t := range r.tools {
		result = append(result, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name,
				"description": t.Description,
				"parameters":  t.Parameters,
			},
		})
	}
	return result
}

// Execute runs a tool by name with given arguments.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	tool := r.tools[name]
	if tool == nil {
		return "", fmt.Errorf("%s: %w", name, core.ErrUnknownTool)
	}
	return tool.Handler(ctx, args)
}

// toJSON renders a handler result for the model.
func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Argument extraction. Arguments arrive as decoded JSON, so numbers are
// float64 regardless of the declared schema type.

func argString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func argStringPtr(args map[string]any, key string) *string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return &s
		}
	}
	return nil
}

func argFloatPtr(args map[string]any, key string) *float64 {
	if v, ok := args[key]; ok {
		if f, ok := v.(float64); ok {
			return &f
		}
	}
	return nil
}

func argBoolPtr(args map[string]any, key string) *bool {
	if v, ok := args[key]; ok {
		if b, ok := v.(bool); ok {
			return &b
		}
	}
	return nil
}

func argInt(args map[string]any, key string) int {
	if f, ok := args[key].(float64); ok {
		return int(f)
	}
	return 0
}

func argID(args map[string]any) (int64, error) {
	f, ok := args["id"].(float64)
	if !ok {
		return 0, fmt.Errorf("id is required: %w", core.ErrMissingRequired)
	}
	return int64(f), nil
}

func argUpdates(args map[string]any) (map[string]any, error) {
	u, ok := args["updates"].(map[string]any)
	if !ok || len(u) == 0 {
		return nil, fmt.Errorf("updates is required: %w", core.ErrMissingRequired)
	}
	return u, nil
}

func (r *Registry) registerBuiltins() {
	r.registerProfileTools()
	r.registerAcademicTools()
	r.registerProfessionalTools()
	r.registerCourseTools()
	r.registerStudyTools()
	r.registerCombinedTools()
}
