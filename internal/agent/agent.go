// Package agent runs the tool-calling conversation loop.
//
// A turn moves through a fixed sequence of phases: load history, compose the
// prompt, plan (first model call with tools), dispatch tool calls, resolve
// (second model call with tool results), persist, respond. The session lock
// is held for the whole turn, so concurrent turns on one session serialize.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/studypilot/studypilot/internal/core"
	"github.com/studypilot/studypilot/internal/llm"
	"github.com/studypilot/studypilot/internal/logging"
	"github.com/studypilot/studypilot/internal/session"
	"github.com/studypilot/studypilot/internal/tools"
)

// HistoryWindow is how many prior messages a turn loads per mode.
const HistoryWindow = 10

// Turn phases, in order.
type phase int

const (
	phaseLoad phase = iota
	phaseCompose
	phasePlan
	phaseDispatch
	phaseResolve
	phasePersist
)

func (p phase) String() string {
	switch p {
	case phaseLoad:
		return "load"
	case phaseCompose:
		return "compose"
	case phasePlan:
		return "plan"
	case phaseDispatch:
		return "dispatch"
	case phaseResolve:
		return "resolve"
	case phasePersist:
		return "persist"
	default:
		return "unknown"
	}
}

// ToolResult is one executed tool call's output, correlated by id.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output"`
}

// TurnResult is what a completed turn returns to the caller.
type TurnResult struct {
	Response    string         `json:"response"`
	ToolCalls   []llm.ToolCall `json:"tool_calls,omitempty"`
	ToolResults []ToolResult   `json:"tool_results,omitempty"`
}

// Orchestrator drives turns across sessions.
type Orchestrator struct {
	sessions *session.Registry
	llm      *llm.Client
}

// New creates an orchestrator.
func New(sessions *session.Registry, client *llm.Client) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		llm:      client,
	}
}

// turn carries one conversation turn through its phases.
type turn struct {
	id       string
	phase    phase
	handle   *session.Handle
	registry *tools.Registry
	mode     string
	message  string
	log      *logging.Logger

	history  []*core.ChatMessage
	messages []llm.Message
}

func (t *turn) advance(p phase) {
	t.phase = p
	t.log.WithField("phase", p.String()).Debug("turn phase")
}

// ChatTurn runs one full conversation turn for a session.
func (o *Orchestrator) ChatTurn(ctx context.Context, sessionID core.SessionID, mode, message string) (*TurnResult, error) {
	if message == "" {
		return nil, fmt.Errorf("message is required: %w", core.ErrMissingRequired)
	}
	if mode == "" {
		mode = core.ModeGeneral
	}
	if !o.llm.IsConfigured() {
		return nil, core.ErrLLMUnavailable
	}

	h, err := o.sessions.Acquire(sessionID)
	if err != nil {
		return nil, err
	}

	h.Lock()
	defer h.Unlock()

	turnID := uuid.NewString()
	t := &turn{
		id:       turnID,
		handle:   h,
		registry: tools.NewRegistry(h),
		mode:     mode,
		message:  message,
		log: logging.WithFields(map[string]interface{}{
			"turn": turnID[:8],
			"mode": mode,
		}),
	}

	return o.run(ctx, t)
}

func (o *Orchestrator) run(ctx context.Context, t *turn) (*TurnResult, error) {
	// Load: prior history for this mode only.
	t.advance(phaseLoad)
	history, err := t.handle.Chat.Recent(t.mode, HistoryWindow)
	if err != nil {
		return nil, err
	}
	t.history = history

	// Compose: system prompt, history, then the new user message.
	t.advance(phaseCompose)
	t.messages = append(t.messages, llm.Message{Role: core.RoleSystem, Content: systemPrompt(t.mode)})
	for _, m := range history {
		t.messages = append(t.messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	t.messages = append(t.messages, llm.Message{Role: core.RoleUser, Content: t.message})

	// Plan: first model call, tools offered.
	t.advance(phasePlan)
	planResp, err := o.llm.Complete(ctx, llm.ChatRequest{
		Messages:    t.messages,
		Tools:       t.registry.List(),
		Temperature: 0.7,
		MaxTokens:   2048,
	})
	if err != nil {
		return nil, fmt.Errorf("plan call failed: %w", err)
	}
	draft, err := planResp.First()
	if err != nil {
		return nil, err
	}

	if len(draft.ToolCalls) == 0 {
		// Direct answer, no dispatch or resolve needed.
		if err := o.persist(t, draft.Content); err != nil {
			return nil, err
		}
		return &TurnResult{Response: draft.Content}, nil
	}

	// Dispatch: execute tool calls in order, each inside its own error
	// boundary. A failed call becomes an error payload the model can see;
	// it never aborts the turn.
	t.advance(phaseDispatch)
	results := o.dispatch(ctx, t, draft.ToolCalls)

	// Resolve: second model call carrying the draft and tool outputs.
	// No tools this time; the model must answer in prose.
	t.advance(phaseResolve)
	resolveMessages := append([]llm.Message{}, t.messages...)
	resolveMessages = append(resolveMessages, llm.Message{
		Role:      core.RoleAssistant,
		Content:   draft.Content,
		ToolCalls: draft.ToolCalls,
	})
	for _, r := range results {
		resolveMessages = append(resolveMessages, llm.Message{
			Role:       core.RoleTool,
			Content:    r.Output,
			ToolCallID: r.ToolCallID,
		})
	}

	finalResp, err := o.llm.Complete(ctx, llm.ChatRequest{
		Messages:    resolveMessages,
		Temperature: 0.7,
		MaxTokens:   2048,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve call failed: %w", err)
	}
	final, err := finalResp.First()
	if err != nil {
		return nil, err
	}

	if err := o.persist(t, final.Content); err != nil {
		return nil, err
	}

	return &TurnResult{
		Response:    final.Content,
		ToolCalls:   draft.ToolCalls,
		ToolResults: results,
	}, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, t *turn, calls []llm.ToolCall) []ToolResult {
	results := make([]ToolResult, 0, len(calls))
	for _, call := range calls {
		id := call.ID
		if id == "" {
			// Some providers omit call ids; correlation still needs one.
			id = uuid.NewString()
		}

		output, err := t.registry.Execute(ctx, call.Function.Name, call.Function.Arguments)
		if err != nil {
			t.log.WithField("tool", call.Function.Name).Warn("tool call failed: %v", err)
			msg := err.Error()
			if errors.Is(err, core.ErrUnknownTool) {
				msg = "Unknown tool"
			}
			payload, _ := json.Marshal(map[string]string{"error": msg})
			output = string(payload)
		}

		results = append(results, ToolResult{ToolCallID: id, Output: output})
	}
	return results
}

// persist writes the user message and then the assistant reply. Order
// matters: history replayed later must show the user message first.
func (o *Orchestrator) persist(t *turn, response string) error {
	t.advance(phasePersist)

	if _, err := t.handle.Chat.Append(&core.ChatMessage{
		Mode: t.mode, Role: core.RoleUser, Content: t.message,
	}); err != nil {
		return err
	}
	if _, err := t.handle.Chat.Append(&core.ChatMessage{
		Mode: t.mode, Role: core.RoleAssistant, Content: response,
	}); err != nil {
		return err
	}
	return nil
}
