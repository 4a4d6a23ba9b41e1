// Package agent drives the natural-language financial assistant: a bounded
// model/tool round-trip loop over an external chat-completion service, with
// every step of the exchange persisted to the conversation log.
package agent

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"

	"paisatrack/internal/models"
)

const (
	// maxModelCalls bounds the round trips a single turn may spend.
	maxModelCalls = 4
	// contextLimit is how many prior non-tool messages are resent.
	contextLimit = 30

	// fallbackMessage is the turn's answer when the loop exhausts its
	// model calls without a plain-text response.
	fallbackMessage = "I'm having trouble formulating a response right now, but your data and tools are available."
)

// loopState is where a turn currently stands. A turn only ever moves
// awaitingModel → dispatching → awaitingModel … until done or exhausted.
type loopState int

const (
	stateAwaitingModel loopState = iota
	stateDispatching
	stateDone
	stateExhausted
)

type Agent struct {
	llm           ChatCompleter
	conversations ConversationStore
	registry      *Registry
	now           Clock
	log           *slog.Logger
}

func New(llm ChatCompleter, conversations ConversationStore, registry *Registry, now Clock, logger *slog.Logger) *Agent {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		llm:           llm,
		conversations: conversations,
		registry:      registry,
		now:           now,
		log:           logger,
	}
}

// turn is the mutable state of one SendMessage invocation.
type turn struct {
	userID   int64
	messages []openai.ChatCompletionMessage
	calls    int
	pending  []openai.ToolCall
	final    string
	state    loopState
}

// SendMessage runs one complete turn: persist the user message, then drive
// the model/tool state machine until a final answer or exhaustion. Upstream
// and storage failures abort the turn; everything persisted so far stands.
func (a *Agent) SendMessage(ctx context.Context, userID int64, text string) (string, error) {
	history, err := a.conversations.RecentContext(ctx, userID, contextLimit)
	if err != nil {
		return "", err
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: buildSystemPrompt(a.now()),
	})
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: text})

	// The user message is durable before the first model call.
	if _, err := a.conversations.Append(ctx, userID, models.RoleUser, text, nil); err != nil {
		return "", err
	}

	t := &turn{userID: userID, messages: messages, state: stateAwaitingModel}
	for t.state != stateDone && t.state != stateExhausted {
		if err := a.step(ctx, t); err != nil {
			return "", err
		}
	}

	if t.state == stateExhausted {
		a.log.Warn("turn exhausted without final answer", "user_id", userID, "model_calls", t.calls)
		return fallbackMessage, nil
	}
	return t.final, nil
}

// step advances the turn by one transition. The call bound is re-checked
// only here, so a dispatching iteration always runs to completion.
func (a *Agent) step(ctx context.Context, t *turn) error {
	switch t.state {
	case stateAwaitingModel:
		return a.stepModel(ctx, t)
	case stateDispatching:
		return a.stepTools(ctx, t)
	default:
		return nil
	}
}

func (a *Agent) stepModel(ctx context.Context, t *turn) error {
	if t.calls >= maxModelCalls {
		t.state = stateExhausted
		return nil
	}
	t.calls++

	resp, err := a.llm.Complete(ctx, t.messages, a.registry.Definitions())
	if err != nil {
		return err
	}
	if len(resp.Choices) == 0 {
		t.state = stateExhausted
		return nil
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) > 0 {
		t.messages = append(t.messages, openai.ChatCompletionMessage{
			Role:      openai.ChatMessageRoleAssistant,
			Content:   msg.Content,
			ToolCalls: msg.ToolCalls,
		})
		// Placeholder marking that tools were requested; content may be empty.
		if _, err := a.conversations.Append(ctx, t.userID, models.RoleAssistant, msg.Content, nil); err != nil {
			return err
		}
		t.pending = msg.ToolCalls
		t.state = stateDispatching
		return nil
	}

	if _, err := a.conversations.Append(ctx, t.userID, models.RoleAssistant, msg.Content, nil); err != nil {
		return err
	}
	// An empty final message counts as no answer; the row is persisted but
	// the turn ends in fallback.
	if msg.Content == "" {
		t.state = stateExhausted
		return nil
	}
	t.final = msg.Content
	t.state = stateDone
	return nil
}

// stepTools dispatches the pending calls strictly in the order the model
// returned them: later calls in a batch may depend on rows written by
// earlier ones.
func (a *Agent) stepTools(ctx context.Context, t *turn) error {
	for _, call := range t.pending {
		name := call.Function.Name
		a.log.Debug("dispatching tool", "user_id", t.userID, "tool", name)

		result := a.registry.Dispatch(ctx, t.userID, name, call.Function.Arguments)
		payload, err := json.Marshal(result)
		if err != nil {
			payload = []byte(`{"error":"failed to serialize tool result"}`)
		}

		t.messages = append(t.messages, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    string(payload),
			Name:       name,
			ToolCallID: call.ID,
		})
		if _, err := a.conversations.Append(ctx, t.userID, models.RoleTool, string(payload), &name); err != nil {
			return err
		}
	}

	t.pending = nil
	t.state = stateAwaitingModel
	return nil
}
