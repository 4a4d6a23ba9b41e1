package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"

	"paisatrack/internal/models"
)

func testNow() time.Time {
	return time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
}

type loggedMessage struct {
	role     string
	content  string
	toolName *string
}

type fakeConversations struct {
	history []models.ChatContext
	log     []loggedMessage
}

func (f *fakeConversations) Append(ctx context.Context, userID int64, role, content string, toolName *string) (int64, error) {
	f.log = append(f.log, loggedMessage{role: role, content: content, toolName: toolName})
	return int64(len(f.log)), nil
}

func (f *fakeConversations) RecentContext(ctx context.Context, userID int64, limit int) ([]models.ChatContext, error) {
	return f.history, nil
}

func (f *fakeConversations) roles() []string {
	roles := make([]string, len(f.log))
	for i, m := range f.log {
		roles[i] = m.role
	}
	return roles
}

type scriptedCompleter struct {
	responses []openai.ChatCompletionResponse
	calls     int
	requests  [][]openai.ChatCompletionMessage
}

func (s *scriptedCompleter) Complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionResponse, error) {
	s.requests = append(s.requests, messages)
	idx := s.calls
	s.calls++
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx], nil
}

type completerFunc func(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionResponse, error)

func (f completerFunc) Complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionResponse, error) {
	return f(ctx, messages, tools)
}

func contentResponse(text string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: text},
		}},
	}
}

func toolCallResponse(calls ...openai.ToolCall) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, ToolCalls: calls},
		}},
	}
}

func toolCall(id, name, args string) openai.ToolCall {
	return openai.ToolCall{
		ID:       id,
		Type:     openai.ToolTypeFunction,
		Function: openai.FunctionCall{Name: name, Arguments: args},
	}
}

type fakeCategories struct {
	nextID     int64
	categories []*models.Category
}

func (f *fakeCategories) FindByNameAndType(ctx context.Context, userID int64, name string, txType models.TransactionType) (*models.Category, error) {
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) && c.Type == txType {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCategories) FindByName(ctx context.Context, userID int64, name string) (*models.Category, error) {
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCategories) Create(ctx context.Context, c *models.Category) error {
	f.nextID++
	c.ID = f.nextID
	f.categories = append(f.categories, c)
	return nil
}

type fakeTransactions struct {
	created []*models.Transaction
}

func (f *fakeTransactions) Create(ctx context.Context, tx *models.Transaction) error {
	tx.ID = int64(len(f.created) + 1)
	f.created = append(f.created, tx)
	return nil
}

type fakeBudgets struct {
	upserts []*models.Budget
}

func (f *fakeBudgets) Upsert(ctx context.Context, b *models.Budget) error {
	b.ID = int64(len(f.upserts) + 1)
	f.upserts = append(f.upserts, b)
	return nil
}

type fakeGoals struct {
	created []*models.Goal
}

func (f *fakeGoals) Create(ctx context.Context, g *models.Goal) error {
	g.ID = int64(len(f.created) + 1)
	f.created = append(f.created, g)
	return nil
}

func testRegistry(tx *fakeTransactions) *Registry {
	return NewRegistry(ToolDeps{
		Categories:   &fakeCategories{},
		Transactions: tx,
		Budgets:      &fakeBudgets{},
		Goals:        &fakeGoals{},
		Now:          testNow,
	})
}

func TestSendMessagePlainAnswer(t *testing.T) {
	conv := &fakeConversations{history: []models.ChatContext{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "Hello! How can I help with your finances?"},
	}}
	llm := &scriptedCompleter{responses: []openai.ChatCompletionResponse{
		contentResponse("You spent ₹4200 this month."),
	}}
	a := New(llm, conv, testRegistry(&fakeTransactions{}), testNow, nil)

	answer, err := a.SendMessage(context.Background(), 1, "how much did I spend this month?")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if answer != "You spent ₹4200 this month." {
		t.Errorf("answer = %q", answer)
	}

	// system prompt + 2 history entries + the new user message
	req := llm.requests[0]
	if len(req) != 4 {
		t.Fatalf("got %d request messages, want 4", len(req))
	}
	if req[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("first message role = %q, want system", req[0].Role)
	}
	if !strings.Contains(req[0].Content, "August 15, 2026") {
		t.Errorf("system prompt missing current date: %q", req[0].Content[:80])
	}
	if req[3].Role != openai.ChatMessageRoleUser || req[3].Content != "how much did I spend this month?" {
		t.Errorf("last request message = %+v", req[3])
	}

	wantRoles := []string{models.RoleUser, models.RoleAssistant}
	gotRoles := conv.roles()
	if len(gotRoles) != len(wantRoles) {
		t.Fatalf("persisted roles = %v, want %v", gotRoles, wantRoles)
	}
	for i := range wantRoles {
		if gotRoles[i] != wantRoles[i] {
			t.Errorf("persisted roles = %v, want %v", gotRoles, wantRoles)
			break
		}
	}
}

func TestSendMessagePersistsUserBeforeModelCall(t *testing.T) {
	conv := &fakeConversations{}
	llm := completerFunc(func(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionResponse, error) {
		if len(conv.log) == 0 || conv.log[0].role != models.RoleUser {
			t.Error("user message not persisted before the model call")
		}
		return contentResponse("ok"), nil
	})
	a := New(llm, conv, testRegistry(&fakeTransactions{}), testNow, nil)

	if _, err := a.SendMessage(context.Background(), 1, "log 50 for tea"); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
}

func TestSendMessageExhaustsAfterFourCalls(t *testing.T) {
	conv := &fakeConversations{}
	llm := &scriptedCompleter{responses: []openai.ChatCompletionResponse{
		toolCallResponse(toolCall("call-1", "currency_to_base", `{"amount": 10, "from_currency": "USD"}`)),
	}}
	a := New(llm, conv, testRegistry(&fakeTransactions{}), testNow, nil)

	answer, err := a.SendMessage(context.Background(), 1, "convert everything")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if llm.calls != maxModelCalls {
		t.Errorf("model calls = %d, want %d", llm.calls, maxModelCalls)
	}
	if answer != fallbackMessage {
		t.Errorf("answer = %q, want fallback", answer)
	}
	// 1 user + 4 assistant placeholders + 4 tool results
	if len(conv.log) != 9 {
		t.Errorf("persisted %d messages, want 9: %v", len(conv.log), conv.roles())
	}
}

func TestSendMessageToolRoundTrips(t *testing.T) {
	conv := &fakeConversations{}
	tx := &fakeTransactions{}
	llm := &scriptedCompleter{responses: []openai.ChatCompletionResponse{
		toolCallResponse(toolCall("call-1", "currency_to_base", `{"amount": 20, "from_currency": "USD"}`)),
		toolCallResponse(toolCall("call-2", "add_transaction",
			`{"amount": 1670, "type": "expense", "merchant": "Coffee Shop", "category_name": "Food & Dining"}`)),
		contentResponse("Logged ₹1670.00 for coffee under Food & Dining."),
	}}
	a := New(llm, conv, testRegistry(tx), testNow, nil)

	answer, err := a.SendMessage(context.Background(), 1, "I bought coffee for 20 dollars")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if answer != "Logged ₹1670.00 for coffee under Food & Dining." {
		t.Errorf("answer = %q", answer)
	}
	if llm.calls != 3 {
		t.Errorf("model calls = %d, want 3", llm.calls)
	}

	wantRoles := []string{
		models.RoleUser,
		models.RoleAssistant, models.RoleTool,
		models.RoleAssistant, models.RoleTool,
		models.RoleAssistant,
	}
	gotRoles := conv.roles()
	if len(gotRoles) != len(wantRoles) {
		t.Fatalf("persisted roles = %v, want %v", gotRoles, wantRoles)
	}

	first := conv.log[2]
	if first.toolName == nil || *first.toolName != "currency_to_base" {
		t.Fatalf("first tool message = %+v", first)
	}
	var converted struct {
		INRAmount    float64 `json:"inr_amount"`
		ExchangeRate float64 `json:"exchange_rate"`
	}
	if err := json.Unmarshal([]byte(first.content), &converted); err != nil {
		t.Fatalf("tool result is not JSON: %v", err)
	}
	if converted.INRAmount != 1670.00 || converted.ExchangeRate != 83.50 {
		t.Errorf("conversion = %+v, want 1670.00 at 83.50", converted)
	}

	if len(tx.created) != 1 {
		t.Fatalf("created %d transactions, want 1", len(tx.created))
	}
	created := tx.created[0]
	if created.Amount != 1670 || created.Type != models.TransactionTypeExpense {
		t.Errorf("transaction = %+v", created)
	}
	if created.CategoryID == nil {
		t.Error("transaction has no category")
	}
	if !created.Date.Equal(testNow()) {
		t.Errorf("transaction date = %v, want clock time", created.Date)
	}
}

func TestSendMessageUnknownToolContinues(t *testing.T) {
	conv := &fakeConversations{}
	llm := &scriptedCompleter{responses: []openai.ChatCompletionResponse{
		toolCallResponse(toolCall("call-1", "transfer_funds", `{}`)),
		contentResponse("I can't transfer funds, but I can track them."),
	}}
	a := New(llm, conv, testRegistry(&fakeTransactions{}), testNow, nil)

	answer, err := a.SendMessage(context.Background(), 1, "send 500 to Bob")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if answer != "I can't transfer funds, but I can track them." {
		t.Errorf("answer = %q", answer)
	}

	toolMsg := conv.log[2]
	if toolMsg.role != models.RoleTool {
		t.Fatalf("persisted roles = %v", conv.roles())
	}
	if toolMsg.content != `{"error":"Unknown tool transfer_funds"}` {
		t.Errorf("tool result = %q", toolMsg.content)
	}
}

func TestSendMessageEmptyFinalContentFallsBack(t *testing.T) {
	conv := &fakeConversations{}
	llm := &scriptedCompleter{responses: []openai.ChatCompletionResponse{
		contentResponse(""),
	}}
	a := New(llm, conv, testRegistry(&fakeTransactions{}), testNow, nil)

	answer, err := a.SendMessage(context.Background(), 1, "hello")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if answer != fallbackMessage {
		t.Errorf("answer = %q, want fallback for empty content", answer)
	}
	// The empty assistant row is still persisted.
	if len(conv.log) != 2 || conv.log[1].role != models.RoleAssistant || conv.log[1].content != "" {
		t.Errorf("persisted messages = %v", conv.roles())
	}
}

func TestSendMessageEmptyChoicesFallsBack(t *testing.T) {
	conv := &fakeConversations{}
	llm := &scriptedCompleter{responses: []openai.ChatCompletionResponse{{}}}
	a := New(llm, conv, testRegistry(&fakeTransactions{}), testNow, nil)

	answer, err := a.SendMessage(context.Background(), 1, "hello")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if answer != fallbackMessage {
		t.Errorf("answer = %q, want fallback", answer)
	}
}

func TestSendMessageUpstreamErrorAborts(t *testing.T) {
	conv := &fakeConversations{}
	upstream := &UpstreamError{StatusCode: 502, Body: "bad gateway"}
	llm := completerFunc(func(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, upstream
	})
	a := New(llm, conv, testRegistry(&fakeTransactions{}), testNow, nil)

	_, err := a.SendMessage(context.Background(), 1, "hello")
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
	// The user message stands even though the turn failed.
	if len(conv.log) != 1 || conv.log[0].role != models.RoleUser {
		t.Errorf("persisted messages = %v, want just the user message", conv.roles())
	}
}
