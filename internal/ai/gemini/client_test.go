package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeChatCreator struct {
	mu    sync.Mutex
	calls []chatCallRecord
	queue []fakeChatResponse
}

type chatCallRecord struct {
	model  string
	config *genai.GenerateContentConfig
	chat   *fakeChat
}

type fakeChatResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeChat struct {
	mu       sync.Mutex
	response fakeChatResponse
	messages []string
}

func (f *fakeChat) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, part := range parts {
		f.messages = append(f.messages, part.Text)
	}
	return f.response.resp, f.response.err
}

func (f *fakeChatCreator) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeChatResponse{resp: resp, err: err})
}

func (f *fakeChatCreator) Create(_ context.Context, model string, config *genai.GenerateContentConfig, _ []*genai.Content) (chatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	chat := &fakeChat{response: res}
	f.calls = append(f.calls, chatCallRecord{model: model, config: config, chat: chat})
	return chat, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func noSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	original := wait
	var waits []time.Duration
	wait = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	t.Cleanup(func() { wait = original })
	return &waits
}

func newTestGenerator(chats chatCreator, maxRetries int) *Generator {
	return &Generator{
		chats:      chats,
		model:      "gemini-2.0-flash",
		maxRetries: maxRetries,
		logger:     zap.NewNop(),
	}
}

func TestGeneratorSendsSystemInstructionAndPrompt(t *testing.T) {
	chats := &fakeChatCreator{}
	chats.enqueue(textResponse("  7  "), nil)

	output, err := newTestGenerator(chats, 1).GenerateContent(context.Background(), "You are an interviewer.", "Evaluate this answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "7" {
		t.Fatalf("unexpected output: %q", output)
	}

	call := chats.calls[0]
	if call.model != "gemini-2.0-flash" {
		t.Fatalf("unexpected model: %q", call.model)
	}
	if call.config == nil || call.config.SystemInstruction == nil {
		t.Fatal("expected system instruction to be set")
	}
	if got := call.config.SystemInstruction.Parts[0].Text; got != "You are an interviewer." {
		t.Fatalf("unexpected system instruction: %q", got)
	}
	if len(call.chat.messages) != 1 || call.chat.messages[0] != "Evaluate this answer" {
		t.Fatalf("unexpected chat message: %+v", call.chat.messages)
	}
}

func TestGeneratorRetriesOnServerError(t *testing.T) {
	waits := noSleep(t)

	chats := &fakeChatCreator{}
	chats.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	chats.enqueue(nil, genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"})
	chats.enqueue(textResponse("retry ok"), nil)

	output, err := newTestGenerator(chats, 3).GenerateContent(context.Background(), "system", "message")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}
	if len(chats.calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(chats.calls))
	}
	if len(*waits) != 2 || (*waits)[0] != baseBackoff || (*waits)[1] != 2*baseBackoff {
		t.Fatalf("unexpected backoff: %v", *waits)
	}
}

func TestGeneratorStopsAfterAttemptsExhausted(t *testing.T) {
	noSleep(t)

	chats := &fakeChatCreator{}
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	chats.enqueue(nil, tempErr)
	chats.enqueue(nil, tempErr)

	_, err := newTestGenerator(chats, 2).GenerateContent(context.Background(), "sys", "msg")
	if err == nil {
		t.Fatal("expected error after attempts exhausted")
	}
	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}
}

func TestGeneratorDoesNotRetryClientErrors(t *testing.T) {
	chats := &fakeChatCreator{}
	chats.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	if _, err := newTestGenerator(chats, 3).GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error")
	}
	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestGeneratorQuotaDelay(t *testing.T) {
	waits := noSleep(t)

	chats := &fakeChatCreator{}
	chats.enqueue(nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 5 seconds",
	})
	chats.enqueue(textResponse("ok"), nil)

	if _, err := newTestGenerator(chats, 2).GenerateContent(context.Background(), "sys", "msg"); err != nil {
		t.Fatalf("expected short quota wait to be retried, got %v", err)
	}
	if len(*waits) != 1 || (*waits)[0] != 5*time.Second {
		t.Fatalf("expected a 5s wait, got %v", *waits)
	}

	chats = &fakeChatCreator{}
	chats.enqueue(nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	})

	if _, err := newTestGenerator(chats, 3).GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error when quota delay too long")
	}
	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestGeneratorEmptyResponse(t *testing.T) {
	chats := &fakeChatCreator{}
	chats.enqueue(&genai.GenerateContentResponse{}, nil)

	if _, err := newTestGenerator(chats, 1).GenerateContent(context.Background(), "", "msg"); err == nil {
		t.Fatal("expected error for empty response")
	}
	if chats.calls[0].config.SystemInstruction != nil {
		t.Fatal("expected no system instruction for blank system prompt")
	}
}

func TestGeneratorRejectsBlankPrompt(t *testing.T) {
	chats := &fakeChatCreator{}
	if _, err := newTestGenerator(chats, 1).GenerateContent(context.Background(), "sys", "   "); err == nil {
		t.Fatal("expected error for blank prompt")
	}
	if len(chats.calls) != 0 {
		t.Fatalf("expected no calls, got %d", len(chats.calls))
	}
}
