package langchain

import (
	"context"
	"errors"
	"testing"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

type fakeModel struct {
	reply    string
	err      error
	messages []llms.MessageContent
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestGenerateContentPrependsSystem(t *testing.T) {
	model := &fakeModel{reply: " 6 "}
	g := New(model, "gemini-2.0-flash", zap.NewNop())

	out, err := g.GenerateContent(context.Background(), "You are an interviewer.", "Grade: hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "6" {
		t.Fatalf("unexpected output: %q", out)
	}

	if len(model.messages) != 1 || len(model.messages[0].Parts) != 1 {
		t.Fatalf("expected a single human message, got %+v", model.messages)
	}
	text, ok := model.messages[0].Parts[0].(llms.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", model.messages[0].Parts[0])
	}
	if text.Text != "You are an interviewer.\n\nGrade: hello" {
		t.Fatalf("unexpected prompt: %q", text.Text)
	}
}

func TestGenerateContentErrors(t *testing.T) {
	if _, err := New(&fakeModel{err: errors.New("quota")}, "m", nil).GenerateContent(context.Background(), "", "p"); err == nil {
		t.Fatal("expected transport error")
	}
	if _, err := New(&fakeModel{reply: "  "}, "m", nil).GenerateContent(context.Background(), "", "p"); err == nil {
		t.Fatal("expected empty response error")
	}
	if _, err := New(&fakeModel{reply: "x"}, "m", nil).GenerateContent(context.Background(), "", " "); err == nil {
		t.Fatal("expected blank prompt error")
	}
}
