// Package langchain generates content through any langchaingo model, by default
// the googleai backend.
package langchain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"

	"github.com/spigell/interview-assistant/internal/logger"
)

const (
	defaultModel = "gemini-2.0-flash"
	providerName = "langchain"
)

type Generator struct {
	llm    llms.Model
	model  string
	logger *zap.Logger
}

// NewGoogleAI builds a generator on the langchaingo googleai client.
func NewGoogleAI(ctx context.Context, apiKey, model string, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("langchain googleai api key is required")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create googleai client: %w", err)
	}

	return New(llm, model, log), nil
}

// New wraps an existing langchaingo model.
func New(llm llms.Model, model string, log *zap.Logger) *Generator {
	return &Generator{
		llm:    llm,
		model:  model,
		logger: logger.WithCommonFields(log, providerName, model),
	}
}

// GenerateContent sends a single prompt. The system instructions are placed
// ahead of the prompt because not every langchaingo backend accepts a system
// message.
func (g *Generator) GenerateContent(ctx context.Context, system, prompt string) (string, error) {
	if g == nil || g.llm == nil {
		return "", errors.New("langchain generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}
	if system = strings.TrimSpace(system); system != "" {
		prompt = system + "\n\n" + prompt
	}

	g.logger.Debug("langchain generate content", zap.Int("prompt_length", len(prompt)))

	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(0.2))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", errors.New("langchain model returned empty response")
	}
	return out, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}
