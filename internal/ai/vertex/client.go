// Package vertex generates content through Gemini models hosted on Vertex AI.
package vertex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"go.uber.org/zap"

	"github.com/spigell/interview-assistant/internal/logger"
)

const (
	defaultModel    = "gemini-1.5-flash"
	defaultLocation = "us-central1"
	providerName    = "vertex"
)

type generateFunc func(ctx context.Context, system, prompt string) (*genai.GenerateContentResponse, error)

// Generator authenticates with application default credentials.
type Generator struct {
	client   *genai.Client
	generate generateFunc
	model    string
	logger   *zap.Logger
}

func NewGenerator(ctx context.Context, project, location, model string, log *zap.Logger) (*Generator, error) {
	project = strings.TrimSpace(project)
	if project == "" {
		return nil, errors.New("vertex project is required")
	}
	if location = strings.TrimSpace(location); location == "" {
		location = defaultLocation
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, project, location)
	if err != nil {
		return nil, fmt.Errorf("create vertex ai client: %w", err)
	}

	g := &Generator{
		client: client,
		model:  model,
		logger: logger.WithCommonFields(log, providerName, model).With(zap.String("location", location)),
	}
	g.generate = g.generateWithModel
	return g, nil
}

// GenerateContent returns the concatenated text parts of the first candidate.
func (g *Generator) GenerateContent(ctx context.Context, system, prompt string) (string, error) {
	if g == nil || g.generate == nil {
		return "", errors.New("vertex generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := g.generate(ctx, system, prompt)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return responseText(resp)
}

func (g *Generator) generateWithModel(ctx context.Context, system, prompt string) (*genai.GenerateContentResponse, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.2)
	if system = strings.TrimSpace(system); system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	g.logger.Debug("vertex generate content", zap.Int("prompt_length", len(prompt)))
	return model.GenerateContent(ctx, genai.Text(prompt))
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return "", errors.New("no response candidates returned")
	}

	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("vertex ai returned empty response")
	}
	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func (g *Generator) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}
