package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/interview-assistant/internal/ai"
	"github.com/spigell/interview-assistant/internal/ai/gemini"
	"github.com/spigell/interview-assistant/internal/ai/langchain"
	"github.com/spigell/interview-assistant/internal/ai/vertex"
	"github.com/spigell/interview-assistant/internal/secrets"
)

const (
	providerGemini    = "gemini"
	providerVertex    = "vertex"
	providerLangChain = "langchain"
)

// newGenerator builds the configured AI backend. The returned close func is
// never nil.
func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.ContentGenerator, func(), error) {
	noop := func() {}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", providerGemini:
		gc := cfg.Gemini
		if gc == nil {
			gc = &GeminiConfig{}
		}
		apiKey, err := geminiKey(gc)
		if err != nil {
			return nil, noop, err
		}
		g, err := gemini.NewGenerator(ctx, apiKey, gc.Model, gc.MaxRetries, logger)
		if err != nil {
			return nil, noop, err
		}
		return g, noop, nil

	case providerVertex:
		vc := cfg.Vertex
		if vc == nil {
			vc = &VertexConfig{}
		}
		g, err := vertex.NewGenerator(ctx, vc.Project, vc.Location, vc.Model, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("%w (set ai.vertex.project or GOOGLE_CLOUD_PROJECT)", err)
		}
		return g, func() {
			if err := g.Close(); err != nil {
				logger.Warn("closing vertex client", zap.Error(err))
			}
		}, nil

	case providerLangChain:
		// langchaingo talks to the same Gemini API and reuses its key.
		gc := cfg.Gemini
		if gc == nil {
			gc = &GeminiConfig{}
		}
		apiKey, err := geminiKey(gc)
		if err != nil {
			return nil, noop, err
		}
		model := ""
		if cfg.LangChain != nil {
			model = cfg.LangChain.Model
		}
		g, err := langchain.NewGoogleAI(ctx, apiKey, model, logger)
		if err != nil {
			return nil, noop, err
		}
		return g, noop, nil

	default:
		return nil, noop, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func geminiKey(cfg *GeminiConfig) (string, error) {
	key, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.APIKeyFile,
		Value: cfg.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return "", fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}
	return key, nil
}
