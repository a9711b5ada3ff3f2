package infrastructure

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"jobboard/config"
)

// Generation is the raw text a model produced and which model produced it.
type Generation struct {
	Text  string
	Model string
}

// TextGenerator is a generative text upstream used for resume scoring.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (Generation, error)
}

// NewTextGenerator builds the upstream selected by cfg.Provider. The returned
// close func releases any client the generator holds.
func NewTextGenerator(ctx context.Context, cfg config.ScoringConfig, log logrus.FieldLogger) (TextGenerator, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Provider {
	case "gemini":
		return NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModels, log), noop, nil
	case "vertex":
		v, err := NewVertexAIClient(ctx, cfg.VertexProject, cfg.VertexLocation, cfg.VertexModel)
		if err != nil {
			return nil, noop, err
		}
		return v, v.Close, nil
	case "openai":
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), noop, nil
	case "langchain":
		l, err := NewLangchainClient(ctx, cfg.GeminiAPIKey, cfg.LangchainModel)
		if err != nil {
			return nil, noop, err
		}
		return l, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
}
