package infrastructure

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// LangchainClient drives Gemini through langchaingo.
type LangchainClient struct {
	model llms.Model
	name  string
}

func NewLangchainClient(ctx context.Context, apiKey, model string) (*LangchainClient, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create langchain gemini client: %w", err)
	}
	return &LangchainClient{model: llm, name: model}, nil
}

func (l *LangchainClient) Generate(ctx context.Context, prompt string) (Generation, error) {
	text, err := llms.GenerateFromSinglePrompt(ctx, l.model, prompt, llms.WithTemperature(0.1), llms.WithJSONMode())
	if err != nil {
		return Generation{}, fmt.Errorf("langchain generate: %w", err)
	}
	return Generation{Text: text, Model: l.name}, nil
}
