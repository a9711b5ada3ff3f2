package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient calls the Gemini REST API, trying each configured model in
// order until one answers.
type GeminiClient struct {
	apiKey  string
	models  []string
	baseURL string
	client  *http.Client
	log     logrus.FieldLogger
}

func NewGeminiClient(apiKey string, models []string, log logrus.FieldLogger) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		models:  models,
		baseURL: geminiBaseURL,
		client:  newHTTPClient(30 * time.Second),
		log:     log.WithField("component", "gemini"),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig map[string]interface{} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (Generation, error) {
	if len(g.models) == 0 {
		return Generation{}, errors.New("no gemini models configured")
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: map[string]interface{}{
			"temperature":      0.1,
			"topP":             0.8,
			"topK":             40,
			"responseMimeType": "application/json",
		},
	})
	if err != nil {
		return Generation{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for _, model := range g.models {
		text, err := g.callModel(ctx, model, body)
		if err == nil {
			return Generation{Text: text, Model: model}, nil
		}
		lastErr = err
		g.log.WithError(err).WithField("model", model).Warn("gemini model failed")
		if ctx.Err() != nil {
			break
		}
	}
	return Generation{}, fmt.Errorf("all gemini models failed: %w", lastErr)
}

func (g *GeminiClient) callModel(ctx context.Context, model string, body []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, url.PathEscape(model), url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, truncate(string(raw), 300))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse API response: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}
	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", errors.New("no text in response")
	}
	return sb.String(), nil
}
