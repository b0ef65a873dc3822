package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// httpDoer abstracts the HTTP client for test mocks.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// GeminiClient implements Client against the Generative Language REST API.
type GeminiClient struct {
	apiKey  string
	model   string
	client  httpDoer
	apiBase string
}

// GeminiOpts holds parameters for creating a GeminiClient.
type GeminiOpts struct {
	APIKey string
	Model  string // defaults to gemini-1.5-flash-8b
	// For testing: inject an HTTP client and API base URL.
	Client  httpDoer
	APIBase string
}

// NewGemini creates a GeminiClient.
func NewGemini(opts GeminiOpts) (*GeminiClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("extract: gemini api key is required")
	}
	model := opts.Model
	if model == "" {
		model = "gemini-1.5-flash-8b"
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	base := opts.APIBase
	if base == "" {
		base = geminiAPIBase
	}
	return &GeminiClient{apiKey: opts.APIKey, model: model, client: client, apiBase: base}, nil
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate sends the prompt and returns the first candidate's text.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("extract: gemini: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.apiBase, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("extract: gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("extract: gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("extract: gemini: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("extract: gemini: api status %d", resp.StatusCode)
	}

	var decoded geminiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("extract: gemini: decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("extract: gemini: no candidates in response")
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}
