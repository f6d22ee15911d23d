package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"justiplay-backend/internal/llm"
	"justiplay-backend/internal/shared/telemetry"
)

const (
	// analysisTemperature favors determinism over creativity so repeated
	// uploads of the same document stay comparable.
	analysisTemperature = 0.3

	maxAttempts = 3
)

// Client implements llm.Client using the Gemini API in JSON response mode.
type Client struct {
	apiKey  string
	model   string
	timeout time.Duration
}

// NewClient constructs a Gemini client.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("GEMINI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		model:   strings.TrimSpace(model),
		timeout: timeout,
	}, nil
}

// AnalyzeDocument sends the analysis instruction plus document text and
// returns the raw JSON-mode response. Transient provider failures are
// retried with a short backoff.
func (c *Client) AnalyzeDocument(ctx context.Context, documentText string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cl, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(c.model)
	temp := float32(analysisTemperature)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(llm.AnalyzePrompt())},
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := m.GenerateContent(ctx, genai.Text("DOCUMENT TEXT:\n"+documentText))
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			time.Sleep(time.Duration(attempt) * 300 * time.Millisecond)
			continue
		}

		text := strings.TrimSpace(firstText(resp))
		if text == "" {
			return nil, fmt.Errorf("gemini: empty response")
		}
		telemetry.Info("llm.response", map[string]any{
			"provider":     "gemini",
			"model":        c.model,
			"length_bytes": len(text),
			"attempt":      attempt,
		})
		return json.RawMessage(text), nil
	}
	return nil, fmt.Errorf("gemini generate: %w", lastErr)
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			break
		}
	}
	return b.String()
}

var _ llm.Client = (*Client)(nil)
