// Package gemini implements the TextGenerator port on the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/genai"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/adapter/ai"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// Client calls the Gemini API with JSON-only response mode. It performs no
// retries; pipeline failure policy is decided by the caller.
type Client struct {
	client  *genai.Client
	model   string
	cleaner *ai.ResponseCleaner
}

// New constructs a Gemini-backed generator for the given model.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	transport := otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return fmt.Sprintf("Gemini %s %s", r.Method, r.URL.Host)
		}),
	)
	cl, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPClient: &http.Client{
			Timeout:   120 * time.Second,
			Transport: transport,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("op=gemini.new: %w", err)
	}
	return &Client{client: cl, model: model, cleaner: ai.NewResponseCleaner()}, nil
}

// ModelName returns the configured model identifier.
func (c *Client) ModelName() string { return c.model }

// GenerateJSON sends one generation request and returns the raw text of the
// response. The response MIME type is pinned to JSON so the model emits a
// bare object rather than prose.
func (c *Client) GenerateJSON(ctx domain.Context, systemPrompt, userPrompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.2),
		MaxOutputTokens:  8192,
	}
	if systemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), cfg)
	if err != nil {
		return "", fmt.Errorf("op=gemini.generate: %w: %v", domain.ErrGenerationFailed, err)
	}
	if resp == nil {
		return "", fmt.Errorf("op=gemini.generate: %w: nil response", domain.ErrGenerationFailed)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("op=gemini.generate: %w: empty response", domain.ErrGenerationFailed)
	}
	// Models occasionally fence or pad the object even with a JSON MIME type.
	return c.cleaner.CleanJSONResponse(text), nil
}
