package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiProvider implements the Provider interface for Google Gemini models
type GeminiProvider struct {
	client *genai.Client
	config Config
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		config: config,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks if the provider is properly configured
func (p *GeminiProvider) IsAvailable(ctx context.Context) bool {
	// Simple check: request a very short completion
	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: "Hi"}}, Role: "user"},
	}
	_, err := p.client.Models.GenerateContent(ctx, p.modelName(), contents, &genai.GenerateContentConfig{
		MaxOutputTokens: 10,
	})
	if err != nil {
		// Log the actual error for debugging (this helps users diagnose API key issues)
		fmt.Fprintf(os.Stderr, "Gemini API check failed: %v\n", err)
		return false
	}
	return true
}

// Extract pulls calendar events from schedule text using Gemini. The
// response schema pins the output to the events JSON shape, so the model
// cannot drift into prose.
func (p *GeminiProvider) Extract(ctx context.Context, req ExtractRequest) (*ExtractResponse, error) {
	// Determine model
	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		model = "gemini-flash-latest"
	}

	// Determine max tokens
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 4000
	}

	// Create timeout context
	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	systemContent := &genai.Content{
		Parts: []*genai.Part{
			{Text: req.SystemPrompt},
		},
		Role: "system",
	}

	userContent := &genai.Content{
		Parts: []*genai.Part{
			{Text: req.Text},
		},
		Role: "user",
	}

	contents := []*genai.Content{systemContent, userContent}

	resp, err := p.client.Models.GenerateContent(ctxWithTimeout, model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   eventsSchema(),
		Temperature:      genai.Ptr[float32](0.1), // Low temperature keeps extraction stable across runs
		MaxOutputTokens:  int32(maxTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return nil, fmt.Errorf("no response from Gemini")
	}

	tokensUsed := 0
	if resp.UsageMetadata != nil {
		tokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &ExtractResponse{
		Content:    content,
		Model:      model,
		TokensUsed: tokensUsed,
	}, nil
}

// eventsSchema describes the JSON shape extraction responses must follow.
func eventsSchema() *genai.Schema {
	eventSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"start_time":    {Type: genai.TypeString, Description: "Event start in ISO 8601 format, e.g. 2026-01-29T18:00:00."},
			"end_time":      {Type: genai.TypeString, Description: "Event end in ISO 8601 format."},
			"summary":       {Type: genai.TypeString, Description: "Short event title."},
			"location_name": {Type: genai.TypeString, Description: "Location name only when the text names one explicitly, otherwise empty."},
			"is_ambiguous":  {Type: genai.TypeBoolean, Description: "True when the date, time, or location had to be guessed."},
			"original_text": {Type: genai.TypeString, Description: "The snippet of input text this event came from."},
		},
		Required: []string{"start_time", "end_time", "summary"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"events": {
				Type:        genai.TypeArray,
				Items:       eventSchema,
				Description: "Every calendar event found in the schedule text.",
			},
		},
		Required: []string{"events"},
	}
}
