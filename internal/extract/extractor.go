package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/swimcal/internal/cache"
	"github.com/ppiankov/swimcal/internal/llm"
	"github.com/ppiankov/swimcal/internal/model"
)

// ErrInputTooShort rejects inputs with no realistic chance of holding a
// schedule.
var ErrInputTooShort = errors.New("input text is too short or empty")

// minInputRunes is the shortest input worth sending to the model.
const minInputRunes = 10

// Extractor turns raw schedule text into candidate events through an LLM
// provider, with a cache in front of the call.
type Extractor struct {
	provider llm.Provider
	cache    cache.Cache
	config   *model.Config
}

// Result carries everything one extraction produced.
type Result struct {
	Events     []model.CandidateEvent
	Skipped    []model.SkippedInput
	FromCache  bool
	Model      string
	TokensUsed int
}

// cachedExtraction is the cache entry payload. Parsed events are cached
// rather than the raw response so a hit skips parsing too.
type cachedExtraction struct {
	Events  []model.CandidateEvent `json:"events"`
	Skipped []model.SkippedInput   `json:"skipped,omitempty"`
	Model   string                 `json:"model,omitempty"`
}

// NewExtractor creates an extractor. A nil cache disables caching.
func NewExtractor(provider llm.Provider, c cache.Cache, cfg *model.Config) *Extractor {
	return &Extractor{
		provider: provider,
		cache:    c,
		config:   cfg,
	}
}

// Extract cleans the input, consults the cache, and otherwise asks the
// provider for events.
func (e *Extractor) Extract(ctx context.Context, rawText string) (*Result, error) {
	text := CleanText(rawText)
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minInputRunes {
		return nil, ErrInputTooShort
	}

	key := cache.Key(text, e.config.Fingerprint())
	if e.cache != nil {
		if data, found := e.cache.Get(key); found {
			var cached cachedExtraction
			if err := json.Unmarshal(data, &cached); err == nil && len(cached.Events) > 0 {
				return &Result{
					Events:    cached.Events,
					Skipped:   cached.Skipped,
					FromCache: true,
					Model:     cached.Model,
				}, nil
			}
			// Corrupt entries fall through to a fresh call
		}
	}

	req := llm.ExtractRequest{
		SystemPrompt: BuildSystemPrompt(e.config),
		Text:         text,
		Model:        e.config.LLM.Model,
		MaxTokens:    e.config.LLM.MaxTokens,
	}

	resp, err := e.provider.Extract(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("extract events: %w", err)
	}

	events, skipped, err := ParseResponse(resp.Content, e.config.DefaultEventTitle, e.config.TZ())
	if err != nil {
		return nil, err
	}

	result := &Result{
		Events:     events,
		Skipped:    skipped,
		Model:      resp.Model,
		TokensUsed: resp.TokensUsed,
	}

	if e.cache != nil {
		if data, err := json.Marshal(cachedExtraction{Events: events, Skipped: skipped, Model: resp.Model}); err == nil {
			_ = e.cache.Set(key, data, e.config.CacheTTL())
		}
	}

	return result, nil
}
