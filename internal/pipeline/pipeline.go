package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/swimcal/internal/cache"
	"github.com/ppiankov/swimcal/internal/extract"
	"github.com/ppiankov/swimcal/internal/llm"
	"github.com/ppiankov/swimcal/internal/model"
	"github.com/ppiankov/swimcal/internal/rules"
)

// Pipeline orchestrates the complete conversion: extraction, location
// resolution, merging, deduplication, and validation.
type Pipeline struct {
	extractor *extract.Extractor
	resolver  *rules.Resolver
	merger    *rules.Merger
	validator *rules.Validator
	provider  llm.Provider
	config    *model.Config
}

// NewPipeline creates a pipeline with the provider named in the
// configuration.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}

	return NewPipelineWithProvider(cfg, provider), nil
}

// NewPipelineWithProvider wires a pipeline around an existing provider.
func NewPipelineWithProvider(cfg *model.Config, provider llm.Provider) *Pipeline {
	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewLayeredCache(time.Hour, cfg.Cache.Dir, cfg.CacheTTL())
	}

	return &Pipeline{
		extractor: extract.NewExtractor(provider, c, cfg),
		resolver:  rules.NewResolver(cfg.Locations),
		merger:    rules.NewMerger(cfg.DefaultEventTitle),
		validator: rules.NewValidator(cfg.MinDuration(), cfg.MaxDuration()),
		provider:  provider,
		config:    cfg,
	}
}

// Provider returns the wired LLM provider
func (p *Pipeline) Provider() llm.Provider {
	return p.provider
}

// Convert runs the full conversion over one schedule text.
func (p *Pipeline) Convert(ctx context.Context, text string) (*model.Schedule, error) {
	verbose := p.config.Output.Verbose

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Extracting events via %s...\n", p.provider.Name())
	}

	// 1. Extract candidate events (cache-aware)
	extraction, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	if verbose {
		if extraction.FromCache {
			fmt.Fprintf(os.Stderr, "✓ Cache hit: %d events\n", len(extraction.Events))
		} else {
			fmt.Fprintf(os.Stderr, "✓ Extracted %d events (%d tokens)\n", len(extraction.Events), extraction.TokensUsed)
		}
		for _, skip := range extraction.Skipped {
			fmt.Fprintf(os.Stderr, "✗ Skipped %s: %s (%s)\n", skip.Field, skip.Snippet, skip.Reason)
		}
	}

	// 2. Resolve locations
	resolved := p.resolver.ResolveAll(extraction.Events)

	// 3. Merge adjacent same-day groups
	merged := p.merger.Merge(resolved)

	// 4. Deduplicate and order
	merged = rules.Deduplicate(merged)
	merged = rules.SortEvents(merged)

	// 5. Validate
	now := time.Now().In(p.config.TZ())
	validated := p.validator.Validate(merged, now)

	schedule := &model.Schedule{
		GeneratedAt: now,
		Timezone:    p.config.TZ().String(),
		Provider:    p.provider.Name(),
		Model:       extraction.Model,
		FromCache:   extraction.FromCache,
		Events:      validated,
		Skipped:     extraction.Skipped,
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ %d events after merging, %d flags\n", len(validated), schedule.FlagCount())
	}

	return schedule, nil
}
