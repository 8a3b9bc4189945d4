package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/swimcal/internal/model"
)

// Converter turns one schedule text into a validated schedule
type Converter interface {
	Convert(ctx context.Context, text string) (*model.Schedule, error)
}

// ConvertJob converts a single schedule file
type ConvertJob struct {
	Path      string
	Converter Converter
	Limiter   *Limiter
	Provider  string
}

// Execute reads the file and runs the conversion
func (j *ConvertJob) Execute(ctx context.Context) Result {
	raw, err := os.ReadFile(j.Path)
	if err != nil {
		return &ConvertResult{
			Path:  j.Path,
			Error: fmt.Errorf("read schedule: %w", err),
		}
	}

	// Throttle before converting; cache hits spend a limiter token too
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Provider); err != nil {
			return &ConvertResult{Path: j.Path, Error: err}
		}
	}

	schedule, err := j.Converter.Convert(ctx, string(raw))
	if err != nil {
		return &ConvertResult{Path: j.Path, Error: err}
	}

	return &ConvertResult{Path: j.Path, Schedule: schedule}
}

// ConvertResult is the outcome of one file's conversion
type ConvertResult struct {
	Path     string
	Schedule *model.Schedule
	Error    error
}

// GetError returns the error from the conversion
func (r *ConvertResult) GetError() error {
	return r.Error
}

// BatchProcessor converts multiple schedule files concurrently
type BatchProcessor struct {
	converter   Converter
	provider    string
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. A nil limiter disables
// throttling.
func NewBatchProcessor(converter Converter, provider string, concurrency int, limiter *Limiter) *BatchProcessor {
	return &BatchProcessor{
		converter:   converter,
		provider:    provider,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessFiles converts the given schedule files concurrently
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*ConvertResult {
	if len(paths) == 0 {
		return []*ConvertResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&ConvertJob{
			Path:      path,
			Converter: b.converter,
			Limiter:   b.limiter,
			Provider:  b.provider,
		})
	}

	results := pool.Wait()

	converted := make([]*ConvertResult, len(results))
	for i, result := range results {
		converted[i] = result.(*ConvertResult)
	}

	return converted
}

// ProcessListFile reads schedule file paths from a list file and converts
// them concurrently
func (b *BatchProcessor) ProcessListFile(ctx context.Context, listPath string) ([]*ConvertResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read path list: %w", err)
	}

	return b.ProcessFiles(ctx, paths), nil
}

// ReadPathsFromFile reads file paths from a list file (one per line)
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate paths
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
