package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/swimcal/internal/export"
	"github.com/ppiankov/swimcal/internal/pipeline"
	"github.com/ppiankov/swimcal/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	rateLimit    float64
	outputDir    string
	batchTimeout time.Duration
	fromList     bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>...",
	Short: "Convert multiple schedule files in parallel",
	Long: `Batch converts many schedule files concurrently:
- Pass schedule files directly, or one list file with --list
- Conversions run in parallel with a configurable worker count
- LLM calls are rate limited across workers
- Each schedule gets its own calendar file in the output directory

Example:
  swimcal batch week1.txt week2.txt week3.txt
  swimcal batch schedules/*.txt --format gcsv --output-dir ./calendars
  swimcal batch schedules.txt --list --concurrency 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: config workers)")
	batchCmd.Flags().Float64Var(&rateLimit, "rate", 0, "LLM requests per second across workers (default: config rate limit)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./swimcal-out", "output directory for calendar files")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&fromList, "list", false, "treat the argument as a list file with one schedule path per line")

	// Conversion flags shared with convert
	batchCmd.Flags().StringVarP(&formatName, "format", "f", "ics", "output format (ics, gcsv, ocsv, zip)")
	batchCmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone schedule times are interpreted in")
	batchCmd.Flags().IntVar(&year, "year", 0, "year assumed when the schedule omits one")
	batchCmd.Flags().StringVar(&eventTitle, "title", "", "default title for merged events")
	batchCmd.Flags().StringVar(&providerName, "provider", "", "LLM provider (gemini, openai, ollama)")
	batchCmd.Flags().StringVar(&modelName, "model", "", "LLM model name")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable extraction cache (force fresh LLM calls)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	cfg, err := buildConversionConfig()
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if rateLimit > 0 {
		cfg.RateLimit.RequestsPerSecond = rateLimit
	}

	paths := args
	if fromList {
		if len(args) != 1 {
			return fmt.Errorf("--list expects exactly one list file, got %d arguments", len(args))
		}
		paths, err = worker.ReadPathsFromFile(args[0])
		if err != nil {
			return fmt.Errorf("read schedule list: %w", err)
		}
		if len(paths) == 0 {
			return fmt.Errorf("list file %s contains no schedule paths", args[0])
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Swimcal Batch Conversion\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Schedules:   %d\n", len(paths))
	fmt.Fprintf(os.Stderr, "  Workers:     %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Provider:    %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "  Format:      %s\n", format)
	fmt.Fprintf(os.Stderr, "  Output dir:  %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Create pipeline
	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	// Create batch processor with a shared rate limiter
	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	processor := worker.NewBatchProcessor(p, p.Provider().Name(), cfg.Concurrency.Workers, limiter)

	fmt.Fprintf(os.Stderr, "⚙️  Converting %d schedules with %d workers...\n", len(paths), cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "\n")

	results := processor.ProcessFiles(ctx, paths)

	// Write calendar files
	exporter := export.NewExporter(cfg)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		outPath := filepath.Join(outputDir, batchFilename(result.Path, format))
		if err := writeCalendarFile(exporter, result.Schedule, format, outPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s: %d events, %d flags: %s\n",
			result.Path, len(result.Schedule.Events), result.Schedule.FlagCount(), outPath)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d schedules\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d schedules failed", failureCount, len(results))
	}
	return nil
}

// batchFilename derives the calendar filename from the schedule filename
func batchFilename(schedulePath string, format export.Format) string {
	base := filepath.Base(schedulePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = "schedule"
	}
	return stem + "." + format.Extension()
}
