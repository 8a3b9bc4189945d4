package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/swimcal/internal/export"
	"github.com/ppiankov/swimcal/internal/extract"
	"github.com/ppiankov/swimcal/internal/model"
	"github.com/ppiankov/swimcal/internal/notify"
	"github.com/ppiankov/swimcal/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	formatName   string
	outputPath   string
	providerName string
	modelName    string
	timezone     string
	year         int
	eventTitle   string
	timeout      time.Duration
	noCache      bool
	sendEmail    bool
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a schedule text into a calendar file",
	Long: `Convert reads a swim practice schedule from a file (or stdin when no
file is given) and turns it into a calendar file:
- Extract sessions with an LLM, combining split water/dryland slots
- Resolve pool locations from mentions or weekday/weekend defaults
- Merge overlapping same-day sessions into single events
- Flag past dates, odd durations, and unresolved locations
- Write ICS, Google CSV, Outlook CSV, or zipped ICS

Example:
  swimcal convert schedule.txt
  swimcal convert schedule.txt --format gcsv -o practice.csv
  cat schedule.txt | swimcal convert --timezone America/New_York
  swimcal convert schedule.txt --provider ollama --model llama3.1:8b`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	// Output flags
	convertCmd.Flags().StringVarP(&formatName, "format", "f", "ics", "output format (ics, gcsv, ocsv, zip)")
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path ('-' for stdout; default: swim_schedule_<date>.<ext>)")

	// Schedule flags
	convertCmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone schedule times are interpreted in")
	convertCmd.Flags().IntVar(&year, "year", 0, "year assumed when the schedule omits one")
	convertCmd.Flags().StringVar(&eventTitle, "title", "", "default title for merged events")

	// LLM flags
	convertCmd.Flags().StringVar(&providerName, "provider", "", "LLM provider (gemini, openai, ollama)")
	convertCmd.Flags().StringVar(&modelName, "model", "", "LLM model name")
	convertCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall conversion timeout")
	convertCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable extraction cache (force a fresh LLM call)")

	// Delivery flags
	convertCmd.Flags().BoolVar(&sendEmail, "email", false, "email the schedule to the configured recipient")
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	text, source, err := readScheduleText(args)
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	cfg, err := buildConversionConfig()
	if err != nil {
		return err
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Converting: %s\n", source)
		fmt.Fprintf(os.Stderr, "Provider: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Timezone: %s\n", cfg.Timezone)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	schedule, err := p.Convert(ctx, text)
	if err != nil {
		if errors.Is(err, extract.ErrNoEvents) {
			fmt.Fprintf(os.Stderr, "✗ The text may describe rest days only, or may not be a schedule at all.\n")
			return err
		}
		return fmt.Errorf("convert failed: %w", err)
	}

	// Summary goes to stderr so stdout stays clean for calendar data
	renderer := pipeline.NewRenderer(os.Stderr)
	renderer.RenderSummary(schedule)

	exporter := export.NewExporter(cfg)
	path := outputPath
	if path == "" {
		path = exporter.Filename(format)
	}

	if path == "-" {
		if err := exporter.Write(os.Stdout, schedule, format); err != nil {
			return fmt.Errorf("write calendar: %w", err)
		}
	} else {
		if err := writeCalendarFile(exporter, schedule, format, path); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	}

	if sendEmail {
		cfg.Email.Enabled = true
		if err := notify.NewEmailSender(cfg).Send(schedule); err != nil {
			return fmt.Errorf("email schedule: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Emailed schedule to %s\n", cfg.Email.To)
	}

	return nil
}

// readScheduleText loads the schedule from the file argument or stdin
func readScheduleText(args []string) (string, string, error) {
	if len(args) == 1 {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("read schedule: %w", err)
		}
		return string(raw), args[0], nil
	}

	// No file argument; require piped stdin rather than waiting on a TTY
	info, err := os.Stdin.Stat()
	if err == nil && (info.Mode()&os.ModeCharDevice) != 0 {
		return "", "", fmt.Errorf("no input: pass a schedule file or pipe text on stdin")
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	return string(raw), "stdin", nil
}

// buildConversionConfig layers conversion flags and provider credentials
// over the loaded configuration
func buildConversionConfig() (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if timezone != "" {
		cfg.Timezone = timezone
	}
	if year != 0 {
		cfg.Year = year
	}
	if eventTitle != "" {
		cfg.DefaultEventTitle = eventTitle
	}
	if providerName != "" {
		cfg.LLM.Provider = providerName
	}
	if modelName != "" {
		cfg.LLM.Model = modelName
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	if err := applyProviderEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyProviderEnv fills provider credentials from the environment
func applyProviderEnv(cfg *model.Config) error {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "gemini", "":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}
	return nil
}

// writeCalendarFile writes the schedule to a file in the given format
func writeCalendarFile(exporter *export.Exporter, schedule *model.Schedule, format export.Format, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output: %w", closeErr)
		}
	}()

	if err := exporter.Write(f, schedule, format); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	return nil
}
