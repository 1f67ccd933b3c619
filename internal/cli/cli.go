package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/faizanmasroor/volunteery-webapp/internal/browser"
	"github.com/faizanmasroor/volunteery-webapp/internal/calendar"
	"github.com/faizanmasroor/volunteery-webapp/internal/config"
	"github.com/faizanmasroor/volunteery-webapp/internal/event"
	"github.com/faizanmasroor/volunteery-webapp/internal/filter"
	"github.com/faizanmasroor/volunteery-webapp/internal/logger"
	"github.com/faizanmasroor/volunteery-webapp/internal/scraper"
	"github.com/faizanmasroor/volunteery-webapp/internal/sink"
	"github.com/faizanmasroor/volunteery-webapp/internal/storage"
	"github.com/faizanmasroor/volunteery-webapp/migrations"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagDryRun     bool
	flagFormat     string
	flagSort       string
	flagICSDir     string
	flagVerbose    bool
	flagTitles     []string
	flagOngoing    bool
	flagShiftsFrom string
	flagShiftsTo   string
	flagIncludeAge bool
)

// NewRootCmd creates the root command for the scraper CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "volunteery-scraper",
		Short: "Scrape volunteering opportunities from The Stewpot",
		Long: `volunteery-scraper walks The Stewpot's volunteering portal with a headless
browser, collects every listed opportunity with its shift dates, address,
and age requirement, and saves the run to Postgres.

Use --dry-run to preview a run without a database, and the filter flags
to narrow which opportunities are kept.`,
		RunE: runScrape,
	}

	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Preview what would be saved without writing to the database")
	rootCmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	rootCmd.Flags().StringVar(&flagSort, "sort", "scrape", "Order events by: scrape, date, or title")
	rootCmd.Flags().StringVar(&flagICSDir, "ics-dir", "", "Directory to write one .ics calendar file per scheduled event")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Show addresses and age requirements in text output, and debug logs")
	rootCmd.Flags().StringSliceVar(&flagTitles, "title", nil, "Keep only events whose title contains this text (repeatable)")
	rootCmd.Flags().BoolVar(&flagOngoing, "ongoing-only", false, "Keep only ongoing events with no fixed shifts")
	rootCmd.Flags().StringVar(&flagShiftsFrom, "shifts-from", "", "Keep events with a shift on or after this day (e.g. 2024-02-10)")
	rootCmd.Flags().StringVar(&flagShiftsTo, "shifts-to", "", "Keep events with a shift on or before this day")
	rootCmd.Flags().BoolVar(&flagIncludeAge, "include-age-restricted", true, "Include events that state a minimum volunteer age")

	return rootCmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	order := SortOrder(strings.ToLower(flagSort))
	if order != SortByScrape && order != SortByDate && order != SortByTitle {
		return fmt.Errorf("invalid sort order: %s (must be 'scrape', 'date', or 'title')", flagSort)
	}

	fl, err := buildFilter()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.ServiceEnvironment, flagVerbose)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()

	session, err := browser.NewSession(ctx, browser.Options{
		Headless:      cfg.ScraperHeadless,
		ExecPath:      cfg.ScraperChromePath,
		SettleDelay:   cfg.SettleDelay(),
		ActionTimeout: cfg.ActionTimeout(),
	})
	if err != nil {
		return fmt.Errorf("starting browser: %w", err)
	}
	defer session.Close()

	sc := scraper.New(session, scraper.Options{
		StartURL: cfg.ScraperStartURL,
		Logger:   log,
	})

	records, err := sc.ScrapeAll(ctx)
	if err != nil {
		return fmt.Errorf("scraping volunteering events: %w", err)
	}

	// The browser is done once the walk finishes. Release it before
	// any database work.
	session.Close()

	kept := fl.Apply(records)
	if !fl.IsEmpty() {
		log.Info("filter applied",
			zap.String("criteria", fl.String()),
			zap.Int("kept", len(kept)),
			zap.Int("dropped", len(records)-len(kept)))
	}

	sortRecords(kept, order)

	dest, cleanup, err := buildSink(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := dest.Write(ctx, kept); err != nil {
		return fmt.Errorf("delivering run to %s sink: %w", dest.Name(), err)
	}
	log.Info("run delivered", zap.String("sink", dest.Name()), zap.Int("records", len(kept)))

	if flagICSDir != "" {
		written, err := writeCalendars(flagICSDir, kept)
		if err != nil {
			return fmt.Errorf("writing calendar files: %w", err)
		}
		log.Info("calendar files written", zap.String("dir", flagICSDir), zap.Int("files", written))
	}

	result := &OutputResult{
		ScrapedAt:  time.Now().UTC(),
		EventCount: len(kept),
		Events:     kept,
	}
	if err := WriteOutput(os.Stdout, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

// buildFilter assembles the record filter from the flag values.
func buildFilter() (filter.Filter, error) {
	var f filter.Filter

	if flagShiftsFrom != "" {
		day, err := filter.ParseDay(flagShiftsFrom)
		if err != nil {
			return f, fmt.Errorf("--shifts-from: %w", err)
		}
		f.ShiftsFrom = &day
	}
	if flagShiftsTo != "" {
		day, err := filter.ParseDay(flagShiftsTo)
		if err != nil {
			return f, fmt.Errorf("--shifts-to: %w", err)
		}
		f.ShiftsTo = &day
	}
	if f.ShiftsFrom != nil && f.ShiftsTo != nil && f.ShiftsFrom.After(*f.ShiftsTo) {
		return f, fmt.Errorf("--shifts-from %s is after --shifts-to %s", flagShiftsFrom, flagShiftsTo)
	}

	f.OngoingOnly = flagOngoing
	f.ExcludeAgeRestricted = !flagIncludeAge
	f.Titles = flagTitles

	return f, nil
}

// buildSink picks the delivery target for the run. The returned cleanup
// releases the database pool and is safe to call for the dry-run sink.
func buildSink(ctx context.Context, cfg *config.Config) (sink.Sink, func(), error) {
	if flagDryRun {
		return sink.NewDryRunSink(os.Stderr), func() {}, nil
	}

	dsn, err := cfg.DSN()
	if err != nil {
		return nil, nil, err
	}
	pool, err := storage.NewPool(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := migrations.Apply(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrating database: %w", err)
	}
	return sink.NewPostgresSink(storage.New(pool)), pool.Close, nil
}

// writeCalendars writes one .ics file per scheduled record into dir,
// skipping ongoing records. Duplicate titles get a numeric suffix.
func writeCalendars(dir string, records []event.Record) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	written := 0
	counts := make(map[string]int)
	for i := range records {
		ics, ok := calendar.GenerateICS(&records[i])
		if !ok {
			continue
		}

		name := calendar.Filename(&records[i])
		counts[name]++
		if c := counts[name]; c > 1 {
			name = fmt.Sprintf("%s-%d.ics", strings.TrimSuffix(name, ".ics"), c)
		}

		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(ics), 0644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written++
	}
	return written, nil
}

// Execute runs the root command and exits the process on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
