package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tasklens/internal/config"
	"tasklens/internal/dataset"
	"tasklens/internal/exporter"
	"tasklens/internal/infrastructure"
	"tasklens/internal/summary"
)

// taskcsv normalizes one or more task-time CSV files, applies filters and
// writes the combined view as CSV or XLSX. With -summary it also asks the
// text-generation API for a prose recap of the filtered data.
func main() {
	var inputs []string
	flag.Func("in", "input CSV file (repeatable)", func(v string) error {
		inputs = append(inputs, v)
		return nil
	})
	users := flag.String("user", "", "comma-separated user filter")
	locales := flag.String("locale", "", "comma-separated locale filter")
	projects := flag.String("project", "", "comma-separated project filter")
	from := flag.String("from", "", "start date YYYY-MM-DD (inclusive)")
	to := flag.String("to", "", "end date YYYY-MM-DD (inclusive)")
	format := flag.String("format", "csv", "output format: csv | xlsx")
	out := flag.String("out", "", "output file path (defaults to stdout for csv)")
	withSummary := flag.Bool("summary", false, "print a generated summary of the filtered data")
	flag.Parse()

	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: taskcsv -in file.csv [-in more.csv] [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = &config.Config{Logging: config.LoggingConfig{Level: "info", Output: "console"}}
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	criteria, err := buildCriteria(*users, *locales, *projects, *from, *to)
	if err != nil {
		logger.Error("Invalid filter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	normalizer := dataset.NewNormalizer(logger)
	results := make([]*dataset.FileResult, 0, len(inputs))
	for _, path := range inputs {
		raw, err := os.ReadFile(path)
		if err != nil {
			logger.Error("Cannot read input file",
				slog.String("path", path),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		result, err := normalizer.Normalize(raw, filepath.Base(path))
		if err != nil {
			logger.Error("Cannot normalize input file",
				slog.String("path", path),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("File normalized",
			slog.String("file", result.SourceFile),
			slog.Int("rows_kept", result.RowsKept),
			slog.Int("rows_dropped", result.RowsDropped))
		results = append(results, result)
	}

	records := dataset.Filter(dataset.Combine(results), criteria)
	logger.Info("Dataset ready", slog.Int("records", len(records)))

	if err := writeOutput(records, *format, *out); err != nil {
		logger.Error("Export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *withSummary {
		agg := dataset.Aggregate(records)
		prompt := summary.BuildPrompt(agg, criteria)

		client := summary.NewClient(cfg.Summary, logger)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Summary.Timeout)
		defer cancel()

		text, err := client.Summarize(ctx, prompt)
		if err != nil {
			// The upstream message goes to the user verbatim
			fmt.Fprintf(os.Stderr, "summary failed: %s\n", err)
			os.Exit(1)
		}
		fmt.Println(text)
	}
}

// buildCriteria assembles filter criteria from the flag values
func buildCriteria(users, locales, projects, from, to string) (dataset.FilterCriteria, error) {
	criteria := dataset.FilterCriteria{
		Users:    splitList(users),
		Locales:  splitList(locales),
		Projects: splitList(projects),
	}
	if from != "" {
		t, err := time.ParseInLocation("2006-01-02", from, time.UTC)
		if err != nil {
			return dataset.FilterCriteria{}, fmt.Errorf("invalid -from date %q: %w", from, err)
		}
		criteria.DateFrom = &t
	}
	if to != "" {
		t, err := time.ParseInLocation("2006-01-02", to, time.UTC)
		if err != nil {
			return dataset.FilterCriteria{}, fmt.Errorf("invalid -to date %q: %w", to, err)
		}
		criteria.DateTo = &t
	}
	if criteria.DateFrom != nil && criteria.DateTo != nil && criteria.DateTo.Before(*criteria.DateFrom) {
		return dataset.FilterCriteria{}, fmt.Errorf("-to date is before -from date")
	}
	return criteria, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// writeOutput writes the records in the requested format
func writeOutput(records dataset.Dataset, format, out string) error {
	switch format {
	case "csv":
		if out == "" {
			return exporter.WriteCSV(os.Stdout, records, exporter.CSVOptions{})
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		return exporter.WriteCSV(f, records, exporter.CSVOptions{BOMPrefix: true})
	case "xlsx":
		if out == "" {
			return fmt.Errorf("xlsx output requires -out")
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		return exporter.WriteXLSX(f, records)
	default:
		return fmt.Errorf("unknown format %q, want csv or xlsx", format)
	}
}
