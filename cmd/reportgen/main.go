// Command reportgen runs the report pipeline once from the command line:
// load a data file (or generate sample data), filter by date range, render
// the chart batch and build both documents.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zengjun200211-svg/douyindata/internal/analytics"
	"github.com/zengjun200211-svg/douyindata/internal/chart"
	"github.com/zengjun200211-svg/douyindata/internal/config"
	"github.com/zengjun200211-svg/douyindata/internal/dataset"
	apperrors "github.com/zengjun200211-svg/douyindata/internal/errors"
	"github.com/zengjun200211-svg/douyindata/internal/report"
	"github.com/zengjun200211-svg/douyindata/internal/services"
	"github.com/zengjun200211-svg/douyindata/pkg/contracts/domain"
)

func main() {
	var (
		input   = flag.String("input", "", "input data file (.xlsx or .csv); omit to use sample data")
		sample  = flag.Bool("sample", false, "generate sample data instead of reading a file")
		from    = flag.String("from", "", "range start (YYYY-MM-DD), default dataset minimum")
		to      = flag.String("to", "", "range end (YYYY-MM-DD), default dataset maximum")
		out     = flag.String("out", "reports", "output directory for artifacts")
		seed    = flag.Int64("seed", 0, "sample data seed (0 = time-based)")
		font    = flag.String("font", "", "TTF font file for chart labels")
		license = flag.String("license", "", "unioffice license key (defaults to UNIDOC_LICENSE_API_KEY)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(*input, *sample, *from, *to, *out, *seed, *font, *license, logger); err != nil {
		fmt.Fprintf(os.Stderr, "reportgen: %v\n", err)
		os.Exit(1)
	}
}

func run(input string, sample bool, fromFlag, toFlag, out string, seed int64, font, licenseKey string, logger *slog.Logger) error {
	if err := report.InitLicense(licenseKey); err != nil {
		return err
	}

	var (
		records []domain.Record
		err     error
	)
	switch {
	case sample || input == "":
		opts := dataset.DefaultSampleOptions()
		opts.Seed = seed
		records = dataset.GenerateSample(opts)
	default:
		table, err := dataset.LoadFile(input)
		if err != nil {
			return err
		}
		records, err = dataset.Normalize(table, nil)
		if err != nil {
			return err
		}
	}

	from, to, err := resolveRange(records, fromFlag, toFlag)
	if err != nil {
		return err
	}
	filtered := analytics.FilterRange(records, from, to)
	if len(filtered) == 0 {
		return &apperrors.EmptyInputError{Op: "generate report"}
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	style := chart.DefaultStyle()
	style.FontFile = font
	renderer, err := chart.NewRenderer(style, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	data := services.NewDataService(logger)
	paths := &config.Paths{ReportsDir: out}
	svc := services.NewReportService(data, renderer,
		report.NewDeckBuilder(logger), report.NewDocBuilder(logger), paths, logger)

	data.LoadRecords(records)

	artifacts, err := svc.Generate(ctx, from, to, func(stage string, percent int) {
		logger.Info("progress", slog.String("stage", stage), slog.Int("percent", percent))
	})
	if err != nil {
		return err
	}

	fmt.Printf("artifacts written to %s\n", artifacts.Dir)
	for _, name := range artifacts.Charts {
		fmt.Println("  " + name)
	}
	fmt.Println("  " + artifacts.Deck)
	fmt.Println("  " + artifacts.Doc)
	return nil
}

func resolveRange(records []domain.Record, fromFlag, toFlag string) (time.Time, time.Time, error) {
	min, max, err := analytics.DateBounds(records)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from, to := min, max
	if fromFlag != "" {
		if from, err = time.Parse(domain.DateLayout, fromFlag); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -from date: %w", err)
		}
	}
	if toFlag != "" {
		if to, err = time.Parse(domain.DateLayout, toFlag); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -to date: %w", err)
		}
	}
	return from, to, nil
}
