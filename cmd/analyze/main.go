package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/polysent/polysent/config"
	"github.com/polysent/polysent/internal/aggregate"
	"github.com/polysent/polysent/internal/export"
	"github.com/polysent/polysent/internal/langdetect"
	"github.com/polysent/polysent/internal/logging"
	"github.com/polysent/polysent/internal/models"
	"github.com/polysent/polysent/internal/pipeline"
	"github.com/polysent/polysent/internal/sentiment"
)

func main() {
	var (
		file   = flag.String("file", "", "csv file to analyze")
		column = flag.String("column", pipeline.DefaultTextColumn, "name of the text column")
		output = flag.String("output", export.DefaultFilename, "where to write the result csv")
	)
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Analyze] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	if *file == "" {
		slog.Error("[Analyze] No input file, pass -file path/to/input.csv")
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		slog.Error("[Analyze] Failed to open input", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer f.Close()

	records, err := pipeline.NewCSVSource(f, *column).Records(context.Background())
	if err != nil {
		slog.Error("[Analyze] Failed to read csv", slog.String("error", err.Error()))
		os.Exit(1)
	}

	routes := make(map[models.Language]string)
	for tag, variant := range cfg.VariantRoutes() {
		routes[models.ParseLanguage(tag)] = variant
	}
	analyzer, err := sentiment.NewAnalyzer(sentiment.Options{
		ModelDir:       cfg.ModelDir,
		DefaultVariant: cfg.DefaultVariant,
		Routes:         routes,
	})
	if err != nil {
		slog.Error("[Analyze] Failed to load sentiment models", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer analyzer.Close()

	table := pipeline.New(langdetect.New(), analyzer).Run(records)

	out, err := os.Create(*output)
	if err != nil {
		slog.Error("[Analyze] Failed to create output", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer out.Close()

	if err := export.WriteResults(out, table); err != nil {
		slog.Error("[Analyze] Failed to write results", slog.String("error", err.Error()))
		os.Exit(1)
	}

	summary := aggregate.Distribution(table)
	fmt.Printf("analyzed %d records, results written to %s\n", summary.TotalRecords, *output)
	for _, label := range models.AllSentimentLabels {
		count := summary.CountsByLabel[label]
		if count == 0 {
			continue
		}
		fmt.Printf("  %-8s %5d  %.1f%%\n", label, count, summary.Percentages[label])
	}
}
