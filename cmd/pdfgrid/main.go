package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/urfave/cli/v3"

	"github.com/pdfgrid/pdfgrid"
)

func main() {
	cmd := &cli.Command{
		Name:  "pdfgrid",
		Usage: "Extract tables from text-based PDFs into xlsx workbooks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Input directory containing PDF files",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Output directory for xlsx workbooks",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "min-gap",
				Usage: "Minimum whitespace run (in space widths) separating two cells",
				Value: 2,
			},
			&cli.IntFlag{
				Name:  "tolerance",
				Usage: "Allowed cell-count deviation within one table",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "min-rows",
				Usage: "Minimum rows a region needs to count as a table",
				Value: 2,
			},
			&cli.IntFlag{
				Name:    "concurrency",
				Aliases: []string{"c"},
				Usage:   "Number of documents to process in parallel",
				Value:   4,
			},
			&cli.BoolFlag{
				Name:  "no-page-merge",
				Usage: "Do not merge tables that continue across a page break",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Action: extractTables,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func extractTables(ctx context.Context, cmd *cli.Command) error {
	concurrency := cmd.Int("concurrency")

	cfg := pdfgrid.DefaultConfig()
	cfg.MinGapWidth = cmd.Int("min-gap")
	cfg.PartCountTolerance = cmd.Int("tolerance")
	cfg.MinRegionLines = cmd.Int("min-rows")
	cfg.MergeAcrossPages = !cmd.Bool("no-page-merge")
	cfg.MaxConcurrentDocs = concurrency

	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Initialise pdfium with one instance per worker
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  concurrency,
		MaxTotal: concurrency,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise pdfium: %w", err)
	}
	defer pool.Close()

	processor, err := pdfgrid.NewBatchProcessor(pdfgrid.NewPoolSource(pool, cfg), cfg)
	if err != nil {
		return err
	}

	results, err := processor.ProcessDirectory(ctx, cmd.String("input"), cmd.String("output"))
	if err != nil {
		return fmt.Errorf("failed to process directory: %w", err)
	}

	for _, r := range results {
		switch {
		case r.Failed():
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", r.Input, r.Err)
		case r.TableCount == 0:
			fmt.Fprintf(os.Stderr, "ok   %s: no tables detected\n", r.Input)
		default:
			fmt.Fprintf(os.Stderr, "ok   %s: %d table(s) -> %s\n", r.Input, r.TableCount, r.Output)
		}
	}

	summary := pdfgrid.Summarize(results)
	fmt.Fprintf(os.Stderr, "\nProcessed %d document(s): %d succeeded, %d failed, %d table(s) extracted\n",
		summary.Documents, summary.Succeeded, summary.Failed, summary.Tables)
	return nil
}
