package pdfgrid

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// TableSource extracts the tables of a single document. It abstracts the
// PDF text-recovery backend so the batch driver can be exercised without
// one.
type TableSource interface {
	ExtractTables(ctx context.Context, path string) ([]Table, error)
}

// PoolSource is a TableSource backed by a pdfium instance pool. Each call
// checks out its own instance, so a PoolSource is safe for concurrent use
// as long as the pool holds enough instances.
type PoolSource struct {
	pool pdfium.Pool
	cfg  Config
}

// NewPoolSource creates a pool-backed table source.
func NewPoolSource(pool pdfium.Pool, cfg Config) *PoolSource {
	return &PoolSource{pool: pool, cfg: cfg}
}

// ExtractTables extracts all tables from the PDF at path.
func (s *PoolSource) ExtractTables(ctx context.Context, path string) ([]Table, error) {
	instance, err := s.pool.GetInstance(s.cfg.InstanceTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pdfium instance")
	}
	defer instance.Close()

	extractor, err := NewExtractorWithConfig(instance, s.cfg)
	if err != nil {
		return nil, err
	}
	return extractor.ExtractFile(path)
}

// DocumentResult is the outcome of processing one document in a batch.
// A document with zero detected tables is a success with an empty Output.
type DocumentResult struct {
	Input      string
	Output     string // empty when no workbook was written
	TableCount int
	Duration   time.Duration
	Err        error
}

// Failed reports whether the document could not be processed.
func (r DocumentResult) Failed() bool {
	return r.Err != nil
}

// BatchSummary aggregates the outcomes of a batch run.
type BatchSummary struct {
	Documents int
	Succeeded int
	Failed    int
	Tables    int
}

// Summarize tallies a batch's document results.
func Summarize(results []DocumentResult) BatchSummary {
	summary := BatchSummary{Documents: len(results)}
	for _, r := range results {
		if r.Failed() {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Tables += r.TableCount
	}
	return summary
}

// BatchProcessor processes every PDF in a directory independently.
// Documents share no state, so they run in parallel up to
// Config.MaxConcurrentDocs; one bad file never halts the run.
type BatchProcessor struct {
	source TableSource
	cfg    Config
	sem    *semaphore.Weighted
}

// NewBatchProcessor validates the config and creates a batch processor.
func NewBatchProcessor(source TableSource, cfg Config) (*BatchProcessor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &BatchProcessor{
		source: source,
		cfg:    cfg,
		sem:    semaphore.NewWeighted(int64(cfg.MaxConcurrentDocs)),
	}, nil
}

// ProcessDirectory processes every file with a .pdf extension
// (case-insensitive) in inputDir, writing one workbook per document into
// outputDir as "<stem>_tables.xlsx". Results come back in directory order,
// one per document; per-document failures are recorded in the result, and
// the returned error covers only batch-level problems (unreadable input
// directory, unwritable output directory, cancelled context).
func (b *BatchProcessor) ProcessDirectory(ctx context.Context, inputDir, outputDir string) ([]DocumentResult, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read input directory %q", inputDir)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %q", outputDir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	log := b.cfg.logger()
	log.Debug("starting batch", "input_dir", inputDir, "documents", len(names))

	results := make([]DocumentResult, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		if err := b.sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, errors.Wrap(err, "failed to acquire worker slot")
		}
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			defer b.sem.Release(1)
			inPath := filepath.Join(inputDir, name)
			outPath := filepath.Join(outputDir, OutputName(name))
			results[i] = b.processDocument(ctx, inPath, outPath)
		}(i, name)
	}
	wg.Wait()

	summary := Summarize(results)
	log.Debug("batch finished",
		"documents", summary.Documents,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"tables", summary.Tables)
	return results, nil
}

// processDocument extracts and writes one document, converting any failure
// (including a panic in the extraction backend) into the result so the rest
// of the batch keeps going.
func (b *BatchProcessor) processDocument(ctx context.Context, inPath, outPath string) (result DocumentResult) {
	start := time.Now()
	result.Input = inPath
	log := b.cfg.logger()

	defer func() {
		result.Duration = time.Since(start)
		if r := recover(); r != nil {
			result.Err = errors.Errorf("panic while processing %s: %v", inPath, r)
		}
		if result.Failed() {
			log.Error("document failed", "path", inPath, "err", result.Err)
		}
	}()

	tables, err := b.source.ExtractTables(ctx, inPath)
	if err != nil {
		result.Err = errors.Wrapf(err, "failed to extract %q", inPath)
		return result
	}
	result.TableCount = len(tables)

	if len(tables) == 0 {
		// Not an error: the workbook is skipped because xlsx cannot hold
		// zero sheets.
		log.Debug("no tables detected", "path", inPath)
		return result
	}

	if err := WriteWorkbook(tables, outPath); err != nil {
		result.Err = err
		return result
	}
	result.Output = outPath
	log.Debug("document processed", "path", inPath, "tables", len(tables), "output", outPath)
	return result
}

// OutputName derives the workbook file name for an input document,
// e.g. "report.pdf" -> "report_tables.xlsx".
func OutputName(input string) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return stem + "_tables.xlsx"
}
