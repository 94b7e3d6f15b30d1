package pdfgrid

import (
	"io"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// ProcessingMetrics contains timing and statistics for one document.
type ProcessingMetrics struct {
	TotalTime       time.Duration
	DocumentOpen    time.Duration
	PageExtractions []PageMetrics
	Statistics      DocumentStatistics
}

// PageMetrics contains timing for a single page.
type PageMetrics struct {
	PageNumber int
	Duration   time.Duration
}

// DocumentStatistics summarizes what detection saw in a document.
type DocumentStatistics struct {
	TotalPages     int
	TotalLines     int
	CandidateLines int
	TotalRegions   int
	TotalTables    int
	TotalRows      int
}

// Extractor extracts tables from PDF documents using pdfium text recovery.
// An Extractor wraps a single pdfium instance and is not safe for
// concurrent use; run one Extractor per worker instead.
type Extractor struct {
	instance pdfium.Pdfium
	cfg      Config
}

// NewExtractor creates an extractor with the default configuration.
func NewExtractor(instance pdfium.Pdfium) *Extractor {
	return &Extractor{instance: instance, cfg: DefaultConfig()}
}

// NewExtractorWithConfig creates an extractor with a custom configuration.
func NewExtractorWithConfig(instance pdfium.Pdfium, cfg Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Extractor{instance: instance, cfg: cfg}, nil
}

// Config returns the extractor's configuration.
func (e *Extractor) Config() Config {
	return e.cfg
}

// ExtractFile extracts all tables from a PDF file.
func (e *Extractor) ExtractFile(filePath string) ([]Table, error) {
	doc, err := e.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer e.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	tables, _, err := e.extractDocument(doc.Document, -1, -1)
	return tables, err
}

// ExtractBytes extracts all tables from PDF bytes.
func (e *Extractor) ExtractBytes(pdfBytes []byte) ([]Table, error) {
	doc, err := e.instance.OpenDocument(&requests.OpenDocument{
		File: &pdfBytes,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer e.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	tables, _, err := e.extractDocument(doc.Document, -1, -1)
	return tables, err
}

// ExtractReader extracts all tables from a PDF read from an io.ReadSeeker.
func (e *Extractor) ExtractReader(reader io.ReadSeeker) ([]Table, error) {
	doc, err := e.instance.OpenDocument(&requests.OpenDocument{
		FileReader: reader,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer e.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	tables, _, err := e.extractDocument(doc.Document, -1, -1)
	return tables, err
}

// ExtractPageRange extracts tables from a specific range of pages
// (0-indexed, inclusive). Negative bounds clamp to the document.
func (e *Extractor) ExtractPageRange(filePath string, startPage, endPage int) ([]Table, error) {
	doc, err := e.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer e.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	tables, _, err := e.extractDocument(doc.Document, startPage, endPage)
	return tables, err
}

// ExtractFileWithMetrics extracts tables and returns processing metrics.
func (e *Extractor) ExtractFileWithMetrics(filePath string) ([]Table, ProcessingMetrics, error) {
	startTime := time.Now()
	openStart := time.Now()

	doc, err := e.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, ProcessingMetrics{}, errors.Wrap(err, "failed to open PDF document")
	}
	defer e.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})
	documentOpen := time.Since(openStart)

	tables, metrics, err := e.extractDocument(doc.Document, -1, -1)
	if err != nil {
		return nil, ProcessingMetrics{}, err
	}
	metrics.TotalTime = time.Since(startTime)
	metrics.DocumentOpen = documentOpen

	if e.cfg.EnableMetricsLogging {
		e.cfg.logger().Info("document processed",
			"path", filePath,
			"total_time", metrics.TotalTime.Round(time.Millisecond),
			"pages", metrics.Statistics.TotalPages,
			"lines", metrics.Statistics.TotalLines,
			"candidate_lines", metrics.Statistics.CandidateLines,
			"regions", metrics.Statistics.TotalRegions,
			"tables", metrics.Statistics.TotalTables)
	}
	return tables, metrics, nil
}

// DocumentInfo returns basic information about a PDF without extracting it.
func (e *Extractor) DocumentInfo(filePath string) (*DocumentInfo, error) {
	doc, err := e.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer e.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	pageCount, err := e.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page count")
	}
	return &DocumentInfo{PageCount: pageCount.PageCount}, nil
}

// DocumentInfo contains basic information about a PDF document.
type DocumentInfo struct {
	PageCount int
}

// extractDocument recovers the lines of every requested page in page order,
// then runs table detection over the whole document so regions can merge
// across page breaks. startPage/endPage are 0-indexed; pass -1/-1 for all.
func (e *Extractor) extractDocument(docRef references.FPDF_DOCUMENT, startPage, endPage int) ([]Table, ProcessingMetrics, error) {
	pageCount, err := e.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: docRef,
	})
	if err != nil {
		return nil, ProcessingMetrics{}, errors.Wrap(err, "failed to get page count")
	}

	if startPage < 0 {
		startPage = 0
	}
	if endPage < 0 || endPage >= pageCount.PageCount {
		endPage = pageCount.PageCount - 1
	}
	if startPage > endPage {
		return nil, ProcessingMetrics{}, errors.New("invalid page range: start page must be <= end page")
	}

	var metrics ProcessingMetrics
	pages := make([]PageLines, 0, endPage-startPage+1)
	for i := startPage; i <= endPage; i++ {
		pageStart := time.Now()
		lines, err := e.extractPage(docRef, i)
		if err != nil {
			return nil, ProcessingMetrics{}, errors.Wrapf(err, "failed to extract page %d", i+1)
		}
		pages = append(pages, PageLines{Number: i + 1, Lines: lines})
		metrics.PageExtractions = append(metrics.PageExtractions, PageMetrics{
			PageNumber: i + 1,
			Duration:   time.Since(pageStart),
		})
		if e.cfg.EnableMetricsLogging {
			e.cfg.logger().Debug("page extracted",
				"page", i+1, "total_pages", pageCount.PageCount, "lines", len(lines))
		}
	}

	tables, stats := detectTables(pages, e.cfg)
	metrics.Statistics = DocumentStatistics{
		TotalPages:     len(pages),
		TotalLines:     stats.Lines,
		CandidateLines: stats.CandidateLines,
		TotalRegions:   stats.Regions,
		TotalTables:    stats.Tables,
		TotalRows:      stats.Rows,
	}
	return tables, metrics, nil
}

// extractPage loads a single page and recovers its lines.
func (e *Extractor) extractPage(docRef references.FPDF_DOCUMENT, pageIndex int) ([]RawLine, error) {
	pageResp, err := e.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: docRef,
		Index:    pageIndex,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load page")
	}
	defer e.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
		Page: pageResp.Page,
	})

	return extractPageLines(e.instance, pageResp.Page, pageIndex+1, e.cfg)
}
