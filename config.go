package pdfgrid

import (
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config controls the table detection heuristic and batch behavior.
//
// MinGapWidth and PartCountTolerance are heuristic constants with no
// universally correct value across PDF producers; both are exposed here
// rather than hard-coded.
type Config struct {
	// MinGapWidth is the minimum whitespace run, in space widths, that
	// separates two cells within a line (default: 2).
	MinGapWidth int `validate:"min=1"`

	// PartCountTolerance is how far a line's cell count may deviate from a
	// region's established cell count and still extend the region
	// (default: 1, which absorbs a row with one missing or extra cell).
	PartCountTolerance int `validate:"min=0,max=2"`

	// MinRegionLines is the minimum number of lines a region must
	// accumulate before it is considered a table (default: 2). Isolated
	// double-spaced prose lines are discarded by this threshold.
	MinRegionLines int `validate:"min=2"`

	// MergeAcrossPages joins a table that runs off the bottom of one page
	// with a compatible continuation at the top of the next (default: true).
	MergeAcrossPages bool

	// CleanText replaces non-ASCII and control bytes with spaces before
	// tokenization (default: true).
	CleanText bool

	// MaxConcurrentDocs bounds how many documents a batch run processes in
	// parallel. Documents are independent, so this is purely a resource cap.
	MaxConcurrentDocs int `validate:"min=1,max=32"`

	// InstanceTimeout is how long a batch worker waits for a pdfium
	// instance from the pool.
	InstanceTimeout time.Duration `validate:"required"`

	// EnableMetricsLogging logs per-page timing and document statistics
	// (default: false).
	EnableMetricsLogging bool

	// Logger receives progress and failure logs. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{
		MinGapWidth:        2,
		PartCountTolerance: 1,
		MinRegionLines:     2,
		MergeAcrossPages:   true,
		CleanText:          true,
		MaxConcurrentDocs:  4,
		InstanceTimeout:    30 * time.Second,
	}
}

// Validate checks the configuration against its declared constraints.
func (cfg Config) Validate() error {
	return validator.New().Struct(cfg)
}

func (cfg Config) logger() *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.Default()
}
