// Package extract turns uploaded bytes into plain text. Plain text passes through untouched; PDFs go
// through an ordered list of strategies and the first one that yields non-blank text wins.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/akolanti/DocChat/internal/docqa/textkit"
	"github.com/akolanti/DocChat/internal/domain/docModel"
	"github.com/akolanti/DocChat/pkg/logger_i"
)

// Placeholder is returned when no strategy recovers any text from a PDF.
const Placeholder = "PDF content could not be extracted. This might be an image-based PDF or a complex document. Please try uploading a text-based PDF or convert it to a TXT file first."

const (
	StrategyPlainText   = "plain_text"
	StrategyLibrary     = "library"
	StrategyMarkerScan  = "marker_scan"
	StrategyCleanup     = "heuristic_cleanup"
	StrategyPlaceholder = "placeholder"
)

// Result is what a strategy hands back: text, or the reason it has none.
type Result struct {
	Text string
	Err  error
}

func (r Result) Found() bool {
	return r.Err == nil && textkit.Trim(r.Text) != ""
}

type Strategy interface {
	Name() string
	Extract(ctx context.Context, data []byte) Result
}

// PageReader is the optional PDF library capability: bytes in, text runs per page out, both in order.
type PageReader interface {
	ReadPages(ctx context.Context, data []byte) ([][]string, error)
}

type Extractor struct {
	strategies []Strategy
	logger     *logger_i.Logger
}

// New builds the PDF strategy chain. A nil pages reader drops the library strategy.
func New(pages PageReader) *Extractor {
	var strategies []Strategy
	if pages != nil {
		strategies = append(strategies, libraryStrategy{pages: pages})
	}
	strategies = append(strategies, markerScanStrategy{}, cleanupStrategy{})
	return NewWithStrategies(strategies...)
}

func NewWithStrategies(strategies ...Strategy) *Extractor {
	return &Extractor{
		strategies: strategies,
		logger:     logger_i.NewLogger("TextExtractor"),
	}
}

// Extract returns the text for data and the name of the strategy that produced it.
// It never fails; an unrecoverable PDF yields Placeholder.
func (e *Extractor) Extract(ctx context.Context, data []byte, docType docModel.DocType) (string, string) {
	if docType == docModel.TXT {
		return string(data), StrategyPlainText
	}
	return e.ExtractPDF(ctx, data)
}

func (e *Extractor) ExtractPDF(ctx context.Context, data []byte) (string, string) {
	log := e.logger.WithTrace(ctx)
	for _, strategy := range e.strategies {
		result := runStrategy(ctx, strategy, data)
		if result.Found() {
			log.Debug("pdf text extracted", "strategy", strategy.Name(), "length", len(result.Text))
			return textkit.Trim(result.Text), strategy.Name()
		}
		if result.Err != nil {
			log.Debug("pdf strategy failed, falling through", "strategy", strategy.Name(), "error", result.Err)
		}
	}
	log.Warn("no text recovered from pdf", "bytes", len(data))
	return Placeholder, StrategyPlaceholder
}

func runStrategy(ctx context.Context, strategy Strategy, data []byte) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Err: fmt.Errorf("%s panicked: %v", strategy.Name(), r)}
		}
	}()
	return strategy.Extract(ctx, data)
}

type libraryStrategy struct {
	pages PageReader
}

func (libraryStrategy) Name() string { return StrategyLibrary }

func (s libraryStrategy) Extract(ctx context.Context, data []byte) Result {
	pages, err := s.pages.ReadPages(ctx, data)
	if err != nil {
		return Result{Err: err}
	}
	var full strings.Builder
	for _, runs := range pages {
		pageText := textkit.Trim(strings.Join(runs, " "))
		if pageText == "" {
			continue
		}
		full.WriteString(pageText)
		full.WriteString("\n")
	}
	return Result{Text: textkit.Trim(full.String())}
}
