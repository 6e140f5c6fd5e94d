package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"
)

// PDFLibrary reads page text with github.com/dslipak/pdf.
type PDFLibrary struct {
	PageTimeout time.Duration
}

func NewPDFLibrary(pageTimeout time.Duration) *PDFLibrary {
	return &PDFLibrary{PageTimeout: pageTimeout}
}

func (l *PDFLibrary) ReadPages(ctx context.Context, data []byte) (pages [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library panic: %v", r)
		}
	}()

	f, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := f.NumPage()
	for i := 1; i <= numPages; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := l.protectExtract(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, textRuns(content))
	}
	return pages, nil
}

// protectExtract bounds a single page: the library can spin on broken content streams.
func (l *PDFLibrary) protectExtract(ctx context.Context, page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{err: fmt.Errorf("page extraction panic: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()

	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(l.PageTimeout):
		return "", errors.New("timeout")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// textRuns splits plain page text into its non-blank lines.
func textRuns(content string) []string {
	var runs []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			runs = append(runs, line)
		}
	}
	return runs
}
