package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/metrics"
)

// Config controls the digital-versus-OCR decision.
type Config struct {
	// MinDigitalChars is the minimum digital character count for a page to
	// skip OCR.
	MinDigitalChars int
	// OCRScale is the rasterization magnification for OCR pages.
	OCRScale float64
	// OCRLanguages are passed to the OCR engine, in priority order.
	OCRLanguages []string
}

// Extractor turns a resume document into plain text. Pages with a usable
// digital text layer go through layout reconstruction; the rest are
// rasterized and OCR'd. A page that fails OCR contributes empty text so a
// single bad scan never sinks the whole document.
type Extractor struct {
	opener Opener
	ocr    OCREngine
	cfg    Config
	logger *zap.Logger
}

func New(opener Opener, ocr OCREngine, cfg Config, logger *zap.Logger) *Extractor {
	return &Extractor{opener: opener, ocr: ocr, cfg: cfg, logger: logger}
}

// DocumentText extracts the full text of the document at path, pages
// joined by newlines.
func (e *Extractor) DocumentText(ctx context.Context, path string) (string, error) {
	doc, err := e.opener.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer doc.Close()

	var b strings.Builder
	for page := 0; page < doc.NumPages(); page++ {
		b.WriteString(e.pageText(ctx, doc, path, page))
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (e *Extractor) pageText(ctx context.Context, doc Document, path string, page int) string {
	spans, err := doc.PageSpans(page)
	if err != nil {
		e.logger.Warn("digital text layer unreadable, falling back to OCR",
			zap.String("file", filepath.Base(path)),
			zap.Int("page", page),
			zap.Error(err))
		spans = nil
	}

	if digitalLen(spans) > e.cfg.MinDigitalChars {
		metrics.PagesExtractedTotal.WithLabelValues("digital").Inc()
		return LayoutText(spans)
	}

	img, err := doc.RenderPage(page, e.cfg.OCRScale)
	if err != nil {
		e.logger.Warn("page rasterization failed, page skipped",
			zap.String("file", filepath.Base(path)),
			zap.Int("page", page),
			zap.Error(err))
		metrics.PagesExtractedTotal.WithLabelValues("ocr_failed").Inc()
		return ""
	}

	text, err := e.ocr.Recognize(ctx, img, e.cfg.OCRLanguages)
	if err != nil {
		e.logger.Warn("ocr failed, page skipped",
			zap.String("file", filepath.Base(path)),
			zap.Int("page", page),
			zap.Error(err))
		metrics.PagesExtractedTotal.WithLabelValues("ocr_failed").Inc()
		return ""
	}

	metrics.PagesExtractedTotal.WithLabelValues("ocr").Inc()
	return text
}

// digitalLen counts the characters of the page's digital text layer,
// surrounding whitespace excluded.
func digitalLen(spans []TextSpan) int {
	var b strings.Builder
	for _, sp := range spans {
		b.WriteString(sp.Text)
	}
	return utf8.RuneCountInString(strings.TrimSpace(b.String()))
}
