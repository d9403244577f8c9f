package extract

import (
	"context"
	"image"
)

// TextSpan is one positioned run of digital text on a page, in PDF user
// space (origin bottom-left, Y grows upward). Runs can be as small as a
// single glyph depending on how the producer wrote the content stream.
type TextSpan struct {
	Text     string
	X        float64 // left edge
	Y        float64 // baseline
	W        float64 // advance width
	FontSize float64
}

// Document is an open resume document. Implementations wrap the external
// PDF renderer; see internal/transport/pdfdoc.
type Document interface {
	// NumPages returns the page count.
	NumPages() int
	// PageSpans returns the positioned digital text runs of a page
	// (0-based). An empty result means the page carries no digital text
	// layer and needs OCR.
	PageSpans(page int) ([]TextSpan, error)
	// RenderPage rasterizes a page at the given magnification for OCR.
	RenderPage(page int, scale float64) (image.Image, error)
	// Close releases the underlying file handles.
	Close() error
}

// Opener opens resume documents by path.
type Opener interface {
	Open(path string) (Document, error)
}

// OCREngine recognizes text on a rendered page image. Implementations wrap
// the external OCR collaborator; see internal/transport/tesseract.
type OCREngine interface {
	Recognize(ctx context.Context, img image.Image, languages []string) (string, error)
}
