// Package pdfdoc opens resume documents for the extraction pipeline. The
// digital text layer comes from a positioned-text parser; page rasters
// for OCR come from MuPDF, which handles the scanned files the parser
// sees as empty.
package pdfdoc

import (
	"fmt"
	"image"
	"os"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"

	"github.com/cvlens/cvlens/internal/extract"
)

const baseDPI = 72

// Opener implements extract.Opener.
type Opener struct{}

func NewOpener() *Opener { return &Opener{} }

// Open opens the PDF at path with both backends.
func (o *Opener) Open(path string) (extract.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}
	fz, err := fitz.New(path)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open pdf renderer: %w", err)
	}
	return &document{file: f, reader: reader, fz: fz}, nil
}

type document struct {
	file   *os.File
	reader *pdf.Reader
	fz     *fitz.Document
}

// NumPages reports the renderer's page count; the text parser can see
// fewer pages on damaged files.
func (d *document) NumPages() int { return d.fz.NumPage() }

// PageSpans returns the positioned digital text runs of a page (0-based).
func (d *document) PageSpans(page int) (spans []extract.TextSpan, err error) {
	// The parser panics on malformed content streams and exotic fonts.
	defer func() {
		if r := recover(); r != nil {
			spans = nil
			err = fmt.Errorf("parse page %d text: %v", page, r)
		}
	}()

	if page+1 > d.reader.NumPage() {
		return nil, nil
	}
	p := d.reader.Page(page + 1)
	if p.V.IsNull() {
		return nil, nil
	}

	texts := p.Content().Text
	spans = make([]extract.TextSpan, 0, len(texts))
	for _, t := range texts {
		spans = append(spans, extract.TextSpan{
			Text:     t.S,
			X:        t.X,
			Y:        t.Y,
			W:        t.W,
			FontSize: t.FontSize,
		})
	}
	return spans, nil
}

// RenderPage rasterizes a page (0-based) at the given magnification.
func (d *document) RenderPage(page int, scale float64) (image.Image, error) {
	if scale <= 0 {
		scale = 1
	}
	img, err := d.fz.ImageDPI(page, baseDPI*scale)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page, err)
	}
	return img, nil
}

func (d *document) Close() error {
	ferr := d.fz.Close()
	if err := d.file.Close(); err != nil {
		return err
	}
	return ferr
}
