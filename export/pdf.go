package export

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/gogpu/docscan"
)

// pdfDPI is the resolution pages are placed at: a 2500px page becomes
// 600pt (8.33in) long.
const pdfDPI = 300

// PDF assembles all pages into one PDF document, one JPEG image per page
// with the page sized to the image.
//
// Nothing reaches the writer before Close, so Abort only has to drop the
// document held in memory.
type PDF struct {
	w       io.Writer
	doc     *fpdf.Fpdf
	quality int
	pages   int
}

var _ docscan.Exporter = (*PDF)(nil)

// NewPDF returns an exporter writing the finished document to w. quality
// is the JPEG quality of the embedded pages.
func NewPDF(w io.Writer, title string, quality int) *PDF {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: 595.28, Ht: 841.89},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator("docscan", false)
	doc.SetCreationDate(time.Now())
	if title != "" {
		doc.SetTitle(title, true)
	}
	return &PDF{w: w, doc: doc, quality: quality}
}

// WritePage appends page as a new PDF page.
func (p *PDF) WritePage(ctx context.Context, index int, page *docscan.PixelBuffer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, page.Image(), &jpeg.Options{Quality: clampQuality(p.quality)}); err != nil {
		return fmt.Errorf("export: encode page %d: %w", index, err)
	}

	wd := float64(page.Width()) * 72 / pdfDPI
	ht := float64(page.Height()) * 72 / pdfDPI

	name := fmt.Sprintf("page-%d", index)
	opts := fpdf.ImageOptions{ImageType: "JPG"}
	// "P" keeps the size as given; "L" would swap it.
	p.doc.AddPageFormat("P", fpdf.SizeType{Wd: wd, Ht: ht})
	p.doc.RegisterImageOptionsReader(name, opts, &buf)
	p.doc.ImageOptions(name, 0, 0, wd, ht, false, opts, 0, "")
	if err := p.doc.Error(); err != nil {
		return fmt.Errorf("export: pdf page %d: %w", index, err)
	}
	p.pages++
	return nil
}

// Close writes the document.
func (p *PDF) Close() error {
	return p.output(p.w)
}

func (p *PDF) output(w io.Writer) error {
	if p.pages == 0 {
		return fmt.Errorf("export: pdf: %w", docscan.ErrNoPages)
	}
	if err := p.doc.Output(w); err != nil {
		return fmt.Errorf("export: write pdf: %w", err)
	}
	docscan.Logger().Debug("export: pdf written", "pages", p.pages)
	return nil
}

// Abort drops the document.
func (p *PDF) Abort() error {
	p.doc = nil
	p.pages = 0
	return nil
}

// PDFFile writes a PDF to a path, replacing it only when the document is
// complete.
//
// The file system is not touched before Close: the document is written to
// a temporary file next to path and renamed over it.
type PDFFile struct {
	*PDF
	path string
}

var _ PathExporter = (*PDFFile)(nil)

// NewPDFFile returns an exporter producing the PDF at path.
func NewPDFFile(path, title string, quality int) *PDFFile {
	return &PDFFile{PDF: NewPDF(nil, title, quality), path: path}
}

// Close writes the document and moves it into place.
func (f *PDFFile) Close() error {
	if f.pages == 0 {
		return fmt.Errorf("export: pdf: %w", docscan.ErrNoPages)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("export: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".docscan-*.pdf")
	if err != nil {
		return fmt.Errorf("export: create file: %w", err)
	}

	if err := f.output(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("export: close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("export: rename: %w", err)
	}
	return nil
}

// Paths returns the destination path of the PDF.
func (f *PDFFile) Paths() []string { return []string{f.path} }
