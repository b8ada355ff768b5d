// Package export provides docscan.Exporter implementations: one image file
// per page in JPEG, PNG or TIFF, or a single multi-page PDF.
//
// The file exporters write through temporary files and rename them into
// place, so a cancelled or failed save leaves no partial output after Abort.
// PDF buffers the document and writes to its io.Writer only in Close.
// Nothing is created on disk before the first page or Close, so an exporter
// handed to a save that is refused can simply be dropped.
//
// Example:
//
//	exp, err := export.ForPath("out/receipt.pdf", "Receipt", export.DefaultQuality)
//	if err != nil {
//		return err
//	}
//	if err := session.Save(ctx, exp); err != nil {
//		return err
//	}
package export

import (
	"path/filepath"
	"strings"

	"github.com/gogpu/docscan"
)

// PathExporter is an Exporter that can report the files it produced.
type PathExporter interface {
	docscan.Exporter
	Paths() []string
}

// ForPath picks an exporter from the extension of path: ".pdf" produces one
// document, ".jpg", ".png" and ".tif" one file per page named after the
// stem of path.
func ForPath(path, title string, quality int) (PathExporter, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewPDFFile(path, title, quality), nil
	}

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewDir(filepath.Dir(path), stem, format, quality), nil
}
