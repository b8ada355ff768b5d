package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/docscan"
)

// Dir writes every page as its own image file in a directory.
//
// Pages are named <name>-001<ext>, <name>-002<ext>, ... When exactly one
// page was written, Close renames it to <name><ext>. Each file is written
// to a temporary name first and only renamed once complete, so a failed
// save never leaves a truncated image behind.
type Dir struct {
	dir     string
	name    string
	format  Format
	quality int
	written []string
}

var _ docscan.Exporter = (*Dir)(nil)

// NewDir returns a directory exporter. name is the file stem, typically
// from FileName.
func NewDir(dir, name string, format Format, quality int) *Dir {
	if name == "" {
		name = defaultStem
	}
	return &Dir{dir: dir, name: name, format: format, quality: quality}
}

// NewJPEGDir returns a Dir writing JPEG pages at quality.
func NewJPEGDir(dir, name string, quality int) *Dir {
	return NewDir(dir, name, FormatJPEG, quality)
}

// NewPNGDir returns a Dir writing PNG pages.
func NewPNGDir(dir, name string) *Dir {
	return NewDir(dir, name, FormatPNG, 0)
}

// NewTIFFDir returns a Dir writing TIFF pages.
func NewTIFFDir(dir, name string) *Dir {
	return NewDir(dir, name, FormatTIFF, 0)
}

// WritePage encodes page to its numbered file.
func (d *Dir) WritePage(ctx context.Context, index int, page *docscan.PixelBuffer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0o750); err != nil {
		return fmt.Errorf("export: create dir: %w", err)
	}

	path := d.pagePath(index)
	if err := d.writeFile(path, page); err != nil {
		return err
	}
	d.written = append(d.written, path)
	docscan.Logger().Debug("export: page written", "page", index, "path", path)
	return nil
}

func (d *Dir) writeFile(path string, page *docscan.PixelBuffer) error {
	f, err := os.CreateTemp(d.dir, ".docscan-*"+d.format.Ext())
	if err != nil {
		return fmt.Errorf("export: create file: %w", err)
	}
	tmp := f.Name()

	if err := Encode(f, page.Image(), d.format, d.quality); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("export: close file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("export: rename: %w", err)
	}
	return nil
}

func (d *Dir) pagePath(index int) string {
	return filepath.Join(d.dir, fmt.Sprintf("%s-%03d%s", d.name, index+1, d.format.Ext()))
}

// Close finishes the export. A single page drops its number.
func (d *Dir) Close() error {
	if len(d.written) != 1 {
		return nil
	}
	single := filepath.Join(d.dir, d.name+d.format.Ext())
	if err := os.Rename(d.written[0], single); err != nil {
		return fmt.Errorf("export: rename: %w", err)
	}
	d.written[0] = single
	return nil
}

// Abort removes every page file written so far.
func (d *Dir) Abort() error {
	var errs []error
	for _, p := range d.written {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	d.written = nil
	return errors.Join(errs...)
}

// Paths returns the files produced so far, in page order.
func (d *Dir) Paths() []string {
	return append([]string(nil), d.written...)
}
