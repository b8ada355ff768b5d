// Command docscan turns photographs of paper documents into flat, filtered
// scans.
//
// Usage:
//
//	docscan [flags] page1.jpg [page2.jpg ...]
//
// Each input becomes one page. With -auto the page outline is detected,
// with -corners the same four corners are applied to every page, otherwise
// the full frame is kept. The output extension selects the format: .pdf
// builds one document, .jpg, .png and .tif write one file per page.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gogpu/docscan"
	"github.com/gogpu/docscan/export"
)

type options struct {
	filter     string
	corners    string
	auto       bool
	rotate     int
	output     string
	title      string
	quality    int
	previewMax int
	exportMax  int
	verbose    bool
}

func main() {
	var o options
	flag.StringVar(&o.filter, "filter", "original", "filter: "+filterNames())
	flag.StringVar(&o.corners, "corners", "", "page corners x1,y1,...,x4,y4 in source pixels, applied to every page")
	flag.BoolVar(&o.auto, "auto", false, "detect page corners automatically")
	flag.IntVar(&o.rotate, "rotate", 0, "quarter turns clockwise applied to every page")
	flag.StringVar(&o.output, "o", "", "output file (.pdf, .jpg, .png, .tif); default <title>-<time>.pdf")
	flag.StringVar(&o.title, "title", "scan", "document title")
	flag.IntVar(&o.quality, "quality", export.DefaultQuality, "JPEG quality 1-100")
	flag.IntVar(&o.previewMax, "preview-max", docscan.DefaultPreviewMaxDimension, "preview bound in pixels")
	flag.IntVar(&o.exportMax, "export-max", docscan.DefaultExportMaxDimension, "export bound in pixels")
	flag.BoolVar(&o.verbose, "v", false, "verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	docscan.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o, flag.Args(), logger); err != nil {
		logger.Error("docscan failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, inputs []string, logger *slog.Logger) error {
	if len(inputs) == 0 {
		return errors.New("no input images")
	}

	kind, err := docscan.ParseFilterKind(o.filter)
	if err != nil {
		return err
	}
	var manual *docscan.Quad
	if o.corners != "" {
		q, err := parseCorners(o.corners)
		if err != nil {
			return err
		}
		manual = &q
	}

	s := docscan.NewSession(
		docscan.WithPreviewMaxDimension(o.previewMax),
		docscan.WithExportMaxDimension(o.exportMax),
		docscan.WithFilter(kind),
	)
	failed, err := s.Load(ctx, docscan.Files(inputs...))
	if err != nil {
		return err
	}
	for _, f := range failed {
		logger.Warn("skipping input", "file", inputs[f.Index], "err", f.Err)
	}

	for i := range s.PageCount() {
		if err := preparePage(s, i, o, manual, logger); err != nil {
			return err
		}
	}

	output := o.output
	if output == "" {
		output = export.FileName(o.title, time.Now()) + ".pdf"
	}
	exp, err := export.ForPath(output, o.title, o.quality)
	if err != nil {
		return err
	}

	pages := s.PageCount()
	start := time.Now()
	if err := s.Save(ctx, exp); err != nil {
		return err
	}
	logger.Info("saved",
		"pages", pages,
		"filter", kind,
		"files", strings.Join(exp.Paths(), ","),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// preparePage rotates page i and sets its corners.
func preparePage(s *docscan.Session, i int, o options, manual *docscan.Quad, logger *slog.Logger) error {
	for range ((o.rotate % 4) + 4) % 4 {
		if err := s.Rotate(i); err != nil {
			return err
		}
	}

	switch {
	case manual != nil:
		return s.SetCorners(i, *manual)
	case o.auto:
		q, found, err := s.DetectCorners(i)
		if err != nil {
			return err
		}
		if !found {
			logger.Info("no page outline found, keeping full frame", "page", i)
			return nil
		}
		logger.Debug("page outline detected", "page", i, "corners", q)
		return s.SetCorners(i, q)
	}
	return nil
}

// parseCorners reads eight comma-separated coordinates.
func parseCorners(s string) (docscan.Quad, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 8 {
		return docscan.Quad{}, fmt.Errorf("%w: -corners needs 8 numbers, got %d", docscan.ErrInvalidInput, len(fields))
	}
	pts := make([]docscan.Point, 4)
	for i := range pts {
		x, err := strconv.ParseFloat(strings.TrimSpace(fields[2*i]), 64)
		if err != nil {
			return docscan.Quad{}, fmt.Errorf("%w: -corners: %w", docscan.ErrInvalidInput, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(fields[2*i+1]), 64)
		if err != nil {
			return docscan.Quad{}, fmt.Errorf("%w: -corners: %w", docscan.ErrInvalidInput, err)
		}
		pts[i] = docscan.Pt(x, y)
	}
	return docscan.QuadFromPoints(pts)
}

func filterNames() string {
	names := make([]string, 0, len(docscan.Filters()))
	for _, k := range docscan.Filters() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}
