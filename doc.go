// Package docscan turns photographs of paper documents into flat, filtered
// scans.
//
// # Overview
//
// The pipeline has four stages, each usable on its own:
//
//   - Detect proposes the four page corners in a photo (grayscale, Gaussian
//     blur, Canny edges, largest contour, polygon approximation).
//   - Rectify warps the quadrilateral onto an axis-aligned rectangle with a
//     perspective homography and bilinear sampling.
//   - Apply runs one of the FilterKind transforms (grayscale, adaptive
//     threshold, sepia, ...) over a PixelBuffer.
//   - Session ties them together for a multi-page document: interactive
//     edits run on a bounded preview of each page, and Save runs the
//     full-resolution pass once, handing pages to an Exporter.
//
// # Quick Start
//
//	s := docscan.NewSession()
//	if _, err := s.Load(ctx, docscan.Files("p1.jpg", "p2.jpg")); err != nil {
//		return err
//	}
//	for i := range s.PageCount() {
//		if q, found, _ := s.DetectCorners(i); found {
//			_ = s.SetCorners(i, q)
//		}
//	}
//	_ = s.SetFilter(docscan.FilterAdaptiveThreshold)
//	return s.Save(ctx, export.NewJPEGDir("out", "receipt", 90))
//
// # Coordinates
//
// Points are in pixel units of one specific buffer. Session corner quads
// are always in source-image coordinates and are rescaled to the preview
// and export variants internally.
//
// # Buffers
//
// A PixelBuffer is never mutated after it is handed out. Every filter and
// warp returns a new buffer, so switching filters always starts from the
// same original pixels.
//
// # Logging
//
// docscan is silent by default. Call SetLogger with any *slog.Logger to
// receive diagnostics.
package docscan
