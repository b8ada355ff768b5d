package docscan

// SessionOption configures a Session during creation.
// Use functional options to customize Session behavior.
//
// Example:
//
//	// Default bounds: 1000px preview, 2500px export
//	s := docscan.NewSession()
//
//	// Smaller export for e-mail attachments
//	s := docscan.NewSession(docscan.WithExportMaxDimension(1600))
type SessionOption func(*sessionOptions)

// sessionOptions holds optional configuration for Session creation.
type sessionOptions struct {
	previewMax int
	exportMax  int
	filter     FilterKind
	detector   Detector
}

// defaultSessionOptions returns the default session options.
func defaultSessionOptions() sessionOptions {
	return sessionOptions{
		previewMax: DefaultPreviewMaxDimension,
		exportMax:  DefaultExportMaxDimension,
		filter:     FilterOriginal,
		detector:   DefaultDetector(),
	}
}

// WithPreviewMaxDimension bounds the longer side of every page's preview
// variant. Non-positive values keep the default.
func WithPreviewMaxDimension(n int) SessionOption {
	return func(o *sessionOptions) {
		if n > 0 {
			o.previewMax = n
		}
	}
}

// WithExportMaxDimension bounds the longer side of every page's export
// variant. Non-positive values keep the default.
func WithExportMaxDimension(n int) SessionOption {
	return func(o *sessionOptions) {
		if n > 0 {
			o.exportMax = n
		}
	}
}

// WithFilter sets the filter a session starts with. Invalid kinds are
// ignored.
func WithFilter(k FilterKind) SessionOption {
	return func(o *sessionOptions) {
		if k.IsValid() {
			o.filter = k
		}
	}
}

// WithDetector replaces the detector used by Session.DetectCorners.
//
// Example:
//
//	d := docscan.DefaultDetector()
//	d.MinAreaFraction = 0.2 // ignore small rectangles such as labels
//	s := docscan.NewSession(docscan.WithDetector(d))
func WithDetector(d Detector) SessionOption {
	return func(o *sessionOptions) {
		o.detector = d
	}
}
