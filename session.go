package docscan

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"
)

// State is the lifecycle stage of a Session.
type State uint8

const (
	// StateEmpty is a new session with no pages.
	StateEmpty State = iota
	// StateLoading is decoding sources.
	StateLoading
	// StateReady accepts page navigation, filter changes and corner edits.
	StateReady
	// StateSaving is running the full-resolution pass.
	StateSaving
	// StateClosed has released all buffers. It is terminal.
	StateClosed
)

var stateNames = [...]string{"empty", "loading", "ready", "saving", "closed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", s)
}

// Exporter receives the final pages of a save, in page order.
//
// An Exporter is used for a single save. Close is called after the last
// page; Abort is called instead when the save fails or is cancelled and
// must remove anything already written. A save that is refused before it
// starts calls neither, so an Exporter must not create output before its
// first WritePage.
type Exporter interface {
	WritePage(ctx context.Context, index int, page *PixelBuffer) error
	Close() error
	Abort() error
}

// PageAsset holds the two variants of one page, both derived once from the
// same decoded source.
type PageAsset struct {
	// PreviewOriginal is bounded by the preview dimension and feeds every
	// interactive render.
	PreviewOriginal *PixelBuffer

	// ExportOriginal is bounded by the export dimension and is read only
	// by Save.
	ExportOriginal *PixelBuffer

	// SourceWidth and SourceHeight are the decoded source dimensions. Corner
	// quads are expressed in this coordinate space.
	SourceWidth, SourceHeight int

	// Corners are the confirmed page corners, nil for the whole frame.
	Corners *Quad
}

type page struct {
	PageAsset

	// rectified caches PreviewOriginal warped through Corners.
	rectified *PixelBuffer
}

// previewBase returns the rectified preview, or the unrectified one when no
// corners are set or they are degenerate.
func (p *page) previewBase() *PixelBuffer {
	if p.rectified != nil {
		return p.rectified
	}
	if p.Corners == nil {
		p.rectified = p.PreviewOriginal
		return p.rectified
	}
	p.rectified = rectifyOrOriginal(p.PreviewOriginal, *p.Corners, p.SourceWidth, p.SourceHeight)
	return p.rectified
}

// exportBase returns the rectified export variant.
func (p *page) exportBase() *PixelBuffer {
	if p.Corners == nil {
		return p.ExportOriginal
	}
	return rectifyOrOriginal(p.ExportOriginal, *p.Corners, p.SourceWidth, p.SourceHeight)
}

// rectifyOrOriginal rescales corners from source space to b and warps b.
// Degenerate corners leave b unrectified.
func rectifyOrOriginal(b *PixelBuffer, corners Quad, srcW, srcH int) *PixelBuffer {
	q := corners.Scale(float64(b.width)/float64(srcW), float64(b.height)/float64(srcH))
	out, err := Rectify(b, q)
	if err != nil {
		Logger().Warn("docscan: rectify failed, using unrectified page", "err", err)
		return b
	}
	return out
}

// SaveResult reports the completion of an asynchronous save.
type SaveResult struct {
	Pages    int
	Duration time.Duration
	Err      error
}

// Session is a multi-page document editing session.
//
// Interactive operations (SetPage, SetFilter, SetCorners, Rotate) work on
// the bounded preview variants only; Save runs the full-resolution pass
// once. Methods are safe for concurrent use, but the session serializes
// them: while a save is running every mutating call fails with
// ErrInvalidState.
type Session struct {
	mu      sync.Mutex
	opts    sessionOptions
	state   State
	pages   []*page
	current int
	filter  FilterKind
	preview *PixelBuffer
}

// NewSession creates an empty session.
//
// Example:
//
//	s := docscan.NewSession(docscan.WithFilter(docscan.FilterAdaptiveThreshold))
//	if _, err := s.Load(ctx, docscan.Files("a.jpg", "b.jpg")); err != nil {
//		return err
//	}
func NewSession(opts ...SessionOption) *Session {
	o := defaultSessionOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Session{opts: o, filter: o.filter}
}

// State returns the current lifecycle stage.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PageCount returns the number of loaded pages.
func (s *Session) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// CurrentPage returns the index of the visible page.
func (s *Session) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// ActiveFilter returns the filter applied to the preview and, at save, to
// every page.
func (s *Session) ActiveFilter() FilterKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Preview returns the filtered preview of the current page, or nil when
// the session is not Ready. The buffer must not be modified.
func (s *Session) Preview() *PixelBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// Page returns a copy of the asset for page index.
func (s *Session) Page(index int) (PageAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.pageLocked(index)
	if err != nil {
		return PageAsset{}, err
	}
	return p.PageAsset, nil
}

// Load decodes every source into a page and moves the session from Empty
// through Loading to Ready.
//
// A source that fails to decode is skipped and reported as a *PageError;
// the load still succeeds when at least one page decodes. When none does,
// the session returns to Empty and the error wraps ErrNoPages. Load checks
// ctx between sources; a cancelled load also returns to Empty.
func (s *Session) Load(ctx context.Context, sources iter.Seq[Source]) ([]*PageError, error) {
	s.mu.Lock()
	if s.state != StateEmpty {
		st := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: load in state %s", ErrInvalidState, st)
	}
	s.state = StateLoading
	opts := s.opts
	s.mu.Unlock()

	start := time.Now()
	log := Logger()

	var (
		pages  []*page
		failed []*PageError
		err    error
	)
	index := 0
	for src := range sources {
		if err = ctx.Err(); err != nil {
			break
		}
		p, perr := loadPage(src, opts)
		if perr != nil {
			log.Warn("docscan: page failed to load", "page", index, "err", perr)
			failed = append(failed, &PageError{Index: index, Err: perr})
		} else {
			pages = append(pages, p)
		}
		index++
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateLoading {
		// Discarded while decoding.
		return failed, fmt.Errorf("%w: session discarded during load", ErrInvalidState)
	}
	if err != nil {
		s.state = StateEmpty
		return failed, fmt.Errorf("docscan: load: %w", err)
	}
	if len(pages) == 0 {
		s.state = StateEmpty
		errs := make([]error, 0, len(failed)+1)
		errs = append(errs, ErrNoPages)
		for _, f := range failed {
			errs = append(errs, f)
		}
		return failed, errors.Join(errs...)
	}

	s.pages = pages
	s.current = 0
	s.state = StateReady
	s.renderLocked()

	log.Info("docscan: session loaded",
		"pages", len(pages),
		"failed", len(failed),
		"elapsed", time.Since(start))
	return failed, nil
}

// loadPage decodes src and derives both page variants from the one
// decoded image.
func loadPage(src Source, opts sessionOptions) (*page, error) {
	img, err := src.Image()
	if err != nil {
		if !errors.Is(err, ErrDecodeFailure) {
			err = fmt.Errorf("%w: %w", ErrDecodeFailure, err)
		}
		return nil, err
	}
	preview, err := Preview(img, opts.previewMax)
	if err != nil {
		return nil, err
	}
	export, err := ExportCopy(img, opts.exportMax)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	Logger().Debug("docscan: page loaded",
		"source", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()),
		"preview", fmt.Sprintf("%dx%d", preview.width, preview.height),
		"export", fmt.Sprintf("%dx%d", export.width, export.height))
	return &page{PageAsset: PageAsset{
		PreviewOriginal: preview,
		ExportOriginal:  export,
		SourceWidth:     b.Dx(),
		SourceHeight:    b.Dy(),
	}}, nil
}

// SetPage makes index the visible page and renders its preview.
// An index outside [0, PageCount) changes nothing and returns
// ErrPageOutOfRange.
func (s *Session) SetPage(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked("set page"); err != nil {
		return err
	}
	if index < 0 || index >= len(s.pages) {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, index, len(s.pages))
	}
	s.current = index
	s.renderLocked()
	return nil
}

// SetFilter selects the filter for the preview and for every page at save.
// Only the current page's preview is re-rendered.
func (s *Session) SetFilter(kind FilterKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked("set filter"); err != nil {
		return err
	}
	if !kind.IsValid() {
		return fmt.Errorf("%w: filter %d", ErrInvalidInput, kind)
	}
	s.filter = kind
	s.renderLocked()
	return nil
}

// DetectCorners proposes corners for page index in source coordinates.
// When the detector finds no page outline the full frame is returned with
// found set to false.
func (s *Session) DetectCorners(index int) (q Quad, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked("detect corners"); err != nil {
		return Quad{}, false, err
	}
	p, err := s.pageLocked(index)
	if err != nil {
		return Quad{}, false, err
	}

	pv := p.PreviewOriginal
	q, found = s.opts.detector.Detect(pv)
	if !found {
		return FullFrame(p.SourceWidth, p.SourceHeight), false, nil
	}
	return q.Scale(float64(p.SourceWidth)/float64(pv.width), float64(p.SourceHeight)/float64(pv.height)), true, nil
}

// SetCorners confirms the page corners of page index, in source
// coordinates and any order. The preview is re-rectified immediately; the
// export variant is rectified at save. Degenerate corners are kept but the
// page renders unrectified.
func (s *Session) SetCorners(index int, corners Quad) error {
	if _, err := QuadFromPoints(corners[:]); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked("set corners"); err != nil {
		return err
	}
	p, err := s.pageLocked(index)
	if err != nil {
		return err
	}
	c := OrderCorners(corners)
	p.Corners = &c
	p.rectified = nil
	if index == s.current {
		s.renderLocked()
	}
	return nil
}

// ClearCorners resets page index to the whole frame.
func (s *Session) ClearCorners(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked("clear corners"); err != nil {
		return err
	}
	p, err := s.pageLocked(index)
	if err != nil {
		return err
	}
	p.Corners = nil
	p.rectified = nil
	if index == s.current {
		s.renderLocked()
	}
	return nil
}

// Rotate turns page index 90 degrees clockwise, corners included.
func (s *Session) Rotate(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked("rotate"); err != nil {
		return err
	}
	p, err := s.pageLocked(index)
	if err != nil {
		return err
	}
	if p.Corners != nil {
		c := OrderCorners(rotateQuad90(*p.Corners, p.SourceHeight))
		p.Corners = &c
	}
	p.PreviewOriginal = Rotate90(p.PreviewOriginal)
	p.ExportOriginal = Rotate90(p.ExportOriginal)
	p.SourceWidth, p.SourceHeight = p.SourceHeight, p.SourceWidth
	p.rectified = nil
	if index == s.current {
		s.renderLocked()
	}
	return nil
}

// Save runs the full-resolution pass: every page's export variant is
// rectified, filtered with the active filter and handed to exp in page
// order. On success exp is closed, the session moves to Closed and all
// buffers are released.
//
// Save checks ctx between pages. When ctx is cancelled, or exp or a page
// fails, exp.Abort is called and the session returns to Ready with every
// buffer intact, so the save can be retried.
//
// Save fails with ErrInvalidState unless the session is Ready. exp is left
// untouched in that case; it may belong to a save already running.
func (s *Session) Save(ctx context.Context, exp Exporter) error {
	job, err := s.beginSave(exp)
	if err != nil {
		return err
	}
	return s.runSave(ctx, job).Err
}

// SaveAsync starts Save in a new goroutine. The session is Saving when
// SaveAsync returns; the result is delivered on the returned channel,
// which is then closed.
func (s *Session) SaveAsync(ctx context.Context, exp Exporter) <-chan SaveResult {
	ch := make(chan SaveResult, 1)
	job, err := s.beginSave(exp)
	if err != nil {
		ch <- SaveResult{Err: err}
		close(ch)
		return ch
	}
	go func() {
		defer close(ch)
		ch <- s.runSave(ctx, job)
	}()
	return ch
}

type saveJob struct {
	pages  []*page
	filter FilterKind
	exp    Exporter
}

func (s *Session) beginSave(exp Exporter) (saveJob, error) {
	if exp == nil {
		return saveJob{}, fmt.Errorf("%w: nil exporter", ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked("save"); err != nil {
		return saveJob{}, err
	}
	s.state = StateSaving
	return saveJob{pages: s.pages, filter: s.filter, exp: exp}, nil
}

func (s *Session) runSave(ctx context.Context, job saveJob) SaveResult {
	start := time.Now()
	log := Logger()
	log.Info("docscan: save started", "pages", len(job.pages), "filter", job.filter)

	err := writePages(ctx, job)
	if err == nil {
		err = job.exp.Close()
	}
	if err != nil {
		if aerr := job.exp.Abort(); aerr != nil {
			log.Warn("docscan: exporter abort failed", "err", aerr)
		}
		s.mu.Lock()
		s.state = StateReady
		s.mu.Unlock()
		log.Warn("docscan: save failed", "err", err)
		return SaveResult{Duration: time.Since(start), Err: fmt.Errorf("docscan: save: %w", err)}
	}

	s.mu.Lock()
	s.state = StateClosed
	s.releaseLocked()
	s.mu.Unlock()

	d := time.Since(start)
	log.Info("docscan: save finished", "pages", len(job.pages), "elapsed", d)
	return SaveResult{Pages: len(job.pages), Duration: d}
}

// writePages renders pages one at a time so only one full-resolution
// result is alive at once; the pixel scans inside are parallel.
func writePages(ctx context.Context, job saveJob) error {
	for i, p := range job.pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		out := Apply(p.exportBase(), job.filter)
		if err := job.exp.WritePage(ctx, i, out); err != nil {
			return &PageError{Index: i, Err: err}
		}
	}
	return nil
}

// Discard releases every buffer and closes the session. It fails with
// ErrInvalidState while a save is running. Discarding a Closed session is
// a no-op.
func (s *Session) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateSaving:
		return fmt.Errorf("%w: discard while saving", ErrInvalidState)
	case StateClosed:
		return nil
	}
	s.state = StateClosed
	s.releaseLocked()
	Logger().Debug("docscan: session discarded")
	return nil
}

func (s *Session) readyLocked(op string) error {
	if s.state != StateReady {
		return fmt.Errorf("%w: %s in state %s", ErrInvalidState, op, s.state)
	}
	return nil
}

func (s *Session) pageLocked(index int) (*page, error) {
	if index < 0 || index >= len(s.pages) {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, index, len(s.pages))
	}
	return s.pages[index], nil
}

// renderLocked re-renders the current page's preview from its own
// preview variant.
func (s *Session) renderLocked() {
	s.preview = Apply(s.pages[s.current].previewBase(), s.filter)
}

func (s *Session) releaseLocked() {
	s.pages = nil
	s.preview = nil
	s.current = 0
}
