package parallel

// minBandRows keeps bands large enough that scheduling cost stays small
// next to the per-row pixel work.
const minBandRows = 16

// Rows splits [0, height) into contiguous bands and calls fn(y0, y1) for
// each band on the pool, returning once every band has finished. fn must
// only write rows inside its band.
//
// A nil pool, or an image too short to split, runs fn inline.
func Rows(p *WorkerPool, height int, fn func(y0, y1 int)) {
	if height <= 0 {
		return
	}
	if p == nil || height < 2*minBandRows || p.Workers() == 1 {
		fn(0, height)
		return
	}

	bands := min(p.Workers()*2, height/minBandRows)
	step := (height + bands - 1) / bands

	work := make([]func(), 0, bands)
	for y0 := 0; y0 < height; y0 += step {
		y1 := min(y0+step, height)
		work = append(work, func() { fn(y0, y1) })
	}
	p.ExecuteAll(work)
}
