package minimap

import "sync/atomic"

// Exchange hands completed rasters from the tick goroutine to the render
// loop. Publish stores a private copy, so the writer may keep mutating its
// working raster while readers hold the published one.
type Exchange struct {
	latest atomic.Pointer[snapshot]
}

// snapshot pairs a published raster with its sequence number so readers
// always see both from the same Publish or Clear.
type snapshot struct {
	raster *Raster
	seq    uint64
}

// Publish makes a snapshot of r visible to readers.
func (e *Exchange) Publish(r *Raster) {
	e.store(r.Clone())
}

// Latest returns the most recent snapshot and its sequence number. The
// raster is nil until the first Publish. Snapshots are never mutated.
func (e *Exchange) Latest() (*Raster, uint64) {
	s := e.latest.Load()
	if s == nil {
		return nil, 0
	}
	return s.raster, s.seq
}

// Clear drops the published snapshot, e.g. after a world change.
func (e *Exchange) Clear() {
	e.store(nil)
}

func (e *Exchange) store(r *Raster) {
	for {
		old := e.latest.Load()
		next := &snapshot{raster: r, seq: 1}
		if old != nil {
			next.seq = old.seq + 1
		}
		if e.latest.CompareAndSwap(old, next) {
			return
		}
	}
}
