// Package session runs the minimap scan on a simulation tick and hands
// finished rasters to the render loop.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelmap/internal/logger"
	"github.com/Faultbox/voxelmap/internal/minimap"
)

// PlayerSource advances the player once per tick and reports where it is.
type PlayerSource interface {
	Step() minimap.Viewpoint
}

// Preparer makes chunks around a column available before it is scanned.
// It returns how many chunks it produced.
type Preparer interface {
	Prepare(x, z int) int
}

// Observer receives tick telemetry. metrics.Collector implements it.
type Observer interface {
	ObserveScan(d time.Duration, st minimap.Stats, seq uint64)
	ObserveGenerated(n int)
	ObserveWorldChange()
}

// tickInfo is what the render loop needs to interpolate between ticks.
type tickInfo struct {
	vp minimap.Viewpoint
	at time.Time
}

// Session owns the working raster of one world. The tick side (Tick, Run)
// is single-threaded; Latest and LastTick may be called from any goroutine.
type Session struct {
	mu       sync.Mutex
	id       uuid.UUID
	scanner  *minimap.Scanner
	world    minimap.World
	prep     Preparer
	work     *minimap.Raster
	observer Observer

	exchange minimap.Exchange
	last     atomic.Pointer[tickInfo]
	log      *zap.Logger
}

// New creates a session without a world. observer may be nil.
func New(scanner *minimap.Scanner, observer Observer) *Session {
	return &Session{
		scanner:  scanner,
		observer: observer,
		log:      logger.Named("session"),
	}
}

// ID identifies the current world session. It changes on every SetWorld.
func (s *Session) ID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// SetWorld switches to a new world or dimension. The raster is replaced
// and the published snapshot dropped, so no cells leak across worlds.
// prep may be nil.
func (s *Session) SetWorld(w minimap.World, prep Preparer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = uuid.New()
	s.world = w
	s.prep = prep
	s.work = minimap.NewRaster()
	s.exchange.Clear()
	s.last.Store(nil)

	if s.observer != nil {
		s.observer.ObserveWorldChange()
	}
	s.log.Info("world session started",
		zap.String("session", s.id.String()),
		zap.Bool("noSky", w != nil && w.HasNoSky()),
		zap.Int("zoom", s.scanner.Zoom()))
}

// Tick scans around vp and publishes the result. Without a world it does
// nothing.
func (s *Session) Tick(vp minimap.Viewpoint) minimap.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.world == nil {
		return minimap.Stats{}
	}

	if s.prep != nil {
		x, z := vp.Column()
		if n := s.prep.Prepare(x, z); n > 0 && s.observer != nil {
			s.observer.ObserveGenerated(n)
		}
	}

	start := time.Now()
	st := s.scanner.Scan(s.world, vp, s.work)
	elapsed := time.Since(start)

	s.exchange.Publish(s.work)
	s.last.Store(&tickInfo{vp: vp, at: start})

	_, seq := s.exchange.Latest()
	if s.observer != nil {
		s.observer.ObserveScan(elapsed, st, seq)
	}
	if st.Skipped > 0 {
		s.log.Debug("scan incomplete",
			zap.Int("skipped", st.Skipped),
			zap.Uint64("seq", seq))
	}
	return st
}

// Latest returns the most recent complete raster and its sequence number.
func (s *Session) Latest() (*minimap.Raster, uint64) {
	return s.exchange.Latest()
}

// LastTick returns the viewpoint of the last tick and when it ran. ok is
// false before the first tick of a world session.
func (s *Session) LastTick() (vp minimap.Viewpoint, at time.Time, ok bool) {
	info := s.last.Load()
	if info == nil {
		return minimap.Viewpoint{}, time.Time{}, false
	}
	return info.vp, info.at, true
}

// Partial returns how far now is between the last tick and the next one,
// clamped to [0, 1].
func Partial(last, now time.Time, rate time.Duration) float64 {
	if rate <= 0 {
		return 1
	}
	p := float64(now.Sub(last)) / float64(rate)
	return min(max(p, 0), 1)
}

// Run ticks at rate until ctx is done.
func (s *Session) Run(ctx context.Context, src PlayerSource, rate time.Duration) error {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	s.log.Info("tick loop started", zap.Duration("rate", rate))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("tick loop stopped")
			return nil
		case <-ticker.C:
			s.Tick(src.Step())
		}
	}
}
