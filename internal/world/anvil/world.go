// Package anvil samples Minecraft Anvil region files (pre-1.13 block
// layout) as a minimap world.
package anvil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Tnze/go-mc/save/region"
	"github.com/dgraph-io/ristretto"
	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelmap/internal/logger"
	"github.com/Faultbox/voxelmap/internal/minimap"
	"github.com/Faultbox/voxelmap/pkg/palette"
)

var _ minimap.World = (*World)(nil)

var regionNameRegexp = regexp.MustCompile(`^r\.(-?\d+)\.(-?\d+)\.mca$`)

// RegionDir returns the region directory of a dimension inside a save.
func RegionDir(worldDir, dimension string) string {
	switch dimension {
	case "nether":
		return filepath.Join(worldDir, "DIM-1", "region")
	case "end":
		return filepath.Join(worldDir, "DIM1", "region")
	default:
		return filepath.Join(worldDir, "region")
	}
}

// ParseRegionName extracts region coordinates from an r.<x>.<z>.mca name.
func ParseRegionName(name string) (rx, rz int, ok bool) {
	m := regionNameRegexp.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return 0, 0, false
	}
	x, errX := strconv.Atoi(m[1])
	z, errZ := strconv.Atoi(m[2])
	if errX != nil || errZ != nil {
		return 0, 0, false
	}
	return x, z, true
}

// Options configures a World.
type Options struct {
	Dir         string // Region directory
	NoSky       bool   // Cave scan mode, set for the nether
	CacheChunks int64  // Decoded chunks kept in memory
}

// Stats counts sampler activity.
type Stats struct {
	Decoded int64 // Chunks decoded from disk
	Failed  int64 // Chunks that failed to decode
	Regions int   // Region files currently open
}

type regionKey struct {
	x, z int
}

// memo is a decoded chunk tagged with the invalidation generation it was
// read in. The last one looked up is kept outside the cache because the
// scanner probes the same column many times in a row.
type memo struct {
	key uint64
	gen uint64
	col *column
}

// World is a read-only minimap.World over a region directory. It is safe
// for concurrent use.
type World struct {
	dir   string
	noSky bool

	mu      sync.Mutex
	regions map[regionKey]*region.Region // nil entries mark missing files

	cache *ristretto.Cache
	last  atomic.Pointer[memo]
	gen   atomic.Uint64

	decoded atomic.Int64
	failed  atomic.Int64
	warned  sync.Map

	log *zap.Logger
}

// Open prepares a world over opts.Dir. Region files are opened lazily.
func Open(opts Options) (*World, error) {
	info, err := os.Stat(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("opening region dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening region dir: %s is not a directory", opts.Dir)
	}

	chunks := opts.CacheChunks
	if chunks <= 0 {
		chunks = 1024
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: chunks * 10,
		MaxCost:     chunks,
		BufferItems: 64,

		// Each entry costs 1, so MaxCost counts chunks.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating chunk cache: %w", err)
	}

	w := &World{
		dir:     opts.Dir,
		noSky:   opts.NoSky,
		regions: make(map[regionKey]*region.Region),
		cache:   cache,
		log:     logger.Named("anvil"),
	}
	w.log.Info("world opened",
		zap.String("dir", opts.Dir),
		zap.Bool("noSky", opts.NoSky),
		zap.Int64("cacheChunks", chunks))
	return w, nil
}

// Dir returns the region directory.
func (w *World) Dir() string {
	return w.dir
}

// Stats returns counters for metrics and logs.
func (w *World) Stats() Stats {
	w.mu.Lock()
	open := 0
	for _, r := range w.regions {
		if r != nil {
			open++
		}
	}
	w.mu.Unlock()

	return Stats{
		Decoded: w.decoded.Load(),
		Failed:  w.failed.Load(),
		Regions: open,
	}
}

func chunkKey(cx, cz int) uint64 {
	return uint64(uint32(int32(cx)))<<32 | uint64(uint32(int32(cz)))
}

// column returns the decoded chunk (cx, cz), or absentColumn. Cache
// entries from before the last invalidation are ignored.
func (w *World) column(cx, cz int) *column {
	key := chunkKey(cx, cz)
	gen := w.gen.Load()
	if m := w.last.Load(); m != nil && m.key == key && m.gen == gen {
		return m.col
	}

	m, ok := w.cached(key, gen)
	if !ok {
		m = &memo{key: key, gen: gen, col: w.load(cx, cz)}
		w.cache.Set(key, m, 1)
		// Sets are buffered; wait so the next lookup of this chunk hits.
		w.cache.Wait()
	}
	w.last.Store(m)
	return m.col
}

func (w *World) cached(key, gen uint64) (*memo, bool) {
	v, ok := w.cache.Get(key)
	if !ok {
		return nil, false
	}
	m, ok := v.(*memo)
	if !ok || m.gen != gen {
		return nil, false
	}
	return m, true
}

// load reads and decodes a chunk. Failures are logged once per chunk and
// reported as absent.
func (w *World) load(cx, cz int) *column {
	data, err := w.readSector(cx, cz)
	if err != nil {
		if !errors.Is(err, ErrNoChunk) {
			w.warnOnce(cx, cz, err)
		}
		return absentColumn
	}

	col, err := decodeChunk(data)
	if err != nil {
		w.failed.Add(1)
		w.warnOnce(cx, cz, err)
		return absentColumn
	}
	w.decoded.Add(1)
	w.log.Debug("chunk decoded",
		zap.Int("chunkX", cx),
		zap.Int("chunkZ", cz),
		zap.String("size", humanize.Bytes(uint64(col.size))))
	return col
}

func (w *World) warnOnce(cx, cz int, err error) {
	if _, seen := w.warned.LoadOrStore(chunkKey(cx, cz), struct{}{}); seen {
		return
	}
	w.log.Warn("chunk unavailable",
		zap.Int("chunkX", cx),
		zap.Int("chunkZ", cz),
		zap.Error(err))
}

// readSector returns the raw payload of chunk (cx, cz).
func (w *World) readSector(cx, cz int) ([]byte, error) {
	rx, rz := region.At(cx, cz)
	x, z := region.In(cx, cz)

	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.regionLocked(rx, rz)
	if err != nil {
		return nil, err
	}
	if r == nil || !r.ExistSector(x, z) {
		return nil, ErrNoChunk
	}
	data, err := r.ReadSector(x, z)
	if err != nil {
		return nil, fmt.Errorf("reading chunk %d,%d: %w", cx, cz, err)
	}
	return data, nil
}

// regionLocked returns the open region (rx, rz), opening it on first use.
// A nil region means the file does not exist.
func (w *World) regionLocked(rx, rz int) (*region.Region, error) {
	key := regionKey{rx, rz}
	if r, ok := w.regions[key]; ok {
		return r, nil
	}

	path := filepath.Join(w.dir, fmt.Sprintf("r.%d.%d.mca", rx, rz))
	r, err := region.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			w.regions[key] = nil
			return nil, nil
		}
		return nil, fmt.Errorf("opening region %d,%d: %w", rx, rz, err)
	}
	w.regions[key] = r

	fields := []zap.Field{zap.Int("regionX", rx), zap.Int("regionZ", rz)}
	if info, err := os.Stat(path); err == nil {
		fields = append(fields, zap.String("size", humanize.Bytes(uint64(info.Size()))))
	}
	w.log.Debug("region opened", fields...)
	return r, nil
}

// Invalidate forgets region (rx, rz) and every decoded chunk, so the next
// lookups read the file again.
func (w *World) Invalidate(rx, rz int) error {
	w.mu.Lock()
	r := w.regions[regionKey{rx, rz}]
	delete(w.regions, regionKey{rx, rz})
	w.mu.Unlock()

	w.gen.Add(1)
	w.warned.Range(func(k, _ any) bool {
		w.warned.Delete(k)
		return true
	})

	if r != nil {
		return r.Close()
	}
	return nil
}

// Watch invalidates regions rewritten on disk until ctx is done.
func (w *World) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.log.Info("watching regions", zap.String("dir", w.dir))

	const changed = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&changed == 0 {
				continue
			}
			rx, rz, ok := ParseRegionName(event.Name)
			if !ok {
				continue
			}
			w.log.Debug("region changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			if err := w.Invalidate(rx, rz); err != nil {
				w.log.Warn("closing changed region", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

// Close closes every open region file.
func (w *World) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var result *multierror.Error
	for key, r := range w.regions {
		if r == nil {
			continue
		}
		if err := r.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("region %d,%d: %w", key.x, key.z, err))
		}
	}
	w.regions = make(map[regionKey]*region.Region)
	w.cache.Close()
	return result.ErrorOrNil()
}

// SurfaceHeight implements minimap.World.
func (w *World) SurfaceHeight(x, z int) int {
	col := w.column(x>>4, z>>4)
	if col.absent {
		return -1
	}
	return col.height(x&15, z&15)
}

// VoxelAt implements minimap.World.
func (w *World) VoxelAt(x, y, z int) palette.Block {
	if y < 0 || y > minimap.MaxHeight {
		return palette.Block{}
	}
	col := w.column(x>>4, z>>4)
	if col.absent {
		return palette.Block{}
	}
	return col.block(x&15, y, z&15)
}

// IsLiquid implements minimap.World.
func (w *World) IsLiquid(b palette.Block) bool {
	return palette.IsLiquid(b)
}

// IsChunkLoaded implements minimap.World. A chunk counts as loaded when it
// exists on disk and decodes.
func (w *World) IsChunkLoaded(x, z int) bool {
	return !w.column(x>>4, z>>4).absent
}

// HasNoSky implements minimap.World.
func (w *World) HasNoSky() bool {
	return w.noSky
}
