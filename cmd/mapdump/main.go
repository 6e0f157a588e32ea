// Package main renders one minimap scan of a world to a PNG file.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/nfnt/resize"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelmap/internal/config"
	"github.com/Faultbox/voxelmap/internal/logger"
	"github.com/Faultbox/voxelmap/internal/minimap"
	"github.com/Faultbox/voxelmap/internal/world"
)

var (
	flagOut   = flag.String("o", "minimap.png", "Output PNG path")
	flagScale = flag.Int("scale", 1, "Integer upscale factor")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, *flagOut, *flagScale); err != nil {
		logger.Error("mapdump failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, out string, scale int) error {
	backend, err := world.Open(cfg.World, cfg.World.Dimension)
	if err != nil {
		return fmt.Errorf("opening world: %w", err)
	}
	defer backend.Close()

	scanner, err := minimap.NewScanner(nil, cfg.Minimap.Zoom)
	if err != nil {
		return err
	}

	vp := minimap.Viewpoint{
		X: cfg.Viewer.StartX, Y: cfg.Viewer.StartY, Z: cfg.Viewer.StartZ,
		PrevX: cfg.Viewer.StartX, PrevZ: cfg.Viewer.StartZ,
	}
	img, st, err := render(backend, scanner, vp, scale)
	if err != nil {
		return err
	}

	size, err := writePNG(out, img)
	if err != nil {
		return err
	}

	logger.Info("map written",
		zap.String("path", out),
		zap.String("size", humanize.Bytes(uint64(size))),
		zap.String("source", backend.Source),
		zap.String("dimension", backend.Dimension),
		zap.Int("written", st.Written),
		zap.Int("skipped", st.Skipped),
		zap.Int("void", st.Void),
		zap.Int("dark", st.Dark))
	return nil
}

// render scans the world around vp once and returns the map image scaled
// up by scale with nearest-neighbor sampling.
func render(b *world.Backend, s *minimap.Scanner, vp minimap.Viewpoint, scale int) (image.Image, minimap.Stats, error) {
	if scale < 1 {
		return nil, minimap.Stats{}, fmt.Errorf("invalid scale %d", scale)
	}

	// Generated worlds fill in a bounded number of chunks per call.
	x, z := vp.Column()
	for b.Prepare(x, z) > 0 {
	}

	raster := minimap.NewRaster()
	st := s.Scan(b.World, vp, raster)

	img := minimap.NewImage()
	minimap.Pixels(raster, img)
	if scale == 1 {
		return img, st, nil
	}
	side := uint(minimap.Size * scale)
	return resize.Resize(side, side, img, resize.NearestNeighbor), st, nil
}

func writePNG(path string, img image.Image) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating output: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := png.Encode(w, img); err != nil {
		return 0, fmt.Errorf("encoding png: %w", err)
	}
	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("writing png: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), f.Close()
}
