// Package debug saves minimap snapshots taken from the viewer.
package debug

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/Faultbox/voxelmap/internal/minimap"
)

// ScreenshotCapture writes rasters as timestamped PNG files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewScreenshotCapture creates a capture writing into outputDir. An empty
// outputDir means the working directory.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// Capture saves r and returns the file name. The name carries the raster
// center so captures of the same moment from different places differ.
func (sc *ScreenshotCapture) Capture(r *minimap.Raster) (string, error) {
	if r == nil {
		return "", fmt.Errorf("no raster to capture")
	}

	// Create output directory if needed
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.filename(r)

	img := minimap.NewImage()
	minimap.Pixels(r, img)

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, file.Close()
}

func (sc *ScreenshotCapture) filename(r *minimap.Raster) string {
	x, z := r.Center()
	timestamp := sc.now().Format("2006-01-02_15-04-05")
	name := fmt.Sprintf("%s_%s_%d_%d.png", sc.prefix, timestamp, x, z)
	if sc.outputDir != "" {
		name = filepath.Join(sc.outputDir, name)
	}
	return name
}
