package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/voxelmap/internal/minimap"
	"github.com/Faultbox/voxelmap/pkg/palette"
)

func TestCapture(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "minimap")
	sc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	r := minimap.NewRaster()
	r.Reset(-40, 17, 1)
	r.Set(3, 4, minimap.Encode(palette.Grass, 2))

	name, err := sc.Capture(r)
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	want := filepath.Join(dir, "minimap_2024-05-01_12-30-00_-40_17.png")
	if name != want {
		t.Errorf("Capture() = %q, want %q", name, want)
	}

	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if img.Bounds().Dx() != minimap.Size || img.Bounds().Dy() != minimap.Size {
		t.Errorf("bounds = %v", img.Bounds())
	}

	want4 := palette.RGBA(palette.Grass, 2)
	got := img.At(3, 4)
	gr, gg, gb, _ := got.RGBA()
	if uint8(gr>>8) != want4.R || uint8(gg>>8) != want4.G || uint8(gb>>8) != want4.B {
		t.Errorf("pixel (3,4) = %v, want %v", got, want4)
	}
}

func TestCaptureNil(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "minimap")
	if _, err := sc.Capture(nil); err == nil {
		t.Error("Capture(nil) succeeded")
	}
}
