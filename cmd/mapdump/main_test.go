package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/voxelmap/internal/config"
	"github.com/Faultbox/voxelmap/internal/minimap"
	"github.com/Faultbox/voxelmap/internal/world"
)

func openProcgen(t *testing.T) (*world.Backend, *minimap.Scanner) {
	t.Helper()
	b, err := world.Open(config.Default().World, config.DimensionOverworld)
	if err != nil {
		t.Fatalf("world.Open() error = %v", err)
	}
	t.Cleanup(func() { b.Close() })

	s, err := minimap.NewScanner(nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	return b, s
}

func TestRender(t *testing.T) {
	b, s := openProcgen(t)
	vp := minimap.Viewpoint{X: 0.5, Y: 90, Z: 0.5, PrevX: 0.5, PrevZ: 0.5}

	img, st, err := render(b, s, vp, 1)
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}
	if st.Written != minimap.Cells {
		t.Errorf("written %d, want %d (skipped %d)", st.Written, minimap.Cells, st.Skipped)
	}
	if got := img.Bounds().Dx(); got != minimap.Size {
		t.Errorf("width = %d, want %d", got, minimap.Size)
	}
}

func TestRenderScaled(t *testing.T) {
	b, s := openProcgen(t)
	vp := minimap.Viewpoint{X: 0.5, Y: 90, Z: 0.5, PrevX: 0.5, PrevZ: 0.5}

	img, _, err := render(b, s, vp, 3)
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}
	if got := img.Bounds(); got.Dx() != 3*minimap.Size || got.Dy() != 3*minimap.Size {
		t.Fatalf("bounds = %v, want %dx%d", got, 3*minimap.Size, 3*minimap.Size)
	}

	if _, _, err := render(b, s, vp, 0); err == nil {
		t.Error("render() with scale 0 succeeded")
	}
}

func TestWritePNG(t *testing.T) {
	b, s := openProcgen(t)
	img, _, err := render(b, s, minimap.Viewpoint{Y: 90}, 1)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "map.png")
	size, err := writePNG(path, img)
	if err != nil {
		t.Fatalf("writePNG() error = %v", err)
	}
	if size <= 0 {
		t.Errorf("size = %d, want > 0", size)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}
}

func TestRunWritesFile(t *testing.T) {
	cfg := config.Default()
	out := filepath.Join(t.TempDir(), "out.png")
	if err := run(cfg, out, 2); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output missing: %v", err)
	}
}
