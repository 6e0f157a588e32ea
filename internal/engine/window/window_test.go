package window

import (
	"slices"
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/voxelmap/internal/config"
)

func TestStatusString(t *testing.T) {
	s := Status{Source: "procgen", Dimension: "nether", X: 0.5, Y: 70, Z: -3.24, FPS: 60}
	want := "voxelmap - procgen nether - 0.5 70.0 -3.2 - 60 fps"
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSwapIntervals(t *testing.T) {
	if got := swapIntervals(true); !slices.Equal(got, []int{-1, 1}) {
		t.Errorf("vsync intervals = %v", got)
	}
	if got := swapIntervals(false); !slices.Equal(got, []int{0}) {
		t.Errorf("no-vsync intervals = %v", got)
	}
}

func TestFlags(t *testing.T) {
	windowed := flags(config.WindowConfig{})
	if windowed&sdl.WINDOW_OPENGL == 0 || windowed&sdl.WINDOW_ALLOW_HIGHDPI == 0 {
		t.Errorf("flags %#x missing OPENGL or ALLOW_HIGHDPI", windowed)
	}
	if windowed&sdl.WINDOW_FULLSCREEN_DESKTOP == sdl.WINDOW_FULLSCREEN_DESKTOP {
		t.Error("windowed config requested fullscreen")
	}
	full := flags(config.WindowConfig{Fullscreen: true})
	if full&sdl.WINDOW_FULLSCREEN_DESKTOP != sdl.WINDOW_FULLSCREEN_DESKTOP {
		t.Errorf("flags %#x missing FULLSCREEN_DESKTOP", full)
	}
}
