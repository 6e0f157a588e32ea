// Package window opens the viewer's SDL2 window with a GL 4.1 core context.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelmap/internal/config"
	"github.com/Faultbox/voxelmap/internal/logger"
)

func init() {
	// GL calls must stay on the main thread.
	runtime.LockOSThread()
}

// Title is the prefix of every window caption.
const Title = "voxelmap"

// Status is what the caption reports about the running viewer.
type Status struct {
	Source    string
	Dimension string
	X, Y, Z   float64
	FPS       int
}

// String formats the caption, e.g. "voxelmap - procgen overworld - 0.5 70.0 -3.2 - 60 fps".
func (s Status) String() string {
	return fmt.Sprintf("%s - %s %s - %.1f %.1f %.1f - %d fps",
		Title, s.Source, s.Dimension, s.X, s.Y, s.Z, s.FPS)
}

// Window owns the SDL window and its GL context.
type Window struct {
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	log       *zap.Logger
}

// New opens a window sized and flagged from cfg.
func New(cfg config.WindowConfig) (*Window, error) {
	w := &Window{log: logger.Named("window")}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// Attributes must be set before the window exists. 4.1 core is the
	// newest profile macOS offers.
	for attr, value := range map[sdl.GLattr]int{
		sdl.GL_CONTEXT_MAJOR_VERSION: 4,
		sdl.GL_CONTEXT_MINOR_VERSION: 1,
		sdl.GL_CONTEXT_PROFILE_MASK:  sdl.GL_CONTEXT_PROFILE_CORE,
		sdl.GL_DOUBLEBUFFER:          1,
		sdl.GL_DEPTH_SIZE:            0,
	} {
		if err := sdl.GLSetAttribute(attr, value); err != nil {
			sdl.Quit()
			return nil, fmt.Errorf("setting GL attribute %d: %w", attr, err)
		}
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height), flags(cfg))
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := w.setSwapInterval(cfg.VSync)

	dw, dh := w.DrawableSize()
	w.log.Info("window created",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("drawableWidth", dw),
		zap.Int("drawableHeight", dh),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Int("swapInterval", interval))
	return w, nil
}

func flags(cfg config.WindowConfig) uint32 {
	f := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		f |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	return f
}

// swapIntervals lists the intervals to try in order. Adaptive vsync (-1)
// is not supported by every driver, so plain vsync follows it.
func swapIntervals(vsync bool) []int {
	if !vsync {
		return []int{0}
	}
	return []int{-1, 1}
}

// setSwapInterval applies the first supported interval and returns it.
func (w *Window) setSwapInterval(vsync bool) int {
	for _, interval := range swapIntervals(vsync) {
		err := sdl.GLSetSwapInterval(interval)
		if err == nil {
			return interval
		}
		w.log.Debug("swap interval rejected", zap.Int("interval", interval), zap.Error(err))
	}
	w.log.Warn("no swap interval accepted, frame pacing relies on fps_limit")
	return 0
}

// Close destroys the context and window and shuts SDL down.
func (w *Window) Close() {
	w.log.Debug("closing window")
	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}
	sdl.Quit()
}

// SwapBuffers presents the frame.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// DrawableSize returns the GL drawable size in pixels. On high-DPI displays
// it is larger than the window size in points.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// SetStatus updates the caption.
func (w *Window) SetStatus(s Status) {
	w.sdlWindow.SetTitle(s.String())
}
