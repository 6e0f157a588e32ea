// Package game implements the interactive viewer: a free-flying player over
// a world, with the minimap drawn in the corner of the window.
package game

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelmap/internal/config"
	"github.com/Faultbox/voxelmap/internal/engine/debug"
	"github.com/Faultbox/voxelmap/internal/engine/input"
	"github.com/Faultbox/voxelmap/internal/engine/overlay"
	"github.com/Faultbox/voxelmap/internal/engine/renderer"
	"github.com/Faultbox/voxelmap/internal/engine/window"
	"github.com/Faultbox/voxelmap/internal/game/entity"
	"github.com/Faultbox/voxelmap/internal/logger"
	"github.com/Faultbox/voxelmap/internal/session"
	"github.com/Faultbox/voxelmap/internal/world"
)

// mouseTurn is the yaw change per pixel of horizontal mouse drag.
const mouseTurn = 0.3

// Background colors per dimension.
var backgrounds = map[string][3]float32{
	config.DimensionOverworld: {0.45, 0.6, 0.85},
	config.DimensionNether:    {0.2, 0.05, 0.05},
	config.DimensionEnd:       {0.1, 0.08, 0.15},
}

// Game is the viewer instance.
type Game struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	overlay  *overlay.Renderer
	shots    *debug.ScreenshotCapture

	session *session.Session
	player  *entity.Player
	backend atomic.Pointer[world.Backend]

	// Cancels the region watcher of the current backend.
	stopWatch context.CancelFunc
	watchWG   sync.WaitGroup
}

// New creates the window and GL resources and attaches backend to sess.
// The game takes ownership of backend.
func New(cfg *config.Config, sess *session.Session, backend *world.Backend) (*Game, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	g := &Game{
		config:  cfg,
		session: sess,
		player:  entity.NewPlayer(cfg.Viewer),
		shots:   debug.NewScreenshotCapture("screenshots", "minimap"),
	}

	// Create window (this also creates OpenGL context)
	var err error
	g.window, err = window.New(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := g.window.DrawableSize()
	g.renderer, err = renderer.New(renderer.Config{Width: width, Height: height})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.overlay, err = overlay.New(width, height, overlay.Style{
		Size:   cfg.Minimap.Size,
		Margin: cfg.Minimap.Margin,
		Border: cfg.Minimap.BorderWidth,
	})
	if err != nil {
		g.renderer.Close()
		g.window.Close()
		return nil, fmt.Errorf("failed to create overlay: %w", err)
	}

	g.input = input.New()
	g.attach(backend)

	logger.Info("viewer initialized")
	return g, nil
}

// Backend returns the world backend currently shown. Safe for concurrent use.
func (g *Game) Backend() *world.Backend {
	return g.backend.Load()
}

// Player returns the simulated player.
func (g *Game) Player() *entity.Player {
	return g.player
}

// attach makes backend the scanned world and starts watching its regions
// when configured to.
func (g *Game) attach(backend *world.Backend) {
	if g.stopWatch != nil {
		g.stopWatch()
		g.watchWG.Wait()
		g.stopWatch = nil
	}

	g.session.SetWorld(backend.World, backend)
	g.backend.Store(backend)

	if bg, ok := backgrounds[backend.Dimension]; ok {
		g.renderer.SetBackground(bg[0], bg[1], bg[2])
	}

	if rw := backend.Anvil(); rw != nil && g.config.World.Watch {
		ctx, cancel := context.WithCancel(context.Background())
		g.stopWatch = cancel
		g.watchWG.Add(1)
		go func() {
			defer g.watchWG.Done()
			if err := rw.Watch(ctx); err != nil {
				logger.Warn("region watch stopped", zap.Error(err))
			}
		}()
	}
}

// switchDimension opens the next dimension of the current world. On
// failure the current one stays active.
func (g *Game) switchDimension() {
	old := g.Backend()
	next := world.NextDimension(old.Source, old.Dimension)

	cfg := g.config.World
	backend, err := world.Open(cfg, next)
	if err != nil {
		logger.Warn("cannot switch dimension", zap.String("dimension", next), zap.Error(err))
		return
	}

	g.attach(backend)
	if err := old.Close(); err != nil {
		logger.Warn("closing previous world", zap.Error(err))
	}
	logger.Info("dimension switched",
		zap.String("from", old.Dimension),
		zap.String("to", next),
		zap.Stringer("session", g.session.ID()))
}

// Run starts the tick goroutine and the render loop. It returns when the
// window is closed or ctx is done.
func (g *Game) Run(ctx context.Context) error {
	g.running = true

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tickDone := make(chan error, 1)
	if g.config.Minimap.Enabled {
		go func() {
			tickDone <- g.session.Run(ctx, g.player, g.config.Minimap.TickRate)
		}()
	} else {
		close(tickDone)
	}

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	var frameLimit time.Duration
	if g.config.Window.FPSLimit > 0 {
		frameLimit = time.Second / time.Duration(g.config.Window.FPSLimit)
	}

	logger.Info("starting render loop")

	for g.running {
		// Calculate delta time
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if ctx.Err() != nil {
			break
		}

		// 1. Process input
		if g.input.Update() {
			// Quit event received
			g.running = false
			break
		}
		g.handleEvents()

		// 2. Render
		g.render()

		// 3. Present (swap buffers)
		g.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.updateTitle(frameCount)
			logger.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameLimit > 0 {
			if spare := frameLimit - time.Since(now); spare > 0 {
				time.Sleep(spare)
			}
		}
	}

	cancel()
	return <-tickDone
}

func (g *Game) handleEvents() {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			width, height := g.window.DrawableSize()
			g.renderer.Resize(width, height)
			g.overlay.Resize(width, height)
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				g.running = false
			case sdl.SCANCODE_N:
				g.switchDimension()
			case sdl.SCANCODE_F2:
				g.screenshot()
			}
		}
	}

	if dx, _ := g.input.MouseDrag(); dx != 0 {
		g.player.Turn(float64(dx) * mouseTurn)
	}
	g.player.SetControls(g.controls())
}

// controls maps held keys to player movement.
func (g *Game) controls() entity.Controls {
	axis := func(plus, minus, plusAlt, minusAlt sdl.Scancode) float64 {
		v := 0.0
		if g.input.IsKeyHeld(plus) || g.input.IsKeyHeld(plusAlt) {
			v++
		}
		if g.input.IsKeyHeld(minus) || g.input.IsKeyHeld(minusAlt) {
			v--
		}
		return v
	}
	return entity.Controls{
		Forward: axis(sdl.SCANCODE_W, sdl.SCANCODE_S, sdl.SCANCODE_UP, sdl.SCANCODE_DOWN),
		Strafe:  axis(sdl.SCANCODE_D, sdl.SCANCODE_A, sdl.SCANCODE_D, sdl.SCANCODE_A),
		Climb:   axis(sdl.SCANCODE_SPACE, sdl.SCANCODE_LSHIFT, sdl.SCANCODE_SPACE, sdl.SCANCODE_LSHIFT),
		Turn:    axis(sdl.SCANCODE_E, sdl.SCANCODE_Q, sdl.SCANCODE_RIGHT, sdl.SCANCODE_LEFT),
	}
}

// render draws the current frame.
func (g *Game) render() {
	g.renderer.Begin()
	if !g.config.Minimap.Enabled {
		return
	}

	raster, seq := g.session.Latest()
	g.overlay.Update(raster, seq)

	vp, at, ok := g.session.LastTick()
	if !ok || raster == nil {
		g.overlay.Draw(0, 0, g.player.Current().Rotation())
		return
	}

	partial := session.Partial(at, time.Now(), g.config.Minimap.TickRate)
	cx, cz := raster.Center()
	dx, dz := vp.Offset(partial, cx, cz)
	du, dv := overlay.TexOffset(dx, dz, raster.Zoom())
	g.overlay.Draw(du, dv, vp.Rotation())
}

// screenshot saves the latest raster as a PNG.
func (g *Game) screenshot() {
	raster, _ := g.session.Latest()
	name, err := g.shots.Capture(raster)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("file", name))
}

func (g *Game) updateTitle(fps int) {
	vp := g.player.Current()
	b := g.Backend()
	g.window.SetStatus(window.Status{
		Source:    b.Source,
		Dimension: b.Dimension,
		X:         vp.X,
		Y:         vp.Y,
		Z:         vp.Z,
		FPS:       fps,
	})
}

// Close cleans up viewer resources, including the backend shown last.
func (g *Game) Close() {
	logger.Info("closing viewer")

	if g.stopWatch != nil {
		g.stopWatch()
		g.watchWG.Wait()
	}
	if b := g.Backend(); b != nil {
		if err := b.Close(); err != nil {
			logger.Warn("closing world", zap.Error(err))
		}
	}
	if g.overlay != nil {
		g.overlay.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
