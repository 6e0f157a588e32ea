// Package entity holds the simulated player the viewer moves around.
package entity

import (
	"math"
	"sync"

	"github.com/Faultbox/voxelmap/internal/config"
	"github.com/Faultbox/voxelmap/internal/minimap"
)

// Controls is the movement requested by held keys, each axis in [-1, 1].
type Controls struct {
	Forward float64 // +1 walks where the player faces
	Strafe  float64 // +1 steps to the right
	Climb   float64 // +1 rises
	Turn    float64 // +1 turns clockwise seen from above
}

// Player is a free-flying observer standing in for a game client. The
// render loop sets controls; the tick goroutine advances and samples it.
type Player struct {
	mu sync.Mutex

	x, y, z      float64
	prevX, prevZ float64
	yaw          float64

	speed     float64
	turnSpeed float64
	controls  Controls
}

// NewPlayer places a player at the configured start.
func NewPlayer(cfg config.ViewerConfig) *Player {
	return &Player{
		x: cfg.StartX, y: cfg.StartY, z: cfg.StartZ,
		prevX: cfg.StartX, prevZ: cfg.StartZ,
		speed:     cfg.Speed,
		turnSpeed: cfg.TurnSpeed,
	}
}

// SetControls replaces the held controls.
func (p *Player) SetControls(c Controls) {
	p.mu.Lock()
	p.controls = c
	p.mu.Unlock()
}

// Turn rotates the player by degrees immediately.
func (p *Player) Turn(degrees float64) {
	p.mu.Lock()
	p.yaw = wrapDegrees(p.yaw + degrees)
	p.mu.Unlock()
}

// Teleport moves the player without interpolation.
func (p *Player) Teleport(x, y, z float64) {
	p.mu.Lock()
	p.x, p.y, p.z = x, y, z
	p.prevX, p.prevZ = x, z
	p.mu.Unlock()
}

// Step advances the player by one tick of held controls and returns the
// new position together with the previous one.
func (p *Player) Step() minimap.Viewpoint {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.prevX, p.prevZ = p.x, p.z
	c := p.controls

	p.yaw = wrapDegrees(p.yaw + c.Turn*p.turnSpeed)
	rad := p.yaw * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)

	// Yaw 0 faces +z; the right hand then points to -x.
	p.x += (-sin*c.Forward - cos*c.Strafe) * p.speed
	p.z += (cos*c.Forward - sin*c.Strafe) * p.speed
	p.y = min(max(p.y+c.Climb*p.speed, 0), minimap.MaxHeight)

	return p.viewpointLocked()
}

// Current returns the position without advancing.
func (p *Player) Current() minimap.Viewpoint {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewpointLocked()
}

func (p *Player) viewpointLocked() minimap.Viewpoint {
	return minimap.Viewpoint{
		X: p.x, Y: p.y, Z: p.z,
		PrevX: p.prevX, PrevZ: p.prevZ,
		Yaw: p.yaw,
	}
}

// wrapDegrees maps an angle into [-180, 180).
func wrapDegrees(d float64) float64 {
	d = math.Mod(d+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}
