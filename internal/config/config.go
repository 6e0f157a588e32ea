// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"time"
)

// World sources.
const (
	SourceProcgen = "procgen"
	SourceAnvil   = "anvil"
)

// Dimensions.
const (
	DimensionOverworld = "overworld"
	DimensionNether    = "nether"
	DimensionEnd       = "end"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Minimap MinimapConfig `yaml:"minimap"`
	World   WorldConfig   `yaml:"world"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// MinimapConfig holds scan and overlay settings.
type MinimapConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Zoom        int           `yaml:"zoom"`         // Power of two, 1 = one cell per block
	TickRate    time.Duration `yaml:"tick_rate"`    // Interval between scans
	Size        float32       `yaml:"size"`         // Overlay diameter in pixels
	Margin      float32       `yaml:"margin"`       // Distance from the top-right corner
	BorderWidth float32       `yaml:"border_width"` // Ring width in pixels
}

// WorldConfig selects and tunes the world backend.
type WorldConfig struct {
	Source         string `yaml:"source"`          // procgen or anvil
	Path           string `yaml:"path"`            // Save directory for anvil worlds
	Dimension      string `yaml:"dimension"`       // overworld, nether or end
	Seed           int64  `yaml:"seed"`            // procgen seed
	CacheChunks    int64  `yaml:"cache_chunks"`    // Decoded chunks kept in memory
	Watch          bool   `yaml:"watch"`           // Reload regions rewritten on disk
	GenerateRadius int    `yaml:"generate_radius"` // Chunks generated around the viewer
	GenerateBudget int    `yaml:"generate_budget"` // Chunks generated per tick
}

// ViewerConfig holds the free camera that stands in for a player.
type ViewerConfig struct {
	StartX    float64 `yaml:"start_x"`
	StartY    float64 `yaml:"start_y"`
	StartZ    float64 `yaml:"start_z"`
	Speed     float64 `yaml:"speed"`      // Blocks per tick
	TurnSpeed float64 `yaml:"turn_speed"` // Degrees per tick
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Listen string `yaml:"listen"` // Empty disables the endpoint
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Minimap: MinimapConfig{
			Enabled:     true,
			Zoom:        1,
			TickRate:    50 * time.Millisecond,
			Size:        128,
			Margin:      10,
			BorderWidth: 2.5,
		},
		World: WorldConfig{
			Source:         SourceProcgen,
			Dimension:      DimensionOverworld,
			Seed:           1,
			CacheChunks:    1024,
			GenerateRadius: 6,
			GenerateBudget: 8,
		},
		Viewer: ViewerConfig{
			StartX:    0.5,
			StartY:    80,
			StartZ:    0.5,
			Speed:     0.5,
			TurnSpeed: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports settings the viewer cannot run with.
func (c *Config) Validate() error {
	z := c.Minimap.Zoom
	if z < 1 || z > 128 || z&(z-1) != 0 {
		return fmt.Errorf("minimap.zoom %d: must be a power of two in [1, 128]", z)
	}
	if c.Minimap.TickRate <= 0 {
		return fmt.Errorf("minimap.tick_rate %v: must be positive", c.Minimap.TickRate)
	}
	switch c.World.Source {
	case SourceProcgen:
	case SourceAnvil:
		if c.World.Path == "" {
			return fmt.Errorf("world.path is required for the %s source", SourceAnvil)
		}
	default:
		return fmt.Errorf("world.source %q: want %s or %s", c.World.Source, SourceProcgen, SourceAnvil)
	}
	switch c.World.Dimension {
	case DimensionOverworld, DimensionNether, DimensionEnd:
	default:
		return fmt.Errorf("world.dimension %q: want overworld, nether or end", c.World.Dimension)
	}
	return nil
}
