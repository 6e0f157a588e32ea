package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagWorld     = flag.String("world", "", "Path to an Anvil save; switches the source to anvil")
	flagDimension = flag.String("dimension", "", "overworld, nether or end")
	flagSeed      = flag.Int64("seed", 0, "Seed for generated worlds")
	flagZoom      = flag.Int("zoom", 0, "Minimap zoom (power of two)")
	flagX         = flag.Float64("x", 0, "Start X")
	flagY         = flag.Float64("y", 0, "Start Y")
	flagZ         = flag.Float64("z", 0, "Start Z")
	flagMetrics   = flag.String("metrics", "", "Listen address for /metrics")
	flagWidth     = flag.Int("width", 0, "Window width")
	flagHeight    = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config. Zero values mean
// "not set"; start coordinates apply only when given explicitly.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWorld != "" {
		cfg.World.Source = SourceAnvil
		cfg.World.Path = *flagWorld
	}
	if *flagDimension != "" {
		cfg.World.Dimension = *flagDimension
	}
	if *flagSeed != 0 {
		cfg.World.Seed = *flagSeed
	}
	if *flagZoom > 0 {
		cfg.Minimap.Zoom = *flagZoom
	}
	if *flagMetrics != "" {
		cfg.Metrics.Listen = *flagMetrics
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "x":
			cfg.Viewer.StartX = *flagX
		case "y":
			cfg.Viewer.StartY = *flagY
		case "z":
			cfg.Viewer.StartZ = *flagZ
		}
	})
}
