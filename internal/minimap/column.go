package minimap

import "github.com/Faultbox/voxelmap/pkg/palette"

// columnState is a step of the per-column height search.
type columnState uint8

const (
	stateResolvingStart columnState = iota
	stateEscapingSolid
	stateSearchingDown
	stateVoidFallback
	stateMeasuringLiquid
	stateResolved
)

// columnResult is the visible surface of one column.
type columnResult struct {
	height      int
	class       SurfaceColorClass
	liquidDepth int

	// dark is set when an underground column hit the cave ceiling while
	// escaping solid blocks; it is drawn as a wall.
	dark bool

	// void is set when no surface exists between the floor and the ceiling.
	void bool
}

// columnProbe resolves columns for one scan. ground and ceiling are fixed
// for the whole scan.
type columnProbe struct {
	world    World
	classify Classifier
	noSky    bool

	// ground is the start height for no-sky scans.
	ground int

	// ceiling bounds the upward escape and is the restart height after
	// falling through the void.
	ceiling int
}

// resolve runs the height search for world column (x, z). Every state
// moves the probe height monotonically, so the search visits at most
// 2*WorldHeight voxels.
func (p *columnProbe) resolve(x, z int) columnResult {
	var (
		res   columnResult
		state = stateResolvingStart
		h     int
		start int
		block palette.Block
		class SurfaceColorClass
	)

	probe := func(y int) {
		block = p.world.VoxelAt(x, y, z)
		class = p.classify.Classify(block)
	}

	for state != stateResolved {
		switch state {
		case stateResolvingStart:
			if p.noSky {
				h = p.ground
			} else {
				h = p.world.SurfaceHeight(x, z) + 1
			}
			if h < 0 {
				h = 0
			}
			start = h
			probe(h)
			if p.noSky && !class.Air {
				state = stateEscapingSolid
			} else {
				state = stateSearchingDown
			}

		case stateEscapingSolid:
			h++
			if h >= p.ceiling {
				// The last solid block below the ceiling stands in for it.
				res.dark = true
				state = stateResolved
				continue
			}
			probe(h)
			if class.Air {
				state = stateSearchingDown
			}

		case stateSearchingDown:
			if !class.Air {
				state = stateMeasuringLiquid
				continue
			}
			h--
			if h < 0 {
				h = p.ceiling
				if h <= start {
					res.void = true
					state = stateResolved
					continue
				}
				state = stateVoidFallback
			}
			probe(h)

		case stateVoidFallback:
			if !class.Air {
				state = stateMeasuringLiquid
				continue
			}
			h--
			if h <= start {
				res.void = true
				state = stateResolved
				continue
			}
			probe(h)

		case stateMeasuringLiquid:
			if h > 0 && p.world.IsLiquid(block) {
				for y := h - 1; ; {
					below := p.world.VoxelAt(x, y, z)
					y--
					res.liquidDepth++
					if y <= 0 || !p.world.IsLiquid(below) {
						break
					}
				}
			}
			state = stateResolved
		}
	}

	res.height = h
	res.class = class
	return res
}

// groundLevel drops the viewpoint height onto solid ground when it is at
// most groundSnapSteps blocks above it.
func groundLevel(w World, c Classifier, x, y, z int) int {
	for steps := 0; c.Classify(w.VoxelAt(x, y, z)).Air; {
		y--
		if y <= 0 {
			break
		}
		steps++
		if steps >= groundSnapSteps {
			break
		}
	}
	return y
}

// caveCeiling finds the first non-air voxel above the viewpoint, capped at
// MaxHeight, rounded down to an even height to damp flicker.
func caveCeiling(w World, c Classifier, x, y, z int) int {
	for c.Classify(w.VoxelAt(x, y, z)).Air {
		y++
		if y >= MaxHeight {
			break
		}
	}
	return y &^ 1
}
