package anvil

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/Faultbox/voxelmap/pkg/palette"
)

// Chunk payload compression schemes, stored in the first payload byte.
const (
	compressionGzip = 1
	compressionZlib = 2
	compressionNone = 3
)

// Section geometry in the pre-flattening layout.
const (
	sectionBlocks = 16 * 16 * 16
	nibbleBytes   = sectionBlocks / 2
	sectionCount  = 16
)

var (
	// ErrNoChunk is returned for chunks absent from their region file.
	ErrNoChunk = errors.New("anvil: chunk not present")

	// ErrUnknownCompression is returned for payloads with an unsupported
	// compression byte.
	ErrUnknownCompression = errors.New("anvil: unknown compression")

	// ErrTruncatedSection is returned for sections whose block arrays have
	// the wrong length.
	ErrTruncatedSection = errors.New("anvil: truncated section")
)

// chunkNBT mirrors the subset of a pre-1.13 chunk the sampler needs.
type chunkNBT struct {
	Level struct {
		XPos     int32        `nbt:"xPos"`
		ZPos     int32        `nbt:"zPos"`
		Sections []sectionNBT `nbt:"Sections"`
	} `nbt:"Level"`
}

type sectionNBT struct {
	Y      int8   `nbt:"Y"`
	Blocks []byte `nbt:"Blocks"`
	Add    []byte `nbt:"Add"`
	Data   []byte `nbt:"Data"`
}

// section holds one decoded 16x16x16 cube.
type section struct {
	ids  [sectionBlocks]uint16
	meta [nibbleBytes]byte
}

func (s *section) block(i int) palette.Block {
	return palette.Block{ID: s.ids[i], Meta: nibble(s.meta[:], i)}
}

// column is a decoded chunk.
type column struct {
	x, z     int
	absent   bool
	sections [sectionCount]*section
	heights  [16 * 16]int16
	size     int // Uncompressed NBT size
}

// absentColumn stands in for chunks that are missing or failed to decode.
var absentColumn = &column{absent: true}

func (c *column) block(x, y, z int) palette.Block {
	s := c.sections[y>>4]
	if s == nil {
		return palette.Block{}
	}
	return s.block((y&15)<<8 | z<<4 | x)
}

func (c *column) height(x, z int) int {
	return int(c.heights[z<<4|x])
}

func nibble(b []byte, i int) uint8 {
	return b[i>>1] >> ((i & 1) * 4) & 0x0F
}

// decompress strips the compression byte and inflates a sector payload.
func decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrNoChunk
	}

	var (
		r   io.Reader = bytes.NewReader(data[1:])
		err error
	)
	switch data[0] {
	case compressionGzip:
		r, err = gzip.NewReader(r)
	case compressionZlib:
		r, err = zlib.NewReader(r)
	case compressionNone:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, data[0])
	}
	if err != nil {
		return nil, fmt.Errorf("inflating chunk: %w", err)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("inflating chunk: %w", err)
	}
	return raw, nil
}

// decodeChunk turns a sector payload into a column.
func decodeChunk(data []byte) (*column, error) {
	raw, err := decompress(data)
	if err != nil {
		return nil, err
	}

	var c chunkNBT
	if err := nbt.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decoding chunk nbt: %w", err)
	}

	col := &column{
		x:    int(c.Level.XPos),
		z:    int(c.Level.ZPos),
		size: len(raw),
	}
	for _, s := range c.Level.Sections {
		if s.Y < 0 || int(s.Y) >= sectionCount {
			continue
		}
		sec, err := decodeSection(s)
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", s.Y, err)
		}
		col.sections[s.Y] = sec
	}
	col.computeHeights()
	return col, nil
}

func decodeSection(s sectionNBT) (*section, error) {
	if len(s.Blocks) != sectionBlocks || len(s.Data) != nibbleBytes {
		return nil, fmt.Errorf("%w: %d blocks, %d data bytes", ErrTruncatedSection, len(s.Blocks), len(s.Data))
	}
	if len(s.Add) != 0 && len(s.Add) != nibbleBytes {
		return nil, fmt.Errorf("%w: %d add bytes", ErrTruncatedSection, len(s.Add))
	}

	sec := &section{}
	copy(sec.meta[:], s.Data)
	for i, id := range s.Blocks {
		sec.ids[i] = uint16(id)
		if len(s.Add) != 0 {
			sec.ids[i] |= uint16(nibble(s.Add, i)) << 8
		}
	}
	return sec, nil
}

// computeHeights records the highest non-air block per column. The stored
// HeightMap tracks light, not blocks, so it is not used.
func (c *column) computeHeights() {
	for i := range c.heights {
		c.heights[i] = -1
	}
	for i := range c.heights {
		x, z := i&15, i>>4
	search:
		for sy := sectionCount - 1; sy >= 0; sy-- {
			s := c.sections[sy]
			if s == nil {
				continue
			}
			for y := 15; y >= 0; y-- {
				if s.ids[y<<8|z<<4|x] != palette.BlockAir {
					c.heights[i] = int16(sy<<4 | y)
					break search
				}
			}
		}
	}
}
