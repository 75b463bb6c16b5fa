package video

import (
	"image"
	"image/color"
	"sort"

	"gocv.io/x/gocv"
)

// FrameGenerator is a deterministic, in-memory Source used by tests. It
// synthesizes a solid-color frame for each timestamp it is told about,
// avoiding any dependency on a real decoded video file.
type FrameGenerator struct {
	meta   Metadata
	frames map[float64]color.RGBA // Timestamp -> fill color.
	width  int
	height int
	closed bool
}

// NewFrameGenerator returns a FrameGenerator reporting the given metadata.
// Width/height default to 64x64 if unset in meta.
func NewFrameGenerator(meta Metadata) *FrameGenerator {
	w, h := meta.Width, meta.Height
	if w <= 0 {
		w = 64
	}
	if h <= 0 {
		h = 64
	}
	return &FrameGenerator{
		meta:   meta,
		frames: make(map[float64]color.RGBA),
		width:  w,
		height: h,
	}
}

// SetFrame registers a solid fill color to be returned for timestamp t.
// Timestamps not registered read back as ok=false, simulating a decode skip.
func (g *FrameGenerator) SetFrame(t float64, c color.RGBA) *FrameGenerator {
	g.frames[t] = c
	return g
}

// Metadata implements Source.
func (g *FrameGenerator) Metadata() Metadata { return g.meta }

// SeekAndRead implements Source.
func (g *FrameGenerator) SeekAndRead(t float64) (gocv.Mat, bool) {
	c, ok := g.frames[t]
	if !ok {
		return gocv.Mat{}, false
	}
	img := gocv.NewMatWithSize(g.height, g.width, gocv.MatTypeCV8UC3)
	gocv.Rectangle(&img, image.Rect(0, 0, g.width, g.height), c, -1)
	return img, true
}

// Close implements Source.
func (g *FrameGenerator) Close() error {
	g.closed = true
	return nil
}

// Timestamps returns the registered timestamps in ascending order, useful
// for tests that want to drive a pipeline over exactly the frames a
// FrameGenerator knows about.
func (g *FrameGenerator) Timestamps() []float64 {
	out := make([]float64, 0, len(g.frames))
	for t := range g.frames {
		out = append(out, t)
	}
	sort.Float64s(out)
	return out
}
