package commandstructure

import (
	"image"
	"image/color"
	"image/draw"
)

// Command defines the interface for all canvas drawing commands
type Command interface {
	Name() string
	Execute(canvas *Canvas) error
}

// CommandFactory is a function type that creates a command from configuration parameters
type CommandFactory func(params map[string]any) (Command, error)

// CommandConfig represents a command configuration with name and parameters
type CommandConfig struct {
	Name   string
	Params map[string]any
}

// GlyphSource provides the mark composited onto a canvas.
// Render returns an image fitting within a box x box square.
type GlyphSource interface {
	Name() string
	Render(box int) (image.Image, error)
}

// Canvas is the in-memory pixel buffer a command pipeline draws onto.
type Canvas struct {
	Image *image.RGBA
	Glyph GlyphSource

	// GlyphRect is the area the glyph was last composited into; empty until then.
	GlyphRect image.Rectangle
}

// NewCanvas creates an opaque black canvas of the given size.
func NewCanvas(width, height int, glyph GlyphSource) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 255}}, image.Point{}, draw.Src)
	return &Canvas{
		Image: img,
		Glyph: glyph,
	}
}

// Width returns the canvas width in pixels
func (c *Canvas) Width() int {
	return c.Image.Bounds().Dx()
}

// Height returns the canvas height in pixels
func (c *Canvas) Height() int {
	return c.Image.Bounds().Dy()
}
