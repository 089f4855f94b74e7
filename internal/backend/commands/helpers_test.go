package commands

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

var black = color.RGBA{0, 0, 0, 255}

// squareGlyph renders an opaque square filling the requested box.
type squareGlyph struct {
	color color.RGBA
	err   error
}

func (g *squareGlyph) Name() string { return "square" }

func (g *squareGlyph) Render(box int) (image.Image, error) {
	if g.err != nil {
		return nil, g.err
	}
	if box <= 0 {
		return nil, fmt.Errorf("invalid box %d", box)
	}
	img := image.NewRGBA(image.Rect(0, 0, box, box))
	draw.Draw(img, img.Bounds(), &image.Uniform{g.color}, image.Point{}, draw.Src)
	return img, nil
}

func isColor(c color.Color, want color.RGBA) bool {
	r, g, b, a := c.RGBA()
	return uint8(r>>8) == want.R && uint8(g>>8) == want.G && uint8(b>>8) == want.B && uint8(a>>8) == want.A
}
