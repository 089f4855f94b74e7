package glyph

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
)

// ZSource draws the product mark: a blocky white "Z" with a small broom to its right.
type ZSource struct {
	color color.RGBA
}

// NewZSource creates a procedural glyph drawn in c.
func NewZSource(c color.RGBA) *ZSource {
	return &ZSource{color: c}
}

// Name returns the source name
func (s *ZSource) Name() string {
	return "procedural"
}

// Prepare is a no-op; the glyph needs no external input.
func (s *ZSource) Prepare() error {
	return nil
}

// Render draws the glyph on a transparent box x box canvas.
func (s *ZSource) Render(box int) (image.Image, error) {
	if box <= 0 {
		return nil, fmt.Errorf("invalid glyph box: %d", box)
	}
	return rasterizeSVG(s.SVG(box), box, box)
}

// SVG returns the glyph as an SVG document covering a size x size viewBox.
//
// Coordinates are whole pixels; every rectangle spans its end pixels
// inclusively, so a bar from x1 to x2 is x2-x1+1 wide.
func (s *ZSource) SVG(size int) []byte {
	margin := size / 8
	stroke := max(1, size/20)
	bar := stroke * 3

	x1, y1 := margin, margin
	x2, y2 := size-margin, size-margin

	broomX := x2 + margin/2
	broomY := y1 + size/4
	broomWidth := size / 6

	fill := fmt.Sprintf("#%02x%02x%02x", s.color.R, s.color.G, s.color.B)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, size, size, size, size)
	buf.WriteString("\n")

	writeRect(&buf, x1, y1, x2, y1+bar, fill)
	// The diagonal runs through pixel centers.
	fmt.Fprintf(&buf, `<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-width="%d" stroke-linecap="butt"/>`,
		float64(x2)+0.5, float64(y1+bar)+0.5, float64(x1)+0.5, float64(y2-bar)+0.5, fill, bar)
	buf.WriteString("\n")
	writeRect(&buf, x1, y2-bar, x2, y2, fill)

	// broom handle
	writeRect(&buf, broomX-stroke, broomY, broomX+stroke, broomY+size/3, fill)

	// bristles
	for i := 0; i < 5; i++ {
		top := broomY + size/4 + i*stroke
		left, right := broomX-broomWidth/2, broomX+broomWidth/2
		bottom := top + stroke*2
		fmt.Fprintf(&buf, `<ellipse cx="%g" cy="%g" rx="%g" ry="%g" fill="%s"/>`,
			float64(left+right+1)/2, float64(top+bottom+1)/2,
			float64(right-left+1)/2, float64(bottom-top+1)/2, fill)
		buf.WriteString("\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeRect(buf *bytes.Buffer, x1, y1, x2, y2 int, fill string) {
	fmt.Fprintf(buf, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`, x1, y1, x2-x1+1, y2-y1+1, fill)
	buf.WriteString("\n")
}
