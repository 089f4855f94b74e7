package commands

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/zcleaner/installer-assets/internal/backend/commandstructure"
	"golang.org/x/image/draw"
)

// GlyphCompositeParams represents typed parameters for the glyph composite command
type GlyphCompositeParams struct {
	Box     int
	OffsetX int
	OffsetY int
}

// NewGlyphCompositeParamsFromMap creates GlyphCompositeParams from a generic map
func NewGlyphCompositeParamsFromMap(params map[string]any) (*GlyphCompositeParams, error) {
	if err := commandstructure.ValidateRequiredParams(params, []string{"box"}); err != nil {
		return nil, err
	}

	box := commandstructure.GetIntParam(params, "box", 0)
	if box <= 0 {
		return nil, fmt.Errorf("box must be positive, got %d", box)
	}

	return &GlyphCompositeParams{
		Box:     box,
		OffsetX: commandstructure.GetIntParam(params, "offsetX", 0),
		OffsetY: commandstructure.GetIntParam(params, "offsetY", 0),
	}, nil
}

// GlyphCompositeCommand centers the canvas glyph, shifted by an offset, and
// alpha-composites it over the background
type GlyphCompositeCommand struct {
	name   string
	params *GlyphCompositeParams
}

// NewGlyphCompositeCommand creates a new glyph composite command from configuration parameters
func NewGlyphCompositeCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewGlyphCompositeParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &GlyphCompositeCommand{
		name:   "GlyphCompositeCommand",
		params: typedParams,
	}, nil
}

// NewGlyphCompositeCommandWithParams creates a new glyph composite command from concrete typed parameters
func NewGlyphCompositeCommandWithParams(box, offsetX, offsetY int) (*GlyphCompositeCommand, error) {
	if box <= 0 {
		return nil, fmt.Errorf("box must be positive, got %d", box)
	}

	return &GlyphCompositeCommand{
		name: "GlyphCompositeCommand",
		params: &GlyphCompositeParams{
			Box:     box,
			OffsetX: offsetX,
			OffsetY: offsetY,
		},
	}, nil
}

// Name returns the command name
func (c *GlyphCompositeCommand) Name() string {
	return c.name
}

// Execute renders the glyph into the configured box and composites it
func (c *GlyphCompositeCommand) Execute(canvas *commandstructure.Canvas) error {
	if canvas.Glyph == nil {
		return fmt.Errorf("canvas has no glyph source")
	}

	glyph, err := canvas.Glyph.Render(c.params.Box)
	if err != nil {
		slog.Error("GlyphCompositeCommand: failed to render glyph",
			"source", canvas.Glyph.Name(),
			"box", c.params.Box,
			"error", err)
		return fmt.Errorf("failed to render glyph: %w", err)
	}

	gb := glyph.Bounds()
	x, y := computeGlyphOrigin(canvas.Width(), canvas.Height(), gb.Dx(), gb.Dy(), c.params.OffsetX, c.params.OffsetY)
	target := image.Rect(x, y, x+gb.Dx(), y+gb.Dy())

	slog.Debug("GlyphCompositeCommand: compositing glyph",
		"source", canvas.Glyph.Name(),
		"glyph_width", gb.Dx(),
		"glyph_height", gb.Dy(),
		"x", x,
		"y", y)

	draw.Draw(canvas.Image, target, glyph, gb.Min, draw.Over)
	canvas.GlyphRect = target
	return nil
}

// GetParams returns the typed parameters
func (c *GlyphCompositeCommand) GetParams() *GlyphCompositeParams {
	return c.params
}

func computeGlyphOrigin(canvasWidth, canvasHeight, glyphWidth, glyphHeight, offsetX, offsetY int) (int, int) {
	return (canvasWidth-glyphWidth)/2 + offsetX, (canvasHeight-glyphHeight)/2 + offsetY
}

func init() {
	// Register the command in the default registry
	if err := commandstructure.DefaultRegistry.Register("GlyphCompositeCommand", NewGlyphCompositeCommand); err != nil {
		panic(fmt.Sprintf("failed to register GlyphCompositeCommand: %v", err))
	}
}
