package commands

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/zcleaner/installer-assets/internal/backend/commandstructure"
	"golang.org/x/image/draw"
)

// SolidFillParams represents typed parameters for the solid fill command
type SolidFillParams struct {
	Color color.RGBA
}

// NewSolidFillParamsFromMap creates SolidFillParams from a generic map
func NewSolidFillParamsFromMap(params map[string]any) (*SolidFillParams, error) {
	if err := commandstructure.ValidateRequiredParams(params, []string{"color"}); err != nil {
		return nil, err
	}

	c, err := commandstructure.GetColorParam(params, "color", color.RGBA{})
	if err != nil {
		return nil, fmt.Errorf("invalid color: %w", err)
	}
	c.A = 255

	return &SolidFillParams{Color: c}, nil
}

// SolidFillCommand paints the whole canvas in one opaque color
type SolidFillCommand struct {
	name   string
	params *SolidFillParams
}

// NewSolidFillCommand creates a new solid fill command from configuration parameters
func NewSolidFillCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewSolidFillParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &SolidFillCommand{
		name:   "SolidFillCommand",
		params: typedParams,
	}, nil
}

// NewSolidFillCommandWithParams creates a new solid fill command from a concrete color
func NewSolidFillCommandWithParams(c color.RGBA) *SolidFillCommand {
	c.A = 255
	return &SolidFillCommand{
		name:   "SolidFillCommand",
		params: &SolidFillParams{Color: c},
	}
}

// Name returns the command name
func (c *SolidFillCommand) Name() string {
	return c.name
}

// Execute fills the canvas
func (c *SolidFillCommand) Execute(canvas *commandstructure.Canvas) error {
	slog.Debug("SolidFillCommand: filling canvas",
		"width", canvas.Width(),
		"height", canvas.Height(),
		"color", fmt.Sprintf("#%02x%02x%02x", c.params.Color.R, c.params.Color.G, c.params.Color.B))

	draw.Draw(canvas.Image, canvas.Image.Bounds(), &image.Uniform{c.params.Color}, image.Point{}, draw.Src)
	return nil
}

// GetParams returns the typed parameters
func (c *SolidFillCommand) GetParams() *SolidFillParams {
	return c.params
}

func init() {
	// Register the command in the default registry
	if err := commandstructure.DefaultRegistry.Register("SolidFillCommand", NewSolidFillCommand); err != nil {
		panic(fmt.Sprintf("failed to register SolidFillCommand: %v", err))
	}
}
