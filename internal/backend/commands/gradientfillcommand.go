package commands

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/zcleaner/installer-assets/internal/backend/commandstructure"
)

// Default banner palette.
var (
	PrimaryBlue = color.RGBA{63, 127, 255, 255}
	DarkBlue    = color.RGBA{41, 98, 255, 255}
	White       = color.RGBA{255, 255, 255, 255}
)

// GradientFillParams represents typed parameters for the gradient fill command
type GradientFillParams struct {
	From color.RGBA
	To   color.RGBA
}

// NewGradientFillParamsFromMap creates GradientFillParams from a generic map.
// Missing colors default to the banner palette.
func NewGradientFillParamsFromMap(params map[string]any) (*GradientFillParams, error) {
	from, err := commandstructure.GetColorParam(params, "from", PrimaryBlue)
	if err != nil {
		return nil, fmt.Errorf("invalid from color: %w", err)
	}
	to, err := commandstructure.GetColorParam(params, "to", DarkBlue)
	if err != nil {
		return nil, fmt.Errorf("invalid to color: %w", err)
	}
	from.A, to.A = 255, 255

	return &GradientFillParams{From: from, To: to}, nil
}

// GradientFillCommand paints a vertical gradient, one solid color per row
type GradientFillCommand struct {
	name   string
	params *GradientFillParams
}

// NewGradientFillCommand creates a new gradient fill command from configuration parameters
func NewGradientFillCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewGradientFillParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &GradientFillCommand{
		name:   "GradientFillCommand",
		params: typedParams,
	}, nil
}

// NewGradientFillCommandWithParams creates a new gradient fill command from concrete colors
func NewGradientFillCommandWithParams(from, to color.RGBA) *GradientFillCommand {
	from.A, to.A = 255, 255
	return &GradientFillCommand{
		name:   "GradientFillCommand",
		params: &GradientFillParams{From: from, To: to},
	}
}

// Name returns the command name
func (c *GradientFillCommand) Name() string {
	return c.name
}

// Execute fills every row y with from + (to-from)*y/height, each channel truncated.
func (c *GradientFillCommand) Execute(canvas *commandstructure.Canvas) error {
	width, height := canvas.Width(), canvas.Height()
	slog.Debug("GradientFillCommand: filling canvas", "width", width, "height", height)

	img := canvas.Image
	origin := img.Bounds().Min
	parallelRows(height, func(y int) {
		rowColor := GradientRowColor(c.params.From, c.params.To, y, height)
		row := img.Pix[img.PixOffset(origin.X, origin.Y+y):]
		for x := 0; x < width; x++ {
			i := x * 4
			row[i+0] = rowColor.R
			row[i+1] = rowColor.G
			row[i+2] = rowColor.B
			row[i+3] = 255
		}
	})
	return nil
}

// GetParams returns the typed parameters
func (c *GradientFillCommand) GetParams() *GradientFillParams {
	return c.params
}

// GradientRowColor returns the color of row y of a gradient spanning height rows.
func GradientRowColor(from, to color.RGBA, y, height int) color.RGBA {
	ratio := float64(y) / float64(height)
	channel := func(a, b uint8) uint8 {
		return uint8(int(float64(a) + (float64(b)-float64(a))*ratio))
	}
	return color.RGBA{
		R: channel(from.R, to.R),
		G: channel(from.G, to.G),
		B: channel(from.B, to.B),
		A: 255,
	}
}

func init() {
	// Register the command in the default registry
	if err := commandstructure.DefaultRegistry.Register("GradientFillCommand", NewGradientFillCommand); err != nil {
		panic(fmt.Sprintf("failed to register GradientFillCommand: %v", err))
	}
}
