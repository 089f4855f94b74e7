package commands

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/zcleaner/installer-assets/internal/backend/commandstructure"
	"github.com/zcleaner/installer-assets/internal/backend/typeface"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	defaultLabelFontSize = 24
	defaultLabelGap      = 20
)

// LabelParams represents typed parameters for the label command
type LabelParams struct {
	Text     string
	Color    color.RGBA
	FontPath string
	FontSize float64
	Gap      int
}

// NewLabelParamsFromMap creates LabelParams from a generic map
func NewLabelParamsFromMap(params map[string]any) (*LabelParams, error) {
	if err := commandstructure.ValidateRequiredParams(params, []string{"text"}); err != nil {
		return nil, err
	}

	text := commandstructure.GetStringParam(params, "text", "")
	if text == "" {
		return nil, fmt.Errorf("text must not be empty")
	}

	c, err := commandstructure.GetColorParam(params, "color", White)
	if err != nil {
		return nil, fmt.Errorf("invalid color: %w", err)
	}
	c.A = 255

	fontSize := commandstructure.GetFloatParam(params, "fontSize", defaultLabelFontSize)
	if fontSize <= 0 {
		return nil, fmt.Errorf("fontSize must be positive, got %v", fontSize)
	}

	gap := commandstructure.GetIntParam(params, "gap", defaultLabelGap)
	if gap < 0 {
		return nil, fmt.Errorf("gap must not be negative, got %d", gap)
	}

	return &LabelParams{
		Text:     text,
		Color:    c,
		FontPath: commandstructure.GetStringParam(params, "fontPath", ""),
		FontSize: fontSize,
		Gap:      gap,
	}, nil
}

// LabelCommand writes a horizontally centered line of text below the glyph
type LabelCommand struct {
	name   string
	params *LabelParams
}

// NewLabelCommand creates a new label command from configuration parameters
func NewLabelCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewLabelParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &LabelCommand{
		name:   "LabelCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *LabelCommand) Name() string {
	return c.name
}

// Execute draws the text. Its ink is centered horizontally and the top of its
// line (the ascender) sits Gap pixels below the composited glyph, or Gap pixels
// below the canvas top when no glyph has been composited.
func (c *LabelCommand) Execute(canvas *commandstructure.Canvas) error {
	face := typeface.LoadFace(c.params.FontPath, c.params.FontSize)

	bounds, _ := font.BoundString(face, c.params.Text)
	inkWidth := (bounds.Max.X - bounds.Min.X).Ceil()

	top := c.params.Gap
	if !canvas.GlyphRect.Empty() {
		top = canvas.GlyphRect.Max.Y + c.params.Gap
	}
	left := (canvas.Width() - inkWidth) / 2

	originX := left - bounds.Min.X.Floor()
	originY := top + face.Metrics().Ascent.Ceil()

	slog.Debug("LabelCommand: drawing text",
		"text", c.params.Text,
		"fallback_font", face.Fallback,
		"ink_width", inkWidth,
		"x", left,
		"y", top)

	d := &font.Drawer{
		Dst:  canvas.Image,
		Src:  image.NewUniform(c.params.Color),
		Face: face,
		Dot:  fixed.P(originX, originY),
	}
	d.DrawString(c.params.Text)
	return nil
}

// GetParams returns the typed parameters
func (c *LabelCommand) GetParams() *LabelParams {
	return c.params
}

func init() {
	// Register the command in the default registry
	if err := commandstructure.DefaultRegistry.Register("LabelCommand", NewLabelCommand); err != nil {
		panic(fmt.Sprintf("failed to register LabelCommand: %v", err))
	}
}
