package commands

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/zcleaner/installer-assets/internal/backend/commandstructure"
)

func TestNewGlyphCompositeCommand_Validation(t *testing.T) {
	tests := []struct {
		name      string
		params    map[string]any
		expectErr bool
	}{
		{name: "box only", params: map[string]any{"box": 140}},
		{name: "with offsets", params: map[string]any{"box": 140, "offsetY": -40, "offsetX": 3}},
		{name: "missing box", params: map[string]any{"offsetY": -40}, expectErr: true},
		{name: "zero box", params: map[string]any{"box": 0}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGlyphCompositeCommand(tt.params)
			if tt.expectErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestGlyphCompositeCommand_Placement(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		height   int
		box      int
		offsetY  int
		expected image.Rectangle
	}{
		{name: "icon", width: 256, height: 256, box: 220, expected: image.Rect(18, 18, 238, 238)},
		{name: "banner logo", width: 164, height: 314, box: 140, offsetY: -40, expected: image.Rect(12, 47, 152, 187)},
		{name: "banner glyph", width: 164, height: 314, box: 120, offsetY: -30, expected: image.Rect(22, 67, 142, 187)},
		{name: "small", width: 55, height: 55, box: 45, expected: image.Rect(5, 5, 50, 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canvas := commandstructure.NewCanvas(tt.width, tt.height, &squareGlyph{color: White})
			command, err := NewGlyphCompositeCommandWithParams(tt.box, 0, tt.offsetY)
			if err != nil {
				t.Fatal(err)
			}

			if err := command.Execute(canvas); err != nil {
				t.Fatalf("Execute failed: %v", err)
			}

			if canvas.GlyphRect != tt.expected {
				t.Errorf("Expected glyph rect %v, got %v", tt.expected, canvas.GlyphRect)
			}

			left := canvas.GlyphRect.Min.X
			right := tt.width - canvas.GlyphRect.Max.X
			if diff := left - right; diff < -1 || diff > 1 {
				t.Errorf("Glyph not horizontally centered: left margin %d, right margin %d", left, right)
			}

			if !isColor(canvas.Image.At(canvas.GlyphRect.Min.X, canvas.GlyphRect.Min.Y), White) {
				t.Error("Expected glyph pixel at rect origin")
			}
			if !isColor(canvas.Image.At(canvas.GlyphRect.Min.X-1, canvas.GlyphRect.Min.Y), black) {
				t.Error("Expected background left of the glyph")
			}
		})
	}
}

func TestGlyphCompositeCommand_AlphaBlend(t *testing.T) {
	canvas := commandstructure.NewCanvas(10, 10, &squareGlyph{color: White})
	if err := NewSolidFillCommandWithParams(PrimaryBlue).Execute(canvas); err != nil {
		t.Fatal(err)
	}
	canvas.Glyph = &squareGlyph{color: color.RGBA{}}

	command, _ := NewGlyphCompositeCommandWithParams(4, 0, 0)
	if err := command.Execute(canvas); err != nil {
		t.Fatal(err)
	}
	if got := canvas.Image.RGBAAt(5, 5); got != PrimaryBlue {
		t.Errorf("Transparent glyph must leave background intact, got %v", got)
	}
}

func TestGlyphCompositeCommand_Errors(t *testing.T) {
	command, _ := NewGlyphCompositeCommandWithParams(10, 0, 0)

	if err := command.Execute(commandstructure.NewCanvas(20, 20, nil)); err == nil {
		t.Error("Expected error without glyph source")
	}

	sentinel := errors.New("render failed")
	err := command.Execute(commandstructure.NewCanvas(20, 20, &squareGlyph{err: sentinel}))
	if !errors.Is(err, sentinel) {
		t.Errorf("Expected wrapped render error, got %v", err)
	}
}
