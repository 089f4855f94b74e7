package commandstructure

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// GetStringParam safely extracts a string parameter from the params map
func GetStringParam(params map[string]any, key string, defaultValue string) string {
	if val, ok := params[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return defaultValue
}

// GetIntParam safely extracts an int parameter from the params map
func GetIntParam(params map[string]any, key string, defaultValue int) int {
	if val, ok := params[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return defaultValue
}

// GetFloatParam safely extracts a float parameter from the params map
func GetFloatParam(params map[string]any, key string, defaultValue float64) float64 {
	if val, ok := params[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		}
	}
	return defaultValue
}

// GetColorParam extracts a color given either as "#rrggbb" or as an [r, g, b] list.
// A missing key yields the default; a malformed value is an error.
func GetColorParam(params map[string]any, key string, defaultValue color.RGBA) (color.RGBA, error) {
	val, ok := params[key]
	if !ok {
		return defaultValue, nil
	}
	switch v := val.(type) {
	case color.RGBA:
		return v, nil
	case string:
		return ParseHexColor(v)
	case []any:
		return parseColorList(v)
	case []int:
		list := make([]any, len(v))
		for i := range v {
			list[i] = v[i]
		}
		return parseColorList(list)
	}
	return color.RGBA{}, fmt.Errorf("parameter %s: unsupported color value %v", key, val)
}

// ParseHexColor parses "#rrggbb" (the leading '#' is optional) into an opaque color
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: expected 6 hex digits", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}, nil
}

func parseColorList(list []any) (color.RGBA, error) {
	if len(list) != 3 {
		return color.RGBA{}, fmt.Errorf("color list must have 3 components, got %d", len(list))
	}
	var rgb [3]uint8
	for i, item := range list {
		var n int
		switch v := item.(type) {
		case int:
			n = v
		case int64:
			n = int(v)
		case float64:
			n = int(v)
		default:
			return color.RGBA{}, fmt.Errorf("color component %d is not numeric: %v", i, item)
		}
		if n < 0 || n > 255 {
			return color.RGBA{}, fmt.Errorf("color component %d out of range: %d", i, n)
		}
		rgb[i] = uint8(n)
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}

// ValidateRequiredParams checks that all required parameters are present
func ValidateRequiredParams(params map[string]any, required []string) error {
	for _, key := range required {
		if _, ok := params[key]; !ok {
			return fmt.Errorf("missing required parameter: %s", key)
		}
	}
	return nil
}
