package glyph

import "math"

// computeScaledDimensions fits original into target while preserving aspect ratio.
// The shorter side is rounded to the nearest pixel.
func computeScaledDimensions(originalWidth, originalHeight, targetWidth, targetHeight int) (int, int) {
	originalAspect := float64(originalWidth) / float64(originalHeight)
	targetAspect := float64(targetWidth) / float64(targetHeight)
	if originalAspect > targetAspect {
		// Original is wider - scale to target width
		scaledWidth := targetWidth
		scaledHeight := max(1, int(math.Round(float64(targetWidth)/originalAspect)))
		return scaledWidth, min(scaledHeight, targetHeight)
	}
	// Original is taller - scale to target height
	scaledHeight := targetHeight
	scaledWidth := max(1, int(math.Round(float64(targetHeight)*originalAspect)))
	return min(scaledWidth, targetWidth), scaledHeight
}
