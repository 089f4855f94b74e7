// Package glyph provides the marks composited onto installer artwork: a
// user-supplied logo file or the procedurally drawn "Z" glyph.
package glyph

import (
	"errors"

	"github.com/zcleaner/installer-assets/internal/backend/commandstructure"
)

// ErrLogoNotFound is returned when the configured logo file does not exist.
var ErrLogoNotFound = errors.New("logo file not found")

// Source is a glyph that may need loading before it can be rendered.
type Source interface {
	commandstructure.GlyphSource

	// Prepare loads or validates everything Render needs. It is safe to call repeatedly.
	Prepare() error
}
