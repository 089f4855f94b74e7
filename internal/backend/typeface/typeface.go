// Package typeface loads the font used for banner labels.
package typeface

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// Face is a loaded font face together with where it came from.
type Face struct {
	font.Face
	// Path is the font file the face was parsed from; empty for the built-in face.
	Path string
	// Fallback is true when the preferred font could not be used.
	Fallback bool
}

type faceKey struct {
	path string
	size float64
}

var (
	cacheMu sync.Mutex
	cache   = map[faceKey]*Face{}
)

// LoadFace opens the TTF, OTF or TTC font at path at the given point size.
// Any failure is logged and answered with the built-in 7x13 bitmap face, so
// callers always receive a usable face. Results are cached per path and size.
func LoadFace(path string, size float64) *Face {
	key := faceKey{path: path, size: size}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if face, ok := cache[key]; ok {
		return face
	}

	var face *Face
	otFace, err := loadOpenType(path, size)
	if err != nil {
		slog.Warn("preferred font unavailable, using built-in face", "path", path, "error", err)
		face = &Face{Face: basicfont.Face7x13, Fallback: true}
	} else {
		slog.Debug("font loaded", "path", path, "size", size)
		face = &Face{Face: otFace, Path: path}
	}
	cache[key] = face
	return face
}

func loadOpenType(path string, size float64) (font.Face, error) {
	if path == "" {
		return nil, fmt.Errorf("no font path configured")
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size: %v", size)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}

	// A plain TTF/OTF parses as a collection of one.
	collection, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	if collection.NumFonts() == 0 {
		return nil, fmt.Errorf("font collection is empty")
	}
	f, err := collection.Font(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read first font of collection: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}
