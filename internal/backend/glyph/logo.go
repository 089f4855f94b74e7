package glyph

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LogoSource composites an externally supplied logo file.
type LogoSource struct {
	path string

	mu      sync.Mutex
	raster  *image.NRGBA
	svgData []byte
	svgW    int
	svgH    int
	modTime time.Time
	size    int64
}

// NewLogoSource creates a logo source for the file at path; nothing is read until Prepare.
func NewLogoSource(path string) *LogoSource {
	return &LogoSource{path: path}
}

// Name returns the source name
func (s *LogoSource) Name() string {
	return "logo"
}

// Path returns the configured logo path
func (s *LogoSource) Path() string {
	return s.path
}

// Prepare checks that the logo exists and decodes it again whenever the file
// changed since the last call.
func (s *LogoSource) Prepare() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prepareLocked()
}

func (s *LogoSource) prepareLocked() error {
	info, err := os.Stat(s.path)
	if err != nil {
		s.reset()
		if errors.Is(err, fs.ErrNotExist) {
			abs, absErr := filepath.Abs(s.path)
			if absErr != nil {
				abs = s.path
			}
			return fmt.Errorf("%w: %s", ErrLogoNotFound, abs)
		}
		return fmt.Errorf("failed to stat logo %s: %w", s.path, err)
	}

	if (s.raster != nil || s.svgData != nil) && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		return nil
	}
	s.reset()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read logo %s: %w", s.path, err)
	}

	if isSVGData(data) {
		w, h, err := svgIntrinsicSize(data)
		if err != nil {
			return fmt.Errorf("failed to load SVG logo %s: %w", s.path, err)
		}
		s.svgData, s.svgW, s.svgH = data, w, h
		s.modTime, s.size = info.ModTime(), info.Size()
		slog.Debug("logo loaded", "path", s.path, "format", "svg", "width", w, "height", h)
		return nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode logo %s: %w", s.path, err)
	}
	if img.Bounds().Empty() {
		return fmt.Errorf("logo %s has no pixels", s.path)
	}

	// Normalize to non-premultiplied RGBA whatever the source color model was.
	s.raster = imaging.Clone(img)
	s.modTime, s.size = info.ModTime(), info.Size()
	slog.Debug("logo loaded",
		"path", s.path,
		"format", format,
		"width", s.raster.Bounds().Dx(),
		"height", s.raster.Bounds().Dy())
	return nil
}

func (s *LogoSource) reset() {
	s.raster, s.svgData = nil, nil
	s.svgW, s.svgH = 0, 0
	s.modTime, s.size = time.Time{}, 0
}

// Render returns the logo downsampled to fit within box x box, preserving its
// aspect ratio. Raster logos are never enlarged; SVG logos are drawn to fill the box.
func (s *LogoSource) Render(box int) (image.Image, error) {
	if box <= 0 {
		return nil, fmt.Errorf("invalid glyph box: %d", box)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.prepareLocked(); err != nil {
		return nil, err
	}

	if s.svgData != nil {
		w, h := computeScaledDimensions(s.svgW, s.svgH, box, box)
		return rasterizeSVG(s.svgData, w, h)
	}

	srcW, srcH := s.raster.Bounds().Dx(), s.raster.Bounds().Dy()
	if srcW <= box && srcH <= box {
		return imaging.Clone(s.raster), nil
	}
	w, h := computeScaledDimensions(srcW, srcH, box, box)
	return imaging.Resize(s.raster, w, h, imaging.Lanczos), nil
}
