// Package encoding writes canvases into the container formats the installer expects.
package encoding

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	ico "github.com/sergeymakinen/go-ico"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Format is an asset container format.
type Format string

const (
	FormatICO Format = "ico"
	FormatBMP Format = "bmp"
	FormatPNG Format = "png"
)

// MaxIconSize is the largest entry an ICO directory can describe.
const MaxIconSize = 256

// DefaultIconSizes are the square entries written into an ICO when none are configured.
var DefaultIconSizes = []int{256, 48, 32, 16}

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case FormatICO, FormatBMP, FormatPNG:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format: %q", name)
}

// FormatFromFile derives the format from a file name's extension.
func FormatFromFile(name string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return "", fmt.Errorf("file %q has no extension", name)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type served for a format.
func ContentType(format Format) string {
	switch format {
	case FormatICO:
		return "image/x-icon"
	case FormatBMP:
		return "image/bmp"
	case FormatPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

// Encode serializes img in the given format. iconSizes only applies to ICO
// output; nil selects DefaultIconSizes.
func Encode(img image.Image, format Format, iconSizes []int) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("cannot encode an empty image")
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case FormatICO:
		err = encodeICO(&buf, img, iconSizes)
	case FormatBMP:
		// 24-bit uncompressed; x/image/bmp only drops the alpha channel for opaque images.
		err = bmp.Encode(&buf, flatten(img))
	case FormatPNG:
		err = png.Encode(&buf, img)
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
	if err != nil {
		slog.Error("failed to encode image", "format", format, "error", err)
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}

	slog.Debug("image encoded",
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
		"size_bytes", buf.Len())
	return buf.Bytes(), nil
}

// NormalizeIconSizes validates sizes and returns them unique and largest first.
func NormalizeIconSizes(sizes []int) ([]int, error) {
	if len(sizes) == 0 {
		sizes = DefaultIconSizes
	}
	out := make([]int, 0, len(sizes))
	for _, s := range sizes {
		if s < 1 || s > MaxIconSize {
			return nil, fmt.Errorf("icon size %d out of range 1..%d", s, MaxIconSize)
		}
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b int) int { return b - a })
	return out, nil
}

func encodeICO(buf *bytes.Buffer, img image.Image, iconSizes []int) error {
	sizes, err := NormalizeIconSizes(iconSizes)
	if err != nil {
		return err
	}

	entries := make([]image.Image, 0, len(sizes))
	for _, size := range sizes {
		entries = append(entries, iconEntry(img, size))
	}
	return ico.EncodeAll(buf, entries)
}

// iconEntry returns img as a size x size RGBA image, resampling when needed.
func iconEntry(img image.Image, size int) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	if b.Dx() == size && b.Dy() == size {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// flatten composites img over opaque black so every pixel has full alpha.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
