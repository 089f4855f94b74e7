package glyph

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// isSVGData performs a lightweight detection of SVG content from raw bytes.
// It checks for "<svg" tag or SVG namespace in the initial portion of the data.
func isSVGData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	n := len(data)
	if n > 4096 {
		n = 4096
	}
	header := bytes.ToLower(bytes.TrimSpace(data[:n]))
	return bytes.Contains(header, []byte("<svg")) ||
		bytes.Contains(header, []byte("xmlns=\"http://www.w3.org/2000/svg\"")) ||
		bytes.Contains(header, []byte("xmlns='http://www.w3.org/2000/svg'"))
}

// parseSvgExplicitSize attempts to extract width and height attributes from the SVG.
// Returns width, height, and ok=true if both are found and parseable.
func parseSvgExplicitSize(data []byte) (int, int, bool) {
	n := len(data)
	if n > 8192 {
		n = 8192
	}
	s := strings.ToLower(string(data[:n]))
	i := strings.Index(s, "<svg")
	if i < 0 {
		return 0, 0, false
	}
	j := strings.Index(s[i:], ">")
	if j < 0 {
		j = len(s)
	} else {
		j = i + j
	}
	tag := s[i:j]

	w, wOk := parseNumericAttr(tag, "width")
	h, hOk := parseNumericAttr(tag, "height")
	if wOk && hOk && w > 0 && h > 0 {
		return w, h, true
	}
	return 0, 0, false
}

// parseNumericAttr extracts the leading numeric value of an attribute (e.g., width="123px").
func parseNumericAttr(tag, attr string) (int, bool) {
	key := attr + "="
	pos := -1
	for from := 0; from < len(tag); {
		k := strings.Index(tag[from:], key)
		if k < 0 {
			break
		}
		k += from
		// Attribute names are preceded by whitespace; skip e.g. stroke-width.
		if k > 0 && strings.ContainsRune(" \t\r\n", rune(tag[k-1])) {
			pos = k
			break
		}
		from = k + len(key)
	}
	if pos < 0 {
		return 0, false
	}
	rest := tag[pos+len(key):]
	if len(rest) == 0 {
		return 0, false
	}
	quote := rest[0]
	if quote != '"' && quote != '\'' {
		return 0, false
	}
	val := rest[1:]
	if end := strings.IndexByte(val, quote); end >= 0 {
		val = val[:end]
	}
	num := 0
	found := false
	for i := 0; i < len(val); i++ {
		ch := val[i]
		if ch >= '0' && ch <= '9' {
			found = true
			num = num*10 + int(ch-'0')
		} else if found {
			break
		}
	}
	if !found || num <= 0 {
		return 0, false
	}
	return num, true
}

// svgIntrinsicSize reports the drawing size of an SVG: explicit width/height
// when present, otherwise the viewBox extent.
func svgIntrinsicSize(svgData []byte) (int, int, error) {
	if w, h, ok := parseSvgExplicitSize(svgData); ok {
		return w, h, nil
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse SVG: %w", err)
	}
	w, h := int(icon.ViewBox.W+0.5), int(icon.ViewBox.H+0.5)
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("SVG has neither explicit size nor viewBox")
	}
	return w, h, nil
}

// rasterizeSVG renders an SVG document onto a transparent canvas of the given size.
func rasterizeSVG(svgData []byte, targetW, targetH int) (*image.RGBA, error) {
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("invalid target dimensions for SVG rendering: %dx%d", targetW, targetH)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, fmt.Errorf("SVG has an empty viewBox")
	}

	icon.SetTarget(0, 0, float64(targetW), float64(targetH))

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	scanner := rasterx.NewScannerGV(targetW, targetH, dst, dst.Bounds())
	dasher := rasterx.NewDasher(targetW, targetH, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}
