package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	_ "image/jpeg"
)

// MaxPNGWidth caps requested raster widths. 8192px covers a 100mm
// sticker at 2000dpi; anything beyond is a caller mistake.
const MaxPNGWidth = 8192

const pngBase64DataURIPrefix = "data:image/png;base64,"

// overlay is an <image> element lifted out of the vector pass. The SVG
// rasterizer has no image support, so logos composite in raster space.
type overlay struct {
	x, y, w, h float64
	href       string
}

var (
	imageTagPattern = regexp.MustCompile(`<image\b[^>]*>`)
	attrPattern     = regexp.MustCompile(`([a-zA-Z_:][-a-zA-Z0-9_:.]*)\s*=\s*"([^"]*)"`)
)

// ExportPNG rasterizes an SVG string to a square PNG of the given pixel
// width using contain fit. The canvas starts opaque white unless
// transparent is set. Width bounds are checked before any parsing.
func ExportPNG(svg string, width int, transparent bool) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: width %d", ErrInvalidDimension, width)
	}
	if width > MaxPNGWidth {
		return nil, fmt.Errorf("%w: width %d exceeds %d", ErrInvalidDimension, width, MaxPNGWidth)
	}

	base, overlays := extractOverlays(svg)

	icon, err := oksvg.ReadIconStream(strings.NewReader(base), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	vbW := icon.ViewBox.W
	vbH := icon.ViewBox.H
	if vbW <= 0 || vbH <= 0 {
		return nil, fmt.Errorf("%w: svg viewbox is empty", ErrRender)
	}

	// Contain fit: scale to the square canvas, centered.
	scale := math.Min(float64(width)/vbW, float64(width)/vbH)
	outW := vbW * scale
	outH := vbH * scale
	offX := (float64(width) - outW) / 2
	offY := (float64(width) - outH) / 2

	img := image.NewRGBA(image.Rect(0, 0, width, width))
	if !transparent {
		draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	}

	icon.SetTarget(offX, offY, outW, outH)
	scanner := rasterx.NewScannerGV(width, width, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, width, scanner), 1.0)

	if len(overlays) > 0 {
		dc := gg.NewContextForRGBA(img)
		for _, ov := range overlays {
			decoded, err := decodeImageDataURI(ov.href)
			if err != nil {
				return nil, err
			}

			wPx := uint(math.Round(ov.w * scale))
			hPx := uint(math.Round(ov.h * scale))
			if wPx == 0 || hPx == 0 {
				continue
			}
			scaled := resize.Resize(wPx, hPx, decoded, resize.Lanczos3)
			dc.DrawImage(scaled,
				int(math.Round(offX+ov.x*scale)),
				int(math.Round(offY+ov.y*scale)))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// ExportPNGDataURI rasterizes and wraps the result as a base64 data URI.
func ExportPNGDataURI(svg string, width int, transparent bool) (string, error) {
	raw, err := ExportPNG(svg, width, transparent)
	if err != nil {
		return "", err
	}
	return pngBase64DataURIPrefix + base64.StdEncoding.EncodeToString(raw), nil
}

// extractOverlays removes <image> elements from the SVG text and
// returns them as positioned overlays in viewbox units.
func extractOverlays(svg string) (string, []overlay) {
	var overlays []overlay

	base := imageTagPattern.ReplaceAllStringFunc(svg, func(tag string) string {
		ov := overlay{}
		for _, m := range attrPattern.FindAllStringSubmatch(tag, -1) {
			name, value := m[1], m[2]
			switch name {
			case "x":
				ov.x = parseFloat(value)
			case "y":
				ov.y = parseFloat(value)
			case "width":
				ov.w = parseFloat(value)
			case "height":
				ov.h = parseFloat(value)
			case "href", "xlink:href":
				ov.href = value
			}
		}
		if ov.href != "" && ov.w > 0 && ov.h > 0 {
			overlays = append(overlays, ov)
		}
		return ""
	})

	return base, overlays
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// decodeImageDataURI decodes a base64 image data URI into an image.
func decodeImageDataURI(href string) (image.Image, error) {
	const marker = ";base64,"
	idx := strings.Index(href, marker)
	if !strings.HasPrefix(href, "data:") || idx < 0 {
		return nil, fmt.Errorf("%w: unsupported image href", ErrRender)
	}

	raw, err := base64.StdEncoding.DecodeString(href[idx+len(marker):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return img, nil
}
