package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ModuleShape selects the geometry drawn for each dark data module.
type ModuleShape string

const (
	ModuleSquare  ModuleShape = "square"
	ModuleRounded ModuleShape = "rounded"
	ModuleDots    ModuleShape = "dots"
	ModuleDiamond ModuleShape = "diamond"
)

// EyeShape selects the geometry drawn for the three finder patterns.
type EyeShape string

const (
	EyeSquare  EyeShape = "square"
	EyeRounded EyeShape = "rounded"
	EyeCircle  EyeShape = "circle"
)

// ParseModuleShape maps a shape name to its enum value.
func ParseModuleShape(s string) (ModuleShape, error) {
	switch ModuleShape(s) {
	case ModuleSquare, ModuleRounded, ModuleDots, ModuleDiamond:
		return ModuleShape(s), nil
	}
	return "", fmt.Errorf("%w: module shape %q", ErrUnknownShape, s)
}

// ParseEyeShape maps an eye shape name to its enum value.
func ParseEyeShape(s string) (EyeShape, error) {
	switch EyeShape(s) {
	case EyeSquare, EyeRounded, EyeCircle:
		return EyeShape(s), nil
	}
	return "", fmt.Errorf("%w: eye shape %q", ErrUnknownShape, s)
}

// fnum formats a grid coordinate, rounding away float noise so path
// strings stay compact and stable.
func fnum(v float64) string {
	r := math.Round(v*1000) / 1000
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// ModulePath returns a closed path fragment covering the module cell at
// x, y in grid units. Every fragment stays inside
// [x, x+size] x [y, y+size], so fragments for adjacent cells compose
// into one path element without overlap or transforms.
func ModulePath(shape ModuleShape, x, y, size float64) string {
	var b strings.Builder

	switch shape {
	case ModuleRounded:
		r := size * 0.3
		b.WriteString("M")
		b.WriteString(fnum(x + r))
		b.WriteString(" ")
		b.WriteString(fnum(y))
		b.WriteString("H")
		b.WriteString(fnum(x + size - r))
		arcTo(&b, r, x+size, y+r)
		b.WriteString("V")
		b.WriteString(fnum(y + size - r))
		arcTo(&b, r, x+size-r, y+size)
		b.WriteString("H")
		b.WriteString(fnum(x + r))
		arcTo(&b, r, x, y+size-r)
		b.WriteString("V")
		b.WriteString(fnum(y + r))
		arcTo(&b, r, x+r, y)
		b.WriteString("Z")

	case ModuleDots:
		r := size / 2
		b.WriteString("M")
		b.WriteString(fnum(x))
		b.WriteString(" ")
		b.WriteString(fnum(y + r))
		b.WriteString("a")
		b.WriteString(fnum(r))
		b.WriteString(" ")
		b.WriteString(fnum(r))
		b.WriteString(" 0 1 0 ")
		b.WriteString(fnum(size))
		b.WriteString(" 0a")
		b.WriteString(fnum(r))
		b.WriteString(" ")
		b.WriteString(fnum(r))
		b.WriteString(" 0 1 0 -")
		b.WriteString(fnum(size))
		b.WriteString(" 0Z")

	case ModuleDiamond:
		half := size / 2
		b.WriteString("M")
		b.WriteString(fnum(x + half))
		b.WriteString(" ")
		b.WriteString(fnum(y))
		b.WriteString("L")
		b.WriteString(fnum(x + size))
		b.WriteString(" ")
		b.WriteString(fnum(y + half))
		b.WriteString("L")
		b.WriteString(fnum(x + half))
		b.WriteString(" ")
		b.WriteString(fnum(y + size))
		b.WriteString("L")
		b.WriteString(fnum(x))
		b.WriteString(" ")
		b.WriteString(fnum(y + half))
		b.WriteString("Z")

	default: // square
		b.WriteString("M")
		b.WriteString(fnum(x))
		b.WriteString(" ")
		b.WriteString(fnum(y))
		b.WriteString("h")
		b.WriteString(fnum(size))
		b.WriteString("v")
		b.WriteString(fnum(size))
		b.WriteString("h-")
		b.WriteString(fnum(size))
		b.WriteString("Z")
	}

	return b.String()
}

// arcTo appends a clockwise quarter arc of radius r ending at x, y.
func arcTo(b *strings.Builder, r, x, y float64) {
	b.WriteString("A")
	b.WriteString(fnum(r))
	b.WriteString(" ")
	b.WriteString(fnum(r))
	b.WriteString(" 0 0 1 ")
	b.WriteString(fnum(x))
	b.WriteString(" ")
	b.WriteString(fnum(y))
}

// FinderFragments returns the three concentric layers of one finder
// pattern anchored at grid position x, y: outer 7x7 in foreground,
// middle 5x5 in background, inner 3x3 in foreground. Layers are emitted
// outer first so later layers paint over earlier ones.
func FinderFragments(shape EyeShape, x, y, module float64, fg, bg string) []Primitive {
	layers := []struct {
		inset float64
		span  float64
		fill  string
	}{
		{0, 7, fg},
		{1, 5, bg},
		{2, 3, fg},
	}

	prims := make([]Primitive, 0, len(layers))
	switch shape {
	case EyeRounded:
		radii := [3]float64{1.5, 1.0, 0.5}
		for i, l := range layers {
			prims = append(prims, &Rect{
				X:      x + l.inset*module,
				Y:      y + l.inset*module,
				W:      l.span * module,
				H:      l.span * module,
				Radius: radii[i] * module,
				Fill:   l.fill,
			})
		}

	case EyeCircle:
		cx := x + 3.5*module
		cy := y + 3.5*module
		radii := [3]float64{3.5, 2.5, 1.5}
		for i, l := range layers {
			prims = append(prims, &Circle{CX: cx, CY: cy, R: radii[i] * module, Fill: l.fill})
		}

	default: // square
		for _, l := range layers {
			prims = append(prims, &Rect{
				X:    x + l.inset*module,
				Y:    y + l.inset*module,
				W:    l.span * module,
				H:    l.span * module,
				Fill: l.fill,
			})
		}
	}

	return prims
}

// IsFinderPattern reports whether row, col lies inside one of the three
// 7x7 finder corners: top-left, top-right, bottom-left. The bottom-right
// corner of a QR symbol carries no finder pattern.
func IsFinderPattern(row, col, size int) bool {
	if row < 0 || col < 0 || row >= size || col >= size {
		return false
	}

	switch {
	case row < 7 && col < 7:
		return true
	case row < 7 && col >= size-7:
		return true
	case row >= size-7 && col < 7:
		return true
	}
	return false
}

// IsFinderSeparator reports whether row, col lies on the one-module
// light band wrapped around a finder corner (the L-shaped ring at
// index 7 or size-8 next to each corner).
func IsFinderSeparator(row, col, size int) bool {
	if row < 0 || col < 0 || row >= size || col >= size || size < 9 {
		return false
	}

	// Top-left corner
	if (row == 7 && col <= 7) || (col == 7 && row <= 7) {
		return true
	}
	// Top-right corner
	if (row == 7 && col >= size-8) || (col == size-8 && row <= 7) {
		return true
	}
	// Bottom-left corner
	if (row == size-8 && col <= 7) || (col == 7 && row >= size-8) {
		return true
	}
	return false
}
