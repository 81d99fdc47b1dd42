package render

import (
	"strings"
)

// Style carries the visual options applied when building the styled
// document. Values are validated by the layer feeding them in; the
// builder only clamps what would otherwise break geometry.
type Style struct {
	Foreground  string
	Background  string
	Level       ECLevel
	QuietZone   int
	ModuleShape ModuleShape
	EyeShape    EyeShape
	LogoRatio   float64
}

// DefaultStyle returns the baseline black-on-white square styling.
func DefaultStyle() Style {
	return Style{
		Foreground:  "#000000",
		Background:  "#FFFFFF",
		Level:       ECMedium,
		QuietZone:   4,
		ModuleShape: ModuleSquare,
		EyeShape:    EyeSquare,
	}
}

const (
	// Logo ratio bounds relative to the viewbox side.
	LogoRatioMin = 0.10
	LogoRatioMax = 0.30
	// LogoRatioWarn is the scannability advisory threshold.
	LogoRatioWarn = 0.20

	// Pad margin around the logo, as a fraction of the logo side.
	logoPadFraction = 0.15

	fallbackBackground = "#FFFFFF"
)

// BuildStyledSVG assembles the styled document for a matrix: background
// rect, one consolidated module path, three finder patterns, and an
// optional centered logo over a background-colored pad. The logo is
// drawn only when both a data URI and a positive ratio are supplied.
func BuildStyledSVG(m Matrix, style Style, logoDataURI string) *Document {
	size := 0
	if m != nil {
		size = m.Size()
	}

	qz := style.QuietZone
	if qz < 0 {
		qz = 0
	}

	side := float64(size + 2*qz)
	doc := NewDocument(side, side)
	if side == 0 {
		return doc
	}

	if style.Background != "" {
		doc.Append(&Rect{X: 0, Y: 0, W: side, H: side, Fill: style.Background})
	}

	if size > 0 {
		var d strings.Builder
		for row := 0; row < size; row++ {
			for col := 0; col < size; col++ {
				if !m.Dark(row, col) {
					continue
				}
				// Finder cells and their separator ring belong to the
				// dedicated eye renderer below.
				if IsFinderPattern(row, col, size) || IsFinderSeparator(row, col, size) {
					continue
				}
				d.WriteString(ModulePath(style.ModuleShape, float64(qz+col), float64(qz+row), 1))
			}
		}
		if d.Len() > 0 {
			doc.Append(&Path{D: d.String(), Fill: style.Foreground})
		}

		if size >= 21 {
			bg := style.Background
			if bg == "" {
				bg = fallbackBackground
			}
			anchors := [3][2]float64{
				{float64(qz), float64(qz)},
				{float64(qz + size - 7), float64(qz)},
				{float64(qz), float64(qz + size - 7)},
			}
			for _, a := range anchors {
				doc.Append(FinderFragments(style.EyeShape, a[0], a[1], 1, style.Foreground, bg)...)
			}
		}
	}

	if logoDataURI != "" && style.LogoRatio > 0 {
		appendLogo(doc, side, style, logoDataURI)
	}

	return doc
}

// appendLogo centers the logo and draws a background-colored pad square
// beneath it so the symbol keeps a local contrast margin.
func appendLogo(doc *Document, side float64, style Style, logoDataURI string) {
	ratio := style.LogoRatio
	if ratio < LogoRatioMin {
		ratio = LogoRatioMin
	}
	if ratio > LogoRatioMax {
		ratio = LogoRatioMax
	}

	logoSide := side * ratio
	padSide := logoSide * (1 + 2*logoPadFraction)

	bg := style.Background
	if bg == "" {
		bg = fallbackBackground
	}

	doc.Append(&Rect{
		X:    (side - padSide) / 2,
		Y:    (side - padSide) / 2,
		W:    padSide,
		H:    padSide,
		Fill: bg,
	})
	doc.Append(&Image{
		X:    (side - logoSide) / 2,
		Y:    (side - logoSide) / 2,
		W:    logoSide,
		H:    logoSide,
		Href: logoDataURI,
	})
}

// BuildSimpleSVG renders every dark cell as a plain unit square under a
// single fill group. Fast path for previews where shaping is
// unnecessary.
func BuildSimpleSVG(m Matrix, quietZone int) *Document {
	size := 0
	if m != nil {
		size = m.Size()
	}

	qz := quietZone
	if qz < 0 {
		qz = 0
	}

	side := float64(size + 2*qz)
	doc := NewDocument(side, side)
	if side == 0 {
		return doc
	}

	doc.Append(&Rect{X: 0, Y: 0, W: side, H: side, Fill: "#FFFFFF"})

	group := &Group{Fill: "#000000"}
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if !m.Dark(row, col) {
				continue
			}
			group.Prims = append(group.Prims, &Rect{
				X: float64(qz + col),
				Y: float64(qz + row),
				W: 1,
				H: 1,
			})
		}
	}
	if len(group.Prims) > 0 {
		doc.Append(group)
	}

	return doc
}
