package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPDFPresetOptions(t *testing.T) {
	// Arrange
	cases := []struct {
		name   string
		wantW  float64
		wantH  float64
		margin float64
	}{
		{PresetSticker50, 50, 50, 4},
		{PresetSticker75, 75, 75, 5},
		{PresetSticker100, 100, 100, 6},
		{PresetA4, 210, 297, 20},
	}

	// Act & Assert
	for _, tc := range cases {
		opts, err := PDFPresetOptions(tc.name)
		assert.NoError(t, err)
		assert.Equal(t, tc.wantW, opts.PageWidthMM)
		assert.Equal(t, tc.wantH, opts.PageHeightMM)
		assert.Equal(t, tc.margin, opts.MarginMM)
		assert.Equal(t, float64(0), opts.BleedMM)
	}
}

func TestPDFPresetOptions_Unknown(t *testing.T) {
	// Act
	_, err := PDFPresetOptions("sticker-500")

	// Assert
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestExportPDF_RejectsBadPages(t *testing.T) {
	svg := styledSVG(t, DefaultStyle(), "")

	// Zero and negative page sizes
	_, err := ExportPDF(svg, PDFOptions{PageWidthMM: 0, PageHeightMM: 50})
	assert.ErrorIs(t, err, ErrInvalidDimension)

	_, err = ExportPDF(svg, PDFOptions{PageWidthMM: 50, PageHeightMM: -10})
	assert.ErrorIs(t, err, ErrInvalidDimension)

	// Absurdly large page
	_, err = ExportPDF(svg, PDFOptions{PageWidthMM: 5000, PageHeightMM: 50})
	assert.ErrorIs(t, err, ErrInvalidDimension)

	// Margin swallows the whole page
	_, err = ExportPDF(svg, PDFOptions{PageWidthMM: 50, PageHeightMM: 50, MarginMM: 30})
	assert.ErrorIs(t, err, ErrInvalidDimension)

	// Negative bleed
	_, err = ExportPDF(svg, PDFOptions{PageWidthMM: 50, PageHeightMM: 50, BleedMM: -1})
	assert.ErrorIs(t, err, ErrInvalidDimension)
}

func TestExportPDF_StickerPage(t *testing.T) {
	// Arrange
	svg := styledSVG(t, DefaultStyle(), "")

	// Act
	raw, err := ExportPDF(svg, PDFOptions{PageWidthMM: 50, PageHeightMM: 50, MarginMM: 4})

	// Assert
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw[:8]), "%PDF-"))
	assert.Greater(t, len(raw), 1000)
}

func TestExportPDF_WithBleed(t *testing.T) {
	// Arrange
	svg := styledSVG(t, DefaultStyle(), "")

	// Act
	raw, err := ExportPDF(svg, PDFOptions{PageWidthMM: 50, PageHeightMM: 50, MarginMM: 4, BleedMM: 3})

	// Assert
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw[:8]), "%PDF-"))
	// 50mm trim + 3mm bleed on each side is a 56mm page, 158.74pt
	assert.Contains(t, string(raw), "/MediaBox [0 0 158.74 158.74]")
}

func TestExportPDFPreset(t *testing.T) {
	// Arrange
	svg := styledSVG(t, DefaultStyle(), "")

	// Act
	raw, err := ExportPDFPreset(svg, PresetA4)

	// Assert
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw[:8]), "%PDF-"))
	assert.Contains(t, string(raw), "/MediaBox [0 0 595.28 841.89]")
}

func TestExportPDFPreset_Unknown(t *testing.T) {
	// Arrange
	svg := styledSVG(t, DefaultStyle(), "")

	// Act
	_, err := ExportPDFPreset(svg, "letter")

	// Assert
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestExportPDF_MalformedSVG(t *testing.T) {
	// Act
	_, err := ExportPDF("not svg at all", PDFOptions{PageWidthMM: 50, PageHeightMM: 50, MarginMM: 4})

	// Assert
	assert.ErrorIs(t, err, ErrRender)
}

func TestMMToPoints(t *testing.T) {
	// 25.4mm is one inch is 72 points
	assert.InDelta(t, 72.0, mmToPoints(25.4), 1e-9)
	assert.InDelta(t, 144.0, mmToPoints(50.8), 1e-9)
}
