package qrlink

import (
	"strings"
	"testing"

	"github.com/prasetyowira/qrlink/infrastructure/render"
	"github.com/stretchr/testify/assert"
)

func TestDefaultStyle(t *testing.T) {
	// Act
	style := DefaultStyle()

	// Assert
	assert.Equal(t, "#000000", style.Foreground)
	assert.Equal(t, "#FFFFFF", style.Background)
	assert.Equal(t, "M", style.Level)
	assert.Equal(t, 4, style.QuietZone)
	assert.Equal(t, "square", style.ModuleShape)
	assert.Equal(t, "square", style.EyeShape)
	assert.Equal(t, float64(0), style.LogoRatio)
	assert.NoError(t, style.Validate())
}

func TestStyleValidate_AcceptsCustomStyle(t *testing.T) {
	// Arrange
	style := Style{
		Foreground:  "#1A2b3C",
		Background:  "#FAFAFA",
		Level:       "H",
		QuietZone:   2,
		ModuleShape: "dots",
		EyeShape:    "circle",
		LogoRatio:   0.25,
	}

	// Act + Assert
	assert.NoError(t, style.Validate())
}

func TestStyleValidate_RejectsBadColors(t *testing.T) {
	for _, color := range []string{"", "red", "#12345", "#1234567", "#GGGGGG", "000000"} {
		style := DefaultStyle()
		style.Foreground = color

		err := style.Validate()

		assert.ErrorIs(t, err, ErrInvalidStyle, "foreground %q", color)

		style = DefaultStyle()
		style.Background = color

		err = style.Validate()

		assert.ErrorIs(t, err, ErrInvalidStyle, "background %q", color)
	}
}

func TestStyleValidate_RejectsBadLevel(t *testing.T) {
	for _, level := range []string{"", "X", "low", "m"} {
		style := DefaultStyle()
		style.Level = level

		err := style.Validate()

		assert.ErrorIs(t, err, ErrInvalidStyle, "level %q", level)
	}
}

func TestStyleValidate_RejectsQuietZoneOutOfRange(t *testing.T) {
	for _, qz := range []int{-1, 0, 1, 11, 100} {
		style := DefaultStyle()
		style.QuietZone = qz

		err := style.Validate()

		assert.ErrorIs(t, err, ErrInvalidStyle, "quiet zone %d", qz)
	}

	for _, qz := range []int{QuietZoneMin, 4, QuietZoneMax} {
		style := DefaultStyle()
		style.QuietZone = qz

		assert.NoError(t, style.Validate(), "quiet zone %d", qz)
	}
}

func TestStyleValidate_RejectsUnknownShapes(t *testing.T) {
	style := DefaultStyle()
	style.ModuleShape = "hexagon"

	assert.ErrorIs(t, style.Validate(), ErrInvalidStyle)

	style = DefaultStyle()
	style.EyeShape = "star"

	assert.ErrorIs(t, style.Validate(), ErrInvalidStyle)
}

func TestStyleValidate_LogoRatioBounds(t *testing.T) {
	for _, ratio := range []float64{-0.1, 0.05, 0.09, 0.31, 1.0} {
		style := DefaultStyle()
		style.LogoRatio = ratio

		err := style.Validate()

		assert.ErrorIs(t, err, ErrInvalidStyle, "ratio %v", ratio)
	}

	for _, ratio := range []float64{0, 0.10, 0.20, 0.30} {
		style := DefaultStyle()
		style.LogoRatio = ratio

		assert.NoError(t, style.Validate(), "ratio %v", ratio)
	}
}

func TestStyleHash_StableForEqualStyles(t *testing.T) {
	// Arrange
	a := DefaultStyle()
	b := DefaultStyle()

	// Act + Assert
	assert.Equal(t, a.Hash(""), b.Hash(""))
	assert.Len(t, a.Hash(""), 64)
}

func TestStyleHash_SensitiveToEveryKnob(t *testing.T) {
	// Arrange
	base := DefaultStyle()
	variants := []Style{}

	v := base
	v.Foreground = "#111111"
	variants = append(variants, v)

	v = base
	v.Background = "#EEEEEE"
	variants = append(variants, v)

	v = base
	v.Level = "H"
	variants = append(variants, v)

	v = base
	v.QuietZone = 6
	variants = append(variants, v)

	v = base
	v.ModuleShape = "rounded"
	variants = append(variants, v)

	v = base
	v.EyeShape = "circle"
	variants = append(variants, v)

	v = base
	v.LogoRatio = 0.2
	variants = append(variants, v)

	// Act + Assert
	for i, variant := range variants {
		assert.NotEqual(t, base.Hash(""), variant.Hash(""), "variant %d", i)
	}
}

func TestStyleHash_SensitiveToLogo(t *testing.T) {
	// Arrange
	style := DefaultStyle()

	// Act + Assert
	assert.NotEqual(t, style.Hash(""), style.Hash("data:image/png;base64,AAAA"))
	assert.NotEqual(t,
		style.Hash("data:image/png;base64,AAAA"),
		style.Hash("data:image/png;base64,BBBB"),
	)
}

func TestStyleHash_ColorCaseInsensitive(t *testing.T) {
	// Arrange
	a := DefaultStyle()
	a.Foreground = "#AABBCC"
	b := DefaultStyle()
	b.Foreground = "#aabbcc"

	// Act + Assert
	assert.Equal(t, a.Hash(""), b.Hash(""))
}

func TestRenderStyle_MapsFields(t *testing.T) {
	// Arrange
	style := Style{
		Foreground:  "#112233",
		Background:  "#FFFFFF",
		Level:       "Q",
		QuietZone:   3,
		ModuleShape: "rounded",
		EyeShape:    "circle",
		LogoRatio:   0.15,
	}

	// Act
	rs, err := style.RenderStyle()

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "#112233", rs.Foreground)
	assert.Equal(t, "#FFFFFF", rs.Background)
	assert.Equal(t, render.ECQuartile, rs.Level)
	assert.Equal(t, 3, rs.QuietZone)
	assert.Equal(t, render.ModuleRounded, rs.ModuleShape)
	assert.Equal(t, render.EyeCircle, rs.EyeShape)
	assert.Equal(t, 0.15, rs.LogoRatio)
}

func TestRenderStyle_BadLevelErrors(t *testing.T) {
	// Arrange
	style := DefaultStyle()
	style.Level = "Z"

	// Act
	_, err := style.RenderStyle()

	// Assert
	assert.ErrorIs(t, err, render.ErrUnknownLevel)
}

func TestValidateLogoDataURI(t *testing.T) {
	// Empty means no logo
	assert.NoError(t, ValidateLogoDataURI(""))

	assert.NoError(t, ValidateLogoDataURI("data:image/png;base64,iVBORw0KGgo="))
	assert.NoError(t, ValidateLogoDataURI("data:image/jpeg;base64,/9j/4AAQ"))

	assert.ErrorIs(t, ValidateLogoDataURI("https://example.com/logo.png"), ErrInvalidStyle)
	assert.ErrorIs(t, ValidateLogoDataURI("data:text/html;base64,AAAA"), ErrInvalidStyle)
	assert.ErrorIs(t, ValidateLogoDataURI("data:image/png,plainbits"), ErrInvalidStyle)
}

func TestValidateLogoDataURI_RejectsOversizedLogo(t *testing.T) {
	// Arrange
	uri := "data:image/png;base64," + strings.Repeat("A", LogoMaxBytes)

	// Act
	err := ValidateLogoDataURI(uri)

	// Assert
	assert.ErrorIs(t, err, ErrInvalidStyle)
}
