package qrlink

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/prasetyowira/qrlink/infrastructure/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// exportFixture wires a service over an empty artifact store and one
// stored code so export tests run the real render pipeline.
func exportFixture(t *testing.T) (*Service, *MockRepository, *MockArtifactRepository) {
	t.Helper()

	mockRepo := new(MockRepository)
	mockArtifacts := new(MockArtifactRepository)
	service := newTestService(mockRepo, mockArtifacts)

	stored := &Code{
		ID:          1,
		Slug:        "abc123",
		Destination: "https://example.com/menu",
		Style:       DefaultStyle(),
		CreatedAt:   time.Now(),
	}
	mockRepo.On("FindBySlug", mock.Anything, "abc123").Return(stored, nil)
	mockArtifacts.On("Get", mock.Anything, "abc123", mock.AnythingOfType("string"), mock.AnythingOfType("int")).Return(nil, ErrArtifactNotFound)
	mockArtifacts.On("Put", mock.Anything, mock.AnythingOfType("*qrlink.Artifact")).Return(nil)

	return service, mockRepo, mockArtifacts
}

func TestRenderSVG_Success(t *testing.T) {
	// Arrange
	service, _, mockArtifacts := exportFixture(t)

	// Act
	svg, err := service.RenderSVG(context.Background(), "abc123", SVGVariant{})

	// Assert
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(svg, render.XMLDeclaration))
	assert.Contains(t, svg, `<svg xmlns="http://www.w3.org/2000/svg"`)
	assert.Contains(t, svg, `viewBox="0 0 `)
	mockArtifacts.AssertCalled(t, "Put", mock.Anything, mock.MatchedBy(func(a *Artifact) bool {
		return a.Format == FormatSVG && a.Width == 0 && a.Slug == "abc123"
	}))
}

func TestRenderSVG_EmptySlug(t *testing.T) {
	// Arrange
	service, mockRepo, _ := exportFixture(t)

	// Act
	svg, err := service.RenderSVG(context.Background(), "", SVGVariant{})

	// Assert
	assert.ErrorIs(t, err, ErrEmptySlug)
	assert.Empty(t, svg)
	mockRepo.AssertNotCalled(t, "FindBySlug")
}

func TestRenderSVG_SimpleVariant(t *testing.T) {
	// Arrange
	service, _, mockArtifacts := exportFixture(t)

	// Act
	svg, err := service.RenderSVG(context.Background(), "abc123", SVGVariant{Simple: true})

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, svg, `<g fill="#000000">`)
	mockArtifacts.AssertCalled(t, "Put", mock.Anything, mock.MatchedBy(func(a *Artifact) bool {
		return a.Format == FormatSVGSimple
	}))
}

func TestRenderSVG_OmitDeclaration(t *testing.T) {
	// Arrange
	service, _, _ := exportFixture(t)

	// Act
	svg, err := service.RenderSVG(context.Background(), "abc123", SVGVariant{OmitDeclaration: true})

	// Assert
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.NotContains(t, svg, "<?xml")
}

func TestRenderSVG_OptimizeVariant(t *testing.T) {
	// Arrange
	service, _, _ := exportFixture(t)

	// Act
	svg, err := service.RenderSVG(context.Background(), "abc123", SVGVariant{Optimize: true})

	// Assert
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(svg, render.XMLDeclaration))
	assert.NotContains(t, svg, "> <")
}

func TestRenderSVG_SecondCallServedFromMemory(t *testing.T) {
	// Arrange
	service, _, mockArtifacts := exportFixture(t)

	// Act
	first, err1 := service.RenderSVG(context.Background(), "abc123", SVGVariant{})
	second, err2 := service.RenderSVG(context.Background(), "abc123", SVGVariant{})

	// Assert
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.Equal(t, first, second)
	mockArtifacts.AssertNumberOfCalls(t, "Get", 1)
	mockArtifacts.AssertNumberOfCalls(t, "Put", 1)
}

func TestRenderSVG_ServedFromPersistentStore(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)
	mockArtifacts := new(MockArtifactRepository)
	service := newTestService(mockRepo, mockArtifacts)

	stored := &Code{ID: 1, Slug: "abc123", Destination: "https://example.com/menu", Style: DefaultStyle()}
	cached := &Artifact{
		Slug:      "abc123",
		Format:    FormatSVG,
		Width:     0,
		StyleHash: stored.Style.Hash(stored.LogoDataURI),
		Bytes:     []byte("<svg>cached</svg>"),
	}
	mockRepo.On("FindBySlug", mock.Anything, "abc123").Return(stored, nil)
	mockArtifacts.On("Get", mock.Anything, "abc123", FormatSVG, 0).Return(cached, nil)

	// Act
	svg, err := service.RenderSVG(context.Background(), "abc123", SVGVariant{})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "<svg>cached</svg>", svg)
	mockArtifacts.AssertNotCalled(t, "Put")
}

func TestRenderSVG_IgnoresStaleArtifact(t *testing.T) {
	// Arrange
	mockRepo := new(MockRepository)
	mockArtifacts := new(MockArtifactRepository)
	service := newTestService(mockRepo, mockArtifacts)

	stored := &Code{ID: 1, Slug: "abc123", Destination: "https://example.com/menu", Style: DefaultStyle()}
	stale := &Artifact{
		Slug:      "abc123",
		Format:    FormatSVG,
		Width:     0,
		StyleHash: "a-hash-from-a-previous-style",
		Bytes:     []byte("<svg>stale</svg>"),
	}
	mockRepo.On("FindBySlug", mock.Anything, "abc123").Return(stored, nil)
	mockArtifacts.On("Get", mock.Anything, "abc123", FormatSVG, 0).Return(stale, nil)
	mockArtifacts.On("Put", mock.Anything, mock.AnythingOfType("*qrlink.Artifact")).Return(nil)

	// Act
	svg, err := service.RenderSVG(context.Background(), "abc123", SVGVariant{})

	// Assert
	assert.NoError(t, err)
	assert.NotEqual(t, "<svg>stale</svg>", svg)
	assert.True(t, strings.HasPrefix(svg, render.XMLDeclaration))
	mockArtifacts.AssertCalled(t, "Put", mock.Anything, mock.AnythingOfType("*qrlink.Artifact"))
}

func TestExportPNG_Success(t *testing.T) {
	// Arrange
	service, _, mockArtifacts := exportFixture(t)

	// Act
	data, err := service.ExportPNG(context.Background(), "abc123", 300, false)

	// Assert
	assert.NoError(t, err)
	img, decodeErr := png.Decode(bytes.NewReader(data))
	assert.NoError(t, decodeErr)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
	mockArtifacts.AssertCalled(t, "Put", mock.Anything, mock.MatchedBy(func(a *Artifact) bool {
		return a.Format == FormatPNG && a.Width == 300
	}))
}

func TestExportPNG_DefaultWidth(t *testing.T) {
	// Arrange
	service, _, _ := exportFixture(t)

	// Act
	data, err := service.ExportPNG(context.Background(), "abc123", 0, false)

	// Assert
	assert.NoError(t, err)
	img, decodeErr := png.Decode(bytes.NewReader(data))
	assert.NoError(t, decodeErr)
	assert.Equal(t, DefaultPNGWidth, img.Bounds().Dx())
}

func TestExportPNG_Transparent(t *testing.T) {
	// Arrange
	service, _, mockArtifacts := exportFixture(t)

	// Act
	data, err := service.ExportPNG(context.Background(), "abc123", 128, true)

	// Assert
	assert.NoError(t, err)
	img, decodeErr := png.Decode(bytes.NewReader(data))
	assert.NoError(t, decodeErr)
	_, _, _, alpha := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), alpha)
	mockArtifacts.AssertCalled(t, "Put", mock.Anything, mock.MatchedBy(func(a *Artifact) bool {
		return a.Format == FormatPNGTransparent && a.Width == 128
	}))
}

func TestExportPNG_SecondCallCached(t *testing.T) {
	// Arrange
	service, _, mockArtifacts := exportFixture(t)

	// Act
	first, err1 := service.ExportPNG(context.Background(), "abc123", 256, false)
	second, err2 := service.ExportPNG(context.Background(), "abc123", 256, false)

	// Assert
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.Equal(t, first, second)
	// One base SVG put plus one PNG put; the repeat is a memory hit
	mockArtifacts.AssertNumberOfCalls(t, "Put", 2)
	mockArtifacts.AssertNumberOfCalls(t, "Get", 2)
}

func TestExportPNG_RejectsAbsurdWidth(t *testing.T) {
	// Arrange
	service, _, _ := exportFixture(t)

	// Act
	data, err := service.ExportPNG(context.Background(), "abc123", render.MaxPNGWidth+1, false)

	// Assert
	assert.ErrorIs(t, err, render.ErrInvalidDimension)
	assert.Nil(t, data)
}

func TestExportPDFPreset_Success(t *testing.T) {
	// Arrange
	service, _, mockArtifacts := exportFixture(t)

	// Act
	data, err := service.ExportPDFPreset(context.Background(), "abc123", render.PresetSticker50)

	// Assert
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Greater(t, len(data), 1000)
	mockArtifacts.AssertCalled(t, "Put", mock.Anything, mock.MatchedBy(func(a *Artifact) bool {
		return a.Format == FormatPDFPrefix+render.PresetSticker50 && a.Width == 0
	}))
}

func TestExportPDFPreset_UnknownPreset(t *testing.T) {
	// Arrange
	service, mockRepo, _ := exportFixture(t)

	// Act
	data, err := service.ExportPDFPreset(context.Background(), "abc123", "poster-9000")

	// Assert
	assert.ErrorIs(t, err, render.ErrUnknownPreset)
	assert.Nil(t, data)
	mockRepo.AssertNotCalled(t, "FindBySlug")
}

func TestExportPDF_CustomPage(t *testing.T) {
	// Arrange
	service, _, mockArtifacts := exportFixture(t)

	opts := render.PDFOptions{PageWidthMM: 120, PageHeightMM: 120, MarginMM: 8}

	// Act
	data, err := service.ExportPDF(context.Background(), "abc123", opts)

	// Assert
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	// Custom geometry is never persisted, only the base SVG is
	mockArtifacts.AssertNumberOfCalls(t, "Put", 1)
}

func TestExportPDF_RejectsBadPage(t *testing.T) {
	// Arrange
	service, _, _ := exportFixture(t)

	// Act
	data, err := service.ExportPDF(context.Background(), "abc123", render.PDFOptions{})

	// Assert
	assert.ErrorIs(t, err, render.ErrInvalidDimension)
	assert.Nil(t, data)
}
