package qrlink

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prasetyowira/qrlink/constant"
	"github.com/prasetyowira/qrlink/infrastructure/logger"
	"github.com/prasetyowira/qrlink/infrastructure/render"
)

// Artifact format discriminators. Every cacheable variant gets its own
// format so one slug can hold several exports side by side.
const (
	FormatSVG            = "svg"
	FormatSVGSimple      = "svg-simple"
	FormatPNG            = "png"
	FormatPNGTransparent = "png-transparent"
	FormatPDFPrefix      = "pdf-"
)

// formatSVGAlpha is the internal background-free SVG the transparent
// PNG export rasterizes from.
const formatSVGAlpha = "svg-alpha"

// DefaultPNGWidth applies when an export request does not name one.
const DefaultPNGWidth = 512

// SVGVariant selects how a code's SVG is served.
type SVGVariant struct {
	// Simple drops all styling and renders plain black on white.
	Simple bool
	// Optimize strips comments and inter-tag whitespace.
	Optimize bool
	// OmitDeclaration drops the XML prolog for inline embedding.
	OmitDeclaration bool
}

// RenderSVG produces the SVG artifact for a code.
func (s *Service) RenderSVG(ctx context.Context, slug string, variant SVGVariant) (string, error) {
	logger.CtxDebug(ctx, "Rendering SVG", logger.LoggerInfo{
		ContextFunction: constant.CtxRenderSVG,
		Data: map[string]interface{}{
			constant.DataSlug:   slug,
			constant.DataFormat: FormatSVG,
		},
	})

	if slug == "" {
		return "", ErrEmptySlug
	}

	code, err := s.fetchCode(ctx, constant.CtxRenderSVG, slug)
	if err != nil {
		return "", err
	}

	format := FormatSVG
	if variant.Simple {
		format = FormatSVGSimple
	}
	svg, err := s.styledSVG(ctx, constant.CtxRenderSVG, code, format)
	if err != nil {
		return "", err
	}

	if variant.Optimize {
		svg = render.OptimizeSVG(svg)
	}
	if variant.OmitDeclaration {
		svg = strings.TrimPrefix(svg, render.XMLDeclaration)
	}

	logger.CtxInfo(ctx, "SVG rendered successfully", logger.LoggerInfo{
		ContextFunction: constant.CtxRenderSVG,
		Data: map[string]interface{}{
			constant.DataSlug:   slug,
			constant.DataFormat: format,
			constant.DataBytes:  len(svg),
		},
	})

	return svg, nil
}

// ExportPNG rasterizes a code to a square PNG. A transparent export
// drops the background so the sticker can sit on colored stock.
func (s *Service) ExportPNG(ctx context.Context, slug string, width int, transparent bool) ([]byte, error) {
	if width <= 0 {
		width = DefaultPNGWidth
	}

	format := FormatPNG
	if transparent {
		format = FormatPNGTransparent
	}

	logger.CtxDebug(ctx, "Exporting PNG", logger.LoggerInfo{
		ContextFunction: constant.CtxExportPNG,
		Data: map[string]interface{}{
			constant.DataSlug:   slug,
			constant.DataFormat: format,
			constant.DataWidth:  width,
		},
	})

	if slug == "" {
		return nil, ErrEmptySlug
	}

	code, err := s.fetchCode(ctx, constant.CtxExportPNG, slug)
	if err != nil {
		return nil, err
	}

	styleHash := code.Style.Hash(code.LogoDataURI)
	if cached, ok := s.cachedArtifact(ctx, constant.CtxExportPNG, slug, format, width, styleHash); ok {
		return cached, nil
	}

	base := FormatSVG
	if transparent {
		base = formatSVGAlpha
	}
	svg, err := s.styledSVG(ctx, constant.CtxExportPNG, code, base)
	if err != nil {
		return nil, err
	}

	png, err := render.ExportPNG(svg, width, transparent)
	if err != nil {
		errCode := constant.ErrCodeQRRender
		if errors.Is(err, render.ErrInvalidDimension) {
			errCode = constant.ErrCodeQRDimension
		}
		logger.CtxError(ctx, "Failed to rasterize PNG", logger.LoggerInfo{
			ContextFunction: constant.CtxExportPNG,
			Error: &logger.CustomError{
				Code:    errCode,
				Message: err.Error(),
				Type:    constant.ErrTypeRender,
			},
			Data: map[string]interface{}{
				constant.DataSlug:  slug,
				constant.DataWidth: width,
			},
		})
		return nil, err
	}

	s.storeArtifact(ctx, constant.CtxExportPNG, &Artifact{
		Slug:      slug,
		Format:    format,
		Width:     width,
		StyleHash: styleHash,
		Bytes:     png,
		CreatedAt: time.Now(),
	})

	logger.CtxInfo(ctx, constant.MsgArtifactCacheMiss, logger.LoggerInfo{
		ContextFunction: constant.CtxExportPNG,
		Data: map[string]interface{}{
			constant.DataSlug:   slug,
			constant.DataFormat: format,
			constant.DataWidth:  width,
			constant.DataBytes:  len(png),
		},
	})

	return png, nil
}

// ExportPDF composes a print-ready page with the QR centered on it.
// Custom page geometry is rendered fresh every time; only the SVG it
// rasterizes from is cached.
func (s *Service) ExportPDF(ctx context.Context, slug string, opts render.PDFOptions) ([]byte, error) {
	logger.CtxDebug(ctx, "Exporting PDF", logger.LoggerInfo{
		ContextFunction: constant.CtxExportPDF,
		Data: map[string]interface{}{
			constant.DataSlug:  slug,
			constant.DataWidth: opts.PageWidthMM,
		},
	})

	if slug == "" {
		return nil, ErrEmptySlug
	}

	code, err := s.fetchCode(ctx, constant.CtxExportPDF, slug)
	if err != nil {
		return nil, err
	}

	svg, err := s.styledSVG(ctx, constant.CtxExportPDF, code, FormatSVG)
	if err != nil {
		return nil, err
	}

	pdf, err := render.ExportPDF(svg, opts)
	if err != nil {
		errCode := constant.ErrCodeQRRender
		if errors.Is(err, render.ErrInvalidDimension) {
			errCode = constant.ErrCodeQRDimension
		}
		logger.CtxError(ctx, "Failed to compose PDF", logger.LoggerInfo{
			ContextFunction: constant.CtxExportPDF,
			Error: &logger.CustomError{
				Code:    errCode,
				Message: err.Error(),
				Type:    constant.ErrTypeRender,
			},
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
		return nil, err
	}

	logger.CtxInfo(ctx, "PDF exported successfully", logger.LoggerInfo{
		ContextFunction: constant.CtxExportPDF,
		Data: map[string]interface{}{
			constant.DataSlug:  slug,
			constant.DataBytes: len(pdf),
		},
	})

	return pdf, nil
}

// ExportPDFPreset composes a print-ready page from a named preset and
// caches the result.
func (s *Service) ExportPDFPreset(ctx context.Context, slug, preset string) ([]byte, error) {
	logger.CtxDebug(ctx, "Exporting PDF preset", logger.LoggerInfo{
		ContextFunction: constant.CtxExportPDF,
		Data: map[string]interface{}{
			constant.DataSlug:   slug,
			constant.DataPreset: preset,
		},
	})

	if slug == "" {
		return nil, ErrEmptySlug
	}

	if _, err := render.PDFPresetOptions(preset); err != nil {
		logger.CtxWarn(ctx, "Unknown PDF preset", logger.LoggerInfo{
			ContextFunction: constant.CtxExportPDF,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeQRPreset,
				Message: err.Error(),
				Type:    constant.ErrTypeValidation,
			},
			Data: map[string]interface{}{
				constant.DataPreset: preset,
			},
		})
		return nil, err
	}

	code, err := s.fetchCode(ctx, constant.CtxExportPDF, slug)
	if err != nil {
		return nil, err
	}

	format := FormatPDFPrefix + preset
	styleHash := code.Style.Hash(code.LogoDataURI)
	if cached, ok := s.cachedArtifact(ctx, constant.CtxExportPDF, slug, format, 0, styleHash); ok {
		return cached, nil
	}

	svg, err := s.styledSVG(ctx, constant.CtxExportPDF, code, FormatSVG)
	if err != nil {
		return nil, err
	}

	pdf, err := render.ExportPDFPreset(svg, preset)
	if err != nil {
		logger.CtxError(ctx, "Failed to compose PDF", logger.LoggerInfo{
			ContextFunction: constant.CtxExportPDF,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeQRRender,
				Message: err.Error(),
				Type:    constant.ErrTypeRender,
			},
			Data: map[string]interface{}{
				constant.DataSlug:   slug,
				constant.DataPreset: preset,
			},
		})
		return nil, err
	}

	s.storeArtifact(ctx, constant.CtxExportPDF, &Artifact{
		Slug:      slug,
		Format:    format,
		Width:     0,
		StyleHash: styleHash,
		Bytes:     pdf,
		CreatedAt: time.Now(),
	})

	logger.CtxInfo(ctx, constant.MsgArtifactCacheMiss, logger.LoggerInfo{
		ContextFunction: constant.CtxExportPDF,
		Data: map[string]interface{}{
			constant.DataSlug:   slug,
			constant.DataFormat: format,
			constant.DataBytes:  len(pdf),
		},
	})

	return pdf, nil
}

// styledSVG renders or recalls the canonical SVG document for a code.
// format selects the document flavor: styled, simple, or the
// background-free base used by transparent rasterization. All three
// are cached under the stored style's hash.
func (s *Service) styledSVG(ctx context.Context, fn string, code *Code, format string) (string, error) {
	styleHash := code.Style.Hash(code.LogoDataURI)
	if cached, ok := s.cachedArtifact(ctx, fn, code.Slug, format, 0, styleHash); ok {
		return string(cached), nil
	}

	applied := code.Style
	if format == formatSVGAlpha {
		applied.Background = ""
	}

	renderStyle, err := applied.RenderStyle()
	if err != nil {
		logger.CtxError(ctx, "Stored style failed to parse", logger.LoggerInfo{
			ContextFunction: fn,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeQRRender,
				Message: err.Error(),
				Type:    constant.ErrTypeRender,
			},
			Data: map[string]interface{}{
				constant.DataSlug: code.Slug,
			},
		})
		return "", err
	}

	m, err := render.NewMatrix(s.ManagedURL(code.Slug), renderStyle.Level)
	if err != nil {
		errCode := constant.ErrCodeQREncode
		if errors.Is(err, render.ErrCapacityExceeded) {
			errCode = constant.ErrCodeQRCapacity
		}
		logger.CtxError(ctx, "Failed to encode QR matrix", logger.LoggerInfo{
			ContextFunction: fn,
			Error: &logger.CustomError{
				Code:    errCode,
				Message: err.Error(),
				Type:    constant.ErrTypeRender,
			},
			Data: map[string]interface{}{
				constant.DataSlug: code.Slug,
			},
		})
		return "", err
	}

	var doc *render.Document
	if format == FormatSVGSimple {
		doc = render.BuildSimpleSVG(m, renderStyle.QuietZone)
	} else {
		doc = render.BuildStyledSVG(m, renderStyle, code.LogoDataURI)
	}
	svg := doc.Render(render.SVGOptions{IncludeDeclaration: true})

	s.storeArtifact(ctx, fn, &Artifact{
		Slug:      code.Slug,
		Format:    format,
		Width:     0,
		StyleHash: styleHash,
		Bytes:     []byte(svg),
		CreatedAt: time.Now(),
	})

	return svg, nil
}

// cachedArtifact looks an artifact up in the in-memory cache first and
// the persistent store second. Rows stamped with a stale style hash
// are ignored.
func (s *Service) cachedArtifact(ctx context.Context, fn, slug, format string, width int, styleHash string) ([]byte, bool) {
	key := artifactKey(format, width)
	ns := artifactNamespace(slug)

	if val, found := s.cache.Get(ns, key); found {
		if artifact, ok := val.(*Artifact); ok && artifact.StyleHash == styleHash {
			logger.CtxInfo(ctx, constant.MsgArtifactCacheHit, logger.LoggerInfo{
				ContextFunction: fn,
				Data: map[string]interface{}{
					constant.DataSlug:     slug,
					constant.DataFormat:   format,
					constant.DataWidth:    width,
					constant.DataCacheHit: true,
				},
			})
			return artifact.Bytes, true
		}
	}

	artifact, err := s.artifacts.Get(ctx, slug, format, width)
	if err != nil {
		if !errors.Is(err, ErrArtifactNotFound) {
			// A cache read failure just means a re-render
			logger.CtxWarn(ctx, "Failed to read cached artifact", logger.LoggerInfo{
				ContextFunction: fn,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeStorageFailure,
					Message: err.Error(),
					Type:    constant.ErrTypeStorage,
				},
				Data: map[string]interface{}{
					constant.DataSlug:   slug,
					constant.DataFormat: format,
				},
			})
		}
		return nil, false
	}
	if artifact.StyleHash != styleHash {
		return nil, false
	}

	s.cache.Set(ns, key, artifact)

	logger.CtxInfo(ctx, constant.MsgArtifactCacheHit, logger.LoggerInfo{
		ContextFunction: fn,
		Data: map[string]interface{}{
			constant.DataSlug:     slug,
			constant.DataFormat:   format,
			constant.DataWidth:    width,
			constant.DataCacheHit: false,
		},
	})

	return artifact.Bytes, true
}

// storeArtifact writes a freshly rendered artifact through both cache
// layers. Persistence failures are not fatal: the bytes are already in
// hand and in memory.
func (s *Service) storeArtifact(ctx context.Context, fn string, artifact *Artifact) {
	if err := s.artifacts.Put(ctx, artifact); err != nil {
		logger.CtxWarn(ctx, "Failed to persist artifact", logger.LoggerInfo{
			ContextFunction: fn,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeStorageFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataSlug:   artifact.Slug,
				constant.DataFormat: artifact.Format,
			},
		})
	}

	s.cache.Set(artifactNamespace(artifact.Slug), artifactKey(artifact.Format, artifact.Width), artifact)
}

func artifactKey(format string, width int) string {
	return fmt.Sprintf("%s:%d", format, width)
}
