package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"
)

// PDFOptions describes the target page in millimeters.
type PDFOptions struct {
	PageWidthMM  float64
	PageHeightMM float64
	MarginMM     float64
	BleedMM      float64
}

// Named page presets consumed by the general composer.
const (
	PresetSticker50  = "sticker-50"
	PresetSticker75  = "sticker-75"
	PresetSticker100 = "sticker-100"
	PresetA4         = "a4"
)

// PDFPresetOptions resolves a named preset to its page/margin pair.
func PDFPresetOptions(name string) (PDFOptions, error) {
	switch name {
	case PresetSticker50:
		return PDFOptions{PageWidthMM: 50, PageHeightMM: 50, MarginMM: 4}, nil
	case PresetSticker75:
		return PDFOptions{PageWidthMM: 75, PageHeightMM: 75, MarginMM: 5}, nil
	case PresetSticker100:
		return PDFOptions{PageWidthMM: 100, PageHeightMM: 100, MarginMM: 6}, nil
	case PresetA4:
		return PDFOptions{PageWidthMM: 210, PageHeightMM: 297, MarginMM: 20}, nil
	}
	return PDFOptions{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

const (
	// Print arithmetic: 72 page units per inch, 25.4mm per inch.
	pointsPerInch = 72.0
	mmPerInch     = 25.4

	maxPageMM = 2000.0

	// Raster at >=4x the print size in page units, with an absolute
	// floor, so module edges stay sharp in print.
	rasterScale   = 4
	rasterFloorPx = 2000

	markLineWidth = 0.2
)

// mmToPoints converts millimeters to absolute page units.
func mmToPoints(mm float64) float64 {
	return mm / mmPerInch * pointsPerInch
}

// ExportPDF composes a single page with the QR centered inside the
// margin-inset square. A positive bleed extends the page on all four
// sides and draws registration marks at the trim corners.
func ExportPDF(svg string, opts PDFOptions) ([]byte, error) {
	if opts.PageWidthMM <= 0 || opts.PageHeightMM <= 0 {
		return nil, fmt.Errorf("%w: page %.1fx%.1fmm", ErrInvalidDimension, opts.PageWidthMM, opts.PageHeightMM)
	}
	if opts.PageWidthMM > maxPageMM || opts.PageHeightMM > maxPageMM {
		return nil, fmt.Errorf("%w: page %.1fx%.1fmm exceeds %.0fmm", ErrInvalidDimension, opts.PageWidthMM, opts.PageHeightMM, maxPageMM)
	}
	if opts.MarginMM < 0 || opts.BleedMM < 0 {
		return nil, fmt.Errorf("%w: negative margin or bleed", ErrInvalidDimension)
	}

	contentSide := math.Min(opts.PageWidthMM, opts.PageHeightMM) - 2*opts.MarginMM
	if contentSide <= 0 {
		return nil, fmt.Errorf("%w: margin %.1fmm leaves no room on %.1fx%.1fmm page",
			ErrInvalidDimension, opts.MarginMM, opts.PageWidthMM, opts.PageHeightMM)
	}

	px := int(math.Ceil(mmToPoints(contentSide))) * rasterScale
	if px < rasterFloorPx {
		px = rasterFloorPx
	}
	if px > MaxPNGWidth {
		px = MaxPNGWidth
	}

	raster, err := ExportPNG(svg, px, false)
	if err != nil {
		return nil, err
	}

	bleed := opts.BleedMM
	pageW := opts.PageWidthMM + 2*bleed
	pageH := opts.PageHeightMM + 2*bleed

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetTitle("QR Code", false)
	pdf.SetCreator("qrlink", false)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFillColor(255, 255, 255)
	pdf.Rect(0, 0, pageW, pageH, "F")

	imgX := (pageW - contentSide) / 2
	imgY := (pageH - contentSide) / 2

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imgOpts, bytes.NewReader(raster))
	pdf.ImageOptions("qr", imgX, imgY, contentSide, contentSide, false, imgOpts, 0, "")

	if bleed > 0 {
		drawTrimMarks(pdf, pageW, pageH, bleed)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", ErrRender, pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// ExportPDFPreset composes a page from a named preset.
func ExportPDFPreset(svg string, preset string) ([]byte, error) {
	opts, err := PDFPresetOptions(preset)
	if err != nil {
		return nil, err
	}
	return ExportPDF(svg, opts)
}

// drawTrimMarks places short registration marks at the four corners of
// the trim box, extending outward into the bleed area.
func drawTrimMarks(pdf *gofpdf.Fpdf, pageW, pageH, bleed float64) {
	mark := bleed * 0.75

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(markLineWidth)

	trimL := bleed
	trimR := pageW - bleed
	trimT := bleed
	trimB := pageH - bleed

	// One horizontal and one vertical mark per corner, running from the
	// trim corner outward to just short of the page edge.
	pdf.Line(trimL-mark, trimT, trimL, trimT)
	pdf.Line(trimL, trimT-mark, trimL, trimT)

	pdf.Line(trimR, trimT, trimR+mark, trimT)
	pdf.Line(trimR, trimT-mark, trimR, trimT)

	pdf.Line(trimL-mark, trimB, trimL, trimB)
	pdf.Line(trimL, trimB, trimL, trimB+mark)

	pdf.Line(trimR, trimB, trimR+mark, trimB)
	pdf.Line(trimR, trimB, trimR, trimB+mark)
}
