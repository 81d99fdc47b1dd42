package render

import (
	"strconv"
	"strings"
)

// XMLDeclaration is the prolog prepended when a document is rendered
// for download.
const XMLDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

const svgNamespace = "http://www.w3.org/2000/svg"

// SVGOptions controls document serialization.
type SVGOptions struct {
	// IncludeDeclaration prepends the XML declaration.
	IncludeDeclaration bool
	// PixelWidth, when positive, emits width/height attributes so the
	// document carries an intrinsic pixel size.
	PixelWidth int
}

// Primitive is a drawable element of a Document.
type Primitive interface {
	writeSVG(b *strings.Builder)
}

// Rect is an axis-aligned rectangle with an optional corner radius.
type Rect struct {
	X, Y, W, H float64
	Radius     float64
	Fill       string
}

func (r *Rect) writeSVG(b *strings.Builder) {
	b.WriteString(`<rect x="`)
	b.WriteString(fnum(r.X))
	b.WriteString(`" y="`)
	b.WriteString(fnum(r.Y))
	b.WriteString(`" width="`)
	b.WriteString(fnum(r.W))
	b.WriteString(`" height="`)
	b.WriteString(fnum(r.H))
	if r.Radius > 0 {
		b.WriteString(`" rx="`)
		b.WriteString(fnum(r.Radius))
	}
	if r.Fill != "" {
		b.WriteString(`" fill="`)
		b.WriteString(r.Fill)
	}
	b.WriteString(`"/>`)
}

// Circle is a filled circle.
type Circle struct {
	CX, CY, R float64
	Fill      string
}

func (c *Circle) writeSVG(b *strings.Builder) {
	b.WriteString(`<circle cx="`)
	b.WriteString(fnum(c.CX))
	b.WriteString(`" cy="`)
	b.WriteString(fnum(c.CY))
	b.WriteString(`" r="`)
	b.WriteString(fnum(c.R))
	b.WriteString(`" fill="`)
	b.WriteString(c.Fill)
	b.WriteString(`"/>`)
}

// Path is a filled path in d-attribute micro-syntax.
type Path struct {
	D    string
	Fill string
}

func (p *Path) writeSVG(b *strings.Builder) {
	b.WriteString(`<path d="`)
	b.WriteString(p.D)
	b.WriteString(`" fill="`)
	b.WriteString(p.Fill)
	b.WriteString(`"/>`)
}

// Image embeds an image by href, usually a data URI.
type Image struct {
	X, Y, W, H float64
	Href       string
}

func (i *Image) writeSVG(b *strings.Builder) {
	b.WriteString(`<image x="`)
	b.WriteString(fnum(i.X))
	b.WriteString(`" y="`)
	b.WriteString(fnum(i.Y))
	b.WriteString(`" width="`)
	b.WriteString(fnum(i.W))
	b.WriteString(`" height="`)
	b.WriteString(fnum(i.H))
	b.WriteString(`" href="`)
	b.WriteString(i.Href)
	b.WriteString(`"/>`)
}

// Group nests primitives under one shared fill.
type Group struct {
	Fill  string
	Prims []Primitive
}

func (g *Group) writeSVG(b *strings.Builder) {
	b.WriteString(`<g fill="`)
	b.WriteString(g.Fill)
	b.WriteString(`">`)
	for _, p := range g.Prims {
		p.writeSVG(b)
	}
	b.WriteString(`</g>`)
}

// Document is an ordered list of primitives over a fixed viewbox. The
// builder appends primitives in paint order; serialization happens once
// at the end instead of concatenating markup along the way.
type Document struct {
	ViewW float64
	ViewH float64
	prims []Primitive
}

// NewDocument creates an empty document with the given viewbox size.
func NewDocument(w, h float64) *Document {
	return &Document{ViewW: w, ViewH: h}
}

// Append adds primitives in paint order.
func (d *Document) Append(prims ...Primitive) {
	d.prims = append(d.prims, prims...)
}

// Len returns the number of appended primitives.
func (d *Document) Len() int {
	return len(d.prims)
}

// Render serializes the document to SVG text.
func (d *Document) Render(opts SVGOptions) string {
	var b strings.Builder
	if opts.IncludeDeclaration {
		b.WriteString(XMLDeclaration)
	}

	b.WriteString(`<svg xmlns="`)
	b.WriteString(svgNamespace)
	b.WriteString(`"`)
	if opts.PixelWidth > 0 {
		px := strconv.Itoa(opts.PixelWidth)
		b.WriteString(` width="`)
		b.WriteString(px)
		b.WriteString(`" height="`)
		b.WriteString(px)
		b.WriteString(`"`)
	}
	b.WriteString(` viewBox="0 0 `)
	b.WriteString(fnum(d.ViewW))
	b.WriteString(` `)
	b.WriteString(fnum(d.ViewH))
	b.WriteString(`" shape-rendering="crispEdges">`)

	for _, p := range d.prims {
		p.writeSVG(&b)
	}

	b.WriteString(`</svg>`)
	return b.String()
}

// String renders with default options.
func (d *Document) String() string {
	return d.Render(SVGOptions{})
}
