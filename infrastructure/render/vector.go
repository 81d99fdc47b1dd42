package render

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"
)

const (
	svgMediaType = "image/svg+xml"

	svgDataURIPrefix       = "data:" + svgMediaType + ";charset=utf-8,"
	svgBase64DataURIPrefix = "data:" + svgMediaType + ";base64,"
)

var (
	xmlCommentPattern  = regexp.MustCompile(`(?s)<!--.*?-->`)
	interTagWhitespace = regexp.MustCompile(`>\s+<`)
)

// OptimizeSVG strips XML comments and collapses whitespace between
// tags. Applying it twice yields the same output as once.
func OptimizeSVG(svg string) string {
	out := xmlCommentPattern.ReplaceAllString(svg, "")
	out = interTagWhitespace.ReplaceAllString(out, "><")
	return strings.TrimSpace(out)
}

// SVGBlob wraps a finished SVG string as downloadable bytes.
func SVGBlob(svg string) []byte {
	return []byte(svg)
}

// SVGDataURI encodes an SVG string as a percent-encoded data URI.
func SVGDataURI(svg string) string {
	// QueryEscape then restore spaces: data URIs use %20, not '+'.
	escaped := strings.ReplaceAll(url.QueryEscape(svg), "+", "%20")
	return svgDataURIPrefix + escaped
}

// SVGBase64DataURI encodes an SVG string as a base64 data URI.
func SVGBase64DataURI(svg string) string {
	return svgBase64DataURIPrefix + base64.StdEncoding.EncodeToString([]byte(svg))
}
