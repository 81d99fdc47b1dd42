package qrlink

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/prasetyowira/qrlink/infrastructure/render"
)

// Style holds the visual options for a code's rendered QR image. All
// fields are plain strings and numbers so the struct round-trips
// through JSON and the database unchanged.
type Style struct {
	Foreground  string  `json:"foreground"`
	Background  string  `json:"background"`
	Level       string  `json:"level"`
	QuietZone   int     `json:"quiet_zone"`
	ModuleShape string  `json:"module_shape"`
	EyeShape    string  `json:"eye_shape"`
	LogoRatio   float64 `json:"logo_ratio"`
}

// Quiet zone bounds accepted from callers. Below two modules most
// phone scanners start missing the code on textured backgrounds.
const (
	QuietZoneMin = 2
	QuietZoneMax = 10
)

// LogoMaxBytes caps the logo data URI text accepted from callers.
const LogoMaxBytes = 512 << 10

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// DefaultStyle returns the style applied when a code is created
// without one.
func DefaultStyle() Style {
	return Style{
		Foreground:  "#000000",
		Background:  "#FFFFFF",
		Level:       "M",
		QuietZone:   4,
		ModuleShape: string(render.ModuleSquare),
		EyeShape:    string(render.EyeSquare),
		LogoRatio:   0,
	}
}

// Validate checks every knob and reports the first violation. All
// violations wrap ErrInvalidStyle so callers can branch with
// errors.Is.
func (s Style) Validate() error {
	if !hexColorPattern.MatchString(s.Foreground) {
		return fmt.Errorf("%w: foreground %q is not a #RRGGBB color", ErrInvalidStyle, s.Foreground)
	}
	if !hexColorPattern.MatchString(s.Background) {
		return fmt.Errorf("%w: background %q is not a #RRGGBB color", ErrInvalidStyle, s.Background)
	}
	if _, err := render.ParseECLevel(s.Level); err != nil {
		return fmt.Errorf("%w: level %q is not one of L, M, Q, H", ErrInvalidStyle, s.Level)
	}
	if s.QuietZone < QuietZoneMin || s.QuietZone > QuietZoneMax {
		return fmt.Errorf("%w: quiet zone %d is outside %d..%d", ErrInvalidStyle, s.QuietZone, QuietZoneMin, QuietZoneMax)
	}
	if _, err := render.ParseModuleShape(s.ModuleShape); err != nil {
		return fmt.Errorf("%w: module shape %q is unknown", ErrInvalidStyle, s.ModuleShape)
	}
	if _, err := render.ParseEyeShape(s.EyeShape); err != nil {
		return fmt.Errorf("%w: eye shape %q is unknown", ErrInvalidStyle, s.EyeShape)
	}
	if s.LogoRatio != 0 && (s.LogoRatio < render.LogoRatioMin || s.LogoRatio > render.LogoRatioMax) {
		return fmt.Errorf("%w: logo ratio %.2f is outside %.2f..%.2f", ErrInvalidStyle, s.LogoRatio, render.LogoRatioMin, render.LogoRatioMax)
	}
	return nil
}

// Hash fingerprints the style for artifact freshness checks. The logo
// participates because a logo swap changes the rendered image even
// when every other knob is unchanged.
func (s Style) Hash(logoDataURI string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%d|%s|%s|%.2f|",
		strings.ToLower(s.Foreground),
		strings.ToLower(s.Background),
		s.Level,
		s.QuietZone,
		s.ModuleShape,
		s.EyeShape,
		s.LogoRatio,
	)
	if logoDataURI != "" {
		logoSum := sha256.Sum256([]byte(logoDataURI))
		h.Write(logoSum[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// RenderStyle converts the stored style into the renderer's typed
// options. Validate must have passed first; parse errors here mean a
// corrupted row.
func (s Style) RenderStyle() (render.Style, error) {
	level, err := render.ParseECLevel(s.Level)
	if err != nil {
		return render.Style{}, err
	}
	module, err := render.ParseModuleShape(s.ModuleShape)
	if err != nil {
		return render.Style{}, err
	}
	eye, err := render.ParseEyeShape(s.EyeShape)
	if err != nil {
		return render.Style{}, err
	}
	return render.Style{
		Foreground:  s.Foreground,
		Background:  s.Background,
		Level:       level,
		QuietZone:   s.QuietZone,
		ModuleShape: module,
		EyeShape:    eye,
		LogoRatio:   s.LogoRatio,
	}, nil
}

// ValidateLogoDataURI checks the shape and size of an uploaded logo.
// An empty string is valid: it means no logo.
func ValidateLogoDataURI(uri string) error {
	if uri == "" {
		return nil
	}
	if len(uri) > LogoMaxBytes {
		return fmt.Errorf("%w: logo data URI exceeds %d bytes", ErrInvalidStyle, LogoMaxBytes)
	}
	if !strings.HasPrefix(uri, "data:image/") {
		return fmt.Errorf("%w: logo must be an image data URI", ErrInvalidStyle)
	}
	if !strings.Contains(uri, ";base64,") {
		return fmt.Errorf("%w: logo data URI must be base64 encoded", ErrInvalidStyle)
	}
	return nil
}
