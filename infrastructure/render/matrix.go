package render

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// ECLevel selects QR error correction strength.
type ECLevel string

const (
	ECLow      ECLevel = "L" // ~7% recovery
	ECMedium   ECLevel = "M" // ~15% recovery
	ECQuartile ECLevel = "Q" // ~25% recovery
	ECHigh     ECLevel = "H" // ~30% recovery
)

// ParseECLevel maps a single-letter level to its enum value.
func ParseECLevel(s string) (ECLevel, error) {
	switch ECLevel(s) {
	case ECLow, ECMedium, ECQuartile, ECHigh:
		return ECLevel(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

func (l ECLevel) recovery() (qrcode.RecoveryLevel, error) {
	switch l {
	case ECLow:
		return qrcode.Low, nil
	case ECMedium:
		return qrcode.Medium, nil
	case ECQuartile:
		return qrcode.High, nil
	case ECHigh:
		return qrcode.Highest, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, string(l))
}

// Matrix is a read-only QR module grid.
type Matrix interface {
	// Size returns the number of modules per side.
	Size() int
	// Version returns the QR symbol version (1..40).
	Version() int
	// Dark reports whether the module at row, col is dark. Out-of-range
	// coordinates read as light.
	Dark(row, col int) bool
}

// bitMatrix backs Matrix with a flat arena filled once at construction
// and never written again.
type bitMatrix struct {
	size    int
	version int
	bits    []bool
}

// NewMatrix encodes content into a QR module grid at the given error
// correction level. Encoding never degrades silently: content that does
// not fit the symbol capacity at this level is an error.
func NewMatrix(content string, level ECLevel) (Matrix, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	recovery, err := level.recovery()
	if err != nil {
		return nil, err
	}

	code, err := qrcode.New(content, recovery)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapacityExceeded, err)
	}
	// The bitmap's own quiet zone is dropped; the builder places its own.
	code.DisableBorder = true

	grid := code.Bitmap()
	size := len(grid)
	m := &bitMatrix{
		size:    size,
		version: code.VersionNumber,
		bits:    make([]bool, size*size),
	}
	for row, cells := range grid {
		for col, dark := range cells {
			if dark {
				m.bits[row*size+col] = true
			}
		}
	}

	return m, nil
}

func (m *bitMatrix) Size() int    { return m.size }
func (m *bitMatrix) Version() int { return m.version }

func (m *bitMatrix) Dark(row, col int) bool {
	if row < 0 || col < 0 || row >= m.size || col >= m.size {
		return false
	}
	return m.bits[row*m.size+col]
}
