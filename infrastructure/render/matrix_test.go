package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseECLevel(t *testing.T) {
	// Act & Assert
	for _, s := range []string{"L", "M", "Q", "H"} {
		level, err := ParseECLevel(s)
		assert.NoError(t, err)
		assert.Equal(t, ECLevel(s), level)
	}

	_, err := ParseECLevel("X")
	assert.ErrorIs(t, err, ErrUnknownLevel)

	_, err = ParseECLevel("m")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestNewMatrix_EmptyContent(t *testing.T) {
	// Act
	m, err := NewMatrix("", ECMedium)

	// Assert
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Nil(t, m)
}

func TestNewMatrix_UnknownLevel(t *testing.T) {
	// Act
	m, err := NewMatrix("https://example.com", ECLevel("Z"))

	// Assert
	assert.ErrorIs(t, err, ErrUnknownLevel)
	assert.Nil(t, m)
}

func TestNewMatrix_CapacityExceeded(t *testing.T) {
	// Arrange: far beyond any QR symbol capacity
	content := strings.Repeat("A", 8000)

	// Act
	m, err := NewMatrix(content, ECHigh)

	// Assert
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Nil(t, m)
}

func TestNewMatrix_SmallContentIsVersionOne(t *testing.T) {
	// Act
	m, err := NewMatrix("HELLO", ECMedium)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 21, m.Size())
	assert.Equal(t, 1, m.Version())
}

func TestNewMatrix_FinderCornerIsDark(t *testing.T) {
	// Arrange
	m, err := NewMatrix("https://example.com/r/abc123", ECMedium)
	assert.NoError(t, err)

	size := m.Size()

	// Assert: every QR has dark finder corners and light separators
	assert.True(t, m.Dark(0, 0))
	assert.True(t, m.Dark(0, size-1))
	assert.True(t, m.Dark(size-1, 0))
	assert.False(t, m.Dark(0, 7))
	assert.False(t, m.Dark(7, 0))
}

func TestMatrixDark_OutOfRangeIsLight(t *testing.T) {
	// Arrange
	m, err := NewMatrix("HELLO", ECMedium)
	assert.NoError(t, err)

	// Assert
	assert.False(t, m.Dark(-1, 0))
	assert.False(t, m.Dark(0, -1))
	assert.False(t, m.Dark(m.Size(), 0))
	assert.False(t, m.Dark(0, m.Size()))
}

func TestNewMatrix_HigherRecoveryNeverShrinksSymbol(t *testing.T) {
	// Arrange
	content := "https://example.com/r/abc123"

	// Act
	low, errLow := NewMatrix(content, ECLow)
	high, errHigh := NewMatrix(content, ECHigh)

	// Assert
	assert.NoError(t, errLow)
	assert.NoError(t, errHigh)
	assert.GreaterOrEqual(t, high.Size(), low.Size())
}
