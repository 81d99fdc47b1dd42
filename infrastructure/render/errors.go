package render

import "errors"

// Sentinel errors for the render pipeline. Exporters wrap these with
// detail; callers branch with errors.Is.
var (
	ErrEmptyContent     = errors.New("content is empty")
	ErrCapacityExceeded = errors.New("content exceeds capacity for error correction level")
	ErrInvalidDimension = errors.New("dimension out of bounds")
	ErrRender           = errors.New("svg render failed")
	ErrUnknownPreset    = errors.New("unknown pdf preset")
	ErrUnknownShape     = errors.New("unknown shape")
	ErrUnknownLevel     = errors.New("unknown error correction level")
)
