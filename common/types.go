// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// Size holds integer pixel dimensions for a viewport, texture, or render target.
type Size struct {
	// Width is the horizontal extent in pixels.
	Width int
	// Height is the vertical extent in pixels.
	Height int
}

// IsZero reports whether either dimension is zero or negative, meaning the size
// cannot back a physical texture allocation.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Scaled returns the size multiplied by scale, with each dimension clamped to a
// minimum of 1 pixel so fractional-resolution buffers never collapse to zero.
//
// Parameters:
//   - scale: the multiplier to apply to both dimensions (e.g. 0.5 for half resolution)
//
// Returns:
//   - Size: the scaled size, each dimension at least 1
func (s Size) Scaled(scale float32) Size {
	w := int(float32(s.Width)*scale + 0.5)
	h := int(float32(s.Height)*scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return Size{Width: w, Height: h}
}
