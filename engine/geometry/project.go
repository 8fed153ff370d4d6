package geometry

import (
	"github.com/chewxy/math32"
)

// RotatePlane rotates every vertex in the plane spanned by two axes. Rotation
// in coordinate planes is how higher-dimensional polytopes are animated; a 4D
// rotation in the (0,3) plane produces the classic tesseract tumble.
//
// Parameters:
//   - vertices: the vertex set, mutated in place
//   - axisA: the first axis of the rotation plane
//   - axisB: the second axis of the rotation plane
//   - angle: the rotation angle in radians
func RotatePlane(vertices [][]float32, axisA, axisB int, angle float32) {
	if len(vertices) == 0 {
		return
	}
	dim := len(vertices[0])
	if axisA < 0 || axisB < 0 || axisA >= dim || axisB >= dim || axisA == axisB {
		return
	}
	sin, cos := math32.Sincos(angle)
	for _, v := range vertices {
		a, b := v[axisA], v[axisB]
		v[axisA] = a*cos - b*sin
		v[axisB] = a*sin + b*cos
	}
}

// ProjectTo3D collapses n-dimensional vertices to 3D by successive
// perspective divides from the highest dimension down: each extra coordinate
// w scales the remaining ones by 1/(distance - w), so points further along w
// shrink toward the origin. Vertices already at 3 or fewer dimensions are
// padded with zeros.
//
// Parameters:
//   - vertices: the n-dimensional vertex set
//   - distance: the projection camera distance along each collapsed axis;
//     must exceed the vertex extent to avoid a divide through zero
//
// Returns:
//   - [][3]float32: one 3D position per input vertex
func ProjectTo3D(vertices [][]float32, distance float32) [][3]float32 {
	out := make([][3]float32, len(vertices))
	scratch := make([]float32, 0, 8)

	for idx, v := range vertices {
		scratch = append(scratch[:0], v...)
		for len(scratch) > 3 {
			w := scratch[len(scratch)-1]
			scratch = scratch[:len(scratch)-1]
			denom := distance - w
			if denom < 1e-4 {
				denom = 1e-4
			}
			s := distance / denom
			for i := range scratch {
				scratch[i] *= s
			}
		}
		var p [3]float32
		copy(p[:], scratch)
		out[idx] = p
	}
	return out
}
