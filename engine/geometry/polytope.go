// Package geometry generates the parametric polytope wireframes the scene
// renders: regular n-dimensional solids as vertex and edge sets, plus the
// projection and rotation helpers that bring them down to renderable 3D.
package geometry

import (
	"fmt"

	"github.com/chewxy/math32"
)

// PolytopeKind identifies one family of regular polytopes.
type PolytopeKind string

const (
	// KindHypercube is the n-dimensional cube (2^n vertices).
	KindHypercube PolytopeKind = "hypercube"

	// KindSimplex is the n-dimensional simplex (n+1 vertices).
	KindSimplex PolytopeKind = "simplex"

	// KindOrthoplex is the n-dimensional cross-polytope (2n vertices).
	KindOrthoplex PolytopeKind = "orthoplex"
)

// Edge connects two vertices by index.
type Edge [2]int

// Polytope is a generated wireframe: n-dimensional vertices and the edges
// connecting them.
type Polytope struct {
	// Kind is the polytope family this wireframe was generated from.
	Kind PolytopeKind

	// Dimension is the dimensionality of each vertex.
	Dimension int

	// Vertices holds one coordinate slice of length Dimension per vertex.
	Vertices [][]float32

	// Edges holds vertex index pairs.
	Edges []Edge
}

// Generate produces a centered, scaled polytope of the given kind and
// dimension.
//
// Parameters:
//   - kind: the polytope family
//   - dimension: the dimensionality, at least 2
//   - scale: the half-extent the result is normalized to
//
// Returns:
//   - *Polytope: the generated wireframe
//   - error: an error for unknown kinds or dimensions below 2
func Generate(kind PolytopeKind, dimension int, scale float32) (*Polytope, error) {
	if dimension < 2 {
		return nil, fmt.Errorf("geometry: dimension %d below minimum of 2", dimension)
	}

	var p *Polytope
	switch kind {
	case KindHypercube:
		p = generateHypercube(dimension)
	case KindSimplex:
		p = generateSimplex(dimension)
	case KindOrthoplex:
		p = generateOrthoplex(dimension)
	default:
		return nil, fmt.Errorf("geometry: unknown polytope kind %q", kind)
	}

	centerAndScale(p.Vertices, scale)
	return p, nil
}

// generateHypercube builds the n-cube: one vertex per sign combination, edges
// between vertices differing in exactly one coordinate.
func generateHypercube(dim int) *Polytope {
	count := 1 << dim
	vertices := make([][]float32, count)
	for i := 0; i < count; i++ {
		v := make([]float32, dim)
		for j := 0; j < dim; j++ {
			if i&(1<<j) != 0 {
				v[j] = 1
			} else {
				v[j] = -1
			}
		}
		vertices[i] = v
	}

	var edges []Edge
	for i := 0; i < count; i++ {
		for j := i + 1; j < count; j++ {
			diff := i ^ j
			if diff&(diff-1) == 0 {
				edges = append(edges, Edge{i, j})
			}
		}
	}
	return &Polytope{Kind: KindHypercube, Dimension: dim, Vertices: vertices, Edges: edges}
}

// generateOrthoplex builds the cross-polytope: a unit vertex on each axis
// direction, every pair connected except axis opposites.
func generateOrthoplex(dim int) *Polytope {
	vertices := make([][]float32, 0, 2*dim)
	for axis := 0; axis < dim; axis++ {
		pos := make([]float32, dim)
		pos[axis] = 1
		neg := make([]float32, dim)
		neg[axis] = -1
		vertices = append(vertices, pos, neg)
	}

	var edges []Edge
	for i := range vertices {
		for j := i + 1; j < len(vertices); j++ {
			if i/2 != j/2 {
				edges = append(edges, Edge{i, j})
			}
		}
	}
	return &Polytope{Kind: KindOrthoplex, Dimension: dim, Vertices: vertices, Edges: edges}
}

// generateSimplex builds the regular n-simplex with every vertex pair
// connected.
func generateSimplex(dim int) *Polytope {
	vertices := simplexVertices(dim)

	var edges []Edge
	for i := 0; i <= dim; i++ {
		for j := i + 1; j <= dim; j++ {
			edges = append(edges, Edge{i, j})
		}
	}
	return &Polytope{Kind: KindSimplex, Dimension: dim, Vertices: vertices, Edges: edges}
}

// simplexVertices places n+1 vertices at circumradius 1: the first on the
// leading axis, the rest recessed to -1/n on it with a scaled (n-1)-simplex
// in the remaining coordinates.
func simplexVertices(dim int) [][]float32 {
	if dim == 1 {
		return [][]float32{{1}, {-1}}
	}
	sub := simplexVertices(dim - 1)
	r := math32.Sqrt(1 - 1/float32(dim*dim))

	vertices := make([][]float32, 0, dim+1)
	first := make([]float32, dim)
	first[0] = 1
	vertices = append(vertices, first)

	for _, s := range sub {
		v := make([]float32, dim)
		v[0] = -1 / float32(dim)
		for i, c := range s {
			v[i+1] = c * r
		}
		vertices = append(vertices, v)
	}
	return vertices
}

// centerAndScale translates the vertex set to its centroid and normalizes the
// maximum coordinate extent to the target scale.
func centerAndScale(vertices [][]float32, scale float32) {
	if len(vertices) == 0 {
		return
	}
	dim := len(vertices[0])

	centroid := make([]float32, dim)
	for _, v := range vertices {
		for i, c := range v {
			centroid[i] += c
		}
	}
	for i := range centroid {
		centroid[i] /= float32(len(vertices))
	}

	var maxExtent float32
	for _, v := range vertices {
		for i := range v {
			v[i] -= centroid[i]
			if a := math32.Abs(v[i]); a > maxExtent {
				maxExtent = a
			}
		}
	}

	if maxExtent > 1e-9 {
		s := scale / maxExtent
		for _, v := range vertices {
			for i := range v {
				v[i] *= s
			}
		}
	}
}
