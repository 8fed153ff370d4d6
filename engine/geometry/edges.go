package geometry

import (
	"container/heap"

	"github.com/chewxy/math32"
)

const zeroDistanceSq = 1e-9

// distanceSquared computes squared Euclidean distance between two
// n-dimensional points.
func distanceSquared(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// ShortEdges connects vertex pairs at the minimum nonzero distance, within a
// tolerance factor. This recovers the natural connectivity of mathematically
// structured point sets (root systems, uniform polytopes) without knowing
// their combinatorics.
//
// Parameters:
//   - vertices: the point set, one coordinate slice per vertex
//   - epsilonFactor: tolerance on the minimum distance (e.g. 0.01)
//
// Returns:
//   - []Edge: the edges found, empty for fewer than two vertices
func ShortEdges(vertices [][]float32, epsilonFactor float32) []Edge {
	if len(vertices) < 2 {
		return nil
	}

	minDistSq := float32(math32.MaxFloat32)
	found := false
	for i := range vertices {
		for j := i + 1; j < len(vertices); j++ {
			d2 := distanceSquared(vertices[i], vertices[j])
			if d2 > zeroDistanceSq && d2 < minDistSq {
				minDistSq = d2
				found = true
			}
		}
	}
	if !found {
		return nil
	}

	threshold := math32.Sqrt(minDistSq) * (1 + epsilonFactor)
	thresholdSq := threshold * threshold

	var edges []Edge
	for i := range vertices {
		for j := i + 1; j < len(vertices); j++ {
			if distanceSquared(vertices[i], vertices[j]) <= thresholdSq {
				edges = append(edges, Edge{i, j})
			}
		}
	}
	return edges
}

// distEntry pairs a candidate neighbor with its squared distance for the
// bounded max-heap in KNNEdges.
type distEntry struct {
	idx    int
	distSq float32
}

// maxHeap keeps the current k nearest candidates with the farthest on top.
type maxHeap []distEntry

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].distSq > h[j].distSq }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x any)         { *h = append(*h, x.(distEntry)) }
func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// KNNEdges connects each point to its k nearest neighbors, deduplicating
// shared edges. Used to wireframe unstructured point clouds.
//
// Parameters:
//   - points: the point set, one coordinate slice per point
//   - k: the number of neighbors per point; capped at len(points)-1
//
// Returns:
//   - []Edge: the deduplicated edges in deterministic order
func KNNEdges(points [][]float32, k int) []Edge {
	n := len(points)
	if n < 2 || k < 1 {
		return nil
	}
	if k > n-1 {
		k = n - 1
	}

	seen := make(map[Edge]bool)
	var edges []Edge
	h := make(maxHeap, 0, k+1)

	for i := 0; i < n; i++ {
		h = h[:0]
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			d2 := distanceSquared(points[i], points[j])
			if len(h) < k {
				heap.Push(&h, distEntry{idx: j, distSq: d2})
			} else if d2 < h[0].distSq {
				heap.Pop(&h)
				heap.Push(&h, distEntry{idx: j, distSq: d2})
			}
		}
		for _, entry := range h {
			e := Edge{i, entry.idx}
			if e[0] > e[1] {
				e[0], e[1] = e[1], e[0]
			}
			if !seen[e] {
				seen[e] = true
				edges = append(edges, e)
			}
		}
	}
	return edges
}
