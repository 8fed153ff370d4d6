package scene

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/lumen3d/lumen-go/engine/geometry"
)

// Object is one polytope in the scene: its generation parameters, the
// wireframe they produced, and the animated 3D projection of it.
type Object struct {
	// ID is the scene-assigned identifier.
	ID uint64

	// Kind and Dimension are the generation parameters.
	Kind      geometry.PolytopeKind
	Dimension int

	// Scale is the half-extent the wireframe is normalized to.
	Scale float32

	// SpinPlanes lists the coordinate planes the object rotates in; SpinSpeed
	// is the shared angular velocity in radians per second.
	SpinPlanes [][2]int
	SpinSpeed  float32

	polytope  *geometry.Polytope
	projected [][3]float32
}

// Edges returns the wireframe's edge list.
//
// Returns:
//   - []geometry.Edge: vertex index pairs
func (o *Object) Edges() []geometry.Edge {
	return o.polytope.Edges
}

// Positions returns the current projected 3D vertex positions. The slice is
// replaced, not mutated, on every Advance, so a held reference stays coherent
// for the frame it was read in.
//
// Returns:
//   - [][3]float32: one position per vertex
func (o *Object) Positions() [][3]float32 {
	return o.projected
}

// advance rotates the object's wireframe and reprojects it. Runs on the
// scene's worker pool; touches only this object's state.
func (o *Object) advance(deltaTime float32) {
	angle := o.SpinSpeed * deltaTime
	for _, plane := range o.SpinPlanes {
		geometry.RotatePlane(o.polytope.Vertices, plane[0], plane[1], angle)
	}
	o.projected = geometry.ProjectTo3D(o.polytope.Vertices, projectionDistance)
}

// projectionDistance is the camera distance used when collapsing extra
// dimensions. Must exceed the normalized vertex extent.
const projectionDistance = 3.0

// Scene owns the polytope objects being rendered and the worker pool that
// animates them. Advance re-tessellates every object in parallel each frame;
// the graph's geometry pass reads the projected results. Thread-safe for
// concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Add generates a polytope and adds it to the scene.
	//
	// Parameters:
	//   - kind: the polytope family
	//   - dimension: the dimensionality, at least 2
	//   - opts: variadic list of ObjectOption functions configuring the object
	//
	// Returns:
	//   - uint64: the assigned object ID
	//   - error: an error if generation fails
	Add(kind geometry.PolytopeKind, dimension int, opts ...ObjectOption) (uint64, error)

	// Get retrieves an object by ID, or nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - *Object: the object or nil
	Get(id uint64) *Object

	// Remove removes an object by ID.
	//
	// Parameters:
	//   - id: the object's unique ID
	Remove(id uint64)

	// Count returns the number of objects in the scene.
	//
	// Returns:
	//   - int: the object count
	Count() int

	// Objects returns a snapshot of the current object list.
	//
	// Returns:
	//   - []*Object: the objects, in insertion order
	Objects() []*Object

	// Classification returns the dominant polytope kind currently in the
	// scene, for the store bridge's object-type snapshot. Empty when the
	// scene is empty.
	//
	// Returns:
	//   - string: the dominant kind
	Classification() string

	// Advance rotates and reprojects every object, distributing the work
	// across the scene's worker pool and blocking until all objects are done.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	Advance(deltaTime float32)

	// Clear removes all objects.
	Clear()
}

// sceneImpl is the implementation of the Scene interface.
type sceneImpl struct {
	mu *sync.Mutex

	name    string
	objects []*Object
	nextID  uint64

	// pool runs the parallel per-object animation work. Workers persist
	// across frames, avoiding per-frame goroutine spawn/teardown overhead.
	pool    worker.DynamicWorkerPool
	workers int
}

var _ Scene = &sceneImpl{}

// NewScene creates an empty scene.
//
// Parameters:
//   - options: variadic list of SceneBuilderOption functions to configure the scene
//
// Returns:
//   - Scene: the scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &sceneImpl{
		mu:      &sync.Mutex{},
		name:    "scene",
		nextID:  1,
		workers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(s)
	}

	// Queue size of 256 accommodates typical object counts with headroom.
	s.pool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)
	return s
}

func (s *sceneImpl) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *sceneImpl) Add(kind geometry.PolytopeKind, dimension int, opts ...ObjectOption) (uint64, error) {
	obj := &Object{
		Kind:      kind,
		Dimension: dimension,
		Scale:     1,
		SpinSpeed: 0.5,
	}
	if dimension >= 4 {
		obj.SpinPlanes = [][2]int{{0, 3}, {1, 2}}
	} else {
		obj.SpinPlanes = [][2]int{{0, 1}}
	}
	for _, opt := range opts {
		opt(obj)
	}

	p, err := geometry.Generate(kind, dimension, obj.Scale)
	if err != nil {
		return 0, fmt.Errorf("scene: adding object: %w", err)
	}
	obj.polytope = p
	obj.projected = geometry.ProjectTo3D(p.Vertices, projectionDistance)

	s.mu.Lock()
	defer s.mu.Unlock()
	obj.ID = s.nextID
	s.nextID++
	s.objects = append(s.objects, obj)
	return obj.ID, nil
}

func (s *sceneImpl) Get(id uint64) *Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, obj := range s.objects {
		if obj.ID == id {
			return obj
		}
	}
	return nil
}

func (s *sceneImpl) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, obj := range s.objects {
		if obj.ID == id {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return
		}
	}
}

func (s *sceneImpl) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *sceneImpl) Objects() []*Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Object, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *sceneImpl) Classification() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.objects) == 0 {
		return ""
	}
	counts := make(map[geometry.PolytopeKind]int)
	for _, obj := range s.objects {
		counts[obj.Kind]++
	}
	dominant := s.objects[0].Kind
	for _, obj := range s.objects {
		if counts[obj.Kind] > counts[dominant] {
			dominant = obj.Kind
		}
	}
	return string(dominant)
}

func (s *sceneImpl) Advance(deltaTime float32) {
	s.mu.Lock()
	objects := make([]*Object, len(s.objects))
	copy(objects, s.objects)
	s.mu.Unlock()

	// Per-object work is independent; a WaitGroup provides the per-frame
	// barrier since the pool's own Wait blocks until workers idle-exit,
	// which is unsuitable for frame-rate workloads.
	var wg sync.WaitGroup
	for i, obj := range objects {
		wg.Add(1)
		oCap := obj
		s.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				oCap.advance(deltaTime)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (s *sceneImpl) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = nil
}
