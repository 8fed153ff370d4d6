package camera

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/lumen3d/lumen-go/common"
)

// cameraImpl is the implementation of the Camera interface: an orbit camera
// circling the origin, where the polytope objects live.
type cameraImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	distance float32
	yaw      float32
	pitch    float32

	up [3]float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32
}

// Camera holds perspective settings and an orbit position around the origin,
// and derives view/projection matrices from them. Thread-safe.
type Camera interface {
	// Fov returns the field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// SetAspect updates the aspect ratio on a viewport resize.
	//
	// Parameters:
	//   - aspect: the new aspect ratio
	SetAspect(aspect float32)

	// Orbit rotates the camera around the origin.
	//
	// Parameters:
	//   - yawDelta: horizontal rotation in radians
	//   - pitchDelta: vertical rotation in radians, clamped short of the poles
	Orbit(yawDelta, pitchDelta float32)

	// Zoom moves the camera along its view ray.
	//
	// Parameters:
	//   - delta: distance change; positive moves away from the origin
	Zoom(delta float32)

	// Position returns the camera's world position.
	//
	// Returns:
	//   - x, y, z: the eye position
	Position() (x, y, z float32)

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns projection * view as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined matrix
	ViewProjectionMatrix() [16]float32
}

var _ Camera = &cameraImpl{}

// NewCamera creates an orbit camera with the given settings.
//
// Parameters:
//   - options: variadic list of CameraBuilderOption functions to configure the camera
//
// Returns:
//   - Camera: the camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		fov:      math32.Pi / 3,
		aspect:   16.0 / 9.0,
		near:     0.1,
		far:      100,
		distance: 6,
		pitch:    0.3,
		up:       [3]float32{0, 1, 0},
	}
	for _, option := range options {
		option(c)
	}
	c.rebuild()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect <= 0 {
		return
	}
	c.aspect = aspect
	c.rebuild()
}

// pitchLimit keeps the camera short of the poles so the up vector never
// degenerates.
const pitchLimit = math32.Pi/2 - 0.01

func (c *cameraImpl) Orbit(yawDelta, pitchDelta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw += yawDelta
	c.pitch += pitchDelta
	if c.pitch > pitchLimit {
		c.pitch = pitchLimit
	}
	if c.pitch < -pitchLimit {
		c.pitch = -pitchLimit
	}
	c.rebuild()
}

func (c *cameraImpl) Zoom(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.distance += delta
	if c.distance < c.near*2 {
		c.distance = c.near * 2
	}
	c.rebuild()
}

func (c *cameraImpl) Position() (float32, float32, float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye()
}

func (c *cameraImpl) eye() (float32, float32, float32) {
	sinYaw, cosYaw := math32.Sincos(c.yaw)
	sinPitch, cosPitch := math32.Sincos(c.pitch)
	return c.distance * cosPitch * sinYaw,
		c.distance * sinPitch,
		c.distance * cosPitch * cosYaw
}

// rebuild recomputes the matrices. Caller must hold c.mu.
func (c *cameraImpl) rebuild() {
	x, y, z := c.eye()
	common.LookAt(c.viewMatrix[:], x, y, z, 0, 0, 0, c.up[0], c.up[1], c.up[2])
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}
