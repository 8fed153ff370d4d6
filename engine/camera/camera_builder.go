package camera

// CameraBuilderOption is a functional option for configuring a Camera.
// Use the With* functions to create options that are applied directly to the camera instance.
type CameraBuilderOption func(*cameraImpl)

// WithFov sets the vertical field of view.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the initial aspect ratio.
//
// Parameters:
//   - aspect: width divided by height
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithClipPlanes sets the near and far clipping distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithOrbit sets the initial orbit position.
//
// Parameters:
//   - distance: distance from the origin
//   - yaw: horizontal angle in radians
//   - pitch: vertical angle in radians
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithOrbit(distance, yaw, pitch float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.distance = distance
		c.yaw = yaw
		c.pitch = pitch
	}
}
