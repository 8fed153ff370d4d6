package scene

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options that are applied directly to the scene instance.
type SceneBuilderOption func(*sceneImpl)

// WithName sets the scene's identifier.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.name = name
	}
}

// WithWorkers overrides the worker count of the animation pool. Defaults to
// the CPU count minus one.
//
// Parameters:
//   - n: the number of pool workers, minimum 1
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithWorkers(n int) SceneBuilderOption {
	return func(s *sceneImpl) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// ObjectOption is a functional option for configuring an Object at Add time.
type ObjectOption func(*Object)

// WithObjectScale sets the half-extent the wireframe is normalized to.
//
// Parameters:
//   - scale: the target half-extent
//
// Returns:
//   - ObjectOption: option function to apply
func WithObjectScale(scale float32) ObjectOption {
	return func(o *Object) {
		o.Scale = scale
	}
}

// WithSpin sets the rotation planes and angular velocity.
//
// Parameters:
//   - speed: angular velocity in radians per second
//   - planes: the coordinate planes to rotate in
//
// Returns:
//   - ObjectOption: option function to apply
func WithSpin(speed float32, planes ...[2]int) ObjectOption {
	return func(o *Object) {
		o.SpinSpeed = speed
		if len(planes) > 0 {
			o.SpinPlanes = planes
		}
	}
}
