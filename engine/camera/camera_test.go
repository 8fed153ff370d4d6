package camera

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestCameraDefaults(t *testing.T) {
	c := NewCamera()
	if c.Fov() <= 0 || c.Aspect() <= 0 {
		t.Fatal("defaults should be positive")
	}
	x, y, z := c.Position()
	dist := math32.Sqrt(x*x + y*y + z*z)
	if math32.Abs(dist-6) > 1e-4 {
		t.Errorf("default orbit distance = %v, want 6", dist)
	}
}

func TestCameraOrbitAndZoom(t *testing.T) {
	c := NewCamera(WithOrbit(5, 0, 0))
	x0, _, z0 := c.Position()
	if math32.Abs(x0) > 1e-5 || math32.Abs(z0-5) > 1e-5 {
		t.Fatalf("initial position = (%v, _, %v), want (0, _, 5)", x0, z0)
	}

	c.Orbit(math32.Pi/2, 0)
	x1, _, z1 := c.Position()
	if math32.Abs(x1-5) > 1e-4 || math32.Abs(z1) > 1e-4 {
		t.Errorf("quarter orbit position = (%v, _, %v), want (5, _, 0)", x1, z1)
	}

	// Pitch clamps short of the poles.
	c.Orbit(0, 10)
	_, y, _ := c.Position()
	if y >= 5 {
		t.Errorf("pitch should clamp below the pole, y = %v", y)
	}

	// Zoom clamps at the near plane.
	c.Zoom(-100)
	x, yy, z := c.Position()
	if math32.Sqrt(x*x+yy*yy+z*z) < 0.1 {
		t.Error("zoom should not pass through the origin")
	}
}

func TestCameraMatricesUpdate(t *testing.T) {
	c := NewCamera(WithAspect(1))
	before := c.ViewProjectionMatrix()

	c.SetAspect(2)
	afterAspect := c.ViewProjectionMatrix()
	if before == afterAspect {
		t.Error("aspect change should rebuild the matrices")
	}

	c.Orbit(0.5, 0.1)
	afterOrbit := c.ViewProjectionMatrix()
	if afterAspect == afterOrbit {
		t.Error("orbit should rebuild the matrices")
	}

	if c.ViewMatrix() == c.ProjectionMatrix() {
		t.Error("view and projection should differ")
	}
}
