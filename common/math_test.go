package common

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestSizeScaled(t *testing.T) {
	tests := []struct {
		name  string
		size  Size
		scale float32
		want  Size
	}{
		{"half", Size{Width: 100, Height: 50}, 0.5, Size{Width: 50, Height: 25}},
		{"quarter rounds", Size{Width: 100, Height: 50}, 0.25, Size{Width: 25, Height: 13}},
		{"clamps to one pixel", Size{Width: 4, Height: 4}, 0.1, Size{Width: 1, Height: 1}},
		{"unit", Size{Width: 7, Height: 9}, 1, Size{Width: 7, Height: 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.size.Scaled(tt.scale); got != tt.want {
				t.Errorf("Scaled(%v) = %v, want %v", tt.scale, got, tt.want)
			}
		})
	}
}

func TestSizeIsZero(t *testing.T) {
	if (Size{Width: 1, Height: 1}).IsZero() {
		t.Error("1x1 reported zero")
	}
	if !(Size{}).IsZero() {
		t.Error("empty size not reported zero")
	}
	if !(Size{Width: 10}).IsZero() {
		t.Error("zero height not reported zero")
	}
}

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	for i := range m {
		m[i] = float32(i + 1)
	}
	Mul4(out[:], id[:], m[:])
	if out != m {
		t.Errorf("I * M = %v, want %v", out, m)
	}
	Mul4(out[:], m[:], id[:])
	if out != m {
		t.Errorf("M * I = %v, want %v", out, m)
	}
}

func TestLookAtTransformsOrigin(t *testing.T) {
	var view [16]float32
	LookAt(view[:], 0, 0, 5, 0, 0, 0, 0, 1, 0)

	// The origin should land 5 units down the view-space -Z axis.
	x := view[12]
	y := view[13]
	z := view[14]
	if math32.Abs(x) > 1e-5 || math32.Abs(y) > 1e-5 || math32.Abs(z+5) > 1e-5 {
		t.Errorf("origin in view space = (%v, %v, %v), want (0, 0, -5)", x, y, z)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	var proj [16]float32
	near, far := float32(0.1), float32(100.0)
	Perspective(proj[:], math32.Pi/3, 16.0/9.0, near, far)

	if proj[11] != -1 {
		t.Fatalf("proj[11] = %v, want -1", proj[11])
	}

	// A point on the near plane maps to clip depth 0, the far plane to 1
	// (WebGPU depth convention).
	depthAt := func(z float32) float32 {
		clipZ := proj[10]*(-z) + proj[14]
		return clipZ / z
	}
	if d := depthAt(near); math32.Abs(d) > 1e-5 {
		t.Errorf("near plane depth = %v, want 0", d)
	}
	if d := depthAt(far); math32.Abs(d-1) > 1e-4 {
		t.Errorf("far plane depth = %v, want 1", d)
	}
}

func TestSliceToBytes(t *testing.T) {
	if SliceToBytes[float32](nil) != nil {
		t.Error("empty slice should produce nil")
	}
	b := SliceToBytes([]float32{1})
	if len(b) != 4 {
		t.Fatalf("len = %d, want 4", len(b))
	}
	// 1.0f is 0x3F800000 little-endian.
	if b[0] != 0 || b[1] != 0 || b[2] != 0x80 || b[3] != 0x3F {
		t.Errorf("bytes = %v, want [0 0 128 63]", b)
	}
}
