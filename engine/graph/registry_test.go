package graph

import (
	"testing"

	"github.com/lumen3d/lumen-go/common"
	"github.com/lumen3d/lumen-go/engine/renderer"
)

func newTestRegistry(t *testing.T) *registryImpl {
	t.Helper()
	device := renderer.NewHeadlessDevice(8, 8)
	t.Cleanup(device.Release)
	reg := NewRegistry(device).(*registryImpl)
	reg.viewport = common.Size{Width: 8, Height: 8}
	return reg
}

func TestRegistryAttachmentResolution(t *testing.T) {
	reg := newTestRegistry(t)
	mustAdd(t, reg.AddResource(NewResource("gbuffer", WithAttachments(3), WithDepth())))
	mustAdd(t, reg.AddResource(NewResource("plain")))
	if err := reg.allocateAll(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		id      string
		sel     AttachmentSelector
		wantErr bool
	}{
		{"mrt attachment 0", "gbuffer", 0, false},
		{"mrt attachment 2", "gbuffer", 2, false},
		{"mrt attachment out of range", "gbuffer", 3, true},
		{"mrt depth", "gbuffer", AttachmentDepth, false},
		{"plain color", "plain", AttachmentColor, false},
		{"plain depth absent", "plain", AttachmentDepth, true},
		{"previous on non ping-pong", "plain", AttachmentPrevious, true},
		{"unknown id", "nope", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex, err := reg.Texture(tt.id, tt.sel)
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if tex == nil {
				t.Fatal("resolved texture is nil")
			}
		})
	}

	// MRT attachments are distinct physical textures.
	a0, _ := reg.Texture("gbuffer", 0)
	a1, _ := reg.Texture("gbuffer", 1)
	if a0 == a1 {
		t.Error("MRT attachments must be separate textures")
	}
	depth, _ := reg.Texture("gbuffer", AttachmentDepth)
	if depth.Format() != renderer.FormatDepth32Float {
		t.Errorf("depth format = %v", depth.Format())
	}
}

func TestRegistryPingPongHalves(t *testing.T) {
	reg := newTestRegistry(t)
	mustAdd(t, reg.AddResource(NewResource("pp", WithPingPong())))
	if err := reg.allocateAll(); err != nil {
		t.Fatal(err)
	}

	r, _ := reg.Resource("pp")
	read, write := r.ReadTarget(), r.WriteTarget()
	if read == nil || write == nil || read == write {
		t.Fatal("ping-pong halves must be two distinct textures")
	}

	r.Swap()
	if r.WriteTarget() != read || r.ReadTarget() != write {
		t.Fatal("swap must exchange the halves")
	}
	r.Swap()
	if r.ReadTarget() != read || r.WriteTarget() != write {
		t.Fatal("two swaps must restore the original roles")
	}
}

func TestRegistryFractionalSizing(t *testing.T) {
	reg := newTestRegistry(t)
	reg.viewport = common.Size{Width: 100, Height: 50}
	mustAdd(t, reg.AddResource(NewResource("quarter", WithScale(0.25))))
	mustAdd(t, reg.AddResource(NewResource("tiny", WithScale(0.001))))
	if err := reg.allocateAll(); err != nil {
		t.Fatal(err)
	}

	dims := reg.Dimensions()
	if dims["quarter"] != (common.Size{Width: 25, Height: 12}) {
		t.Errorf("quarter = %v", dims["quarter"])
	}
	// Fractional sizes clamp to at least one pixel.
	if dims["tiny"] != (common.Size{Width: 1, Height: 1}) {
		t.Errorf("tiny = %v", dims["tiny"])
	}
}

func TestRegistryDisposeIdempotent(t *testing.T) {
	reg := newTestRegistry(t)
	mustAdd(t, reg.AddResource(NewResource("a", WithDepth())))
	if err := reg.allocateAll(); err != nil {
		t.Fatal(err)
	}

	reg.Dispose()
	reg.Dispose()

	if _, err := reg.Texture("a", AttachmentColor); err == nil {
		t.Error("disposed resource should not resolve")
	}
	if dims := reg.Dimensions(); len(dims) != 0 {
		t.Errorf("dims after dispose = %v", dims)
	}
}
