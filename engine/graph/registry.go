package graph

import (
	"fmt"

	"github.com/lumen3d/lumen-go/common"
	"github.com/lumen3d/lumen-go/engine/renderer"
)

// Resource is a registered logical resource with its allocated physical
// textures. Handles stay valid across resizes; only the backing textures are
// replaced.
type Resource interface {
	// ID returns the resource's unique id.
	//
	// Returns:
	//   - string: the resource id
	ID() string

	// Kind returns the resource's physical shape.
	//
	// Returns:
	//   - ResourceKind: target, MRT, or ping-pong
	Kind() ResourceKind

	// Descriptor returns the descriptor the resource was registered with.
	//
	// Returns:
	//   - ResourceDescriptor: the immutable descriptor
	Descriptor() ResourceDescriptor

	// Size returns the resource's current physical size in pixels. Zero until
	// the resource is first allocated.
	//
	// Returns:
	//   - common.Size: the allocated size
	Size() common.Size

	// Texture resolves an attachment selector to a physical texture. For
	// ping-pong resources, AttachmentPrevious resolves to the read half and any
	// color selector to the write half.
	//
	// Parameters:
	//   - sel: the attachment selector to resolve
	//
	// Returns:
	//   - renderer.Texture: the resolved texture
	//   - error: an error if the selector is invalid for this resource's kind
	Texture(sel AttachmentSelector) (renderer.Texture, error)

	// ReadTarget returns the stable half of a ping-pong resource: the buffer
	// written on the previous frame. Nil for non-ping-pong resources.
	//
	// Returns:
	//   - renderer.Texture: the read half, or nil
	ReadTarget() renderer.Texture

	// WriteTarget returns the half of a ping-pong resource being written this
	// frame. Nil for non-ping-pong resources.
	//
	// Returns:
	//   - renderer.Texture: the write half, or nil
	WriteTarget() renderer.Texture

	// Swap exchanges the read and write halves of a ping-pong resource. The
	// executor invokes this exactly once per frame, after all writers have run.
	// No-op for non-ping-pong resources.
	Swap()
}

// resourceImpl is the implementation of the Resource interface.
type resourceImpl struct {
	desc ResourceDescriptor

	colors []renderer.Texture
	depth  renderer.Texture

	// halves and writeIndex back ping-pong resources; colors stays nil.
	halves     [2]renderer.Texture
	writeIndex int

	size      common.Size
	allocated bool
}

var _ Resource = &resourceImpl{}

func (r *resourceImpl) ID() string                     { return r.desc.id }
func (r *resourceImpl) Kind() ResourceKind             { return r.desc.kind }
func (r *resourceImpl) Descriptor() ResourceDescriptor { return r.desc }
func (r *resourceImpl) Size() common.Size              { return r.size }

func (r *resourceImpl) Texture(sel AttachmentSelector) (renderer.Texture, error) {
	if !r.allocated {
		return nil, fmt.Errorf("graph: resource %q is not allocated", r.desc.id)
	}
	switch r.desc.kind {
	case KindPingPong:
		switch sel {
		case AttachmentPrevious:
			return r.ReadTarget(), nil
		case AttachmentColor:
			return r.WriteTarget(), nil
		default:
			return nil, fmt.Errorf("graph: selector %d invalid on ping-pong resource %q", sel, r.desc.id)
		}
	default:
		if sel == AttachmentDepth {
			if r.depth == nil {
				return nil, fmt.Errorf("graph: resource %q has no depth texture", r.desc.id)
			}
			return r.depth, nil
		}
		if sel < 0 || int(sel) >= len(r.colors) {
			return nil, fmt.Errorf("graph: attachment %d out of range on resource %q (%d attachments)",
				sel, r.desc.id, len(r.colors))
		}
		return r.colors[sel], nil
	}
}

func (r *resourceImpl) ReadTarget() renderer.Texture {
	if r.desc.kind != KindPingPong {
		return nil
	}
	return r.halves[r.writeIndex^1]
}

func (r *resourceImpl) WriteTarget() renderer.Texture {
	if r.desc.kind != KindPingPong {
		return nil
	}
	return r.halves[r.writeIndex]
}

func (r *resourceImpl) Swap() {
	if r.desc.kind == KindPingPong {
		r.writeIndex ^= 1
	}
}

// physicalSize derives the resource's backing size from the viewport.
func (r *resourceImpl) physicalSize(viewport common.Size) common.Size {
	switch r.desc.sizeMode {
	case SizeFixed:
		return common.Size{Width: r.desc.fixedWidth, Height: r.desc.fixedHeight}
	case SizeFractional:
		return viewport.Scaled(r.desc.scale)
	default:
		return viewport
	}
}

// allocate creates the resource's backing textures at the given viewport size,
// releasing any previous allocation first.
func (r *resourceImpl) allocate(device renderer.Device, viewport common.Size) error {
	r.release()

	size := r.physicalSize(viewport)
	desc := renderer.TextureDescriptor{
		Width:  size.Width,
		Height: size.Height,
		Format: r.desc.format,
		Filter: r.desc.filter,
	}

	switch r.desc.kind {
	case KindPingPong:
		for i := range r.halves {
			desc.Label = fmt.Sprintf("%s[%c]", r.desc.id, 'a'+i)
			tex, err := device.CreateTexture(desc)
			if err != nil {
				r.release()
				return fmt.Errorf("graph: allocating %q: %w", r.desc.id, err)
			}
			r.halves[i] = tex
		}
	default:
		r.colors = make([]renderer.Texture, r.desc.attachments)
		for i := range r.colors {
			desc.Label = r.desc.id
			if r.desc.attachments > 1 {
				desc.Label = fmt.Sprintf("%s[%d]", r.desc.id, i)
			}
			tex, err := device.CreateTexture(desc)
			if err != nil {
				r.release()
				return fmt.Errorf("graph: allocating %q: %w", r.desc.id, err)
			}
			r.colors[i] = tex
		}
		if r.desc.depth {
			desc.Label = r.desc.id + "[depth]"
			desc.Format = renderer.FormatDepth32Float
			tex, err := device.CreateTexture(desc)
			if err != nil {
				r.release()
				return fmt.Errorf("graph: allocating depth for %q: %w", r.desc.id, err)
			}
			r.depth = tex
		}
	}

	r.size = size
	r.allocated = true
	return nil
}

// release frees the backing textures. Textures from a lost context generation
// make their own Release a no-op, so this is safe after context loss.
func (r *resourceImpl) release() {
	for _, tex := range r.colors {
		if tex != nil {
			tex.Release()
		}
	}
	r.colors = nil
	if r.depth != nil {
		r.depth.Release()
		r.depth = nil
	}
	for i, tex := range r.halves {
		if tex != nil {
			tex.Release()
			r.halves[i] = nil
		}
	}
	r.allocated = false
	r.size = common.Size{}
}

// Registry owns the logical resources of one graph: registration, allocation,
// viewport-driven resizing, and disposal.
type Registry interface {
	// AddResource registers a logical resource.
	//
	// Parameters:
	//   - desc: the resource descriptor to register
	//
	// Returns:
	//   - error: an error if the id is already registered or the descriptor is
	//     self-contradictory
	AddResource(desc ResourceDescriptor) error

	// Resource looks up a registered resource by id.
	//
	// Parameters:
	//   - id: the resource id
	//
	// Returns:
	//   - Resource: the resource handle
	//   - bool: true if the id is registered
	Resource(id string) (Resource, bool)

	// Resize re-derives the physical size of every viewport-dependent resource
	// and reallocates those whose size changed. Fixed-size resources and
	// resources whose derived size is unchanged are untouched. Resource
	// identity is preserved across resizes.
	//
	// Parameters:
	//   - width: the new viewport width in pixels
	//   - height: the new viewport height in pixels
	//
	// Returns:
	//   - error: an error if reallocation fails
	Resize(width, height int) error

	// Dimensions returns the current physical size of every allocated resource,
	// for diagnostics overlays. Read-only.
	//
	// Returns:
	//   - map[string]common.Size: resource id to allocated size
	Dimensions() map[string]common.Size

	// Texture resolves a resource id and attachment selector to a physical
	// texture, for diagnostics overlays. Read-only.
	//
	// Parameters:
	//   - id: the resource id
	//   - sel: the attachment selector
	//
	// Returns:
	//   - renderer.Texture: the resolved texture
	//   - error: an error if the id is unknown or the selector invalid
	Texture(id string, sel AttachmentSelector) (renderer.Texture, error)

	// Dispose releases all physical storage. Idempotent; textures belonging to
	// a lost context generation are skipped rather than freed.
	Dispose()
}

// registryImpl is the implementation of the Registry interface.
type registryImpl struct {
	device    renderer.Device
	resources map[string]*resourceImpl
	order     []string
	viewport  common.Size
}

var _ Registry = &registryImpl{}

// NewRegistry creates a resource registry allocating through the given device.
//
// Parameters:
//   - device: the device to allocate textures through
//
// Returns:
//   - Registry: the registry
func NewRegistry(device renderer.Device) Registry {
	if device == nil {
		panic("graph: registry requires a device")
	}
	return &registryImpl{
		device:    device,
		resources: make(map[string]*resourceImpl),
	}
}

func (reg *registryImpl) AddResource(desc ResourceDescriptor) error {
	if problems := desc.validate(); len(problems) > 0 {
		return &CompileError{Problems: problems}
	}
	if _, exists := reg.resources[desc.id]; exists {
		return &CompileError{Problems: []string{"duplicate resource id " + desc.id}}
	}
	reg.resources[desc.id] = &resourceImpl{desc: desc}
	reg.order = append(reg.order, desc.id)
	return nil
}

func (reg *registryImpl) Resource(id string) (Resource, bool) {
	r, exists := reg.resources[id]
	return r, exists
}

// lookup returns the concrete resource for internal use.
func (reg *registryImpl) lookup(id string) (*resourceImpl, bool) {
	r, exists := reg.resources[id]
	return r, exists
}

// allocateAll (re)allocates every registered resource at the current viewport.
// Called on compile and on context-loss recovery.
func (reg *registryImpl) allocateAll() error {
	if reg.viewport.IsZero() {
		return ErrNotSized
	}
	for _, id := range reg.order {
		if err := reg.resources[id].allocate(reg.device, reg.viewport); err != nil {
			return err
		}
	}
	return nil
}

func (reg *registryImpl) Resize(width, height int) error {
	next := common.Size{Width: width, Height: height}
	if next == reg.viewport {
		return nil
	}
	reg.viewport = next

	for _, id := range reg.order {
		r := reg.resources[id]
		if !r.allocated {
			continue
		}
		if r.physicalSize(next) == r.size {
			continue
		}
		if err := r.allocate(reg.device, next); err != nil {
			return err
		}
	}
	return nil
}

func (reg *registryImpl) Dimensions() map[string]common.Size {
	dims := make(map[string]common.Size, len(reg.resources))
	for id, r := range reg.resources {
		if r.allocated {
			dims[id] = r.size
		}
	}
	return dims
}

func (reg *registryImpl) Texture(id string, sel AttachmentSelector) (renderer.Texture, error) {
	r, exists := reg.resources[id]
	if !exists {
		return nil, fmt.Errorf("graph: unknown resource %q", id)
	}
	return r.Texture(sel)
}

func (reg *registryImpl) Dispose() {
	for _, r := range reg.resources {
		r.release()
	}
}
