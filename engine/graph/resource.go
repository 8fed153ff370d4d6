package graph

import (
	"github.com/lumen3d/lumen-go/engine/renderer"
)

// ResourceScreen is the pseudo-resource id representing the display surface.
// It may appear only in pass outputs; the executor resolves it to the frame's
// acquired surface texture.
const ResourceScreen = "screen"

// ResourceKind identifies the physical shape of a logical resource.
type ResourceKind int

const (
	// KindTarget is a single-attachment render target.
	KindTarget ResourceKind = iota

	// KindMRT is a multi-attachment target with two or more color attachments
	// written simultaneously by one pass.
	KindMRT

	// KindPingPong is a pair of physical buffers behind one logical id,
	// alternating read and write roles each frame for temporal accumulation.
	KindPingPong
)

// String returns the kind's name for diagnostics.
func (k ResourceKind) String() string {
	switch k {
	case KindMRT:
		return "mrt"
	case KindPingPong:
		return "ping-pong"
	default:
		return "target"
	}
}

// SizeMode identifies how a resource's physical size is derived.
type SizeMode int

const (
	// SizeFull sizes the resource to match the viewport exactly.
	SizeFull SizeMode = iota

	// SizeFractional sizes the resource to a multiple of the viewport
	// (e.g. 0.5 for half-resolution volumetric work).
	SizeFractional

	// SizeFixed gives the resource a constant size independent of the viewport.
	SizeFixed
)

// AttachmentSelector addresses one component of a resource in a pass binding.
// Non-negative values select a color attachment by index; the named constants
// select the depth component or, for ping-pong resources, the previous frame's
// half.
type AttachmentSelector int

const (
	// AttachmentColor selects the sole color attachment of a single target, or
	// color attachment 0 of an MRT.
	AttachmentColor AttachmentSelector = 0

	// AttachmentDepth selects a resource's depth texture.
	AttachmentDepth AttachmentSelector = -1

	// AttachmentPrevious selects the stable half of a ping-pong resource: the
	// buffer written on the previous frame. Reads through this selector create
	// no dependency edge on the current frame's writer, which is what allows a
	// temporal accumulation pass to read its own history without forming a
	// cycle.
	AttachmentPrevious AttachmentSelector = -2
)

// ResourceDescriptor declares a logical resource: its identity, physical
// shape, sizing rule, and format attributes. Build one with NewResource and
// the With* options; descriptors are immutable once registered.
type ResourceDescriptor struct {
	id          string
	kind        ResourceKind
	sizeMode    SizeMode
	scale       float32
	fixedWidth  int
	fixedHeight int
	attachments int
	format      renderer.TextureFormat
	filter      renderer.FilterMode
	depth       bool
}

// ResourceBuilderOption is a functional option for configuring a ResourceDescriptor.
// Use the With* functions to create options that are applied directly to the descriptor.
type ResourceBuilderOption func(*ResourceDescriptor)

// NewResource creates a resource descriptor with the given id. Defaults:
// single-attachment target, full viewport size, RGBA8, linear filtering, no
// depth.
//
// Parameters:
//   - id: the unique resource id, stable for the graph's lifetime
//   - opts: variadic list of ResourceBuilderOption functions to configure the descriptor
//
// Returns:
//   - ResourceDescriptor: the configured descriptor
func NewResource(id string, opts ...ResourceBuilderOption) ResourceDescriptor {
	d := ResourceDescriptor{
		id:          id,
		kind:        KindTarget,
		sizeMode:    SizeFull,
		scale:       1,
		attachments: 1,
		format:      renderer.FormatRGBA8Unorm,
		filter:      renderer.FilterLinear,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// WithAttachments declares the resource as a multi-attachment target with the
// given number of color attachments.
//
// Parameters:
//   - count: the number of color attachments (must be at least 2)
//
// Returns:
//   - ResourceBuilderOption: option function to apply
func WithAttachments(count int) ResourceBuilderOption {
	return func(d *ResourceDescriptor) {
		d.kind = KindMRT
		d.attachments = count
	}
}

// WithPingPong declares the resource as a ping-pong pair: two physical buffers
// alternating read and write roles each frame.
//
// Returns:
//   - ResourceBuilderOption: option function to apply
func WithPingPong() ResourceBuilderOption {
	return func(d *ResourceDescriptor) {
		d.kind = KindPingPong
	}
}

// WithScale sizes the resource to a fraction (or multiple) of the viewport.
//
// Parameters:
//   - scale: the viewport multiplier (e.g. 0.5 for half resolution)
//
// Returns:
//   - ResourceBuilderOption: option function to apply
func WithScale(scale float32) ResourceBuilderOption {
	return func(d *ResourceDescriptor) {
		d.sizeMode = SizeFractional
		d.scale = scale
	}
}

// WithFixedSize gives the resource a constant size that does not follow
// viewport resizes.
//
// Parameters:
//   - width: the fixed width in pixels
//   - height: the fixed height in pixels
//
// Returns:
//   - ResourceBuilderOption: option function to apply
func WithFixedSize(width, height int) ResourceBuilderOption {
	return func(d *ResourceDescriptor) {
		d.sizeMode = SizeFixed
		d.fixedWidth = width
		d.fixedHeight = height
	}
}

// WithFormat sets the texture format of the resource's color attachments.
//
// Parameters:
//   - format: the texture format to use
//
// Returns:
//   - ResourceBuilderOption: option function to apply
func WithFormat(format renderer.TextureFormat) ResourceBuilderOption {
	return func(d *ResourceDescriptor) {
		d.format = format
	}
}

// WithFilter sets the sampling filter used when the resource is read.
//
// Parameters:
//   - filter: the filter mode to use
//
// Returns:
//   - ResourceBuilderOption: option function to apply
func WithFilter(filter renderer.FilterMode) ResourceBuilderOption {
	return func(d *ResourceDescriptor) {
		d.filter = filter
	}
}

// WithDepth requests a depth texture alongside the color attachments.
//
// Returns:
//   - ResourceBuilderOption: option function to apply
func WithDepth() ResourceBuilderOption {
	return func(d *ResourceDescriptor) {
		d.depth = true
	}
}

// ID returns the resource's unique id.
func (d ResourceDescriptor) ID() string { return d.id }

// Kind returns the resource's physical shape.
func (d ResourceDescriptor) Kind() ResourceKind { return d.kind }

// Attachments returns the number of color attachments.
func (d ResourceDescriptor) Attachments() int { return d.attachments }

// HasDepth reports whether the resource carries a depth texture.
func (d ResourceDescriptor) HasDepth() bool { return d.depth }

// Format returns the color attachment format.
func (d ResourceDescriptor) Format() renderer.TextureFormat { return d.format }

// validate reports configuration problems in the descriptor itself.
func (d ResourceDescriptor) validate() []string {
	var problems []string
	if d.id == "" {
		problems = append(problems, "resource with empty id")
	}
	if d.id == ResourceScreen {
		problems = append(problems, `resource id "screen" is reserved for the display surface`)
	}
	if d.kind == KindMRT && d.attachments < 2 {
		problems = append(problems, "resource "+d.id+": multi-attachment target needs at least 2 attachments")
	}
	if d.kind != KindMRT && d.attachments != 1 {
		problems = append(problems, "resource "+d.id+": attachment count is only configurable on multi-attachment targets")
	}
	if d.kind == KindPingPong && d.depth {
		problems = append(problems, "resource "+d.id+": ping-pong resources cannot carry a depth texture")
	}
	if d.sizeMode == SizeFractional && d.scale <= 0 {
		problems = append(problems, "resource "+d.id+": fractional scale must be positive")
	}
	if d.sizeMode == SizeFixed && (d.fixedWidth < 1 || d.fixedHeight < 1) {
		problems = append(problems, "resource "+d.id+": fixed size must be at least 1x1")
	}
	return problems
}
