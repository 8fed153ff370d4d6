package graph

import (
	"fmt"

	"github.com/lumen3d/lumen-go/engine/renderer"
)

// Binding addresses one component of a resource in a pass's declared inputs
// or outputs.
type Binding struct {
	// Resource is the logical resource id, or ResourceScreen in an output.
	Resource string

	// Attachment selects a color attachment, the depth component, or for
	// ping-pong inputs the previous frame's half.
	Attachment AttachmentSelector
}

// Bind is shorthand for a binding to a resource's sole color attachment.
//
// Parameters:
//   - resource: the resource id
//
// Returns:
//   - Binding: a binding with AttachmentColor selected
func Bind(resource string) Binding {
	return Binding{Resource: resource, Attachment: AttachmentColor}
}

// BindAttachment is shorthand for a binding with an explicit selector.
//
// Parameters:
//   - resource: the resource id
//   - sel: the attachment selector
//
// Returns:
//   - Binding: the binding
func BindAttachment(resource string, sel AttachmentSelector) Binding {
	return Binding{Resource: resource, Attachment: sel}
}

// String returns the binding in "resource[selector]" form for diagnostics.
func (b Binding) String() string {
	switch b.Attachment {
	case AttachmentDepth:
		return b.Resource + "[depth]"
	case AttachmentPrevious:
		return b.Resource + "[previous]"
	default:
		return fmt.Sprintf("%s[%d]", b.Resource, b.Attachment)
	}
}

// ExecContext carries everything a pass needs while executing: the device to
// issue GPU work through, the frozen frame context, resolved input and output
// textures in declaration order, and the external scene and camera
// collaborators.
type ExecContext struct {
	// Device issues GPU work for the pass.
	Device renderer.Device

	// Frame is the immutable per-frame snapshot of external state.
	Frame *FrameContext

	// DeltaTime is the time elapsed since the previous frame, in seconds.
	DeltaTime float32

	// Scene and Camera are the external collaborators passed through Execute.
	// Passes that need them assert the concrete types the host provides.
	Scene  any
	Camera any

	inputs  []renderer.Texture
	outputs []renderer.Texture
}

// Input returns the resolved texture for the pass's i-th declared input.
//
// Parameters:
//   - i: the input index in declaration order
//
// Returns:
//   - renderer.Texture: the bound texture, or nil if i is out of range
func (c *ExecContext) Input(i int) renderer.Texture {
	if i < 0 || i >= len(c.inputs) {
		return nil
	}
	return c.inputs[i]
}

// Output returns the resolved texture for the pass's i-th declared output.
//
// Parameters:
//   - i: the output index in declaration order
//
// Returns:
//   - renderer.Texture: the bound texture, or nil if i is out of range
func (c *ExecContext) Output(i int) renderer.Texture {
	if i < 0 || i >= len(c.outputs) {
		return nil
	}
	return c.outputs[i]
}

// InputCount returns the number of resolved inputs.
func (c *ExecContext) InputCount() int { return len(c.inputs) }

// OutputCount returns the number of resolved outputs.
func (c *ExecContext) OutputCount() int { return len(c.outputs) }

// Pass is one unit of GPU work in the graph: a name, declared resource reads
// and writes, a per-frame enable predicate, and an execute operation invoked
// with its resources already resolved. Passes are registered once at build
// time and stateless between frames except for pass-owned GPU objects.
type Pass interface {
	// Name returns the pass's unique name, used in diagnostics and plan output.
	//
	// Returns:
	//   - string: the pass name
	Name() string

	// Inputs returns the pass's declared input bindings in binding order.
	//
	// Returns:
	//   - []Binding: the input bindings
	Inputs() []Binding

	// Outputs returns the pass's declared output bindings in binding order.
	//
	// Returns:
	//   - []Binding: the output bindings
	Outputs() []Binding

	// Priority is the tie-break hint among passes with no data dependency.
	// Higher priorities execute earlier; ties fall back to declaration order.
	// True ordering is always dependency-driven first.
	//
	// Returns:
	//   - int: the priority hint, default 0
	Priority() int

	// Enabled is evaluated once per frame against the frozen frame context.
	//
	// Parameters:
	//   - ctx: the frame's immutable snapshot
	//
	// Returns:
	//   - bool: true if the pass should execute this frame
	Enabled(ctx *FrameContext) bool

	// Execute performs the pass's work. Recoverable conditions (a missing
	// optional external texture) must be absorbed with neutral behavior, not
	// returned; a returned error is logged as a frame-time degradation and
	// never aborts the frame.
	//
	// Parameters:
	//   - ctx: the execution context with resolved resources
	//
	// Returns:
	//   - error: a degradation to log, or nil
	Execute(ctx *ExecContext) error

	// Passthrough returns the explicit primary input/output pair copied when
	// the pass is disabled, so downstream unconditional readers still see valid
	// data. ok is false for passes that opt out of passthrough.
	//
	// Returns:
	//   - in: the primary input binding to copy from
	//   - out: the primary output binding to copy to
	//   - ok: true if the pass is passthrough-eligible
	Passthrough() (in, out Binding, ok bool)
}

// passImpl is the implementation of the Pass interface for function-configured
// passes. Subsystems with pass-owned GPU state implement Pass directly.
type passImpl struct {
	name     string
	inputs   []Binding
	outputs  []Binding
	priority int

	enabled func(*FrameContext) bool
	execute func(*ExecContext) error

	passthroughIn  Binding
	passthroughOut Binding
	hasPassthrough bool
}

var _ Pass = &passImpl{}

// PassBuilderOption is a functional option for configuring a Pass.
// Use the With* functions to create options that are applied directly to the pass instance.
type PassBuilderOption func(*passImpl)

// NewPass creates a function-configured pass. By default the pass is always
// enabled, has no bindings, priority 0, no passthrough, and an execute that
// does nothing.
//
// Parameters:
//   - name: the unique pass name
//   - opts: variadic list of PassBuilderOption functions to configure the pass
//
// Returns:
//   - Pass: the configured pass
func NewPass(name string, opts ...PassBuilderOption) Pass {
	p := &passImpl{
		name:    name,
		enabled: func(*FrameContext) bool { return true },
		execute: func(*ExecContext) error { return nil },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithInputs declares the pass's input bindings in binding order.
//
// Parameters:
//   - bindings: the input bindings
//
// Returns:
//   - PassBuilderOption: option function to apply
func WithInputs(bindings ...Binding) PassBuilderOption {
	return func(p *passImpl) {
		p.inputs = bindings
	}
}

// WithOutputs declares the pass's output bindings in binding order.
//
// Parameters:
//   - bindings: the output bindings
//
// Returns:
//   - PassBuilderOption: option function to apply
func WithOutputs(bindings ...Binding) PassBuilderOption {
	return func(p *passImpl) {
		p.outputs = bindings
	}
}

// WithPriority sets the tie-break hint. Higher priorities execute earlier
// among passes with no data dependency.
//
// Parameters:
//   - priority: the priority hint
//
// Returns:
//   - PassBuilderOption: option function to apply
func WithPriority(priority int) PassBuilderOption {
	return func(p *passImpl) {
		p.priority = priority
	}
}

// WithEnabled sets the per-frame enable predicate.
//
// Parameters:
//   - fn: the predicate evaluated against the frozen frame context
//
// Returns:
//   - PassBuilderOption: option function to apply
func WithEnabled(fn func(*FrameContext) bool) PassBuilderOption {
	return func(p *passImpl) {
		p.enabled = fn
	}
}

// WithExecute sets the pass's execute operation.
//
// Parameters:
//   - fn: the operation invoked with the resolved execution context
//
// Returns:
//   - PassBuilderOption: option function to apply
func WithExecute(fn func(*ExecContext) error) PassBuilderOption {
	return func(p *passImpl) {
		p.execute = fn
	}
}

// WithPassthrough designates the explicit primary input/output pair copied
// when the pass is disabled. Both bindings must appear in the pass's declared
// inputs and outputs respectively; the compiler rejects the pass otherwise.
//
// Parameters:
//   - in: the primary input binding
//   - out: the primary output binding
//
// Returns:
//   - PassBuilderOption: option function to apply
func WithPassthrough(in, out Binding) PassBuilderOption {
	return func(p *passImpl) {
		p.passthroughIn = in
		p.passthroughOut = out
		p.hasPassthrough = true
	}
}

func (p *passImpl) Name() string       { return p.name }
func (p *passImpl) Inputs() []Binding  { return p.inputs }
func (p *passImpl) Outputs() []Binding { return p.outputs }
func (p *passImpl) Priority() int      { return p.priority }

func (p *passImpl) Enabled(ctx *FrameContext) bool {
	return p.enabled(ctx)
}

func (p *passImpl) Execute(ctx *ExecContext) error {
	return p.execute(ctx)
}

func (p *passImpl) Passthrough() (Binding, Binding, bool) {
	return p.passthroughIn, p.passthroughOut, p.hasPassthrough
}
