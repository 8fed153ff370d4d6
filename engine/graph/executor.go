package graph

import (
	"fmt"
	"sort"

	"github.com/lumen3d/lumen-go/common"
	"github.com/lumen3d/lumen-go/engine/renderer"
)

// frameState tracks where in the per-frame state machine the engine is.
// Frames move Idle -> ContextCaptured -> Executing -> Exported -> Idle.
type frameState int

const (
	stateIdle frameState = iota
	stateContextCaptured
	stateExecuting
	stateExported
)

// FrameStats summarizes one frame's pass activity for diagnostics overlays.
type FrameStats struct {
	// Frame is the frame number the stats belong to.
	Frame uint64

	// Executed counts passes whose Execute ran.
	Executed int

	// Passthrough counts disabled passes replaced by a copy.
	Passthrough int

	// Skipped counts disabled passes skipped entirely.
	Skipped int
}

// Engine is the render graph: resource and pass registration, compilation
// into an ordered plan, and per-frame execution. Build the graph once, compile
// it, then call Execute every animation frame; recompile only on structural
// changes (a pass set change, context-loss recovery), never for per-frame
// enable toggles.
type Engine interface {
	// AddResource registers a logical resource before compilation.
	//
	// Parameters:
	//   - desc: the resource descriptor
	//
	// Returns:
	//   - error: an error if the id is duplicated or the descriptor invalid
	AddResource(desc ResourceDescriptor) error

	// AddPass registers a pass. Declaration order is the final ordering
	// tie-break, so registration order matters only between passes with equal
	// priority and no data dependency.
	//
	// Parameters:
	//   - p: the pass to register
	//
	// Returns:
	//   - error: an error if the pass is nil
	AddPass(p Pass) error

	// SetStoreGetters configures how external state is snapshotted into the
	// frame context. Called once during setup; each getter runs exactly once
	// per frame.
	//
	// Parameters:
	//   - getters: store domain name to snapshot-producing function
	SetStoreGetters(getters map[string]StoreGetter)

	// AddExport registers a post-execution export hook. Exports run after all
	// passes, exactly once per frame, in registration order.
	//
	// Parameters:
	//   - name: the export's name, used in diagnostics
	//   - fn: the export hook
	AddExport(name string, fn Export)

	// Compile validates the registered resources and passes and produces the
	// ordered execution plan. Hard configuration errors return a *CompileError
	// and leave no plan; soft issues are logged and attached to the plan as
	// warnings. A previous plan's resources are released first.
	//
	// Returns:
	//   - *Plan: the compiled plan
	//   - error: a *CompileError, or ErrDisposed
	Compile() (*Plan, error)

	// Recompile rebuilds the plan after a structural change: a pass set
	// swap, a resource topology change, or context-loss recovery.
	//
	// Returns:
	//   - *Plan: the new plan
	//   - error: a *CompileError, or ErrDisposed
	Recompile() (*Plan, error)

	// SetSize sets the viewport size, resizing every size-dependent resource
	// in place and reconfiguring the display surface. Safe to call before the
	// first Execute; a call with the current size is a no-op.
	//
	// Parameters:
	//   - width: the viewport width in pixels
	//   - height: the viewport height in pixels
	//
	// Returns:
	//   - error: an error if reallocation fails
	SetSize(width, height int) error

	// Execute renders one frame: captures the frame context, walks the plan in
	// order (skipping or passing through disabled passes), runs exports, swaps
	// written ping-pong resources, and presents. Pass and export errors are
	// absorbed as logged degradations; only misuse (no plan, disposed engine,
	// no size) or surface loss returns an error.
	//
	// Parameters:
	//   - scene: the external scene collaborator handed to passes
	//   - camera: the external camera collaborator handed to passes
	//   - deltaTime: seconds elapsed since the previous frame
	//
	// Returns:
	//   - error: ErrNotCompiled, ErrDisposed, ErrNotSized, or a surface error
	Execute(scene, camera any, deltaTime float32) error

	// NotifyContextLost records that the graphics context was invalidated and
	// recreated. Every resource is reallocated on the next Compile or Execute;
	// disposal of handles from the dead context is skipped.
	NotifyContextLost()

	// ResourceDimensions returns the physical size of every allocated
	// resource. Read-only, for diagnostics overlays.
	//
	// Returns:
	//   - map[string]common.Size: resource id to size
	ResourceDimensions() map[string]common.Size

	// Texture resolves a resource for diagnostics overlays. Read-only.
	//
	// Parameters:
	//   - id: the resource id
	//   - sel: the attachment selector
	//
	// Returns:
	//   - renderer.Texture: the resolved texture
	//   - error: an error if the id is unknown or the selector invalid
	Texture(id string, sel AttachmentSelector) (renderer.Texture, error)

	// Stats returns the previous frame's pass activity summary.
	//
	// Returns:
	//   - FrameStats: the last completed frame's stats
	Stats() FrameStats

	// Dispose releases the plan and all resources. Idempotent; Execute after
	// Dispose is a no-op returning ErrDisposed.
	Dispose()
}

// engineImpl is the implementation of the Engine interface.
type engineImpl struct {
	device   renderer.Device
	registry *registryImpl

	passes      []Pass
	getters     map[string]StoreGetter
	getterOrder []string
	exports     []namedExport

	plan      *Plan
	frame     uint64
	viewport  common.Size
	allocated bool
	disposed  bool
	state     frameState
	stats     FrameStats
}

type namedExport struct {
	name string
	fn   Export
}

var _ Engine = &engineImpl{}

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engineImpl)

// NewEngine creates a render graph engine allocating and executing through
// the given device.
//
// Parameters:
//   - device: the device backend to render through
//   - opts: variadic list of EngineBuilderOption functions to configure the engine
//
// Returns:
//   - Engine: the engine
func NewEngine(device renderer.Device, opts ...EngineBuilderOption) Engine {
	if device == nil {
		panic("graph: engine requires a device")
	}
	e := &engineImpl{
		device:   device,
		registry: NewRegistry(device).(*registryImpl),
		getters:  make(map[string]StoreGetter),
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.viewport.IsZero() {
		e.device.ConfigureSurface(e.viewport.Width, e.viewport.Height)
		e.registry.viewport = e.viewport
	}
	return e
}

// WithInitialSize sets the viewport size at construction, so SetSize need not
// be called before the first Compile.
//
// Parameters:
//   - width: the initial viewport width in pixels
//   - height: the initial viewport height in pixels
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithInitialSize(width, height int) EngineBuilderOption {
	return func(e *engineImpl) {
		e.viewport = common.Size{Width: width, Height: height}
	}
}

func (e *engineImpl) AddResource(desc ResourceDescriptor) error {
	return e.registry.AddResource(desc)
}

func (e *engineImpl) AddPass(p Pass) error {
	if p == nil {
		return fmt.Errorf("graph: cannot register a nil pass")
	}
	e.passes = append(e.passes, p)
	return nil
}

func (e *engineImpl) SetStoreGetters(getters map[string]StoreGetter) {
	e.getters = getters
	e.getterOrder = e.getterOrder[:0]
	for name := range getters {
		e.getterOrder = append(e.getterOrder, name)
	}
	sort.Strings(e.getterOrder)
}

func (e *engineImpl) AddExport(name string, fn Export) {
	e.exports = append(e.exports, namedExport{name: name, fn: fn})
}

func (e *engineImpl) Compile() (*Plan, error) {
	if e.disposed {
		return nil, ErrDisposed
	}

	// A recompile releases the previous plan's storage first; handles from a
	// lost context generation skip their own release.
	e.registry.Dispose()
	e.allocated = false
	e.plan = nil

	plan, err := compilePlan(e.registry, e.passes)
	if err != nil {
		return nil, err
	}
	for _, w := range plan.Warnings() {
		common.Logger().Warn("graph compile warning", "warning", string(w))
	}

	if !e.viewport.IsZero() {
		if err := e.ensureAllocated(); err != nil {
			return nil, err
		}
	}

	e.plan = plan
	common.Logger().Info("graph compiled",
		"passes", len(plan.Passes()),
		"resources", len(e.registry.resources),
		"warnings", len(plan.Warnings()))
	return plan, nil
}

func (e *engineImpl) Recompile() (*Plan, error) {
	return e.Compile()
}

func (e *engineImpl) ensureAllocated() error {
	if e.allocated {
		return nil
	}
	if err := e.registry.allocateAll(); err != nil {
		return err
	}
	e.allocated = true
	return nil
}

func (e *engineImpl) SetSize(width, height int) error {
	if e.disposed {
		return ErrDisposed
	}
	next := common.Size{Width: width, Height: height}
	if next == e.viewport && !e.viewport.IsZero() {
		return nil
	}
	e.viewport = next
	e.device.ConfigureSurface(width, height)
	return e.registry.Resize(width, height)
}

func (e *engineImpl) Execute(scene, camera any, deltaTime float32) error {
	if e.disposed {
		common.Logger().Error("execute called on a disposed graph")
		return ErrDisposed
	}
	if e.plan == nil {
		common.Logger().Error("execute called without a compiled plan")
		return ErrNotCompiled
	}
	if e.state != stateIdle {
		return fmt.Errorf("graph: execute re-entered mid-frame")
	}
	if e.viewport.IsZero() {
		return ErrNotSized
	}
	if err := e.ensureAllocated(); err != nil {
		return err
	}

	e.frame++
	e.state = stateContextCaptured
	defer func() { e.state = stateIdle }()

	frameCtx := captureFrame(e.getters, e.getterOrder, e.frame, deltaTime)

	surface, err := e.device.AcquireFrame()
	if err != nil {
		return fmt.Errorf("graph: acquiring frame surface: %w", err)
	}

	e.state = stateExecuting
	stats := FrameStats{Frame: e.frame}
	written := make(map[string]*resourceImpl)

	for _, pass := range e.plan.Passes() {
		if !pass.Enabled(frameCtx) {
			if in, out, ok := pass.Passthrough(); ok {
				if err := e.passthrough(pass, in, out, surface); err != nil {
					common.Logger().Warn("passthrough degraded", "pass", pass.Name(), "error", err)
				} else {
					e.markWritten(written, []Binding{out})
				}
				stats.Passthrough++
			} else {
				stats.Skipped++
			}
			continue
		}

		execCtx, err := e.bindPass(pass, frameCtx, surface, scene, camera, deltaTime)
		if err != nil {
			common.Logger().Warn("pass binding degraded", "pass", pass.Name(), "error", err)
			stats.Skipped++
			continue
		}
		if err := pass.Execute(execCtx); err != nil {
			common.Logger().Warn("pass degraded", "pass", pass.Name(), "error", err)
		}
		e.markWritten(written, pass.Outputs())
		stats.Executed++
	}

	e.state = stateExported
	exportCtx := &ExportContext{Frame: frameCtx, registry: e.registry}
	for _, export := range e.exports {
		if err := export.fn(exportCtx); err != nil {
			common.Logger().Warn("export degraded", "export", export.name, "error", err)
		}
	}

	for _, r := range written {
		r.Swap()
	}

	e.device.Present()
	e.stats = stats
	return nil
}

// passthrough copies a disabled pass's primary input to its primary output.
func (e *engineImpl) passthrough(pass Pass, in, out Binding, surface renderer.Texture) error {
	src, err := e.registry.Texture(in.Resource, in.Attachment)
	if err != nil {
		return err
	}
	dst, err := e.resolveOutput(out, surface)
	if err != nil {
		return err
	}
	return e.device.Blit(src, dst)
}

// bindPass resolves a pass's declared bindings into an execution context.
func (e *engineImpl) bindPass(pass Pass, frameCtx *FrameContext, surface renderer.Texture, scene, camera any, deltaTime float32) (*ExecContext, error) {
	ctx := &ExecContext{
		Device:    e.device,
		Frame:     frameCtx,
		DeltaTime: deltaTime,
		Scene:     scene,
		Camera:    camera,
	}
	for _, b := range pass.Inputs() {
		tex, err := e.registry.Texture(b.Resource, b.Attachment)
		if err != nil {
			return nil, err
		}
		ctx.inputs = append(ctx.inputs, tex)
	}
	for _, b := range pass.Outputs() {
		tex, err := e.resolveOutput(b, surface)
		if err != nil {
			return nil, err
		}
		ctx.outputs = append(ctx.outputs, tex)
	}
	return ctx, nil
}

// resolveOutput maps an output binding to its texture, substituting the
// acquired surface for the screen pseudo-resource.
func (e *engineImpl) resolveOutput(b Binding, surface renderer.Texture) (renderer.Texture, error) {
	if b.Resource == ResourceScreen {
		return surface, nil
	}
	return e.registry.Texture(b.Resource, b.Attachment)
}

// markWritten records which ping-pong resources were written this frame so
// exactly those get swapped after exports.
func (e *engineImpl) markWritten(written map[string]*resourceImpl, outputs []Binding) {
	for _, b := range outputs {
		if r, exists := e.registry.lookup(b.Resource); exists && r.desc.kind == KindPingPong {
			written[b.Resource] = r
		}
	}
}

func (e *engineImpl) NotifyContextLost() {
	e.device.NotifyContextLost()
	e.allocated = false
	common.Logger().Info("graph context lost, resources will be reallocated")
}

func (e *engineImpl) ResourceDimensions() map[string]common.Size {
	return e.registry.Dimensions()
}

func (e *engineImpl) Texture(id string, sel AttachmentSelector) (renderer.Texture, error) {
	return e.registry.Texture(id, sel)
}

func (e *engineImpl) Stats() FrameStats {
	return e.stats
}

func (e *engineImpl) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.plan = nil
	e.registry.Dispose()
}
