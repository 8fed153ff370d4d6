package passes

import (
	"github.com/lumen3d/lumen-go/engine/graph"
	"github.com/lumen3d/lumen-go/engine/renderer"
)

const accumulatePipelineKey = "lumen_accumulate"

const accumulateWGSL = `struct AccumulateParams {
    blend: f32,
    _pad0: f32,
    _pad1: f32,
    _pad2: f32,
}

@lumen:include pass_bindings2
@group(0) @binding(3) var<uniform> params: AccumulateParams;

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    let current = textureSample(input0, pass_sampler, uv);
    let history = textureSample(input1, pass_sampler, uv);
    return mix(current, history, params.blend);
}`

// AccumulatePass blends the current frame into a ping-pong history buffer
// for temporal smoothing. It reads the previous frame's half through the
// previous-frame selector, so it never depends on its own output.
//
// The blend factor comes from the frame context domain "accumulation"
// (default 0.85); the pass is enabled while the domain "accumulationEnabled"
// is true (default true).
type AccumulatePass struct {
	name    string
	source  graph.Binding
	history string
}

var _ graph.Pass = &AccumulatePass{}

// NewAccumulatePass creates the temporal accumulation pass.
//
// Parameters:
//   - source: the binding holding the current frame's image
//   - history: the id of the ping-pong resource accumulated into
//
// Returns:
//   - *AccumulatePass: the pass
func NewAccumulatePass(source graph.Binding, history string) *AccumulatePass {
	return &AccumulatePass{name: "accumulate", source: source, history: history}
}

func (p *AccumulatePass) Name() string { return p.name }

func (p *AccumulatePass) Inputs() []graph.Binding {
	return []graph.Binding{
		p.source,
		graph.BindAttachment(p.history, graph.AttachmentPrevious),
	}
}

func (p *AccumulatePass) Outputs() []graph.Binding {
	return []graph.Binding{graph.Bind(p.history)}
}

func (p *AccumulatePass) Priority() int { return 0 }

func (p *AccumulatePass) Enabled(ctx *graph.FrameContext) bool {
	return ctx.Bool("accumulationEnabled", true)
}

// Passthrough copies the current frame into the history buffer unblended, so
// downstream readers of the history still see a live image when accumulation
// is off.
func (p *AccumulatePass) Passthrough() (graph.Binding, graph.Binding, bool) {
	return p.source, graph.Bind(p.history), true
}

func (p *AccumulatePass) Execute(ctx *graph.ExecContext) error {
	current, history := ctx.Input(0), ctx.Input(1)
	dst := ctx.Output(0)
	blend := ctx.Frame.Float("accumulation", 0.85)

	// A history with nothing accumulated yet contributes nothing; seeding
	// from the current frame avoids a dark initial blend.
	if ctx.Frame.Frame() == 1 {
		blend = 0
	}

	if cpuCapable(current, history, dst) {
		cp, hp, dp := current.Pixels(), history.Pixels(), dst.Pixels()
		for i := range dp {
			dp[i] = mixByte(cp[i], hp[i], blend)
		}
		return nil
	}

	if err := registerPipeline(ctx.Device, accumulatePipelineKey, accumulateWGSL, 2, true); err != nil {
		return err
	}
	err := ctx.Device.DrawFullscreen(accumulatePipelineKey,
		[]renderer.Texture{current, history},
		paramsBytes(blend, 0, 0, 0), dst)
	return drawDegraded(ctx.Device, err, current, dst)
}
