package passes

import (
	"github.com/lumen3d/lumen-go/engine/graph"
	"github.com/lumen3d/lumen-go/engine/renderer"
)

const compositePipelineKey = "lumen_composite"

const compositeWGSL = `struct CompositeParams {
    glow: f32,
    _pad0: f32,
    _pad1: f32,
    _pad2: f32,
}

@lumen:include pass_bindings2
@group(0) @binding(3) var<uniform> params: CompositeParams;

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    let base = textureSample(input0, pass_sampler, uv);
    let glow = textureSample(input1, pass_sampler, uv);
    return vec4<f32>(base.rgb + glow.rgb * params.glow, 1.0);
}`

// CompositePass is the terminal pass: it adds the glow term onto the base
// image and writes the display surface. The glow intensity comes from the
// frame context domain "glowIntensity" (default 0.6).
type CompositePass struct {
	name string
	base graph.Binding
	glow graph.Binding
}

var _ graph.Pass = &CompositePass{}

// NewCompositePass creates the final composite pass.
//
// Parameters:
//   - base: the binding holding the full-resolution image
//   - glow: the binding holding the blurred glow term
//
// Returns:
//   - *CompositePass: the pass
func NewCompositePass(base, glow graph.Binding) *CompositePass {
	return &CompositePass{name: "composite", base: base, glow: glow}
}

func (p *CompositePass) Name() string { return p.name }

func (p *CompositePass) Inputs() []graph.Binding {
	return []graph.Binding{p.base, p.glow}
}

func (p *CompositePass) Outputs() []graph.Binding {
	return []graph.Binding{graph.Bind(graph.ResourceScreen)}
}

func (p *CompositePass) Priority() int { return 0 }

func (p *CompositePass) Enabled(*graph.FrameContext) bool { return true }

// Passthrough copies the base image straight to the surface. The pass itself
// is always enabled; the pair exists for hosts that disable it structurally.
func (p *CompositePass) Passthrough() (graph.Binding, graph.Binding, bool) {
	return p.base, graph.Bind(graph.ResourceScreen), true
}

func (p *CompositePass) Execute(ctx *graph.ExecContext) error {
	base, glow := ctx.Input(0), ctx.Input(1)
	dst := ctx.Output(0)
	intensity := ctx.Frame.Float("glowIntensity", 0.6)

	if cpuCapable(base, dst) {
		if err := ctx.Device.Blit(base, dst); err != nil {
			return err
		}
		if !cpuCapable(glow) || intensity <= 0 {
			return nil
		}
		addScaled(dst.Pixels(), dst.Width(), dst.Height(), glow, intensity)
		return nil
	}

	if err := registerPipeline(ctx.Device, compositePipelineKey, compositeWGSL, 2, true); err != nil {
		return err
	}
	err := ctx.Device.DrawFullscreen(compositePipelineKey,
		[]renderer.Texture{base, glow},
		paramsBytes(intensity, 0, 0, 0), dst)
	return drawDegraded(ctx.Device, err, base, dst)
}

// addScaled adds the glow texture onto the destination with nearest-neighbor
// upsampling and per-channel saturation. Alpha stays as the base wrote it.
func addScaled(dst []byte, width, height int, glow renderer.Texture, intensity float32) {
	gp := glow.Pixels()
	gw, gh := glow.Width(), glow.Height()
	for y := 0; y < height; y++ {
		gy := y * gh / height
		for x := 0; x < width; x++ {
			gx := x * gw / width
			gi := (gy*gw + gx) * 4
			di := (y*width + x) * 4
			for c := 0; c < 3; c++ {
				add := byte(float32(gp[gi+c])*intensity + 0.5)
				dst[di+c] = clampAddByte(dst[di+c], add)
			}
		}
	}
}
