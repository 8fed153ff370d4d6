package passes

import (
	"github.com/lumen3d/lumen-go/engine/graph"
	"github.com/lumen3d/lumen-go/engine/renderer"
)

const blurPipelineKey = "lumen_blur"

const blurWGSL = `struct BlurParams {
    texel_x: f32,
    texel_y: f32,
    _pad0: f32,
    _pad1: f32,
}

@lumen:include pass_bindings
@group(0) @binding(2) var<uniform> params: BlurParams;

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    let t = vec2<f32>(params.texel_x, params.texel_y);
    var acc = textureSample(input0, pass_sampler, uv) * 0.4;
    acc += textureSample(input0, pass_sampler, uv + vec2<f32>(t.x, 0.0)) * 0.15;
    acc += textureSample(input0, pass_sampler, uv - vec2<f32>(t.x, 0.0)) * 0.15;
    acc += textureSample(input0, pass_sampler, uv + vec2<f32>(0.0, t.y)) * 0.15;
    acc += textureSample(input0, pass_sampler, uv - vec2<f32>(0.0, t.y)) * 0.15;
    return acc;
}`

// BlurPass softens its input into a (typically fractional-resolution) output,
// feeding the composite's glow term. Enabled while the frame context domain
// "bloom" is true (default true).
type BlurPass struct {
	name   string
	input  graph.Binding
	output graph.Binding
}

var _ graph.Pass = &BlurPass{}

// NewBlurPass creates the blur pass.
//
// Parameters:
//   - input: the binding read
//   - output: the binding written, usually a half-resolution resource
//
// Returns:
//   - *BlurPass: the pass
func NewBlurPass(input, output graph.Binding) *BlurPass {
	return &BlurPass{name: "blur", input: input, output: output}
}

func (p *BlurPass) Name() string { return p.name }

func (p *BlurPass) Inputs() []graph.Binding  { return []graph.Binding{p.input} }
func (p *BlurPass) Outputs() []graph.Binding { return []graph.Binding{p.output} }
func (p *BlurPass) Priority() int            { return 0 }

func (p *BlurPass) Enabled(ctx *graph.FrameContext) bool {
	return ctx.Bool("bloom", true)
}

func (p *BlurPass) Passthrough() (graph.Binding, graph.Binding, bool) {
	return p.input, p.output, true
}

func (p *BlurPass) Execute(ctx *graph.ExecContext) error {
	src, dst := ctx.Input(0), ctx.Output(0)

	if cpuCapable(src, dst) {
		// Resample into the destination first, then box-blur in place.
		if err := ctx.Device.Blit(src, dst); err != nil {
			return err
		}
		boxBlur(dst.Pixels(), dst.Width(), dst.Height())
		return nil
	}

	if err := registerPipeline(ctx.Device, blurPipelineKey, blurWGSL, 1, true); err != nil {
		return err
	}
	err := ctx.Device.DrawFullscreen(blurPipelineKey,
		[]renderer.Texture{src},
		paramsBytes(1/float32(dst.Width()), 1/float32(dst.Height()), 0, 0), dst)
	return drawDegraded(ctx.Device, err, src, dst)
}

// boxBlur applies one 3x3 box filter in place.
func boxBlur(pix []byte, width, height int) {
	src := make([]byte, len(pix))
	copy(src, pix)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			for c := 0; c < 4; c++ {
				var sum, count int
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := x+dx, y+dy
						if nx < 0 || nx >= width || ny < 0 || ny >= height {
							continue
						}
						sum += int(src[(ny*width+nx)*4+c])
						count++
					}
				}
				pix[(y*width+x)*4+c] = byte(sum / count)
			}
		}
	}
}
