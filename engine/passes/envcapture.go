package passes

import (
	"github.com/lumen3d/lumen-go/engine/graph"
)

// EnvCapturePass downsamples the composited image into a fixed-size capture
// resource, typically consumed by an environment-map export. Enabled while
// the frame context domain "envCapture" is true (default false).
type EnvCapturePass struct {
	name   string
	input  graph.Binding
	output graph.Binding
}

var _ graph.Pass = &EnvCapturePass{}

// NewEnvCapturePass creates the environment capture pass.
//
// Parameters:
//   - input: the binding read, usually the scene image before the surface write
//   - output: the binding written, a fixed-size capture resource
//
// Returns:
//   - *EnvCapturePass: the pass
func NewEnvCapturePass(input, output graph.Binding) *EnvCapturePass {
	return &EnvCapturePass{name: "envCapture", input: input, output: output}
}

func (p *EnvCapturePass) Name() string { return p.name }

func (p *EnvCapturePass) Inputs() []graph.Binding  { return []graph.Binding{p.input} }
func (p *EnvCapturePass) Outputs() []graph.Binding { return []graph.Binding{p.output} }

// Priority keeps the capture after the passes producing the image it samples
// when the graph would otherwise order them arbitrarily.
func (p *EnvCapturePass) Priority() int { return -10 }

func (p *EnvCapturePass) Enabled(ctx *graph.FrameContext) bool {
	return ctx.Bool("envCapture", false)
}

// Passthrough is not applicable: with the capture off, nothing needs the
// capture resource refreshed.
func (p *EnvCapturePass) Passthrough() (graph.Binding, graph.Binding, bool) {
	return graph.Binding{}, graph.Binding{}, false
}

func (p *EnvCapturePass) Execute(ctx *graph.ExecContext) error {
	// Blit resamples across the size difference on every backend.
	return ctx.Device.Blit(ctx.Input(0), ctx.Output(0))
}
