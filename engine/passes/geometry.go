package passes

import (
	"github.com/lumen3d/lumen-go/engine/camera"
	"github.com/lumen3d/lumen-go/engine/graph"
	"github.com/lumen3d/lumen-go/engine/renderer"
	"github.com/lumen3d/lumen-go/engine/scene"
)

const geometryPipelineKey = "lumen_geometry"

// geometryWGSL shades a procedural background in place of the CPU wireframe
// rasterizer; vertex-level wireframe drawing stays on the software path.
const geometryWGSL = `struct GeometryParams {
    time: f32,
    _pad0: f32,
    _pad1: f32,
    _pad2: f32,
}

@group(0) @binding(0) var pass_sampler: sampler;
@group(0) @binding(1) var<uniform> params: GeometryParams;

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    let center = uv - vec2<f32>(0.5, 0.5);
    let d = length(center);
    let glow = 0.08 / (d + 0.08);
    let pulse = 0.5 + 0.5 * sin(params.time * 0.7);
    return vec4<f32>(glow * 0.1, glow * 0.12, glow * (0.2 + 0.1 * pulse), 1.0);
}`

// GeometryPass renders the scene's polytope wireframes into its output. On
// CPU-backed textures it rasterizes projected edges directly; on GPU backends
// it shades the procedural background pipeline.
type GeometryPass struct {
	name   string
	output graph.Binding
	time   float32
}

var _ graph.Pass = &GeometryPass{}

// NewGeometryPass creates the scene geometry pass writing to the given
// resource.
//
// Parameters:
//   - output: the binding the wireframe is rendered into
//
// Returns:
//   - *GeometryPass: the pass
func NewGeometryPass(output graph.Binding) *GeometryPass {
	return &GeometryPass{name: "geometry", output: output}
}

func (p *GeometryPass) Name() string            { return p.name }
func (p *GeometryPass) Inputs() []graph.Binding { return nil }
func (p *GeometryPass) Outputs() []graph.Binding {
	return []graph.Binding{p.output}
}
func (p *GeometryPass) Priority() int { return 0 }

func (p *GeometryPass) Enabled(*graph.FrameContext) bool { return true }

// Passthrough is not applicable: the pass has no input to copy from.
func (p *GeometryPass) Passthrough() (graph.Binding, graph.Binding, bool) {
	return graph.Binding{}, graph.Binding{}, false
}

func (p *GeometryPass) Execute(ctx *graph.ExecContext) error {
	dst := ctx.Output(0)
	p.time += ctx.DeltaTime

	if cpuCapable(dst) {
		return p.rasterize(ctx, dst)
	}

	if err := registerPipeline(ctx.Device, geometryPipelineKey, geometryWGSL, 0, true); err != nil {
		return err
	}
	err := ctx.Device.DrawFullscreen(geometryPipelineKey, nil, paramsBytes(p.time, 0, 0, 0), dst)
	if err != nil {
		// No input to substitute; a dark clear is the neutral fallback.
		return ctx.Device.Clear(dst, 0.02, 0.02, 0.05, 1)
	}
	return nil
}

// rasterize draws every scene object's edges into the CPU texture.
func (p *GeometryPass) rasterize(ctx *graph.ExecContext, dst renderer.Texture) error {
	if err := ctx.Device.Clear(dst, 0.02, 0.02, 0.05, 1); err != nil {
		return err
	}

	// Scene or camera absent is a recoverable condition: render background only.
	scn, sceneOK := ctx.Scene.(scene.Scene)
	cam, camOK := ctx.Camera.(camera.Camera)
	if !sceneOK || !camOK {
		return nil
	}

	vp := cam.ViewProjectionMatrix()
	w, h := dst.Width(), dst.Height()
	pix := dst.Pixels()

	for _, obj := range scn.Objects() {
		positions := obj.Positions()
		screen := make([][2]int, len(positions))
		visible := make([]bool, len(positions))
		for i, pos := range positions {
			sx, sy, ok := projectPoint(vp, pos, w, h)
			screen[i] = [2]int{sx, sy}
			visible[i] = ok
		}
		for _, e := range obj.Edges() {
			if visible[e[0]] && visible[e[1]] {
				drawLine(pix, w, h, screen[e[0]], screen[e[1]])
			}
		}
	}
	return nil
}

// projectPoint transforms a world position by the column-major
// view-projection matrix and maps it to pixel coordinates.
func projectPoint(m [16]float32, pos [3]float32, width, height int) (int, int, bool) {
	x := m[0]*pos[0] + m[4]*pos[1] + m[8]*pos[2] + m[12]
	y := m[1]*pos[0] + m[5]*pos[1] + m[9]*pos[2] + m[13]
	w := m[3]*pos[0] + m[7]*pos[1] + m[11]*pos[2] + m[15]
	if w <= 1e-5 {
		return 0, 0, false
	}
	ndcX, ndcY := x/w, y/w
	px := int((ndcX*0.5 + 0.5) * float32(width))
	py := int((1 - (ndcY*0.5 + 0.5)) * float32(height))
	return px, py, true
}

// drawLine plots a clipped Bresenham line in white.
func drawLine(pix []byte, width, height int, a, b [2]int) {
	x0, y0 := a[0], a[1]
	x1, y1 := b[0], b[1]

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if x0 >= 0 && x0 < width && y0 >= 0 && y0 < height {
			i := (y0*width + x0) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = 255, 255, 255, 255
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
