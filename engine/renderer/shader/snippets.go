package shader

// WGSL snippet sources injected by @lumen:include annotations. Keeping these in
// one registry lets every pass share the same fullscreen vertex stage and
// sampling helpers without duplicating source text in each pass package.

// snippetFullscreenVertex emits one triangle three times the viewport size so a
// single draw of 3 vertices covers the whole target with interpolated UVs.
const snippetFullscreenVertex = `struct VSOut {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> VSOut {
    var out: VSOut;
    let x = f32(i32(index) / 2) * 4.0 - 1.0;
    let y = f32(i32(index) % 2) * 4.0 - 1.0;
    out.position = vec4<f32>(x, y, 0.0, 1.0);
    out.uv = vec2<f32>(x * 0.5 + 0.5, 1.0 - (y * 0.5 + 0.5));
    return out;
}`

// snippetPassBindings declares the conventional bind group every fullscreen
// pass uses: one sampler at binding 0 and input textures from binding 1 up.
// Passes that take a uniform parameter block declare it themselves at the
// binding after their last input texture.
const snippetPassBindings = `@group(0) @binding(0) var pass_sampler: sampler;
@group(0) @binding(1) var input0: texture_2d<f32>;`

// snippetPassBindings2 extends the conventional bindings with a second input
// texture for passes that blend two sources.
const snippetPassBindings2 = `@group(0) @binding(0) var pass_sampler: sampler;
@group(0) @binding(1) var input0: texture_2d<f32>;
@group(0) @binding(2) var input1: texture_2d<f32>;`

// snippetRegistry maps @lumen:include argument keys to their WGSL source text.
var snippetRegistry = map[string]string{
	"fullscreen_vertex": snippetFullscreenVertex,
	"pass_bindings":     snippetPassBindings,
	"pass_bindings2":    snippetPassBindings2,
}
