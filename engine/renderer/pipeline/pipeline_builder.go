package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/lumen3d/lumen-go/engine/renderer/shader"
)

// PipelineBuilderOption is a functional option for configuring a Pipeline.
// Use the With* functions to create options that are applied directly to the pipeline instance.
type PipelineBuilderOption func(*pipelineImpl)

// WithVertexShader overrides the shared fullscreen vertex stage with a custom
// vertex shader. Only needed by passes that draw scene geometry rather than a
// fullscreen triangle.
//
// Parameters:
//   - s: the vertex shader to use
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithVertexShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipelineImpl) {
		p.vertexShader = s
	}
}

// WithFragmentShader sets the fragment shader for a render pipeline.
//
// Parameters:
//   - s: the fragment shader to use
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithFragmentShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipelineImpl) {
		p.fragmentShader = s
	}
}

// WithComputeShader sets the compute shader for a compute pipeline.
//
// Parameters:
//   - s: the compute shader to use
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithComputeShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipelineImpl) {
		p.computeShader = s
	}
}

// WithTextureCount declares how many input textures the fragment stage binds.
// The device backend derives the bind group layout from this count: sampler at
// binding 0, textures at bindings 1 through count.
//
// Parameters:
//   - count: the number of input textures
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithTextureCount(count int) PipelineBuilderOption {
	return func(p *pipelineImpl) {
		p.textureCount = count
	}
}

// WithParams declares that the pipeline binds a uniform parameter block at the
// binding immediately after its last input texture.
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithParams() PipelineBuilderOption {
	return func(p *pipelineImpl) {
		p.hasParams = true
	}
}

// WithBlend enables or disables alpha blending for the pipeline's color target.
//
// Parameters:
//   - enabled: if true, enables the default alpha blend state
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithBlend(enabled bool) PipelineBuilderOption {
	return func(p *pipelineImpl) {
		p.blendEnabled = enabled
	}
}

// WithBlendState sets a custom blend state and enables blending.
//
// Parameters:
//   - state: the blend state to use
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithBlendState(state *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipelineImpl) {
		p.blendEnabled = true
		p.blendState = state
	}
}

// WithTopology sets the primitive topology for the pipeline.
//
// Parameters:
//   - topology: the primitive topology to use
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipelineImpl) {
		p.topology = topology
	}
}
