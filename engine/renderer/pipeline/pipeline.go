package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/lumen3d/lumen-go/engine/renderer/shader"
)

// PipelineType identifies whether a pipeline is a compute pipeline or a render pipeline.
type PipelineType int

const (
	// PipelineTypeRender indicates a render pipeline with vertex and fragment shader entry points.
	// Fullscreen post-processing passes use render pipelines drawing a single triangle.
	PipelineTypeRender PipelineType = iota

	// PipelineTypeCompute indicates a compute pipeline with a single compute shader entry point.
	PipelineTypeCompute
)

// pipelineImpl is the implementation of the Pipeline interface. It describes a
// pipeline declaratively; the GPU pipeline objects themselves are created and
// cached by the device backend, keyed by PipelineKey and target format.
type pipelineImpl struct {
	// pipelineType indicates the type of pipeline this is; compute or render
	pipelineType PipelineType
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	vertexShader, fragmentShader, computeShader shader.Shader

	// textureCount is the number of input textures the fragment stage binds (bindings 1..textureCount).
	textureCount int
	// hasParams indicates whether a uniform parameter block is bound after the input textures.
	hasParams bool

	blendEnabled bool
	topology     wgpu.PrimitiveTopology
	blendState   *wgpu.BlendState
}

// Pipeline describes a GPU pipeline for the device backend to realize: a render
// pipeline (shared fullscreen vertex stage + a pass's fragment shader) or a
// compute pipeline. It also declares the pass's binding shape (input texture
// count, uniform block presence) so the backend can derive the bind group
// layout without reflection.
type Pipeline interface {
	// Type returns the type of the pipeline.
	//
	// Returns:
	//   - PipelineType: the type of the pipeline (render or compute)
	Type() PipelineType

	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader associated with the specified type if it exists, nil otherwise.
	//
	// Parameters:
	//   - shaderType: the type of shader to retrieve (vertex, fragment, or compute)
	//
	// Returns:
	//   - shader.Shader: the shader associated with the specified type, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// TextureCount returns the number of input textures the fragment stage binds.
	//
	// Returns:
	//   - int: input texture count (bindings 1 through TextureCount)
	TextureCount() int

	// HasParams returns whether a uniform parameter block is bound after the input textures.
	//
	// Returns:
	//   - bool: true if the pipeline declares a uniform parameter block
	HasParams() bool

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// BlendState returns the blend state configured for this pipeline.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state, or nil if blending is not enabled
	BlendState() *wgpu.BlendState

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline
	Topology() wgpu.PrimitiveTopology
}

var _ Pipeline = &pipelineImpl{}

// NewPipeline is the entry point to create a new Pipeline description. Render
// pipelines default to the shared fullscreen vertex stage, no blending, and
// triangle-list topology; options override those defaults.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - pipelineType: the type of pipeline to create (render or compute)
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline description with the specified type and configuration
func NewPipeline(pipelineKey string, pipelineType PipelineType, opts ...PipelineBuilderOption) Pipeline {
	p := &pipelineImpl{
		pipelineKey:  pipelineKey,
		pipelineType: pipelineType,
		textureCount: 1,
		blendEnabled: false,
		topology:     wgpu.PrimitiveTopologyTriangleList,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	if pipelineType == PipelineTypeRender {
		p.vertexShader = shader.FullscreenVertex()
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipelineImpl) Type() PipelineType {
	return p.pipelineType
}

func (p *pipelineImpl) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipelineImpl) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	case shader.ShaderTypeCompute:
		return p.computeShader
	default:
		return nil
	}
}

func (p *pipelineImpl) TextureCount() int {
	return p.textureCount
}

func (p *pipelineImpl) HasParams() bool {
	return p.hasParams
}

func (p *pipelineImpl) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipelineImpl) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipelineImpl) Topology() wgpu.PrimitiveTopology {
	return p.topology
}
