package shader

import "fmt"

// ShaderType identifies which pipeline stage a shader occupies.
type ShaderType int

const (
	// ShaderTypeVertex indicates a vertex stage shader.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment indicates a fragment stage shader.
	ShaderTypeFragment

	// ShaderTypeCompute indicates a compute stage shader.
	ShaderTypeCompute
)

// shaderImpl is the implementation of the Shader interface.
type shaderImpl struct {
	// key is the unique identifier for this shader, used for caching and pipeline labels.
	key string

	// shaderType indicates which pipeline stage this shader occupies.
	shaderType ShaderType

	// source is the fully pre-processed WGSL source, ready for module creation.
	source string

	// entryPoint is the WGSL entry function name for this shader's stage.
	entryPoint string
}

// Shader wraps a unit of pre-processed WGSL source together with the metadata a
// backend needs to create a shader module from it. Sources may use @lumen:include
// annotations which are expanded by the pre-processor before the shader is usable.
type Shader interface {
	// Key returns the unique identifier for this shader.
	//
	// Returns:
	//   - string: the shader key
	Key() string

	// Type returns which pipeline stage this shader occupies.
	//
	// Returns:
	//   - ShaderType: the shader's stage
	Type() ShaderType

	// Source returns the fully pre-processed WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source with all annotations expanded
	Source() string

	// EntryPoint returns the WGSL entry function name for this shader's stage.
	//
	// Returns:
	//   - string: the entry point function name
	EntryPoint() string
}

var _ Shader = &shaderImpl{}

// NewShader creates a Shader from raw WGSL source, running the pre-processor to
// expand any @lumen:include annotations. The entry point defaults by stage
// (vs_main, fs_main, cs_main) and can be overridden with WithEntryPoint.
//
// Parameters:
//   - key: the unique identifier for this shader
//   - shaderType: which pipeline stage the shader occupies
//   - source: raw WGSL source, possibly containing @lumen:include annotations
//   - options: functional options to further configure the shader
//
// Returns:
//   - Shader: the processed shader
//   - error: an error if the source contains a malformed or unknown annotation
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) (Shader, error) {
	processed, err := NewPreProcessor().Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", key, err)
	}

	s := &shaderImpl{
		key:        key,
		shaderType: shaderType,
		source:     processed,
	}
	switch shaderType {
	case ShaderTypeVertex:
		s.entryPoint = "vs_main"
	case ShaderTypeFragment:
		s.entryPoint = "fs_main"
	case ShaderTypeCompute:
		s.entryPoint = "cs_main"
	}

	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// ShaderBuilderOption is a functional option for configuring a Shader.
type ShaderBuilderOption func(*shaderImpl)

// WithEntryPoint overrides the default stage entry point function name.
//
// Parameters:
//   - name: the WGSL entry function name
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithEntryPoint(name string) ShaderBuilderOption {
	return func(s *shaderImpl) {
		s.entryPoint = name
	}
}

func (s *shaderImpl) Key() string {
	return s.key
}

func (s *shaderImpl) Type() ShaderType {
	return s.shaderType
}

func (s *shaderImpl) Source() string {
	return s.source
}

func (s *shaderImpl) EntryPoint() string {
	return s.entryPoint
}

// fullscreenVertex is the shared vertex stage for every fullscreen
// post-processing pass, built once on first use.
var fullscreenVertex Shader

// FullscreenVertex returns the shared vertex shader used by all fullscreen
// post-processing passes. It emits a single oversized triangle covering the
// viewport and passes UV coordinates to the fragment stage.
//
// Returns:
//   - Shader: the shared fullscreen vertex shader
func FullscreenVertex() Shader {
	if fullscreenVertex == nil {
		s, err := NewShader("fullscreen_vs", ShaderTypeVertex, "@lumen:include fullscreen_vertex")
		if err != nil {
			// The embedded snippet is a compile-time constant; failing to
			// process it is a programming error, not a runtime condition.
			panic(fmt.Sprintf("shader: failed to build fullscreen vertex stage: %v", err))
		}
		fullscreenVertex = s
	}
	return fullscreenVertex
}
