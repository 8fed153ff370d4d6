// Package passes provides the built-in render passes of the polytope viewer:
// wireframe geometry, temporal accumulation, half-resolution blur, the final
// composite, and the environment capture feeding the export bridge. Each pass
// implements the graph's Pass contract, carries its own GPU pipeline, and
// degrades to a CPU path on backends without shader support.
package passes

import (
	"errors"

	"github.com/lumen3d/lumen-go/common"
	"github.com/lumen3d/lumen-go/engine/renderer"
	"github.com/lumen3d/lumen-go/engine/renderer/pipeline"
	"github.com/lumen3d/lumen-go/engine/renderer/shader"
)

// registerPipeline compiles and registers a fragment-only render pipeline,
// once. Registration of an existing key is a no-op on the device side.
func registerPipeline(device renderer.Device, key, fragmentWGSL string, textureCount int, hasParams bool) error {
	fs, err := shader.NewShader(key+"_fs", shader.ShaderTypeFragment, fragmentWGSL)
	if err != nil {
		return err
	}
	opts := []pipeline.PipelineBuilderOption{
		pipeline.WithFragmentShader(fs),
		pipeline.WithTextureCount(textureCount),
	}
	if hasParams {
		opts = append(opts, pipeline.WithParams())
	}
	return device.RegisterPipeline(pipeline.NewPipeline(key, pipeline.PipelineTypeRender, opts...))
}

// cpuCapable reports whether every listed texture has CPU-side pixels in the
// 8-bit format the software paths operate on.
func cpuCapable(textures ...renderer.Texture) bool {
	for _, t := range textures {
		if t == nil || t.Pixels() == nil || t.Format() != renderer.FormatRGBA8Unorm {
			return false
		}
	}
	return true
}

// drawDegraded is the shared handling for DrawFullscreen results: shader
// support missing on the backend falls back to a plain copy so downstream
// passes still see valid data.
func drawDegraded(device renderer.Device, err error, src, dst renderer.Texture) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, renderer.ErrShaderUnsupported) && src != nil {
		return device.Blit(src, dst)
	}
	return err
}

// clampAddByte adds two channel values with saturation.
func clampAddByte(a, b byte) byte {
	sum := int(a) + int(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// mixByte linearly interpolates two channel values.
func mixByte(a, b byte, t float32) byte {
	return byte(float32(a)*(1-t) + float32(b)*t + 0.5)
}

// paramsBytes packs a float32 uniform block.
func paramsBytes(values ...float32) []byte {
	return common.SliceToBytes(values)
}
