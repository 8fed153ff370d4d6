package renderer

import (
	"errors"

	"github.com/lumen3d/lumen-go/engine/renderer/pipeline"
)

// DeviceBackendType identifies the GPU backend implementation used by a Device.
type DeviceBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based device backend.
	BackendTypeWGPU DeviceBackendType = iota

	// BackendTypeHeadless selects the CPU-backed device backend used for tests
	// and environments without a GPU. Textures are plain pixel buffers and
	// shader pipelines are unavailable.
	BackendTypeHeadless
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// TextureFormat identifies the channel layout and numeric precision of a texture.
type TextureFormat int

const (
	// FormatRGBA8Unorm is 8-bit normalized RGBA, the default display format.
	FormatRGBA8Unorm TextureFormat = iota

	// FormatRGBA16Float is half-float RGBA, used for HDR intermediate buffers.
	FormatRGBA16Float

	// FormatRGBA32Float is full-float RGBA, used for high-precision accumulation.
	FormatRGBA32Float

	// FormatDepth32Float is a single-channel 32-bit float depth texture.
	FormatDepth32Float
)

// BytesPerPixel returns the storage size of one pixel in this format.
//
// Returns:
//   - int: bytes per pixel
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case FormatRGBA16Float:
		return 8
	case FormatRGBA32Float:
		return 16
	default:
		return 4
	}
}

// String returns the format's name for diagnostics and logging.
func (f TextureFormat) String() string {
	switch f {
	case FormatRGBA8Unorm:
		return "rgba8unorm"
	case FormatRGBA16Float:
		return "rgba16float"
	case FormatRGBA32Float:
		return "rgba32float"
	case FormatDepth32Float:
		return "depth32float"
	default:
		return "unknown"
	}
}

// FilterMode controls how a texture is sampled when scaled.
type FilterMode int

const (
	// FilterLinear uses bilinear interpolation between texels.
	FilterLinear FilterMode = iota

	// FilterNearest uses nearest-neighbor sampling, preserving hard edges.
	FilterNearest
)

// TextureDescriptor describes the parameters for creating a device texture.
type TextureDescriptor struct {
	// Label is a debug name attached to the texture for diagnostics.
	Label string

	// Width is the texture width in pixels.
	Width int

	// Height is the texture height in pixels.
	Height int

	// Format is the channel layout and precision of the texture.
	Format TextureFormat

	// Filter is the sampling mode used when the texture is read by a pass.
	Filter FilterMode
}

// Texture is a handle to one physical device texture. Handles carry the
// generation counter of the device at creation time so disposal after a
// context loss can be skipped rather than freeing invalid GPU objects.
type Texture interface {
	// Label returns the debug name attached to the texture.
	//
	// Returns:
	//   - string: the texture label
	Label() string

	// Width returns the texture width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the texture height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int

	// Format returns the texture's channel layout and precision.
	//
	// Returns:
	//   - TextureFormat: the texture format
	Format() TextureFormat

	// Filter returns the sampling mode used when the texture is read.
	//
	// Returns:
	//   - FilterMode: the filtering mode
	Filter() FilterMode

	// Generation returns the device generation this texture was created under.
	// A texture whose generation differs from the device's current generation
	// belongs to a lost context and must not be released.
	//
	// Returns:
	//   - uint64: the creation-time device generation
	Generation() uint64

	// Pixels returns the CPU-side pixel storage for headless textures, laid out
	// row-major with Format().BytesPerPixel() bytes per pixel. Returns nil for
	// GPU-backed textures.
	//
	// Returns:
	//   - []byte: pixel storage, or nil for GPU textures
	Pixels() []byte

	// Release frees the underlying device object. Safe to call on textures from
	// a lost generation; those calls are no-ops.
	Release()
}

// ErrShaderUnsupported is returned by DrawFullscreen on backends that cannot
// execute shader pipelines (the headless backend). Passes treat this as a
// recoverable degradation and substitute their CPU path or neutral behavior.
var ErrShaderUnsupported = errors.New("renderer: backend does not support shader pipelines")

// Device is the GPU abstraction the render graph allocates and executes
// through. Implementations exist for WebGPU and for a CPU-backed headless
// mode; the graph core never talks to a graphics API directly.
type Device interface {
	// CreateTexture allocates a texture matching the descriptor.
	//
	// Parameters:
	//   - desc: the texture parameters
	//
	// Returns:
	//   - Texture: the allocated texture handle
	//   - error: an error if allocation fails or the descriptor is invalid
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// Blit copies src into dst. When dimensions match and formats are equal
	// this is a direct texture copy; otherwise the source is resampled using
	// dst's filter mode. Used for passthrough copies of disabled passes.
	//
	// Parameters:
	//   - src: the source texture
	//   - dst: the destination texture
	//
	// Returns:
	//   - error: an error if either texture is invalid or the copy fails
	Blit(src, dst Texture) error

	// Clear fills dst with a constant color.
	//
	// Parameters:
	//   - dst: the destination texture
	//   - r, g, b, a: the clear color components in [0, 1]
	//
	// Returns:
	//   - error: an error if the texture is invalid
	Clear(dst Texture, r, g, b, a float32) error

	// RegisterPipeline records a pipeline description for later realization.
	// GPU pipeline objects are created lazily on first use, cached by key and
	// target format. Registering an already-registered key is a no-op.
	//
	// Parameters:
	//   - p: the pipeline description to register
	//
	// Returns:
	//   - error: an error if the description is incomplete
	RegisterPipeline(p pipeline.Pipeline) error

	// DrawFullscreen executes a registered render pipeline as a fullscreen
	// triangle draw into dst, with inputs bound as textures (bindings 1..n
	// after the shared sampler at binding 0) and params, when non-empty, bound
	// as a uniform block at the following binding.
	//
	// Parameters:
	//   - pipelineKey: the key of a pipeline registered via RegisterPipeline
	//   - inputs: input textures in binding order
	//   - params: raw uniform block contents, or nil for pipelines without params
	//   - dst: the render target texture
	//
	// Returns:
	//   - error: ErrShaderUnsupported on the headless backend, or an error if
	//     the pipeline is unknown or encoding fails
	DrawFullscreen(pipelineKey string, inputs []Texture, params []byte, dst Texture) error

	// Generation returns the device's current context generation. The counter
	// starts at 1 and increments on every NotifyContextLost call.
	//
	// Returns:
	//   - uint64: the current generation
	Generation() uint64

	// NotifyContextLost records that the underlying graphics context was
	// invalidated and recreated. All textures created before this call belong
	// to a dead generation: releasing them becomes a no-op, and the graph must
	// reallocate every resource.
	NotifyContextLost()

	// ConfigureSurface sizes the presentation surface. Must be called before
	// AcquireFrame and again on every viewport resize.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	ConfigureSurface(width, height int)

	// AcquireFrame acquires the surface texture for the current frame. Must be
	// paired with Present after the frame's passes have executed.
	//
	// Returns:
	//   - Texture: the surface texture to render the final pass into
	//   - error: an error if the surface texture could not be acquired
	AcquireFrame() (Texture, error)

	// Present presents the acquired surface texture to the display and
	// releases it. Must be called once per frame after AcquireFrame.
	Present()

	// Release frees all device-owned objects. Safe to call multiple times.
	Release()
}
