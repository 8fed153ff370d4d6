package renderer

import (
	"fmt"

	"github.com/lumen3d/lumen-go/engine/renderer/pipeline"
)

// headlessTexture is a CPU-backed texture: a plain pixel buffer with the same
// descriptor surface as a GPU texture.
type headlessTexture struct {
	label      string
	width      int
	height     int
	format     TextureFormat
	filter     FilterMode
	generation uint64
	pix        []byte
	released   bool
}

var _ Texture = &headlessTexture{}

func (t *headlessTexture) Label() string         { return t.label }
func (t *headlessTexture) Width() int            { return t.width }
func (t *headlessTexture) Height() int           { return t.height }
func (t *headlessTexture) Format() TextureFormat { return t.format }
func (t *headlessTexture) Filter() FilterMode    { return t.filter }
func (t *headlessTexture) Generation() uint64    { return t.generation }

func (t *headlessTexture) Pixels() []byte {
	if t.released {
		return nil
	}
	return t.pix
}

func (t *headlessTexture) Release() {
	t.released = true
	t.pix = nil
}

// headlessDeviceBackend is the CPU implementation of the Device interface.
// Textures are byte slices, Blit is a pixel copy (with nearest-neighbor
// resampling when sizes differ), and shader pipelines are unsupported. It
// exists so the render graph and its tests can run without a GPU while still
// asserting on actual texture contents.
type headlessDeviceBackend struct {
	generation uint64

	surface       *headlessTexture
	surfaceWidth  int
	surfaceHeight int

	// pipelines records registered descriptions so unknown-key errors behave
	// the same as on the GPU backend.
	pipelines map[string]pipeline.Pipeline

	released bool
}

var _ Device = &headlessDeviceBackend{}

// NewHeadlessDevice creates a CPU-backed Device for tests and GPU-less
// environments. The surface defaults to the given size and can be
// reconfigured with ConfigureSurface.
//
// Parameters:
//   - width: initial surface width in pixels
//   - height: initial surface height in pixels
//
// Returns:
//   - Device: the headless device
func NewHeadlessDevice(width, height int) Device {
	d := &headlessDeviceBackend{
		generation: 1,
		pipelines:  make(map[string]pipeline.Pipeline),
	}
	d.ConfigureSurface(width, height)
	return d
}

func (d *headlessDeviceBackend) CreateTexture(desc TextureDescriptor) (Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("renderer: invalid texture size %dx%d for %q", desc.Width, desc.Height, desc.Label)
	}
	return &headlessTexture{
		label:      desc.Label,
		width:      desc.Width,
		height:     desc.Height,
		format:     desc.Format,
		filter:     desc.Filter,
		generation: d.generation,
		pix:        make([]byte, desc.Width*desc.Height*desc.Format.BytesPerPixel()),
	}, nil
}

func (d *headlessDeviceBackend) Blit(src, dst Texture) error {
	sp, dp := src.Pixels(), dst.Pixels()
	if sp == nil || dp == nil {
		return fmt.Errorf("renderer: blit requires live headless textures (src %q, dst %q)", src.Label(), dst.Label())
	}
	if src.Format() != dst.Format() {
		return fmt.Errorf("renderer: blit format mismatch %v -> %v", src.Format(), dst.Format())
	}

	bpp := src.Format().BytesPerPixel()
	if src.Width() == dst.Width() && src.Height() == dst.Height() {
		copy(dp, sp)
		return nil
	}

	// Nearest-neighbor resample for fractional-resolution copies.
	for y := 0; y < dst.Height(); y++ {
		sy := y * src.Height() / dst.Height()
		for x := 0; x < dst.Width(); x++ {
			sx := x * src.Width() / dst.Width()
			si := (sy*src.Width() + sx) * bpp
			di := (y*dst.Width() + x) * bpp
			copy(dp[di:di+bpp], sp[si:si+bpp])
		}
	}
	return nil
}

func (d *headlessDeviceBackend) Clear(dst Texture, r, g, b, a float32) error {
	dp := dst.Pixels()
	if dp == nil {
		return fmt.Errorf("renderer: clear requires a live headless texture (%q)", dst.Label())
	}
	if dst.Format() != FormatRGBA8Unorm {
		// Float formats are cleared to zero regardless of the color; the
		// headless backend only models exact colors for 8-bit targets.
		for i := range dp {
			dp[i] = 0
		}
		return nil
	}
	px := [4]byte{clampByte(r), clampByte(g), clampByte(b), clampByte(a)}
	for i := 0; i < len(dp); i += 4 {
		copy(dp[i:i+4], px[:])
	}
	return nil
}

func clampByte(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

func (d *headlessDeviceBackend) RegisterPipeline(p pipeline.Pipeline) error {
	if p == nil || p.PipelineKey() == "" {
		return fmt.Errorf("renderer: cannot register a nil or unkeyed pipeline")
	}
	if _, exists := d.pipelines[p.PipelineKey()]; exists {
		return nil
	}
	d.pipelines[p.PipelineKey()] = p
	return nil
}

func (d *headlessDeviceBackend) DrawFullscreen(pipelineKey string, inputs []Texture, params []byte, dst Texture) error {
	if _, exists := d.pipelines[pipelineKey]; !exists {
		return fmt.Errorf("renderer: pipeline %q not registered", pipelineKey)
	}
	return ErrShaderUnsupported
}

func (d *headlessDeviceBackend) Generation() uint64 {
	return d.generation
}

func (d *headlessDeviceBackend) NotifyContextLost() {
	d.generation++
}

func (d *headlessDeviceBackend) ConfigureSurface(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	d.surfaceWidth, d.surfaceHeight = width, height
	d.surface = &headlessTexture{
		label:      "Headless Surface",
		width:      width,
		height:     height,
		format:     FormatRGBA8Unorm,
		filter:     FilterLinear,
		generation: d.generation,
		pix:        make([]byte, width*height*4),
	}
}

func (d *headlessDeviceBackend) AcquireFrame() (Texture, error) {
	if d.released {
		return nil, fmt.Errorf("renderer: device already released")
	}
	return d.surface, nil
}

func (d *headlessDeviceBackend) Present() {
	// Nothing to present without a display; the surface retains its contents
	// so tests can inspect the final frame.
}

func (d *headlessDeviceBackend) Release() {
	if d.released {
		return
	}
	d.released = true
	if d.surface != nil {
		d.surface.Release()
	}
}
