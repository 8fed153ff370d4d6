package renderer

import (
	"errors"
	"testing"

	"github.com/lumen3d/lumen-go/engine/renderer/pipeline"
	"github.com/lumen3d/lumen-go/engine/renderer/shader"
)

func TestHeadlessCreateTexture(t *testing.T) {
	tests := []struct {
		name    string
		desc    TextureDescriptor
		wantErr bool
		wantLen int
	}{
		{
			name:    "rgba8",
			desc:    TextureDescriptor{Label: "color", Width: 4, Height: 2, Format: FormatRGBA8Unorm},
			wantLen: 4 * 2 * 4,
		},
		{
			name:    "rgba16float",
			desc:    TextureDescriptor{Label: "hdr", Width: 2, Height: 2, Format: FormatRGBA16Float},
			wantLen: 2 * 2 * 8,
		},
		{
			name:    "zero width",
			desc:    TextureDescriptor{Label: "bad", Width: 0, Height: 2},
			wantErr: true,
		},
		{
			name:    "negative height",
			desc:    TextureDescriptor{Label: "bad", Width: 2, Height: -1},
			wantErr: true,
		},
	}

	d := NewHeadlessDevice(8, 8)
	defer d.Release()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex, err := d.CreateTexture(tt.desc)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := len(tex.Pixels()); got != tt.wantLen {
				t.Errorf("pixel buffer length = %d, want %d", got, tt.wantLen)
			}
			if tex.Generation() != d.Generation() {
				t.Errorf("generation = %d, want %d", tex.Generation(), d.Generation())
			}
		})
	}
}

func TestHeadlessClearAndBlit(t *testing.T) {
	d := NewHeadlessDevice(8, 8)
	defer d.Release()

	src, err := d.CreateTexture(TextureDescriptor{Label: "src", Width: 4, Height: 4, Format: FormatRGBA8Unorm})
	if err != nil {
		t.Fatal(err)
	}
	dst, err := d.CreateTexture(TextureDescriptor{Label: "dst", Width: 4, Height: 4, Format: FormatRGBA8Unorm})
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Clear(src, 1, 0, 0.5, 1); err != nil {
		t.Fatal(err)
	}
	px := src.Pixels()
	if px[0] != 255 || px[1] != 0 || px[2] != 128 || px[3] != 255 {
		t.Errorf("clear color = %v, want [255 0 128 255]", px[:4])
	}

	if err := d.Blit(src, dst); err != nil {
		t.Fatal(err)
	}
	dp := dst.Pixels()
	for i := 0; i < len(dp); i += 4 {
		if dp[i] != 255 || dp[i+3] != 255 {
			t.Fatalf("blit pixel %d = %v, want red", i/4, dp[i:i+4])
		}
	}
}

func TestHeadlessBlitResample(t *testing.T) {
	d := NewHeadlessDevice(8, 8)
	defer d.Release()

	src, _ := d.CreateTexture(TextureDescriptor{Label: "src", Width: 2, Height: 2, Format: FormatRGBA8Unorm})
	dst, _ := d.CreateTexture(TextureDescriptor{Label: "dst", Width: 4, Height: 4, Format: FormatRGBA8Unorm})

	// Top-left source pixel white, rest black.
	sp := src.Pixels()
	copy(sp[0:4], []byte{255, 255, 255, 255})

	if err := d.Blit(src, dst); err != nil {
		t.Fatal(err)
	}
	dp := dst.Pixels()
	// The upscaled top-left 2x2 quadrant maps back to source pixel (0,0).
	if dp[0] != 255 {
		t.Error("expected top-left of upscale to be white")
	}
	lastRow := (3*4 + 3) * 4
	if dp[lastRow] != 0 {
		t.Error("expected bottom-right of upscale to be black")
	}
}

func TestHeadlessBlitFormatMismatch(t *testing.T) {
	d := NewHeadlessDevice(8, 8)
	defer d.Release()

	src, _ := d.CreateTexture(TextureDescriptor{Label: "src", Width: 2, Height: 2, Format: FormatRGBA8Unorm})
	dst, _ := d.CreateTexture(TextureDescriptor{Label: "dst", Width: 2, Height: 2, Format: FormatRGBA16Float})

	if err := d.Blit(src, dst); err == nil {
		t.Fatal("expected format mismatch error")
	}
}

func TestHeadlessDrawFullscreen(t *testing.T) {
	d := NewHeadlessDevice(8, 8)
	defer d.Release()

	dst, _ := d.CreateTexture(TextureDescriptor{Label: "dst", Width: 2, Height: 2, Format: FormatRGBA8Unorm})

	if err := d.DrawFullscreen("unknown", nil, nil, dst); err == nil {
		t.Fatal("expected unknown pipeline error")
	}

	fs, err := shader.NewShader("test_fs", shader.ShaderTypeFragment, "@fragment\nfn fs_main() {}")
	if err != nil {
		t.Fatal(err)
	}
	p := pipeline.NewPipeline("test", pipeline.PipelineTypeRender, pipeline.WithFragmentShader(fs))
	if err := d.RegisterPipeline(p); err != nil {
		t.Fatal(err)
	}
	if err := d.DrawFullscreen("test", nil, nil, dst); !errors.Is(err, ErrShaderUnsupported) {
		t.Fatalf("err = %v, want ErrShaderUnsupported", err)
	}
}

func TestHeadlessContextLoss(t *testing.T) {
	d := NewHeadlessDevice(8, 8)
	defer d.Release()

	if d.Generation() != 1 {
		t.Fatalf("initial generation = %d, want 1", d.Generation())
	}
	tex, _ := d.CreateTexture(TextureDescriptor{Label: "t", Width: 2, Height: 2, Format: FormatRGBA8Unorm})

	d.NotifyContextLost()
	if d.Generation() != 2 {
		t.Fatalf("generation after loss = %d, want 2", d.Generation())
	}
	if tex.Generation() == d.Generation() {
		t.Error("old texture should belong to the previous generation")
	}

	// Release of a stale handle must not panic.
	tex.Release()
}

func TestHeadlessSurface(t *testing.T) {
	d := NewHeadlessDevice(16, 9)
	defer d.Release()

	frame, err := d.AcquireFrame()
	if err != nil {
		t.Fatal(err)
	}
	if frame.Width() != 16 || frame.Height() != 9 {
		t.Errorf("surface size = %dx%d, want 16x9", frame.Width(), frame.Height())
	}

	d.ConfigureSurface(32, 18)
	frame, err = d.AcquireFrame()
	if err != nil {
		t.Fatal(err)
	}
	if frame.Width() != 32 || frame.Height() != 18 {
		t.Errorf("resized surface = %dx%d, want 32x18", frame.Width(), frame.Height())
	}
	d.Present()
}
