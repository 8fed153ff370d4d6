package passes

import (
	"testing"

	"github.com/lumen3d/lumen-go/engine/camera"
	"github.com/lumen3d/lumen-go/engine/geometry"
	"github.com/lumen3d/lumen-go/engine/graph"
	"github.com/lumen3d/lumen-go/engine/renderer"
	"github.com/lumen3d/lumen-go/engine/scene"
)

// newPassEngine builds a headless engine of the given size for driving the
// built-in passes end to end.
func newPassEngine(t *testing.T, width, height int) (graph.Engine, renderer.Device) {
	t.Helper()
	device := renderer.NewHeadlessDevice(width, height)
	t.Cleanup(device.Release)
	e := graph.NewEngine(device, graph.WithInitialSize(width, height))
	t.Cleanup(e.Dispose)
	return e, device
}

// fillPass builds a pass that fills its first output with a constant byte
// color, bypassing the device so tests control exact pixel values.
func fillPass(name string, r, g, b byte, out graph.Binding) graph.Pass {
	return graph.NewPass(name,
		graph.WithOutputs(out),
		graph.WithExecute(func(ctx *graph.ExecContext) error {
			pix := ctx.Output(0).Pixels()
			for i := 0; i < len(pix); i += 4 {
				pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, 255
			}
			return nil
		}))
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestGeometryPassRasterizesWireframe(t *testing.T) {
	e, _ := newPassEngine(t, 64, 64)
	mustAdd(t, e.AddResource(graph.NewResource("color")))
	mustAdd(t, e.AddPass(NewGeometryPass(graph.Bind("color"))))
	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}

	scn := scene.NewScene()
	if _, err := scn.Add(geometry.KindHypercube, 3); err != nil {
		t.Fatal(err)
	}
	cam := camera.NewCamera(camera.WithAspect(1))

	if err := e.Execute(scn, cam, 0.016); err != nil {
		t.Fatal(err)
	}

	tex, err := e.Texture("color", graph.AttachmentColor)
	if err != nil {
		t.Fatal(err)
	}
	pix := tex.Pixels()
	var wire, background int
	for i := 0; i < len(pix); i += 4 {
		switch pix[i] {
		case 255:
			wire++
		case 5:
			background++
		}
	}
	if wire == 0 {
		t.Error("expected wireframe pixels, found none")
	}
	if background == 0 {
		t.Error("expected background pixels, found none")
	}
}

func TestGeometryPassWithoutSceneRendersBackground(t *testing.T) {
	e, _ := newPassEngine(t, 8, 8)
	mustAdd(t, e.AddResource(graph.NewResource("color")))
	mustAdd(t, e.AddPass(NewGeometryPass(graph.Bind("color"))))
	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}
	tex, err := e.Texture("color", graph.AttachmentColor)
	if err != nil {
		t.Fatal(err)
	}
	pix := tex.Pixels()
	if pix[0] != 5 || pix[2] != 13 || pix[3] != 255 {
		t.Fatalf("background = %v, want the dark clear color", pix[:4])
	}
}

func TestAccumulatePassBlendsHistory(t *testing.T) {
	e, _ := newPassEngine(t, 4, 4)
	mustAdd(t, e.AddResource(graph.NewResource("src")))
	mustAdd(t, e.AddResource(graph.NewResource("history", graph.WithPingPong())))

	frameColor := byte(255)
	mustAdd(t, e.AddPass(graph.NewPass("source",
		graph.WithOutputs(graph.Bind("src")),
		graph.WithExecute(func(ctx *graph.ExecContext) error {
			pix := ctx.Output(0).Pixels()
			for i := 0; i < len(pix); i += 4 {
				pix[i], pix[i+1], pix[i+2], pix[i+3] = frameColor, 0, 0, 255
			}
			return nil
		}))))
	mustAdd(t, e.AddPass(NewAccumulatePass(graph.Bind("src"), "history")))

	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}

	// Frame 1 seeds the history from the current frame regardless of the
	// blend factor.
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}
	// After the frame the previous-frame selector resolves to the half the
	// pass just wrote.
	tex, err := e.Texture("history", graph.AttachmentPrevious)
	if err != nil {
		t.Fatal(err)
	}
	if got := tex.Pixels()[0]; got != 255 {
		t.Fatalf("seeded history = %d, want 255", got)
	}

	// Frame 2 blends the new black source against the red history with the
	// default factor 0.85.
	frameColor = 0
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}
	tex, err = e.Texture("history", graph.AttachmentPrevious)
	if err != nil {
		t.Fatal(err)
	}
	want := mixByte(0, 255, 0.85)
	if got := tex.Pixels()[0]; got != want {
		t.Fatalf("blended history = %d, want %d", got, want)
	}
}

func TestAccumulatePassDisabledCopiesSource(t *testing.T) {
	e, _ := newPassEngine(t, 4, 4)
	mustAdd(t, e.AddResource(graph.NewResource("src")))
	mustAdd(t, e.AddResource(graph.NewResource("history", graph.WithPingPong())))
	mustAdd(t, e.AddPass(fillPass("source", 200, 10, 10, graph.Bind("src"))))
	mustAdd(t, e.AddPass(NewAccumulatePass(graph.Bind("src"), "history")))

	e.SetStoreGetters(map[string]graph.StoreGetter{
		"accumulationEnabled": func() any { return false },
	})
	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}

	tex, err := e.Texture("history", graph.AttachmentPrevious)
	if err != nil {
		t.Fatal(err)
	}
	if got := tex.Pixels()[0]; got != 200 {
		t.Fatalf("passthrough history = %d, want the unblended source 200", got)
	}
	if stats := e.Stats(); stats.Passthrough != 1 {
		t.Errorf("stats = %+v, want 1 passthrough", stats)
	}
}

func TestBlurPassSoftensEdges(t *testing.T) {
	e, _ := newPassEngine(t, 8, 8)
	mustAdd(t, e.AddResource(graph.NewResource("src")))
	mustAdd(t, e.AddResource(graph.NewResource("half", graph.WithScale(0.5))))

	// Left half white, right half black: the boundary must smear.
	mustAdd(t, e.AddPass(graph.NewPass("seed",
		graph.WithOutputs(graph.Bind("src")),
		graph.WithExecute(func(ctx *graph.ExecContext) error {
			dst := ctx.Output(0)
			pix := dst.Pixels()
			for y := 0; y < dst.Height(); y++ {
				for x := 0; x < dst.Width(); x++ {
					i := (y*dst.Width() + x) * 4
					var v byte
					if x < dst.Width()/2 {
						v = 255
					}
					pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
				}
			}
			return nil
		}))))
	mustAdd(t, e.AddPass(NewBlurPass(graph.Bind("src"), graph.Bind("half"))))

	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}

	tex, err := e.Texture("half", graph.AttachmentColor)
	if err != nil {
		t.Fatal(err)
	}
	if tex.Width() != 4 || tex.Height() != 4 {
		t.Fatalf("half size = %dx%d, want 4x4", tex.Width(), tex.Height())
	}
	var intermediate bool
	pix := tex.Pixels()
	for i := 0; i < len(pix); i += 4 {
		if pix[i] > 0 && pix[i] < 255 {
			intermediate = true
			break
		}
	}
	if !intermediate {
		t.Error("expected intermediate values along the blurred boundary")
	}
}

func TestBlurPassDisabledCopies(t *testing.T) {
	e, _ := newPassEngine(t, 8, 8)
	mustAdd(t, e.AddResource(graph.NewResource("src")))
	mustAdd(t, e.AddResource(graph.NewResource("half", graph.WithScale(0.5))))
	mustAdd(t, e.AddPass(fillPass("seed", 80, 80, 80, graph.Bind("src"))))
	mustAdd(t, e.AddPass(NewBlurPass(graph.Bind("src"), graph.Bind("half"))))

	e.SetStoreGetters(map[string]graph.StoreGetter{
		"bloom": func() any { return false },
	})
	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}

	tex, err := e.Texture("half", graph.AttachmentColor)
	if err != nil {
		t.Fatal(err)
	}
	pix := tex.Pixels()
	for i := 0; i < len(pix); i += 4 {
		if pix[i] != 80 {
			t.Fatalf("pixel %d = %d, want the uniform copy 80", i/4, pix[i])
		}
	}
}

func TestCompositePassAddsGlow(t *testing.T) {
	e, device := newPassEngine(t, 4, 4)
	mustAdd(t, e.AddResource(graph.NewResource("base")))
	mustAdd(t, e.AddResource(graph.NewResource("glow")))
	mustAdd(t, e.AddPass(fillPass("base", 50, 50, 50, graph.Bind("base"))))
	mustAdd(t, e.AddPass(fillPass("glow", 100, 0, 0, graph.Bind("glow"))))
	mustAdd(t, e.AddPass(NewCompositePass(graph.Bind("base"), graph.Bind("glow"))))

	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}

	surface, err := device.AcquireFrame()
	if err != nil {
		t.Fatal(err)
	}
	px := surface.Pixels()
	// Default intensity 0.6: 50 + round(100*0.6) on red, base alone elsewhere.
	if px[0] != 110 || px[1] != 50 || px[2] != 50 || px[3] != 255 {
		t.Fatalf("surface = %v, want [110 50 50 255]", px[:4])
	}
}

func TestCompositePassIntensityFromStore(t *testing.T) {
	e, device := newPassEngine(t, 4, 4)
	mustAdd(t, e.AddResource(graph.NewResource("base")))
	mustAdd(t, e.AddResource(graph.NewResource("glow")))
	mustAdd(t, e.AddPass(fillPass("base", 200, 200, 200, graph.Bind("base"))))
	mustAdd(t, e.AddPass(fillPass("glow", 200, 200, 200, graph.Bind("glow"))))
	mustAdd(t, e.AddPass(NewCompositePass(graph.Bind("base"), graph.Bind("glow"))))

	e.SetStoreGetters(map[string]graph.StoreGetter{
		"glowIntensity": func() any { return float32(1.0) },
	})
	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}

	surface, err := device.AcquireFrame()
	if err != nil {
		t.Fatal(err)
	}
	// 200 + 200 saturates.
	if got := surface.Pixels()[0]; got != 255 {
		t.Fatalf("saturated channel = %d, want 255", got)
	}
}

func TestEnvCapturePassGatedAndResampled(t *testing.T) {
	e, _ := newPassEngine(t, 8, 8)
	mustAdd(t, e.AddResource(graph.NewResource("base")))
	mustAdd(t, e.AddResource(graph.NewResource("env", graph.WithFixedSize(4, 4))))
	mustAdd(t, e.AddPass(fillPass("base", 30, 60, 90, graph.Bind("base"))))
	mustAdd(t, e.AddPass(NewEnvCapturePass(graph.Bind("base"), graph.Bind("env"))))

	capture := false
	e.SetStoreGetters(map[string]graph.StoreGetter{
		"envCapture": func() any { return capture },
	})
	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}

	// Off by default: the pass has no passthrough, so the capture stays
	// untouched and the frame counts it as skipped.
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}
	if stats := e.Stats(); stats.Skipped != 1 {
		t.Fatalf("stats = %+v, want 1 skipped", stats)
	}

	capture = true
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}
	tex, err := e.Texture("env", graph.AttachmentColor)
	if err != nil {
		t.Fatal(err)
	}
	if tex.Width() != 4 || tex.Height() != 4 {
		t.Fatalf("capture size = %dx%d, want the fixed 4x4", tex.Width(), tex.Height())
	}
	pix := tex.Pixels()
	if pix[0] != 30 || pix[1] != 60 || pix[2] != 90 {
		t.Fatalf("capture pixel = %v, want [30 60 90]", pix[:4])
	}
}
