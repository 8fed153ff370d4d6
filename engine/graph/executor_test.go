package graph

import (
	"bytes"
	"errors"
	"testing"

	"github.com/lumen3d/lumen-go/engine/renderer"
)

// clearPass builds a pass that fills its first output with a constant color.
func clearPass(name string, r, g, b float32, opts ...PassBuilderOption) Pass {
	opts = append(opts, WithExecute(func(ctx *ExecContext) error {
		return ctx.Device.Clear(ctx.Output(0), r, g, b, 1)
	}))
	return NewPass(name, opts...)
}

// copyPass builds a pass that blits its first input to its first output.
func copyPass(name string, opts ...PassBuilderOption) Pass {
	opts = append(opts, WithExecute(func(ctx *ExecContext) error {
		return ctx.Device.Blit(ctx.Input(0), ctx.Output(0))
	}))
	return NewPass(name, opts...)
}

func TestExecuteExampleScenario(t *testing.T) {
	device := renderer.NewHeadlessDevice(8, 8)
	defer device.Release()
	e := NewEngine(device, WithInitialSize(8, 8))

	mustAdd(t, e.AddResource(NewResource("colorA")))
	mustAdd(t, e.AddResource(NewResource("colorB", WithPingPong())))

	mustAdd(t, e.AddPass(clearPass("P1", 1, 0, 0, WithOutputs(Bind("colorA")))))
	mustAdd(t, e.AddPass(clearPass("P2", 0, 1, 0,
		WithInputs(Bind("colorA")),
		WithOutputs(Bind("colorB")),
		WithEnabled(func(ctx *FrameContext) bool { return ctx.Bool("p2", true) }),
		WithPassthrough(Bind("colorA"), Bind("colorB")))))
	mustAdd(t, e.AddPass(copyPass("P3",
		WithInputs(Bind("colorB")),
		WithOutputs(Bind(ResourceScreen)))))

	p2Enabled := true
	e.SetStoreGetters(map[string]StoreGetter{
		"p2": func() any { return p2Enabled },
	})

	plan, err := e.Compile()
	if err != nil {
		t.Fatal(err)
	}
	order := plan.Order()
	if order[0] != "P1" || order[1] != "P2" || order[2] != "P3" {
		t.Fatalf("order = %v, want [P1 P2 P3]", order)
	}

	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}
	surface, err := device.AcquireFrame()
	if err != nil {
		t.Fatal(err)
	}
	px := surface.Pixels()
	if px[0] != 0 || px[1] != 255 {
		t.Fatalf("enabled P2 should show green, got %v", px[:4])
	}

	// Disabling P2 makes the passthrough copy colorA into colorB, so P3 must
	// observe colorA's contents.
	p2Enabled = false
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}
	px = surface.Pixels()
	if px[0] != 255 || px[1] != 0 {
		t.Fatalf("disabled P2 should show colorA's red, got %v", px[:4])
	}

	stats := e.Stats()
	if stats.Executed != 2 || stats.Passthrough != 1 || stats.Skipped != 0 {
		t.Errorf("stats = %+v, want 2 executed, 1 passthrough", stats)
	}
}

func TestExecuteFrameIsolation(t *testing.T) {
	e := newTestEngine(t)
	mustAdd(t, e.AddResource(NewResource("a")))

	live := float32(1.0)
	e.SetStoreGetters(map[string]StoreGetter{
		"intensity": func() any { return live },
	})

	var observedByLate float32
	mustAdd(t, e.AddPass(NewPass("early",
		WithOutputs(Bind("a")),
		WithExecute(func(ctx *ExecContext) error {
			// A concurrent input event mutating the store mid-frame.
			live = 99
			return nil
		}))))
	mustAdd(t, e.AddPass(NewPass("late",
		WithInputs(Bind("a")),
		WithExecute(func(ctx *ExecContext) error {
			observedByLate = ctx.Frame.Float("intensity", -1)
			return nil
		}))))

	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}
	if observedByLate != 1.0 {
		t.Fatalf("late pass observed %v, want the frame-start snapshot 1.0", observedByLate)
	}

	// The next frame's capture picks up the mutation.
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}
	if observedByLate != 99 {
		t.Fatalf("second frame observed %v, want 99", observedByLate)
	}
}

func TestExecutePassthroughIdempotence(t *testing.T) {
	device := renderer.NewHeadlessDevice(8, 8)
	defer device.Release()
	e := NewEngine(device, WithInitialSize(8, 8))

	mustAdd(t, e.AddResource(NewResource("in")))
	mustAdd(t, e.AddResource(NewResource("out")))
	mustAdd(t, e.AddPass(clearPass("produce", 0.25, 0.5, 0.75, WithOutputs(Bind("in")))))
	mustAdd(t, e.AddPass(clearPass("effect", 1, 1, 1,
		WithInputs(Bind("in")),
		WithOutputs(Bind("out")),
		WithEnabled(func(*FrameContext) bool { return false }),
		WithPassthrough(Bind("in"), Bind("out")))))

	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}

	var first []byte
	for frame := 0; frame < 5; frame++ {
		if err := e.Execute(nil, nil, 0.016); err != nil {
			t.Fatal(err)
		}
		tex, err := e.Texture("out", AttachmentColor)
		if err != nil {
			t.Fatal(err)
		}
		if first == nil {
			first = append([]byte(nil), tex.Pixels()...)
			continue
		}
		if !bytes.Equal(first, tex.Pixels()) {
			t.Fatalf("frame %d passthrough output drifted from frame 1", frame+1)
		}
	}
}

func TestExecutePingPongCorrectness(t *testing.T) {
	device := renderer.NewHeadlessDevice(8, 8)
	defer device.Release()
	e := NewEngine(device, WithInitialSize(8, 8))

	mustAdd(t, e.AddResource(NewResource("history", WithPingPong())))

	var frame byte
	var prevObserved []byte
	mustAdd(t, e.AddPass(NewPass("accumulate",
		WithInputs(BindAttachment("history", AttachmentPrevious)),
		WithOutputs(Bind("history")),
		WithExecute(func(ctx *ExecContext) error {
			read, write := ctx.Input(0), ctx.Output(0)
			if read == write {
				t.Fatal("read and write halves must never be the same buffer within a frame")
			}
			prevObserved = append([]byte(nil), read.Pixels()[:1]...)
			return ctx.Device.Clear(write, float32(frame)/255, 0, 0, 1)
		}))))

	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}

	for frame = 1; frame <= 5; frame++ {
		if err := e.Execute(nil, nil, 0.016); err != nil {
			t.Fatal(err)
		}
		if frame > 1 && prevObserved[0] != frame-1 {
			t.Fatalf("frame %d read half holds %d, want previous frame's %d", frame, prevObserved[0], frame-1)
		}
		// Between frames the previous-frame selector resolves to this frame's
		// output.
		stable, err := e.Texture("history", AttachmentPrevious)
		if err != nil {
			t.Fatal(err)
		}
		if stable.Pixels()[0] != frame {
			t.Fatalf("after frame %d the stable half holds %d", frame, stable.Pixels()[0])
		}
	}
}

func TestExecutePingPongSwapsOnlyWhenWritten(t *testing.T) {
	e := newTestEngine(t)
	mustAdd(t, e.AddResource(NewResource("history", WithPingPong())))
	enabled := true
	mustAdd(t, e.AddPass(NewPass("writer",
		WithOutputs(Bind("history")),
		WithEnabled(func(*FrameContext) bool { return enabled }),
		WithExecute(func(ctx *ExecContext) error {
			return ctx.Device.Clear(ctx.Output(0), 1, 1, 1, 1)
		}))))

	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}
	afterWrite, _ := e.Texture("history", AttachmentPrevious)

	// A frame where no pass writes the pair must not swap it; the stable half
	// keeps the last written contents.
	enabled = false
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}
	afterSkip, _ := e.Texture("history", AttachmentPrevious)
	if afterWrite != afterSkip {
		t.Fatal("skipped frame must not swap the ping-pong pair")
	}
	if afterSkip.Pixels()[0] != 255 {
		t.Fatal("stable half lost its contents across a skipped frame")
	}
}

func TestSetSizeStability(t *testing.T) {
	device := renderer.NewHeadlessDevice(16, 16)
	defer device.Release()
	e := NewEngine(device, WithInitialSize(16, 16))

	mustAdd(t, e.AddResource(NewResource("full")))
	mustAdd(t, e.AddResource(NewResource("half", WithScale(0.5))))
	mustAdd(t, e.AddResource(NewResource("lut", WithFixedSize(64, 64))))
	mustAdd(t, e.AddPass(NewPass("noop", WithInputs(Bind("full"), Bind("half"), Bind("lut")))))

	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}

	fullBefore, _ := e.Texture("full", AttachmentColor)
	lutBefore, _ := e.Texture("lut", AttachmentColor)

	// Same size: nothing reallocates.
	if err := e.SetSize(16, 16); err != nil {
		t.Fatal(err)
	}
	fullAfter, _ := e.Texture("full", AttachmentColor)
	if fullBefore != fullAfter {
		t.Fatal("same-size SetSize must not reallocate")
	}

	// New size: viewport-dependent resources reallocate, fixed ones keep
	// their textures, and every id stays resolvable.
	if err := e.SetSize(32, 32); err != nil {
		t.Fatal(err)
	}
	dims := e.ResourceDimensions()
	if dims["full"].Width != 32 || dims["half"].Width != 16 || dims["lut"].Width != 64 {
		t.Fatalf("dims after resize = %v", dims)
	}
	lutAfter, _ := e.Texture("lut", AttachmentColor)
	if lutBefore != lutAfter {
		t.Fatal("fixed-size resource must survive a resize untouched")
	}
	if _, err := e.Texture("half", AttachmentColor); err != nil {
		t.Fatalf("resource identity lost across resize: %v", err)
	}
}

func TestExecuteMisuse(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Execute(nil, nil, 0.016); !errors.Is(err, ErrNotCompiled) {
		t.Fatalf("err = %v, want ErrNotCompiled", err)
	}

	mustAdd(t, e.AddResource(NewResource("a")))
	mustAdd(t, e.AddPass(clearPass("p", 1, 1, 1, WithOutputs(Bind("a")))))
	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}

	e.Dispose()
	e.Dispose()
	if err := e.Execute(nil, nil, 0.016); !errors.Is(err, ErrDisposed) {
		t.Fatalf("err = %v, want ErrDisposed", err)
	}
	if _, err := e.Compile(); !errors.Is(err, ErrDisposed) {
		t.Fatalf("compile after dispose = %v, want ErrDisposed", err)
	}
}

func TestExecuteWithoutSize(t *testing.T) {
	device := renderer.NewHeadlessDevice(8, 8)
	defer device.Release()
	e := NewEngine(device)

	mustAdd(t, e.AddResource(NewResource("a")))
	mustAdd(t, e.AddPass(clearPass("p", 1, 1, 1, WithOutputs(Bind("a")))))
	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := e.Execute(nil, nil, 0.016); !errors.Is(err, ErrNotSized) {
		t.Fatalf("err = %v, want ErrNotSized", err)
	}

	// SetSize after compile allocates lazily and unblocks execution.
	if err := e.SetSize(8, 8); err != nil {
		t.Fatal(err)
	}
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}
}

func TestContextLossRecovery(t *testing.T) {
	device := renderer.NewHeadlessDevice(8, 8)
	defer device.Release()
	e := NewEngine(device, WithInitialSize(8, 8))

	mustAdd(t, e.AddResource(NewResource("a")))
	mustAdd(t, e.AddPass(clearPass("p", 1, 0, 0, WithOutputs(Bind("a")))))
	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}
	stale, _ := e.Texture("a", AttachmentColor)
	if stale.Generation() != 1 {
		t.Fatalf("generation = %d, want 1", stale.Generation())
	}

	e.NotifyContextLost()
	if _, err := e.Recompile(); err != nil {
		t.Fatal(err)
	}
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}
	fresh, _ := e.Texture("a", AttachmentColor)
	if fresh.Generation() != 2 {
		t.Fatalf("generation after recovery = %d, want 2", fresh.Generation())
	}
	if fresh == stale {
		t.Fatal("recovery must reallocate resources")
	}
}

func TestExportsRunInOrderAfterPasses(t *testing.T) {
	e := newTestEngine(t)
	mustAdd(t, e.AddResource(NewResource("env", WithFixedSize(4, 4))))

	var sequence []string
	mustAdd(t, e.AddPass(NewPass("capture",
		WithOutputs(Bind("env")),
		WithExecute(func(ctx *ExecContext) error {
			sequence = append(sequence, "pass")
			return ctx.Device.Clear(ctx.Output(0), 0, 0, 1, 1)
		}))))

	e.AddExport("first", func(ctx *ExportContext) error {
		sequence = append(sequence, "first")
		tex, err := ctx.Texture("env", AttachmentColor)
		if err != nil {
			return err
		}
		if tex.Pixels()[2] != 255 {
			t.Error("export should observe the pass's output")
		}
		return nil
	})
	e.AddExport("second", func(ctx *ExportContext) error {
		sequence = append(sequence, "second")
		return nil
	})

	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatal(err)
	}

	want := []string{"pass", "first", "second"}
	if len(sequence) != len(want) {
		t.Fatalf("sequence = %v, want %v", sequence, want)
	}
	for i := range want {
		if sequence[i] != want[i] {
			t.Fatalf("sequence = %v, want %v", sequence, want)
		}
	}
}

func TestPassErrorsDegradeWithoutAborting(t *testing.T) {
	e := newTestEngine(t)
	mustAdd(t, e.AddResource(NewResource("a")))

	ran := false
	mustAdd(t, e.AddPass(NewPass("failing",
		WithOutputs(Bind("a")),
		WithExecute(func(*ExecContext) error {
			return errors.New("optional texture unavailable")
		}))))
	mustAdd(t, e.AddPass(NewPass("after",
		WithInputs(Bind("a")),
		WithExecute(func(*ExecContext) error {
			ran = true
			return nil
		}))))

	if _, err := e.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := e.Execute(nil, nil, 0.016); err != nil {
		t.Fatalf("a pass degradation must not abort the frame: %v", err)
	}
	if !ran {
		t.Fatal("downstream pass should still run after an upstream degradation")
	}
}
