// Command demo is the minimal render/window harness SPEC_FULL.md adds to
// give the teacher's non-anim dependency stack
// (github.com/cogentcore/webgpu, github.com/go-gl/glfw/v3.3/glfw) a
// grounded, compiling caller, playing the role of the spec's external
// render/window collaborator (spec.md §6: "out of scope... the entire
// renderer and its Vulkan plumbing; ...the windowing and input layer").
// It deliberately does not replicate the teacher's deferred/forward
// renderer, material system, or lighting — those remain out of scope.
// Every frame it drives a graph.Instance with a fixed tick, clears the
// swapchain to a solid color (grounded on the teacher's
// wgpu_renderer_backend.go BeginFrame/EndFrame/Present sequence, trimmed
// to the clear-only render pass a skinned-mesh draw call would otherwise
// sit inside — skinning matrix computation and GPU upload are themselves
// out of scope per spec.md §1), and logs the sampled events and
// root-motion delta for the frame.
package main

import (
	"flag"
	"log"
	"runtime"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/oxygraph/animgraph/clip"
	"github.com/oxygraph/animgraph/common"
	"github.com/oxygraph/animgraph/config"
	"github.com/oxygraph/animgraph/dataset"
	"github.com/oxygraph/animgraph/debug"
	"github.com/oxygraph/animgraph/graph"
	"github.com/oxygraph/animgraph/skeleton"
	"github.com/oxygraph/animgraph/synctrack"
	"github.com/oxygraph/animgraph/world"
)

func main() {
	configPath := flag.String("config", "", "path to a demo config file (yaml/json/toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
 log.Fatalf("demo: loading config: %v", err)
	}

	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
 log.Fatalf("demo: glfw.Init: %v", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	win, err := glfw.CreateWindow(cfg.WindowWidth, cfg.WindowHeight, cfg.WindowTitle, nil, nil)
	if err != nil {
 log.Fatalf("demo: glfw.CreateWindow: %v", err)
	}

	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(win))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{CompatibleSurface: surface})
	if err != nil {
 log.Fatalf("demo: RequestAdapter: %v", err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "animgraph demo device"})
	if err != nil {
 log.Fatalf("demo: RequestDevice: %v", err)
	}
	queue := device.GetQueue()

	capabilities := surface.GetCapabilities(adapter)
	surfaceFormat := capabilities.Formats[0]
	surface.Configure(adapter, device, &wgpu.SurfaceConfiguration{
 Usage: wgpu.TextureUsageRenderAttachment,
 Format: surfaceFormat,
 Width: uint32(cfg.WindowWidth),
 Height: uint32(cfg.WindowHeight),
 PresentMode: wgpu.PresentModeFifo,
 AlphaMode: capabilities.AlphaModes[0],
	})

	gi, err := buildDemoInstance()
	if err != nil {
 log.Fatalf("demo: building graph instance: %v", err)
	}
	if err := gi.Initialize(synctrack.Time{}); err != nil {
 log.Fatalf("demo: initializing graph instance: %v", err)
	}
	defer gi.Shutdown()

	w := world.New(world.WithWorkers(1))
	instanceID := w.Register(gi)

	if cfg.DebugAddr != "" {
 srv := debug.New(w, 100*time.Millisecond)
 go func() {
 if err := srv.ListenAndServe(cfg.DebugAddr); err != nil {
 log.Printf("demo: debug server stopped: %v", err)
 }
 }()
 log.Printf("demo: debug introspection listening on %s (instance %d)", cfg.DebugAddr, instanceID)
	}

	ticker := time.NewTicker(cfg.TickRate)
	defer ticker.Stop()

	for !win.ShouldClose() {
 glfw.PollEvents()

 select {
 case <-ticker.C:
 results := w.Tick(float32(cfg.TickRate.Seconds()), nil)
 for _, r := range results {
 if r.Err != nil {
 continue
 }
 for _, ev := range r.Result.Events {
 log.Printf("demo: event %q weight=%.2f", ev.Event.Name, ev.Weight)
 }
 log.Printf("demo: root motion translation=%v", r.Result.RootMotionDelta.Translation)
 }
 default:
 }

 if err := presentClearFrame(surface, device, queue); err != nil {
 log.Printf("demo: present: %v", err)
 }
	}
}

// presentClearFrame runs the render-pass lifecycle trimmed to a clear
// color, the part of wgpu_renderer_backend.go's BeginFrame/EndFrame/
// Present sequence that survives once the draw call in between is
// removed — there is no skinned mesh to draw since the core hands off a
// Pose, not GPU buffers (spec.md §6: skinning-matrix derivation and GPU
// upload belong to the render layer, out of scope here).
func presentClearFrame(surface *wgpu.Surface, device *wgpu.Device, queue *wgpu.Queue) error {
	surfaceTexture, err := surface.GetCurrentTexture()
	if err != nil {
 return err
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
 return err
	}
	defer view.Release()

	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
 return err
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
 ColorAttachments: []wgpu.RenderPassColorAttachment{
 {
 View: view,
 LoadOp: wgpu.LoadOpClear,
 StoreOp: wgpu.StoreOpStore,
 ClearValue: wgpu.Color{R: 0.05, G: 0.05, B: 0.08, A: 1.0},
 },
 },
	})
	pass.End()

	cmd, err := encoder.Finish(nil)
	if err != nil {
 encoder.Release()
 return err
	}
	queue.Submit(cmd)
	encoder.Release()
	surface.Present()
	return nil
}

// buildDemoInstance constructs a tiny in-code graph — a single looping
// AnimationClip node over a one-bone skeleton — since asset ingestion is
// out of scope (spec.md §1) and the demo has no compiled .agdf file to
// load. A real caller would instead read bytes through
// graph.DecodeDefinition.
func buildDemoInstance() (*graph.Instance, error) {
	skel, err := skeleton.New(
 []skeleton.Bone{{Index: 0, ParentIndex: skeleton.InvalidIndex, Name: "root"}},
 []common.Transform{common.IdentityTransform},
	)
	if err != nil {
 return nil, err
	}

	walkClip := clip.New("walk", 1.0, 30, []clip.Track{
 {
 Translations: []clip.VectorKey{
 {Time: 0, Value: mgl32.Vec3{0, 0, 0}},
 {Time: 1, Value: mgl32.Vec3{0, 0, 1}},
 },
 },
	})
	ds := dataset.New([]*clip.Clip{walkClip})

	def, err := graph.NewDefinition([]graph.NodeSettings{
 graph.ClipSettings{DataSlot: 0, Loop: true},
	}, ds, 0)
	if err != nil {
 return nil, err
	}

	return graph.NewInstance(def, skel, graph.WithDebug(true))
}
