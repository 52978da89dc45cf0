package renderer

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func newTestRenderer(t *testing.T, ctx *recordingContext, clock Clock) *Renderer {
	t.Helper()
	rend := NewRenderer(ctx, clock, RendererConfig{ShaderDir: shaderDir, ProfilingWindow: 0.3})
	if err := rend.Initialize(1280, 720); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return rend
}

func TestRendererInitialize(t *testing.T) {
	ctx := newRecordingContext()
	rend := newTestRenderer(t, ctx, &fakeClock{step: 0.001})

	for _, want := range []string{"ClearColor", "Enable(0)", "DepthFunc", "Enable(1)", "CullBackFaces", "Enable(2)", "BlendFunc", "Viewport(1280,720)"} {
		if ctx.index(want, 0) == -1 {
			t.Errorf("expected %s during initialization", want)
		}
	}
	if rend.DefaultShader() == nil || !rend.DefaultShader().IsLinked() {
		t.Fatal("default shader should be linked")
	}
	if ctx.ints["ambientOcclusionEnabled"] != 1 {
		t.Error("ambient occlusion should be enabled on the default shader")
	}
	if rend.CurrentRenderMode() != RenderModeShaded {
		t.Error("default render mode should be shaded")
	}
}

func TestRendererInitializeMissingShader(t *testing.T) {
	ctx := newRecordingContext()
	rend := NewRenderer(ctx, &fakeClock{}, RendererConfig{ShaderDir: t.TempDir()})

	err := rend.Initialize(800, 600)
	if !errors.Is(err, ErrShaderSource) {
		t.Fatalf("expected ErrShaderSource, got %v", err)
	}
	if IsFatal(err) {
		t.Error("a missing shader is reported as an error, not fatal")
	}
}

func TestRendererWireframeNeverAffectsText(t *testing.T) {
	ctx := newRecordingContext()
	rend := newTestRenderer(t, ctx, &fakeClock{step: 0.001})
	text := newTestTextManager(t, ctx)
	scene := NewSceneManager()
	scene.SetChunkManager(&stubChunks{ctx: ctx, vertices: 36})
	camera := NewDefaultCamera(1280, 720)

	rend.SetRenderMode(RenderModeWireframe)
	ctx.reset()
	rend.Render(scene, camera, text)

	line := ctx.index("PolygonMode(LINE)", 0)
	sceneDraw := ctx.index("DrawTriangles(36) LINE", 0)
	fill := ctx.index("PolygonMode(FILL)", sceneDraw)
	firstText := ctx.index("DrawTriangles(6)", 0)

	if line == -1 || sceneDraw == -1 || line > sceneDraw {
		t.Fatalf("scene should be drawn in wireframe: %v", ctx.calls)
	}
	if fill == -1 || firstText == -1 || fill > firstText {
		t.Fatalf("fill mode must be restored before text: %v", ctx.calls)
	}
	for _, call := range ctx.calls[firstText:] {
		if strings.HasPrefix(call, "DrawTriangles") && strings.HasSuffix(call, "LINE") {
			t.Fatalf("text drawn in wireframe: %s", call)
		}
	}
}

func TestRendererFrameOrder(t *testing.T) {
	ctx := newRecordingContext()
	rend := newTestRenderer(t, ctx, &fakeClock{step: 0.001})
	scene := NewSceneManager()
	scene.SetChunkManager(&stubChunks{ctx: ctx, vertices: 36})
	ctx.reset()

	rend.Render(scene, NewDefaultCamera(1280, 720), nil)

	order := []string{
		"UseProgram",
		"Uniform(camera)",
		"Uniform(model)",
		"Uniform(MVP)",
		"Uniform(cameraPosition)",
		"Clear",
		"PolygonMode(FILL)",
		"Uniform(numLights)",
		"DrawTriangles(36)",
		"PolygonMode(FILL)",
	}
	at := 0
	for _, step := range order {
		i := ctx.index(step, at)
		if i == -1 {
			t.Fatalf("missing %s after call %d: %v", step, at, ctx.calls)
		}
		at = i + 1
	}
}

func TestRendererMatrices(t *testing.T) {
	ctx := newRecordingContext()
	rend := newTestRenderer(t, ctx, &fakeClock{step: 0.001})
	rend.RotateAngle = 0.5
	camera := NewDefaultCamera(1280, 720)
	camera.Position = mgl32.Vec3{1, 2, 3}

	rend.Render(NewSceneManager(), camera, nil)

	model := rend.ModelMatrix()
	vp := camera.GetProjectionMatrix().Mul4(camera.GetViewMatrix())
	if !ctx.mat4["camera"].ApproxEqual(vp) {
		t.Error("camera uniform should be projection * view")
	}
	if !ctx.mat4["MVP"].ApproxEqual(vp.Mul4(model)) {
		t.Error("MVP uniform should be projection * view * model")
	}
	if ctx.mat4["model"] != model {
		t.Error("model uniform should be the pivot rotation")
	}
	if ctx.vec3["cameraPosition"] != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("unexpected camera position %v", ctx.vec3["cameraPosition"])
	}
}

func TestRendererModelMatrix(t *testing.T) {
	rend := NewRenderer(newRecordingContext(), &fakeClock{}, RendererConfig{})

	if !rend.ModelMatrix().ApproxEqual(mgl32.Ident4()) {
		t.Error("zero angle should be identity")
	}

	rend.RotateAngle = math.Pi / 2
	m := rend.ModelMatrix()
	pivot := m.Mul4x1(mgl32.Vec4{8, 8, 8, 1}).Vec3()
	if !vec3Near(pivot, mgl32.Vec3{8, 8, 8}, 1e-4) {
		t.Errorf("pivot should be fixed under rotation, got %v", pivot)
	}
	// (9,8,8) sits one unit along +X from the pivot and rotates to -Z
	p := m.Mul4x1(mgl32.Vec4{9, 8, 8, 1}).Vec3()
	if !vec3Near(p, mgl32.Vec3{8, 8, 7}, 1e-4) {
		t.Errorf("expected (8,8,7), got %v", p)
	}
}

func TestRendererProfilingSamples(t *testing.T) {
	ctx := newRecordingContext()
	clock := &fakeClock{now: 1, step: 0.001}
	rend := newTestRenderer(t, ctx, clock)
	scene := NewSceneManager()
	camera := NewDefaultCamera(1280, 720)

	// the first frame is past the initial window and flushes
	rend.Render(scene, camera, nil)
	if rend.Profiler().Pending() != 0 {
		t.Fatalf("expected first frame to flush, got %d pending", rend.Profiler().Pending())
	}
	if math.Abs(rend.Profiler().Mean()-1) > 1e-6 {
		t.Errorf("expected 1ms mean, got %f", rend.Profiler().Mean())
	}

	for i := 1; i <= 10; i++ {
		rend.Render(scene, camera, nil)
		if rend.Profiler().Pending() != i {
			t.Fatalf("frame %d: expected %d pending, got %d", i, i, rend.Profiler().Pending())
		}
	}
}

func TestRendererOverlayText(t *testing.T) {
	ctx := newRecordingContext()
	rend := newTestRenderer(t, ctx, &fakeClock{step: 0.001})
	text := newTestTextManager(t, ctx)
	scene := NewSceneManager()
	scene.SetChunkManager(&stubChunks{ctx: ctx, vertices: 0})
	camera := NewDefaultCamera(1280, 720)
	camera.Position = mgl32.Vec3{1, 2, 3}
	ctx.reset()

	rend.Render(scene, camera, text)

	lines := []string{
		FormatRenderStats(0, 0),
		FormatCameraPosition(camera.Position),
		FormatVertexCount(0),
	}
	want := 0
	for _, line := range lines {
		for _, c := range line {
			if ch, err := text.Glyph(c); err == nil && ch.TextureID != 0 {
				want++
			}
		}
	}
	if got := ctx.count("DrawTriangles(6)"); got != want {
		t.Errorf("expected %d glyph draws, got %d", want, got)
	}
}

func TestRendererToggleRenderMode(t *testing.T) {
	rend := NewRenderer(newRecordingContext(), &fakeClock{}, RendererConfig{})

	if rend.ToggleRenderMode() != RenderModeWireframe {
		t.Error("toggle from shaded should give wireframe")
	}
	if rend.ToggleRenderMode() != RenderModeShaded {
		t.Error("toggle from wireframe should give shaded")
	}
}

func TestRendererReloadKeepsShaderOnFailure(t *testing.T) {
	ctx := newRecordingContext()
	rend := newTestRenderer(t, ctx, &fakeClock{})
	before := rend.DefaultShader()

	ctx.failLink = true
	if err := rend.ReloadDefaultShader(); !errors.Is(err, ErrShaderLink) {
		t.Fatalf("expected ErrShaderLink, got %v", err)
	}
	if rend.DefaultShader() != before || !before.IsLinked() {
		t.Error("failed reload should keep the current shader")
	}

	ctx.failLink = false
	if err := rend.ReloadDefaultShader(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if rend.DefaultShader() == before {
		t.Error("successful reload should replace the shader")
	}
}

func TestRendererResize(t *testing.T) {
	ctx := newRecordingContext()
	rend := newTestRenderer(t, ctx, &fakeClock{})
	ctx.reset()

	rend.Resize(640, 480)

	if ctx.index("Viewport(640,480)", 0) == -1 {
		t.Error("resize should update the viewport")
	}
}

func TestRendererOverlayIgnoresDepth(t *testing.T) {
	ctx := newRecordingContext()
	rend := newTestRenderer(t, ctx, &fakeClock{step: 0.001})
	text := newTestTextManager(t, ctx)
	ctx.reset()

	rend.Render(NewSceneManager(), NewDefaultCamera(1280, 720), text)

	disable := ctx.index("Disable(0)", 0)
	firstText := ctx.index("DrawTriangles(6)", 0)
	if firstText == -1 {
		t.Fatal("overlay drew no glyphs")
	}
	enable := ctx.index("Enable(0)", firstText)
	if disable == -1 || disable > firstText {
		t.Fatalf("depth test should be off before text: %v", ctx.calls)
	}
	if enable == -1 {
		t.Error("depth test should be restored after the overlay")
	}
}
