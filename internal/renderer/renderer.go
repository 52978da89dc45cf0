package renderer

import (
	"path/filepath"

	"Kube/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// RenderMode selects the polygon fill mode of the scene geometry
type RenderMode int

const (
	RenderModeWireframe RenderMode = iota // edges only
	RenderModeShaded
)

func (m RenderMode) String() string {
	if m == RenderModeWireframe {
		return "wireframe"
	}
	return "shaded"
}

type RendererConfig struct {
	ShaderDir       string
	ProfilingWindow float64 // seconds
	ClearColor      mgl32.Vec3
}

// DefaultClearColor is a light sky blue
var DefaultClearColor = mgl32.Vec3{135 / 255.0, 206 / 255.0, 255 / 255.0}

var (
	modelPivot       = mgl32.Vec3{8, 8, 8}
	overlayColor     = mgl32.Vec3{0.2, 0.2, 0.2}
	overlayScale     = float32(0.4)
	overlayLineStart = float32(5)
	overlayLineStep  = float32(18)
)

// Renderer draws one frame of the scene followed by the diagnostic overlay
type Renderer struct {
	ctx           GraphicsContext
	clock         Clock
	cfg           RendererConfig
	defaultShader *Shader
	renderMode    RenderMode
	profiler      *FrameProfiler
	defaultVAO    uint32
	width         int32
	height        int32

	// RotateAngle rotates the scene about the Y axis through the model pivot, in radians
	RotateAngle float32
}

func NewRenderer(ctx GraphicsContext, clock Clock, cfg RendererConfig) *Renderer {
	if cfg.ClearColor == (mgl32.Vec3{}) {
		cfg.ClearColor = DefaultClearColor
	}
	return &Renderer{
		ctx:        ctx,
		clock:      clock,
		cfg:        cfg,
		renderMode: RenderModeShaded,
		profiler:   NewFrameProfiler(cfg.ProfilingWindow),
	}
}

// Initialize sets the fixed pipeline state and builds the default shader
func (rend *Renderer) Initialize(width, height int32) error {
	rend.width, rend.height = width, height

	rend.ctx.ClearColor(rend.cfg.ClearColor.X(), rend.cfg.ClearColor.Y(), rend.cfg.ClearColor.Z(), 1)
	rend.ctx.Viewport(0, 0, width, height)

	// Accept fragment if it is closer to the camera than the former one
	rend.ctx.Enable(DepthTest)
	rend.ctx.DepthFunc(DepthLess)

	rend.ctx.Enable(CullFace)
	rend.ctx.CullBackFaces()

	rend.ctx.Enable(Blend)
	rend.ctx.BlendFunc(BlendSrcAlpha, BlendOneMinusSrcAlpha)

	shader, err := rend.loadDefaultShader()
	if err != nil {
		logger.Log.Error("Default shader unavailable", zap.Error(err))
		return err
	}
	rend.defaultShader = shader

	rend.defaultVAO = rend.ctx.CreateVertexArray()
	rend.ctx.BindVertexArray(rend.defaultVAO)

	logger.Log.Info("Renderer initialized", zap.Int32("width", width), zap.Int32("height", height))
	return nil
}

func (rend *Renderer) loadDefaultShader() (*Shader, error) {
	shader, err := LoadShader(rend.ctx,
		filepath.Join(rend.cfg.ShaderDir, PhongVertexFile),
		filepath.Join(rend.cfg.ShaderDir, PhongFragmentFile))
	if err != nil {
		return nil, err
	}
	shader.Use()
	if err := shader.SetInt("ambientOcclusionEnabled", 1); err != nil {
		return nil, err
	}
	return shader, nil
}

// ReloadDefaultShader rebuilds the default shader from disk. The current
// shader is kept when the new one fails to build.
func (rend *Renderer) ReloadDefaultShader() error {
	shader, err := rend.loadDefaultShader()
	if err != nil {
		return err
	}
	if rend.defaultShader != nil {
		rend.defaultShader.Delete()
	}
	rend.defaultShader = shader
	logger.Log.Info("Default shader reloaded")
	return nil
}

// ModelMatrix rotates the scene by RotateAngle about the Y axis through the pivot
func (rend *Renderer) ModelMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(modelPivot.X(), modelPivot.Y(), modelPivot.Z()).
		Mul4(mgl32.HomogRotate3DY(rend.RotateAngle)).
		Mul4(mgl32.Translate3D(-modelPivot.X(), -modelPivot.Y(), -modelPivot.Z()))
}

// Render draws the scene seen from camera, then the overlay through text.
// text may be nil when no font is available. The scene, camera and text
// manager are borrowed for the duration of the call.
func (rend *Renderer) Render(scene *SceneManager, camera *Camera, text *TextManager) {
	renderStartTime := rend.clock.Now()

	model := rend.ModelMatrix()
	viewProjection := camera.GetProjectionMatrix().Mul4(camera.GetViewMatrix())
	mvp := viewProjection.Mul4(model)

	shader := rend.defaultShader
	shader.Use()
	rend.logUniformError(shader.SetMat4("camera", viewProjection))
	rend.logUniformError(shader.SetMat4("model", model))
	rend.logUniformError(shader.SetMat4("MVP", mvp))
	rend.logUniformError(shader.SetVec3("cameraPosition", camera.GetPosition()))

	rend.ctx.Clear()

	switch rend.renderMode {
	case RenderModeShaded:
		rend.ctx.SetPolygonMode(PolygonFill)
	case RenderModeWireframe:
		rend.ctx.SetPolygonMode(PolygonLine)
	}

	scene.Render(rend)

	// The overlay is always drawn filled
	rend.ctx.SetPolygonMode(PolygonFill)
	rend.ctx.Enable(CullFace)
	rend.ctx.Enable(Blend)
	rend.ctx.BlendFunc(BlendSrcAlpha, BlendOneMinusSrcAlpha)

	if text != nil {
		// the overlay sits on top of the scene regardless of depth
		rend.ctx.Disable(DepthTest)
		lines := [...]string{
			FormatRenderStats(rend.profiler.Mean(), rend.profiler.FPS()),
			FormatCameraPosition(camera.GetPosition()),
			FormatVertexCount(scene.NumberOfVertices()),
		}
		for i, line := range lines {
			y := overlayLineStart + float32(i)*overlayLineStep
			// missing glyphs are already reported by the text manager
			_ = text.RenderText(line, overlayLineStart, y, overlayScale, overlayColor)
		}
		rend.ctx.Enable(DepthTest)
	}

	now := rend.clock.Now()
	rend.profiler.Record((now-renderStartTime)*1000, now)
}

func (rend *Renderer) logUniformError(err error) {
	if err != nil {
		logger.Log.Error("Uniform update failed", zap.Error(err))
	}
}

func (rend *Renderer) SetRenderMode(mode RenderMode) {
	rend.renderMode = mode
}

func (rend *Renderer) CurrentRenderMode() RenderMode {
	return rend.renderMode
}

// ToggleRenderMode switches between shaded and wireframe
func (rend *Renderer) ToggleRenderMode() RenderMode {
	if rend.renderMode == RenderModeShaded {
		rend.renderMode = RenderModeWireframe
	} else {
		rend.renderMode = RenderModeShaded
	}
	return rend.renderMode
}

// DefaultShader returns the shader owned by the renderer, for callers that
// configure extra uniforms
func (rend *Renderer) DefaultShader() *Shader {
	return rend.defaultShader
}

func (rend *Renderer) Profiler() *FrameProfiler {
	return rend.profiler
}

// Resize updates the viewport to match the window size
func (rend *Renderer) Resize(width, height int32) {
	rend.width, rend.height = width, height
	rend.ctx.Viewport(0, 0, width, height)
}

// Cleanup releases the default shader and vertex array
func (rend *Renderer) Cleanup() {
	if rend.defaultShader != nil {
		rend.defaultShader.Delete()
	}
	rend.ctx.DeleteVertexArray(rend.defaultVAO)
}
