package engine

import (
	"errors"
	"fmt"
	"runtime"

	"Kube/internal/chunks"
	"Kube/internal/config"
	"Kube/internal/logger"
	"Kube/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"
)

func init() {
	// GLFW and GL calls must come from the main thread
	runtime.LockOSThread()
}

// Engine owns the window, the GL context and the frame loop. Everything
// runs on the thread that called Initialize.
type Engine struct {
	cfg config.Config

	window   *glfw.Window
	ctx      renderer.GraphicsContext
	renderer *renderer.Renderer
	text     *renderer.TextManager
	scene    *renderer.SceneManager
	chunks   *chunks.ChunkManager
	camera   *renderer.Camera
	watcher  *renderer.ShaderWatcher

	width, height int32
	look          mouseLook
	glfwReady     bool

	// OnUpdate runs once per frame before the scene is updated
	OnUpdate func(deltaTime float32)
}

func New(cfg config.Config) *Engine {
	return &Engine{
		cfg:    cfg,
		width:  cfg.Window.Width,
		height: cfg.Window.Height,
		scene:  renderer.NewSceneManager(),
		look:   mouseLook{first: true},
	}
}

// Initialize opens the window and builds the renderer. Renderer failures
// abort start up; a font that cannot be loaded only disables the overlay.
func (e *Engine) Initialize(title string) error {
	if err := glfw.Init(); err != nil {
		return renderer.BackendError("glfw init", err)
	}
	e.glfwReady = true

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(e.width), int(e.height), title, nil, nil)
	if err != nil {
		return renderer.BackendError("create window", err)
	}
	e.window = window
	window.MakeContextCurrent()
	if e.cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	applyWindowChrome(window)

	ctx, err := renderer.NewOpenGLContext()
	if err != nil {
		return err
	}
	e.ctx = ctx

	fbWidth, fbHeight := window.GetFramebufferSize()
	e.width, e.height = int32(fbWidth), int32(fbHeight)

	e.configureCamera()

	e.renderer = renderer.NewRenderer(ctx, renderer.ClockFunc(glfw.GetTime), renderer.RendererConfig{
		ShaderDir:       e.cfg.Renderer.ShaderDir,
		ProfilingWindow: e.cfg.Renderer.ProfilingWindow,
	})
	e.renderer.RotateAngle = e.cfg.Renderer.RotateAngle
	if err := e.renderer.Initialize(e.width, e.height); err != nil {
		return fmt.Errorf("initialize renderer: %w", err)
	}
	if e.cfg.Renderer.Wireframe {
		e.renderer.SetRenderMode(renderer.RenderModeWireframe)
	}

	text, err := e.loadText()
	if renderer.IsFatal(err) {
		return fmt.Errorf("initialize text: %w", err)
	}
	if err != nil {
		logger.Log.Warn("Text overlay disabled", zap.Error(err))
	}
	e.text = text

	if e.cfg.Renderer.HotReload {
		watcher, err := renderer.NewShaderWatcher(e.cfg.Renderer.ShaderDir)
		if err != nil {
			logger.Log.Warn("Shader hot reload disabled", zap.Error(err))
		} else {
			e.watcher = watcher
		}
	}

	window.SetFramebufferSizeCallback(e.framebufferSizeCallback)
	window.SetKeyCallback(e.keyCallback)
	window.SetCursorPosCallback(e.mouseCallback)
	window.SetMouseButtonCallback(e.mouseButtonCallback)

	logger.Log.Info("Engine initialized",
		zap.Int32("width", e.width),
		zap.Int32("height", e.height),
		zap.Stringer("mode", e.renderer.CurrentRenderMode()))
	return nil
}

// configureCamera creates the default camera if none was set and fits it to
// the framebuffer and the configured field of view
func (e *Engine) configureCamera() {
	if e.camera == nil {
		e.camera = renderer.NewDefaultCamera(e.width, e.height)
	} else {
		e.camera.SetViewportSize(e.width, e.height)
	}
	e.camera.SetFov(e.cfg.Renderer.Fov)
}

func (e *Engine) loadText() (*renderer.TextManager, error) {
	cfg := renderer.TextConfig{
		FontPath:  e.cfg.Text.FontPath,
		PixelSize: e.cfg.Text.PixelSize,
		ShaderDir: e.cfg.Renderer.ShaderDir,
		Width:     e.width,
		Height:    e.height,
	}
	if cfg.FontPath == "" {
		return renderer.NewTextManagerFromFont(e.ctx, goregular.TTF, cfg)
	}

	text, err := renderer.NewTextManager(e.ctx, cfg)
	if err == nil || !e.cfg.Text.FallbackFont || !errors.Is(err, renderer.ErrFontLoad) {
		return text, err
	}

	logger.Log.Warn("Falling back to the built in font", zap.String("path", cfg.FontPath), zap.Error(err))
	text, fallbackErr := renderer.NewTextManagerFromFont(e.ctx, goregular.TTF, cfg)
	if fallbackErr != nil {
		return nil, multierr.Append(err, fallbackErr)
	}
	return text, nil
}

// InitializeChunkManager creates the chunk grid and hands it to the scene
func (e *Engine) InitializeChunkManager(numX, numY, numZ, size int) *chunks.ChunkManager {
	if e.chunks != nil {
		e.chunks.Destroy()
	}
	e.chunks = chunks.NewChunkManager(e.ctx, numX, numY, numZ, size)
	e.scene.SetChunkManager(e.chunks)
	return e.chunks
}

func (e *Engine) SceneManager() *renderer.SceneManager { return e.scene }

// SetSceneManager swaps the scene drawn by Run. A scene without a chunk
// source borrows the engine's chunk manager, and its lights are pushed on
// the next frame.
func (e *Engine) SetSceneManager(scene *renderer.SceneManager) {
	if scene == nil {
		return
	}
	if scene.ChunkManager() == nil && e.chunks != nil {
		scene.SetChunkManager(e.chunks)
	}
	scene.InvalidateLights()
	e.scene = scene
}

func (e *Engine) Renderer() *renderer.Renderer { return e.renderer }

func (e *Engine) ChunkManager() *chunks.ChunkManager { return e.chunks }

func (e *Engine) Camera() *renderer.Camera { return e.camera }

// SetCamera replaces the active camera. Before Initialize the camera keeps
// its position and only gets its aspect ratio fixed up.
func (e *Engine) SetCamera(camera *renderer.Camera) {
	e.camera = camera
	if e.window != nil {
		camera.SetViewportSize(e.width, e.height)
	}
}

// Run drives the frame loop until the window is closed
func (e *Engine) Run() {
	last := glfw.GetTime()
	for !e.window.ShouldClose() {
		now := glfw.GetTime()
		deltaTime := float32(now - last)
		last = now

		e.processKeyboard(deltaTime)
		e.reloadShaders()

		if e.OnUpdate != nil {
			e.OnUpdate(deltaTime)
		}
		e.scene.Update(deltaTime, e.camera)
		e.renderer.Render(e.scene, e.camera, e.text)

		e.window.SwapBuffers()
		glfw.PollEvents()
	}
}

func (e *Engine) reloadShaders() {
	if e.watcher == nil || !e.watcher.Pending() {
		return
	}
	if err := e.renderer.ReloadDefaultShader(); err != nil {
		logger.Log.Error("Shader reload failed, keeping the previous program", zap.Error(err))
		return
	}
	e.scene.InvalidateLights()
	logger.Log.Info("Default shader reloaded")
}

func (e *Engine) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	if width <= 0 || height <= 0 {
		// minimized
		return
	}
	e.width, e.height = int32(width), int32(height)
	e.renderer.Resize(e.width, e.height)
	e.camera.SetViewportSize(e.width, e.height)
	if e.text != nil {
		e.text.Resize(e.width, e.height)
	}
}

// Shutdown releases GPU resources in reverse order of creation and
// terminates GLFW
func (e *Engine) Shutdown() {
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			logger.Log.Warn("Closing shader watcher", zap.Error(err))
		}
		e.watcher = nil
	}
	if e.chunks != nil {
		e.chunks.Destroy()
	}
	if e.text != nil {
		e.text.Destroy()
		e.text = nil
	}
	if e.renderer != nil {
		e.renderer.Cleanup()
	}
	if e.window != nil {
		e.window.Destroy()
		e.window = nil
	}
	if e.glfwReady {
		glfw.Terminate()
		e.glfwReady = false
	}
	logger.Log.Info("Engine shut down")
	logger.Sync()
}

// AddSunlight is a shortcut for the usual single light terrain scene
func (e *Engine) AddSunlight(position mgl32.Vec3) *renderer.Light {
	light := renderer.CreateSunlight(position)
	e.scene.AddLight(light)
	return light
}
