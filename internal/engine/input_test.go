package engine

import (
	"testing"

	"Kube/internal/chunks"
	"Kube/internal/config"
	"Kube/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestMovementFor(t *testing.T) {
	held := map[glfw.Key]bool{glfw.KeyW: true, glfw.KeyD: true}
	dirs := movementFor(func(k glfw.Key) bool { return held[k] })

	if len(dirs) != 2 || dirs[0] != renderer.MoveForward || dirs[1] != renderer.MoveRight {
		t.Errorf("unexpected directions %v", dirs)
	}
	if len(movementFor(func(glfw.Key) bool { return false })) != 0 {
		t.Error("no keys should give no movement")
	}
}

func TestCommandFor(t *testing.T) {
	tests := []struct {
		name   string
		key    glfw.Key
		action glfw.Action
		want   command
	}{
		{"wireframe", glfw.KeyF, glfw.Press, commandToggleWireframe},
		{"wireframe repeat", glfw.KeyF, glfw.Repeat, commandNone},
		{"wireframe release", glfw.KeyF, glfw.Release, commandNone},
		{"quit", glfw.KeyEscape, glfw.Press, commandQuit},
		{"other", glfw.KeyG, glfw.Press, commandNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := commandFor(tt.key, tt.action); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMouseLook(t *testing.T) {
	look := mouseLook{first: true}

	if _, _, ok := look.offset(100, 100, true); ok {
		t.Fatal("first sample only records the position")
	}
	dx, dy, ok := look.offset(110, 90, true)
	if !ok || dx != 10 || dy != 10 {
		t.Errorf("expected (10, 10), got (%f, %f) ok=%v", dx, dy, ok)
	}

	if _, _, ok := look.offset(500, 500, false); ok {
		t.Error("released button should not look")
	}
	// pressing again must not jump by the distance travelled while released
	if _, _, ok := look.offset(510, 510, true); ok {
		t.Error("first sample after a press only records the position")
	}
}

func TestConfigureCamera(t *testing.T) {
	cfg := config.Default()
	cfg.Renderer.Fov = 70
	e := New(cfg)
	e.width, e.height = 1000, 500

	e.configureCamera()
	if e.Camera() == nil {
		t.Fatal("a default camera should be created")
	}
	if e.Camera().Fov != 70 {
		t.Errorf("expected fov 70, got %f", e.Camera().Fov)
	}
	if e.Camera().AspectRatio != 2 {
		t.Errorf("expected aspect 2, got %f", e.Camera().AspectRatio)
	}

	custom := renderer.NewDefaultCamera(10, 10)
	e.SetCamera(custom)
	e.configureCamera()
	if e.Camera() != custom || custom.AspectRatio != 2 || custom.Fov != 70 {
		t.Error("an existing camera should be kept and fitted")
	}
}

func TestSetSceneManager(t *testing.T) {
	e := New(config.Default())
	original := e.SceneManager()

	e.SetSceneManager(nil)
	if e.SceneManager() != original {
		t.Error("a nil scene should be ignored")
	}

	scene := renderer.NewSceneManager()
	e.SetSceneManager(scene)
	if e.SceneManager() != scene {
		t.Error("SetSceneManager should replace the scene")
	}

	e.chunks = chunks.NewChunkManager(nil, 1, 1, 1, 4)
	bare := renderer.NewSceneManager()
	e.SetSceneManager(bare)
	if bare.ChunkManager() != e.chunks {
		t.Error("a scene without chunks should borrow the engine's chunk manager")
	}
}

func TestNewEngineDefaults(t *testing.T) {
	cfg := config.Default()
	e := New(cfg)

	if e.SceneManager() == nil {
		t.Fatal("scene manager should exist before Initialize")
	}
	if e.width != cfg.Window.Width || e.height != cfg.Window.Height {
		t.Errorf("unexpected size %dx%d", e.width, e.height)
	}

	camera := renderer.NewDefaultCamera(10, 10)
	e.SetCamera(camera)
	if e.Camera() != camera {
		t.Error("SetCamera should replace the camera")
	}

	light := e.AddSunlight(camera.Position)
	if got := e.SceneManager().Lights(); len(got) != 1 || got[0] != light {
		t.Error("AddSunlight should add the light to the scene")
	}
}
