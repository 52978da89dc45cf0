package engine

import (
	"Kube/internal/chunks"
	"Kube/internal/logger"
	"Kube/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

type command int

const (
	commandNone command = iota
	commandToggleWireframe
	commandQuit
)

var movementKeys = []struct {
	key glfw.Key
	dir renderer.MoveDirection
}{
	{glfw.KeyW, renderer.MoveForward},
	{glfw.KeyS, renderer.MoveBackward},
	{glfw.KeyA, renderer.MoveLeft},
	{glfw.KeyD, renderer.MoveRight},
	{glfw.KeySpace, renderer.MoveUp},
	{glfw.KeyLeftShift, renderer.MoveDown},
}

// movementFor returns the directions whose keys are held
func movementFor(pressed func(glfw.Key) bool) []renderer.MoveDirection {
	var dirs []renderer.MoveDirection
	for _, mk := range movementKeys {
		if pressed(mk.key) {
			dirs = append(dirs, mk.dir)
		}
	}
	return dirs
}

// commandFor maps a key event to an engine command. Only presses count so
// holding F does not flicker the render mode.
func commandFor(key glfw.Key, action glfw.Action) command {
	if action != glfw.Press {
		return commandNone
	}
	switch key {
	case glfw.KeyF:
		return commandToggleWireframe
	case glfw.KeyEscape:
		return commandQuit
	}
	return commandNone
}

// mouseLook turns cursor positions into look offsets while the right
// button is held
type mouseLook struct {
	lastX, lastY float64
	first        bool
}

func (m *mouseLook) offset(x, y float64, held bool) (float32, float32, bool) {
	if !held {
		m.first = true
		return 0, 0, false
	}
	if m.first {
		m.lastX, m.lastY = x, y
		m.first = false
		return 0, 0, false
	}
	dx := x - m.lastX
	dy := m.lastY - y // screen y grows downwards
	m.lastX, m.lastY = x, y
	return float32(dx), float32(dy), true
}

func (e *Engine) processKeyboard(deltaTime float32) {
	pressed := func(k glfw.Key) bool { return e.window.GetKey(k) == glfw.Press }
	for _, dir := range movementFor(pressed) {
		e.camera.ProcessMovement(dir, deltaTime)
	}
}

func (e *Engine) keyCallback(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	switch commandFor(key, action) {
	case commandToggleWireframe:
		mode := e.renderer.ToggleRenderMode()
		logger.Log.Debug("Render mode changed", zap.Stringer("mode", mode))
	case commandQuit:
		w.SetShouldClose(true)
	}
}

func (e *Engine) mouseCallback(w *glfw.Window, xpos, ypos float64) {
	held := w.GetAttrib(glfw.Focused) == glfw.True && w.GetMouseButton(glfw.MouseButtonRight) == glfw.Press
	if dx, dy, ok := e.look.offset(xpos, ypos, held); ok {
		e.camera.ProcessMouseMovement(dx, dy, true)
	}
}

// mouseButtonCallback removes the block under the cursor on left click
func (e *Engine) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft || action != glfw.Press || e.chunks == nil {
		return
	}
	x, y := w.GetCursorPos()
	winWidth, winHeight := w.GetSize()
	ray := renderer.ScreenToRay(e.camera, float32(x), float32(y), int32(winWidth), int32(winHeight))
	hit, ok := e.chunks.Raycast(ray, chunks.MaxReachDistance)
	if !ok {
		return
	}
	e.chunks.SetBlock(hit.Block[0], hit.Block[1], hit.Block[2], chunks.Air)
	logger.Log.Debug("Block removed",
		zap.Ints("position", hit.Block[:]),
		zap.Float32("distance", hit.Distance))
}
