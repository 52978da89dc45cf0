package renderer

import (
	"fmt"

	"Kube/internal/logger"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ChunkSource supplies the voxel geometry drawn each frame
type ChunkSource interface {
	NumberOfVertices() int
	Render(shader *Shader)
}

// Updater is implemented by chunk sources with per frame work
// (loading, remeshing)
type Updater interface {
	Update(deltaTime float32, camera *Camera)
}

// ShaderProvider exposes the shader scene geometry is drawn with
type ShaderProvider interface {
	DefaultShader() *Shader
}

// SceneManager holds the lights and the chunk source of the current scene.
// The chunk source is borrowed; its lifetime is managed by the engine.
type SceneManager struct {
	chunks        ChunkSource
	lights        []*Light
	lightsChanged bool
	lightUpdates  int
}

func NewSceneManager() *SceneManager {
	return &SceneManager{lightsChanged: true}
}

func (sm *SceneManager) AddLight(light *Light) {
	if len(sm.lights) >= MaxLights {
		logger.Log.Warn("Light limit reached, light will not be uploaded", zap.Int("max", MaxLights))
	}
	sm.lights = append(sm.lights, light)
	sm.lightsChanged = true
}

func (sm *SceneManager) Lights() []*Light {
	return sm.lights
}

func (sm *SceneManager) SetChunkManager(chunks ChunkSource) {
	sm.chunks = chunks
}

func (sm *SceneManager) ChunkManager() ChunkSource {
	return sm.chunks
}

// NumberOfVertices is the vertex count of the current chunk source
func (sm *SceneManager) NumberOfVertices() int {
	if sm.chunks == nil {
		return 0
	}
	return sm.chunks.NumberOfVertices()
}

func (sm *SceneManager) Update(deltaTime float32, camera *Camera) {
	if u, ok := sm.chunks.(Updater); ok {
		u.Update(deltaTime, camera)
	}
}

// Render uploads the lights if they changed since the last frame, then
// draws the chunks with the provider's shader
func (sm *SceneManager) Render(provider ShaderProvider) {
	shader := provider.DefaultShader()

	// a failed push keeps the flag set so the next frame retries
	if sm.lightsChanged {
		if err := sm.updateLightUniform(shader); err != nil {
			logger.Log.Error("Could not update light uniforms", zap.Error(err))
		} else {
			sm.lightsChanged = false
			sm.lightUpdates++
		}
	}

	if sm.chunks != nil {
		sm.chunks.Render(shader)
	}
}

// InvalidateLights forces the next Render to push the light uniforms again,
// needed after the default shader program is replaced
func (sm *SceneManager) InvalidateLights() {
	sm.lightsChanged = true
}

// LightUpdates counts how many times the light uniforms were pushed
func (sm *SceneManager) LightUpdates() int {
	return sm.lightUpdates
}

func (sm *SceneManager) updateLightUniform(shader *Shader) error {
	count := len(sm.lights)
	if count > MaxLights {
		count = MaxLights
	}

	err := shader.SetInt("numLights", int32(count))
	for i := 0; i < count; i++ {
		light := sm.lights[i]
		prefix := fmt.Sprintf("lights[%d].", i)
		err = multierr.Combine(err,
			shader.SetVec3(prefix+"position", light.Position),
			shader.SetVec3(prefix+"color", light.Color),
			shader.SetFloat(prefix+"intensity", light.Intensity),
			shader.SetFloat(prefix+"ambientStrength", light.AmbientStrength),
		)
	}
	return err
}
