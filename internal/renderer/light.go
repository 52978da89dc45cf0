package renderer

import "github.com/go-gl/mathgl/mgl32"

// MaxLights is the size of the light uniform array in the default shader
const MaxLights = 8

type Light struct {
	Position        mgl32.Vec3
	Color           mgl32.Vec3
	Intensity       float32
	AmbientStrength float32
}

func NewLight(position, color mgl32.Vec3) *Light {
	return &Light{
		Position:        position,
		Color:           color,
		Intensity:       1.0,
		AmbientStrength: 0.2,
	}
}

// CreateSunlight creates a bright warm light far above the scene
func CreateSunlight(position mgl32.Vec3) *Light {
	light := NewLight(position, mgl32.Vec3{1.0, 0.95, 0.8})
	light.Intensity = 1.2
	light.AmbientStrength = 0.3
	return light
}
