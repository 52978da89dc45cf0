// camera.go
package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MoveDirection is a fly camera movement relative to its orientation
type MoveDirection int

const (
	MoveForward MoveDirection = iota
	MoveBackward
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
)

type Camera struct {
	// HOT DATA - Accessed every frame for view/projection calculations
	Position   mgl32.Vec3 // Camera position in world space
	Front      mgl32.Vec3 // Forward direction vector
	Up         mgl32.Vec3 // Up direction vector
	Right      mgl32.Vec3 // Right direction vector
	Projection mgl32.Mat4 // Projection matrix
	Pitch      float32    // Pitch angle (vertical rotation)
	Yaw        float32    // Yaw angle (horizontal rotation)

	// COLD DATA - Configuration, accessed less frequently
	WorldUp     mgl32.Vec3
	Speed       float32
	Sensitivity float32
	Fov         float32
	Near        float32
	Far         float32
	AspectRatio float32
	InvertMouse bool
}

func NewDefaultCamera(width, height int32) *Camera {
	camera := Camera{
		Position:    mgl32.Vec3{0, 40, 0},
		Up:          mgl32.Vec3{0, 1, 0},
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Pitch:       -20.0,
		Yaw:         45.0,
		Speed:       20,
		Sensitivity: 0.1,
		Fov:         45.0,
		Near:        0.1,
		Far:         1000.0,
		AspectRatio: aspect(width, height),
	}
	camera.updateCameraVectors()
	camera.UpdateProjection()
	return &camera
}

func aspect(width, height int32) float32 {
	if height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

func (c *Camera) UpdateProjection() {
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
}

func (c *Camera) SetFov(fov float32) {
	c.Fov = fov
	c.UpdateProjection()
}

// SetViewportSize recomputes the aspect ratio after a resize
func (c *Camera) SetViewportSize(width, height int32) {
	c.AspectRatio = aspect(width, height)
	c.UpdateProjection()
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.Projection
}

func (c *Camera) GetViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.GetViewMatrix())
}

func (c *Camera) GetPosition() mgl32.Vec3 {
	return c.Position
}

// ProcessMovement moves the camera along dir for deltaTime seconds
func (c *Camera) ProcessMovement(dir MoveDirection, deltaTime float32) {
	velocity := c.Speed * deltaTime
	switch dir {
	case MoveForward:
		c.Position = c.Position.Add(c.Front.Mul(velocity))
	case MoveBackward:
		c.Position = c.Position.Sub(c.Front.Mul(velocity))
	case MoveLeft:
		c.Position = c.Position.Sub(c.Right.Mul(velocity))
	case MoveRight:
		c.Position = c.Position.Add(c.Right.Mul(velocity))
	case MoveUp:
		c.Position = c.Position.Add(c.WorldUp.Mul(velocity))
	case MoveDown:
		c.Position = c.Position.Sub(c.WorldUp.Mul(velocity))
	}
}

func (c *Camera) ProcessMouseMovement(xoffset, yoffset float32, constrainPitch bool) {
	xoffset *= c.Sensitivity
	yoffset *= c.Sensitivity

	c.Yaw += xoffset

	if c.InvertMouse {
		c.Pitch -= yoffset
	} else {
		c.Pitch += yoffset
	}
	if constrainPitch {
		c.Pitch = mgl32.Clamp(c.Pitch, -89.0, 89.0) // Prevent extreme pitch values
	}
	c.updateCameraVectors()
}

func (c *Camera) updateCameraVectors() {
	yawRad := mgl32.DegToRad(c.Yaw)
	pitchRad := mgl32.DegToRad(c.Pitch)

	front := mgl32.Vec3{
		float32(math.Cos(float64(yawRad)) * math.Cos(float64(pitchRad))),
		float32(math.Sin(float64(pitchRad))),
		float32(math.Sin(float64(yawRad)) * math.Cos(float64(pitchRad))),
	}

	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}
