package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half line in world space. Direction is normalized.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point t units along the ray
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// CameraRay is the ray through the centre of the view
func CameraRay(camera *Camera) Ray {
	return Ray{Origin: camera.Position, Direction: camera.Front.Normalize()}
}

// ScreenToRay converts a cursor position (origin top left) into a world
// space ray through the camera's near plane
func ScreenToRay(camera *Camera, screenX, screenY float32, width, height int32) Ray {
	if width <= 0 || height <= 0 {
		return CameraRay(camera)
	}
	ndcX := 2*screenX/float32(width) - 1
	ndcY := 1 - 2*screenY/float32(height)

	eye := camera.GetProjectionMatrix().Inv().Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	eye = mgl32.Vec4{eye.X(), eye.Y(), -1, 0}

	world := camera.GetViewMatrix().Inv().Mul4x1(eye).Vec3().Normalize()
	return Ray{Origin: camera.Position, Direction: world}
}
