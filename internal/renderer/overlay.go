package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

func FormatRenderStats(meanMs, fps float64) string {
	return fmt.Sprintf("Render: %.3f ms (%.0f FPS)", meanMs, fps)
}

func FormatCameraPosition(pos mgl32.Vec3) string {
	return fmt.Sprintf("Camera: X:%.0f Y:%.0f Z:%.0f", pos.X(), pos.Y(), pos.Z())
}

func FormatVertexCount(n int) string {
	return fmt.Sprintf("Vertices: %d", n)
}
