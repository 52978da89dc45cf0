package chunks

import (
	"math"

	"Kube/internal/renderer"
)

// MaxReachDistance bounds block picking, in blocks
const MaxReachDistance = 64

type RaycastHit struct {
	Block    [3]int // the solid block that was hit
	Adjacent [3]int // the air cell the ray came from
	Distance float32
	ID       BlockID
}

// Raycast walks the voxel grid cell by cell along the ray and returns the
// first solid block within maxDist
func (cm *ChunkManager) Raycast(ray renderer.Ray, maxDist float32) (RaycastHit, bool) {
	return raycast(ray, maxDist, cm.BlockAt)
}

func raycast(ray renderer.Ray, maxDist float32, lookup BlockLookup) (RaycastHit, bool) {
	var cell, step [3]int
	var tMax, tDelta [3]float64
	for i := 0; i < 3; i++ {
		o := float64(ray.Origin[i])
		d := float64(ray.Direction[i])
		cell[i] = int(math.Floor(o))
		switch {
		case d > 0:
			step[i] = 1
			tDelta[i] = 1 / d
			tMax[i] = (float64(cell[i]+1) - o) / d
		case d < 0:
			step[i] = -1
			tDelta[i] = -1 / d
			tMax[i] = (o - float64(cell[i])) / -d
		default:
			tDelta[i] = math.Inf(1)
			tMax[i] = math.Inf(1)
		}
	}

	prev := cell
	t := 0.0
	for t <= float64(maxDist) {
		if id := lookup(cell[0], cell[1], cell[2]); id != Air {
			return RaycastHit{Block: cell, Adjacent: prev, Distance: float32(t), ID: id}, true
		}
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		prev = cell
		cell[axis] += step[axis]
		t = tMax[axis]
		tMax[axis] += tDelta[axis]
	}
	return RaycastHit{}, false
}
