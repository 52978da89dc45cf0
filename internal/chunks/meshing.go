package chunks

// VertexStride is the number of floats per vertex: position, normal, occlusion
const VertexStride = 7

// BlockLookup returns the block at world coordinates
type BlockLookup func(x, y, z int) BlockID

// occlusion levels, from fully enclosed corner to open corner
var occlusionCurve = [4]float32{0.4, 0.6, 0.8, 1.0}

type face struct {
	axis   int // 0 x, 1 y, 2 z
	sign   int // +1 or -1
	u, v   int // tangent axes, u x v points along +axis
	normal [3]float32
}

var faces = [6]face{
	{axis: 0, sign: 1, u: 1, v: 2, normal: [3]float32{1, 0, 0}},
	{axis: 0, sign: -1, u: 1, v: 2, normal: [3]float32{-1, 0, 0}},
	{axis: 1, sign: 1, u: 2, v: 0, normal: [3]float32{0, 1, 0}},
	{axis: 1, sign: -1, u: 2, v: 0, normal: [3]float32{0, -1, 0}},
	{axis: 2, sign: 1, u: 0, v: 1, normal: [3]float32{0, 0, 1}},
	{axis: 2, sign: -1, u: 0, v: 1, normal: [3]float32{0, 0, -1}},
}

// corners of a face in (du, dv), counter clockwise seen from +axis
var corners = [4][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// BuildMesh emits two triangles for every block face that borders air.
// Positions are in world space. lookup resolves blocks outside the chunk.
func BuildMesh(c *Chunk, lookup BlockLookup) []float32 {
	if c.IsEmpty() {
		return nil
	}
	ox, oy, oz := c.Origin()
	solid := func(p [3]int) bool { return lookup(p[0], p[1], p[2]) != Air }

	var vertices []float32
	for y := 0; y < c.Size; y++ {
		for z := 0; z < c.Size; z++ {
			for x := 0; x < c.Size; x++ {
				if c.Get(x, y, z) == Air {
					continue
				}
				block := [3]int{ox + x, oy + y, oz + z}
				for _, f := range faces {
					front := block
					front[f.axis] += f.sign
					if solid(front) {
						continue
					}
					vertices = appendFace(vertices, f, block, front, solid)
				}
			}
		}
	}
	return vertices
}

func appendFace(vertices []float32, f face, block, front [3]int, solid func([3]int) bool) []float32 {
	var pos [4][3]float32
	var ao [4]float32
	for i, corner := range corners {
		p := [3]float32{float32(block[0]), float32(block[1]), float32(block[2])}
		if f.sign > 0 {
			p[f.axis]++
		}
		p[f.u] += float32(corner[0])
		p[f.v] += float32(corner[1])
		pos[i] = p

		side1, side2, diag := front, front, front
		du, dv := corner[0]*2-1, corner[1]*2-1
		side1[f.u] += du
		side2[f.v] += dv
		diag[f.u] += du
		diag[f.v] += dv
		ao[i] = occlusionCurve[vertexOcclusion(solid(side1), solid(side2), solid(diag))]
	}

	order := [6]int{0, 1, 2, 0, 2, 3}
	// split along the brighter diagonal so occlusion interpolates evenly
	if ao[0]+ao[2] < ao[1]+ao[3] {
		order = [6]int{1, 2, 3, 1, 3, 0}
	}
	if f.sign < 0 {
		order[1], order[2] = order[2], order[1]
		order[4], order[5] = order[5], order[4]
	}

	for _, i := range order {
		vertices = append(vertices,
			pos[i][0], pos[i][1], pos[i][2],
			f.normal[0], f.normal[1], f.normal[2],
			ao[i])
	}
	return vertices
}

func vertexOcclusion(side1, side2, corner bool) int {
	if side1 && side2 {
		return 0
	}
	n := 3
	for _, s := range [3]bool{side1, side2, corner} {
		if s {
			n--
		}
	}
	return n
}
