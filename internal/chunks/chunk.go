package chunks

import "github.com/go-gl/mathgl/mgl32"

type BlockID uint8

const (
	Air BlockID = iota
	Grass
	Dirt
	Stone
)

// Chunk is a cube of Size^3 blocks, the unit of meshing and drawing
type Chunk struct {
	X, Y, Z int // chunk coordinates
	Size    int

	blocks []BlockID
	solid  int
	loaded bool
	dirty  bool

	vao, vbo    uint32
	vertexCount int
}

func NewChunk(x, y, z, size int) *Chunk {
	return &Chunk{
		X:      x,
		Y:      y,
		Z:      z,
		Size:   size,
		blocks: make([]BlockID, size*size*size),
	}
}

// Origin is the world block coordinate of the chunk's first block
func (c *Chunk) Origin() (int, int, int) {
	return c.X * c.Size, c.Y * c.Size, c.Z * c.Size
}

// Center of the chunk in world space
func (c *Chunk) Center() mgl32.Vec3 {
	ox, oy, oz := c.Origin()
	half := float32(c.Size) / 2
	return mgl32.Vec3{float32(ox) + half, float32(oy) + half, float32(oz) + half}
}

func (c *Chunk) inBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < c.Size && y < c.Size && z < c.Size
}

func (c *Chunk) index(x, y, z int) int {
	return (y*c.Size+z)*c.Size + x
}

// Get returns the block at local coordinates, Air outside the chunk
func (c *Chunk) Get(x, y, z int) BlockID {
	if !c.inBounds(x, y, z) {
		return Air
	}
	return c.blocks[c.index(x, y, z)]
}

// Set stores a block at local coordinates and marks the chunk for remeshing
func (c *Chunk) Set(x, y, z int, id BlockID) {
	if !c.inBounds(x, y, z) {
		return
	}
	i := c.index(x, y, z)
	was := c.blocks[i]
	if was == id {
		return
	}
	if was == Air {
		c.solid++
	} else if id == Air {
		c.solid--
	}
	c.blocks[i] = id
	c.dirty = true
}

// SolidBlocks is the number of non air blocks
func (c *Chunk) SolidBlocks() int { return c.solid }

func (c *Chunk) IsEmpty() bool { return c.solid == 0 }

func (c *Chunk) IsLoaded() bool { return c.loaded }

func (c *Chunk) NeedsRebuild() bool { return c.dirty }

// VertexCount of the uploaded mesh
func (c *Chunk) VertexCount() int { return c.vertexCount }
