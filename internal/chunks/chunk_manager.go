package chunks

import (
	"sort"

	"Kube/internal/logger"
	"Kube/internal/renderer"

	"go.uber.org/zap"
)

const (
	DefaultLoadsPerFrame  = 4
	DefaultMeshesPerFrame = 4
)

// ChunkLoadFunc fills a chunk with blocks the first time it is loaded
type ChunkLoadFunc func(c *Chunk)

// ChunkManager owns a fixed grid of chunks. Loading and meshing are spread
// over frames and all GPU uploads happen on the calling (render) thread.
type ChunkManager struct {
	ctx              renderer.GraphicsContext
	numX, numY, numZ int
	size             int

	chunks    []*Chunk
	loadQueue []*Chunk
	onLoad    ChunkLoadFunc

	LoadsPerFrame  int
	MeshesPerFrame int

	vertexCount int
}

func NewChunkManager(ctx renderer.GraphicsContext, numX, numY, numZ, size int) *ChunkManager {
	cm := &ChunkManager{
		ctx:            ctx,
		numX:           numX,
		numY:           numY,
		numZ:           numZ,
		size:           size,
		chunks:         make([]*Chunk, 0, numX*numY*numZ),
		LoadsPerFrame:  DefaultLoadsPerFrame,
		MeshesPerFrame: DefaultMeshesPerFrame,
	}
	for y := 0; y < numY; y++ {
		for z := 0; z < numZ; z++ {
			for x := 0; x < numX; x++ {
				c := NewChunk(x, y, z, size)
				cm.chunks = append(cm.chunks, c)
				cm.loadQueue = append(cm.loadQueue, c)
			}
		}
	}
	logger.Log.Info("Chunk manager created",
		zap.Int("chunks", len(cm.chunks)),
		zap.Int("chunkSize", size))
	return cm
}

func (cm *ChunkManager) SetChunkLoadCallback(fn ChunkLoadFunc) {
	cm.onLoad = fn
}

// Dimensions returns the grid size in chunks
func (cm *ChunkManager) Dimensions() (int, int, int) {
	return cm.numX, cm.numY, cm.numZ
}

func (cm *ChunkManager) ChunkSize() int { return cm.size }

// Chunk returns the chunk at chunk coordinates, nil outside the grid
func (cm *ChunkManager) Chunk(cx, cy, cz int) *Chunk {
	if cx < 0 || cy < 0 || cz < 0 || cx >= cm.numX || cy >= cm.numY || cz >= cm.numZ {
		return nil
	}
	return cm.chunks[(cy*cm.numZ+cz)*cm.numX+cx]
}

func (cm *ChunkManager) Chunks() []*Chunk {
	return cm.chunks
}

func (cm *ChunkManager) locate(x, y, z int) (*Chunk, int, int, int) {
	if x < 0 || y < 0 || z < 0 {
		return nil, 0, 0, 0
	}
	c := cm.Chunk(x/cm.size, y/cm.size, z/cm.size)
	return c, x % cm.size, y % cm.size, z % cm.size
}

// BlockAt returns the block at world coordinates. Blocks outside the grid
// and in unloaded chunks read as Air.
func (cm *ChunkManager) BlockAt(x, y, z int) BlockID {
	c, lx, ly, lz := cm.locate(x, y, z)
	if c == nil || !c.loaded {
		return Air
	}
	return c.Get(lx, ly, lz)
}

// SetBlock edits a block in a loaded or unloaded chunk. Neighbour chunks
// sharing the edited face are marked for remeshing.
func (cm *ChunkManager) SetBlock(x, y, z int, id BlockID) {
	c, lx, ly, lz := cm.locate(x, y, z)
	if c == nil {
		return
	}
	before := c.Get(lx, ly, lz)
	c.Set(lx, ly, lz, id)
	if before == id {
		return
	}
	last := cm.size - 1
	if lx == 0 {
		cm.markDirty(c.X-1, c.Y, c.Z)
	} else if lx == last {
		cm.markDirty(c.X+1, c.Y, c.Z)
	}
	if ly == 0 {
		cm.markDirty(c.X, c.Y-1, c.Z)
	} else if ly == last {
		cm.markDirty(c.X, c.Y+1, c.Z)
	}
	if lz == 0 {
		cm.markDirty(c.X, c.Y, c.Z-1)
	} else if lz == last {
		cm.markDirty(c.X, c.Y, c.Z+1)
	}
}

func (cm *ChunkManager) markDirty(cx, cy, cz int) {
	if c := cm.Chunk(cx, cy, cz); c != nil && c.loaded {
		c.dirty = true
	}
}

// PendingLoads is the number of chunks not loaded yet
func (cm *ChunkManager) PendingLoads() int {
	return len(cm.loadQueue)
}

// PendingMeshes is the number of loaded chunks waiting for a rebuild
func (cm *ChunkManager) PendingMeshes() int {
	n := 0
	for _, c := range cm.chunks {
		if c.loaded && c.dirty {
			n++
		}
	}
	return n
}

// Update loads up to LoadsPerFrame chunks, nearest to the camera first,
// then rebuilds up to MeshesPerFrame dirty meshes
func (cm *ChunkManager) Update(deltaTime float32, camera *renderer.Camera) {
	if len(cm.loadQueue) > 0 {
		if camera != nil {
			eye := camera.GetPosition()
			sort.SliceStable(cm.loadQueue, func(i, j int) bool {
				return cm.loadQueue[i].Center().Sub(eye).LenSqr() < cm.loadQueue[j].Center().Sub(eye).LenSqr()
			})
		}
		cm.loadChunks(cm.LoadsPerFrame)
	}
	cm.rebuildMeshes(cm.MeshesPerFrame)
}

// LoadAll loads and meshes every chunk immediately
func (cm *ChunkManager) LoadAll() {
	cm.loadChunks(len(cm.loadQueue))
	cm.rebuildMeshes(len(cm.chunks))
}

func (cm *ChunkManager) loadChunks(budget int) {
	n := budget
	if n > len(cm.loadQueue) {
		n = len(cm.loadQueue)
	}
	for _, c := range cm.loadQueue[:n] {
		if cm.onLoad != nil {
			cm.onLoad(c)
		}
		c.loaded = true
		c.dirty = true
		// faces against this chunk were emitted while it read as air
		cm.markDirty(c.X-1, c.Y, c.Z)
		cm.markDirty(c.X+1, c.Y, c.Z)
		cm.markDirty(c.X, c.Y-1, c.Z)
		cm.markDirty(c.X, c.Y+1, c.Z)
		cm.markDirty(c.X, c.Y, c.Z-1)
		cm.markDirty(c.X, c.Y, c.Z+1)
	}
	cm.loadQueue = cm.loadQueue[n:]
}

func (cm *ChunkManager) rebuildMeshes(budget int) {
	for _, c := range cm.chunks {
		if budget <= 0 {
			return
		}
		if !c.loaded || !c.dirty {
			continue
		}
		cm.upload(c, BuildMesh(c, cm.BlockAt))
		c.dirty = false
		budget--
	}
}

func (cm *ChunkManager) upload(c *Chunk, vertices []float32) {
	cm.vertexCount -= c.vertexCount
	c.vertexCount = len(vertices) / VertexStride
	cm.vertexCount += c.vertexCount

	if c.vertexCount == 0 {
		cm.release(c)
		return
	}
	if c.vao == 0 {
		c.vao = cm.ctx.CreateVertexArray()
		c.vbo = cm.ctx.CreateBuffer()
		cm.ctx.BindVertexArray(c.vao)
		cm.ctx.BindBuffer(c.vbo)
		cm.ctx.VertexAttrib(0, 3, VertexStride, 0)
		cm.ctx.VertexAttrib(1, 3, VertexStride, 3)
		cm.ctx.VertexAttrib(2, 1, VertexStride, 6)
	} else {
		cm.ctx.BindVertexArray(c.vao)
		cm.ctx.BindBuffer(c.vbo)
	}
	cm.ctx.BufferData(vertices, renderer.StaticDraw)
	cm.ctx.BindVertexArray(0)
}

func (cm *ChunkManager) release(c *Chunk) {
	if c.vao != 0 {
		cm.ctx.DeleteBuffer(c.vbo)
		cm.ctx.DeleteVertexArray(c.vao)
		c.vao, c.vbo = 0, 0
	}
}

// NumberOfVertices is the total vertex count of all uploaded meshes
func (cm *ChunkManager) NumberOfVertices() int {
	return cm.vertexCount
}

// Render draws every non empty chunk mesh. The shader is already bound
// and its uniforms set by the renderer.
func (cm *ChunkManager) Render(shader *renderer.Shader) {
	drawn := false
	for _, c := range cm.chunks {
		if c.vao == 0 || c.vertexCount == 0 {
			continue
		}
		cm.ctx.BindVertexArray(c.vao)
		cm.ctx.DrawTriangles(0, int32(c.vertexCount))
		drawn = true
	}
	if drawn {
		cm.ctx.BindVertexArray(0)
	}
}

// Destroy frees all chunk meshes
func (cm *ChunkManager) Destroy() {
	for _, c := range cm.chunks {
		cm.release(c)
		c.vertexCount = 0
	}
	cm.vertexCount = 0
}
