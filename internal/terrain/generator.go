package terrain

import (
	"math"

	"Kube/internal/chunks"
	"Kube/internal/config"
	"Kube/internal/logger"

	"github.com/aquilax/go-perlin"
	"go.uber.org/zap"
)

const dirtDepth = 3

// Generator fills chunks with a Perlin heightmap terrain.
// Stone below, dirt near the surface and a single grass layer on top.
type Generator struct {
	noise     *perlin.Perlin
	frequency float64
	amplitude float64
	baseLevel int
}

func NewGenerator(cfg config.TerrainConfig) *Generator {
	return &Generator{
		noise:     perlin.NewPerlin(cfg.Alpha, cfg.Beta, cfg.Octaves, cfg.Seed),
		frequency: cfg.Frequency,
		amplitude: cfg.Amplitude,
		baseLevel: cfg.BaseLevel,
	}
}

// HeightAt returns the surface height at a world column. Blocks with
// y < HeightAt are solid.
func (g *Generator) HeightAt(x, z int) int {
	v := clamp(g.noise.Noise2D(float64(x)*g.frequency, float64(z)*g.frequency), -1, 1)
	return g.surface(v)
}

func (g *Generator) surface(v float64) int {
	return g.baseLevel + int(math.Round(v*g.amplitude))
}

// OnChunkLoad is installed as the chunk manager's load callback
func (g *Generator) OnChunkLoad(c *chunks.Chunk) {
	ox, oy, oz := c.Origin()
	hm, err := NewHeightMapBuilder(g.noise).
		SetDestSize(c.Size, c.Size).
		SetBounds(
			float64(ox)*g.frequency, float64(ox+c.Size)*g.frequency,
			float64(oz)*g.frequency, float64(oz+c.Size)*g.frequency,
		).
		Build()
	if err != nil {
		logger.Log.Error("Could not build heightmap", zap.Error(err),
			zap.Int("chunkX", c.X), zap.Int("chunkZ", c.Z))
		return
	}

	for z := 0; z < c.Size; z++ {
		for x := 0; x < c.Size; x++ {
			height := g.surface(hm.At(x, z))
			for y := 0; y < c.Size; y++ {
				wy := oy + y
				if wy >= height {
					break
				}
				c.Set(x, y, z, blockFor(wy, height))
			}
		}
	}
}

func blockFor(y, height int) chunks.BlockID {
	switch {
	case y == height-1:
		return chunks.Grass
	case y >= height-1-dirtDepth:
		return chunks.Dirt
	default:
		return chunks.Stone
	}
}
