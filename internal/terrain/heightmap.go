package terrain

import (
	"errors"
	"fmt"

	"github.com/aquilax/go-perlin"
)

var ErrEmptyHeightMap = errors.New("heightmap size must be positive")

// HeightMap is a Width x Height grid of noise values in [-1, 1]
type HeightMap struct {
	Width, Height int
	Values        []float64
}

func NewHeightMap(width, height int) *HeightMap {
	return &HeightMap{Width: width, Height: height, Values: make([]float64, width*height)}
}

func (hm *HeightMap) At(x, z int) float64 {
	return hm.Values[z*hm.Width+x]
}

func (hm *HeightMap) Set(x, z int, v float64) {
	hm.Values[z*hm.Width+x] = v
}

// HeightMapBuilder samples 2D Perlin noise over the rectangle
// [x0, x1) x [z0, z1) of noise space
type HeightMapBuilder struct {
	noise         *perlin.Perlin
	width, height int
	x0, x1        float64
	z0, z1        float64
}

func NewHeightMapBuilder(noise *perlin.Perlin) *HeightMapBuilder {
	return &HeightMapBuilder{noise: noise, x1: 1, z1: 1}
}

func (b *HeightMapBuilder) SetDestSize(width, height int) *HeightMapBuilder {
	b.width, b.height = width, height
	return b
}

func (b *HeightMapBuilder) SetBounds(x0, x1, z0, z1 float64) *HeightMapBuilder {
	b.x0, b.x1, b.z0, b.z1 = x0, x1, z0, z1
	return b
}

func (b *HeightMapBuilder) Build() (*HeightMap, error) {
	if b.width <= 0 || b.height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyHeightMap, b.width, b.height)
	}
	hm := NewHeightMap(b.width, b.height)
	dx := (b.x1 - b.x0) / float64(b.width)
	dz := (b.z1 - b.z0) / float64(b.height)
	for z := 0; z < b.height; z++ {
		for x := 0; x < b.width; x++ {
			v := b.noise.Noise2D(b.x0+float64(x)*dx, b.z0+float64(z)*dz)
			hm.Set(x, z, clamp(v, -1, 1))
		}
	}
	return hm, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
