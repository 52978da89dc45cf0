package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// recordingContext is a GraphicsContext that records calls instead of
// talking to a GPU
type recordingContext struct {
	calls       []string
	nextID      uint32
	uniformName map[int32]string
	uniformLoc  map[string]int32
	bound       uint32
	polygonMode PolygonMode
	failLink    bool

	uploads  [][]float32
	textures map[uint32][2]int32
	mat4     map[string]mgl32.Mat4
	vec3     map[string]mgl32.Vec3
	ints     map[string]int32
	floats   map[string]float32
}

func newRecordingContext() *recordingContext {
	return &recordingContext{
		uniformName: map[int32]string{},
		uniformLoc:  map[string]int32{},
		textures:    map[uint32][2]int32{},
		mat4:        map[string]mgl32.Mat4{},
		vec3:        map[string]mgl32.Vec3{},
		ints:        map[string]int32{},
		floats:      map[string]float32{},
	}
}

func (c *recordingContext) record(format string, args ...interface{}) {
	c.calls = append(c.calls, fmt.Sprintf(format, args...))
}

func (c *recordingContext) id() uint32 {
	c.nextID++
	return c.nextID
}

// count returns how many recorded calls start with prefix
func (c *recordingContext) count(prefix string) int {
	n := 0
	for _, call := range c.calls {
		if strings.HasPrefix(call, prefix) {
			n++
		}
	}
	return n
}

// index returns the position of the first call starting with prefix at or after from
func (c *recordingContext) index(prefix string, from int) int {
	for i := from; i < len(c.calls); i++ {
		if strings.HasPrefix(c.calls[i], prefix) {
			return i
		}
	}
	return -1
}

func (c *recordingContext) reset() {
	c.calls = nil
	c.uploads = nil
}

func (c *recordingContext) ClearColor(r, g, b, a float32) { c.record("ClearColor") }
func (c *recordingContext) Clear()                        { c.record("Clear") }
func (c *recordingContext) Enable(cp Capability)          { c.record("Enable(%d)", cp) }
func (c *recordingContext) Disable(cp Capability)         { c.record("Disable(%d)", cp) }
func (c *recordingContext) DepthFunc(f DepthFunc)         { c.record("DepthFunc") }
func (c *recordingContext) CullBackFaces()                { c.record("CullBackFaces") }
func (c *recordingContext) BlendFunc(src, dst BlendFactor) {
	c.record("BlendFunc")
}

func (c *recordingContext) SetPolygonMode(m PolygonMode) {
	c.polygonMode = m
	if m == PolygonLine {
		c.record("PolygonMode(LINE)")
		return
	}
	c.record("PolygonMode(FILL)")
}

func (c *recordingContext) Viewport(x, y, width, height int32) {
	c.record("Viewport(%d,%d)", width, height)
}
func (c *recordingContext) SetUnpackAlignment(n int32) { c.record("UnpackAlignment") }

func (c *recordingContext) CreateShader(stage ShaderStage, source string) (uint32, error) {
	if strings.Contains(source, "#error") {
		c.record("CreateShader(%s) failed", stage)
		return 0, errors.New("0:1(1): error: forced failure")
	}
	c.record("CreateShader(%s)", stage)
	return c.id(), nil
}

func (c *recordingContext) DeleteShader(id uint32) { c.record("DeleteShader") }

func (c *recordingContext) CreateProgram(shaders ...uint32) (uint32, error) {
	if c.failLink || len(shaders) < 2 {
		c.record("CreateProgram failed")
		return 0, errors.New("link error: missing stage")
	}
	c.record("CreateProgram")
	return c.id(), nil
}

func (c *recordingContext) DeleteProgram(id uint32) { c.record("DeleteProgram") }
func (c *recordingContext) UseProgram(id uint32)    { c.record("UseProgram(%d)", id) }

func (c *recordingContext) UniformLocation(program uint32, name string) int32 {
	c.record("UniformLocation(%s)", name)
	key := fmt.Sprintf("%d/%s", program, name)
	if loc, ok := c.uniformLoc[key]; ok {
		return loc
	}
	loc := int32(len(c.uniformLoc))
	c.uniformLoc[key] = loc
	c.uniformName[loc] = name
	return loc
}

func (c *recordingContext) Uniform1i(location int32, v int32) {
	name := c.uniformName[location]
	c.ints[name] = v
	c.record("Uniform(%s)", name)
}

func (c *recordingContext) Uniform1f(location int32, v float32) {
	name := c.uniformName[location]
	c.floats[name] = v
	c.record("Uniform(%s)", name)
}

func (c *recordingContext) Uniform3f(location int32, x, y, z float32) {
	name := c.uniformName[location]
	c.vec3[name] = mgl32.Vec3{x, y, z}
	c.record("Uniform(%s)", name)
}

func (c *recordingContext) UniformMatrix4(location int32, m mgl32.Mat4) {
	name := c.uniformName[location]
	c.mat4[name] = m
	c.record("Uniform(%s)", name)
}

func (c *recordingContext) CreateVertexArray() uint32     { c.record("CreateVertexArray"); return c.id() }
func (c *recordingContext) BindVertexArray(id uint32)     { c.record("BindVertexArray") }
func (c *recordingContext) DeleteVertexArray(id uint32)   { c.record("DeleteVertexArray") }
func (c *recordingContext) CreateBuffer() uint32          { c.record("CreateBuffer"); return c.id() }
func (c *recordingContext) BindBuffer(id uint32)          { c.bound = id; c.record("BindBuffer") }
func (c *recordingContext) DeleteBuffer(id uint32)        { c.record("DeleteBuffer") }
func (c *recordingContext) ActiveTexture(unit uint32)     { c.record("ActiveTexture") }
func (c *recordingContext) BindTexture(id uint32)         { c.record("BindTexture(%d)", id) }
func (c *recordingContext) DeleteTexture(id uint32)       { c.record("DeleteTexture") }

func (c *recordingContext) AllocateBuffer(n int, u BufferUsage) {
	c.record("AllocateBuffer(%d)", n)
}

func (c *recordingContext) BufferData(data []float32, u BufferUsage) {
	c.record("BufferData(%d)", len(data))
}

func (c *recordingContext) BufferSubData(data []float32) {
	c.uploads = append(c.uploads, append([]float32(nil), data...))
	c.record("BufferSubData(%d)", len(data))
}

func (c *recordingContext) VertexAttrib(index uint32, size, stride, offset int32) {
	c.record("VertexAttrib(%d)", index)
}

func (c *recordingContext) CreateTexture(width, height int32, pixels []byte) uint32 {
	id := c.id()
	c.textures[id] = [2]int32{width, height}
	c.record("CreateTexture")
	return id
}

func (c *recordingContext) DrawTriangles(first, count int32) {
	if c.polygonMode == PolygonLine {
		c.record("DrawTriangles(%d) LINE", count)
		return
	}
	c.record("DrawTriangles(%d) FILL", count)
}

// fakeClock advances by step on every read
type fakeClock struct {
	now  float64
	step float64
}

func (c *fakeClock) Now() float64 {
	t := c.now
	c.now += c.step
	return t
}
