package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Capability is a server side GL capability toggled with Enable/Disable
type Capability int

const (
	DepthTest Capability = iota
	CullFace
	Blend
)

// PolygonMode selects how polygons are rasterized
type PolygonMode int

const (
	PolygonFill PolygonMode = iota
	PolygonLine
)

type BlendFactor int

const (
	BlendSrcAlpha BlendFactor = iota
	BlendOneMinusSrcAlpha
)

type DepthFunc int

const (
	DepthLess DepthFunc = iota
	DepthLessEqual
)

type BufferUsage int

const (
	StaticDraw BufferUsage = iota
	DynamicDraw
)

// ShaderStage identifies a programmable pipeline stage
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return "unknown"
}

// GraphicsContext is the subset of the graphics API the pipeline drives.
// Every call is a side effect on the current context and must be issued from
// the thread that owns it.
type GraphicsContext interface {
	ClearColor(r, g, b, a float32)
	Clear()
	Enable(c Capability)
	Disable(c Capability)
	DepthFunc(f DepthFunc)
	CullBackFaces()
	BlendFunc(src, dst BlendFactor)
	SetPolygonMode(m PolygonMode)
	Viewport(x, y, width, height int32)
	SetUnpackAlignment(n int32)

	// CreateShader compiles source for the given stage. The error carries
	// the driver info log.
	CreateShader(stage ShaderStage, source string) (uint32, error)
	DeleteShader(id uint32)
	// CreateProgram links the given stages into a program. The error carries
	// the driver info log.
	CreateProgram(shaders ...uint32) (uint32, error)
	DeleteProgram(id uint32)
	UseProgram(id uint32)
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform3f(location int32, x, y, z float32)
	UniformMatrix4(location int32, m mgl32.Mat4)

	CreateVertexArray() uint32
	BindVertexArray(id uint32)
	DeleteVertexArray(id uint32)
	CreateBuffer() uint32
	BindBuffer(id uint32)
	// BufferData uploads data to the bound array buffer
	BufferData(data []float32, usage BufferUsage)
	// AllocateBuffer reserves floats elements in the bound array buffer
	AllocateBuffer(floats int, usage BufferUsage)
	BufferSubData(data []float32)
	DeleteBuffer(id uint32)
	// VertexAttrib describes a float attribute of the bound array buffer.
	// size, stride and offset are in floats.
	VertexAttrib(index uint32, size, stride, offset int32)

	// CreateTexture uploads a single channel (red) texture
	CreateTexture(width, height int32, pixels []byte) uint32
	ActiveTexture(unit uint32)
	BindTexture(id uint32)
	DeleteTexture(id uint32)

	DrawTriangles(first, count int32)
}

// Clock returns monotonic time in seconds
type Clock interface {
	Now() float64
}

// ClockFunc adapts a function to Clock
type ClockFunc func() float64

func (f ClockFunc) Now() float64 { return f() }
