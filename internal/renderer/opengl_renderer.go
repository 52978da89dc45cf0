package renderer

import (
	"fmt"
	"strings"
	"unsafe"

	"Kube/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const floatSize = 4

// OpenGLContext issues GraphicsContext calls against the current OpenGL 4.1
// core context
type OpenGLContext struct{}

// NewOpenGLContext loads the GL function pointers for the current context
func NewOpenGLContext() (*OpenGLContext, error) {
	if err := gl.Init(); err != nil {
		return nil, BackendError("gl init", err)
	}
	logger.Log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
	return &OpenGLContext{}, nil
}

func capability(c Capability) uint32 {
	switch c {
	case DepthTest:
		return gl.DEPTH_TEST
	case CullFace:
		return gl.CULL_FACE
	case Blend:
		return gl.BLEND
	}
	panic(fmt.Sprintf("unknown capability %d", c))
}

func blendFactor(f BlendFactor) uint32 {
	if f == BlendSrcAlpha {
		return gl.SRC_ALPHA
	}
	return gl.ONE_MINUS_SRC_ALPHA
}

func usage(u BufferUsage) uint32 {
	if u == DynamicDraw {
		return gl.DYNAMIC_DRAW
	}
	return gl.STATIC_DRAW
}

func (c *OpenGLContext) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (c *OpenGLContext) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT) }

func (c *OpenGLContext) Enable(cap Capability) { gl.Enable(capability(cap)) }

func (c *OpenGLContext) Disable(cap Capability) { gl.Disable(capability(cap)) }

func (c *OpenGLContext) DepthFunc(f DepthFunc) {
	if f == DepthLessEqual {
		gl.DepthFunc(gl.LEQUAL)
		return
	}
	gl.DepthFunc(gl.LESS)
}

// Culling : https://learnopengl.com/Advanced-OpenGL/Face-culling
func (c *OpenGLContext) CullBackFaces() {
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
}

func (c *OpenGLContext) BlendFunc(src, dst BlendFactor) {
	gl.BlendFunc(blendFactor(src), blendFactor(dst))
}

func (c *OpenGLContext) SetPolygonMode(m PolygonMode) {
	if m == PolygonLine {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		return
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

func (c *OpenGLContext) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (c *OpenGLContext) SetUnpackAlignment(n int32) { gl.PixelStorei(gl.UNPACK_ALIGNMENT, n) }

func (c *OpenGLContext) CreateShader(stage ShaderStage, source string) (uint32, error) {
	shaderType := uint32(gl.VERTEX_SHADER)
	if stage == FragmentStage {
		shaderType = gl.FRAGMENT_SHADER
	}

	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (c *OpenGLContext) DeleteShader(id uint32) { gl.DeleteShader(id) }

func (c *OpenGLContext) CreateProgram(shaders ...uint32) (uint32, error) {
	if len(shaders) == 0 {
		return 0, fmt.Errorf("no compiled stages")
	}
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)
	for _, s := range shaders {
		gl.DetachShader(program, s)
	}

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%s", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func (c *OpenGLContext) DeleteProgram(id uint32) { gl.DeleteProgram(id) }

func (c *OpenGLContext) UseProgram(id uint32) { gl.UseProgram(id) }

func (c *OpenGLContext) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (c *OpenGLContext) Uniform1i(location int32, v int32) { gl.Uniform1i(location, v) }

func (c *OpenGLContext) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (c *OpenGLContext) Uniform3f(location int32, x, y, z float32) { gl.Uniform3f(location, x, y, z) }

func (c *OpenGLContext) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (c *OpenGLContext) CreateVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (c *OpenGLContext) BindVertexArray(id uint32) { gl.BindVertexArray(id) }

func (c *OpenGLContext) DeleteVertexArray(id uint32) { gl.DeleteVertexArrays(1, &id) }

func (c *OpenGLContext) CreateBuffer() uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	return vbo
}

func (c *OpenGLContext) BindBuffer(id uint32) { gl.BindBuffer(gl.ARRAY_BUFFER, id) }

func (c *OpenGLContext) BufferData(data []float32, u BufferUsage) {
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, usage(u))
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*floatSize, gl.Ptr(data), usage(u))
}

func (c *OpenGLContext) AllocateBuffer(floats int, u BufferUsage) {
	gl.BufferData(gl.ARRAY_BUFFER, floats*floatSize, nil, usage(u))
}

func (c *OpenGLContext) BufferSubData(data []float32) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*floatSize, gl.Ptr(data))
}

func (c *OpenGLContext) DeleteBuffer(id uint32) { gl.DeleteBuffers(1, &id) }

func (c *OpenGLContext) VertexAttrib(index uint32, size, stride, offset int32) {
	gl.EnableVertexAttribArray(index)
	gl.VertexAttribPointer(index, size, gl.FLOAT, false, stride*floatSize, gl.PtrOffset(int(offset)*floatSize))
}

func (c *OpenGLContext) CreateTexture(width, height int32, pixels []byte) uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, width, height, 0, gl.RED, gl.UNSIGNED_BYTE, ptr)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texture
}

func (c *OpenGLContext) ActiveTexture(unit uint32) { gl.ActiveTexture(gl.TEXTURE0 + unit) }

func (c *OpenGLContext) BindTexture(id uint32) { gl.BindTexture(gl.TEXTURE_2D, id) }

func (c *OpenGLContext) DeleteTexture(id uint32) { gl.DeleteTextures(1, &id) }

func (c *OpenGLContext) DrawTriangles(first, count int32) { gl.DrawArrays(gl.TRIANGLES, first, count) }
