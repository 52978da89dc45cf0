package renderer

import (
	"fmt"
	"os"
	"path/filepath"

	"Kube/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Default shader file names, relative to the shader directory
const (
	PhongVertexFile   = "BasicPhong.vert"
	PhongFragmentFile = "BasicPhong.frag"
	TextVertexFile    = "BasicText.vert"
	TextFragmentFile  = "BasicText.frag"
)

// =============================================================
//
//	Shaders
//
// =============================================================
type Shader struct {
	ctx      GraphicsContext
	program  uint32
	stages   []uint32
	linked   bool
	uniforms *UniformCache
}

func NewShader(ctx GraphicsContext) *Shader {
	return &Shader{ctx: ctx, uniforms: NewUniformCache(ctx, 0)}
}

// LoadShader compiles and links a vertex/fragment pair read from disk
func LoadShader(ctx GraphicsContext, vertexPath, fragmentPath string) (*Shader, error) {
	shader := NewShader(ctx)
	if err := shader.CompileFile(vertexPath, VertexStage); err != nil {
		shader.Delete()
		return nil, err
	}
	if err := shader.CompileFile(fragmentPath, FragmentStage); err != nil {
		shader.Delete()
		return nil, err
	}
	if err := shader.Link(); err != nil {
		shader.Delete()
		return nil, err
	}
	return shader, nil
}

// CompileFile reads path and compiles it as the given stage
func (shader *Shader) CompileFile(path string, stage ShaderStage) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return newError(KindError, "compile "+filepath.Base(path), fmt.Errorf("%w: %v", ErrShaderSource, err))
	}
	if err := shader.CompileSource(string(source), stage); err != nil {
		return newError(KindError, "compile "+filepath.Base(path), err)
	}
	return nil
}

// CompileSource compiles source as the given stage and keeps it for the next Link
func (shader *Shader) CompileSource(source string, stage ShaderStage) error {
	id, err := shader.ctx.CreateShader(stage, source)
	if err != nil {
		logger.Log.Error("Failed to compile", zap.Stringer("stage", stage), zap.Error(err))
		return fmt.Errorf("%w: %s stage: %v", ErrShaderCompile, stage, err)
	}
	shader.stages = append(shader.stages, id)
	return nil
}

// Link links every compiled stage into a program. The stages are released
// whether or not linking succeeds.
func (shader *Shader) Link() error {
	defer func() {
		for _, id := range shader.stages {
			shader.ctx.DeleteShader(id)
		}
		shader.stages = nil
	}()

	program, err := shader.ctx.CreateProgram(shader.stages...)
	if err != nil {
		logger.Log.Error("Failed to link program", zap.Error(err))
		return newError(KindError, "link", fmt.Errorf("%w: %v", ErrShaderLink, err))
	}

	if shader.linked {
		shader.ctx.DeleteProgram(shader.program)
	}
	shader.program = program
	shader.linked = true
	shader.uniforms.Reset(program)
	logger.Log.Debug("Shader program linked", zap.Uint32("program", program))
	return nil
}

func (shader *Shader) Use() {
	shader.ctx.UseProgram(shader.program)
}

func (shader *Shader) Handle() uint32 {
	return shader.program
}

func (shader *Shader) IsLinked() bool {
	return shader.linked
}

func (shader *Shader) location(name string) (int32, error) {
	if !shader.linked {
		return -1, fmt.Errorf("%w: uniform %q", ErrShaderNotLinked, name)
	}
	return shader.uniforms.GetLocation(name), nil
}

func (shader *Shader) SetInt(name string, value int32) error {
	loc, err := shader.location(name)
	if err != nil {
		return err
	}
	if loc != -1 {
		shader.ctx.Uniform1i(loc, value)
	}
	return nil
}

func (shader *Shader) SetFloat(name string, value float32) error {
	loc, err := shader.location(name)
	if err != nil {
		return err
	}
	if loc != -1 {
		shader.ctx.Uniform1f(loc, value)
	}
	return nil
}

func (shader *Shader) SetVec3(name string, value mgl32.Vec3) error {
	loc, err := shader.location(name)
	if err != nil {
		return err
	}
	if loc != -1 {
		shader.ctx.Uniform3f(loc, value.X(), value.Y(), value.Z())
	}
	return nil
}

func (shader *Shader) SetMat4(name string, value mgl32.Mat4) error {
	loc, err := shader.location(name)
	if err != nil {
		return err
	}
	if loc != -1 {
		shader.ctx.UniformMatrix4(loc, value)
	}
	return nil
}

// Delete releases the program and any stage not yet linked
func (shader *Shader) Delete() {
	for _, id := range shader.stages {
		shader.ctx.DeleteShader(id)
	}
	shader.stages = nil
	if shader.linked {
		shader.ctx.DeleteProgram(shader.program)
		shader.linked = false
		shader.program = 0
	}
}
