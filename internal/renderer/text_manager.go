package renderer

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"

	"Kube/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// GlyphCount is the number of code points rasterized at startup (ASCII)
const GlyphCount = 128

const quadFloats = 6 * 4 // 6 vertices of (x, y, u, v)

type TextConfig struct {
	FontPath  string
	PixelSize float64
	ShaderDir string
	Width     int32
	Height    int32
}

// Character holds the metrics and texture of one rasterized glyph
type Character struct {
	TextureID uint32
	Size      [2]int32 // bitmap width and rows
	Bearing   [2]int32 // offset from the baseline to the left/top of the bitmap
	Advance   uint32   // horizontal advance in 1/64 pixels
}

// TextManager draws diagnostic text as one textured quad per glyph. Each
// instance owns its glyph textures, its vertex buffer and its shader.
type TextManager struct {
	ctx        GraphicsContext
	shader     *Shader
	characters map[rune]Character
	vao, vbo   uint32
	width      int32
	height     int32
	warned     map[rune]bool
	vertices   [quadFloats]float32
}

// NewTextManager loads the font at cfg.FontPath. A missing or unreadable
// font is a KindError failure.
func NewTextManager(ctx GraphicsContext, cfg TextConfig) (*TextManager, error) {
	data, err := os.ReadFile(cfg.FontPath)
	if err != nil {
		return nil, newError(KindError, "load font", fmt.Errorf("%w: %v", ErrFontLoad, err))
	}
	return NewTextManagerFromFont(ctx, data, cfg)
}

// NewTextManagerFromFont rasterizes code points 0-127 of the given
// TrueType/OpenType data
func NewTextManagerFromFont(ctx GraphicsContext, fontData []byte, cfg TextConfig) (*TextManager, error) {
	parsed, err := opentype.Parse(fontData)
	if err != nil {
		return nil, newError(KindError, "parse font", fmt.Errorf("%w: %v", ErrFontLoad, err))
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    cfg.PixelSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, newError(KindFatal, "font rasterizer", fmt.Errorf("%w: %v", ErrBackendInit, err))
	}
	defer func() { _ = face.Close() }()

	shader, err := LoadShader(ctx,
		filepath.Join(cfg.ShaderDir, TextVertexFile),
		filepath.Join(cfg.ShaderDir, TextFragmentFile))
	if err != nil {
		return nil, err
	}

	tm := &TextManager{
		ctx:        ctx,
		shader:     shader,
		characters: make(map[rune]Character, GlyphCount),
		warned:     make(map[rune]bool),
	}

	ctx.SetUnpackAlignment(1)
	if err := tm.loadGlyphs(face); err != nil {
		logger.Log.Warn("Some glyphs were skipped", zap.Error(err))
	}

	// One dynamic buffer shared by every glyph quad
	tm.vao = ctx.CreateVertexArray()
	tm.vbo = ctx.CreateBuffer()
	ctx.BindVertexArray(tm.vao)
	ctx.BindBuffer(tm.vbo)
	ctx.AllocateBuffer(quadFloats, DynamicDraw)
	ctx.VertexAttrib(0, 4, 4, 0)
	ctx.BindBuffer(0)
	ctx.BindVertexArray(0)

	tm.Resize(cfg.Width, cfg.Height)

	logger.Log.Debug("Loaded font",
		zap.Int("glyphs", len(tm.characters)),
		zap.Float64("pixelSize", cfg.PixelSize))
	return tm, nil
}

func (tm *TextManager) loadGlyphs(face font.Face) error {
	var skipped error
	for c := rune(0); c < GlyphCount; c++ {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), c)
		if !ok {
			skipped = multierr.Append(skipped, newError(KindSkip, fmt.Sprintf("glyph %q", c), ErrGlyphLoad))
			continue
		}

		w, h := dr.Dx(), dr.Dy()
		var pixels []byte
		if w > 0 && h > 0 && mask != nil {
			bitmap := image.NewAlpha(image.Rect(0, 0, w, h))
			draw.Draw(bitmap, bitmap.Bounds(), mask, maskp, draw.Src)
			pixels = bitmap.Pix
		}

		tm.characters[c] = Character{
			TextureID: tm.ctx.CreateTexture(int32(w), int32(h), pixels),
			Size:      [2]int32{int32(w), int32(h)},
			Bearing:   [2]int32{int32(dr.Min.X), int32(-dr.Min.Y)},
			Advance:   uint32(advance),
		}
	}
	return skipped
}

// Glyph looks up a loaded character
func (tm *TextManager) Glyph(r rune) (Character, error) {
	ch, ok := tm.characters[r]
	if !ok {
		return Character{}, newError(KindSkip, fmt.Sprintf("glyph %q", r), ErrMissingGlyph)
	}
	return ch, nil
}

// Resize sets the text projection to the window size
func (tm *TextManager) Resize(width, height int32) {
	tm.width, tm.height = width, height
	projection := mgl32.Ortho2D(0, float32(width), 0, float32(height))
	tm.shader.Use()
	if err := tm.shader.SetMat4("projection", projection); err != nil {
		logger.Log.Error("Could not set text projection", zap.Error(err))
	}
}

func (tm *TextManager) Size() (int32, int32) {
	return tm.width, tm.height
}

// RenderText draws text with its baseline starting at (x, y) in window
// pixels, origin bottom left. Characters without a glyph are skipped and
// reported in the returned error; the rest of the string is still drawn.
func (tm *TextManager) RenderText(text string, x, y, scale float32, color mgl32.Vec3) error {
	tm.shader.Use()
	if err := tm.shader.SetVec3("textColor", color); err != nil {
		return err
	}
	tm.ctx.ActiveTexture(0)
	tm.ctx.BindVertexArray(tm.vao)

	var missing error
	for _, c := range text {
		ch, err := tm.Glyph(c)
		if err != nil {
			if !tm.warned[c] {
				logger.Log.Warn("Glyph not loaded, skipping", zap.String("char", string(c)), zap.Int32("code", c))
				tm.warned[c] = true
			}
			missing = multierr.Append(missing, err)
			continue
		}

		xpos := x + float32(ch.Bearing[0])*scale
		ypos := y - float32(ch.Size[1]-ch.Bearing[1])*scale
		w := float32(ch.Size[0]) * scale
		h := float32(ch.Size[1]) * scale

		tm.vertices = [quadFloats]float32{
			xpos, ypos + h, 0.0, 0.0,
			xpos, ypos, 0.0, 1.0,
			xpos + w, ypos, 1.0, 1.0,

			xpos, ypos + h, 0.0, 0.0,
			xpos + w, ypos, 1.0, 1.0,
			xpos + w, ypos + h, 1.0, 0.0,
		}

		tm.ctx.BindTexture(ch.TextureID)
		tm.ctx.BindBuffer(tm.vbo)
		tm.ctx.BufferSubData(tm.vertices[:])
		tm.ctx.BindBuffer(0)
		tm.ctx.DrawTriangles(0, 6)

		// advance is in 1/64 pixels
		x += float32(ch.Advance>>6) * scale
	}
	tm.ctx.BindVertexArray(0)
	tm.ctx.BindTexture(0)
	return missing
}

// MeasureText returns how far RenderText moves the cursor for text
func (tm *TextManager) MeasureText(text string, scale float32) float32 {
	var width float32
	for _, c := range text {
		if ch, ok := tm.characters[c]; ok {
			width += float32(ch.Advance>>6) * scale
		}
	}
	return width
}

// Destroy releases the glyph textures, the quad buffer and the shader
func (tm *TextManager) Destroy() {
	for _, ch := range tm.characters {
		tm.ctx.DeleteTexture(ch.TextureID)
	}
	tm.characters = map[rune]Character{}
	tm.ctx.DeleteBuffer(tm.vbo)
	tm.ctx.DeleteVertexArray(tm.vao)
	tm.shader.Delete()
}
