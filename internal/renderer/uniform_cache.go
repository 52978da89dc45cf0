package renderer

// UniformCache caches uniform locations to avoid repeated location lookups
type UniformCache struct {
	ctx       GraphicsContext
	locations map[string]int32
	program   uint32
}

// NewUniformCache creates a new uniform cache for a shader program
func NewUniformCache(ctx GraphicsContext, program uint32) *UniformCache {
	return &UniformCache{
		ctx:       ctx,
		locations: make(map[string]int32),
		program:   program,
	}
}

// GetLocation returns the cached uniform location or fetches and caches it
func (uc *UniformCache) GetLocation(name string) int32 {
	if loc, exists := uc.locations[name]; exists {
		return loc
	}

	loc := uc.ctx.UniformLocation(uc.program, name)
	uc.locations[name] = loc
	return loc
}

// Reset clears the cache and points it at a new program
func (uc *UniformCache) Reset(program uint32) {
	uc.program = program
	uc.locations = make(map[string]int32)
}

func (uc *UniformCache) Len() int {
	return len(uc.locations)
}
