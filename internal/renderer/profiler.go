package renderer

// DefaultProfilingWindow is how long frame samples accumulate before they
// are averaged, in seconds
const DefaultProfilingWindow = 0.3

// FrameProfiler keeps a moving average of frame render times. Samples
// accumulate until window seconds have passed since the last flush, then
// collapse into their arithmetic mean.
type FrameProfiler struct {
	window    float64
	samples   []float64
	mean      float64
	lastFlush float64
}

func NewFrameProfiler(window float64) *FrameProfiler {
	if window <= 0 {
		window = DefaultProfilingWindow
	}
	return &FrameProfiler{window: window}
}

// Record adds one frame duration in milliseconds observed at now (seconds)
// and reports whether the buffer was flushed
func (p *FrameProfiler) Record(durationMs, now float64) bool {
	p.samples = append(p.samples, durationMs)

	if now-p.lastFlush < p.window {
		return false
	}

	var sum float64
	for _, s := range p.samples {
		sum += s
	}
	p.mean = sum / float64(len(p.samples))
	p.samples = p.samples[:0]
	p.lastFlush = now
	return true
}

// Mean is the average of the last flushed window, in milliseconds
func (p *FrameProfiler) Mean() float64 { return p.mean }

// FPS derived from Mean, 0 until the first flush
func (p *FrameProfiler) FPS() float64 {
	if p.mean <= 0 {
		return 0
	}
	return 1000 / p.mean
}

// Pending is the number of samples waiting for the next flush
func (p *FrameProfiler) Pending() int { return len(p.samples) }

func (p *FrameProfiler) LastFlush() float64 { return p.lastFlush }
