package engine

// maxFrameDelta caps the time one frame may feed the clock, so a stalled
// window does not trigger a burst of catch-up ticks.
const maxFrameDelta = 0.1

// Clock converts variable frame times into a whole number of fixed ticks.
type Clock struct {
	step    float64
	pending float64
}

// NewClock returns a clock producing rate ticks per second. A non-positive
// rate falls back to 60.
func NewClock(rate int) *Clock {
	if rate <= 0 {
		rate = 60
	}
	return &Clock{step: 1 / float64(rate)}
}

// Advance adds dt seconds and returns how many ticks are now due.
func (c *Clock) Advance(dt float64) int {
	if dt <= 0 {
		return 0
	}
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}
	c.pending += dt
	ticks := int(c.pending / c.step)
	c.pending -= float64(ticks) * c.step
	return ticks
}

// Step returns the length of one tick in seconds.
func (c *Clock) Step() float64 {
	return c.step
}
