// Package timer provides frame timing and fixed-step update accumulation
// for game loops.
package timer

import "time"

// samples is the frame time ring buffer size. Must be a power of two.
const samples = 64

// DefaultHz is the fixed update rate used when no target rate is given.
const DefaultHz = 60

// maxAccumulated clamps the update time debt after a stall, so the loop
// does not spiral trying to catch up.
const maxAccumulated = time.Second

// A Clock tracks frame times and accumulates elapsed time for fixed-step
// updates. A game loop calls Tick once per frame, then drains pending
// updates:
//
//	clock.Tick()
//	for clock.CheckUpdate(60) {
//		update(clock.Step())
//	}
//	draw(clock.Alpha())
//
// A Clock is not safe for concurrent use.
type Clock struct {
	now   func() time.Time
	last  time.Time
	delta time.Duration
	acc   time.Duration
	step  time.Duration

	times [samples]time.Duration
	index int
	count int
}

// New returns a Clock ticking from now on.
func New() *Clock {
	c := &Clock{now: time.Now, step: time.Second / DefaultHz}
	c.last = c.now()
	return c
}

// Tick marks a frame boundary. It records the time elapsed since the
// previous Tick and adds it to the update accumulator. It returns the
// frame duration.
func (c *Clock) Tick() time.Duration {
	now := c.now()
	c.delta = now.Sub(c.last)
	c.last = now

	c.times[c.index] = c.delta
	c.index = (c.index + 1) & (samples - 1)
	if c.count < samples {
		c.count++
	}

	c.acc += c.delta
	if c.acc > maxAccumulated {
		c.acc = maxAccumulated
	}
	return c.delta
}

// Delta returns the duration of the last frame.
func (c *Clock) Delta() time.Duration { return c.delta }

// Average returns the mean frame duration over up to the last 64 frames.
func (c *Clock) Average() time.Duration {
	if c.count == 0 {
		return 0
	}
	var avg time.Duration
	for i := 0; i < c.count; i++ {
		avg += c.times[i]
	}
	return avg / time.Duration(c.count)
}

// FPS returns the frame rate implied by the average frame duration.
func (c *Clock) FPS() float64 {
	avg := c.Average()
	if avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}

// CheckUpdate reports whether a fixed update step at targetHz is due and
// consumes it from the accumulator. Residual time below one step carries
// over to the next frame. Call it in a loop until it returns false.
func (c *Clock) CheckUpdate(targetHz int) bool {
	c.step = stepFor(targetHz)
	if c.acc >= c.step {
		c.acc -= c.step
		return true
	}
	return false
}

// Step returns the duration of the fixed step used by the last
// CheckUpdate call.
func (c *Clock) Step() time.Duration { return c.step }

// Alpha returns the fraction of a fixed step left in the accumulator, in
// [0, 1). Use it to interpolate between the two most recent update states
// when drawing.
func (c *Clock) Alpha() float64 {
	a := float64(c.acc) / float64(c.step)
	if a >= 1 {
		return 1
	}
	return a
}

func stepFor(hz int) time.Duration {
	if hz <= 0 {
		hz = DefaultHz
	}
	return time.Second / time.Duration(hz)
}
