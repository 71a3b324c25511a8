package timer

import (
	"testing"
	"time"
)

// fakeClock returns a Clock fed by a controllable time source and a
// function advancing it.
func fakeClock() (*Clock, func(time.Duration)) {
	now := time.Unix(0, 0)
	c := &Clock{
		now:  func() time.Time { return now },
		step: time.Second / DefaultHz,
	}
	c.last = now
	return c, func(d time.Duration) { now = now.Add(d) }
}

func TestClockTick(t *testing.T) {
	c, advance := fakeClock()

	advance(16 * time.Millisecond)
	if got := c.Tick(); got != 16*time.Millisecond {
		t.Errorf("Tick() = %v, want 16ms", got)
	}
	if got := c.Delta(); got != 16*time.Millisecond {
		t.Errorf("Delta() = %v, want 16ms", got)
	}

	advance(20 * time.Millisecond)
	c.Tick()
	if got := c.Average(); got != 18*time.Millisecond {
		t.Errorf("Average() = %v, want 18ms", got)
	}
}

func TestClockAverageWindow(t *testing.T) {
	c, advance := fakeClock()

	// Fill the whole ring with 10ms frames, then half of it with 30ms
	// frames. The window average moves toward 30ms.
	for i := 0; i < samples; i++ {
		advance(10 * time.Millisecond)
		c.Tick()
	}
	if got := c.Average(); got != 10*time.Millisecond {
		t.Fatalf("Average() = %v, want 10ms", got)
	}
	for i := 0; i < samples/2; i++ {
		advance(30 * time.Millisecond)
		c.Tick()
	}
	if got := c.Average(); got != 20*time.Millisecond {
		t.Errorf("Average() = %v, want 20ms", got)
	}
}

func TestClockFPS(t *testing.T) {
	c, advance := fakeClock()
	if got := c.FPS(); got != 0 {
		t.Errorf("FPS() before any tick = %g, want 0", got)
	}
	for i := 0; i < 4; i++ {
		advance(20 * time.Millisecond)
		c.Tick()
	}
	if got := c.FPS(); got != 50 {
		t.Errorf("FPS() = %g, want 50", got)
	}
}

func TestCheckUpdate(t *testing.T) {
	c, advance := fakeClock()

	// 50ms at 60Hz yields exactly 3 steps (49.99ms) with residue.
	advance(50 * time.Millisecond)
	c.Tick()
	steps := 0
	for c.CheckUpdate(60) {
		steps++
	}
	if steps != 3 {
		t.Errorf("steps = %d, want 3", steps)
	}
	if got := c.Step(); got != time.Second/60 {
		t.Errorf("Step() = %v, want %v", got, time.Second/60)
	}

	// The residue carries into the next frame.
	advance(10 * time.Millisecond)
	c.Tick()
	steps = 0
	for c.CheckUpdate(60) {
		steps++
	}
	if steps != 0 {
		t.Errorf("steps after 10ms = %d, want 0", steps)
	}
	advance(10 * time.Millisecond)
	c.Tick()
	if !c.CheckUpdate(60) {
		t.Error("no step due after another 10ms")
	}
}

func TestAccumulatorClamp(t *testing.T) {
	c, advance := fakeClock()

	// A long stall accumulates at most one second of debt.
	advance(10 * time.Second)
	c.Tick()
	steps := 0
	for c.CheckUpdate(100) {
		steps++
	}
	if steps != 100 {
		t.Errorf("steps after stall = %d, want 100", steps)
	}
}

func TestAlpha(t *testing.T) {
	c, advance := fakeClock()

	advance(25 * time.Millisecond)
	c.Tick()
	for c.CheckUpdate(100) {
	}
	// 25ms consumed two 10ms steps, leaving 5ms of a 10ms step.
	if got := c.Alpha(); got != 0.5 {
		t.Errorf("Alpha() = %g, want 0.5", got)
	}
}
