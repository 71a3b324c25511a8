package graphics

import (
	"testing"

	"github.com/bsvercl/ggez"
)

func testContext() *Context {
	return &Context{
		projection: ggez.Identity(),
		transforms: []ggez.Matrix{ggez.Identity()},
	}
}

func TestContextTransformStack(t *testing.T) {
	c := testContext()
	if got := c.Transform(); got != ggez.Identity() {
		t.Fatalf("initial transform = %v, want identity", got)
	}

	m := ggez.Translation(3, 4)
	c.PushTransform(m)
	if got := c.Transform(); got != m {
		t.Errorf("after push, transform = %v, want %v", got, m)
	}

	s := ggez.Scaling(2, 2)
	c.MulTransform(s)
	if got := c.Transform(); got != m.Mul(s) {
		t.Errorf("after mul, transform = %v, want %v", got, m.Mul(s))
	}

	c.SetTransform(s)
	if got := c.Transform(); got != s {
		t.Errorf("after set, transform = %v, want %v", got, s)
	}

	c.Origin()
	if got := c.Transform(); got != ggez.Identity() {
		t.Errorf("after origin, transform = %v, want identity", got)
	}

	c.PopTransform()
	if got := c.Transform(); got != ggez.Identity() {
		t.Errorf("after pop, transform = %v, want identity", got)
	}
}

func TestContextPopTransformPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("PopTransform on the base transform did not panic")
		}
	}()
	testContext().PopTransform()
}

func TestContextMVP(t *testing.T) {
	c := testContext()
	c.SetScreenCoordinates(ggez.R(0, 0, 320, 240))

	proj := ggez.ScreenProjection(ggez.R(0, 0, 320, 240))
	if got := c.Projection(); got != proj {
		t.Fatalf("projection = %v, want %v", got, proj)
	}
	if got := c.mvp(); got != proj.Mul(ggez.Identity()) {
		t.Errorf("mvp = %v, want projection", got)
	}

	// The cache refreshes when the transform stack changes.
	m := ggez.Translation(10, 20)
	c.PushTransform(m)
	if got := c.mvp(); got != proj.Mul(m) {
		t.Errorf("mvp after push = %v, want %v", got, proj.Mul(m))
	}
	c.PopTransform()
	if got := c.mvp(); got != proj.Mul(ggez.Identity()) {
		t.Errorf("mvp after pop = %v, want projection", got)
	}
}

func TestContextSetProjection(t *testing.T) {
	c := testContext()
	c.SetScreenCoordinates(ggez.R(0, 0, 100, 100))
	if c.ScreenCoordinates().Empty() {
		t.Fatal("screen coordinates empty after SetScreenCoordinates")
	}

	m := ggez.Ortho(-1, 1, 1, -1, -1, 1)
	c.SetProjection(m)
	if got := c.Projection(); got != m {
		t.Errorf("projection = %v, want %v", got, m)
	}
	if !c.ScreenCoordinates().Empty() {
		t.Error("SetProjection did not clear the screen rectangle")
	}
}

func TestContextBlendMode(t *testing.T) {
	c := testContext()
	if got := c.BlendMode(); got != BlendAlpha {
		t.Fatalf("default blend mode = %v, want alpha", got)
	}
	c.SetBlendMode(BlendAdd)
	if got := c.BlendMode(); got != BlendAdd {
		t.Errorf("blend mode = %v, want add", got)
	}
}

func TestContextOptions(t *testing.T) {
	cfg := config{samples: 1, batchCap: defaultBatchCapacity}
	for _, o := range []Option{
		WithMultisample(4),
		WithBatchCapacity(64),
		WithBlendModes(BlendAdd, BlendMultiply),
		WithFilter(FilterNearest),
	} {
		o.set(&cfg)
	}

	if cfg.samples != 4 {
		t.Errorf("samples = %d, want 4", cfg.samples)
	}
	if cfg.batchCap != 64 {
		t.Errorf("batch capacity = %d, want 64", cfg.batchCap)
	}
	if len(cfg.blendModes) != 2 || cfg.blendModes[0] != BlendAdd || cfg.blendModes[1] != BlendMultiply {
		t.Errorf("blend modes = %v, want [add multiply]", cfg.blendModes)
	}
	if cfg.filter != FilterNearest {
		t.Errorf("filter = %v, want nearest", cfg.filter)
	}

	// Invalid values leave the defaults in place.
	cfg = config{samples: 1, batchCap: defaultBatchCapacity}
	WithMultisample(1).set(&cfg)
	WithBatchCapacity(-5).set(&cfg)
	if cfg.samples != 1 || cfg.batchCap != defaultBatchCapacity {
		t.Errorf("invalid options changed config: samples=%d batchCap=%d", cfg.samples, cfg.batchCap)
	}
}
