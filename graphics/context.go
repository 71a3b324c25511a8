package graphics

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/pkg/errors"

	"github.com/bsvercl/ggez"
	"github.com/bsvercl/ggez/gpu"
)

// defaultBatchCapacity is the number of sprites an instance buffer holds
// before a frame forces a flush.
const defaultBatchCapacity = 10000

type config struct {
	format     gputypes.TextureFormat
	samples    uint32
	batchCap   int
	blendModes []BlendMode
	filter     FilterMode
	wrap       WrapMode
}

// Option configures a Context. See NewContext.
type Option interface {
	set(*config)
}

type optionFunc func(*config)

func (f optionFunc) set(cfg *config) {
	f(cfg)
}

// WithTargetFormat overrides the texture format of render targets. The
// default is the device surface format.
func WithTargetFormat(format gputypes.TextureFormat) Option {
	return optionFunc(func(cfg *config) {
		cfg.format = format
	})
}

// WithMultisample enables multisampled rendering with the given sample
// count. Rendering then requires canvas targets, which allocate the
// intermediate multisampled texture.
func WithMultisample(samples int) Option {
	return optionFunc(func(cfg *config) {
		if samples > 1 {
			cfg.samples = uint32(samples)
		}
	})
}

// WithBatchCapacity sets the maximum number of sprites drawn in a single
// instanced draw call.
func WithBatchCapacity(n int) Option {
	return optionFunc(func(cfg *config) {
		if n > 0 {
			cfg.batchCap = n
		}
	})
}

// WithBlendModes enables the given blend modes in addition to BlendAlpha.
// Blend state is baked into pipelines at creation, so a mode that was not
// enabled here cannot be selected later.
func WithBlendModes(modes ...BlendMode) Option {
	return optionFunc(func(cfg *config) {
		cfg.blendModes = append(cfg.blendModes, modes...)
	})
}

// WithFilter sets the default sampling filter for new images.
func WithFilter(filter FilterMode) Option {
	return optionFunc(func(cfg *config) {
		cfg.filter = filter
	})
}

type samplerKey struct {
	filter FilterMode
	wrap   WrapMode
}

// Context owns the GPU state shared by all drawing: shader modules, the
// pipeline set, the unit quad buffers and the sampler cache. It also
// carries the current projection, transform stack and blend mode.
//
// A Context is not safe for concurrent use.
type Context struct {
	dev *gpu.Device

	format   gputypes.TextureFormat
	samples  uint32
	batchCap int

	spriteModule hal.ShaderModule
	plainModule  hal.ShaderModule
	bindLayout   hal.BindGroupLayout
	pipeLayout   hal.PipelineLayout
	pipelines    *pipelineSet

	quadVerts hal.Buffer
	quadIdx   hal.Buffer

	samplers      map[samplerKey]hal.Sampler
	defaultFilter FilterMode
	defaultWrap   WrapMode

	white *Image

	screenRect ggez.Rect
	projection ggez.Matrix
	transforms []ggez.Matrix
	mvpCache   ggez.Matrix
	mvpValid   bool
	blendMode  BlendMode

	frame *Frame
}

// NewContext creates a graphics context on dev. The context does not take
// ownership of the device.
//
// Shaders are compiled and all pipelines built before NewContext returns,
// so shader or pipeline errors surface here rather than mid-frame.
func NewContext(dev *gpu.Device, opts ...Option) (*Context, error) {
	cfg := config{
		format:   dev.SurfaceFormat(),
		samples:  1,
		batchCap: defaultBatchCapacity,
		filter:   FilterLinear,
		wrap:     WrapClampToEdge,
	}
	for _, o := range opts {
		o.set(&cfg)
	}

	c := &Context{
		dev:           dev,
		format:        cfg.format,
		samples:       cfg.samples,
		batchCap:      cfg.batchCap,
		samplers:      make(map[samplerKey]hal.Sampler),
		defaultFilter: cfg.filter,
		defaultWrap:   cfg.wrap,
		projection:    ggez.Identity(),
		transforms:    []ggez.Matrix{ggez.Identity()},
	}
	if err := c.init(cfg); err != nil {
		c.Destroy()
		return nil, err
	}
	return c, nil
}

func (c *Context) init(cfg config) error {
	device := c.dev.HalDevice()

	spriteSPIRV, err := compileShader("sprite.wgsl", spriteWGSL)
	if err != nil {
		return err
	}
	plainSPIRV, err := compileShader("plain.wgsl", plainWGSL)
	if err != nil {
		return err
	}

	c.spriteModule, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "sprite_shader",
		Source: hal.ShaderSource{SPIRV: spriteSPIRV},
	})
	if err != nil {
		return errors.Wrap(err, "create sprite shader module")
	}
	c.plainModule, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "plain_shader",
		Source: hal.ShaderSource{SPIRV: plainSPIRV},
	})
	if err != nil {
		return errors.Wrap(err, "create plain shader module")
	}

	// Bind group layout shared by every variant:
	//   binding 0: globals uniform (vertex + fragment)
	//   binding 1: color texture (fragment)
	//   binding 2: sampler (fragment)
	c.bindLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "sprite_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return errors.Wrap(err, "create bind group layout")
	}

	c.pipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "sprite_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{c.bindLayout},
	})
	if err != nil {
		return errors.Wrap(err, "create pipeline layout")
	}

	modes := []BlendMode{BlendAlpha}
	for _, m := range cfg.blendModes {
		if m != BlendAlpha {
			modes = append(modes, m)
		}
	}
	modules := [numVariants]hal.ShaderModule{
		VariantInstanced:     c.spriteModule,
		VariantPlain:         c.plainModule,
		VariantPlainUntinted: c.plainModule,
	}
	c.pipelines, err = buildPipelineSet(device, c.pipeLayout, modules, c.format, c.samples, modes)
	if err != nil {
		return err
	}

	c.quadVerts, err = c.dev.UploadBuffer("quad_verts", quadVertexData(), gputypes.BufferUsageVertex)
	if err != nil {
		return err
	}
	c.quadIdx, err = c.dev.UploadBuffer("quad_indices", quadIndexData(), gputypes.BufferUsageIndex)
	if err != nil {
		return err
	}

	c.white, err = NewImageFromRGBA8(c, 1, 1, []byte{0xff, 0xff, 0xff, 0xff})
	if err != nil {
		return errors.Wrap(err, "create white image")
	}

	ggez.Logger().Debug("graphics context created",
		"format", int(c.format), "samples", c.samples, "blend_modes", len(modes))
	return nil
}

// Device returns the GPU device the context renders with.
func (c *Context) Device() *gpu.Device { return c.dev }

// WhiteImage returns the shared 1x1 white image. Drawing it tinted renders
// solid rectangles without a dedicated texture.
func (c *Context) WhiteImage() *Image { return c.white }

// Multisampled reports whether the context renders with multisampling.
func (c *Context) Multisampled() bool { return c.samples > 1 }

// samplerFor returns the cached sampler for a filter and wrap mode pair,
// creating it on first use.
func (c *Context) samplerFor(filter FilterMode, wrap WrapMode) (hal.Sampler, error) {
	key := samplerKey{filter, wrap}
	if s, ok := c.samplers[key]; ok {
		return s, nil
	}
	s, err := c.dev.HalDevice().CreateSampler(&hal.SamplerDescriptor{
		Label:        "sampler_" + filter.String() + "_" + wrap.String(),
		AddressModeU: wrap.addressMode(),
		AddressModeV: wrap.addressMode(),
		AddressModeW: wrap.addressMode(),
		MagFilter:    filter.filterMode(),
		MinFilter:    filter.filterMode(),
		MipmapFilter: filter.filterMode(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create sampler")
	}
	c.samplers[key] = s
	return s, nil
}

// SetScreenCoordinates sets the projection to a y-down orthographic
// mapping of r onto the full target.
func (c *Context) SetScreenCoordinates(r ggez.Rect) {
	c.screenRect = r
	c.projection = ggez.ScreenProjection(r)
	c.mvpValid = false
}

// ScreenCoordinates returns the rectangle set by SetScreenCoordinates.
func (c *Context) ScreenCoordinates() ggez.Rect { return c.screenRect }

// SetProjection replaces the projection matrix.
func (c *Context) SetProjection(m ggez.Matrix) {
	c.screenRect = ggez.Rect{}
	c.projection = m
	c.mvpValid = false
}

// Projection returns the current projection matrix.
func (c *Context) Projection() ggez.Matrix { return c.projection }

// PushTransform pushes m onto the transform stack, making it the current
// model transform.
func (c *Context) PushTransform(m ggez.Matrix) {
	c.transforms = append(c.transforms, m)
	c.mvpValid = false
}

// PopTransform removes the top of the transform stack. It panics when
// called with nothing pushed.
func (c *Context) PopTransform() {
	if len(c.transforms) == 1 {
		panic("pop on empty transform stack")
	}
	c.transforms = c.transforms[:len(c.transforms)-1]
	c.mvpValid = false
}

// SetTransform replaces the current model transform.
func (c *Context) SetTransform(m ggez.Matrix) {
	c.transforms[len(c.transforms)-1] = m
	c.mvpValid = false
}

// MulTransform multiplies the current model transform by m.
func (c *Context) MulTransform(m ggez.Matrix) {
	top := len(c.transforms) - 1
	c.transforms[top] = c.transforms[top].Mul(m)
	c.mvpValid = false
}

// Origin resets the current model transform to identity.
func (c *Context) Origin() {
	c.SetTransform(ggez.Identity())
}

// Transform returns the current model transform.
func (c *Context) Transform() ggez.Matrix {
	return c.transforms[len(c.transforms)-1]
}

// mvp returns projection times the current model transform.
func (c *Context) mvp() ggez.Matrix {
	if !c.mvpValid {
		c.mvpCache = c.projection.Mul(c.Transform())
		c.mvpValid = true
	}
	return c.mvpCache
}

// SetBlendMode selects the blend mode for subsequent draws. The mode must
// have been enabled with WithBlendModes, otherwise draws fail at flush.
func (c *Context) SetBlendMode(m BlendMode) { c.blendMode = m }

// BlendMode returns the current blend mode.
func (c *Context) BlendMode() BlendMode { return c.blendMode }

// Destroy releases all GPU state owned by the context. The device itself
// is left untouched.
func (c *Context) Destroy() {
	if c.dev == nil {
		return
	}
	device := c.dev.HalDevice()
	if c.white != nil {
		c.white.Destroy()
		c.white = nil
	}
	if c.quadIdx != nil {
		device.DestroyBuffer(c.quadIdx)
		c.quadIdx = nil
	}
	if c.quadVerts != nil {
		device.DestroyBuffer(c.quadVerts)
		c.quadVerts = nil
	}
	for k, s := range c.samplers {
		device.DestroySampler(s)
		delete(c.samplers, k)
	}
	if c.pipelines != nil {
		c.pipelines.destroy(device)
		c.pipelines = nil
	}
	if c.pipeLayout != nil {
		device.DestroyPipelineLayout(c.pipeLayout)
		c.pipeLayout = nil
	}
	if c.bindLayout != nil {
		device.DestroyBindGroupLayout(c.bindLayout)
		c.bindLayout = nil
	}
	if c.plainModule != nil {
		device.DestroyShaderModule(c.plainModule)
		c.plainModule = nil
	}
	if c.spriteModule != nil {
		device.DestroyShaderModule(c.spriteModule)
		c.spriteModule = nil
	}
	c.dev = nil
}
