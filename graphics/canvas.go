package graphics

import (
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/pkg/errors"

	"github.com/bsvercl/ggez"
)

// A Canvas is an offscreen render target that can itself be sampled as an
// image. On a multisampled context the canvas owns the intermediate
// multisampled texture; each render pass resolves into the color texture,
// so the sampled contents are always single sampled.
type Canvas struct {
	ctx      *Context
	tex      hal.Texture
	view     hal.TextureView
	msaaTex  hal.Texture
	msaaView hal.TextureView
	img      *Image
	w, h     int
}

// NewCanvas creates an offscreen render target of the given pixel size in
// the context target format.
func NewCanvas(ctx *Context, width, height int, params ...ImageParameter) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ggez.ErrRender, "tried to create a canvas of size %dx%d", width, height)
	}
	p := imageParams{filter: ctx.defaultFilter, wrap: ctx.defaultWrap}
	for _, o := range params {
		o.set(&p)
	}

	tex, view, err := createTexture(ctx.dev, "canvas", width, height, 1, ctx.format,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopySrc)
	if err != nil {
		return nil, err
	}
	c := &Canvas{ctx: ctx, tex: tex, view: view, w: width, h: height}

	if ctx.samples > 1 {
		c.msaaTex, c.msaaView, err = createTexture(ctx.dev, "canvas_msaa", width, height,
			ctx.samples, ctx.format, gputypes.TextureUsageRenderAttachment)
		if err != nil {
			device := ctx.dev.HalDevice()
			device.DestroyTextureView(view)
			device.DestroyTexture(tex)
			return nil, err
		}
	}

	c.img = &Image{
		ctx:    ctx,
		tex:    tex,
		view:   view,
		texW:   width,
		texH:   height,
		bounds: image.Rect(0, 0, width, height),
		src:    ggez.R(0, 0, 1, 1),
		filter: p.filter,
		wrap:   p.wrap,
	}
	return c, nil
}

// Image returns the canvas contents as a drawable image. The image shares
// the canvas texture, so it always reflects the latest ended frame.
func (c *Canvas) Image() *Image { return c.img }

// Size returns the canvas dimensions in pixels.
func (c *Canvas) Size() image.Point { return image.Pt(c.w, c.h) }

func (c *Canvas) attachment() (hal.TextureView, hal.TextureView) {
	if c.msaaView != nil {
		return c.msaaView, c.view
	}
	return c.view, nil
}

func (c *Canvas) readSource() hal.Texture { return c.tex }

// Destroy releases the canvas textures. The image returned by Image must
// not be drawn afterwards.
func (c *Canvas) Destroy() {
	if c.tex == nil {
		return
	}
	device := c.ctx.dev.HalDevice()
	if c.msaaView != nil {
		device.DestroyTextureView(c.msaaView)
		device.DestroyTexture(c.msaaTex)
		c.msaaView = nil
		c.msaaTex = nil
	}
	device.DestroyTextureView(c.view)
	device.DestroyTexture(c.tex)
	c.view = nil
	c.tex = nil
}
