package graphics

import (
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/pkg/errors"

	"github.com/bsvercl/ggez"
	"github.com/bsvercl/ggez/gpu"
)

// frameTimeout bounds the wait for frame submission.
const frameTimeout = 5 * time.Second

// Target is a rendering destination for a frame. Canvas values and the
// screen wrapper returned by ScreenTarget implement it.
type Target interface {
	// Size returns the target dimensions in pixels.
	Size() image.Point

	// attachment returns the color attachment view of a render pass and
	// the optional resolve target for multisampled rendering.
	attachment() (view, resolve hal.TextureView)

	// readSource returns the texture read by ReadPixels, or nil when the
	// target cannot be read back.
	readSource() hal.Texture
}

// Screen adapts a surface texture view obtained from the windowing layer
// into a frame target. The view must remain valid until End returns.
type Screen struct {
	view hal.TextureView
	w, h int
}

// ScreenTarget wraps an opaque surface texture view supplied by the
// windowing layer into a target of the given pixel size. view must be a
// hal.TextureView.
func ScreenTarget(view any, width, height int) (*Screen, error) {
	v, ok := view.(hal.TextureView)
	if !ok || v == nil {
		return nil, errors.New("view is not hal.TextureView")
	}
	return &Screen{view: v, w: width, h: height}, nil
}

func (s *Screen) Size() image.Point { return image.Pt(s.w, s.h) }

func (s *Screen) attachment() (hal.TextureView, hal.TextureView) { return s.view, nil }

func (s *Screen) readSource() hal.Texture { return nil }

// A Frame records the draws of a single frame into one command encoder
// and submits them as a unit when End is called. Create frames with
// Context.BeginFrame.
//
// Runtime draw errors do not interrupt the frame: the first one is
// remembered, logged, and returned by End.
type Frame struct {
	ctx    *Context
	target Target
	enc    *gpu.Encoder
	pass   hal.RenderPassEncoder

	// pending instanced batch and the state it was opened with
	view      hal.TextureView
	filter    FilterMode
	wrap      WrapMode
	instances []byte
	count     int
	mvp       ggez.Matrix
	blend     BlendMode

	loadOp     gputypes.LoadOp
	clearColor ggez.Color

	// resources freed after the submission fence signals
	buffers    []hal.Buffer
	bindGroups []hal.BindGroup

	err   error
	ended bool
}

// BeginFrame starts recording a frame into target.
//
// Only one frame may be open per context; BeginFrame panics otherwise.
// When no screen coordinates were ever set, the projection defaults to
// the target size in pixels, y down.
func (c *Context) BeginFrame(target Target) *Frame {
	if c.frame != nil {
		panic("frame already begun: call End before BeginFrame")
	}
	f := &Frame{
		ctx:       c,
		target:    target,
		loadOp:    gputypes.LoadOpLoad,
		instances: make([]byte, 0, c.batchCap*instanceStride),
	}
	c.frame = f

	if c.screenRect.Empty() && c.projection == ggez.Identity() {
		sz := target.Size()
		c.SetScreenCoordinates(ggez.R(0, 0, float32(sz.X), float32(sz.Y)))
	}
	if c.samples > 1 {
		if _, resolve := target.attachment(); resolve == nil {
			f.fail(errors.New("multisampled rendering requires a canvas target"))
			return f
		}
	}

	enc, err := c.dev.NewEncoder("frame")
	if err != nil {
		f.fail(err)
		return f
	}
	f.enc = enc
	return f
}

func (f *Frame) active() {
	if f.ended {
		panic("frame already ended")
	}
}

// fail records the first runtime error of the frame and logs it. The
// frame keeps accepting calls so a bad draw cannot take down the game
// loop.
func (f *Frame) fail(err error) {
	if f.err == nil {
		f.err = err
		ggez.Logger().Warn("frame error", "err", err)
	}
}

// ensurePass begins the render pass if none is open, applying a pending
// clear.
func (f *Frame) ensurePass() hal.RenderPassEncoder {
	if f.pass != nil || f.err != nil {
		return f.pass
	}
	view, resolve := f.target.attachment()
	att := hal.RenderPassColorAttachment{
		View:          view,
		ResolveTarget: resolve,
		LoadOp:        f.loadOp,
		StoreOp:       gputypes.StoreOpStore,
	}
	if f.loadOp == gputypes.LoadOpClear {
		att.ClearValue = gputypes.Color{
			R: float64(f.clearColor.R),
			G: float64(f.clearColor.G),
			B: float64(f.clearColor.B),
			A: float64(f.clearColor.A),
		}
	}
	f.pass = f.enc.Hal().BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            "frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{att},
	})
	f.loadOp = gputypes.LoadOpLoad
	return f.pass
}

// Clear schedules a clear of the whole target. Pending draws are flushed
// first, so draws recorded before Clear end up overwritten. Clearing at
// the start of a frame folds into the first render pass.
func (f *Frame) Clear(c ggez.Color) {
	f.active()
	if f.err != nil {
		return
	}
	f.Flush()
	if f.pass != nil {
		f.pass.End()
		f.pass = nil
	}
	f.loadOp = gputypes.LoadOpClear
	f.clearColor = c
}

// Draw queues img with the given parameters. Consecutive draws sharing
// the same texture, sampler settings, blend mode and transform batch
// into a single instanced draw call. Zero area draws are skipped.
func (f *Frame) Draw(img *Image, p DrawParam) {
	f.active()
	if f.err != nil || p.degenerate(img) {
		return
	}
	mvp := f.ctx.mvp()
	if f.count > 0 && (img.view != f.view || img.filter != f.filter || img.wrap != f.wrap ||
		mvp != f.mvp || f.ctx.blendMode != f.blend) {
		f.Flush()
	}
	if f.count == 0 {
		f.view, f.filter, f.wrap = img.view, img.filter, img.wrap
		f.mvp = mvp
		f.blend = f.ctx.blendMode
	}

	in := p.instance(img)
	off := len(f.instances)
	f.instances = f.instances[:off+instanceStride]
	in.encode(f.instances[off:])
	f.count++

	if f.count >= f.ctx.batchCap {
		f.Flush()
	}
}

// Flush submits the pending instanced batch to the render pass. It runs
// automatically when batch state changes, the batch fills up or the
// frame ends.
func (f *Frame) Flush() {
	if f.err != nil || f.count == 0 {
		return
	}
	count := f.count
	data := f.instances
	f.instances = f.instances[:0]
	f.count = 0

	pipeline, err := f.ctx.pipelines.get(VariantInstanced, f.blend)
	if err != nil {
		f.fail(err)
		return
	}
	sampler, err := f.ctx.samplerFor(f.filter, f.wrap)
	if err != nil {
		f.fail(err)
		return
	}
	instBuf, err := f.ctx.dev.UploadBuffer("frame_instances", data, gputypes.BufferUsageVertex)
	if err != nil {
		f.fail(err)
		return
	}
	f.buffers = append(f.buffers, instBuf)

	bg, err := f.bindGroup(f.mvp, f.view, sampler)
	if err != nil {
		f.fail(err)
		return
	}

	pass := f.ensurePass()
	if pass == nil {
		return
	}
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.SetVertexBuffer(0, f.ctx.quadVerts, 0)
	pass.SetVertexBuffer(1, instBuf, 0)
	pass.SetIndexBuffer(f.ctx.quadIdx, gputypes.IndexFormatUint16, 0)
	pass.DrawIndexed(uint32(len(quadIndices)), uint32(count), 0, 0, 0)
}

// bindGroup uploads mvp as the globals uniform and ties it, the texture
// view and the sampler together for one draw.
func (f *Frame) bindGroup(mvp ggez.Matrix, view hal.TextureView, sampler hal.Sampler) (hal.BindGroup, error) {
	var g [globalsSize]byte
	encodeGlobals(g[:], mvp)
	uni, err := f.ctx.dev.UploadBuffer("frame_globals", g[:], gputypes.BufferUsageUniform)
	if err != nil {
		return nil, err
	}
	f.buffers = append(f.buffers, uni)

	bg, err := f.ctx.dev.HalDevice().CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "frame_bind",
		Layout: f.ctx.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uni.NativeHandle(), Offset: 0, Size: globalsSize}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "create bind group")
	}
	f.bindGroups = append(f.bindGroups, bg)
	return bg, nil
}

// drawImmediate records a single non-instanced draw of caller supplied
// geometry.
func (f *Frame) drawImmediate(v Variant, img *Image, verts []Vertex, indices []uint16) {
	pipeline, err := f.ctx.pipelines.get(v, f.ctx.blendMode)
	if err != nil {
		f.fail(err)
		return
	}
	sampler, err := f.ctx.samplerFor(img.filter, img.wrap)
	if err != nil {
		f.fail(err)
		return
	}
	vbuf, err := f.ctx.dev.UploadBuffer("frame_verts", encodeVertices(verts), gputypes.BufferUsageVertex)
	if err != nil {
		f.fail(err)
		return
	}
	f.buffers = append(f.buffers, vbuf)
	ibuf, err := f.ctx.dev.UploadBuffer("frame_idx", encodeIndices(indices), gputypes.BufferUsageIndex)
	if err != nil {
		f.fail(err)
		return
	}
	f.buffers = append(f.buffers, ibuf)

	bg, err := f.bindGroup(f.ctx.mvp(), img.view, sampler)
	if err != nil {
		f.fail(err)
		return
	}

	pass := f.ensurePass()
	if pass == nil {
		return
	}
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.SetVertexBuffer(0, vbuf, 0)
	pass.SetIndexBuffer(ibuf, gputypes.IndexFormatUint16, 0)
	pass.DrawIndexed(uint32(len(indices)), 1, 0, 0, 0)
}

// DrawVertices draws caller supplied geometry sampling img, with each
// sampled texel modulated by the interpolated vertex color. Vertex
// positions are in world coordinates; indices form triangles.
func (f *Frame) DrawVertices(img *Image, verts []Vertex, indices []uint16) {
	f.active()
	if f.err != nil || len(verts) == 0 || len(indices) == 0 {
		return
	}
	f.Flush()
	f.drawImmediate(VariantPlain, img, verts, indices)
}

// Blit stretches the canvas contents over the rectangle dst with no
// tinting applied: the written texels equal the sampled canvas texels.
// Use it to present an offscreen canvas onto the target.
func (f *Frame) Blit(src *Canvas, dst ggez.Rect) {
	f.active()
	if f.err != nil || dst.Empty() {
		return
	}
	f.Flush()
	verts := []Vertex{
		{Position: ggez.Pt(dst.X, dst.Y), TexCoord: ggez.Pt(0, 0), Color: ggez.White},
		{Position: ggez.Pt(dst.X+dst.W, dst.Y), TexCoord: ggez.Pt(1, 0), Color: ggez.White},
		{Position: ggez.Pt(dst.X+dst.W, dst.Y+dst.H), TexCoord: ggez.Pt(1, 1), Color: ggez.White},
		{Position: ggez.Pt(dst.X, dst.Y+dst.H), TexCoord: ggez.Pt(0, 1), Color: ggez.White},
	}
	f.drawImmediate(VariantPlainUntinted, src.Image(), verts, quadIndices[:])
}

// release frees the per-frame GPU resources. Only safe once the
// submission fence has signaled.
func (f *Frame) release() {
	device := f.ctx.dev.HalDevice()
	for i := len(f.bindGroups) - 1; i >= 0; i-- {
		device.DestroyBindGroup(f.bindGroups[i])
	}
	f.bindGroups = nil
	for i := len(f.buffers) - 1; i >= 0; i-- {
		device.DestroyBuffer(f.buffers[i])
	}
	f.buffers = nil
}

// End flushes pending draws, submits the frame and waits for the GPU to
// finish. It returns the first error recorded during the frame.
func (f *Frame) End() error {
	f.active()
	f.Flush()
	// A clear with no draws after it still needs its own pass.
	if f.pass == nil && f.loadOp == gputypes.LoadOpClear {
		f.ensurePass()
	}
	if f.pass != nil {
		f.pass.End()
		f.pass = nil
	}

	err := f.err
	if f.enc != nil {
		if err != nil {
			f.enc.Discard()
		} else {
			err = f.enc.Submit(frameTimeout)
		}
	}
	f.release()
	f.ended = true
	f.ctx.frame = nil

	if err != nil {
		return errors.Wrapf(ggez.ErrRender, "%s", err)
	}
	return nil
}

// ReadPixels submits the frame if it is still open and reads the target
// back into an RGBA image. Screen targets cannot be read back.
func (f *Frame) ReadPixels() (*image.RGBA, error) {
	if !f.ended {
		if err := f.End(); err != nil {
			return nil, err
		}
	}
	tex := f.target.readSource()
	if tex == nil {
		return nil, errors.Wrap(ggez.ErrRender, "target is not readable")
	}
	sz := f.target.Size()
	data, err := f.ctx.dev.ReadRenderTarget(tex, sz.X, sz.Y)
	if err != nil {
		return nil, err
	}
	if f.ctx.format == gputypes.TextureFormatBGRA8Unorm {
		for i := 0; i < len(data); i += 4 {
			data[i], data[i+2] = data[i+2], data[i]
		}
	}
	return &image.RGBA{
		Pix:    data,
		Stride: sz.X * 4,
		Rect:   image.Rect(0, 0, sz.X, sz.Y),
	}, nil
}
