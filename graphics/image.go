package graphics

import (
	"image"
	"image/draw"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/pkg/errors"

	"github.com/bsvercl/ggez"
	"github.com/bsvercl/ggez/gpu"
)

// FilterMode selects how a texture is sampled when scaled.
//
type FilterMode uint8

const (
	// FilterLinear interpolates between texels and is the default.
	FilterLinear FilterMode = iota
	// FilterNearest snaps to the nearest texel, preserving hard pixel
	// edges.
	FilterNearest
)

func (f FilterMode) String() string {
	if f == FilterNearest {
		return "nearest"
	}
	return "linear"
}

func (f FilterMode) filterMode() gputypes.FilterMode {
	if f == FilterNearest {
		return gputypes.FilterModeNearest
	}
	return gputypes.FilterModeLinear
}

// WrapMode selects how texture coordinates outside of the range [0, 1] are
// resolved.
//
type WrapMode uint8

const (
	// WrapClampToEdge repeats the edge texel and is the default.
	WrapClampToEdge WrapMode = iota
	// WrapRepeat tiles the texture.
	WrapRepeat
	// WrapMirrorRepeat tiles the texture, mirroring every other repeat.
	WrapMirrorRepeat
)

func (w WrapMode) String() string {
	switch w {
	case WrapRepeat:
		return "repeat"
	case WrapMirrorRepeat:
		return "mirror"
	}
	return "clamp"
}

func (w WrapMode) addressMode() gputypes.AddressMode {
	switch w {
	case WrapRepeat:
		return gputypes.AddressModeRepeat
	case WrapMirrorRepeat:
		return gputypes.AddressModeMirrorRepeat
	}
	return gputypes.AddressModeClampToEdge
}

type imageParams struct {
	filter FilterMode
	wrap   WrapMode
}

// ImageParameter is implemented by functions setting image sampling
// parameters. See NewImage.
//
type ImageParameter interface {
	set(*imageParams)
}

type imageOptionFunc func(*imageParams)

func (f imageOptionFunc) set(p *imageParams) {
	f(p)
}

// Filter sets the sampling filter of the image.
//
func Filter(f FilterMode) ImageParameter {
	return imageOptionFunc(func(p *imageParams) {
		p.filter = f
	})
}

// Wrap sets the coordinate wrapping mode of the image.
//
func Wrap(w WrapMode) ImageParameter {
	return imageOptionFunc(func(p *imageParams) {
		p.wrap = w
	})
}

// An Image is a drawable texture or a sub-region of one. Sub-images share
// the parent texture and select their region through the source rectangle
// handed to the shader.
//
type Image struct {
	ctx    *Context
	tex    hal.Texture
	view   hal.TextureView
	texW   int
	texH   int
	bounds image.Rectangle
	src    ggez.Rect
	filter FilterMode
	wrap   WrapMode
	owned  bool
}

// createTexture creates a 2D texture and its view.
func createTexture(dev *gpu.Device, label string, w, h int, samples uint32, format gputypes.TextureFormat, usage gputypes.TextureUsage) (hal.Texture, hal.TextureView, error) {
	device := dev.HalDevice()
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "create texture %s", label)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, nil, errors.Wrapf(err, "create texture view %s", label)
	}
	return tex, view, nil
}

// NewImage returns a new image of the given size with undefined contents.
// Use ReplacePixels or SetSubImage to fill it.
//
func NewImage(ctx *Context, width, height int, params ...ImageParameter) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ggez.ErrResourceLoad, "tried to create a texture of size %dx%d", width, height)
	}
	p := imageParams{filter: ctx.defaultFilter, wrap: ctx.defaultWrap}
	for _, o := range params {
		o.set(&p)
	}
	tex, view, err := createTexture(ctx.dev, "image", width, height, 1,
		gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
	if err != nil {
		return nil, err
	}
	return &Image{
		ctx:    ctx,
		tex:    tex,
		view:   view,
		texW:   width,
		texH:   height,
		bounds: image.Rect(0, 0, width, height),
		src:    ggez.R(0, 0, 1, 1),
		filter: p.filter,
		wrap:   p.wrap,
		owned:  true,
	}, nil
}

// NewImageFromRGBA8 creates an image from raw RGBA pixel data. pixels must
// hold exactly width*height*4 bytes.
//
func NewImageFromRGBA8(ctx *Context, width, height int, pixels []byte, params ...ImageParameter) (*Image, error) {
	if want := width * height * 4; len(pixels) != want || width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ggez.ErrResourceLoad,
			"tried to create a texture of size %dx%d (%d bytes), but gave %d bytes of data",
			width, height, width*height*4, len(pixels))
	}
	i, err := NewImage(ctx, width, height, params...)
	if err != nil {
		return nil, err
	}
	i.writePixels(image.Rect(0, 0, width, height), pixels)
	return i, nil
}

// FromImage creates an image from src. Regardless of the source image
// type, the resulting texture is always in RGBA format.
//
func FromImage(ctx *Context, src image.Image, params ...ImageParameter) (*Image, error) {
	var (
		sr  = src.Bounds()
		dr  = image.Rectangle{Max: sr.Size()}
		pix []byte
	)
	if i, ok := src.(*image.RGBA); ok && i.Stride == dr.Dx()*4 && i.Rect.Min == (image.Point{}) {
		pix = i.Pix[:dr.Dx()*dr.Dy()*4]
	} else {
		dst := image.NewRGBA(dr)
		draw.Draw(dst, dr, src, sr.Min, draw.Src)
		pix = dst.Pix
	}
	return NewImageFromRGBA8(ctx, dr.Dx(), dr.Dy(), pix, params...)
}

// writePixels uploads tightly packed RGBA data into the pixel rectangle r
// of the underlying texture.
func (i *Image) writePixels(r image.Rectangle, pix []byte) {
	i.ctx.dev.HalQueue().WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  i.tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(r.Min.X), Y: uint32(r.Min.Y), Z: 0},
			Aspect:   gputypes.TextureAspectAll,
		},
		pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(r.Dx() * 4),
			RowsPerImage: uint32(r.Dy()),
		},
		&hal.Extent3D{Width: uint32(r.Dx()), Height: uint32(r.Dy()), DepthOrArrayLayers: 1},
	)
}

// ReplacePixels overwrites the whole image region with raw RGBA data.
// pixels must hold exactly Width()*Height()*4 bytes.
//
func (i *Image) ReplacePixels(pixels []byte) error {
	w, h := i.bounds.Dx(), i.bounds.Dy()
	if want := w * h * 4; len(pixels) != want {
		return errors.Wrapf(ggez.ErrResourceLoad,
			"tried to replace a texture region of size %dx%d (%d bytes), but gave %d bytes of data",
			w, h, want, len(pixels))
	}
	i.writePixels(i.bounds, pixels)
	return nil
}

// SetSubImage draws src to the image region dr. It works identically to
// draw.Draw with op set to draw.Src.
//
func (i *Image) SetSubImage(dr image.Rectangle, src image.Image, sp image.Point) error {
	sz := dr.Size()
	if sz.X == 0 || sz.Y == 0 {
		return nil
	}
	if !dr.In(image.Rect(0, 0, i.bounds.Dx(), i.bounds.Dy())) {
		return errors.Wrapf(ggez.ErrResourceLoad, "sub image %v outside of %dx%d texture",
			dr, i.bounds.Dx(), i.bounds.Dy())
	}
	var pix []byte
	sr := image.Rectangle{Min: sp, Max: sp.Add(sz)}
	if p, ok := src.(*image.RGBA); ok && sr == src.Bounds() && p.Stride == sz.X*4 {
		pix = p.Pix[:sz.X*sz.Y*4]
	} else {
		r := image.Rectangle{Max: sz}
		dst := image.NewRGBA(r)
		draw.Draw(dst, r, src, sp, draw.Src)
		pix = dst.Pix
	}
	i.writePixels(dr.Add(i.bounds.Min), pix)
	return nil
}

// SubImage returns an image sharing this image's texture, restricted to
// the pixel rectangle r. r is relative to this image's region.
//
func (i *Image) SubImage(r image.Rectangle) *Image {
	frac := ggez.RectRt(r).Fraction(ggez.R(0, 0, float32(i.texW), float32(i.texH)))
	sub := *i
	sub.bounds = r.Add(i.bounds.Min)
	sub.src = ggez.R(
		i.src.X+frac.X,
		i.src.Y+frac.Y,
		frac.W,
		frac.H,
	)
	sub.owned = false
	return &sub
}

// Parameters applies sampling parameters to the image. They take effect
// on the next draw.
//
func (i *Image) Parameters(params ...ImageParameter) {
	p := imageParams{filter: i.filter, wrap: i.wrap}
	for _, o := range params {
		o.set(&p)
	}
	i.filter, i.wrap = p.filter, p.wrap
}

// Width returns the width of the image region in pixels.
func (i *Image) Width() int { return i.bounds.Dx() }

// Height returns the height of the image region in pixels.
func (i *Image) Height() int { return i.bounds.Dy() }

// Size returns the size of the image region in pixels.
func (i *Image) Size() image.Point { return i.bounds.Size() }

// Filter returns the sampling filter of the image.
func (i *Image) Filter() FilterMode { return i.filter }

// Wrap returns the coordinate wrapping mode of the image.
func (i *Image) Wrap() WrapMode { return i.wrap }

// Source returns the region of the underlying texture sampled by draws,
// as fractions of the texture dimensions.
func (i *Image) Source() ggez.Rect { return i.src }

// Draw draws the image on f. It is shorthand for f.Draw(i, p).
func (i *Image) Draw(f *Frame, p DrawParam) {
	f.Draw(i, p)
}

// Destroy releases the underlying texture. It is a no-op on sub-images
// and canvas backed images, which do not own their texture.
//
func (i *Image) Destroy() {
	if !i.owned || i.tex == nil {
		return
	}
	device := i.ctx.dev.HalDevice()
	device.DestroyTextureView(i.view)
	device.DestroyTexture(i.tex)
	i.view = nil
	i.tex = nil
}
