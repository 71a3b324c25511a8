// Package text renders strings with vector fonts through a glyph atlas.
//
// A Drawer rasterizes glyphs on demand into atlas pages shared by all draws
// and renders them as sprites. Glyph positions are quantized to a fixed
// number of sub-pixel positions so the cache stays small.
package text

import (
	"image"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/bsvercl/ggez"
	"github.com/bsvercl/ggez/graphics"
)

const (
	// see subPixels() in github.com/golang/freetype/truetype/face.go
	SubPixelsX    = 8
	subPixelBiasX = 4
	subPixelMaskX = -8
	SubPixelsY    = 8
	subPixelBiasY = 4
	subPixelMaskY = -8
)

// AtlasSize is the edge size of font glyph atlas pages. It must not exceed
// the maximum 2D texture dimension of the device.
//
var AtlasSize int = 1024

// Hinting selects how to quantize a vector font's glyph nodes.
//
// Not all fonts support hinting.
//
// This is a convenience duplicate of golang.org/x/image/font#Hinting
//
type Hinting int

const (
	HintingNone     Hinting = Hinting(font.HintingNone)
	HintingVertical         = Hinting(font.HintingVertical)
	HintingFull             = Hinting(font.HintingFull)
)

// A Glyph is a glyph cached in a Drawer's atlas. Image is a sub-image of
// an atlas page and Origin the position of the glyph origin relative to
// the image's top left corner.
//
type Glyph struct {
	Image  *graphics.Image
	Origin image.Point
}

// A Drawer draws text using a single font face, caching rasterized glyphs
// in atlas pages created on its graphics context.
//
// Drawers are not safe for concurrent use.
//
type Drawer struct {
	ctx    *graphics.Context
	face   font.Face
	filter graphics.FilterMode
	glyphs []Glyph
	cache  map[cacheKey]cacheValue
	pages  []*graphics.Image
	p      image.Point // current point in the last page
	lh     int         // line height in the last page
}

type cacheKey struct {
	r  rune
	fx uint8
	fy uint8
}

type cacheValue struct {
	index int // glyph index
	adv   fixed.Int26_6
}

// NewDrawer returns a Drawer rendering f with atlas pages created on ctx
// using the given sampling filter.
//
func NewDrawer(ctx *graphics.Context, f font.Face, filter graphics.FilterMode) *Drawer {
	return &Drawer{
		ctx:    ctx,
		face:   f,
		filter: filter,
		cache:  make(map[cacheKey]cacheValue),
	}
}

// Face returns the font face used by the Drawer.
func (d *Drawer) Face() font.Face {
	return d.face
}

// DrawBytes draws s on f with the dot at (x, y) and returns the advance in
// pixels.
//
func (d *Drawer) DrawBytes(f *graphics.Frame, x, y float32, s []byte, c ggez.Color) (advance float32) {
	dot := fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
	sp := dot.X
	prev := rune(-1)
	for len(s) > 0 {
		r, sz := utf8.DecodeRune(s)
		s = s[sz:]
		if prev >= 0 {
			dot.X += d.face.Kern(prev, r)
		}
		dp, g, advance := d.Glyph(dot, r)
		if g != nil {
			f.Draw(g.Image, graphics.DrawParam{
				Dest:  ggez.Pt(float32(dp.X-g.Origin.X), float32(dp.Y-g.Origin.Y)),
				Color: c,
			})
		}
		dot.X += advance
		prev = r
	}
	return float32(dot.X-sp) / 64
}

// DrawString draws s on f with the dot at (x, y) and returns the advance
// in pixels.
//
func (d *Drawer) DrawString(f *graphics.Frame, x, y float32, s string, c ggez.Color) (advance float32) {
	dot := fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
	sp := dot.X
	prev := rune(-1)
	for _, r := range s {
		if prev >= 0 {
			dot.X += d.face.Kern(prev, r)
		}
		dp, g, advance := d.Glyph(dot, r)
		if g != nil {
			f.Draw(g.Image, graphics.DrawParam{
				Dest:  ggez.Pt(float32(dp.X-g.Origin.X), float32(dp.Y-g.Origin.Y)),
				Color: c,
			})
		}
		dot.X += advance
		prev = r
	}
	return float32(dot.X-sp) / 64
}

func (d *Drawer) currentPage() *graphics.Image {
	l := len(d.pages)
	if l == 0 {
		return nil
	}
	return d.pages[l-1]
}

// Glyph returns the cached glyph for r drawn at dot, rasterizing and
// uploading it on first use. dp is the quantized pixel position to draw
// the glyph at. The returned Glyph is nil for empty glyphs (such as
// spaces) and for runes the face has no glyph for.
//
func (d *Drawer) Glyph(dot fixed.Point26_6, r rune) (dp image.Point, g *Glyph, advance fixed.Int26_6) {
	dx, dy := (dot.X+subPixelBiasX)&subPixelMaskX, (dot.Y+subPixelBiasY)&subPixelMaskY
	ix, iy := int(dx>>6), int(dy>>6)

	key := cacheKey{r, uint8(dx & 0x3f), uint8(dy & 0x3f)}
	if v, ok := d.cache[key]; ok {
		if idx := v.index; idx >= 0 {
			return image.Point{X: ix, Y: iy}, &d.glyphs[idx], v.adv
		}
		return image.Point{}, nil, v.adv
	}

	dr, mask, maskp, advance, ok := d.face.Glyph(fixed.Point26_6{X: dot.X & 0x3f, Y: dot.Y & 0x3f}, r)
	if !ok {
		return image.Point{}, nil, 0
	}
	sz := dr.Size()
	if sz.X == 0 || sz.Y == 0 {
		// empty glyph
		d.cache[key] = cacheValue{-1, advance}
		return image.Point{}, nil, advance
	}
	// adjust point of origin to account for rounding when quantizing subPixels
	org := image.Pt(-dr.Min.X+(ix-dot.X.Floor()), -dr.Min.Y+(iy-dot.Y.Floor()))
	tr := dr.Add(image.Pt(-dr.Min.X+d.p.X, -dr.Min.Y+d.p.Y))
	t := d.currentPage()
	if t != nil {
		if tr.Max.X > t.Width() {
			d.p = image.Pt(0, d.p.Y+d.lh)
			tr = tr.Add(image.Pt(-tr.Min.X, d.lh))
		}
		if tr.Max.Y > t.Height() {
			t = nil
		}
	}
	if t == nil {
		var err error
		t, err = graphics.NewImage(d.ctx, AtlasSize, AtlasSize, graphics.Filter(d.filter))
		if err != nil {
			ggez.Logger().Warn("glyph atlas page", "err", err)
			return image.Point{}, nil, advance
		}
		d.pages = append(d.pages, t)
		d.p = image.Point{}
		tr = dr.Add(image.Pt(-dr.Min.X, -dr.Min.Y))
		d.lh = 0
	}
	if err := t.SetSubImage(tr, mask, maskp); err != nil {
		ggez.Logger().Warn("glyph upload", "err", err)
		return image.Point{}, nil, advance
	}
	d.p.X += tr.Dx() + 1
	if h := tr.Dy() + 1; h > d.lh {
		d.lh = h
	}
	index := len(d.glyphs)
	d.glyphs = append(d.glyphs, Glyph{Image: t.SubImage(tr), Origin: org})
	d.cache[key] = cacheValue{index, advance}
	return image.Point{X: ix, Y: iy}, &d.glyphs[index], advance
}

// Close destroys the atlas pages and closes the font face.
func (d *Drawer) Close() error {
	for _, t := range d.pages {
		t.Destroy()
	}
	d.pages = nil
	return d.face.Close()
}

// BoundBytes returns the bounding box of s, drawn at a dot equal to the
// origin, as well as the advance.
//
// It is equivalent to BoundString(string(s)) but may be more efficient.
//
func (d *Drawer) BoundBytes(s []byte) (bounds fixed.Rectangle26_6, advance fixed.Int26_6) {
	return font.BoundBytes(d.face, s)
}

// BoundString returns the bounding box of s, drawn at a dot equal to the
// origin, as well as the advance.
//
func (d *Drawer) BoundString(s string) (bounds fixed.Rectangle26_6, advance fixed.Int26_6) {
	return font.BoundString(d.face, s)
}

// MeasureBytes returns how far dot would advance by drawing s.
//
func (d *Drawer) MeasureBytes(s []byte) (advance fixed.Int26_6) {
	return font.MeasureBytes(d.face, s)
}

// MeasureString returns how far dot would advance by drawing s.
//
func (d *Drawer) MeasureString(s string) (advance fixed.Int26_6) {
	return font.MeasureString(d.face, s)
}
