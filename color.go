package ggez

import "image/color"

// Color is an RGBA color with straight (non premultiplied) alpha, all
// components in the range [0, 1]. It implements color.Color.
type Color struct {
	R, G, B, A float32
}

var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
)

// RGB returns an opaque Color from 8 bit components.
func RGB(r, g, b uint8) Color {
	return Color{float32(r) / 0xff, float32(g) / 0xff, float32(b) / 0xff, 1}
}

// RGBA returns a Color from 8 bit components. The alpha is straight, not
// premultiplied.
func RGBA(r, g, b, a uint8) Color {
	return Color{float32(r) / 0xff, float32(g) / 0xff, float32(b) / 0xff, float32(a) / 0xff}
}

// ColorU32 returns the Color packed in rgba as 0xRRGGBBAA.
func ColorU32(rgba uint32) Color {
	return RGBA(uint8(rgba>>24), uint8(rgba>>16), uint8(rgba>>8), uint8(rgba))
}

// RGBA implements color.Color. The returned components are alpha
// premultiplied as required by the color.Color contract.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R*c.A*0xffff + 0.5)
	g = uint32(c.G*c.A*0xffff + 0.5)
	b = uint32(c.B*c.A*0xffff + 0.5)
	a = uint32(c.A*0xffff + 0.5)
	return
}

// RGBA8 returns the color as straight alpha 8 bit components.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return uint8(c.R*0xff + 0.5), uint8(c.G*0xff + 0.5), uint8(c.B*0xff + 0.5), uint8(c.A*0xff + 0.5)
}

// U32 returns the color packed as 0xRRGGBBAA.
func (c Color) U32() uint32 {
	r, g, b, a := c.RGBA8()
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a)
}

// Mul returns the component-wise product of c and o.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// ColorModel converts any color.Color to a Color; i.e. the result can safely
// be asserted to a Color.
var ColorModel = color.ModelFunc(colorModel)

func colorModel(c color.Color) color.Color {
	if c, ok := c.(Color); ok {
		return c
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Color{}
	}
	return Color{
		R: float32(r) / float32(a),
		G: float32(g) / float32(a),
		B: float32(b) / float32(a),
		A: float32(a) / 0xffff,
	}
}
