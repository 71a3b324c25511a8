package ggez

import (
	"fmt"
	"image"
)

type Point struct {
	X float32
	Y float32
}

func PtPt(p image.Point) Point { return Point{float32(p.X), float32(p.Y)} }
func Pt(x, y float32) Point    { return Point{x, y} }
func PtI(x, y int) Point       { return Point{float32(x), float32(y)} }

func (p Point) Add(pt Point) Point  { return Point{p.X + pt.X, p.Y + pt.Y} }
func (p Point) Sub(pt Point) Point  { return Point{p.X - pt.X, p.Y - pt.Y} }
func (p Point) Div(k float32) Point { return Point{p.X / k, p.Y / k} }
func (p Point) Mul(k float32) Point { return Point{p.X * k, p.Y * k} }
func (p Point) Eq(pt Point) bool    { return p.X == pt.X && p.Y == pt.Y }

func (p Point) In(r Rect) bool {
	return r.X <= p.X && p.X < r.X+r.W &&
		r.Y <= p.Y && p.Y < r.Y+r.H
}

func (p Point) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", p.X, p.Y)
}

// Rect is an axis aligned rectangle with origin (X, Y) and size (W, H).
// The origin is the top left corner in the usual screen coordinate system
// where Y points down.
//
// Texture source rectangles are expressed as fractions of the texture
// dimensions: the unit rectangle (0, 0, 1, 1) covers the whole texture.
type Rect struct {
	X float32
	Y float32
	W float32
	H float32
}

func R(x, y, w, h float32) Rect { return Rect{x, y, w, h} }
func RI(x, y, w, h int) Rect {
	return Rect{float32(x), float32(y), float32(w), float32(h)}
}
func RectRt(r image.Rectangle) Rect {
	return Rect{float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy())}
}

func (r Rect) Left() float32   { return r.X }
func (r Rect) Right() float32  { return r.X + r.W }
func (r Rect) Top() float32    { return r.Y }
func (r Rect) Bottom() float32 { return r.Y + r.H }
func (r Rect) Size() Point     { return Point{r.W, r.H} }
func (r Rect) Center() Point   { return Point{r.X + r.W/2, r.Y + r.H/2} }
func (r Rect) Empty() bool     { return r.W <= 0 || r.H <= 0 }
func (r Rect) Eq(s Rect) bool  { return r == s }

func (r Rect) Translate(p Point) Rect {
	return Rect{r.X + p.X, r.Y + p.Y, r.W, r.H}
}

func (r Rect) Scale(sx, sy float32) Rect {
	return Rect{r.X, r.Y, r.W * sx, r.H * sy}
}

func (r Rect) Overlaps(s Rect) bool {
	return !r.Empty() && !s.Empty() &&
		r.X < s.X+s.W && s.X < r.X+r.W &&
		r.Y < s.Y+s.H && s.Y < r.Y+r.H
}

// Combine returns the smallest rectangle containing both r and s.
func (r Rect) Combine(s Rect) Rect {
	x, y := min(r.X, s.X), min(r.Y, s.Y)
	return Rect{
		X: x,
		Y: y,
		W: max(r.Right(), s.Right()) - x,
		H: max(r.Bottom(), s.Bottom()) - y,
	}
}

// Fraction returns r expressed as a fraction of base, mapping base onto the
// unit rectangle. It is used to derive texture coordinates from pixel
// coordinates.
func (r Rect) Fraction(base Rect) Rect {
	return Rect{
		X: (r.X - base.X) / base.W,
		Y: (r.Y - base.Y) / base.H,
		W: r.W / base.W,
		H: r.H / base.H,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.2f,%.2f %.2fx%.2f)", r.X, r.Y, r.W, r.H)
}
