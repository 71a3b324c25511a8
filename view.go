package ggez

import "image"

// View maps a rectangular world region onto a target framebuffer region.
// It implements a 2D camera: adjust Origin, Zoom and Angle to pan, zoom
// and rotate, then feed ProjectionMatrix to the renderer.
//
// The zero value is not usable: Zoom must be non zero.
type View struct {
	Bounds image.Rectangle // bounds of the view on the target, in pixels
	Origin Point           // world coordinates of the top left corner
	Zoom   float32
	Angle  float32 // clockwise rotation about the view center, in radians
}

// CenterOn moves the view origin so that the world point (x, y) ends up at
// the center of the view.
func (v *View) CenterOn(x, y float32) {
	v.Origin = Point{
		X: x - float32(v.Bounds.Dx())/(2*v.Zoom),
		Y: y - float32(v.Bounds.Dy())/(2*v.Zoom),
	}
}

// ProjectionMatrix returns the projection matrix mapping world coordinates
// to clip space for the view.
func (v *View) ProjectionMatrix() Matrix {
	sX, sY := float32(v.Bounds.Dx()), float32(v.Bounds.Dy())
	if v.Angle != 0 {
		// Rotation happens in view pixel space about the view center,
		// after pan and zoom.
		cx, cy := sX/2, sY/2
		rot := Translation(cx, cy).Mul(Rotation(v.Angle)).Mul(Translation(-cx, -cy))
		return Ortho(0, sX, sY, 0, -1, 1).
			Mul(rot).
			Mul(Scaling(v.Zoom, v.Zoom)).
			Mul(Translation(-v.Origin.X, -v.Origin.Y))
	}
	z2 := v.Zoom * 2
	return Matrix{
		z2 / sX, 0, 0, 0,
		0, -z2 / sY, 0, 0,
		0, 0, -1, 0,
		-(sX + v.Origin.X*z2) / sX, (sY + v.Origin.Y*z2) / sY, 0, 1,
	}
}

// ViewToWorld converts view pixel coordinates, relative to the top left
// corner of the view, to world coordinates.
func (v *View) ViewToWorld(p image.Point) Point {
	pt := PtPt(p)
	if v.Angle != 0 {
		c := Pt(float32(v.Bounds.Dx())/2, float32(v.Bounds.Dy())/2)
		pt = Rotation(-v.Angle).Apply(pt.Sub(c)).Add(c)
	}
	return Point{
		X: pt.X/v.Zoom + v.Origin.X,
		Y: pt.Y/v.Zoom + v.Origin.Y,
	}
}
