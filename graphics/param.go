package graphics

import "github.com/bsvercl/ggez"

// DrawParam describes where and how an image is drawn. The zero value
// draws the whole image at the origin, unscaled and untinted.
type DrawParam struct {
	// Src selects the drawn portion of the image as fractions of its
	// size. The zero rectangle selects the whole image.
	Src ggez.Rect

	// Dest is the position of the sprite origin in world coordinates.
	Dest ggez.Point

	// Rotation is the clockwise rotation around the offset point, in
	// radians.
	Rotation float32

	// Scale multiplies the sprite size. The zero point means no scaling.
	Scale ggez.Point

	// Offset shifts the sprite origin, as fractions of the sprite size.
	// (0.5, 0.5) rotates and scales around the center.
	Offset ggez.Point

	// Color modulates the sampled texels. The zero color means no
	// tinting.
	Color ggez.Color
}

// normalized resolves the zero-value defaults.
func (p DrawParam) normalized() DrawParam {
	if p.Src.Empty() {
		p.Src = ggez.R(0, 0, 1, 1)
	}
	if p.Scale == (ggez.Point{}) {
		p.Scale = ggez.Pt(1, 1)
	}
	if p.Color == (ggez.Color{}) {
		p.Color = ggez.White
	}
	return p
}

// instance resolves the param against img into per-instance shader
// attributes. The transform maps the unit quad to a rectangle of the
// selected source size at Dest, so an unscaled sprite renders at its
// pixel dimensions:
//
//	translate(dest) * rotate(rotation) * scale(scale * size) * translate(-offset)
func (p DrawParam) instance(img *Image) Instance {
	p = p.normalized()

	src := ggez.R(
		img.src.X+p.Src.X*img.src.W,
		img.src.Y+p.Src.Y*img.src.H,
		p.Src.W*img.src.W,
		p.Src.H*img.src.H,
	)

	w := p.Scale.X * p.Src.W * float32(img.Width())
	h := p.Scale.Y * p.Src.H * float32(img.Height())

	tr := ggez.Translation(p.Dest.X, p.Dest.Y)
	if p.Rotation != 0 {
		tr = tr.Mul(ggez.Rotation(p.Rotation))
	}
	tr = tr.Mul(ggez.Scaling(w, h))
	if p.Offset != (ggez.Point{}) {
		tr = tr.Mul(ggez.Translation(-p.Offset.X, -p.Offset.Y))
	}

	return Instance{Src: src, Transform: tr, Color: p.Color}
}

// matrix builds the bare transform of the param without any image
// scaling, for transforming a whole batch of sprites.
func (p DrawParam) matrix() ggez.Matrix {
	p = p.normalized()
	m := ggez.Translation(p.Dest.X, p.Dest.Y)
	if p.Rotation != 0 {
		m = m.Mul(ggez.Rotation(p.Rotation))
	}
	if p.Scale != ggez.Pt(1, 1) {
		m = m.Mul(ggez.Scaling(p.Scale.X, p.Scale.Y))
	}
	if p.Offset != (ggez.Point{}) {
		m = m.Mul(ggez.Translation(-p.Offset.X, -p.Offset.Y))
	}
	return m
}

// degenerate reports whether the param resolves to a zero-area sprite.
func (p DrawParam) degenerate(img *Image) bool {
	p = p.normalized()
	return p.Scale.X*p.Src.W*float32(img.Width()) == 0 ||
		p.Scale.Y*p.Src.H*float32(img.Height()) == 0
}
