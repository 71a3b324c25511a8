package graphics

import (
	"image"
	"math"
	"testing"

	"github.com/bsvercl/ggez"
)

func testImage(w, h int) *Image {
	return &Image{
		texW:   w,
		texH:   h,
		bounds: image.Rect(0, 0, w, h),
		src:    ggez.R(0, 0, 1, 1),
	}
}

func pointNear(a, b ggez.Point) bool {
	const eps = 1e-5
	return math.Abs(float64(a.X-b.X)) < eps && math.Abs(float64(a.Y-b.Y)) < eps
}

func TestDrawParamDefaults(t *testing.T) {
	in := DrawParam{}.instance(testImage(1, 1))
	want := defaultInstance()
	if in != want {
		t.Errorf("zero param on 1x1 image = %+v, want %+v", in, want)
	}
}

func TestDrawParamDest(t *testing.T) {
	in := DrawParam{Dest: ggez.Pt(100, 50)}.instance(testImage(64, 32))

	tests := []struct {
		name string
		p    ggez.Point
		want ggez.Point
	}{
		{"top left", ggez.Pt(0, 0), ggez.Pt(100, 50)},
		{"bottom right", ggez.Pt(1, 1), ggez.Pt(164, 82)},
		{"center", ggez.Pt(0.5, 0.5), ggez.Pt(132, 66)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := in.Transform.Apply(tt.p); !pointNear(got, tt.want) {
				t.Errorf("corner %v maps to %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestDrawParamScale(t *testing.T) {
	// Doubling a 1x1 image maps the unit quad corner (1, 0) to (2, 0).
	in := DrawParam{Scale: ggez.Pt(2, 2)}.instance(testImage(1, 1))
	if got := in.Transform.Apply(ggez.Pt(1, 0)); !pointNear(got, ggez.Pt(2, 0)) {
		t.Errorf("scaled corner = %v, want (2, 0)", got)
	}
}

func TestDrawParamSrc(t *testing.T) {
	// The right half of the image: the source rectangle narrows and the
	// sprite width halves.
	in := DrawParam{Src: ggez.R(0.5, 0, 0.5, 1)}.instance(testImage(64, 64))
	if !in.Src.Eq(ggez.R(0.5, 0, 0.5, 1)) {
		t.Errorf("src = %v, want (0.5, 0, 0.5, 1)", in.Src)
	}
	if got := in.Transform.Apply(ggez.Pt(1, 1)); !pointNear(got, ggez.Pt(32, 64)) {
		t.Errorf("corner = %v, want (32, 64)", got)
	}
}

func TestDrawParamSubImageSrc(t *testing.T) {
	// A sub-image composes its region into the param source rectangle.
	img := testImage(128, 128).SubImage(image.Rect(32, 32, 96, 96))
	in := DrawParam{}.instance(img)
	if !in.Src.Eq(ggez.R(0.25, 0.25, 0.5, 0.5)) {
		t.Errorf("sub-image src = %v, want (0.25, 0.25, 0.5, 0.5)", in.Src)
	}
	// Scaling follows the region size, not the texture size.
	if got := in.Transform.Apply(ggez.Pt(1, 1)); !pointNear(got, ggez.Pt(64, 64)) {
		t.Errorf("corner = %v, want (64, 64)", got)
	}

	// A nested sub-image composes again.
	nested := img.SubImage(image.Rect(0, 0, 32, 32))
	in = DrawParam{}.instance(nested)
	if !in.Src.Eq(ggez.R(0.25, 0.25, 0.25, 0.25)) {
		t.Errorf("nested src = %v, want (0.25, 0.25, 0.25, 0.25)", in.Src)
	}
}

func TestDrawParamOffsetRotation(t *testing.T) {
	// Rotating around the center keeps the center fixed.
	p := DrawParam{
		Dest:     ggez.Pt(10, 10),
		Rotation: math.Pi / 2,
		Offset:   ggez.Pt(0.5, 0.5),
	}
	in := p.instance(testImage(2, 2))
	if got := in.Transform.Apply(ggez.Pt(0.5, 0.5)); !pointNear(got, ggez.Pt(10, 10)) {
		t.Errorf("center = %v, want (10, 10)", got)
	}
	// The unrotated right edge midpoint lands below the center after a
	// quarter turn clockwise.
	if got := in.Transform.Apply(ggez.Pt(1, 0.5)); !pointNear(got, ggez.Pt(10, 11)) {
		t.Errorf("right edge = %v, want (10, 11)", got)
	}
}

func TestDrawParamColor(t *testing.T) {
	red := ggez.Color{R: 1, A: 1}
	in := DrawParam{Color: red}.instance(testImage(1, 1))
	if in.Color != red {
		t.Errorf("color = %v, want %v", in.Color, red)
	}
}

func TestDrawParamMatrix(t *testing.T) {
	m := DrawParam{Dest: ggez.Pt(5, 6)}.matrix()
	if got := m.Apply(ggez.Pt(1, 1)); !pointNear(got, ggez.Pt(6, 7)) {
		t.Errorf("translate only: (1,1) maps to %v, want (6, 7)", got)
	}

	m = DrawParam{Dest: ggez.Pt(5, 0), Scale: ggez.Pt(2, 2)}.matrix()
	if got := m.Apply(ggez.Pt(1, 1)); !pointNear(got, ggez.Pt(7, 2)) {
		t.Errorf("translate and scale: (1,1) maps to %v, want (7, 2)", got)
	}
}

func TestDrawParamDegenerate(t *testing.T) {
	tests := []struct {
		name string
		p    DrawParam
		img  *Image
		want bool
	}{
		{"normal", DrawParam{}, testImage(4, 4), false},
		{"zero x scale", DrawParam{Scale: ggez.Pt(0, 1)}, testImage(4, 4), true},
		{"zero width image", DrawParam{}, testImage(0, 4), true},
		{"empty src falls back to full", DrawParam{Src: ggez.R(0, 0, 1, 0)}, testImage(4, 4), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.degenerate(tt.img); got != tt.want {
				t.Errorf("degenerate = %v, want %v", got, tt.want)
			}
		})
	}
}
