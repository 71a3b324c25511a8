package text

import (
	"image"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/bsvercl/ggez"
	"github.com/bsvercl/ggez/graphics"
)

// stubFace produces empty glyphs with a fixed advance. Empty glyphs never
// reach the atlas, so a Drawer on it needs no graphics context.
type stubFace struct {
	adv  fixed.Int26_6
	kern fixed.Int26_6
}

func (stubFace) Close() error { return nil }

func (s stubFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	return image.Rectangle{}, nil, image.Point{}, s.adv, true
}

func (s stubFace) GlyphBounds(r rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	return fixed.Rectangle26_6{}, s.adv, true
}

func (s stubFace) GlyphAdvance(r rune) (fixed.Int26_6, bool) { return s.adv, true }

func (s stubFace) Kern(r0, r1 rune) fixed.Int26_6 { return s.kern }

func (stubFace) Metrics() font.Metrics { return font.Metrics{} }

func TestDrawStringAdvance(t *testing.T) {
	d := NewDrawer(nil, stubFace{adv: 7 << 6}, graphics.FilterNearest)
	if got := d.DrawString(nil, 0, 0, "abc", ggez.White); got != 21 {
		t.Errorf("advance = %g, want 21", got)
	}
	if got := d.DrawBytes(nil, 0, 0, []byte("abcd"), ggez.White); got != 28 {
		t.Errorf("advance = %g, want 28", got)
	}
}

func TestDrawStringKern(t *testing.T) {
	d := NewDrawer(nil, stubFace{adv: 7 << 6, kern: 1 << 6}, graphics.FilterNearest)
	// Two kern pairs between three runes.
	if got := d.DrawString(nil, 0, 0, "abc", ggez.White); got != 23 {
		t.Errorf("advance = %g, want 23", got)
	}
}

func TestGlyphCachesEmptyGlyphs(t *testing.T) {
	d := NewDrawer(nil, stubFace{adv: 7 << 6}, graphics.FilterNearest)
	d.DrawString(nil, 0, 0, "aab", ggez.White)
	if len(d.cache) != 2 {
		t.Errorf("cache holds %d entries, want 2", len(d.cache))
	}
	for k, v := range d.cache {
		if v.index != -1 {
			t.Errorf("cache entry %v has glyph index %d, want -1", k, v.index)
		}
		if v.adv != 7<<6 {
			t.Errorf("cache entry %v advance = %v, want %v", k, v.adv, fixed.Int26_6(7<<6))
		}
	}
}

func TestGlyphMissingRune(t *testing.T) {
	d := NewDrawer(nil, basicFaceNoGlyphs{}, graphics.FilterNearest)
	dp, g, adv := d.Glyph(fixed.Point26_6{}, 'x')
	if g != nil || adv != 0 || dp != (image.Point{}) {
		t.Errorf("Glyph for missing rune = (%v, %v, %v), want zero values", dp, g, adv)
	}
}

type basicFaceNoGlyphs struct{ stubFace }

func (basicFaceNoGlyphs) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	return image.Rectangle{}, nil, image.Point{}, 0, false
}

func TestMeasureAndBound(t *testing.T) {
	d := NewDrawer(nil, basicfont.Face7x13, graphics.FilterNearest)
	defer d.Close()

	if got := d.MeasureString("hello"); got != 35<<6 {
		t.Errorf("MeasureString = %v, want %v", got, fixed.Int26_6(35<<6))
	}
	if got := d.MeasureBytes([]byte("hi")); got != 14<<6 {
		t.Errorf("MeasureBytes = %v, want %v", got, fixed.Int26_6(14<<6))
	}
	if _, adv := d.BoundString("go"); adv != 14<<6 {
		t.Errorf("BoundString advance = %v, want %v", adv, fixed.Int26_6(14<<6))
	}
	if _, adv := d.BoundBytes([]byte("go")); adv != 14<<6 {
		t.Errorf("BoundBytes advance = %v, want %v", adv, fixed.Int26_6(14<<6))
	}
}

func TestHintingValues(t *testing.T) {
	tests := []struct {
		h    Hinting
		want font.Hinting
	}{
		{HintingNone, font.HintingNone},
		{HintingVertical, font.HintingVertical},
		{HintingFull, font.HintingFull},
	}
	for _, tt := range tests {
		if font.Hinting(tt.h) != tt.want {
			t.Errorf("Hinting %d maps to %v, want %v", tt.h, font.Hinting(tt.h), tt.want)
		}
	}
}
