package graphics

import (
	"github.com/pkg/errors"

	"github.com/bsvercl/ggez"
)

// SpriteIdx identifies a sprite added to a SpriteBatch.
type SpriteIdx int

// A SpriteBatch collects draw parameters for a single image so the whole
// set renders through one instance buffer. Sprites keep their index for
// later updates, making batches cheap to mutate between frames.
type SpriteBatch struct {
	img     *Image
	sprites []DrawParam
}

// NewSpriteBatch creates an empty batch drawing img.
func NewSpriteBatch(img *Image) *SpriteBatch {
	return &SpriteBatch{img: img}
}

// Add appends a sprite and returns its index.
func (b *SpriteBatch) Add(p DrawParam) SpriteIdx {
	b.sprites = append(b.sprites, p)
	return SpriteIdx(len(b.sprites) - 1)
}

// Set replaces the sprite at idx.
func (b *SpriteBatch) Set(idx SpriteIdx, p DrawParam) error {
	if idx < 0 || int(idx) >= len(b.sprites) {
		return errors.Wrapf(ggez.ErrRender, "sprite index %d out of bounds", idx)
	}
	b.sprites[idx] = p
	return nil
}

// Clear removes all sprites. Indices returned by Add become invalid.
func (b *SpriteBatch) Clear() {
	b.sprites = b.sprites[:0]
}

// Len returns the number of sprites in the batch.
func (b *SpriteBatch) Len() int { return len(b.sprites) }

// Image returns the image the batch draws.
func (b *SpriteBatch) Image() *Image { return b.img }

// SetImage changes the image the batch draws. Sprite parameters are kept.
func (b *SpriteBatch) SetImage(img *Image) { b.img = img }

// Draw renders every sprite in the batch. The outer parameter transforms
// the batch as a whole and its color modulates each sprite color.
func (b *SpriteBatch) Draw(f *Frame, p DrawParam) {
	if b.img == nil || len(b.sprites) == 0 {
		return
	}
	p = p.normalized()
	ctx := f.ctx
	ctx.PushTransform(ctx.Transform().Mul(p.matrix()))
	defer ctx.PopTransform()

	for _, sp := range b.sprites {
		if p.Color != ggez.White {
			sp = sp.normalized()
			sp.Color = sp.Color.Mul(p.Color)
		}
		f.Draw(b.img, sp)
	}
}
