// Command demo renders a sprite scene offscreen and writes it to a PNG
// file. It exercises the whole drawing pipeline without a window: sprite
// batching, tinted quads, additive blending, canvas compositing and pixel
// readback.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"math"
	"os"

	"github.com/bsvercl/ggez"
	"github.com/bsvercl/ggez/gpu"
	"github.com/bsvercl/ggez/graphics"
	"github.com/bsvercl/ggez/timer"
)

func main() {
	var (
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		samples = flag.Int("samples", 1, "multisample count (1 disables multisampling)")
		output  = flag.String("output", "demo.png", "output file")
	)
	flag.Parse()

	dev, err := gpu.Open()
	if err != nil {
		log.Fatalf("open device: %v", err)
	}
	defer dev.Close()

	ctx, err := graphics.NewContext(dev,
		graphics.WithBlendModes(graphics.BlendAdd),
		graphics.WithMultisample(*samples))
	if err != nil {
		log.Fatalf("create context: %v", err)
	}
	defer ctx.Destroy()

	clock := timer.New()
	img, err := render(ctx, *width, *height)
	if err != nil {
		log.Fatalf("render: %v", err)
	}
	elapsed := clock.Tick()

	f, err := os.Create(*output)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		log.Fatalf("encode %s: %v", *output, err)
	}
	log.Printf("rendered %dx%d to %s in %v", *width, *height, *output, elapsed)
}

func render(ctx *graphics.Context, width, height int) (*image.RGBA, error) {
	scene, err := graphics.NewCanvas(ctx, width, height)
	if err != nil {
		return nil, err
	}
	defer scene.Destroy()

	sprite, err := graphics.FromImage(ctx, checkerboard(64, 8), graphics.Filter(graphics.FilterNearest))
	if err != nil {
		return nil, err
	}
	defer sprite.Destroy()

	if err := drawScene(ctx, scene, sprite, width, height); err != nil {
		return nil, err
	}

	// Composite the scene onto the final canvas with a small inset copy,
	// picture-in-picture style.
	final, err := graphics.NewCanvas(ctx, width, height)
	if err != nil {
		return nil, err
	}
	defer final.Destroy()

	w, h := float32(width), float32(height)
	f := ctx.BeginFrame(final)
	f.Clear(ggez.Black)
	f.Blit(scene, ggez.R(0, 0, w, h))
	f.Blit(scene, ggez.R(w-w/4-8, 8, w/4, h/4))
	return f.ReadPixels()
}

func drawScene(ctx *graphics.Context, target *graphics.Canvas, sprite *graphics.Image, width, height int) error {
	w, h := float32(width), float32(height)
	cx, cy := w/2, h/2

	f := ctx.BeginFrame(target)
	f.Clear(ggez.Color{R: 0.08, G: 0.08, B: 0.16, A: 1})

	// background gradient out of a single quad
	f.DrawVertices(ctx.WhiteImage(), []graphics.Vertex{
		{Position: ggez.Pt(0, 0), TexCoord: ggez.Pt(0, 0), Color: ggez.Color{R: 0.10, G: 0.05, B: 0.25, A: 1}},
		{Position: ggez.Pt(w, 0), TexCoord: ggez.Pt(1, 0), Color: ggez.Color{R: 0.02, G: 0.10, B: 0.25, A: 1}},
		{Position: ggez.Pt(w, h), TexCoord: ggez.Pt(1, 1), Color: ggez.Color{R: 0.02, G: 0.02, B: 0.08, A: 1}},
		{Position: ggez.Pt(0, h), TexCoord: ggez.Pt(0, 1), Color: ggez.Color{R: 0.08, G: 0.02, B: 0.10, A: 1}},
	}, []uint16{0, 1, 2, 0, 2, 3})

	// ring of tinted sprites
	const ring = 12
	batch := graphics.NewSpriteBatch(sprite)
	for i := 0; i < ring; i++ {
		a := float32(i) / ring * 2 * math.Pi
		sin, cos := math.Sincos(float64(a))
		batch.Add(graphics.DrawParam{
			Dest:     ggez.Pt(cx+float32(cos)*h/3, cy+float32(sin)*h/3),
			Rotation: a,
			Offset:   ggez.Pt(0.5, 0.5),
			Color:    ggez.Color{R: 0.5 + 0.5*float32(cos), G: 0.7, B: 0.5 + 0.5*float32(sin), A: 1},
		})
	}
	batch.Draw(f, graphics.DrawParam{})

	// center piece: one quadrant of the sprite scaled up
	quadrant := sprite.SubImage(image.Rect(0, 0, 32, 32))
	f.Draw(quadrant, graphics.DrawParam{
		Dest:     ggez.Pt(cx, cy),
		Scale:    ggez.Pt(3, 3),
		Rotation: math.Pi / 8,
		Offset:   ggez.Pt(0.5, 0.5),
	})

	// additive glow dots along the ring
	ctx.SetBlendMode(graphics.BlendAdd)
	for i := 0; i < ring*2; i++ {
		a := float32(i) / (ring * 2) * 2 * math.Pi
		sin, cos := math.Sincos(float64(a))
		f.Draw(ctx.WhiteImage(), graphics.DrawParam{
			Dest:   ggez.Pt(cx+float32(cos)*h/2.5, cy+float32(sin)*h/2.5),
			Scale:  ggez.Pt(6, 6),
			Offset: ggez.Pt(0.5, 0.5),
			Color:  ggez.Color{R: 0.3, G: 0.25, B: 0.1, A: 1},
		})
	}
	ctx.SetBlendMode(graphics.BlendAlpha)

	// footer bars from the shared white image
	for i, c := range []ggez.Color{{R: 0.8, G: 0.2, B: 0.2, A: 1}, {R: 0.2, G: 0.8, B: 0.2, A: 1}, {R: 0.2, G: 0.2, B: 0.8, A: 1}} {
		f.Draw(ctx.WhiteImage(), graphics.DrawParam{
			Dest:  ggez.Pt(16+float32(i)*(w/3-16), h-32),
			Scale: ggez.Pt(w/3-32, 16),
			Color: c,
		})
	}

	return f.End()
}

// checkerboard builds a two-tone test pattern.
func checkerboard(size, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := img.PixOffset(x, y)
			if (x/cell+y/cell)%2 == 0 {
				img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0xe8, 0xd8, 0x30, 0xff
			} else {
				img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0x20, 0x60, 0xa8, 0xff
			}
		}
	}
	return img
}
