package asset

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/xerrors"

	"github.com/bsvercl/ggez/graphics"
)

// imgData is a decoded image that has not been uploaded to the GPU yet.
// Preloading stops here so it can run off the graphics context.
type imgData struct {
	src image.Image
}

func (*imgData) Close() error { return nil }

type img struct {
	i *graphics.Image
}

func (t *img) Close() error {
	t.i.Destroy()
	return nil
}

// ImagePath returns an Option that sets the default image path.
//
func ImagePath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.imagePath = name
	})
}

func loadImage(r io.Reader, name string) (interface{}, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return &imgData{src}, nil
}

// Image returns the named image asset as a texture on ctx, creating the
// texture on first call. Subsequent calls apply params to the cached
// texture, so an image asset is always tied to the context it was first
// requested on.
//
func (m *Manager) Image(ctx *graphics.Context, name string, params ...graphics.ImageParameter) (*graphics.Image, error) {
	m.m.Lock()
	defer m.m.Unlock()
	data, err := m.get(Image(name))
	if err != nil {
		return nil, err
	}
	switch t := data.(type) {
	case *img:
		t.i.Parameters(params...)
		return t.i, nil
	case *imgData:
		i, err := graphics.FromImage(ctx, t.src, params...)
		if err != nil {
			return nil, xerrors.Errorf("load %s: %w", Image(name), err)
		}
		m.assets[Image(name)] = &img{i}
		return i, nil
	default:
		return nil, xerrors.Errorf("asset %s is not an image", name)
	}
}
