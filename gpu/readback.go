package gpu

import (
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/pkg/errors"
)

// copyPitchAlignment is the row alignment required by texture to buffer
// copies on WebGPU class APIs.
const copyPitchAlignment = 256

const readbackTimeout = 5 * time.Second

// ReadRenderTarget copies the contents of a render target texture into a
// tightly packed byte slice, 4 bytes per pixel in the texture's own channel
// order. It submits its own commands and blocks until the copy completes.
func (d *Device) ReadRenderTarget(tex hal.Texture, width, height int) ([]byte, error) {
	w, h := uint32(width), uint32(height)
	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ uint32(copyPitchAlignment-1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := d.CreateBuffer("readback staging", stagingSize,
		gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	defer d.device.DestroyBuffer(staging)

	enc, err := d.NewEncoder("readback")
	if err != nil {
		return nil, err
	}

	// The copy source layout differs from the attachment layout on some
	// backends; transition explicitly both ways so the texture can be
	// rendered to again afterwards.
	enc.encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	enc.encoder.CopyTextureToBuffer(tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	enc.encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	if err := enc.Submit(readbackTimeout); err != nil {
		return nil, err
	}

	padded := make([]byte, stagingSize)
	if err := d.queue.ReadBuffer(staging, 0, padded); err != nil {
		return nil, errors.Wrap(err, "read staging buffer")
	}
	if alignedBytesPerRow == bytesPerRow {
		return padded, nil
	}
	pixels := make([]byte, int(bytesPerRow)*height)
	for y := 0; y < height; y++ {
		src := padded[y*int(alignedBytesPerRow):]
		copy(pixels[y*int(bytesPerRow):(y+1)*int(bytesPerRow)], src)
	}
	return pixels, nil
}
